package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRoomRepo(db)

	mock.ExpectExec(`INSERT INTO rooms`).
		WithArgs("G1", "Old", 3, "3-bed", "Ground").
		WillReturnResult(sqlmock.NewResult(42, 1))

	room := &Room{RoomNo: "G1", Block: "Old", Capacity: 3, Type: "3-bed", Floor: "Ground"}
	require.NoError(t, repo.Create(context.Background(), room))
	assert.Equal(t, int64(42), room.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepoCreateDuplicateRoomNo(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRoomRepo(db)

	mock.ExpectExec(`INSERT INTO rooms`).
		WithArgs("G1", "Old", 3, "3-bed", "Ground").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'G1' for key 'room_no'"})

	room := &Room{RoomNo: "G1", Block: "Old", Capacity: 3, Type: "3-bed", Floor: "Ground"}
	err = repo.Create(context.Background(), room)
	assert.ErrorIs(t, err, ErrRoomExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
