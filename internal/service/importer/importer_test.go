package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, cells := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, addr, &cells))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseResidents(t *testing.T) {
	buf := sheetBytes(t, [][]string{
		{"Full Name", "Gender", "Phone", "WhatsApp", "Student ID", "Programme", "Level"},
		{"Ama Mensah", "F", "0241234567", "0241234567", "UG10001", "BSc Nursing", "200"},
		{"Kofi Boateng", "male", "0209876543", "", "UG10002", "BA Economics", "100"},
	})

	res, err := ParseResidents(buf)
	require.NoError(t, err)
	require.Len(t, res.Residents, 2)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, "Ama Mensah", res.Residents[0].FullName)
	assert.Equal(t, "Female", res.Residents[0].Gender)
	assert.Equal(t, "UG10001", res.Residents[0].StudentID)
	assert.Equal(t, "BSc Nursing", res.Residents[0].Program)

	// Gender shorthand is normalized.
	assert.Equal(t, "Male", res.Residents[1].Gender)
}

func TestParseResidentsSkipsBadRowsKeepsGood(t *testing.T) {
	buf := sheetBytes(t, [][]string{
		{"name", "email", "phone"},
		{"Yaw Owusu", "yaw@example.com", "0501112222"},
		{"", "no-name@example.com", "0503334444"},
		{"Esi Asante", "not-an-email", "0505556666"},
	})

	res, err := ParseResidents(buf)
	require.NoError(t, err)
	require.Len(t, res.Residents, 1)
	assert.Equal(t, "Yaw Owusu", res.Residents[0].FullName)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 3, res.Skipped[0].Row)
	assert.Equal(t, 4, res.Skipped[1].Row)
}

func TestParseResidentsIgnoresBlankLines(t *testing.T) {
	buf := sheetBytes(t, [][]string{
		{"Full Name"},
		{"Adwoa Safo"},
		{""},
		{"Kwame Nkrumah Jr"},
	})

	res, err := ParseResidents(buf)
	require.NoError(t, err)
	assert.Len(t, res.Residents, 2)
	assert.Empty(t, res.Skipped)
}

func TestParseResidentsErrors(t *testing.T) {
	t.Run("not a spreadsheet", func(t *testing.T) {
		_, err := ParseResidents(bytes.NewReader([]byte("plain text")))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		buf := sheetBytes(t, [][]string{{"Full Name", "Phone"}})
		_, err := ParseResidents(buf)
		assert.ErrorIs(t, err, ErrNoRows)
	})

	t.Run("missing name column", func(t *testing.T) {
		buf := sheetBytes(t, [][]string{
			{"Phone", "Email"},
			{"0241234567", "a@b.com"},
		})
		_, err := ParseResidents(buf)
		assert.ErrorContains(t, err, "full name")
	})
}
