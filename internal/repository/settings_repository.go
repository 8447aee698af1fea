package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Settings is the single app_settings row (fixed id 1). The fee override and
// feature toggle fields are stored and editable but deliberately not
// consulted by the fee policy or any other code path.
type Settings struct {
	HostelName          string  `json:"hostel_name"`
	HostelAddress       string  `json:"hostel_address"`
	HostelPhone         string  `json:"hostel_phone"`
	HostelEmail         string  `json:"hostel_email"`
	ManagerName         string  `json:"manager_name"`
	CurrentAcademicYear string  `json:"current_academic_year"`
	SemesterStartDate   *string `json:"semester_start_date,omitempty"`
	SemesterEndDate     *string `json:"semester_end_date,omitempty"`
	OldBuildingFee      float64 `json:"old_building_fee"`
	NewBuildingFee      float64 `json:"new_building_fee"`
	ExecutiveFee        float64 `json:"executive_fee"`
	TotalOldRooms       int     `json:"total_old_rooms"`
	TotalNewRooms       int     `json:"total_new_rooms"`
	TotalExecutiveRooms int     `json:"total_executive_rooms"`

	AllowOnlineApplications bool `json:"allow_online_applications"`
	MaintenanceEmailAlerts  bool `json:"maintenance_email_alerts"`
	AutoAssignRooms         bool `json:"auto_assign_rooms"`
	RequireGuarantor        bool `json:"require_guarantor"`

	UpdatedAt time.Time `json:"updated_at"`
}

// settingsRowID is the fixed primary key of the single settings row.
const settingsRowID = 1

// SettingsRepo provides access to the app_settings singleton row.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo constructs a SettingsRepo with the given DB handle.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves the settings row, or ErrSettingsNotFound when none has been
// saved yet.
func (r *SettingsRepo) Get(ctx context.Context) (*Settings, error) {
	const q = `SELECT hostel_name, hostel_address, hostel_phone, hostel_email, manager_name,
	                  current_academic_year, semester_start_date, semester_end_date,
	                  old_building_fee, new_building_fee, executive_fee,
	                  total_old_rooms, total_new_rooms, total_executive_rooms,
	                  allow_online_applications, maintenance_email_alerts, auto_assign_rooms, require_guarantor,
	                  updated_at
	           FROM app_settings WHERE id = ?`
	var s Settings
	var semStart, semEnd sql.NullString
	err := r.db.QueryRowContext(ctx, q, settingsRowID).Scan(
		&s.HostelName, &s.HostelAddress, &s.HostelPhone, &s.HostelEmail, &s.ManagerName,
		&s.CurrentAcademicYear, &semStart, &semEnd,
		&s.OldBuildingFee, &s.NewBuildingFee, &s.ExecutiveFee,
		&s.TotalOldRooms, &s.TotalNewRooms, &s.TotalExecutiveRooms,
		&s.AllowOnlineApplications, &s.MaintenanceEmailAlerts, &s.AutoAssignRooms, &s.RequireGuarantor,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		if IsMissingTable(err) {
			return nil, ErrTableMissing
		}
		return nil, err
	}
	if semStart.Valid {
		v := semStart.String
		s.SemesterStartDate = &v
	}
	if semEnd.Valid {
		v := semEnd.String
		s.SemesterEndDate = &v
	}
	return &s, nil
}

// Upsert writes the settings row, creating it with the fixed id on first
// save.
func (r *SettingsRepo) Upsert(ctx context.Context, s *Settings) error {
	const q = `INSERT INTO app_settings
	           (id, hostel_name, hostel_address, hostel_phone, hostel_email, manager_name,
	            current_academic_year, semester_start_date, semester_end_date,
	            old_building_fee, new_building_fee, executive_fee,
	            total_old_rooms, total_new_rooms, total_executive_rooms,
	            allow_online_applications, maintenance_email_alerts, auto_assign_rooms, require_guarantor)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	            hostel_name = VALUES(hostel_name), hostel_address = VALUES(hostel_address),
	            hostel_phone = VALUES(hostel_phone), hostel_email = VALUES(hostel_email),
	            manager_name = VALUES(manager_name),
	            current_academic_year = VALUES(current_academic_year),
	            semester_start_date = VALUES(semester_start_date), semester_end_date = VALUES(semester_end_date),
	            old_building_fee = VALUES(old_building_fee), new_building_fee = VALUES(new_building_fee),
	            executive_fee = VALUES(executive_fee),
	            total_old_rooms = VALUES(total_old_rooms), total_new_rooms = VALUES(total_new_rooms),
	            total_executive_rooms = VALUES(total_executive_rooms),
	            allow_online_applications = VALUES(allow_online_applications),
	            maintenance_email_alerts = VALUES(maintenance_email_alerts),
	            auto_assign_rooms = VALUES(auto_assign_rooms),
	            require_guarantor = VALUES(require_guarantor)`
	_, err := r.db.ExecContext(ctx, q, settingsRowID,
		s.HostelName, s.HostelAddress, s.HostelPhone, s.HostelEmail, s.ManagerName,
		s.CurrentAcademicYear, s.SemesterStartDate, s.SemesterEndDate,
		s.OldBuildingFee, s.NewBuildingFee, s.ExecutiveFee,
		s.TotalOldRooms, s.TotalNewRooms, s.TotalExecutiveRooms,
		s.AllowOnlineApplications, s.MaintenanceEmailAlerts, s.AutoAssignRooms, s.RequireGuarantor)
	return err
}

// CurrentAcademicYear returns the configured academic year token, falling
// back to the given default when no settings row exists. Every handler that
// stamps or filters by academic year reads the token through this method.
func (r *SettingsRepo) CurrentAcademicYear(ctx context.Context, fallback string) string {
	s, err := r.Get(ctx)
	if err != nil || s.CurrentAcademicYear == "" {
		return fallback
	}
	return s.CurrentAcademicYear
}
