// Package queue defines message payloads exchanged over the message broker.
package queue

// OccupancyAssignedEvent is published when a resident is assigned to a room.
// It carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type OccupancyAssignedEvent struct {
	OccupancyID  int64   `json:"occupancy_id"`
	ResidentID   int64   `json:"resident_id"`
	ResidentName string  `json:"resident"`
	RoomNo       string  `json:"room_no"`
	Block        string  `json:"block"`
	AcademicYear string  `json:"academic_year"`
	FeeDue       float64 `json:"fee_due"`
	AssignedAt   string  `json:"assigned_at"`
}

// MaintenanceReportedEvent is published when a new maintenance issue is filed,
// so facilities staff can be notified without polling the issue list.
type MaintenanceReportedEvent struct {
	IssueID     int64  `json:"issue_id"`
	RoomKey     string `json:"room_key"`
	Description string `json:"description"`
	ReportedBy  string `json:"reported_by"`
	ReportedAt  string `json:"reported_at"`
}
