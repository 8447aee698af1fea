// Package importer parses resident spreadsheets uploaded by managers and
// turns rows into validated resident records ready for bulk insertion.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/fredmak/hostel-manager/internal/repository"
)

// ErrNoRows is returned when the sheet has a header but no data rows.
var ErrNoRows = errors.New("spreadsheet contains no resident rows")

// row is the validated shape of one spreadsheet line. Only the name is
// mandatory; everything else is carried through when present.
type row struct {
	FullName       string `validate:"required,min=2"`
	Gender         string `validate:"omitempty,oneof=Male Female"`
	Phone          string
	WhatsApp       string
	Email          string `validate:"omitempty,email"`
	StudentID      string
	Program        string
	Level          string
	EmergencyName  string
	EmergencyPhone string
}

// RowError reports a single rejected line with its 1-based sheet row number.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result carries the parsed residents plus any per-row rejections. Good rows
// are kept even when some rows fail, so a typo on line 40 does not discard
// the other 39.
type Result struct {
	Residents []repository.Resident
	Skipped   []RowError
}

var validate = validator.New()

// headerAliases maps normalized column headings onto field slots. Sheets
// exported from different tools label the same column differently.
var headerAliases = map[string]string{
	"full name":         "full_name",
	"full_name":         "full_name",
	"name":              "full_name",
	"gender":            "gender",
	"phone":             "phone",
	"phone number":      "phone",
	"whatsapp":          "whatsapp",
	"whatsapp number":   "whatsapp",
	"email":             "email",
	"student id":        "student_id",
	"student_id":        "student_id",
	"index number":      "student_id",
	"program":           "program",
	"programme":         "program",
	"course":            "program",
	"level":             "level",
	"emergency name":    "emergency_name",
	"emergency contact": "emergency_name",
	"emergency phone":   "emergency_phone",
}

// ParseResidents reads an xlsx stream and returns the residents found on the
// first sheet. The first row must be a header; unrecognized columns are
// ignored.
func ParseResidents(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	cols := mapHeader(rows[0])
	if _, ok := cols["full_name"]; !ok {
		return nil, errors.New("spreadsheet is missing a full name column")
	}

	res := &Result{}
	for i, cells := range rows[1:] {
		sheetRow := i + 2
		rec := buildRow(cells, cols)
		if isEmpty(rec) {
			continue
		}
		if err := validate.Struct(rec); err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: sheetRow, Reason: rowReason(err)})
			continue
		}
		res.Residents = append(res.Residents, toResident(rec))
	}
	if len(res.Residents) == 0 && len(res.Skipped) == 0 {
		return nil, ErrNoRows
	}
	return res, nil
}

func mapHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if field, ok := headerAliases[key]; ok {
			if _, seen := cols[field]; !seen {
				cols[field] = i
			}
		}
	}
	return cols
}

func cell(cells []string, cols map[string]int, field string) string {
	i, ok := cols[field]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func buildRow(cells []string, cols map[string]int) row {
	return row{
		FullName:       cell(cells, cols, "full_name"),
		Gender:         normalizeGender(cell(cells, cols, "gender")),
		Phone:          cell(cells, cols, "phone"),
		WhatsApp:       cell(cells, cols, "whatsapp"),
		Email:          cell(cells, cols, "email"),
		StudentID:      cell(cells, cols, "student_id"),
		Program:        cell(cells, cols, "program"),
		Level:          cell(cells, cols, "level"),
		EmergencyName:  cell(cells, cols, "emergency_name"),
		EmergencyPhone: cell(cells, cols, "emergency_phone"),
	}
}

func normalizeGender(g string) string {
	switch strings.ToLower(g) {
	case "m", "male":
		return "Male"
	case "f", "female":
		return "Female"
	}
	return g
}

func isEmpty(r row) bool {
	return r.FullName == "" && r.Phone == "" && r.StudentID == "" && r.Email == ""
}

func rowReason(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("invalid %s", strings.ToLower(fe.Field()))
	}
	return err.Error()
}

func toResident(r row) repository.Resident {
	return repository.Resident{
		FullName:              r.FullName,
		Gender:                r.Gender,
		Phone:                 r.Phone,
		Whatsapp:              r.WhatsApp,
		Email:                 r.Email,
		StudentID:             r.StudentID,
		Program:               r.Program,
		Level:                 r.Level,
		EmergencyContactName:  r.EmergencyName,
		EmergencyContactPhone: r.EmergencyPhone,
	}
}
