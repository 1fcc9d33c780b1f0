package exam

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/certtrack/exam-center/internal/models"
)

// ===============================
// Enumerations
// ===============================

var ValidExamNames = []string{
	"ServiceNow: CAD",
	"ServiceNow: CSA",
	"ServiceNow: Platform Developer",
	"ServiceNow: HR AND IMPLEMENTATION",
	"ServiceNow: CLOUD ARCHITECTURE",
	"Salesforce developer",
	"Salesforce administrators",
	"Google cloud",
	"Mulesoft",
	"Fusion",
	"PSI",
}

var ValidStatuses = []string{"completed", "Absent", "Inprogress"}

// Canonical duration set. The observed system allowed 60 on one write path
// only; both paths accept it here.
var ValidDurations = []int{60, 90, 100, 110, 115, 120, 130, 135, 240}

// DateLayout is the canonical on-disk date form; time-of-day is discarded.
const DateLayout = "2006-01-02"

// ===============================
// Input / errors
// ===============================

// RecordInput is one submitted exam record before validation. Duration
// arrives as a raw JSON value since clients send both numbers and strings.
type RecordInput struct {
	Name              string `json:"name"`
	ExamName          string `json:"examName"`
	Date              string `json:"date"`
	DurationInMinutes any    `json:"durationInMinutes"`
	Status            string `json:"status"`
}

// FieldError names the offending field and, where the field is
// enumerated, the allowed values.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func fieldErr(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationErr builds a FieldError for callers outside the package.
func ValidationErr(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

// ===============================
// Validation
// ===============================

// ValidateRecord checks every field of in against its enumeration and
// returns the normalized record. A record failing any check is rejected
// in full.
func ValidateRecord(in RecordInput) (models.ExamRecord, error) {
	var rec models.ExamRecord

	duration, durationPresent := parseDuration(in.DurationInMinutes)

	if in.Name == "" || in.ExamName == "" || in.Date == "" || !durationPresent || in.Status == "" {
		return rec, fieldErr("record",
			"All fields (name, examName, date, durationInMinutes, and status) are required.")
	}

	date, err := parseDate(in.Date)
	if err != nil {
		return rec, fieldErr("date", "Invalid date format.")
	}

	if duration == nil {
		return rec, fieldErr("durationInMinutes", "Invalid duration format.")
	}

	if !containsString(ValidExamNames, in.ExamName) {
		return rec, fieldErr("examName",
			"Invalid exam name. Allowed values are: %s", strings.Join(ValidExamNames, ", "))
	}
	if !containsString(ValidStatuses, in.Status) {
		return rec, fieldErr("status",
			"Invalid status. Allowed values are: %s", strings.Join(ValidStatuses, ", "))
	}
	if !containsInt(ValidDurations, *duration) {
		return rec, fieldErr("durationInMinutes",
			"Invalid duration. Allowed values are: %s", joinInts(ValidDurations))
	}

	rec = models.ExamRecord{
		ID:                uuid.NewString(),
		Name:              in.Name,
		ExamName:          in.ExamName,
		Date:              date.Format(DateLayout),
		DurationInMinutes: *duration,
		Status:            in.Status,
	}
	return rec, nil
}

// ValidateBatch validates each entry independently and fails the whole
// batch on the first invalid one; no partial application.
func ValidateBatch(ins []RecordInput) ([]models.ExamRecord, error) {
	if len(ins) == 0 {
		return nil, fieldErr("examData", "Exam data must be a non-empty array.")
	}

	out := make([]models.ExamRecord, 0, len(ins))
	for _, in := range ins {
		rec, err := ValidateRecord(in)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ===============================
// Helpers
// ===============================

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// parseDuration reports presence separately from validity: a missing
// value is a required-field error, a present non-numeric one a format
// error.
func parseDuration(v any) (*int, bool) {
	switch d := v.(type) {
	case nil:
		return nil, false
	case float64:
		if d != float64(int(d)) {
			return nil, true
		}
		n := int(d)
		return &n, true
	case int:
		n := d
		return &n, true
	case string:
		if d == "" {
			return nil, false
		}
		n, err := strconv.Atoi(d)
		if err != nil {
			return nil, true
		}
		return &n, true
	default:
		return nil, true
	}
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(set []int, v int) bool {
	for _, n := range set {
		if n == v {
			return true
		}
	}
	return false
}

func joinInts(ns []int) string {
	sorted := append([]int(nil), ns...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
