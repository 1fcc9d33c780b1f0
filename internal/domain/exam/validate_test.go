package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func validInput() RecordInput {
	return RecordInput{
		Name:              "Jane Doe",
		ExamName:          "ServiceNow: CSA",
		Date:              "2024-03-11",
		DurationInMinutes: float64(120),
		Status:            "completed",
	}
}

// ==========================
// ValidateRecord
// ==========================

func TestValidateRecordAcceptsCanonicalInput(t *testing.T) {
	rec, err := ValidateRecord(validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "ServiceNow: CSA", rec.ExamName)
	assert.Equal(t, "2024-03-11", rec.Date)
	assert.Equal(t, 120, rec.DurationInMinutes)
	assert.Equal(t, "completed", rec.Status)
}

func TestValidateRecordNormalizesTimestampDates(t *testing.T) {
	in := validInput()
	in.Date = "2024-03-11T15:30:00Z"

	rec, err := ValidateRecord(in)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", rec.Date, "time of day is discarded")
}

func TestValidateRecordAcceptsStringDuration(t *testing.T) {
	in := validInput()
	in.DurationInMinutes = "90"

	rec, err := ValidateRecord(in)
	require.NoError(t, err)
	assert.Equal(t, 90, rec.DurationInMinutes)
}

func TestValidateRecordRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RecordInput)
	}{
		{"missing name", func(in *RecordInput) { in.Name = "" }},
		{"missing examName", func(in *RecordInput) { in.ExamName = "" }},
		{"missing date", func(in *RecordInput) { in.Date = "" }},
		{"missing duration", func(in *RecordInput) { in.DurationInMinutes = nil }},
		{"missing status", func(in *RecordInput) { in.Status = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := ValidateRecord(in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "required")
		})
	}
}

func TestValidateRecordRejectsUnknownExamName(t *testing.T) {
	in := validInput()
	in.ExamName = "AWS Solutions Architect"

	_, err := ValidateRecord(in)
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "examName", fieldErr.Field)
	assert.Contains(t, err.Error(), "ServiceNow: CAD")
	assert.Contains(t, err.Error(), "PSI")
}

func TestValidateRecordRejectsUnknownStatus(t *testing.T) {
	in := validInput()
	in.Status = "pending"

	_, err := ValidateRecord(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed, Absent, Inprogress")
}

func TestValidateRecordRejectsOutOfSetDuration(t *testing.T) {
	in := validInput()
	in.DurationInMinutes = float64(45)

	_, err := ValidateRecord(in)
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "durationInMinutes", fieldErr.Field)
	assert.Contains(t, err.Error(), "60, 90, 100, 110, 115, 120, 130, 135, 240")
}

func TestValidateRecordAcceptsSixtyMinutes(t *testing.T) {
	in := validInput()
	in.DurationInMinutes = float64(60)

	rec, err := ValidateRecord(in)
	require.NoError(t, err)
	assert.Equal(t, 60, rec.DurationInMinutes)
}

func TestValidateRecordRejectsNonNumericDuration(t *testing.T) {
	in := validInput()
	in.DurationInMinutes = "ninety"

	_, err := ValidateRecord(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid duration format")
}

func TestValidateRecordRejectsMalformedDate(t *testing.T) {
	in := validInput()
	in.Date = "11/03/2024"

	_, err := ValidateRecord(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid date format")
}

func TestValidateRecordEveryEnumeratedValueAccepted(t *testing.T) {
	for _, examName := range ValidExamNames {
		for _, status := range ValidStatuses {
			in := validInput()
			in.ExamName = examName
			in.Status = status

			_, err := ValidateRecord(in)
			assert.NoError(t, err, "examName=%q status=%q", examName, status)
		}
	}
	for _, duration := range ValidDurations {
		in := validInput()
		in.DurationInMinutes = float64(duration)

		_, err := ValidateRecord(in)
		assert.NoError(t, err, "duration=%d", duration)
	}
}

// ==========================
// ValidateBatch
// ==========================

func TestValidateBatchRejectsEmpty(t *testing.T) {
	_, err := ValidateBatch(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-empty array")
}

func TestValidateBatchIsAtomic(t *testing.T) {
	bad := validInput()
	bad.DurationInMinutes = float64(45)

	out, err := ValidateBatch([]RecordInput{validInput(), bad, validInput()})
	require.Error(t, err)
	assert.Nil(t, out, "one invalid entry fails the whole batch")
}

func TestValidateBatchReturnsAllRecords(t *testing.T) {
	out, err := ValidateBatch([]RecordInput{validInput(), validInput()})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}
