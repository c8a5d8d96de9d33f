package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("member@xrocketry.in"))
	assert.True(t, IsValidEmail("first.last+tag@example.co"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail(""))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestIsValidLocalTimestamp(t *testing.T) {
	ts, ok := IsValidLocalTimestamp("2025-08-19T10:26:00")
	assert.True(t, ok)
	assert.Equal(t, 10, ts.Hour())

	_, ok = IsValidLocalTimestamp("2025-08-19 10:26:00")
	assert.False(t, ok)

	_, ok = IsValidLocalTimestamp("2025-08-19T10:26:00+05:30")
	assert.False(t, ok)
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-08-19")
	assert.True(t, ok)

	_, ok = IsValidDate("19-08-2025")
	assert.False(t, ok)
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "rfidTag", Message: "rfidTag is required"},
		{Field: "type", Message: "type must be either \"entry\" or \"exit\""},
	}
	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "rfidTag is required", m["rfidTag"])
	assert.Contains(t, errs.Error(), "rfidTag: rfidTag is required")
}
