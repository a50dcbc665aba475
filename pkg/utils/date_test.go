package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-22")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("22/08/2026")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	stamp := time.Date(2026, 8, 22, 22, 30, 0, 0, loc)

	// 22:30 UTC-5 is already the 23rd in UTC.
	assert.Equal(t, "2026-08-23", FormatDate(DateOnly(stamp)))
}
