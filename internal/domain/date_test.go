package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr error
	}{
		{name: "valid", input: "2024-03-15", want: Date("2024-03-15")},
		{name: "rejects time component", input: "2024-03-15 10:00:00", wantErr: ErrInvalidDate},
		{name: "rejects slashes", input: "2024/03/15", wantErr: ErrInvalidDate},
		{name: "rejects impossible day", input: "2024-02-30", wantErr: ErrInvalidDate},
		{name: "rejects empty", input: "", wantErr: ErrInvalidDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateValid(t *testing.T) {
	assert.True(t, Date("2024-03-15").Valid())
	assert.True(t, DateOf(time.Now()).Valid())

	// Raw conversions that skipped ParseDate.
	assert.False(t, Date("").Valid())
	assert.False(t, Date("15/03/2024").Valid())
	assert.False(t, Date("2024-3-5").Valid())
	assert.False(t, Date("2024-02-30").Valid())
}

func TestDateOf(t *testing.T) {
	at := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, Date("2024-03-15"), DateOf(at))
}

func TestDateOrdering(t *testing.T) {
	earlier := Date("2024-01-31")
	later := Date("2024-02-01")

	assert.True(t, earlier.Before(later))
	assert.True(t, later.After(earlier))
	assert.False(t, earlier.After(earlier))
}

func TestAddDays(t *testing.T) {
	d := Date("2024-02-28")
	assert.Equal(t, Date("2024-02-29"), d.AddDays(1)) // leap year
	assert.Equal(t, Date("2024-02-27"), d.AddDays(-1))
	assert.Equal(t, Date("2024-03-06"), d.AddDays(7))
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysInclusive("2024-01-01", "2024-01-01"))
	assert.Equal(t, 3, DaysInclusive("2024-01-01", "2024-01-03"))
	assert.Equal(t, 31, DaysInclusive("2024-01-01", "2024-01-31"))
}
