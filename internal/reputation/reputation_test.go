package reputation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccrueFirstPost(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.Local)
	assert.Equal(t, 2, Accrue(nil, now))
}

func TestAccrue(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 0, 0, time.Local)

	daysAgo := func(d int, hour int) *time.Time {
		ts := time.Date(2025, 6, 10-d, hour, 0, 0, 0, time.Local)
		return &ts
	}

	tests := []struct {
		name     string
		lastPost *time.Time
		want     int
	}{
		{"same day earlier", daysAgo(0, 8), 0},
		{"same day later time of day", daysAgo(0, 23), 0},
		{"yesterday", daysAgo(1, 9), 2},
		{"yesterday just before midnight", daysAgo(1, 23), 2},
		{"two days ago, one missed day", daysAgo(2, 12), 1},
		{"three days ago, two missed days", daysAgo(3, 12), 0},
		{"week-long gap goes negative", daysAgo(7, 12), -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Accrue(tt.lastPost, now))
		})
	}
}

func TestAccrueConcreteScores(t *testing.T) {
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.Local)

	// Last post 3 calendar days ago, score 10: two missed days cancel the
	// reward, score stays 10.
	threeDays := time.Date(2025, 6, 7, 18, 0, 0, 0, time.Local)
	assert.Equal(t, 10, 10+Accrue(&threeDays, now))

	// Last post yesterday, score 5: no missed days, score 7.
	yesterday := time.Date(2025, 6, 9, 7, 0, 0, 0, time.Local)
	assert.Equal(t, 7, 5+Accrue(&yesterday, now))

	// Last post today, score 8: unchanged.
	today := time.Date(2025, 6, 10, 6, 0, 0, 0, time.Local)
	assert.Equal(t, 8, 8+Accrue(&today, now))
}
