package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tod := 9*time.Hour + 30*time.Minute

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"empty", "", now},
		{"iso date", "2023-10-25", time.Date(2023, 10, 25, 9, 30, 0, 0, time.UTC)},
		{"french date", "25/10/2023", time.Date(2023, 10, 25, 9, 30, 0, 0, time.UTC)},
		{"date time", "2023-10-25 18:42:07", time.Date(2023, 10, 25, 18, 42, 7, 0, time.UTC)},
		{"rfc3339", "2023-10-25T18:42:07Z", time.Date(2023, 10, 25, 18, 42, 7, 0, time.UTC)},
		{"garbage", "yesterday!", now},
		{"garbage ten chars", "abcdefghij", now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw, now, tod)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}
