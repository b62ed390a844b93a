package receipt

import (
	"strings"
	"time"
)

var dateOnlyLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
}

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// ParseDate resolves the receipt date. Date-only values (10 characters) get
// timeOfDay added; empty or unparseable values yield now.
func ParseDate(raw string, now time.Time, timeOfDay time.Duration) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now
	}

	if len(raw) == 10 {
		for _, layout := range dateOnlyLayouts {
			if d, err := time.Parse(layout, raw); err == nil {
				return d.Add(timeOfDay)
			}
		}
		return now
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return now
}
