package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomPlaceholders_Ranges(t *testing.T) {
	ph := NewRandomPlaceholders(42)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ref := regexp.MustCompile(`^PROD-\d{5}$`)

	for range 500 {
		p := ph.Person(now)
		age := now.Year() - p.BirthDate.Year()
		assert.GreaterOrEqual(t, age, 18)
		assert.LessOrEqual(t, age, 70)
		assert.Contains(t, firstNames, p.FirstName)
		assert.Contains(t, lastNames, p.LastName)
		assert.Contains(t, []string{"M", "F"}, p.Gender)

		tod := ph.TimeOfDay()
		assert.GreaterOrEqual(t, tod, 8*time.Hour)
		assert.Less(t, tod, 21*time.Hour)

		assert.Contains(t, categoryLabels, ph.CategoryLabel())
		assert.Regexp(t, ref, ph.ProductReference())

		assert.GreaterOrEqual(t, ph.InvoiceSuffix(), 1000)
		assert.LessOrEqual(t, ph.InvoiceSuffix(), 9999)
		assert.GreaterOrEqual(t, ph.CardSuffix(), 10000)
		assert.LessOrEqual(t, ph.CardSuffix(), 99999)

		c := ph.OCRConfidence()
		assert.GreaterOrEqual(t, c, 0.75)
		assert.LessOrEqual(t, c, 0.98)
	}
}

func TestRandomPlaceholders_SeedIsRepeatable(t *testing.T) {
	a := NewRandomPlaceholders(7)
	b := NewRandomPlaceholders(7)
	for range 20 {
		assert.Equal(t, a.ProductReference(), b.ProductReference())
	}
}
