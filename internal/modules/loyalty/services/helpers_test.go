package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/testhelpers"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fixedPlaceholders returns constant values so rows can be asserted exactly
type fixedPlaceholders struct {
	panicOnConfidence bool
}

func (fixedPlaceholders) Person(now time.Time) Person {
	return Person{
		FirstName: "Jean",
		LastName:  "Dupont",
		BirthDate: time.Date(now.Year()-34, 5, 3, 0, 0, 0, 0, time.UTC),
		Gender:    "M",
	}
}

func (fixedPlaceholders) CategoryLabel() string    { return "Divers" }
func (fixedPlaceholders) TimeOfDay() time.Duration { return 10 * time.Hour }
func (fixedPlaceholders) InvoiceSuffix() int       { return 1234 }
func (fixedPlaceholders) CardSuffix() int          { return 12345 }
func (fixedPlaceholders) ProductReference() string { return "PROD-00001" }

func (p fixedPlaceholders) OCRConfidence() float64 {
	if p.panicOnConfidence {
		panic("confidence model unavailable")
	}
	return 0.9
}

func testSettings() Settings {
	return Settings{
		VATRate:           decimal.RequireFromString("0.20"),
		DefaultPostalCode: "75000",
		DefaultCountry:    "France",
		Now:               func() time.Time { return fixedNow },
	}
}

func newTestReconciler(t *testing.T) (*Reconciler, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return NewReconciler(db, testSettings(), fixedPlaceholders{}), db
}

func mustParse(t *testing.T, raw string) *receipt.Record {
	t.Helper()
	rec, err := receipt.Parse([]byte(raw))
	require.NoError(t, err)
	return rec
}

func mustProcess(t *testing.T, r *Reconciler, raw string, explicit mo.Option[int64]) int64 {
	t.Helper()
	out := r.Process(t.Context(), mustParse(t, raw), "receipts/test.jpg", explicit)
	require.True(t, out.Success, out.Message)
	return out.TransactionID.MustGet()
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
