package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var rate = decimal.RequireFromString("0.20")

func TestSplitVAT(t *testing.T) {
	tests := []struct {
		total string
		net   string
		vat   string
	}{
		{"25.68", "21.40", "4.28"},
		{"0", "0.00", "0.00"},
		{"10", "8.33", "1.67"},
		{"0.01", "0.01", "0.00"},
		{"999.99", "833.33", "166.66"},
		{"12.345", "10.29", "2.06"},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			net, vat := SplitVAT(decimal.RequireFromString(tt.total), rate)
			assert.Equal(t, tt.net, net.StringFixed(2))
			assert.Equal(t, tt.vat, vat.StringFixed(2))
		})
	}
}

func TestSplitVAT_SumsToTotal(t *testing.T) {
	for cents := int64(0); cents < 5000; cents += 7 {
		total := decimal.New(cents, -2)
		net, vat := SplitVAT(total, rate)
		assert.True(t, net.Add(vat).Equal(total), "total %s", total)
	}
}

func TestPoints(t *testing.T) {
	assert.Equal(t, int64(25), Points(decimal.RequireFromString("25.68")))
	assert.Equal(t, int64(0), Points(decimal.RequireFromString("0.99")))
	assert.Equal(t, int64(100), Points(decimal.NewFromInt(100)))
	assert.Equal(t, int64(0), Points(decimal.RequireFromString("-3.50")))
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(decimal.NewFromInt(2), decimal.RequireFromString("1.50"), decimal.Zero)
	assert.Equal(t, "3.00", got.StringFixed(2))

	got = LineTotal(decimal.NewFromInt(3), decimal.RequireFromString("2.10"), decimal.RequireFromString("0.30"))
	assert.Equal(t, "6.00", got.StringFixed(2))
}

func TestNormalizePayment(t *testing.T) {
	tests := map[string]string{
		"CASH":        PaymentCash,
		" Mobile ":    PaymentMobile,
		"check":       PaymentCheck,
		"mixed":       PaymentMixed,
		"":            PaymentCard,
		"credit card": PaymentCard,
		"espèces":     PaymentCard,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePayment(in), in)
	}
}
