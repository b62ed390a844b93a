// Package pricing holds the money rules applied to a receipt: VAT
// decomposition, loyalty points, line totals and payment methods.
package pricing

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Payment methods accepted by the ledger
const (
	PaymentCard   = "card"
	PaymentCash   = "cash"
	PaymentCheck  = "check"
	PaymentMobile = "mobile"
	PaymentMixed  = "mixed"
)

var PaymentMethods = []string{PaymentCard, PaymentCash, PaymentCheck, PaymentMobile, PaymentMixed}

var one = decimal.NewFromInt(1)

// SplitVAT decomposes a tax-inclusive total. net is rounded to cents and vat
// takes the remainder, so net+vat always equals the rounded total.
func SplitVAT(total, rate decimal.Decimal) (net, vat decimal.Decimal) {
	total = total.Round(2)
	net = total.Div(one.Add(rate)).Round(2)
	return net, total.Sub(net)
}

// Points is one point per whole currency unit, never negative.
func Points(total decimal.Decimal) int64 {
	if total.IsNegative() {
		return 0
	}
	return total.Floor().IntPart()
}

// LineTotal is quantity × price − discount, rounded to cents.
func LineTotal(quantity, price, discount decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price).Sub(discount).Round(2)
}

// NormalizePayment lower-cases method and falls back to card for anything
// outside PaymentMethods.
func NormalizePayment(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	if lo.Contains(PaymentMethods, m) {
		return m
	}
	return PaymentCard
}
