// Package receipt turns loosely typed OCR/LLM receipt payloads into a
// normalized Record. Malformed fields are coerced, never rejected.
package receipt

import (
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

// LineItem is one purchased article as read from the receipt
type LineItem struct {
	Description     string
	Quantity        decimal.Decimal
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
}

// Record is the normalized receipt
type Record struct {
	Vendor        string
	Date          string
	Total         decimal.Decimal
	Tax           decimal.Decimal
	Subtotal      decimal.Decimal
	LineItems     []LineItem
	PaymentMethod string
	StoreAddress  string
	StorePhone    string
	StoreEmail    string
	StoreWebsite  string
	InvoiceNumber string
	OCRText       string
	CleanedText   string
	Category      string
	Siret         string
	VATNumber     string
	Cashier       string

	// ClientID is the session client, when the upload was authenticated
	ClientID mo.Option[int64]
}

// Text returns the best available raw receipt text.
func (r *Record) Text() string {
	if r.OCRText != "" {
		return r.OCRText
	}
	return r.CleanedText
}
