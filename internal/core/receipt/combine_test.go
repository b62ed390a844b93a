package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_FillsGapsFromVendorPayload(t *testing.T) {
	structured := []byte(`{"vendor": "", "total": 18.4, "line_items": []}`)
	vendor := []byte(`{
		"vendor": {"name": "Franprix"},
		"payment_type": "card",
		"vendor_address": "3 rue Oberkampf 75011 Paris",
		"vendor_phone": "0140000000",
		"vendor_website": "www.franprix.fr",
		"total": 99,
		"ocr_text": "FRANPRIX ...",
		"line_items": [{"description": "Eau", "quantity": 1, "price": 0.8}]
	}`)

	rec, err := Combine(structured, vendor)
	require.NoError(t, err)

	assert.Equal(t, "Franprix", rec.Vendor)
	assert.Equal(t, "card", rec.PaymentMethod)
	assert.Equal(t, "3 rue Oberkampf 75011 Paris", rec.StoreAddress)
	assert.Equal(t, "0140000000", rec.StorePhone)
	assert.Equal(t, "www.franprix.fr", rec.StoreWebsite)
	assert.Equal(t, "18.40", rec.Total.StringFixed(2), "structured total wins")
	assert.Equal(t, "FRANPRIX ...", rec.OCRText)
	require.Len(t, rec.LineItems, 1)
	assert.Equal(t, "Eau", rec.LineItems[0].Description)
}

func TestCombine_StructuredWins(t *testing.T) {
	structured := []byte(`{"vendor": "Auchan", "payment_method": "cash", "ocr_text": "kept"}`)
	vendor := []byte(`{"vendor_name": "AUCHAN SA", "payment_type": "card", "ocr_text": "other"}`)

	rec, err := Combine(structured, vendor)
	require.NoError(t, err)
	assert.Equal(t, "Auchan", rec.Vendor)
	assert.Equal(t, "cash", rec.PaymentMethod)
	assert.Equal(t, "kept", rec.OCRText)
}

func TestCombine_VendorNameAlias(t *testing.T) {
	rec, err := Combine([]byte(`{}`), []byte(`{"vendor_name": "Picard"}`))
	require.NoError(t, err)
	assert.Equal(t, "Picard", rec.Vendor)
}

func TestCombine_MissingVendorPayload(t *testing.T) {
	rec, err := Combine([]byte(`{"vendor": "Casino"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "Casino", rec.Vendor)

	_, err = Combine([]byte(`[1]`), []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestCombine_FillsRegistryFields(t *testing.T) {
	structured := []byte(`{"vendor": "Auchan", "total": 10, "cashier": "Lea"}`)
	vendor := []byte(`{"siret": "410 409 460 00010", "vat_number": "FR12 410409460", "cashier": "other", "tax": 1.67}`)

	rec, err := Combine(structured, vendor)
	require.NoError(t, err)

	assert.Equal(t, "410 409 460 00010", rec.Siret)
	assert.Equal(t, "FR12 410409460", rec.VATNumber)
	assert.Equal(t, "Lea", rec.Cashier, "structured value wins")
	assert.Equal(t, "1.67", rec.Tax.StringFixed(2))
}
