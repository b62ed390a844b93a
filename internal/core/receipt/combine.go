package receipt

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Combine reconciles the LLM-structured record with the OCR vendor payload.
// Structured fields win when present; gaps are filled from the vendor
// payload, whose field names differ. A missing or malformed vendor payload
// is treated as empty.
func Combine(structured, ocrVendor []byte) (*Record, error) {
	rec, err := Parse(structured)
	if err != nil {
		return nil, err
	}

	vendor := gjson.Result{}
	if gjson.ValidBytes(ocrVendor) {
		if parsed := gjson.ParseBytes(ocrVendor); parsed.IsObject() {
			vendor = parsed
		}
	}
	if !vendor.Exists() {
		return rec, nil
	}

	fill(&rec.Vendor, firstText(vendorName(vendor.Get("vendor")), text(vendor.Get("vendor_name"))))
	fill(&rec.Date, text(vendor.Get("date")))
	fill(&rec.PaymentMethod, firstText(text(vendor.Get("payment_type")), text(vendor.Get("payment_method"))))
	fill(&rec.StoreAddress, firstText(text(vendor.Get("vendor_address")), text(vendor.Get("vendor.address"))))
	fill(&rec.StorePhone, firstText(text(vendor.Get("vendor_phone")), text(vendor.Get("vendor.phone_number"))))
	fill(&rec.StoreEmail, firstText(text(vendor.Get("vendor_email")), text(vendor.Get("vendor.email"))))
	fill(&rec.StoreWebsite, firstText(text(vendor.Get("vendor_website")), text(vendor.Get("vendor.web"))))
	fill(&rec.InvoiceNumber, text(vendor.Get("invoice_number")))
	fill(&rec.Category, text(vendor.Get("category")))
	fill(&rec.OCRText, text(vendor.Get("ocr_text")))
	fill(&rec.Siret, text(vendor.Get("siret")))
	fill(&rec.VATNumber, firstText(text(vendor.Get("tva_number")), text(vendor.Get("vat_number"))))
	fill(&rec.Cashier, text(vendor.Get("cashier")))

	fillAmount(&rec.Total, vendor.Get("total"))
	fillAmount(&rec.Tax, vendor.Get("tax"))
	fillAmount(&rec.Subtotal, vendor.Get("subtotal"))

	if len(rec.LineItems) == 0 {
		rec.LineItems = lineItems(vendor.Get("line_items"))
	}

	return rec, nil
}

func fill(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}

func fillAmount(dst *decimal.Decimal, res gjson.Result) {
	if dst.IsZero() {
		*dst = amount(res)
	}
}

func firstText(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
