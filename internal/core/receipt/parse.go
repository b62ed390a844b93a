package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// ErrNotObject is returned when the payload is not a JSON object
var ErrNotObject = errors.New("receipt payload is not a JSON object")

// Parse normalizes a raw receipt payload.
func Parse(raw []byte) (*Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrNotObject
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, ErrNotObject
	}
	return fromResult(root), nil
}

// FromMap normalizes an already decoded payload.
func FromMap(payload map[string]any) (*Record, error) {
	if payload == nil {
		return nil, ErrNotObject
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode receipt payload: %w", err)
	}
	return Parse(raw)
}

func fromResult(root gjson.Result) *Record {
	return &Record{
		Vendor:        vendorName(root.Get("vendor")),
		Date:          strings.TrimSpace(text(root.Get("date"))),
		Total:         amount(root.Get("total")),
		Tax:           amount(root.Get("tax")),
		Subtotal:      amount(root.Get("subtotal")),
		LineItems:     lineItems(root.Get("line_items")),
		PaymentMethod: text(root.Get("payment_method")),
		StoreAddress:  text(root.Get("store_address")),
		StorePhone:    text(root.Get("store_phone")),
		StoreEmail:    text(root.Get("store_email")),
		StoreWebsite:  text(root.Get("store_website")),
		InvoiceNumber: text(root.Get("invoice_number")),
		OCRText:       text(root.Get("ocr_text")),
		CleanedText:   text(root.Get("cleaned_text")),
		Category:      text(root.Get("category")),
		Siret:         text(root.Get("siret")),
		VATNumber:     text(root.Get("tva_number")),
		Cashier:       text(root.Get("cashier")),
		ClientID:      clientID(root.Get("client_id")),
	}
}

// vendorName accepts either a plain string or an object carrying "name".
func vendorName(res gjson.Result) string {
	switch {
	case res.IsObject():
		return strings.TrimSpace(res.Get("name").String())
	case res.Type == gjson.String:
		return strings.TrimSpace(res.String())
	default:
		return ""
	}
}

// text renders scalars as text. Null and missing values are empty.
func text(res gjson.Result) string {
	switch res.Type {
	case gjson.String:
		return res.String()
	case gjson.Null:
		return ""
	default:
		return res.Raw
	}
}

// number reads a JSON number or a numeric string ("12,50" accepted).
func number(res gjson.Result) (decimal.Decimal, bool) {
	var raw string
	switch res.Type {
	case gjson.Number:
		raw = res.Raw
	case gjson.String:
		raw = strings.ReplaceAll(strings.TrimSpace(res.String()), ",", ".")
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func amount(res gjson.Result) decimal.Decimal {
	d, _ := number(res)
	return d
}

func numberOr(res gjson.Result, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := number(res); ok {
		return d
	}
	return fallback
}

// lineItems accepts an array or a JSON-encoded array string.
func lineItems(res gjson.Result) []LineItem {
	if res.Type == gjson.String {
		inner := res.String()
		if !gjson.Valid(inner) {
			return []LineItem{}
		}
		res = gjson.Parse(inner)
	}
	if !res.IsArray() {
		return []LineItem{}
	}

	return lo.Map(res.Array(), func(item gjson.Result, _ int) LineItem {
		if !item.IsObject() {
			return LineItem{
				Description: text(item),
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.Zero,
			}
		}
		return LineItem{
			Description:     strings.TrimSpace(text(item.Get("description"))),
			Quantity:        numberOr(item.Get("quantity"), decimal.NewFromInt(1)),
			Price:           numberOr(item.Get("price"), decimal.Zero),
			DiscountPercent: numberOr(item.Get("discount_percent"), decimal.Zero),
			DiscountAmount:  numberOr(item.Get("discount_amount"), decimal.Zero),
		}
	})
}

func clientID(res gjson.Result) mo.Option[int64] {
	var id int64
	switch res.Type {
	case gjson.Number:
		id = res.Int()
	case gjson.String:
		parsed, err := strconv.ParseInt(strings.TrimSpace(res.String()), 10, 64)
		if err != nil {
			return mo.None[int64]()
		}
		id = parsed
	default:
		return mo.None[int64]()
	}
	return lo.Ternary(id > 0, mo.Some(id), mo.None[int64]())
}
