package services

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/receipt"
)

// VendorInfo is the store identity read off a receipt
type VendorInfo struct {
	Name       string
	Address    string
	PostalCode string
	City       string
	Phone      string
	Email      string
	Website    string
}

var postalCityRe = regexp.MustCompile(`(\d{5})\s+([A-Za-zÀ-ÿ\s\-]+)`)

// ExtractVendorInfo pulls the store fields from rec. Postal code and city
// come from the first "NNNNN City" match in the address.
func ExtractVendorInfo(rec *receipt.Record) VendorInfo {
	info := VendorInfo{
		Name:    strings.TrimSpace(rec.Vendor),
		Address: strings.TrimSpace(rec.StoreAddress),
		Phone:   strings.TrimSpace(rec.StorePhone),
		Email:   strings.TrimSpace(rec.StoreEmail),
		Website: strings.TrimSpace(rec.StoreWebsite),
	}

	if m := postalCityRe.FindStringSubmatch(info.Address); m != nil {
		info.PostalCode = m[1]
		info.City = strings.TrimSpace(m[2])
	}
	return info
}

// EmailDomain is the website host without "www.", used to match client
// emails. Empty when no website is known.
func (v VendorInfo) EmailDomain() string {
	site := strings.ToLower(strings.TrimSpace(v.Website))
	if site == "" {
		return ""
	}
	if !strings.Contains(site, "://") {
		site = "http://" + site
	}
	u, err := url.Parse(site)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
