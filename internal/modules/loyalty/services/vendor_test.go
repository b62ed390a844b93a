package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/receipt"
)

func TestExtractVendorInfo(t *testing.T) {
	info := ExtractVendorInfo(&receipt.Record{
		Vendor:       " Carrefour Market ",
		StoreAddress: "12 avenue de la République 75011 Paris",
		StorePhone:   "01 43 00 00 00",
		StoreWebsite: "https://www.carrefour.fr/magasin",
	})

	assert.Equal(t, "Carrefour Market", info.Name)
	assert.Equal(t, "75011", info.PostalCode)
	assert.Equal(t, "Paris", info.City)
	assert.Equal(t, "01 43 00 00 00", info.Phone)
	assert.Equal(t, "carrefour.fr", info.EmailDomain())
}

func TestExtractVendorInfo_AccentedCity(t *testing.T) {
	info := ExtractVendorInfo(&receipt.Record{StoreAddress: "ZA des Prés 38100 Saint-Égrève"})
	assert.Equal(t, "38100", info.PostalCode)
	assert.Equal(t, "Saint-Égrève", info.City)
}

func TestExtractVendorInfo_NoAddress(t *testing.T) {
	info := ExtractVendorInfo(&receipt.Record{StoreAddress: "rue sans code"})
	assert.Empty(t, info.PostalCode)
	assert.Empty(t, info.City)
	assert.Empty(t, info.EmailDomain())
}

func TestEmailDomain(t *testing.T) {
	tests := map[string]string{
		"www.monoprix.fr":        "monoprix.fr",
		"WWW.Lidl.FR/offres":     "lidl.fr",
		"http://franprix.fr":     "franprix.fr",
		"https://www.auchan.fr/": "auchan.fr",
		"":                       "",
	}
	for site, want := range tests {
		assert.Equal(t, want, VendorInfo{Website: site}.EmailDomain(), site)
	}
}
