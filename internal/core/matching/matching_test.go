package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Carrefour Market":      "carrefour market",
		"  CARREFOUR   market ": "carrefour market",
		"Électronique":          "electronique",
		"Coca-Cola 330ml":       "coca cola 330ml",
		"L'Épicerie du Coin!":   "l epicerie du coin",
		"":                      "",
		"---":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestStoreKey(t *testing.T) {
	assert.Equal(t, "carrefour market|75011", StoreKey("Carrefour Market", "75011"))
	assert.Equal(t, StoreKey("carrefour  MARKET", " 75011"), StoreKey("Carrefour Market", "75011"))
	assert.NotEqual(t, StoreKey("Carrefour Market", "75011"), StoreKey("Carrefour Market", "69001"))
	assert.NotEqual(t, StoreKey("Carrefour", "75011"), StoreKey("Carrefour Market", "75011"))
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, ProductKey("Crème fraîche 20cl"), ProductKey("creme FRAICHE 20cl"))
}

func TestRank(t *testing.T) {
	candidates := []string{"Monoprix", "Carrefour City", "Carrefour Market", "Carrefur Market"}

	got := Rank("carrefour market", candidates)
	require.Len(t, got, 4)

	assert.Equal(t, "Carrefour Market", got[0].Value)
	assert.Equal(t, 0, got[0].Distance)
	assert.Equal(t, "Carrefur Market", got[1].Value)
	assert.Equal(t, 3, got[1].Index)
	assert.Equal(t, "Monoprix", got[3].Value)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank("anything", nil))
}
