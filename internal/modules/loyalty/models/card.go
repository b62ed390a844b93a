package models

import (
	"strings"
	"time"
)

// Card statuses
const (
	CardActive   = "active"
	CardInactive = "inactive"
	CardExpired  = "expired"
)

// Loyalty tiers, lowest first
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

var tiers = map[string]bool{
	TierBronze:   true,
	TierSilver:   true,
	TierGold:     true,
	TierPlatinum: true,
}

// NormalizeTier maps any tier label onto the allowed set. Unknown or empty
// labels fall back to the lowest tier.
func NormalizeTier(tier string) string {
	t := strings.ToLower(strings.TrimSpace(tier))
	if tiers[t] {
		return t
	}
	return TierBronze
}

// LoyaltyCard holds the running points balance of a client
type LoyaltyCard struct {
	ID            int64      `gorm:"column:carte_id;primaryKey;autoIncrement" json:"carte_id"`
	ClientID      int64      `gorm:"column:client_id;not null;index" json:"client_id"`
	Number        string     `gorm:"column:numero_carte;uniqueIndex;not null" json:"numero_carte"`
	IssuedAt      time.Time  `gorm:"column:date_emission;not null" json:"date_emission"`
	ExpiresAt     *time.Time `gorm:"column:date_expiration" json:"date_expiration,omitempty"`
	Status        string     `gorm:"column:statut;not null" json:"statut"`
	Tier          string     `gorm:"column:niveau_fidelite;not null" json:"niveau_fidelite"`
	Points        int64      `gorm:"column:points_actuels;not null" json:"points_actuels"`
	PendingPoints int64      `gorm:"column:points_en_attente;not null" json:"points_en_attente"`
}

func (LoyaltyCard) TableName() string {
	return "cartes_fidelite"
}
