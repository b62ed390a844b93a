package models

import "time"

// Points operation types
const (
	OperationGain = "gain"
	OperationUse  = "use"
)

// PointsHistory is one append-only movement on a card balance
type PointsHistory struct {
	ID            int64     `gorm:"column:historique_id;primaryKey;autoIncrement" json:"historique_id"`
	ClientID      int64     `gorm:"column:client_id;not null" json:"client_id"`
	CardID        int64     `gorm:"column:carte_id;not null;index" json:"carte_id"`
	TransactionID *int64    `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	Date          time.Time `gorm:"column:date_operation;not null" json:"date_operation"`
	Operation     string    `gorm:"column:type_operation;not null" json:"type_operation"`
	Points        int64     `gorm:"column:points;not null" json:"points"`
	Description   string    `gorm:"column:description" json:"description,omitempty"`
	BalanceBefore int64     `gorm:"column:solde_avant;not null" json:"solde_avant"`
	BalanceAfter  int64     `gorm:"column:solde_apres;not null" json:"solde_apres"`
}

func (PointsHistory) TableName() string {
	return "historique_points"
}
