package models

import (
	"time"
)

// DonationModel is the GORM model for the donations ledger table. The
// composite unique index on (provider, payment_id) is the idempotency
// gate for webhook redeliveries.
type DonationModel struct {
	ID             uint    `gorm:"primaryKey;autoIncrement"`
	SID            string  `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	UserID         *uint   `gorm:"column:user_id;index"`
	AmountCents    int64   `gorm:"column:amount_cents;not null"`
	Currency       string  `gorm:"column:currency;type:varchar(10);not null;default:'USD'"`
	Provider       string  `gorm:"column:provider;type:varchar(20);not null;uniqueIndex:idx_provider_payment"`
	PaymentID      string  `gorm:"column:payment_id;type:varchar(128);not null;uniqueIndex:idx_provider_payment"`
	SubscriptionID *string `gorm:"column:subscription_id;type:varchar(128);index"`
	RankID         *string `gorm:"column:rank_id;type:varchar(50)"`
	Days           int     `gorm:"column:days;not null;default:0"`
	PaymentType    string  `gorm:"column:payment_type;type:varchar(30);not null"`
	Status         string  `gorm:"column:status;type:varchar(20);not null;default:'completed'"`
	DonorName      string  `gorm:"column:donor_name;type:varchar(100)"`
	Message        *string `gorm:"column:message;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (DonationModel) TableName() string {
	return "donations"
}
