package models

import (
	"time"
)

// UserModel is the GORM model for the users table. Only the columns the
// payment engine owns are written back; profile fields are read-only here.
type UserModel struct {
	ID                   uint    `gorm:"primaryKey;autoIncrement"`
	Username             string  `gorm:"column:username;type:varchar(50);not null;uniqueIndex"`
	Email                string  `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	DonationRankID       *string `gorm:"column:donation_rank_id;type:varchar(50);index"`
	RankExpiresAt        *time.Time `gorm:"column:rank_expires_at;index"`
	RankPaused           bool    `gorm:"column:rank_paused;not null;default:false"`
	TotalDonatedCents    int64   `gorm:"column:total_donated_cents;not null;default:0"`
	SubscriptionStatus   *string `gorm:"column:subscription_status;type:varchar(20)"`
	StripeSubscriptionID *string `gorm:"column:stripe_subscription_id;type:varchar(128);index"`
	SquareSubscriptionID *string `gorm:"column:square_subscription_id;type:varchar(128);index"`
	KofiSubscriptionID   *string `gorm:"column:kofi_subscription_id;type:varchar(128);index"`
	Version              int     `gorm:"column:version;default:1"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}
