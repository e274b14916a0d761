package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RankModel is the GORM model for the ranks catalog table.
type RankModel struct {
	ID               uint        `gorm:"primaryKey;autoIncrement"`
	Slug             string      `gorm:"column:slug;type:varchar(50);not null;uniqueIndex"`
	Name             string      `gorm:"column:name;type:varchar(100);not null"`
	MinAmountCents   int64       `gorm:"column:min_amount_cents;not null;index"`
	BaseDurationDays int         `gorm:"column:base_duration_days;not null"`
	Color            string      `gorm:"column:color;type:varchar(20)"`
	Icon             string      `gorm:"column:icon;type:varchar(100)"`
	Perks            StringArray `gorm:"column:perks;type:json"`
	Description      string      `gorm:"column:description;type:text"`
	StripePriceID    *string     `gorm:"column:stripe_price_id;type:varchar(128)"`
	SquarePlanID     *string     `gorm:"column:square_plan_id;type:varchar(128)"`
	SortOrder        int         `gorm:"column:sort_order;default:0"`
	Version          int         `gorm:"column:version;default:1"`
	CreatedAt        time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (RankModel) TableName() string {
	return "ranks"
}

// StringArray stores a string slice as a JSON column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(a))
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}

	return json.Unmarshal(bytes, a)
}
