package seeds

import (
	"gorm.io/gorm"

	"vonix/internal/infrastructure/persistence/models"
)

// SeedRanks seeds the rank catalog with the default tiers. Existing rows
// are left untouched so operator edits survive restarts.
func SeedRanks(db *gorm.DB) error {
	ranks := []models.RankModel{
		{
			Slug:             "supporter",
			Name:             "Supporter",
			MinAmountCents:   500,
			BaseDurationDays: 30,
			Color:            "#55FF55",
			Icon:             "heart",
			Perks:            models.StringArray{"Supporter chat badge", "Colored name in game"},
			Description:      "Help keep the servers running and get a **green** name.",
			SortOrder:        1,
			Version:          1,
		},
		{
			Slug:             "patron",
			Name:             "Patron",
			MinAmountCents:   1000,
			BaseDurationDays: 30,
			Color:            "#5555FF",
			Icon:             "star",
			Perks:            models.StringArray{"All Supporter perks", "Priority queue access", "Monthly cosmetic crate"},
			Description:      "Everything Supporter offers plus **priority queue** on busy nights.",
			SortOrder:        2,
			Version:          1,
		},
		{
			Slug:             "elite",
			Name:             "Elite",
			MinAmountCents:   2500,
			BaseDurationDays: 30,
			Color:            "#FFAA00",
			Icon:             "crown",
			Perks:            models.StringArray{"All Patron perks", "Custom nickname colors", "Early access to new servers"},
			Description:      "Our top tier. **Early access** to every new server we launch.",
			SortOrder:        3,
			Version:          1,
		},
	}

	for _, r := range ranks {
		var count int64
		if err := db.Model(&models.RankModel{}).Where("slug = ?", r.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&r).Error; err != nil {
			return err
		}
	}

	return nil
}
