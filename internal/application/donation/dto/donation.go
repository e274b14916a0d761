package dto

import (
	"time"

	"vonix/internal/domain/donation"
)

// DonationDTO is the public feed representation of a ledger entry.
// Internal payment identifiers are never exposed.
type DonationDTO struct {
	SID         string    `json:"sid"`
	DonorName   string    `json:"donor_name"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Provider    string    `json:"provider"`
	PaymentType string    `json:"payment_type"`
	RankID      *string   `json:"rank_id,omitempty"`
	Days        int       `json:"days,omitempty"`
	Message     *string   `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToDonationDTO(d *donation.Donation) *DonationDTO {
	donorName := d.DonorName()
	if donorName == "" {
		donorName = "Anonymous"
	}
	return &DonationDTO{
		SID:         d.SID(),
		DonorName:   donorName,
		Amount:      d.Amount().AmountInMajorUnits(),
		Currency:    d.Amount().Currency(),
		Provider:    d.Provider().String(),
		PaymentType: d.PaymentType().String(),
		RankID:      d.RankID(),
		Days:        d.Days(),
		Message:     d.Message(),
		CreatedAt:   d.CreatedAt(),
	}
}
