package valueobjects

type DonationStatus string

const (
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusRefunded  DonationStatus = "refunded"
)

func (s DonationStatus) IsValid() bool {
	switch s {
	case DonationStatusCompleted, DonationStatusRefunded:
		return true
	default:
		return false
	}
}

func (s DonationStatus) IsCompleted() bool {
	return s == DonationStatusCompleted
}

func (s DonationStatus) String() string {
	return string(s)
}
