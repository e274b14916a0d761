package valueobjects

import "fmt"

// Provider identifies the payment provider a donation originated from.
type Provider string

const (
	ProviderStripe Provider = "stripe"
	ProviderSquare Provider = "square"
	ProviderKofi   Provider = "kofi"
)

func NewProvider(provider string) (Provider, error) {
	p := Provider(provider)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid payment provider: %s", provider)
	}
	return p, nil
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderStripe, ProviderSquare, ProviderKofi:
		return true
	default:
		return false
	}
}

func (p Provider) String() string {
	return string(p)
}
