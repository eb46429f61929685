package types

import "strings"

// ShippingInfo is the delivery contact captured at checkout and frozen on the
// order record.
type ShippingInfo struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// IsComplete reports whether every shipping field carries a value.
func (s ShippingInfo) IsComplete() bool {
	for _, field := range []string{s.Name, s.Address, s.City, s.State, s.Zip, s.Phone, s.Email} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
