package types

import "strings"

// CardSummary is the only card data the platform ever stores: a display brand
// and the last four digits. Raw PANs must never reach the API; request decoding
// rejects unknown fields so a "number" key fails before any handler runs.
type CardSummary struct {
	Brand string `json:"brand" validate:"required"`
	Last4 string `json:"last4" validate:"required,len=4,numeric"`
}

// IsValid reports whether the summary is shaped like masked card metadata.
func (c CardSummary) IsValid() bool {
	if strings.TrimSpace(c.Brand) == "" {
		return false
	}
	if len(c.Last4) != 4 {
		return false
	}
	for _, r := range c.Last4 {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
