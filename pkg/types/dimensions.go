package types

// Dimensions describes the footprint of a catalog product in centimeters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
