package biome

import "github.com/talgya/mini-planet/internal/globe"

// Whittaker-style ranges the normalized climate values map onto.
const (
	MinCelsius         = -30.0
	MaxCelsius         = 35.0
	MaxPrecipitationMM = 4500.0
)

// Celsius maps a tile's normalized temperature onto a mean annual °C.
func Celsius(t *globe.Tile) float64 {
	return MinCelsius + globe.Clamp(t.Temperature, 0, 1)*(MaxCelsius-MinCelsius)
}

// PrecipitationMM maps a tile's normalized moisture onto annual millimeters.
func PrecipitationMM(t *globe.Tile) float64 {
	return globe.Clamp(t.Moisture, 0, 1) * MaxPrecipitationMM
}
