package world

import (
	"strings"
	"unicode"

	"github.com/talgya/mini-planet/internal/globe"
)

// Summary is a compact description of a finished planet.
type Summary struct {
	Tiles        int     `json:"tiles"`
	Plates       int     `json:"plates"`
	LandTiles    int     `json:"land_tiles"`
	LandFraction float64 `json:"land_fraction"`
	Lakes        int     `json:"lakes"`
	Rivers       int     `json:"rivers"`
	Watersheds   int     `json:"watersheds"`
	Flagged      int     `json:"flagged"`
	MeanTemp     float64 `json:"mean_temperature"`
	MeanMoisture float64 `json:"mean_moisture"`
}

// Summarize computes a Summary from the planet's current state.
func Summarize(p *globe.Planet) Summary {
	s := Summary{
		Tiles:      len(p.Tiles),
		Plates:     len(p.Plates),
		Lakes:      len(p.Lakes),
		Watersheds: len(p.Watersheds),
	}
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if t.IsLand() {
			s.LandTiles++
		}
		if t.River {
			s.Rivers++
		}
		if t.Flagged {
			s.Flagged++
		}
		s.MeanTemp += t.Temperature
		s.MeanMoisture += t.Moisture
	}
	if s.Tiles > 0 {
		n := float64(s.Tiles)
		s.LandFraction = float64(s.LandTiles) / n
		s.MeanTemp /= n
		s.MeanMoisture /= n
	}
	return s
}

// BiomeCounts returns a summary of biome distribution.
func BiomeCounts(p *globe.Planet) map[globe.Biome]int {
	counts := make(map[globe.Biome]int)
	for i := range p.Tiles {
		counts[p.Tiles[i].Biome]++
	}
	return counts
}

// BiomeName returns a human-readable name for a biome.
func BiomeName(b globe.Biome) string {
	tag := b.String()
	if tag == "unknown" {
		return "Unknown"
	}
	var sb strings.Builder
	for i, r := range tag {
		switch {
		case i == 0:
			sb.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			sb.WriteByte(' ')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
