package persistence

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/talgya/mini-planet/internal/globe"
)

// Snapshot is the exported form of a planet, read by renderers.
type Snapshot struct {
	Meta       map[string]string `json:"meta,omitempty"`
	Tiles      []globe.Tile      `json:"tiles"`
	Corners    []globe.Corner    `json:"corners"`
	Borders    []globe.Border    `json:"borders"`
	Plates     []globe.Plate     `json:"plates"`
	Lakes      []globe.Lake      `json:"lakes"`
	Watersheds []globe.Watershed `json:"watersheds"`
	Bodies     []globe.Body      `json:"bodies"`
}

// ExportJSON writes an lz4-compressed JSON snapshot of the planet to w.
func ExportJSON(w io.Writer, p *globe.Planet, meta map[string]string) error {
	zw := lz4.NewWriter(w)
	snap := Snapshot{
		Meta:       meta,
		Tiles:      p.Tiles,
		Corners:    p.Corners,
		Borders:    p.Borders,
		Plates:     p.Plates,
		Lakes:      p.Lakes,
		Watersheds: p.Watersheds,
		Bodies:     p.Bodies,
	}
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return zw.Close()
}

// ImportJSON reads a snapshot written by ExportJSON.
func ImportJSON(r io.Reader) (*globe.Planet, map[string]string, error) {
	var snap Snapshot
	if err := json.NewDecoder(lz4.NewReader(r)).Decode(&snap); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	p := &globe.Planet{
		Tiles:      snap.Tiles,
		Corners:    snap.Corners,
		Borders:    snap.Borders,
		Plates:     snap.Plates,
		Lakes:      snap.Lakes,
		Watersheds: snap.Watersheds,
		Bodies:     snap.Bodies,
	}
	if err := p.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate snapshot: %w", err)
	}
	return p, snap.Meta, nil
}
