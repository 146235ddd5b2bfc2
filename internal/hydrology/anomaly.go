package hydrology

import (
	"fmt"
	"log/slog"

	"github.com/talgya/mini-planet/internal/globe"
)

// AnomalyKind classifies a drainage data-quality problem.
type AnomalyKind uint8

const (
	SelfDrain AnomalyKind = iota
	DrainCycle
	UphillDrain
	OversizedUpstream
)

func (k AnomalyKind) String() string {
	switch k {
	case SelfDrain:
		return "self_drain"
	case DrainCycle:
		return "drain_cycle"
	case UphillDrain:
		return "uphill_drain"
	case OversizedUpstream:
		return "oversized_upstream"
	default:
		return "unknown"
	}
}

// Anomaly is a drainage defect found on a tile. The run continues; the tile
// is flagged for inspection.
type Anomaly struct {
	Kind  AnomalyKind `json:"kind"`
	Tile  int         `json:"tile"`
	Drain int         `json:"drain"`
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s at tile %d (drain %d)", a.Kind, a.Tile, a.Drain)
}

// checkAnomalies verifies the finished network and flags offending tiles.
func (n *Network) checkAnomalies() []Anomaly {
	p := n.p
	var out []Anomaly
	report := func(kind AnomalyKind, t int) {
		a := Anomaly{Kind: kind, Tile: t, Drain: p.Tiles[t].Drain}
		p.Tiles[t].Flagged = true
		slog.Warn("drainage anomaly", "kind", kind.String(), "tile", t, "drain", a.Drain)
		out = append(out, a)
	}

	for i := range p.Tiles {
		t := &p.Tiles[i]
		if !t.IsLand() {
			continue
		}
		if t.Body != globe.None && len(t.Upstream) >= len(p.Bodies[t.Body].Tiles) {
			report(OversizedUpstream, i)
		}
		if t.Drain == globe.None {
			continue
		}
		if t.Drain == i {
			report(SelfDrain, i)
			continue
		}
		if n.elev(t.Drain) >= t.Elevation {
			report(UphillDrain, i)
		}

		// Walk the drain chain; returning to i means i sits on a cycle.
		g := n.mark()
		n.stamp[i] = g
		for cur := t.Drain; cur != globe.None; cur = p.Tiles[cur].Drain {
			if cur == i {
				report(DrainCycle, i)
				break
			}
			if n.stamp[cur] == g {
				break
			}
			n.stamp[cur] = g
		}
	}
	return out
}
