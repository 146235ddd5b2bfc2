package globe

import "fmt"

// MeshError reports a malformed mesh element. It means the mesh producer is
// broken; generation cannot continue.
type MeshError struct {
	Kind     string // "tile", "corner", "border"
	ID       int
	Field    string
	Expected string
	Got      int
}

func (e *MeshError) Error() string {
	return fmt.Sprintf("malformed mesh: %s %d has %d %s, expected %s", e.Kind, e.ID, e.Got, e.Field, e.Expected)
}

// Validate checks the degree invariants of every element and that every
// reference lands inside its arena.
func (p *Planet) Validate() error {
	nt, nc, nb := len(p.Tiles), len(p.Corners), len(p.Borders)

	for i := range p.Tiles {
		t := &p.Tiles[i]
		if t.ID != i {
			return &MeshError{Kind: "tile", ID: i, Field: "id", Expected: fmt.Sprint(i), Got: t.ID}
		}
		n := len(t.Neighbors)
		if n < 5 || n > 7 {
			return &MeshError{Kind: "tile", ID: i, Field: "neighbors", Expected: "5-7", Got: n}
		}
		if len(t.Corners) != n {
			return &MeshError{Kind: "tile", ID: i, Field: "corners", Expected: fmt.Sprint(n), Got: len(t.Corners)}
		}
		if len(t.Borders) != n {
			return &MeshError{Kind: "tile", ID: i, Field: "borders", Expected: fmt.Sprint(n), Got: len(t.Borders)}
		}
		if err := checkRefs("tile", i, "neighbors", t.Neighbors, nt); err != nil {
			return err
		}
		if err := checkRefs("tile", i, "corners", t.Corners, nc); err != nil {
			return err
		}
		if err := checkRefs("tile", i, "borders", t.Borders, nb); err != nil {
			return err
		}
	}

	for i := range p.Corners {
		c := &p.Corners[i]
		for _, f := range []struct {
			name  string
			refs  []int
			limit int
		}{
			{"corners", c.Corners, nc},
			{"borders", c.Borders, nb},
			{"tiles", c.Tiles, nt},
		} {
			if len(f.refs) != 3 {
				return &MeshError{Kind: "corner", ID: i, Field: f.name, Expected: "3", Got: len(f.refs)}
			}
			if err := checkRefs("corner", i, f.name, f.refs, f.limit); err != nil {
				return err
			}
		}
	}

	for i := range p.Borders {
		b := &p.Borders[i]
		if len(b.Tiles) != 2 {
			return &MeshError{Kind: "border", ID: i, Field: "tiles", Expected: "2", Got: len(b.Tiles)}
		}
		if len(b.Corners) != 2 {
			return &MeshError{Kind: "border", ID: i, Field: "corners", Expected: "2", Got: len(b.Corners)}
		}
		if len(b.Borders) != 4 {
			return &MeshError{Kind: "border", ID: i, Field: "borders", Expected: "4", Got: len(b.Borders)}
		}
		if err := checkRefs("border", i, "tiles", b.Tiles, nt); err != nil {
			return err
		}
		if err := checkRefs("border", i, "corners", b.Corners, nc); err != nil {
			return err
		}
		if err := checkRefs("border", i, "borders", b.Borders, nb); err != nil {
			return err
		}
	}
	return nil
}

func checkRefs(kind string, id int, field string, refs []int, limit int) error {
	for _, r := range refs {
		if r < 0 || r >= limit {
			return &MeshError{Kind: kind, ID: id, Field: field + " in range", Expected: fmt.Sprintf("[0,%d)", limit), Got: r}
		}
	}
	return nil
}
