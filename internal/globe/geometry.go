package globe

// Measure fills in the derived geometry: border lengths, tile areas, and
// corner areas. Call it once the mesh is linked and positioned.
func (p *Planet) Measure() {
	for i := range p.Borders {
		b := &p.Borders[i]
		b.Length = p.Corners[b.Corners[0]].Position.Sub(p.Corners[b.Corners[1]].Position).Len()
	}

	for i := range p.Tiles {
		t := &p.Tiles[i]
		area := 0.0
		n := len(t.Corners)
		for k := 0; k < n; k++ {
			a := p.Corners[t.Corners[k]].Position.Sub(t.Position)
			b := p.Corners[t.Corners[(k+1)%n]].Position.Sub(t.Position)
			area += a.Cross(b).Len() / 2
		}
		t.Area = area
	}

	for i := range p.Corners {
		c := &p.Corners[i]
		c.Area = 0
		for _, ti := range c.Tiles {
			t := &p.Tiles[ti]
			if len(t.Corners) > 0 {
				c.Area += t.Area / float64(len(t.Corners))
			}
		}
	}
}

// MeanTileArea returns the average tile area, or 0 for an empty planet.
func (p *Planet) MeanTileArea() float64 {
	if len(p.Tiles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range p.Tiles {
		sum += p.Tiles[i].Area
	}
	return sum / float64(len(p.Tiles))
}

// CornerElevationsToTiles sets each tile's elevation to the mean of its corners.
func (p *Planet) CornerElevationsToTiles() {
	for i := range p.Tiles {
		t := &p.Tiles[i]
		if len(t.Corners) == 0 {
			continue
		}
		sum := 0.0
		for _, c := range t.Corners {
			sum += p.Corners[c].Elevation
		}
		t.Elevation = sum / float64(len(t.Corners))
	}
}

// TileElevationsToCorners sets each corner's elevation to the mean of its tiles.
func (p *Planet) TileElevationsToCorners() {
	for i := range p.Corners {
		c := &p.Corners[i]
		if len(c.Tiles) == 0 {
			continue
		}
		sum := 0.0
		for _, t := range c.Tiles {
			sum += p.Tiles[t].Elevation
		}
		c.Elevation = sum / float64(len(c.Tiles))
	}
}
