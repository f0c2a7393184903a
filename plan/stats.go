package plan

// Stats summarises a layout for display.
type Stats struct {
	PlacedBuildings int // visible, excluding the Town Hall
	TotalBuildings  int // excluding the Town Hall
	RoadTiles       int
	BuildingTiles   int // tiles covered by visible buildings, Town Hall included
	EmptyTiles      int
	TotalTiles      int
}

// Stats computes the current statistics.
func (l *Layout) Stats() Stats {
	var s Stats
	for _, b := range l.buildings {
		if !b.IsTownHall {
			s.TotalBuildings++
			if b.Visible {
				s.PlacedBuildings++
			}
		}
		if b.Visible {
			s.BuildingTiles += b.Area()
		}
	}
	s.RoadTiles = l.roads.Len()
	s.TotalTiles = l.grid.Tiles()
	s.EmptyTiles = s.TotalTiles - s.BuildingTiles - s.RoadTiles
	return s
}
