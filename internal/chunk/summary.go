package chunk

// Summary is the compact description of a chunk sent to observers, written
// to the journal and indexed by the survey tool.
type Summary struct {
	Coord          Coord   `json:"coord"`
	LOD            LOD     `json:"lod"`
	Stage          Stage   `json:"stage"`
	Resolution     int     `json:"resolution"`
	DominantBiome  BiomeID `json:"dominantBiome"`
	MinHeight      float32 `json:"minHeight"`
	MaxHeight      float32 `json:"maxHeight"`
	HasRiver       bool    `json:"hasRiver"`
	HasRoad        bool    `json:"hasRoad"`
	POIs           int     `json:"pois"`
	SettlementSize uint8   `json:"settlementSize"`
	DungeonDepth   int     `json:"dungeonDepth"`
	Entities       int     `json:"entities"`
	Events         int     `json:"events"`
	Threat         float64 `json:"threat"`
}

func (c *Chunk) Summary() Summary {
	s := Summary{
		Coord:          c.Coord,
		LOD:            c.LOD,
		Stage:          c.Stage,
		Resolution:     c.Resolution,
		HasRiver:       c.HasRiver,
		HasRoad:        c.HasRoad,
		POIs:           c.POIs.Len(),
		SettlementSize: c.SettlementSize,
		DungeonDepth:   c.DungeonDepth,
		Entities:       c.Entities.Len(),
		Events:         c.Events.Len(),
		Threat:         c.Threat,
	}
	if len(c.Height) > 0 {
		s.MinHeight, s.MaxHeight = c.Height[0], c.Height[0]
		for _, h := range c.Height[1:] {
			s.MinHeight = min(s.MinHeight, h)
			s.MaxHeight = max(s.MaxHeight, h)
		}
	}
	fractions := c.BiomeFractions()
	best := 0
	for i, f := range fractions {
		if f > fractions[best] {
			best = i
		}
	}
	s.DominantBiome = BiomeID(best)
	return s
}
