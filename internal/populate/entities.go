package populate

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"worldforge/internal/chunk"
	"worldforge/internal/rng"
)

// Entity type ID ranges.
const (
	NPCBase      = 1000
	MonsterBase  = 2000
	WildlifeBase = 3000
	LootBase     = 5000
)

// Entities spawns settlement NPCs, dungeon monsters, wildlife and loot, in
// that order, into the chunk's bounded list. Spawns beyond its capacity are
// dropped.
func (p *Populator) Entities(_ context.Context, c *chunk.Chunk) error {
	c.Entities.Reset()
	cfg := p.entities

	c.Threat = cfg.BaseThreat + c.Coord.Distance(chunk.Coord{})*cfg.ThreatPerChunk
	r := rng.ForChunk(p.seeds.Entities, c.Coord)
	land := landFraction(c.BiomeFractions())

	if c.HasSettlement {
		s := r.Split("npc")
		for n := s.IntRange(cfg.NPCMin, cfg.NPCMax); n > 0; n-- {
			p.spawn(c, s, true, func(s *rng.Source, _ int) chunk.Spawn {
				return chunk.Spawn{TypeID: uint32(NPCBase + s.Intn(100))}
			})
		}
	}

	if c.HasDungeon {
		s := r.Split("monster")
		depth := c.DungeonDepth
		for n := s.IntRange(depth*cfg.MonstersPerDepth[0], depth*cfg.MonstersPerDepth[1]); n > 0; n-- {
			p.spawn(c, s, false, func(s *rng.Source, _ int) chunk.Spawn {
				threat := (c.Threat + float64(depth)*0.5) * (1 + s.Range(-cfg.MonsterVariance, cfg.MonsterVariance))
				return chunk.Spawn{TypeID: uint32(MonsterBase + s.Intn(100)), Threat: float32(threat)}
			})
		}
	}

	w := r.Split("wildlife")
	for n := int(cfg.WildlifePerChunk * land * (0.5 + w.Float64())); n > 0; n-- {
		p.spawn(c, w, false, func(s *rng.Source, idx int) chunk.Spawn {
			sp := chunk.Spawn{TypeID: uint32(WildlifeBase + int(c.Biome[idx])*100 + s.Intn(10))}
			if s.Float64() < cfg.HostileChance {
				sp.Threat = float32(c.Threat * (0.5 + 0.5*s.Float64()))
			}
			return sp
		})
	}

	l := r.Split("loot")
	for n := int(cfg.LootPerChunk * land * (0.5 + l.Float64())); n > 0; n-- {
		p.spawn(c, l, false, func(s *rng.Source, _ int) chunk.Spawn {
			return chunk.Spawn{TypeID: uint32(LootBase + s.Intn(50)), IsLoot: true}
		})
	}
	return nil
}

// spawn picks a valid position with up to SpawnAttempts tries and pushes the
// record built for it. It reports false when no position was found or the
// list is full.
func (p *Populator) spawn(c *chunk.Chunk, s *rng.Source, flat bool, build func(s *rng.Source, idx int) chunk.Spawn) bool {
	if c.Entities.Full() {
		return false
	}
	idx, ok := p.position(c, s, flat)
	if !ok {
		return false
	}
	sp := build(s, idx)
	x, z := idx%c.Resolution, idx/c.Resolution
	pos := c.VertexPosition(x, z, p.chunkSize)
	sp.Position = mgl32.Vec3{float32(pos.X()), c.Height[idx], float32(pos.Z())}
	return c.Entities.Push(sp)
}

func (p *Populator) position(c *chunk.Chunk, s *rng.Source, flat bool) (int, bool) {
	n := len(c.Biome)
	if n == 0 {
		return 0, false
	}
	for attempt := 0; attempt < p.entities.SpawnAttempts; attempt++ {
		idx := s.Intn(n)
		if c.Biome[idx] == chunk.BiomeOcean {
			continue
		}
		if flat && float64(c.Height[idx])/p.heightMultiplier >= p.mountainLevel {
			continue
		}
		return idx, true
	}
	return 0, false
}
