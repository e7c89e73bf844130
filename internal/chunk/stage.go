package chunk

import "fmt"

// Stage is the position of a chunk in the generation pipeline.
type Stage uint8

const (
	StageNone Stage = iota
	StageQueued
	StageBaseTerrain
	StageBiomes
	StageFeatures
	StageSettlements
	StageDungeons
	StageEntities
	StageComplete
)

var stageNames = [...]string{
	"none", "queued", "base_terrain", "biomes", "features",
	"settlements", "dungeons", "entities", "complete",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// Next returns the following stage. Complete is terminal.
func (s Stage) Next() Stage {
	if s >= StageComplete {
		return StageComplete
	}
	return s + 1
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	for i, name := range stageNames {
		if name == string(text) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}
