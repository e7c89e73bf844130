package chunk

import "fmt"

type BiomeID uint8

const (
	BiomeOcean BiomeID = iota
	BiomeBeach
	BiomeDesert
	BiomeSavanna
	BiomeGrassland
	BiomeForest
	BiomeRainforest
	BiomeTaiga
	BiomeTundra
	BiomeSnow
	BiomeMountain

	BiomeCount = int(BiomeMountain) + 1
)

var biomeNames = [BiomeCount]string{
	"ocean", "beach", "desert", "savanna", "grassland", "forest",
	"rainforest", "taiga", "tundra", "snow", "mountain",
}

// biomeGlyphs is used by the survey map.
var biomeGlyphs = [BiomeCount]byte{'~', '.', ':', ';', '"', 'f', 'F', 't', '-', '*', '^'}

func (b BiomeID) String() string {
	if int(b) < BiomeCount {
		return biomeNames[b]
	}
	return fmt.Sprintf("biome(%d)", uint8(b))
}

func (b BiomeID) Glyph() byte {
	if int(b) < BiomeCount {
		return biomeGlyphs[b]
	}
	return '?'
}

// Habitable reports whether settlements, roads and most spawns may use the tile.
func (b BiomeID) Habitable() bool {
	return b != BiomeOcean && b != BiomeMountain && b != BiomeSnow
}

// Wooded groups the forest biomes.
func (b BiomeID) Wooded() bool {
	return b == BiomeForest || b == BiomeRainforest || b == BiomeTaiga
}

func ParseBiome(name string) (BiomeID, error) {
	for i, n := range biomeNames {
		if n == name {
			return BiomeID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown biome %q", name)
}

func (b BiomeID) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BiomeID) UnmarshalText(text []byte) error {
	v, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
