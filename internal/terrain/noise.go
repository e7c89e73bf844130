package terrain

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"worldforge/internal/config"
	"worldforge/internal/mathutil"
)

// Sampler evaluates the coherent noise fields of the world. All fields are
// functions of world position only, so neighbouring chunks agree on their
// shared edge. A Sampler is safe for concurrent use.
type Sampler struct {
	cfg         config.TerrainConfig
	height      opensimplex.Noise
	ridge       opensimplex.Noise
	moisture    opensimplex.Noise
	temperature opensimplex.Noise
	detail      opensimplex.Noise
	seed        int64
}

func NewSampler(seeds config.SeedConfig, cfg config.TerrainConfig) *Sampler {
	return &Sampler{
		cfg:         cfg,
		height:      opensimplex.NewNormalized(seeds.Terrain),
		ridge:       opensimplex.NewNormalized(seeds.Terrain ^ 0x5f3759df),
		moisture:    opensimplex.NewNormalized(seeds.Moisture),
		temperature: opensimplex.NewNormalized(seeds.Temperature),
		detail:      opensimplex.NewNormalized(seeds.Terrain + 1),
		seed:        seeds.Terrain,
	}
}

// fractalNoise sums octaves of n and normalizes the result to [0,1].
func (s *Sampler) fractalNoise(n opensimplex.Noise, x, z, frequency float64) float64 {
	amplitude := 1.0
	noiseSum := 0.0
	maxAmplitude := 0.0

	for i := 0; i < s.cfg.Octaves; i++ {
		noiseSum += n.Eval2(x*frequency, z*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= s.cfg.Persistence
		frequency *= s.cfg.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return noiseSum / maxAmplitude
}

// ridged folds the noise around its midpoint, producing sharp crests.
func (s *Sampler) ridged(x, z float64) float64 {
	v := 1 - math.Abs(2*s.fractalNoise(s.ridge, x, z, s.cfg.RidgeScale)-1)
	return v * v
}

// Height returns the normalized height in [0,1] at world position (x, z).
func (s *Sampler) Height(x, z float64) float64 {
	base := s.fractalNoise(s.height, x, z, s.cfg.Scale)
	base = 0.5 + (base-0.5)*s.cfg.Contrast
	h := base*(1-s.cfg.RidgeWeight) + s.ridged(x, z)*s.cfg.RidgeWeight
	return mathutil.Clamp(h, 0, 1)
}

// Temperature combines a latitude band along z with noise and cools with
// altitude above sea level.
func (s *Sampler) Temperature(x, z, height, seaLevel float64) float64 {
	latitude := 0.5 + 0.5*math.Sin(2*math.Pi*z/s.cfg.LatitudePeriod)
	noise := s.fractalNoise(s.temperature, x, z, s.cfg.TemperatureScale)
	t := 0.6*latitude + 0.4*noise - s.cfg.LapseRate*math.Max(0, height-seaLevel)
	return mathutil.Clamp(t, 0, 1)
}

// Moisture blends noise with proximity to the coast: water is saturated and
// land dries out with altitude.
func (s *Sampler) Moisture(x, z, height, seaLevel float64) float64 {
	noise := s.fractalNoise(s.moisture, x, z, s.cfg.MoistureScale)
	coastal := 1.0
	if height >= seaLevel {
		coastal = 1 - (height-seaLevel)/(1-seaLevel)
	}
	w := s.cfg.CoastalMoisture
	return mathutil.Clamp((1-w)*noise+w*coastal, 0, 1)
}

// Detail is single-octave noise at an arbitrary frequency, used by event rules.
func (s *Sampler) Detail(x, z, frequency float64) float64 {
	return s.detail.Eval2(x*frequency, z*frequency)
}

// Cell returns the value in [0,1) of the Voronoi cell containing (x, z) for a
// jittered grid with the given cell size.
func (s *Sampler) Cell(x, z, size float64) float64 {
	gx := int(math.Floor(x / size))
	gz := int(math.Floor(z / size))
	best := math.MaxFloat64
	var value uint32
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			cx, cz := gx+dx, gz+dz
			h := hash3(cx, cz, int(s.seed))
			px := (float64(cx) + float64(h&0xFFFF)/0x10000) * size
			pz := (float64(cz) + float64(h>>16)/0x10000) * size
			d := (px-x)*(px-x) + (pz-z)*(pz-z)
			if d < best {
				best = d
				value = hash3(cz, cx, int(s.seed)+1)
			}
		}
	}
	return float64(value&0xFFFF) / 0x10000
}

// Jitter is hashed white noise in [0,1) for lattice point (x, z).
func (s *Sampler) Jitter(x, z int) float64 {
	return float64(hash3(x, z, int(s.seed)+2)&0xFFFF) / 0x10000
}

func hash3(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*2147483647)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

