package imaging

import "github.com/lucasb-eyer/go-colorful"

// Summary characterizes a palette for logging: the dominant hue sector, the
// lightness spread, and a coarse contrast label derived from it.
type Summary struct {
	Colors       int
	DominantHue  float64
	LightnessMin float64
	LightnessMax float64
	Contrast     string
}

// Describe summarizes a color list. Hues are bucketed into 30-degree sectors
// and the most populated sector's midpoint is reported as the dominant hue.
func Describe(colors []RGB) Summary {
	s := Summary{Colors: len(colors), LightnessMin: 1, Contrast: "low"}
	if len(colors) == 0 {
		s.LightnessMin = 0
		return s
	}
	var hueBuckets [12]int
	for _, c := range colors {
		col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, sat, l := col.Hsl()
		if sat > 0.05 {
			hueBuckets[int(h/30)%12]++
		}
		if l < s.LightnessMin {
			s.LightnessMin = l
		}
		if l > s.LightnessMax {
			s.LightnessMax = l
		}
	}
	best := 0
	for i, n := range hueBuckets {
		if n > hueBuckets[best] {
			best = i
		}
	}
	s.DominantHue = float64(best)*30 + 15
	switch spread := s.LightnessMax - s.LightnessMin; {
	case spread >= 0.5:
		s.Contrast = "high"
	case spread >= 0.25:
		s.Contrast = "medium"
	}
	return s
}
