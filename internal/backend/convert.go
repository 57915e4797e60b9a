package backend

import "math"

// resampleStereo converts interleaved stereo samples between rates using
// 4-point cubic Hermite interpolation. Edge samples are repeated.
func resampleStereo(in []int16, fromRate, toRate int) []int16 {
	frames := len(in) / stereoChannels
	if frames == 0 {
		return nil
	}
	outFrames := int(int64(frames) * int64(toRate) / int64(fromRate))
	step := float64(fromRate) / float64(toRate)

	at := func(ch, i int) float64 {
		i = max(0, min(i, frames-1))
		return float64(in[i*stereoChannels+ch])
	}

	out := make([]int16, 0, outFrames*stereoChannels)
	for n := range outFrames {
		p := float64(n) * step
		i := int(p)
		x := p - float64(i)
		for ch := range stereoChannels {
			y := hermite(at(ch, i-1), at(ch, i), at(ch, i+1), at(ch, i+2), x)
			out = append(out, clampS16(y))
		}
	}
	return out
}

// hermite evaluates the cubic Hermite spline through y0..y3 at x in [0, 1)
// between y1 and y2.
func hermite(y0, y1, y2, y3, x float64) float64 {
	coefA := -hermiteCoeff0_5*y0 + hermiteCoeff1_5*y1 - hermiteCoeff1_5*y2 + hermiteCoeff0_5*y3
	coefB := y0 - hermiteCoeff2_5*y1 + 2*y2 - hermiteCoeff0_5*y3
	coefC := -hermiteCoeff0_5*y0 + hermiteCoeff0_5*y2
	coefD := y1

	return ((coefA*x+coefB)*x+coefC)*x + coefD
}

func clampS16(v float64) int16 {
	return int16(max(minS16, min(math.Round(v), maxS16)))
}
