package eval

import "math"

// lanczos holds the g=7, n=9 Lanczos coefficients.
var lanczos = [...]float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61502916214059,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

// LogGamma returns ln Γ(z) for z > 0 using the Lanczos approximation.
func LogGamma(z float64) float64 {
	if z < 0.5 {
		// Reflection: Γ(z)Γ(1-z) = π / sin(πz)
		return math.Log(math.Pi/math.Sin(math.Pi*z)) - LogGamma(1-z)
	}
	z--
	x := lanczos[0]
	for i := 1; i < len(lanczos); i++ {
		x += lanczos[i] / (z + float64(i))
	}
	t := z + 7.5
	return 0.5*math.Log(2*math.Pi) + (z+0.5)*math.Log(t) - t + math.Log(x)
}

// AdaptiveEpsilon returns the radius whose d-ball has the same volume as a 2-D
// disc of radius reference, so coverage is equally demanding in every dimension.
//
//	ε_d = (π·ref² · Γ(d/2+1) / π^(d/2))^(1/d)
//
// The computation runs in log space so large d does not overflow.
func AdaptiveEpsilon(dims int, reference float64) float64 {
	if dims < 1 {
		return reference
	}
	d := float64(dims)
	half := d / 2
	logTarget := math.Log(math.Pi*reference*reference) + LogGamma(half+1)
	logBall := half * math.Log(math.Pi)
	return math.Exp((logTarget - logBall) / d)
}
