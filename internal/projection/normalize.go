package projection

// zeroRange is the span below which a dimension is treated as constant.
const zeroRange = 1e-15

// Normalize min-max scales each dimension to [0,1]. Constant dimensions, and
// every dimension of a single point, map to 0.5. Rows must share a length.
func Normalize(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return [][]float64{}
	}
	d := len(points[0])
	if len(points) == 1 {
		return [][]float64{filled(d, Degenerate)}
	}

	mins := make([]float64, d)
	maxs := make([]float64, d)
	copy(mins, points[0])
	copy(maxs, points[0])
	for _, p := range points[1:] {
		for j := 0; j < d; j++ {
			mins[j] = min(mins[j], p[j])
			maxs[j] = max(maxs[j], p[j])
		}
	}

	out := make([][]float64, len(points))
	for i, p := range points {
		row := make([]float64, d)
		for j := 0; j < d; j++ {
			span := maxs[j] - mins[j]
			if span < zeroRange {
				row[j] = Degenerate
				continue
			}
			row[j] = (p[j] - mins[j]) / span
		}
		out[i] = row
	}
	return out
}
