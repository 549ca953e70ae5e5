package analytics

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Pattern is a recurring standardized shape and the fraction of sliding
// windows that fall in its cluster.
type Pattern struct {
	Values    []float64 `json:"values"`
	Frequency float64   `json:"frequency"`
}

const (
	patternEps       = 0.5
	patternMinPoints = 5
	maxComponents    = 10
)

// ExtractPatterns finds recurring shapes by clustering sliding windows of the
// standardized series in a PCA-reduced space. Zero arguments select
// DefaultPatternWindow and DefaultPatternCount. Series shorter than the
// window produce no patterns, and so do series whose windows never repeat
// densely enough to cluster.
func (a *Analyzer) ExtractPatterns(windowSize, nPatterns int) []Pattern {
	if windowSize <= 0 {
		windowSize = DefaultPatternWindow
	}
	if nPatterns <= 0 {
		nPatterns = DefaultPatternCount
	}
	rows := len(a.norm) - windowSize + 1
	if rows < 1 {
		return nil
	}

	windows := mat.NewDense(rows, windowSize, nil)
	for i := 0; i < rows; i++ {
		windows.SetRow(i, a.norm[i:i+windowSize])
	}

	reduced := project(windows, min(maxComponents, windowSize, rows))
	labels := dbscan(reduced, patternEps, patternMinPoints)

	counts := make(map[int]int)
	maxLabel := -1
	for _, l := range labels {
		if l < 0 {
			continue
		}
		counts[l]++
		if l > maxLabel {
			maxLabel = l
		}
	}

	// Labels are discovery ordered; report the first nPatterns clusters.
	var patterns []Pattern
	for label := 0; label <= maxLabel && len(patterns) < nPatterns; label++ {
		count := counts[label]
		if count == 0 {
			continue
		}
		meanWindow := make([]float64, windowSize)
		for i, l := range labels {
			if l != label {
				continue
			}
			for j := 0; j < windowSize; j++ {
				meanWindow[j] += a.norm[i+j]
			}
		}
		for j := range meanWindow {
			meanWindow[j] /= float64(count)
		}
		patterns = append(patterns, Pattern{
			Values:    meanWindow,
			Frequency: float64(count) / float64(rows),
		})
	}
	return patterns
}

// project centers the rows of m and projects them onto the first k principal
// components. If the decomposition fails the centered rows are returned
// unprojected, which only costs the dimensionality reduction.
func project(m *mat.Dense, k int) [][]float64 {
	rows, cols := m.Dims()

	centered := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mean := stat.Mean(mat.Col(col, j, m), nil)
		for i := 0; i < rows; i++ {
			centered.Set(i, j, m.At(i, j)-mean)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return denseRows(centered)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, cols, 0, k))
	return denseRows(&proj)
}

func denseRows(m mat.Matrix) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := range out {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}
	return out
}

// dbscan assigns density-based cluster labels, -1 marking noise. A point with
// at least minPoints neighbors within eps (itself included) seeds a cluster,
// which then absorbs every density-reachable point.
func dbscan(points [][]float64, eps float64, minPoints int) []int {
	const unvisited = -2
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	eps2 := eps * eps
	neighborsOf := func(p int) []int {
		var nbs []int
		for q := range points {
			if sqDist(points[p], points[q]) <= eps2 {
				nbs = append(nbs, q)
			}
		}
		return nbs
	}

	cluster := 0
	for p := range points {
		if labels[p] != unvisited {
			continue
		}
		nbs := neighborsOf(p)
		if len(nbs) < minPoints {
			labels[p] = -1
			continue
		}

		labels[p] = cluster
		queue := append([]int(nil), nbs...)
		for len(queue) > 0 {
			q := queue[0]
			queue = queue[1:]
			if labels[q] == -1 {
				labels[q] = cluster // border point joins the cluster
			}
			if labels[q] != unvisited {
				continue
			}
			labels[q] = cluster
			if qnbs := neighborsOf(q); len(qnbs) >= minPoints {
				queue = append(queue, qnbs...)
			}
		}
		cluster++
	}
	return labels
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
