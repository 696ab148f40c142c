package cluster

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/heatgrid/pkg/errors"
)

// Method selects how the distance between two clusters is derived from the
// distances of their members.
type Method string

// Linkage methods.
const (
	Single   Method = "single"
	Complete Method = "complete"
	Average  Method = "average"
	Weighted Method = "weighted"
	Centroid Method = "centroid"
	Median   Method = "median"
	Ward     Method = "ward"
)

// Metric selects the distance between two observations.
type Metric string

// Distance metrics.
const (
	Euclidean   Metric = "euclidean"
	SqEuclidean Metric = "sqeuclidean"
	Cityblock   Metric = "cityblock"
	Chebyshev   Metric = "chebyshev"
	Cosine      Metric = "cosine"
	Correlation Metric = "correlation"
)

// Defaults used when a caller leaves method or metric empty.
const (
	DefaultMethod = Average
	DefaultMetric = Euclidean
)

var methods = []Method{Single, Complete, Average, Weighted, Centroid, Median, Ward}

var metrics = []Metric{Euclidean, SqEuclidean, Cityblock, Chebyshev, Cosine, Correlation}

// ParseMethod converts a method name (case-insensitive) to a Method.
// An empty name yields DefaultMethod.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return DefaultMethod, nil
	}
	m := Method(strings.ToLower(s))
	if !slices.Contains(methods, m) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown linkage method %q", s)
	}
	return m, nil
}

// ParseMetric converts a metric name (case-insensitive) to a Metric.
// An empty name yields DefaultMetric.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return DefaultMetric, nil
	}
	m := Metric(strings.ToLower(s))
	if !slices.Contains(metrics, m) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown distance metric %q", s)
	}
	return m, nil
}

// requiresEuclidean reports whether the Lance-Williams update of m is only
// geometrically meaningful on euclidean distances.
func (m Method) requiresEuclidean() bool {
	return m == Centroid || m == Median || m == Ward
}

// Clusterer computes a merge tree for the rows of a matrix.
type Clusterer interface {
	Cluster(m mat.Matrix, method Method, metric Metric) (*Tree, error)
}

// Agglomerative is the default Clusterer, backed by [Linkage].
type Agglomerative struct{}

// Cluster implements Clusterer.
func (Agglomerative) Cluster(m mat.Matrix, method Method, metric Metric) (*Tree, error) {
	return Linkage(m, method, metric)
}

// Linkage clusters the rows of m.
//
// Ties between equally close pairs are broken by the lowest slot pair, so
// the result is deterministic for a given input. A matrix with a single row
// yields a tree with no merges and leaf order [0].
func Linkage(m mat.Matrix, method Method, metric Metric) (*Tree, error) {
	if method == "" {
		method = DefaultMethod
	}
	if metric == "" {
		metric = DefaultMetric
	}
	if !slices.Contains(methods, method) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown linkage method %q", method)
	}
	if !slices.Contains(metrics, metric) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown distance metric %q", metric)
	}
	if method.requiresEuclidean() && metric != Euclidean {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s linkage requires the euclidean metric, got %s", method, metric)
	}

	n, _ := m.Dims()
	if n == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cannot cluster an empty matrix")
	}

	if i, j, ok := nonFinite(m); ok {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"cannot cluster non-finite value %v at (%d, %d)", m.At(i, j), i, j)
	}

	dist := pairwise(m, metric)
	return agglomerate(n, dist, method), nil
}

// nonFinite returns the position of the first NaN or infinite entry of m.
func nonFinite(m mat.Matrix) (i, j int, ok bool) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// pairwise returns the symmetric n×n distance matrix between the rows of m.
func pairwise(m mat.Matrix, metric Metric) [][]float64 {
	n, _ := m.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := distance(rows[i], rows[j], metric)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

// distance between two observations. Cosine and correlation distances are
// undefined for zero or constant vectors; those pairs get distance 1.
func distance(a, b []float64, metric Metric) float64 {
	switch metric {
	case SqEuclidean:
		d := floats.Distance(a, b, 2)
		return d * d
	case Cityblock:
		return floats.Distance(a, b, 1)
	case Chebyshev:
		return floats.Distance(a, b, math.Inf(1))
	case Cosine:
		na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
		if na == 0 || nb == 0 {
			return 1
		}
		return 1 - floats.Dot(a, b)/(na*nb)
	case Correlation:
		r := stat.Correlation(a, b, nil)
		if math.IsNaN(r) {
			return 1
		}
		return 1 - r
	default:
		return floats.Distance(a, b, 2)
	}
}

// agglomerate runs the naive O(n³) Lance-Williams loop over dist, which it
// consumes. Slot i holds the cluster whose id is ids[i]; when two slots merge
// the lower slot takes the new cluster and the higher one is retired.
func agglomerate(n int, dist [][]float64, method Method) *Tree {
	ids := make([]int, n)
	sizes := make([]int, n)
	active := make([]bool, n)
	for i := range ids {
		ids[i] = i
		sizes[i] = 1
		active[i] = true
	}

	merges := make([]Merge, 0, n-1)
	for step := 0; step < n-1; step++ {
		a, b := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && (a < 0 || closer(dist[i][j], best)) {
					best, a, b = dist[i][j], i, j
				}
			}
		}

		left, right := ids[a], ids[b]
		if left > right {
			left, right = right, left
		}
		size := sizes[a] + sizes[b]
		merges = append(merges, Merge{Left: left, Right: right, Distance: best, Size: size})

		for k := 0; k < n; k++ {
			if !active[k] || k == a || k == b {
				continue
			}
			d := update(method, dist[a][k], dist[b][k], best, sizes[a], sizes[b], sizes[k])
			dist[a][k] = d
			dist[k][a] = d
		}

		ids[a] = n + step
		sizes[a] = size
		active[b] = false
	}

	return newTree(n, merges)
}

// closer orders distances with NaN above everything, so a pair is always
// picked even when overflow leaves only infinite or NaN distances.
func closer(d, best float64) bool {
	return d < best || (math.IsNaN(best) && !math.IsNaN(d))
}

// update is the Lance-Williams recurrence: the distance from the union of
// clusters i and j to cluster k.
func update(method Method, dik, djk, dij float64, si, sj, sk int) float64 {
	fi, fj, fk := float64(si), float64(sj), float64(sk)
	switch method {
	case Single:
		return math.Min(dik, djk)
	case Complete:
		return math.Max(dik, djk)
	case Weighted:
		return (dik + djk) / 2
	case Centroid:
		t := fi + fj
		return sqrt0((fi*dik*dik+fj*djk*djk)/t - fi*fj*dij*dij/(t*t))
	case Median:
		return sqrt0(dik*dik/2 + djk*djk/2 - dij*dij/4)
	case Ward:
		t := fi + fj + fk
		return sqrt0(((fi+fk)*dik*dik + (fj+fk)*djk*djk - fk*dij*dij) / t)
	default:
		return (fi*dik + fj*djk) / (fi + fj)
	}
}

func sqrt0(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}
