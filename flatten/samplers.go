package flatten

import (
	"math"

	"github.com/tsawler/cartograph/model"
)

const twoPi = 2 * math.Pi

// chordStep returns the angle step that keeps the chord deviation of a
// circular arc of the given radius within tol.
func chordStep(radius, tol float64) float64 {
	dev := tol
	if max := radius / 4; dev > max {
		dev = max
	}
	return 2 * math.Acos(1-dev/radius)
}

// circleAdaptive samples a full circle at the deviation-bounded step.
func circleAdaptive(center model.Point, radius, tol float64) ([]model.Point, error) {
	if radius <= 0 || tol <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, ErrMalformed
	}
	steps := int(math.Ceil(twoPi / chordStep(radius, tol)))
	if steps < 8 {
		steps = 8
	}
	return sampleArc(center, radius, 0, twoPi, steps, true), nil
}

// circleFixed is the closed-form fallback: a fixed angular step with a
// minimum of 24 samples so large tolerances cannot degrade a circle into a
// degenerate polygon.
func circleFixed(center model.Point, radius, tol float64) ([]model.Point, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, ErrMalformed
	}
	steps := 24
	if tol < 0.1 {
		tol = 0.1
	}
	if n := int(twoPi / tol); n > steps {
		steps = n
	}
	return sampleArc(center, radius, 0, twoPi, steps, true), nil
}

// arcAdaptive samples a circular arc at the deviation-bounded step.
func arcAdaptive(center model.Point, radius, start, end, tol float64) ([]model.Point, error) {
	if radius <= 0 || tol <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, ErrMalformed
	}
	if end < start {
		start, end = end, start
	}
	sweep := end - start
	if sweep <= 0 {
		return nil, ErrMalformed
	}
	steps := int(math.Ceil(sweep / chordStep(radius, tol)))
	if steps < 2 {
		steps = 2
	}
	return sampleArc(center, radius, start, end, steps, false), nil
}

// arcFixed is the closed-form fallback with a minimum of 16 samples.
func arcFixed(center model.Point, radius, start, end, tol float64) ([]model.Point, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, ErrMalformed
	}
	if end < start {
		start, end = end, start
	}
	sweep := end - start
	if sweep <= 0 {
		return nil, ErrMalformed
	}
	steps := 16
	if tol < 0.05 {
		tol = 0.05
	}
	if n := int(sweep / tol); n > steps {
		steps = n
	}
	return sampleArc(center, radius, start, end, steps, false), nil
}

// sampleArc produces steps+1 points along a circular arc. For closed sweeps
// the final sample reuses the first coordinate exactly so the canonical
// closure test holds.
func sampleArc(center model.Point, radius, start, end float64, steps int, closed bool) []model.Point {
	pts := make([]model.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		if closed && i == steps {
			pts = append(pts, pts[0])
			break
		}
		a := start + (end-start)*float64(i)/float64(steps)
		pts = append(pts, model.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	return pts
}

// ellipseAdaptive samples an ellipse parametrically. There is no
// closed-form fallback for ellipses; malformed axis data fails the entity.
func ellipseAdaptive(e model.Entity, tol float64) ([]model.Point, error) {
	major := math.Sqrt(e.MajorAxis.X*e.MajorAxis.X + e.MajorAxis.Y*e.MajorAxis.Y)
	if major <= 0 || e.Ratio <= 0 || tol <= 0 {
		return nil, ErrMalformed
	}
	start, end := e.StartParam, e.EndParam
	if end <= start {
		end += twoPi
	}
	sweep := end - start
	steps := int(math.Ceil(sweep / chordStep(major, tol)))
	if steps < 16 {
		steps = 16
	}

	// Minor axis direction is the major axis rotated a quarter turn.
	mx, my := e.MajorAxis.X, e.MajorAxis.Y
	closed := math.Abs(sweep-twoPi) < 1e-9

	pts := make([]model.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		if closed && i == steps {
			pts = append(pts, pts[0])
			break
		}
		t := start + sweep*float64(i)/float64(steps)
		cos, sin := math.Cos(t), math.Sin(t)
		pts = append(pts, model.Point{
			X: e.Center.X + cos*mx - sin*e.Ratio*my,
			Y: e.Center.Y + cos*my + sin*e.Ratio*mx,
		})
	}
	return pts, nil
}

// splineApprox evaluates a B-spline by de Boor's algorithm at a dense
// uniform sampling, then thins the run back to the chord tolerance with
// Douglas-Peucker. A spline with fewer control points than its order is
// malformed.
func splineApprox(e model.Entity, tol float64) ([]model.Point, error) {
	degree := e.Degree
	if degree <= 0 {
		degree = 3
	}
	ctrl := e.Vertices
	if len(ctrl) < degree+1 {
		return nil, ErrMalformed
	}

	knots := e.Knots
	if len(knots) != len(ctrl)+degree+1 {
		knots = clampedUniformKnots(len(ctrl), degree)
	}

	lo, hi := knots[degree], knots[len(ctrl)]
	if hi <= lo {
		return nil, ErrMalformed
	}

	samples := (len(ctrl) - degree) * 8
	if samples < 16 {
		samples = 16
	}
	pts := make([]model.Point, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := lo + (hi-lo)*float64(i)/float64(samples)
		pts = append(pts, deBoor(t, degree, ctrl, knots))
	}
	if tol > 0 {
		pts = simplify(pts, tol)
	}
	return pts, nil
}

func clampedUniformKnots(n, degree int) []float64 {
	knots := make([]float64, n+degree+1)
	spans := n - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= n:
			knots[i] = float64(spans)
		default:
			knots[i] = float64(i - degree)
		}
	}
	return knots
}

// deBoor evaluates the spline at parameter t.
func deBoor(t float64, degree int, ctrl []model.Point, knots []float64) model.Point {
	// Locate the knot span containing t.
	k := len(ctrl) - 1
	for i := degree; i < len(ctrl); i++ {
		if t < knots[i+1] {
			k = i
			break
		}
	}

	d := make([]model.Point, degree+1)
	copy(d, ctrl[k-degree:k+1])

	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			i := k - degree + j
			den := knots[i+degree-r+1] - knots[i]
			var alpha float64
			if den != 0 {
				alpha = (t - knots[i]) / den
			}
			d[j] = model.Point{
				X: (1-alpha)*d[j-1].X + alpha*d[j].X,
				Y: (1-alpha)*d[j-1].Y + alpha*d[j].Y,
				Z: (1-alpha)*d[j-1].Z + alpha*d[j].Z,
			}
		}
	}
	return d[degree]
}

// simplify thins a point run with Douglas-Peucker at the given deviation.
func simplify(pts []model.Point, tol float64) []model.Point {
	if len(pts) <= 2 {
		return pts
	}
	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true
	simplifyRange(pts, 0, len(pts)-1, tol, keep)

	out := make([]model.Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func simplifyRange(pts []model.Point, lo, hi int, tol float64, keep []bool) {
	if hi <= lo+1 {
		return
	}
	var worst int
	var worstDist float64
	for i := lo + 1; i < hi; i++ {
		if d := perpDistance(pts[i], pts[lo], pts[hi]); d > worstDist {
			worst, worstDist = i, d
		}
	}
	if worstDist <= tol {
		return
	}
	keep[worst] = true
	simplifyRange(pts, lo, worst, tol, keep)
	simplifyRange(pts, worst, hi, tol, keep)
}

func perpDistance(p, a, b model.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return p.Distance(a)
	}
	return math.Abs((p.X-a.X)*dy-(p.Y-a.Y)*dx) / length
}
