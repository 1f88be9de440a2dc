package mapper

import "math"

// point is a 2D vector in stick space (y up).
type point struct {
	x float64
	y float64
}

// segmentsCross intersects segment a1-a2 with b1-b2, excluding the b2 endpoint.
func segmentsCross(a1, a2, b1, b2 point) (point, bool) {
	v1 := point{a2.x - a1.x, a2.y - a1.y}
	v2 := point{b2.x - b1.x, b2.y - b1.y}
	div := -v2.x*v1.y + v1.x*v2.y
	if div == 0 {
		return point{}, false
	}
	s := (-v1.y*(a1.x-b1.x) + v1.x*(a1.y-b1.y)) / div
	t := (v2.x*(a1.y-b1.y) - v2.y*(a1.x-b1.x)) / div
	if s >= 0 && s < 1 && t >= 0 && t <= 1 {
		return point{a1.x + t*v1.x, a1.y + t*v1.y}, true
	}
	return point{}, false
}

// octagonClamp projects (dx, dy) onto the regular octagon inscribed at radius
// when the displacement reaches past its edge. Points inside the octagon and
// points on an axis are returned unchanged.
func octagonClamp(dx, dy, radius float64) (float64, float64) {
	c := radius
	a := math.Sqrt(c * c / 2)
	var e1, e2 [2]point
	switch {
	case dx > 0 && dy > 0:
		e1 = [2]point{{0, c}, {a, a}}
		e2 = [2]point{{a, a}, {c, 0}}
	case dx < 0 && dy > 0:
		e1 = [2]point{{0, c}, {-a, a}}
		e2 = [2]point{{-a, a}, {-c, 0}}
	case dx < 0 && dy < 0:
		e1 = [2]point{{-c, 0}, {-a, -a}}
		e2 = [2]point{{-a, -a}, {0, -c}}
	case dx > 0 && dy < 0:
		e1 = [2]point{{0, -c}, {a, -a}}
		e2 = [2]point{{a, -a}, {c, 0}}
	default:
		return dx, dy
	}
	origin := point{}
	touch := point{dx, dy}
	if p, ok := segmentsCross(origin, touch, e1[0], e1[1]); ok {
		return p.x, p.y
	}
	if p, ok := segmentsCross(origin, touch, e2[0], e2[1]); ok {
		return p.x, p.y
	}
	return dx, dy
}
