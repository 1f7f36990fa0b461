package railsim

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/railgrind/railgrind/game"
)

// projection is the result of a nearest-point-on-curve search.
type projection struct {
	rail    int
	t       float32
	pos     mgl32.Vec3
	distSqr float32
}

// railWorldPoint evaluates the world-space centerline position of a rail at
// the given parameter.
func (s *Simulator) railWorldPoint(rail int, t float32) mgl32.Vec3 {
	local, _, _ := s.Curves.Evaluate(rail, t)
	return s.Curves.ToWorldPoint(rail, local)
}

// nearestOnRail finds the closest point on one rail to the query point using
// coarse sampling followed by a fixed number of refinement rounds over a
// shrinking window. The refinement keeps the incumbent best, so the result
// distance never worsens across rounds. Derivative-free on purpose: arbitrary
// curve shapes give root-finding no convergence guarantee.
func (s *Simulator) nearestOnRail(rail int, query mgl32.Vec3, maxDist float32) (projection, bool) {
	best := projection{rail: rail, distSqr: math32.MaxFloat32}

	for i := 0; i <= coarseSamples; i++ {
		t := float32(i) / coarseSamples
		p := s.railWorldPoint(rail, t)
		if d := p.Sub(query).LenSqr(); d < best.distSqr {
			best = projection{rail: rail, t: t, pos: p, distSqr: d}
		}
	}

	window := float32(1.0) / coarseSamples
	for round := 0; round < refineRounds; round++ {
		lo := game.ClampFloat(best.t-window, 0, 1)
		hi := game.ClampFloat(best.t+window, 0, 1)
		for i := 0; i <= refineSamples; i++ {
			t := lo + (hi-lo)*float32(i)/refineSamples
			p := s.railWorldPoint(rail, t)
			if d := p.Sub(query).LenSqr(); d < best.distSqr {
				best = projection{rail: rail, t: t, pos: p, distSqr: d}
			}
		}
		window /= 2
	}

	if best.distSqr > maxDist*maxDist {
		return projection{}, false
	}
	return best, true
}

// nearestOnAnyRail runs the per-rail search over the whole rail set and keeps
// the global best within the distance budget. Rails whose world bounds lie
// entirely outside the budget are culled without sampling when the provider
// exposes bounds. "Nothing within budget" is a valid, expected outcome.
func (s *Simulator) nearestOnAnyRail(query mgl32.Vec3, maxDist float32) (projection, bool) {
	bounds, _ := s.Curves.(BoundsProvider)
	budgetSqr := maxDist * maxDist

	best := projection{distSqr: math32.MaxFloat32}
	found := false
	for rail := 0; rail < s.Curves.RailCount(); rail++ {
		if !s.Curves.IsValid(rail) {
			continue
		}
		if bounds != nil && aabbDistSqr(bounds.Bounds(rail), query) > budgetSqr {
			continue
		}
		if proj, ok := s.nearestOnRail(rail, query, maxDist); ok && proj.distSqr < best.distSqr {
			best = proj
			found = true
		}
	}
	return best, found
}

// nearestEndpoint searches only the two endpoints of every rail, including
// the far endpoint of the current rail, and picks the globally closest
// endpoint within snapDist. The endpoint being left is excluded, since the
// leaving position trivially sits on top of it. Ties keep the
// first-encountered endpoint; exact ties are measure-zero in practice.
func (s *Simulator) nearestEndpoint(query mgl32.Vec3, snapDist float32, leaveRail int, leaveT float32) (rail int, t float32, ok bool) {
	budgetSqr := snapDist * snapDist
	bestDistSqr := float32(math32.MaxFloat32)

	for r := 0; r < s.Curves.RailCount(); r++ {
		if !s.Curves.IsValid(r) {
			continue
		}
		for _, endT := range [2]float32{0, 1} {
			if r == leaveRail && endT == leaveT {
				continue
			}
			p := s.railWorldPoint(r, endT)
			if d := p.Sub(query).LenSqr(); d <= budgetSqr && d < bestDistSqr {
				rail, t, ok = r, endT, true
				bestDistSqr = d
			}
		}
	}
	return rail, t, ok
}

// aabbDistSqr returns the squared distance from a point to the given box,
// zero when the point lies inside it.
func aabbDistSqr(bb cube.BBox, p mgl32.Vec3) float32 {
	var distSqr float32
	min, max := bb.Min(), bb.Max()
	for axis := 0; axis < 3; axis++ {
		d := math32.Max(min[axis]-p[axis], math32.Max(0, p[axis]-max[axis]))
		distSqr += d * d
	}
	return distSqr
}
