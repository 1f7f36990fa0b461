package railsim

const (
	// timerExpired is the sentinel both forgiving-control timers start at:
	// large enough that no window threshold can exceed it.
	timerExpired = float32(1e6)

	// boundaryEpsilon keeps the normalized parameter off the exact curve
	// boundary, where some curve implementations evaluate degenerate tangents.
	boundaryEpsilon = float32(1e-4)

	// minRailLength is the shortest arc length a rail may have before it is
	// treated as a configuration fault.
	minRailLength = float32(1e-3)

	coarseSamples = 64
	refineRounds  = 3
	refineSamples = 16
)
