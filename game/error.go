package game

const (
	ErrorNoRails         = "Error: no rails configured."
	ErrorNoCurveProvider = "Error: curve provider is missing."
	ErrorNoEmbodiment    = "Error: physical embodiment is missing."

	ErrorInternalInvalidRail     = "Error: rail %d is not a valid rail."
	ErrorInternalZeroLengthRail  = "Error: rail %d has a degenerate arc length of %v."
	ErrorInternalNonFinitePose   = "Error: non-finite pose evaluated on rail %d at t=%.4f."
	ErrorInternalNonFiniteLength = "Error: rail %d has a non-finite arc length."
)
