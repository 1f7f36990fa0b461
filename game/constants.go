package game

const (
	DefaultTickRate = 50

	DefaultMaxSpeed         = float32(20)
	DefaultAccel            = float32(14)
	DefaultBrake            = float32(28)
	DefaultGravityAlongRail = float32(0)
	DefaultGravityY         = float32(-19.6)

	DefaultSurfaceOffset   = float32(0.25)
	DefaultEndSnapDistance = float32(1.5)

	DefaultJumpImpulse      = float32(7)
	DefaultJumpForwardBoost = float32(1.5)
	DefaultCoyoteTime       = float32(0.12)
	DefaultJumpBufferTime   = float32(0.15)

	DefaultAirAccel    = float32(10)
	DefaultAirMaxSpeed = float32(8)

	DefaultKillY             = float32(-50)
	DefaultMaxDetachDistance = float32(30)
	DefaultMaxAirTime        = float32(8)
	DefaultRegrabDistance    = float32(1.5)
	DefaultRegrabLockout     = float32(0.25)
)
