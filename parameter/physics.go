package parameter

// Fixed-timestep orchestration
const (
	// FixedTimestep is the simulation step in seconds (60 Hz)
	FixedTimestep = 1.0 / 60.0

	// MaxStepsPerFrame caps fixed steps per Update before the catch-up step
	MaxStepsPerFrame = 3

	// StepTolerance absorbs float drift when comparing the accumulator against
	// the timestep, so k*FixedTimestep yields exactly k steps
	StepTolerance = 1e-9
)

// Verlet system
const (
	// VerletSubsteps is the number of integration+collision passes per Update
	VerletSubsteps = 8

	// RelaxationIterations is the constraint solver pass count after substeps
	RelaxationIterations = 2

	// VerletDamping is the fraction of implicit velocity removed per integration
	VerletDamping = 0.0

	// MinPointMass is the floor applied to non-fixed point masses
	MinPointMass = 0.01

	// DefaultDistanceStiffness and DefaultAngleStiffness match the rig builders
	DefaultDistanceStiffness = 1.0
	DefaultAngleStiffness    = 0.5

	// DefaultColliderFriction and DefaultColliderBounce replace zero coefficients
	// passed to AddCollisionBox and AddCollisionPlane
	DefaultColliderFriction = 0.8
	DefaultColliderBounce   = 0.3
)

// Gravity along -Z, the up axis of the world
const (
	GravityX = 0.0
	GravityY = 0.0
	GravityZ = -9.81
)

// Rigid entities
const (
	// EntityDamping multiplies entity velocity once per fixed step
	EntityDamping = 0.99

	// EntityRestitution is the entity-entity coefficient of restitution
	EntityRestitution = 0.3

	// StaticFriction scales reflected velocity after a static box contact
	StaticFriction = 0.8

	// DefaultEntityMass is used when a caller registers with mass <= 0
	DefaultEntityMass = 1.0
)

// Broad-phase
const (
	// GridCellSize is the spatial grid cell edge in world units
	GridCellSize = 10.0
)

// Cloth
const (
	// ClothDiagonalFactor scales stiffness for shear (diagonal) links
	ClothDiagonalFactor = 0.8

	// WindTurbulence is the default turbulence factor in [0, 1]
	WindTurbulence = 0.3

	// ClothSeed seeds the degenerate sphere push direction
	ClothSeed = 0x9E3779B97F4A7C15

	// Grid builder defaults
	ClothGridStiffness = 0.8
	ClothGridMass      = 1.0
	ClothDefaultRows   = 10
	ClothDefaultCols   = 10

	// Flag preset: left edge pinned, light and flexible
	FlagRowsPerUnit = 5
	FlagColsPerUnit = 7
	FlagMinRows     = 5
	FlagMinCols     = 7
	FlagStiffness   = 0.7
	FlagMass        = 0.8
	FlagPoleOffset  = 0.1

	// Cape preset: top edge pinned, heavier, curved at the shoulders
	CapeRowsPerUnit   = 8
	CapeColsPerUnit   = 6
	CapeMinRows       = 8
	CapeMinCols       = 6
	CapeStiffness     = 0.6
	CapeMass          = 1.2
	CapeShoulderCurve = 0.3
)

// Queries
const (
	// DefaultRayDistance bounds RayCast when callers pass a non-positive range
	DefaultRayDistance = 100.0

	// MinRayDirectionSq rejects near-zero ray directions
	MinRayDirectionSq = 1e-4
)
