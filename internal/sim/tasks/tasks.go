package tasks

// Kind tags one atomic unit of behavior. The sim core is agnostic to what a
// kind does beyond the three-hook handler contract; kinds listed here are the
// closed set emitted by the built-in selectors.
type Kind string

const (
	// Combat ladder.
	KindEscape          Kind = "ESCAPE"
	KindShove           Kind = "SHOVE"
	KindSwitchWeapon    Kind = "SWITCH_WEAPON"
	KindMelee           Kind = "MELEE"
	KindSuppressRetreat Kind = "SUPPRESS_RETREAT"
	KindHeal            Kind = "HEAL"
	KindAim             Kind = "AIM"
	KindRack            Kind = "RACK"
	KindFire            Kind = "FIRE"
	KindReload          Kind = "RELOAD"
	KindResupply        Kind = "RESUPPLY"

	// Collision corrections.
	KindFace             Kind = "FACE"
	KindClimbFence       Kind = "CLIMB_FENCE"
	KindClimbWallStart   Kind = "CLIMB_WALL_START"
	KindClimbWallSuccess Kind = "CLIMB_WALL_SUCCESS"
	KindSmashWindow      Kind = "SMASH_WINDOW"
	KindClimbWindow      Kind = "CLIMB_WINDOW"
	KindUnbarricade      Kind = "UNBARRICADE"
	KindDestroy          Kind = "DESTROY"
	KindOpenDoor         Kind = "OPEN_DOOR"

	// Movement / programs.
	KindMove Kind = "MOVE"
	KindIdle Kind = "IDLE"
)

// State is the task lifecycle. Transitions are monotonic:
// StateNew -> StateWorking -> StateCompleted, never skipped or reversed.
type State int32

const (
	StateNew State = iota
	StateWorking
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateWorking:
		return "WORKING"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Vec3 is duplicated here to avoid import cycles (tasks is used by world).
type Vec3 struct{ X, Y, Z float64 }

// WeaponSlot selects a weapon from the agent loadout.
type WeaponSlot int

const (
	SlotNone WeaponSlot = iota
	SlotPrimary
	SlotSecondary
	SlotMelee
)

func (s WeaponSlot) String() string {
	switch s {
	case SlotPrimary:
		return "PRIMARY"
	case SlotSecondary:
		return "SECONDARY"
	case SlotMelee:
		return "MELEE"
	default:
		return "NONE"
	}
}

// Task is one atomic behavior unit owned by a brain's FIFO queue.
// Remaining is a duration budget in reference-frame units; the queue engine
// decrements it by a rate-normalized step so wall-clock duration does not
// depend on the tick rate.
type Task struct {
	TaskID string
	Kind   Kind
	State  State

	Remaining float64

	// Free-form parameters; which fields are meaningful depends on Kind.
	TargetID   string
	TargetPos  Vec3
	ObstacleID string
	Slot       WeaponSlot
	Sound      string
	DoneSound  string
	Anim       string
	Stage      int

	// MaxHearDist, when > 0, suppresses the start sound if the nearest
	// observer is farther away than this.
	MaxHearDist float64

	EnduranceDelta float64

	StartedTick uint64
}

// movementKinds are the kinds that drive locomotion; starting one of these
// must not cancel ongoing movement, and they satisfy "has a move task".
var movementKinds = map[Kind]bool{
	KindMove:            true,
	KindEscape:          true,
	KindSuppressRetreat: true,
}

func (t *Task) IsMovement() bool { return movementKinds[t.Kind] }

// InFlight reports whether the task has been started (state advanced past NEW).
func (t *Task) InFlight() bool { return t.State != StateNew }
