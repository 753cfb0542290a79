package game

// --- Enums ---

// InfinityNum stands in for "no limit" on counted card attributes.
const InfinityNum = int(^uint(0) >> 1)

type Suit int

const (
	NoSuit Suit = iota
	Spade
	Heart
	Club
	Diamond
)

func (s Suit) String() string {
	switch s {
	case Spade:
		return "spade"
	case Heart:
		return "heart"
	case Club:
		return "club"
	case Diamond:
		return "diamond"
	default:
		return "no_suit"
	}
}

type Color int

const (
	NoColor Color = iota
	Red
	Black
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "no_color"
	}
}

type CardKind int

const (
	InvalidKind CardKind = iota
	BasicKind
	TrickKind
	EquipKind
	SkillKind
)

func (k CardKind) String() string {
	switch k {
	case BasicKind:
		return "basic"
	case TrickKind:
		return "trick"
	case EquipKind:
		return "equip"
	case SkillKind:
		return "skill"
	default:
		return "invalid"
	}
}

// CardSubtype tags the kind-specific variant of a card.
type CardSubtype int

const (
	NoSubtype CardSubtype = iota

	// Trick subtypes
	GlobalEffectType
	AreaOfEffectType
	SingleTargetType
	DelayedType

	// Equip subtypes
	WeaponType
	ArmorType
	OffensiveHorseType
	DefensiveHorseType
	TreasureType
)

func (s CardSubtype) String() string {
	switch s {
	case GlobalEffectType:
		return "global_effect"
	case AreaOfEffectType:
		return "area_of_effect"
	case SingleTargetType:
		return "single_target"
	case DelayedType:
		return "delayed"
	case WeaponType:
		return "weapon"
	case ArmorType:
		return "armor"
	case OffensiveHorseType:
		return "offensive_horse"
	case DefensiveHorseType:
		return "defensive_horse"
	case TreasureType:
		return "treasure"
	default:
		return "none"
	}
}

type Phase int

const (
	InactivePhase Phase = iota
	RoundStartPhase
	StartPhase
	JudgePhase
	DrawPhase
	PlayPhase
	DiscardPhase
	FinishPhase
)

func (p Phase) String() string {
	switch p {
	case RoundStartPhase:
		return "round_start"
	case StartPhase:
		return "start"
	case JudgePhase:
		return "judge"
	case DrawPhase:
		return "draw"
	case PlayPhase:
		return "play"
	case DiscardPhase:
		return "discard"
	case FinishPhase:
		return "finish"
	default:
		return "inactive"
	}
}

type DamageNature int

const (
	NormalDamage DamageNature = iota
	FireDamage
	ThunderDamage
)

func (n DamageNature) String() string {
	switch n {
	case FireDamage:
		return "fire"
	case ThunderDamage:
		return "thunder"
	default:
		return "normal"
	}
}

type SkillArea int

const (
	UnknownSkillArea SkillArea = iota
	HeadSkillArea
	DeputySkillArea
	AcquiredSkillArea
)

// --- Control signals ---

// ControlSignal is a structured out-of-band transition raised inside the
// card-use, damage, or phase pipelines and caught only by the turn loop.
type ControlSignal int

const (
	SignalTurnBroken ControlSignal = iota + 1
	SignalStageChange
	SignalGameFinish
)

func (s ControlSignal) Error() string {
	switch s {
	case SignalTurnBroken:
		return "turn broken"
	case SignalStageChange:
		return "stage change"
	case SignalGameFinish:
		return "game finish"
	default:
		return "unknown signal"
	}
}
