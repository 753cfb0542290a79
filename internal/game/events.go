package game

// EventType enumerates every hook point in the rule engine.
type EventType int

const (
	InvalidEvent EventType = iota

	// Turn
	EventGameStart
	EventTurnStart
	EventTurnBroken
	EventPhaseChanging
	EventPhaseSkipping
	EventPhaseStart
	EventPhaseProceeding
	EventPhaseEnd

	// Card use
	EventPreCardUsed
	EventCardUsed
	EventTargetChoosing
	EventTargetConfirming
	EventTargetChosen
	EventTargetConfirmed
	EventCardFinished

	// Card effect
	EventCardEffect
	EventCardEffected
	EventPostCardEffected

	// Card move
	EventBeforeCardsMove
	EventCardsMove
	EventAfterCardsMove

	// Damage
	EventConfirmDamage
	EventBeforeDamage
	EventDamageStart
	EventDamaging
	EventDamaged
	EventBeforeHpReduced
	EventAfterHpReduced
	EventAfterDamaging
	EventAfterDamaged
	EventDamageComplete

	// Hp
	EventHpLost
	EventAfterHpLost
	EventBeforeRecover
	EventAfterRecover

	// Judge
	EventStartJudge
	EventAskForRetrial
	EventFinishRetrial
	EventFinishJudge

	// Skill lifecycle
	EventSkillAdded
	EventSkillRemoved

	// Death
	EventBeforeGameOverJudge
	EventGameOverJudge
	EventDied
	EventBuryVictim

	// Response
	EventCardResponded

	eventTypeCount
)

// Event is one invocable option produced by a handler's Triggerable query:
// the handler plus the secondary targets it applies to, in order.
type Event struct {
	Handler EventHandler
	To      []*Player
}

// IsValid reports whether the event refers to a handler at all.
func (e Event) IsValid() bool {
	return e.Handler != nil
}

// EventMap maps each qualified invoker to the options it may exercise.
type EventMap map[*Player][]Event

// Add appends an option for the given invoker.
func (m EventMap) Add(invoker *Player, e Event) {
	m[invoker] = append(m[invoker], e)
}

// EventHandler reacts to engine events. Trigger skills and the game rule
// both implement it.
type EventHandler interface {
	Name() string

	// Events lists the event types this handler subscribes to.
	Events() []EventType

	// Priority may be event-dependent; higher runs earlier. Default 0.
	Priority(event EventType) int

	// IsCompulsory reports whether the invoker can decline this handler.
	IsCompulsory() bool

	// Triggerable returns, per qualified invoker, the options this handler
	// offers for the fired event. An empty map means not triggerable.
	Triggerable(logic *GameLogic, event EventType, target *Player, data any) EventMap

	// OnCost pays the invocation cost. Returning false drops the option.
	OnCost(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) bool

	// Effect performs the handler's action. A true result breaks the
	// dispatch; a ControlSignal error unwinds to the turn loop.
	Effect(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error)
}
