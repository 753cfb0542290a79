package log

// EventType enumerates every notification the engine can emit to clients.
type EventType int

const (
	EventMoveCards EventType = iota
	EventUseCard
	EventDamage
	EventLoseHp
	EventRecover
	EventGameOver
	EventArrangeSeat
	EventPrepareCards
	EventShowCard
	EventSetVirtualCard
	EventShowAmazingGrace
	EventClearAmazingGrace
	EventUpdatePlayerProperty
	EventSetPlayerTag
	EventInvokeSkill
	EventAddSkill
	EventRemoveSkill
	EventClearSkillHistory
	EventAddCardHistory
	EventShowPrompt
	EventGameStart
	EventNewRound
	EventTurnStart
	EventPhaseChange
	EventJudgeResult
	EventCardResponded
)

func (e EventType) String() string {
	switch e {
	case EventMoveCards:
		return "MoveCards"
	case EventUseCard:
		return "UseCard"
	case EventDamage:
		return "Damage"
	case EventLoseHp:
		return "LoseHp"
	case EventRecover:
		return "Recover"
	case EventGameOver:
		return "GameOver"
	case EventArrangeSeat:
		return "ArrangeSeat"
	case EventPrepareCards:
		return "PrepareCards"
	case EventShowCard:
		return "ShowCard"
	case EventSetVirtualCard:
		return "SetVirtualCard"
	case EventShowAmazingGrace:
		return "ShowAmazingGrace"
	case EventClearAmazingGrace:
		return "ClearAmazingGrace"
	case EventUpdatePlayerProperty:
		return "UpdatePlayerProperty"
	case EventSetPlayerTag:
		return "SetPlayerTag"
	case EventInvokeSkill:
		return "InvokeSkill"
	case EventAddSkill:
		return "AddSkill"
	case EventRemoveSkill:
		return "RemoveSkill"
	case EventClearSkillHistory:
		return "ClearSkillHistory"
	case EventAddCardHistory:
		return "AddCardHistory"
	case EventShowPrompt:
		return "ShowPrompt"
	case EventGameStart:
		return "GameStart"
	case EventNewRound:
		return "NewRound"
	case EventTurnStart:
		return "TurnStart"
	case EventPhaseChange:
		return "PhaseChange"
	case EventJudgeResult:
		return "JudgeResult"
	case EventCardResponded:
		return "CardResponded"
	default:
		return "Unknown"
	}
}

// GameEvent is a single observable notification in a match.
type GameEvent struct {
	Seq     int            // monotonic sequence number, set by the logger
	Round   int            // round counter at emit time
	Phase   string         // acting player's phase name
	Player  uint           // acting player id (0 if none)
	Type    EventType      // notification kind
	Data    map[string]any // structured payload (playerId/cardId/skillId maps, scalars)
	Details string         // human-readable detail line
}
