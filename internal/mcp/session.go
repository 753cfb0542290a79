package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/takashiro/qsgs/internal/game"
	"github.com/takashiro/qsgs/internal/log"
)

// DecisionType identifies what kind of decision the engine is waiting for.
type DecisionType string

const (
	DecisionTriggerOrder  DecisionType = "trigger_order"
	DecisionProvideCard   DecisionType = "provide_card"
	DecisionPickCard      DecisionType = "pick_card"
	DecisionUseCard       DecisionType = "use_card"
	DecisionActivate      DecisionType = "activate"
	DecisionArrangeCards  DecisionType = "arrange_cards"
	DecisionChooseOption  DecisionType = "choose_option"
	DecisionChooseGeneral DecisionType = "choose_general"
	DecisionGameOver      DecisionType = "game_over"
)

// PendingDecision is one prompt the engine is blocked on.
type PendingDecision struct {
	Type       DecisionType `json:"type"`
	Pattern    string       `json:"pattern,omitempty"`
	Prompt     string       `json:"prompt,omitempty"`
	Optional   bool         `json:"optional,omitempty"`
	Cancelable bool         `json:"cancelable,omitempty"`
	MinNum     int          `json:"minNum,omitempty"`
	MaxNum     int          `json:"maxNum,omitempty"`
	Options    []string     `json:"options,omitempty"`
	Cards      []CardView   `json:"cards,omitempty"`
	Generals   []string     `json:"generals,omitempty"`
	Capacities []int        `json:"capacities,omitempty"`
	State      *StateView   `json:"-"`
}

// Responses sent back from MCP tools to the controller.

type orderResponse struct {
	Index int
}

type cardsResponse struct {
	CardIds []uint
	Skill   string
}

type pickResponse struct {
	CardId uint
}

type actionResponse struct {
	CardId   uint
	CardIds  []uint
	Skill    string
	To       []uint
	Recast   bool
	EndPhase bool
}

type arrangeResponse struct {
	Groups [][]uint
}

type optionResponse struct {
	Index int
}

type generalResponse struct {
	Ids []uint
}

// ToolResponse is the JSON envelope returned by every tool.
type ToolResponse struct {
	Events   []log.GameEvent  `json:"events"`
	State    *StateView       `json:"state,omitempty"`
	Pending  *PendingDecision `json:"pending,omitempty"`
	GameOver bool             `json:"gameOver"`
	Winners  []string         `json:"winners,omitempty"`
}

// GameSession is one match driven through MCP tools. The agent holds one
// seat; every other seat is a robot.
type GameSession struct {
	logic *game.GameLogic
	ctrl  *AgentClient
	seat  *game.Player

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []log.GameEvent
	gameOver bool
	winners  []string
}

// NewGameSession seats the agent first, fills the table with robots, and
// starts the match goroutine.
func NewGameSession(catalog *game.Catalog, seats int) (*GameSession, error) {
	settings := game.DefaultRoomSettings()
	settings.Capacity = seats
	settings.Timeout = 0

	mode := catalog.FindMode(settings.Mode)
	if mode == nil {
		return nil, fmt.Errorf("unknown game mode %q", settings.Mode)
	}
	if seats < mode.MinPlayers {
		return nil, fmt.Errorf("mode %s needs at least %d players", mode.Name, mode.MinPlayers)
	}

	logic := game.NewGameLogic(settings, catalog, log.NewMemoryLogger())
	sess := &GameSession{
		logic:     logic,
		pendingCh: make(chan *PendingDecision, 1),
	}
	sess.ctrl = NewAgentClient(sess)
	sess.seat = logic.AddPlayer(sess.ctrl)
	for i := 1; i < seats; i++ {
		logic.AddPlayer(game.RobotClient{})
	}

	go func() {
		err := logic.Start()

		sess.mu.Lock()
		sess.gameOver = true
		if err != nil {
			sess.winners = []string{fmt.Sprintf("error: %v", err)}
		} else {
			for _, winner := range logic.Winners() {
				sess.winners = append(sess.winners, winner.Name())
			}
		}
		sess.mu.Unlock()

		sess.pendingCh <- &PendingDecision{
			Type:  DecisionGameOver,
			State: buildStateView(logic, sess.seat),
		}
	}()

	return sess, nil
}

func (s *GameSession) appendEvent(event log.GameEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// drainEvents returns the accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []log.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// waitForPending blocks until the engine needs the agent again, then
// packages the accumulated events with the new pending decision.
func (s *GameSession) waitForPending() *ToolResponse {
	pending := <-s.pendingCh
	s.currentPending = pending

	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  pending.State,
	}
	if resp.Events == nil {
		resp.Events = []log.GameEvent{}
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winners = s.winners
		s.mu.Unlock()
		return resp
	}

	resp.Pending = pending
	return resp
}

func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
