package game

import (
	"context"

	"github.com/takashiro/qsgs/internal/log"
)

// PlayAction is one decision in the Play phase: use a card, invoke a
// proactive or convert skill over picked cards, recast, or end the phase.
type PlayAction struct {
	Card     *Card
	Skill    string
	Cards    []*Card
	To       []*Player
	Recast   bool
	EndPhase bool
}

// CardPrompt describes an ask-for-card request.
type CardPrompt struct {
	Pattern  string
	Message  string
	Optional bool
	MinNum   int
	MaxNum   int
}

// CardReply answers a CardPrompt: the chosen card ids, optionally converted
// through the named view-as skill.
type CardReply struct {
	CardIds []uint
	Skill   string
}

// Client is the engine's port to whoever answers prompts for one player,
// human or robot. Every method blocks until a reply arrives or ctx expires;
// on error the engine substitutes the documented default. Notifications are
// fire-and-forget.
type Client interface {
	// Notify delivers an observable game event.
	Notify(event log.GameEvent)

	// ChooseTriggerOrder picks one of the pending options by index;
	// -1 cancels when cancelable.
	ChooseTriggerOrder(ctx context.Context, options []Event, cancelable bool) (int, error)

	// AskForCard answers a response prompt with matching card ids, possibly
	// converted through a view-as skill, or nothing to decline.
	AskForCard(ctx context.Context, prompt CardPrompt) (*CardReply, error)

	// ChoosePlayerCard picks one card from the listed areas of a player.
	ChoosePlayerCard(ctx context.Context, owner *Player, areas []AreaType) (uint, error)

	// AskToUseCard answers a use prompt with a card and targets, or nil to
	// decline.
	AskToUseCard(ctx context.Context, prompt CardPrompt) (*PlayAction, error)

	// ArrangeCards splits the shown cards into the requested groups.
	ArrangeCards(ctx context.Context, cards []*Card, capacities []int) ([][]uint, error)

	// AskForOption picks one of the listed options by index.
	AskForOption(ctx context.Context, options []string) (int, error)

	// ChooseGeneral picks n generals from the candidates.
	ChooseGeneral(ctx context.Context, candidates []*General, n int) ([]uint, error)

	// TakeAmazingGrace picks one of the revealed shared cards.
	TakeAmazingGrace(ctx context.Context, cards []*Card) (uint, error)

	// Activate asks for the next Play-phase action.
	Activate(ctx context.Context) (*PlayAction, error)
}

// RobotClient declines everything it can and lets the engine's prompt
// defaults decide the rest.
type RobotClient struct{}

func (RobotClient) Notify(log.GameEvent) {}

func (RobotClient) ChooseTriggerOrder(ctx context.Context, options []Event, cancelable bool) (int, error) {
	if cancelable {
		return -1, nil
	}
	return 0, nil
}

func (RobotClient) AskForCard(ctx context.Context, prompt CardPrompt) (*CardReply, error) {
	return nil, nil
}

func (RobotClient) ChoosePlayerCard(ctx context.Context, owner *Player, areas []AreaType) (uint, error) {
	return 0, nil
}

func (RobotClient) AskToUseCard(ctx context.Context, prompt CardPrompt) (*PlayAction, error) {
	return nil, nil
}

func (RobotClient) ArrangeCards(ctx context.Context, cards []*Card, capacities []int) ([][]uint, error) {
	return nil, nil
}

func (RobotClient) AskForOption(ctx context.Context, options []string) (int, error) {
	return 0, nil
}

func (RobotClient) ChooseGeneral(ctx context.Context, candidates []*General, n int) ([]uint, error) {
	return nil, nil
}

func (RobotClient) TakeAmazingGrace(ctx context.Context, cards []*Card) (uint, error) {
	return 0, nil
}

func (RobotClient) Activate(ctx context.Context) (*PlayAction, error) {
	return &PlayAction{EndPhase: true}, nil
}
