package game

import (
	"context"
	"testing"

	"github.com/takashiro/qsgs/internal/log"
)

// ScriptedClient follows predefined replies per prompt kind, falling back
// to the engine defaults (decline / end phase) when its script runs out.
// Used in tests to deterministically drive a match.
type ScriptedClient struct {
	player *Player

	triggerReplies []int
	cardReplies    []scriptedCards
	useReplies     []scriptedUse
	pickReplies    []string
	graceReplies   []string
	optionReplies  []int
	arrangeReplies [][][]string
	plays          []scriptedPlay
}

type scriptedUse struct {
	card string
	to   []*Player
}

type scriptedCards struct {
	names []string
	skill string
}

type scriptedPlay struct {
	card   string
	skill  string
	cards  []string
	to     []*Player
	recast bool
}

func (c *ScriptedClient) OnTrigger(index int) *ScriptedClient {
	c.triggerReplies = append(c.triggerReplies, index)
	return c
}

// AnswerCard queues one AskForCard reply naming the cards to hand over.
func (c *ScriptedClient) AnswerCard(names ...string) *ScriptedClient {
	c.cardReplies = append(c.cardReplies, scriptedCards{names: names})
	return c
}

// AnswerCardSkill queues one AskForCard reply converted through a view-as
// skill.
func (c *ScriptedClient) AnswerCardSkill(skill string, names ...string) *ScriptedClient {
	c.cardReplies = append(c.cardReplies, scriptedCards{names: names, skill: skill})
	return c
}

func (c *ScriptedClient) DeclineCard() *ScriptedClient {
	c.cardReplies = append(c.cardReplies, scriptedCards{})
	return c
}

// AnswerUse queues one AskToUseCard reply (e.g. a Nullification window).
func (c *ScriptedClient) AnswerUse(name string, to ...*Player) *ScriptedClient {
	c.useReplies = append(c.useReplies, scriptedUse{card: name, to: to})
	return c
}

func (c *ScriptedClient) DeclineUse() *ScriptedClient {
	c.useReplies = append(c.useReplies, scriptedUse{})
	return c
}

// PickCard queues one ChoosePlayerCard reply by card name.
func (c *ScriptedClient) PickCard(name string) *ScriptedClient {
	c.pickReplies = append(c.pickReplies, name)
	return c
}

func (c *ScriptedClient) TakeGrace(name string) *ScriptedClient {
	c.graceReplies = append(c.graceReplies, name)
	return c
}

// Arrange queues one ArrangeCards reply; each group names the cards it
// takes, in order.
func (c *ScriptedClient) Arrange(groups ...[]string) *ScriptedClient {
	c.arrangeReplies = append(c.arrangeReplies, groups)
	return c
}

func (c *ScriptedClient) ChooseOption(index int) *ScriptedClient {
	c.optionReplies = append(c.optionReplies, index)
	return c
}

// Play queues one Play-phase action using the named hand card.
func (c *ScriptedClient) Play(name string, to ...*Player) *ScriptedClient {
	c.plays = append(c.plays, scriptedPlay{card: name, to: to})
	return c
}

func (c *ScriptedClient) PlaySkill(skill string, cards []string, to ...*Player) *ScriptedClient {
	c.plays = append(c.plays, scriptedPlay{skill: skill, cards: cards, to: to})
	return c
}

func (c *ScriptedClient) Recast(name string) *ScriptedClient {
	c.plays = append(c.plays, scriptedPlay{card: name, recast: true})
	return c
}

func (c *ScriptedClient) findOwn(name string) *Card {
	for _, area := range []*CardArea{c.player.Hand(), c.player.Equip()} {
		if card := area.findName(name); card != nil {
			return card
		}
	}
	return nil
}

// --- game.Client ---

func (c *ScriptedClient) Notify(log.GameEvent) {}

func (c *ScriptedClient) ChooseTriggerOrder(ctx context.Context, options []Event, cancelable bool) (int, error) {
	if len(c.triggerReplies) == 0 {
		if cancelable {
			return -1, nil
		}
		return 0, nil
	}
	reply := c.triggerReplies[0]
	c.triggerReplies = c.triggerReplies[1:]
	return reply, nil
}

func (c *ScriptedClient) AskForCard(ctx context.Context, prompt CardPrompt) (*CardReply, error) {
	if len(c.cardReplies) == 0 {
		return nil, nil
	}
	reply := c.cardReplies[0]
	c.cardReplies = c.cardReplies[1:]
	if len(reply.names) == 0 {
		return nil, nil
	}
	var ids []uint
	for _, name := range reply.names {
		if card := c.findOwn(name); card != nil {
			ids = append(ids, card.Id())
		}
	}
	return &CardReply{CardIds: ids, Skill: reply.skill}, nil
}

func (c *ScriptedClient) ChoosePlayerCard(ctx context.Context, owner *Player, areas []AreaType) (uint, error) {
	if len(c.pickReplies) == 0 {
		return 0, nil
	}
	name := c.pickReplies[0]
	c.pickReplies = c.pickReplies[1:]
	for _, area := range []*CardArea{owner.Hand(), owner.Equip(), owner.DelayedTrick(), owner.Judge()} {
		if card := area.findName(name); card != nil {
			return card.Id(), nil
		}
	}
	return 0, nil
}

func (c *ScriptedClient) AskToUseCard(ctx context.Context, prompt CardPrompt) (*PlayAction, error) {
	if len(c.useReplies) == 0 {
		return nil, nil
	}
	reply := c.useReplies[0]
	c.useReplies = c.useReplies[1:]
	if reply.card == "" {
		return nil, nil
	}
	card := c.findOwn(reply.card)
	if card == nil {
		return nil, nil
	}
	return &PlayAction{Card: card, To: reply.to}, nil
}

func (c *ScriptedClient) ArrangeCards(ctx context.Context, cards []*Card, capacities []int) ([][]uint, error) {
	if len(c.arrangeReplies) == 0 {
		return nil, nil
	}
	reply := c.arrangeReplies[0]
	c.arrangeReplies = c.arrangeReplies[1:]
	used := make(map[*Card]bool)
	var groups [][]uint
	for _, names := range reply {
		var ids []uint
		for _, name := range names {
			for _, card := range cards {
				if card.Name() == name && !used[card] {
					used[card] = true
					ids = append(ids, card.Id())
					break
				}
			}
		}
		groups = append(groups, ids)
	}
	return groups, nil
}

func (c *ScriptedClient) AskForOption(ctx context.Context, options []string) (int, error) {
	if len(c.optionReplies) == 0 {
		return 0, nil
	}
	reply := c.optionReplies[0]
	c.optionReplies = c.optionReplies[1:]
	return reply, nil
}

func (c *ScriptedClient) ChooseGeneral(ctx context.Context, candidates []*General, n int) ([]uint, error) {
	return nil, nil
}

func (c *ScriptedClient) TakeAmazingGrace(ctx context.Context, cards []*Card) (uint, error) {
	if len(c.graceReplies) == 0 {
		return 0, nil
	}
	name := c.graceReplies[0]
	c.graceReplies = c.graceReplies[1:]
	for _, card := range cards {
		if card.Name() == name {
			return card.Id(), nil
		}
	}
	return 0, nil
}

func (c *ScriptedClient) Activate(ctx context.Context) (*PlayAction, error) {
	if len(c.plays) == 0 {
		return &PlayAction{EndPhase: true}, nil
	}
	reply := c.plays[0]
	c.plays = c.plays[1:]
	action := &PlayAction{Skill: reply.skill, To: reply.to, Recast: reply.recast}
	if reply.card != "" {
		action.Card = c.findOwn(reply.card)
	}
	for _, name := range reply.cards {
		if card := c.findOwn(name); card != nil {
			action.Cards = append(action.Cards, card)
		}
	}
	return action, nil
}

// --- Match fixture ---

// testEnv wires a match with scripted seats and the baseline rule, without
// running the turn loop, so pipelines can be driven directly.
type testEnv struct {
	t       *testing.T
	logic   *GameLogic
	logger  *log.MemoryLogger
	rule    *GameRule
	pkg     *Package
	players []*Player
	clients []*ScriptedClient
}

func newTestEnv(t *testing.T, seats int) *testEnv {
	t.Helper()
	catalog := NewStandardCatalog()
	logger := log.NewMemoryLogger()
	logic := NewGameLogic(DefaultRoomSettings(), catalog, logger)
	logic.SeedRand(7)

	env := &testEnv{
		t:      t,
		logic:  logic,
		logger: logger,
		rule:   NewGameRule(),
		pkg:    catalog.FindPackage("standard"),
	}
	logic.AddHandler(env.rule)
	for i := 0; i < seats; i++ {
		client := &ScriptedClient{}
		player := logic.AddPlayer(client)
		client.player = player
		player.maxHp = 4
		player.hp = 4
		env.players = append(env.players, player)
		env.clients = append(env.clients, client)
	}
	logic.setCurrentPlayer(env.players[0])
	return env
}

func (env *testEnv) newCard(name string, suit Suit, number int) *Card {
	env.t.Helper()
	behavior := env.pkg.FindBehavior(name)
	if behavior == nil {
		env.t.Fatalf("unknown card behavior %q", name)
	}
	return env.logic.NewCard(behavior, suit, number)
}

// addToHand deals a fresh card straight into the player's hand.
func (env *testEnv) addToHand(p *Player, name string, suit Suit, number int) *Card {
	card := env.newCard(name, suit, number)
	p.hand.Add(card)
	env.logic.setCardPosition(card, p.hand)
	return card
}

// stockDrawPile puts cards on top of the draw pile; the first argument is
// drawn first.
func (env *testEnv) stockDrawPile(cards ...*Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		env.logic.drawPile.AddFront(cards[i])
		env.logic.setCardPosition(cards[i], env.logic.drawPile)
	}
}

// equip puts the named card on the player through the use pipeline, so
// equip skills attach.
func (env *testEnv) equip(p *Player, name string, suit Suit, number int) *Card {
	env.t.Helper()
	card := env.addToHand(p, name, suit, number)
	if err := env.logic.UseCard(&CardUse{From: p, Card: card}); err != nil {
		env.t.Fatalf("equip %s: %v", name, err)
	}
	if !p.equip.Contains(card) {
		env.t.Fatalf("%s did not reach the equip area", name)
	}
	return card
}
