package game

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/takashiro/qsgs/internal/log"
)

// GameLogic owns all mutable state of one match and is the sole mutator of
// it. Everything runs on one goroutine; client prompts are the only
// suspension points.
type GameLogic struct {
	settings *RoomSettings
	catalog  *Catalog
	mode     *GameMode
	logger   log.EventLogger
	rng      *rand.Rand

	players       []*Player
	currentPlayer *Player
	round         int
	extraTurns    []*Player

	drawPile    *CardArea
	discardPile *CardArea
	table       *CardArea
	wugu        *CardArea

	cards        map[uint]*Card
	cardPosition map[*Card]*CardArea
	nextCardId   uint

	handlers  map[EventType][]EventHandler
	skillRefs map[string]int

	reshuffleCount int
	finished       bool
	winners        []*Player
}

func NewGameLogic(settings *RoomSettings, catalog *Catalog, logger log.EventLogger) *GameLogic {
	if settings == nil {
		settings = DefaultRoomSettings()
	}
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	gl := &GameLogic{
		settings:     settings,
		catalog:      catalog,
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		cards:        map[uint]*Card{},
		cardPosition: map[*Card]*CardArea{},
		handlers:     map[EventType][]EventHandler{},
		skillRefs:    map[string]int{},
	}
	gl.drawPile = NewCardArea(DrawPileArea, nil)
	gl.discardPile = NewCardArea(DiscardPileArea, nil)
	gl.table = NewCardArea(TableArea, nil)
	gl.wugu = NewCardArea(WuguArea, nil)
	if catalog != nil {
		gl.mode = catalog.FindMode(settings.Mode)
	}
	return gl
}

func (gl *GameLogic) Settings() *RoomSettings { return gl.settings }

func (gl *GameLogic) Catalog() *Catalog { return gl.catalog }

func (gl *GameLogic) Mode() *GameMode { return gl.mode }

func (gl *GameLogic) Logger() log.EventLogger { return gl.logger }

// SeedRand makes the match's shuffles deterministic.
func (gl *GameLogic) SeedRand(seed int64) { gl.rng = rand.New(rand.NewSource(seed)) }

func (gl *GameLogic) DrawPile() *CardArea { return gl.drawPile }

func (gl *GameLogic) DiscardPile() *CardArea { return gl.discardPile }

func (gl *GameLogic) Table() *CardArea { return gl.table }

func (gl *GameLogic) Wugu() *CardArea { return gl.wugu }

func (gl *GameLogic) ReshuffleCount() int { return gl.reshuffleCount }

func (gl *GameLogic) Round() int { return gl.round }

func (gl *GameLogic) IsFinished() bool { return gl.finished }

func (gl *GameLogic) Winners() []*Player { return gl.winners }

// --- Players ---

// AddPlayer seats a new player at the end of the ring.
func (gl *GameLogic) AddPlayer(client Client) *Player {
	if client == nil {
		client = RobotClient{}
	}
	p := newPlayer(gl, uint(len(gl.players)+1), client)
	p.seat = len(gl.players) + 1
	gl.players = append(gl.players, p)
	p.next = gl.players[0]
	if len(gl.players) > 1 {
		gl.players[len(gl.players)-2].next = p
	}
	return p
}

func (gl *GameLogic) Players() []*Player { return gl.players }

func (gl *GameLogic) playerCount() int { return len(gl.players) }

func (gl *GameLogic) FindPlayer(id uint) *Player {
	for _, p := range gl.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (gl *GameLogic) CurrentPlayer() *Player { return gl.currentPlayer }

func (gl *GameLogic) setCurrentPlayer(p *Player) { gl.currentPlayer = p }

// AllPlayers lists players in action order anchored on the current player;
// dead players are skipped unless includeDead.
func (gl *GameLogic) AllPlayers(includeDead bool) []*Player {
	if len(gl.players) == 0 {
		return nil
	}
	start := gl.currentPlayer
	if start == nil {
		start = gl.players[0]
	}
	var sorted []*Player
	p := start
	for {
		if includeDead || p.alive {
			sorted = append(sorted, p)
		}
		p = p.next
		if p == start {
			break
		}
	}
	return sorted
}

// OtherPlayers lists living players other than except, in action order.
func (gl *GameLogic) OtherPlayers(except *Player) []*Player {
	var others []*Player
	for _, p := range gl.AllPlayers(false) {
		if p != except {
			others = append(others, p)
		}
	}
	return others
}

// sortByActionOrder sorts players in place into action order.
func (gl *GameLogic) sortByActionOrder(players []*Player) {
	order := map[*Player]int{}
	for i, p := range gl.AllPlayers(true) {
		order[p] = i
	}
	sort.SliceStable(players, func(i, j int) bool {
		return order[players[i]] < order[players[j]]
	})
}

// --- Dispatcher ---

// AddHandler subscribes a handler to all of its events. Registration order
// breaks priority ties.
func (gl *GameLogic) AddHandler(handler EventHandler) {
	for _, event := range handler.Events() {
		gl.handlers[event] = append(gl.handlers[event], handler)
	}
}

func (gl *GameLogic) RemoveHandler(handler EventHandler) {
	for _, event := range handler.Events() {
		list := gl.handlers[event]
		for i, h := range list {
			if h == handler {
				gl.handlers[event] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
}

// registerSkill adds the skill's handler unless another player already
// carries a skill of the same name.
func (gl *GameLogic) registerSkill(skill PlayerSkill) {
	handler := skill.Handler()
	if handler == nil {
		return
	}
	name := skill.Descriptor().Name()
	gl.skillRefs[name]++
	if gl.skillRefs[name] == 1 {
		gl.AddHandler(handler)
	}
}

func (gl *GameLogic) deregisterSkill(skill PlayerSkill) {
	handler := skill.Handler()
	if handler == nil {
		return
	}
	name := skill.Descriptor().Name()
	if gl.skillRefs[name] == 0 {
		return
	}
	gl.skillRefs[name]--
	if gl.skillRefs[name] == 0 {
		delete(gl.skillRefs, name)
		gl.RemoveHandler(handler)
	}
}

// trigger fires an event through the dispatcher. Handlers run in descending
// priority bands; within a band, invokers act in action order and choose
// among their options. A true result means a handler broke the pipeline;
// a break ends only that invoker's options, so every other invoker and
// every remaining band still runs.
func (gl *GameLogic) trigger(event EventType, target *Player, data any) (bool, error) {
	registered := gl.handlers[event]
	if len(registered) == 0 {
		return false, nil
	}
	sorted := append([]EventHandler(nil), registered...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority(event) > sorted[j].Priority(event)
	})

	anyBroken := false
	for lo := 0; lo < len(sorted); {
		hi := lo + 1
		prio := sorted[lo].Priority(event)
		for hi < len(sorted) && sorted[hi].Priority(event) == prio {
			hi++
		}
		broken, err := gl.triggerBand(sorted[lo:hi], event, target, data)
		if broken {
			anyBroken = true
		}
		if err != nil {
			return anyBroken, err
		}
		lo = hi
	}
	return anyBroken, nil
}

func (gl *GameLogic) triggerBand(band []EventHandler, event EventType, target *Player, data any) (bool, error) {
	pending := EventMap{}
	for _, handler := range band {
		for invoker, events := range handler.Triggerable(gl, event, target, data) {
			pending[invoker] = append(pending[invoker], events...)
		}
	}
	if len(pending) == 0 {
		return false, nil
	}

	// Dead invokers are skipped by default; a player with pending options
	// (the death pipeline's own target) still gets its turn at the end.
	order := gl.AllPlayers(false)
	iterated := map[*Player]bool{}
	for _, p := range order {
		iterated[p] = true
	}
	var leftOut []*Player
	for invoker := range pending {
		if !iterated[invoker] {
			leftOut = append(leftOut, invoker)
		}
	}
	sort.Slice(leftOut, func(i, j int) bool { return leftOut[i].seat < leftOut[j].seat })
	order = append(order, leftOut...)

	anyBroken := false
	for _, invoker := range order {
		events := pending[invoker]
		for len(events) > 0 {
			choice := events[0]
			if len(events) > 1 || !events[0].Handler.IsCompulsory() {
				cancelable := true
				for _, e := range events {
					if e.Handler.IsCompulsory() {
						cancelable = false
						break
					}
				}
				choice = invoker.askForTriggerOrder(events, cancelable)
				if !choice.IsValid() {
					break
				}
			}
			events = consumeEvent(events, choice)
			if !choice.Handler.OnCost(gl, event, target, data, invoker) {
				continue
			}
			eventTarget := target
			if len(choice.To) > 0 {
				eventTarget = choice.To[0]
			}
			broken, err := choice.Handler.Effect(gl, event, eventTarget, data, invoker)
			if err != nil {
				return anyBroken || broken, err
			}
			if broken {
				// A break retires this invoker's remaining options only.
				anyBroken = true
				break
			}
			events = pruneEvents(events, choice)
		}
	}
	return anyBroken, nil
}

// consumeEvent removes one occurrence of the chosen record.
func consumeEvent(events []Event, choice Event) []Event {
	for i, e := range events {
		if e.Handler == choice.Handler && sameTargets(e.To, choice.To) {
			return append(append([]Event(nil), events[:i]...), events[i+1:]...)
		}
	}
	return events
}

// pruneEvents drops target entries subsumed by the targets just consumed:
// for every record of the same handler, targets up to and including a
// consumed one are removed, and emptied records are dropped. A consumed
// record with no targets retires every remaining record of the same handler.
func pruneEvents(events []Event, choice Event) []Event {
	if len(choice.To) == 0 {
		var out []Event
		for _, e := range events {
			if e.Handler != choice.Handler {
				out = append(out, e)
			}
		}
		return out
	}
	var out []Event
	for _, e := range events {
		if e.Handler != choice.Handler {
			out = append(out, e)
			continue
		}
		to := e.To
		emptied := len(to) == 0
		for _, consumed := range choice.To {
			for i, t := range to {
				if t == consumed {
					to = to[i+1:]
					if len(to) == 0 {
						emptied = true
					}
					break
				}
			}
		}
		if emptied {
			continue
		}
		e.To = to
		out = append(out, e)
	}
	return out
}

func sameTargets(a, b []*Player) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Cards ---

// NewCard clones a catalog descriptor into a real card owned by this match.
func (gl *GameLogic) NewCard(descriptor *Card, suit Suit, number int) *Card {
	gl.nextCardId++
	card := descriptor.Clone(gl.nextCardId, suit, number)
	gl.cards[card.Id()] = card
	return card
}

func (gl *GameLogic) FindCard(id uint) *Card { return gl.cards[id] }

// CardPosition is the area currently holding the real card.
func (gl *GameLogic) CardPosition(card *Card) *CardArea { return gl.cardPosition[card] }

func (gl *GameLogic) setCardPosition(card *Card, area *CardArea) {
	if area == nil {
		delete(gl.cardPosition, card)
	} else {
		gl.cardPosition[card] = area
	}
}

// PrepareCards fills the draw pile with the given cards and shuffles.
func (gl *GameLogic) PrepareCards(cards []*Card) {
	shuffled := append([]*Card(nil), cards...)
	gl.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for _, card := range shuffled {
		gl.drawPile.Add(card)
		gl.setCardPosition(card, gl.drawPile)
	}
	gl.broadcast(log.GameEvent{
		Type:    log.EventPrepareCards,
		Data:    map[string]any{"count": len(shuffled)},
		Details: "prepare cards",
	})
}

// getDrawPileCards takes n cards off the top, reshuffling the discard pile
// underneath when the draw pile runs short. Exhausting both piles (or the
// configured reshuffle cap) ends the game in a stalemate.
func (gl *GameLogic) getDrawPileCards(n int) ([]*Card, error) {
	if gl.drawPile.Size() < n {
		if gl.discardPile.IsEmpty() {
			return nil, gl.gameOver(nil)
		}
		if gl.settings.ReshuffleCap > 0 && gl.reshuffleCount >= gl.settings.ReshuffleCap {
			return nil, gl.gameOver(nil)
		}
		recycled := gl.discardPile.Clear()
		gl.rng.Shuffle(len(recycled), func(i, j int) {
			recycled[i], recycled[j] = recycled[j], recycled[i]
		})
		for _, card := range recycled {
			gl.drawPile.Add(card)
			gl.setCardPosition(card, gl.drawPile)
		}
		gl.reshuffleCount++
		if gl.drawPile.Size() < n {
			return nil, gl.gameOver(nil)
		}
	}
	cards := make([]*Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, gl.drawPile.cards[i])
	}
	return cards, nil
}

// drawCards moves n cards from the draw pile into the player's hand.
func (gl *GameLogic) drawCards(player *Player, n int) error {
	cards, err := gl.getDrawPileCards(n)
	if err != nil {
		return err
	}
	move := &CardsMove{
		Cards:   cards,
		From:    gl.drawPile,
		To:      player.hand,
		Visible: player,
	}
	return gl.moveCards([]*CardsMove{move})
}

// --- Notifications ---

// broadcast logs an event and delivers it to every client.
func (gl *GameLogic) broadcast(event log.GameEvent) {
	event.Round = gl.round
	if event.Phase == "" && gl.currentPlayer != nil {
		event.Phase = gl.currentPlayer.phase.String()
	}
	gl.logger.Log(event)
	for _, p := range gl.players {
		p.client.Notify(event)
	}
}

// notifyPlayer delivers an event to one client only, still logging it.
func (gl *GameLogic) notifyPlayer(player *Player, event log.GameEvent) {
	event.Round = gl.round
	if event.Phase == "" && gl.currentPlayer != nil {
		event.Phase = gl.currentPlayer.phase.String()
	}
	gl.logger.Log(event)
	player.client.Notify(event)
}

// requestContext bounds one client prompt. A non-positive timeout means
// the room has no decision clock.
func (gl *GameLogic) requestContext() (context.Context, context.CancelFunc) {
	timeout := gl.settings.Timeout
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// gameOver ends the match and always returns SignalGameFinish so callers
// can unwind to the turn loop.
func (gl *GameLogic) gameOver(winners []*Player) error {
	if gl.finished {
		return SignalGameFinish
	}
	gl.finished = true
	gl.winners = winners
	ids := make([]uint, 0, len(winners))
	for _, w := range winners {
		ids = append(ids, w.id)
	}
	gl.broadcast(log.GameEvent{
		Type:    log.EventGameOver,
		Data:    map[string]any{"winners": ids},
		Details: "game over",
	})
	return SignalGameFinish
}
