package game

// Card is one playable card. Real cards are cloned from the catalog at match
// start and have a unique nonzero id; virtual cards (id 0) are synthesized by
// view-as skills over real subcards. Behavior is supplied through func-valued
// hooks so content packages can override any stage of the use pipeline
// without a type hierarchy.
type Card struct {
	id      uint
	name    string
	suit    Suit
	number  int
	kind    CardKind
	subtype CardSubtype

	transferable  bool
	canRecast     bool
	targetFixed   bool
	useLimit      int
	maxTargetNum  int
	minTargetNum  int
	distanceLimit int
	skillName     string

	subcards []*Card

	// judgePattern decides a delayed trick's resolution judge.
	judgePattern string

	// equipSkills are granted to the owner while the card sits in an equip
	// area.
	equipSkills []PlayerSkill

	// Hook overrides. A nil hook falls back to the kind/subtype default.
	availableFn func(logic *GameLogic, source *Player) bool
	filterFn    func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool
	feasibleFn  func(selected []*Player, source *Player) bool
	onUseFn     func(logic *GameLogic, use *CardUse) error
	useFn       func(logic *GameLogic, use *CardUse) error
	onEffectFn  func(logic *GameLogic, effect *CardEffect) error
	effectFn    func(logic *GameLogic, effect *CardEffect) error
	completeFn  func(logic *GameLogic, use *CardUse) error

	// onMissFn handles a delayed trick whose judge failed; the default
	// leaves the card on the table for the rule to discard.
	onMissFn func(logic *GameLogic, effect *CardEffect) error
}

func newCard(name string, kind CardKind, subtype CardSubtype, suit Suit, number int) *Card {
	return &Card{
		name:          name,
		kind:          kind,
		subtype:       subtype,
		suit:          suit,
		number:        number,
		useLimit:      InfinityNum,
		maxTargetNum:  1,
		minTargetNum:  1,
		distanceLimit: InfinityNum,
	}
}

// Clone produces a fresh real-card instance of the same descriptor.
func (c *Card) Clone(id uint, suit Suit, number int) *Card {
	clone := *c
	clone.id = id
	clone.suit = suit
	clone.number = number
	clone.subcards = nil
	return &clone
}

// VirtualClone synthesizes a virtual card of this descriptor over the given
// real subcards.
func (c *Card) VirtualClone(subcards ...*Card) *Card {
	clone := *c
	clone.id = 0
	clone.subcards = append([]*Card(nil), subcards...)
	return &clone
}

func (c *Card) Id() uint { return c.id }

func (c *Card) Name() string { return c.name }

func (c *Card) Kind() CardKind { return c.kind }

func (c *Card) Subtype() CardSubtype { return c.subtype }

func (c *Card) IsVirtual() bool { return c.id == 0 }

// Suit is derived for virtual cards: a sole subcard's suit carries through,
// multiple subcards yield NoSuit.
func (c *Card) Suit() Suit {
	if c.IsVirtual() {
		if len(c.subcards) == 1 {
			return c.subcards[0].Suit()
		}
		if len(c.subcards) > 1 {
			return NoSuit
		}
	}
	return c.suit
}

func (c *Card) SetSuit(suit Suit) { c.suit = suit }

// Number is derived for virtual cards: a sole subcard's number carries
// through, multiple subcards sum capped at 13.
func (c *Card) Number() int {
	if c.IsVirtual() {
		if len(c.subcards) == 1 {
			return c.subcards[0].Number()
		}
		if len(c.subcards) > 1 {
			sum := 0
			for _, sub := range c.subcards {
				sum += sub.Number()
			}
			if sum > 13 {
				sum = 13
			}
			return sum
		}
	}
	return c.number
}

func (c *Card) SetNumber(number int) { c.number = number }

func (c *Card) Color() Color {
	switch c.Suit() {
	case Spade, Club:
		return Black
	case Heart, Diamond:
		return Red
	default:
		return NoColor
	}
}

// EffectiveId is the id of the real card this card stands for: its own id if
// real, the sole subcard's effective id if virtual over one card, else 0.
func (c *Card) EffectiveId() uint {
	if !c.IsVirtual() {
		return c.id
	}
	if len(c.subcards) == 1 {
		return c.subcards[0].EffectiveId()
	}
	return 0
}

func (c *Card) Subcards() []*Card { return c.subcards }

func (c *Card) AddSubcard(card *Card) { c.subcards = append(c.subcards, card) }

// RealCards flattens the card into the real cards backing it.
func (c *Card) RealCards() []*Card {
	if !c.IsVirtual() {
		return []*Card{c}
	}
	var real []*Card
	for _, sub := range c.subcards {
		real = append(real, sub.RealCards()...)
	}
	return real
}

func (c *Card) IsTransferable() bool { return c.transferable }

func (c *Card) CanRecast() bool { return c.canRecast }

func (c *Card) IsTargetFixed() bool { return c.targetFixed }

func (c *Card) SkillName() string { return c.skillName }

func (c *Card) SetSkillName(name string) { c.skillName = name }

// addSaturated keeps counted limits from wrapping when a card-mod grants an
// unbounded allowance.
func addSaturated(base, extra int) int {
	if base == InfinityNum || extra >= InfinityNum-base {
		return InfinityNum
	}
	return base + extra
}

// UseLimit is the per-turn cap for the given user, card-mod allowances
// included.
func (c *Card) UseLimit(source *Player) int {
	if c.useLimit == InfinityNum || source == nil {
		return c.useLimit
	}
	return addSaturated(c.useLimit, source.extraUseNum(c))
}

// DistanceLimit is the maximum reach toward a target, card-mod allowances
// included.
func (c *Card) DistanceLimit(source *Player) int {
	if c.distanceLimit == InfinityNum || source == nil {
		return c.distanceLimit
	}
	return addSaturated(c.distanceLimit, source.extraDistanceLimit(c))
}

func (c *Card) maxTargets(source *Player) int {
	if c.maxTargetNum == InfinityNum || source == nil {
		return c.maxTargetNum
	}
	return addSaturated(c.maxTargetNum, source.extraMaxTargetNum(c))
}

// IsAvailable reports whether the source may use the card at all. The
// default enforces the per-turn use limit against the card history.
func (c *Card) IsAvailable(logic *GameLogic, source *Player) bool {
	if c.availableFn != nil {
		return c.availableFn(logic, source)
	}
	limit := c.UseLimit(source)
	return limit == InfinityNum || source.CardHistory(c.name) < limit
}

// TargetFilter reports whether toSelect may join the current selection.
func (c *Card) TargetFilter(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
	for _, skill := range source.cardModSkills() {
		if skill.targetFilter != nil && !skill.targetFilter(c, selected, toSelect, source) {
			return false
		}
	}
	if c.filterFn != nil {
		return c.filterFn(logic, selected, toSelect, source)
	}
	return defaultTargetFilter(c, selected, toSelect, source)
}

func defaultTargetFilter(c *Card, selected []*Player, toSelect *Player, source *Player) bool {
	if c.targetFixed {
		return false
	}
	if len(selected) >= c.maxTargets(source) {
		return false
	}
	limit := c.DistanceLimit(source)
	return limit == InfinityNum || source.DistanceTo(toSelect) <= limit
}

// TargetFeasible reports whether the selection is complete enough to use.
func (c *Card) TargetFeasible(selected []*Player, source *Player) bool {
	if c.feasibleFn != nil {
		return c.feasibleFn(selected, source)
	}
	if c.targetFixed {
		return true
	}
	return len(selected) >= c.minTargetNum
}

// OnUse runs the pre-target stage of the use pipeline.
func (c *Card) OnUse(logic *GameLogic, use *CardUse) error {
	if c.onUseFn != nil {
		return c.onUseFn(logic, use)
	}
	switch {
	case c.kind == EquipKind:
		return equipOnUse(logic, use)
	case c.subtype == DelayedType:
		return delayedOnUse(logic, use)
	case c.subtype == GlobalEffectType:
		fillTargets(logic, use, true)
		return defaultOnUse(logic, use)
	case c.subtype == AreaOfEffectType:
		fillTargets(logic, use, false)
		return defaultOnUse(logic, use)
	default:
		return defaultOnUse(logic, use)
	}
}

// Use runs the card's substantive action over the confirmed targets.
func (c *Card) Use(logic *GameLogic, use *CardUse) error {
	if c.useFn != nil {
		return c.useFn(logic, use)
	}
	switch {
	case c.kind == EquipKind:
		return equipUse(logic, use)
	case c.subtype == DelayedType:
		return delayedUse(logic, use)
	default:
		return defaultUse(logic, use)
	}
}

// OnEffect runs per-target before the effect body; tricks offer
// nullification here.
func (c *Card) OnEffect(logic *GameLogic, effect *CardEffect) error {
	if c.onEffectFn != nil {
		return c.onEffectFn(logic, effect)
	}
	if c.kind == TrickKind {
		return offerNullification(logic, effect)
	}
	return nil
}

// Effect is the card's per-target action.
func (c *Card) Effect(logic *GameLogic, effect *CardEffect) error {
	if c.effectFn != nil {
		return c.effectFn(logic, effect)
	}
	return nil
}

func (c *Card) JudgePattern() string { return c.judgePattern }

// EquipSkills are the skills the owner carries while this card is equipped.
func (c *Card) EquipSkills() []PlayerSkill { return c.equipSkills }

// OnMiss runs when a delayed trick's judge fails.
func (c *Card) OnMiss(logic *GameLogic, effect *CardEffect) error {
	if c.onMissFn != nil {
		return c.onMissFn(logic, effect)
	}
	return nil
}

// Complete finishes the use: a card left on the table is discarded.
func (c *Card) Complete(logic *GameLogic, use *CardUse) error {
	if c.completeFn != nil {
		return c.completeFn(logic, use)
	}
	return defaultComplete(logic, use)
}

// --- Default pipeline stages ---

func defaultOnUse(logic *GameLogic, use *CardUse) error {
	logic.sortByActionOrder(use.To)
	if broken, err := logic.trigger(EventPreCardUsed, use.From, use); broken || err != nil {
		return err
	}
	move := &CardsMove{
		Cards: []*Card{use.Card},
		To:    logic.table,
		Open:  true,
	}
	return logic.moveCards([]*CardsMove{move})
}

func defaultUse(logic *GameLogic, use *CardUse) error {
	for _, target := range use.To {
		effect := &CardEffect{
			Use:  use,
			From: use.From,
			To:   target,
		}
		if _, err := logic.takeCardEffect(effect); err != nil {
			return err
		}
	}
	if use.Target != nil {
		effect := &CardEffect{
			Use:  use,
			From: use.From,
		}
		if _, err := logic.takeCardEffect(effect); err != nil {
			return err
		}
	}
	return use.Card.Complete(logic, use)
}

func defaultComplete(logic *GameLogic, use *CardUse) error {
	if logic.table.Contains(use.Card) {
		move := &CardsMove{
			Cards: []*Card{use.Card},
			From:  logic.table,
			To:    logic.discardPile,
			Open:  true,
		}
		return logic.moveCards([]*CardsMove{move})
	}
	return nil
}

// fillTargets defaults an empty target list to every qualifying player,
// excluding the user for area-of-effect cards. Target-fixed cards take all
// players unfiltered.
func fillTargets(logic *GameLogic, use *CardUse, includeSelf bool) {
	if len(use.To) > 0 {
		return
	}
	var selected []*Player
	for _, player := range logic.AllPlayers(false) {
		if !includeSelf && player == use.From {
			continue
		}
		if use.Card.IsTargetFixed() || use.Card.TargetFilter(logic, selected, player, use.From) {
			use.To = append(use.To, player)
			selected = append(selected, player)
		}
	}
}

func equipOnUse(logic *GameLogic, use *CardUse) error {
	if len(use.To) == 0 {
		use.To = []*Player{use.From}
	}
	_, err := logic.trigger(EventPreCardUsed, use.From, use)
	return err
}

func equipUse(logic *GameLogic, use *CardUse) error {
	if len(use.To) == 0 {
		return use.Card.Complete(logic, use)
	}
	target := use.To[0]

	var moves []*CardsMove
	if old := target.Equip().findSubtype(use.Card.Subtype()); old != nil {
		moves = append(moves, &CardsMove{
			Cards: []*Card{old},
			From:  target.Equip(),
			To:    logic.table,
			Open:  true,
		})
	}
	moves = append(moves, &CardsMove{
		Cards: []*Card{use.Card},
		To:    target.Equip(),
		Open:  true,
	})
	if err := logic.moveCards(moves); err != nil {
		return err
	}

	// A swapped-out equip parks on the table and is discarded from there.
	var leftover []*CardsMove
	for _, card := range logic.table.Cards() {
		if card != use.Card {
			leftover = append(leftover, &CardsMove{
				Cards: []*Card{card},
				From:  logic.table,
				To:    logic.discardPile,
				Open:  true,
			})
		}
	}
	if len(leftover) > 0 {
		if err := logic.moveCards(leftover); err != nil {
			return err
		}
	}
	return use.Card.Complete(logic, use)
}

func delayedOnUse(logic *GameLogic, use *CardUse) error {
	logic.sortByActionOrder(use.To)
	_, err := logic.trigger(EventPreCardUsed, use.From, use)
	return err
}

func delayedUse(logic *GameLogic, use *CardUse) error {
	move := &CardsMove{
		Cards: []*Card{use.Card},
		Open:  true,
	}
	if len(use.To) > 0 {
		move.To = use.To[0].DelayedTrick()
	} else {
		move.To = logic.discardPile
	}
	if err := logic.moveCards([]*CardsMove{move}); err != nil {
		return err
	}
	return use.Card.Complete(logic, use)
}
