package game

type SkillType int

const (
	InvalidSkillType SkillType = iota
	TriggerSkillType
	ViewAsSkillType
	CardModSkillType
)

type SkillFrequency int

const (
	NotFrequent SkillFrequency = iota
	Frequent
	Compulsory
	Limited
	Wake
)

// Skill is the common descriptor shared by every skill variant.
type Skill struct {
	id        uint
	name      string
	typ       SkillType
	frequency SkillFrequency
	parent    *Skill
	subskills []*Skill
}

func (s *Skill) Id() uint { return s.id }

func (s *Skill) Name() string { return s.name }

func (s *Skill) Type() SkillType { return s.typ }

func (s *Skill) Frequency() SkillFrequency { return s.frequency }

func (s *Skill) Subskills() []*Skill { return s.subskills }

// Top walks up to the outermost enclosing skill.
func (s *Skill) Top() *Skill {
	top := s
	for top.parent != nil {
		top = top.parent
	}
	return top
}

func (s *Skill) addSubskill(sub *Skill) {
	sub.parent = s
	s.subskills = append(s.subskills, sub)
}

// PlayerSkill couples a skill descriptor with its optional event handler,
// attached to players and registered with the dispatcher while any living
// player carries it.
type PlayerSkill interface {
	Descriptor() *Skill
	Handler() EventHandler
}

// --- Trigger skills ---

// TriggerSkill reacts to engine events. Behavior is supplied through
// func-valued hooks; nil hooks take permissive defaults.
type TriggerSkill struct {
	Skill
	events          []EventType
	defaultPriority int
	priorities      map[EventType]int
	compulsory      bool

	triggerableFn func(logic *GameLogic, event EventType, target *Player, data any) EventMap
	onCostFn      func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) bool
	effectFn      func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error)
}

// Trigger skills default to priority 1 so they run ahead of the game rule.
func NewTriggerSkill(name string) *TriggerSkill {
	return &TriggerSkill{
		Skill:           Skill{name: name, typ: TriggerSkillType},
		defaultPriority: 1,
	}
}

func (s *TriggerSkill) Descriptor() *Skill { return &s.Skill }

func (s *TriggerSkill) Handler() EventHandler { return s }

func (s *TriggerSkill) Events() []EventType { return s.events }

func (s *TriggerSkill) Priority(event EventType) int {
	if p, ok := s.priorities[event]; ok {
		return p
	}
	return s.defaultPriority
}

func (s *TriggerSkill) IsCompulsory() bool { return s.compulsory }

func (s *TriggerSkill) SetFrequency(f SkillFrequency) *TriggerSkill {
	s.frequency = f
	s.compulsory = f == Compulsory || f == Wake
	return s
}

func (s *TriggerSkill) On(events ...EventType) *TriggerSkill {
	s.events = append(s.events, events...)
	return s
}

func (s *TriggerSkill) WithPriority(p int) *TriggerSkill {
	s.defaultPriority = p
	return s
}

func (s *TriggerSkill) WithEventPriority(event EventType, p int) *TriggerSkill {
	if s.priorities == nil {
		s.priorities = map[EventType]int{}
	}
	s.priorities[event] = p
	return s
}

func (s *TriggerSkill) Triggerable(logic *GameLogic, event EventType, target *Player, data any) EventMap {
	if s.triggerableFn == nil {
		return nil
	}
	return s.triggerableFn(logic, event, target, data)
}

func (s *TriggerSkill) OnCost(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) bool {
	if s.onCostFn == nil {
		return true
	}
	return s.onCostFn(logic, event, target, data, invoker)
}

func (s *TriggerSkill) Effect(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
	if s.effectFn == nil {
		return false, nil
	}
	return s.effectFn(logic, event, target, data, invoker)
}

// singleOption is the common triggerable shape: the target invokes for
// itself, n times.
func singleOption(handler EventHandler, target *Player, n int) EventMap {
	if n <= 0 {
		return nil
	}
	m := EventMap{}
	for i := 0; i < n; i++ {
		m.Add(target, Event{Handler: handler})
	}
	return m
}

// NewMasochismSkill builds a trigger skill specialized on taking damage.
// canInvoke returns how many times the victim may invoke it for one damage.
func NewMasochismSkill(
	name string,
	canInvoke func(logic *GameLogic, target *Player, damage *Damage) int,
	effect func(logic *GameLogic, target *Player, damage *Damage, invoker *Player) (bool, error),
) *TriggerSkill {
	s := NewTriggerSkill(name).On(EventDamaged)
	s.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		damage, ok := data.(*Damage)
		if !ok || target == nil || !target.IsAlive() {
			return nil
		}
		return singleOption(s, target, canInvoke(logic, target, damage))
	}
	s.effectFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
		return effect(logic, target, data.(*Damage), invoker)
	}
	return s
}

// StatusSkill keeps a per-player validity bit current: on each subscribed
// event it re-evaluates the condition and calls Validate or Invalidate on
// transitions.
type StatusSkill struct {
	TriggerSkill
	IsValidFn    func(logic *GameLogic, target *Player) bool
	ValidateFn   func(logic *GameLogic, target *Player)
	InvalidateFn func(logic *GameLogic, target *Player)
}

func NewStatusSkill(name string, events ...EventType) *StatusSkill {
	s := &StatusSkill{}
	s.Skill = Skill{name: name, typ: TriggerSkillType, frequency: Compulsory}
	s.compulsory = true
	s.defaultPriority = 1
	s.events = events
	s.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		if target == nil || !target.HasSkill(name) {
			return nil
		}
		return singleOption(s, target, 1)
	}
	s.effectFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
		valid := s.IsValidFn == nil || s.IsValidFn(logic, target)
		was := target.Tag(name) != nil
		if valid && !was {
			target.SetTag(name, true)
			if s.ValidateFn != nil {
				s.ValidateFn(logic, target)
			}
		} else if !valid && was {
			target.RemoveTag(name)
			if s.InvalidateFn != nil {
				s.InvalidateFn(logic, target)
			}
		}
		return false, nil
	}
	return s
}

// --- View-as skills ---

// ViewAsSkill converts a selection of real cards into a synthesized card.
type ViewAsSkill struct {
	Skill
	availableFn  func(self *Player, pattern string) bool
	viewFilterFn func(selected []*Card, card *Card, self *Player, pattern string) bool
	viewAsFn     func(cards []*Card, self *Player) *Card
}

func NewViewAsSkill(name string) *ViewAsSkill {
	return &ViewAsSkill{
		Skill: Skill{name: name, typ: ViewAsSkillType},
	}
}

func (s *ViewAsSkill) Descriptor() *Skill { return &s.Skill }

func (s *ViewAsSkill) Handler() EventHandler { return nil }

// IsAvailable reports whether the skill may answer the given response
// pattern ("" means proactive play).
func (s *ViewAsSkill) IsAvailable(self *Player, pattern string) bool {
	if s.availableFn == nil {
		return true
	}
	return s.availableFn(self, pattern)
}

// ViewFilter reports whether card may join the current selection.
func (s *ViewAsSkill) ViewFilter(selected []*Card, card *Card, self *Player, pattern string) bool {
	if s.viewFilterFn == nil {
		return false
	}
	return s.viewFilterFn(selected, card, self, pattern)
}

// ViewAs synthesizes the virtual card, or nil if the selection is invalid.
func (s *ViewAsSkill) ViewAs(cards []*Card, self *Player) *Card {
	if s.viewAsFn == nil {
		return nil
	}
	card := s.viewAsFn(cards, self)
	if card != nil {
		card.SetSkillName(s.name)
	}
	return card
}

// IsValid checks a whole selection the way incremental picking would.
func (s *ViewAsSkill) IsValid(cards []*Card, self *Player, pattern string) bool {
	var selected []*Card
	for _, card := range cards {
		if !s.ViewFilter(selected, card, self, pattern) {
			return false
		}
		selected = append(selected, card)
	}
	return s.ViewAs(cards, self) != nil
}

// NewOneCardViewAsSkill is the common one-in-one-out converter.
func NewOneCardViewAsSkill(
	name string,
	filter func(card *Card, self *Player, pattern string) bool,
	viewAs func(card *Card, self *Player) *Card,
) *ViewAsSkill {
	s := NewViewAsSkill(name)
	s.viewFilterFn = func(selected []*Card, card *Card, self *Player, pattern string) bool {
		return len(selected) == 0 && filter(card, self, pattern)
	}
	s.viewAsFn = func(cards []*Card, self *Player) *Card {
		if len(cards) != 1 {
			return nil
		}
		return viewAs(cards[0], self)
	}
	return s
}

// ProactiveSkill is a view-as skill that applies its own effect to chosen
// targets instead of producing a card.
type ProactiveSkill struct {
	ViewAsSkill
	targetFilterFn func(selected []*Player, toSelect *Player, self *Player) bool
	feasibleFn     func(selected []*Player, cards []*Card) bool
	costFn         func(logic *GameLogic, from *Player, to []*Player, cards []*Card) bool
	effectFn       func(logic *GameLogic, from *Player, to []*Player, cards []*Card) error
}

func NewProactiveSkill(name string) *ProactiveSkill {
	s := &ProactiveSkill{}
	s.Skill = Skill{name: name, typ: ViewAsSkillType}
	return s
}

func (s *ProactiveSkill) TargetFilter(selected []*Player, toSelect *Player, self *Player) bool {
	if s.targetFilterFn == nil {
		return false
	}
	return s.targetFilterFn(selected, toSelect, self)
}

func (s *ProactiveSkill) TargetFeasible(selected []*Player, cards []*Card) bool {
	if s.feasibleFn == nil {
		return true
	}
	return s.feasibleFn(selected, cards)
}

func (s *ProactiveSkill) Cost(logic *GameLogic, from *Player, to []*Player, cards []*Card) bool {
	if s.costFn == nil {
		return true
	}
	return s.costFn(logic, from, to, cards)
}

func (s *ProactiveSkill) Effect(logic *GameLogic, from *Player, to []*Player, cards []*Card) error {
	if s.effectFn == nil {
		return nil
	}
	return s.effectFn(logic, from, to, cards)
}

// --- Card-mod skills ---

// CardModSkill adjusts another card's feasibility checks through pure
// functions; the card sums them across the user's skills.
type CardModSkill struct {
	Skill
	targetFilter       func(card *Card, selected []*Player, toSelect *Player, source *Player) bool
	extraDistanceLimit func(card *Card, source *Player) int
	extraMaxTargetNum  func(card *Card, source *Player) int
	extraUseNum        func(card *Card, source *Player) int
}

func NewCardModSkill(name string) *CardModSkill {
	return &CardModSkill{
		Skill: Skill{name: name, typ: CardModSkillType},
	}
}

func (s *CardModSkill) Descriptor() *Skill { return &s.Skill }

func (s *CardModSkill) Handler() EventHandler { return nil }
