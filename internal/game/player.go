package game

import (
	"fmt"

	"github.com/takashiro/qsgs/internal/log"
)

// Player is one seat in the match. All mutation happens on the match's
// logic goroutine.
type Player struct {
	logic  *GameLogic
	client Client

	id    uint
	seat  int
	next  *Player
	alive bool

	general *General
	hp      int
	maxHp   int
	phase   Phase

	hand         *CardArea
	equip        *CardArea
	delayedTrick *CardArea
	judge        *CardArea

	skills map[SkillArea][]PlayerSkill

	cardHistory   map[string]int
	skillHistory  map[string]int
	skippedPhases map[Phase]bool
	tags          map[string]any
}

func newPlayer(logic *GameLogic, id uint, client Client) *Player {
	p := &Player{
		logic:         logic,
		client:        client,
		id:            id,
		alive:         true,
		phase:         InactivePhase,
		skills:        map[SkillArea][]PlayerSkill{},
		cardHistory:   map[string]int{},
		skillHistory:  map[string]int{},
		skippedPhases: map[Phase]bool{},
		tags:          map[string]any{},
	}
	p.hand = NewCardArea(HandArea, p)
	p.equip = NewCardArea(EquipArea, p)
	p.delayedTrick = NewCardArea(DelayedTrickArea, p)
	p.judge = NewCardArea(JudgeArea, p)
	return p
}

func (p *Player) Id() uint { return p.id }

func (p *Player) Seat() int { return p.seat }

func (p *Player) Client() Client { return p.client }

func (p *Player) Next() *Player { return p.next }

// NextAlive returns the step-th living player after p in seat order.
func (p *Player) NextAlive(step int) *Player {
	next := p
	for i := 0; i < step; i++ {
		for {
			next = next.next
			if next == p {
				if !p.alive {
					return nil
				}
				break
			}
			if next.alive {
				break
			}
		}
	}
	return next
}

func (p *Player) IsAlive() bool { return p.alive }

func (p *Player) General() *General { return p.general }

// Name is the general's name, or a seat placeholder before generals are
// assigned.
func (p *Player) Name() string {
	if p.general != nil {
		return p.general.Name()
	}
	return fmt.Sprintf("player%d", p.seat)
}

func (p *Player) setGeneral(general *General) {
	p.general = general
	p.maxHp = general.MaxHp()
	p.hp = p.maxHp
	p.broadcastProperty("general", general.Name())
	p.broadcastProperty("maxHp", p.maxHp)
	p.broadcastProperty("hp", p.hp)
}

func (p *Player) Hp() int { return p.hp }

func (p *Player) SetHp(hp int) { p.hp = hp }

func (p *Player) MaxHp() int { return p.maxHp }

func (p *Player) SetMaxHp(maxHp int) { p.maxHp = maxHp }

func (p *Player) Phase() Phase { return p.phase }

func (p *Player) Hand() *CardArea { return p.hand }

func (p *Player) Equip() *CardArea { return p.equip }

func (p *Player) DelayedTrick() *CardArea { return p.delayedTrick }

func (p *Player) Judge() *CardArea { return p.judge }

// DistanceTo is the ring distance to the other player, horse adjustments
// applied, never below 1.
func (p *Player) DistanceTo(other *Player) int {
	if p == other || other == nil {
		return 0
	}
	right := 0
	for q := p; q != other; q = q.NextAlive(1) {
		right++
		if right > p.logic.playerCount() {
			return InfinityNum
		}
	}
	alive := len(p.logic.AllPlayers(false))
	dist := right
	if left := alive - right; left < dist {
		dist = left
	}
	if other.equip.findSubtype(DefensiveHorseType) != nil {
		dist++
	}
	if p.equip.findSubtype(OffensiveHorseType) != nil {
		dist--
	}
	if dist < 1 {
		dist = 1
	}
	return dist
}

// --- Skills ---

func (p *Player) AddSkill(skill PlayerSkill, area SkillArea) {
	p.skills[area] = append(p.skills[area], skill)
	p.logic.registerSkill(skill)
	p.logic.broadcast(log.GameEvent{
		Type:   log.EventAddSkill,
		Player: p.id,
		Data:   map[string]any{"playerId": p.id, "skillId": skill.Descriptor().Id(), "skillName": skill.Descriptor().Name()},
	})
	p.logic.trigger(EventSkillAdded, p, skill)
}

func (p *Player) RemoveSkill(skill PlayerSkill) {
	for area, skills := range p.skills {
		for i, s := range skills {
			if s == skill {
				p.skills[area] = append(skills[:i], skills[i+1:]...)
				p.logic.deregisterSkill(skill)
				p.logic.broadcast(log.GameEvent{
					Type:   log.EventRemoveSkill,
					Player: p.id,
					Data:   map[string]any{"playerId": p.id, "skillId": skill.Descriptor().Id(), "skillName": skill.Descriptor().Name()},
				})
				p.logic.trigger(EventSkillRemoved, p, skill)
				return
			}
		}
	}
}

// Skills flattens the player's skills across all skill areas.
func (p *Player) Skills() []PlayerSkill {
	var all []PlayerSkill
	for _, area := range []SkillArea{HeadSkillArea, DeputySkillArea, AcquiredSkillArea} {
		all = append(all, p.skills[area]...)
	}
	return all
}

func (p *Player) HasSkill(name string) bool {
	return p.FindSkill(name) != nil
}

func (p *Player) FindSkill(name string) PlayerSkill {
	for _, s := range p.Skills() {
		if s.Descriptor().Name() == name {
			return s
		}
	}
	return nil
}

func (p *Player) cardModSkills() []*CardModSkill {
	var mods []*CardModSkill
	for _, s := range p.Skills() {
		if mod, ok := s.(*CardModSkill); ok {
			mods = append(mods, mod)
		}
	}
	return mods
}

func (p *Player) viewAsSkills() []*ViewAsSkill {
	var skills []*ViewAsSkill
	for _, s := range p.Skills() {
		switch v := s.(type) {
		case *ViewAsSkill:
			skills = append(skills, v)
		case *ProactiveSkill:
			skills = append(skills, &v.ViewAsSkill)
		}
	}
	return skills
}

func (p *Player) extraUseNum(card *Card) int {
	n := 0
	for _, mod := range p.cardModSkills() {
		if mod.extraUseNum != nil {
			n += mod.extraUseNum(card, p)
		}
	}
	return n
}

func (p *Player) extraDistanceLimit(card *Card) int {
	n := 0
	for _, mod := range p.cardModSkills() {
		if mod.extraDistanceLimit != nil {
			n += mod.extraDistanceLimit(card, p)
		}
	}
	return n
}

func (p *Player) extraMaxTargetNum(card *Card) int {
	n := 0
	for _, mod := range p.cardModSkills() {
		if mod.extraMaxTargetNum != nil {
			n += mod.extraMaxTargetNum(card, p)
		}
	}
	return n
}

// --- Per-turn state ---

func (p *Player) CardHistory(name string) int { return p.cardHistory[name] }

func (p *Player) addCardHistory(name string, n int) {
	p.cardHistory[name] += n
	p.logic.broadcast(log.GameEvent{
		Type:   log.EventAddCardHistory,
		Player: p.id,
		Data:   map[string]any{"playerId": p.id, "cardName": name, "count": n},
	})
}

func (p *Player) SkillHistory(name string) int { return p.skillHistory[name] }

func (p *Player) addSkillHistory(name string) { p.skillHistory[name]++ }

func (p *Player) clearHistory() {
	p.cardHistory = map[string]int{}
	p.skillHistory = map[string]int{}
	p.logic.broadcast(log.GameEvent{
		Type:   log.EventClearSkillHistory,
		Player: p.id,
		Data:   map[string]any{"playerId": p.id},
	})
}

func (p *Player) SkipPhase(phase Phase) { p.skippedPhases[phase] = true }

func (p *Player) isPhaseSkipped(phase Phase) bool { return p.skippedPhases[phase] }

func (p *Player) clearSkippedPhases() { p.skippedPhases = map[Phase]bool{} }

func (p *Player) Tag(key string) any { return p.tags[key] }

func (p *Player) SetTag(key string, value any) {
	p.tags[key] = value
	p.logic.broadcast(log.GameEvent{
		Type:   log.EventSetPlayerTag,
		Player: p.id,
		Data:   map[string]any{"playerId": p.id, "key": key},
	})
}

func (p *Player) RemoveTag(key string) { delete(p.tags, key) }

func (p *Player) broadcastProperty(name string, value any) {
	p.logic.broadcast(log.GameEvent{
		Type:   log.EventUpdatePlayerProperty,
		Player: p.id,
		Data:   map[string]any{"playerId": p.id, "name": name, "value": value},
	})
}

func (p *Player) setPhase(phase Phase) {
	p.phase = phase
	p.logic.broadcast(log.GameEvent{
		Type:    log.EventPhaseChange,
		Round:   p.logic.Round(),
		Phase:   phase.String(),
		Player:  p.id,
		Data:    map[string]any{"playerId": p.id, "phase": phase.String()},
		Details: "phase " + phase.String(),
	})
}

// --- Prompts ---
//
// Each prompt suspends the match goroutine until the client answers or its
// deadline passes, then applies the documented default.

// askForTriggerOrder lets the player order pending options; the zero Event
// means cancel.
func (p *Player) askForTriggerOrder(options []Event, cancelable bool) Event {
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	idx, err := p.client.ChooseTriggerOrder(ctx, options, cancelable)
	if err != nil || idx < 0 || idx >= len(options) {
		if cancelable {
			return Event{}
		}
		return options[0]
	}
	return options[idx]
}

// askForCard asks for one card matching the pattern. A mandatory prompt
// that gets no usable answer auto-picks from hand, then equips.
func (p *Player) askForCard(pattern string, message string, optional bool) *Card {
	exp := NewCardPattern(pattern)
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	reply, err := p.client.AskForCard(ctx, CardPrompt{
		Pattern:  pattern,
		Message:  message,
		Optional: optional,
		MinNum:   1,
		MaxNum:   1,
	})
	if err == nil && reply != nil {
		if card := p.resolveCardReply(reply, exp, pattern); card != nil {
			return card
		}
	}
	if optional {
		return nil
	}
	for _, area := range []*CardArea{p.hand, p.equip} {
		for _, card := range area.Cards() {
			if exp.Match(p, card) {
				return card
			}
		}
	}
	return nil
}

// askForCards asks for exactly n cards matching the pattern; a mandatory
// prompt is padded from hand, then equips.
func (p *Player) askForCards(pattern string, message string, n int, optional bool) []*Card {
	if n <= 0 {
		return nil
	}
	exp := NewCardPattern(pattern)
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	reply, err := p.client.AskForCard(ctx, CardPrompt{
		Pattern:  pattern,
		Message:  message,
		Optional: optional,
		MinNum:   n,
		MaxNum:   n,
	})
	var picked []*Card
	if err == nil && reply != nil {
		for _, id := range reply.CardIds {
			if card := p.findOwnCard(id); card != nil && exp.Match(p, card) && !containsCard(picked, card) {
				picked = append(picked, card)
			}
		}
	}
	if len(picked) > n {
		picked = picked[:n]
	}
	if optional {
		if len(picked) == n {
			return picked
		}
		return nil
	}
	for _, area := range []*CardArea{p.hand, p.equip} {
		for _, card := range area.Cards() {
			if len(picked) >= n {
				return picked
			}
			if exp.Match(p, card) && !containsCard(picked, card) {
				picked = append(picked, card)
			}
		}
	}
	return picked
}

// askToChooseCard picks one card from the owner's listed areas; the default
// is a uniformly random pick.
func (p *Player) askToChooseCard(owner *Player, areas []AreaType) *Card {
	var pool []*Card
	for _, t := range areas {
		switch t {
		case HandArea:
			pool = append(pool, owner.hand.Cards()...)
		case EquipArea:
			pool = append(pool, owner.equip.Cards()...)
		case DelayedTrickArea:
			pool = append(pool, owner.delayedTrick.Cards()...)
		case JudgeArea:
			pool = append(pool, owner.judge.Cards()...)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	id, err := p.client.ChoosePlayerCard(ctx, owner, areas)
	if err == nil {
		for _, card := range pool {
			if card.Id() == id {
				return card
			}
		}
	}
	return pool[p.logic.rng.Intn(len(pool))]
}

// askToUseCard offers an optional use prompt (e.g. a Nullification window);
// the default declines.
func (p *Player) askToUseCard(pattern string, message string) *CardUse {
	exp := NewCardPattern(pattern)
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	action, err := p.client.AskToUseCard(ctx, CardPrompt{
		Pattern:  pattern,
		Message:  message,
		Optional: true,
	})
	if err != nil || action == nil {
		return nil
	}
	card := action.Card
	if card == nil && action.Skill != "" {
		card = p.convertCards(action.Skill, action.Cards, pattern)
	}
	if card == nil || !exp.Match(p, card) {
		return nil
	}
	return &CardUse{From: p, To: action.To, Card: card}
}

// askToArrangeCards splits the shown cards into groups bounded by the given
// capacities. Unknown ids and overflow are ignored; anything left unplaced
// lands in the first group with room, keeping the shown order.
func (p *Player) askToArrangeCards(cards []*Card, capacities []int) [][]*Card {
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	reply, err := p.client.ArrangeCards(ctx, cards, capacities)

	groups := make([][]*Card, len(capacities))
	placed := make(map[*Card]bool)
	if err == nil {
		for i, ids := range reply {
			if i >= len(groups) {
				break
			}
			for _, id := range ids {
				if len(groups[i]) >= capacities[i] {
					break
				}
				for _, card := range cards {
					if card.Id() == id && !placed[card] {
						placed[card] = true
						groups[i] = append(groups[i], card)
						break
					}
				}
			}
		}
	}
	for _, card := range cards {
		if placed[card] {
			continue
		}
		for i := range groups {
			if len(groups[i]) < capacities[i] {
				groups[i] = append(groups[i], card)
				break
			}
		}
	}
	return groups
}

// askForOption picks one of the listed options; the default is the first.
func (p *Player) askForOption(options []string) int {
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	idx, err := p.client.AskForOption(ctx, options)
	if err != nil || idx < 0 || idx >= len(options) {
		return 0
	}
	return idx
}

// askForGeneral picks n generals; the default is the first n candidates.
func (p *Player) askForGeneral(candidates []*General, n int) []*General {
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	ids, err := p.client.ChooseGeneral(ctx, candidates, n)
	var chosen []*General
	if err == nil {
		for _, id := range ids {
			for _, g := range candidates {
				if g.Id() == id && !containsGeneral(chosen, g) {
					chosen = append(chosen, g)
				}
			}
		}
	}
	for _, g := range candidates {
		if len(chosen) >= n {
			break
		}
		if !containsGeneral(chosen, g) {
			chosen = append(chosen, g)
		}
	}
	if len(chosen) > n {
		chosen = chosen[:n]
	}
	return chosen
}

// askToTakeAmazingGrace picks one of the revealed shared cards; the default
// takes the first remaining.
func (p *Player) askToTakeAmazingGrace(cards []*Card) *Card {
	if len(cards) == 0 {
		return nil
	}
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	id, err := p.client.TakeAmazingGrace(ctx, cards)
	if err == nil {
		for _, card := range cards {
			if card.Id() == id {
				return card
			}
		}
	}
	return cards[0]
}

// activate asks for the next Play-phase action; the default ends the phase.
func (p *Player) activate() *PlayAction {
	ctx, cancel := p.logic.requestContext()
	defer cancel()
	action, err := p.client.Activate(ctx)
	if err != nil || action == nil {
		return &PlayAction{EndPhase: true}
	}
	return action
}

// --- Reply resolution helpers ---

func (p *Player) findOwnCard(id uint) *Card {
	if card := p.hand.Find(id); card != nil {
		return card
	}
	return p.equip.Find(id)
}

func (p *Player) findCards(ids []uint) []*Card {
	var cards []*Card
	for _, id := range ids {
		if card := p.findOwnCard(id); card != nil {
			cards = append(cards, card)
		}
	}
	return cards
}

func (p *Player) resolveCardReply(reply *CardReply, exp *CardPattern, pattern string) *Card {
	if reply.Skill != "" {
		card := p.convertCards(reply.Skill, p.findCards(reply.CardIds), pattern)
		if card != nil && exp.Match(p, card) {
			return card
		}
		return nil
	}
	if len(reply.CardIds) != 1 {
		return nil
	}
	card := p.findOwnCard(reply.CardIds[0])
	if card == nil || !exp.Match(p, card) {
		return nil
	}
	return card
}

// convertCards runs a view-as skill over the picked cards, validating both
// availability and the selection itself.
func (p *Player) convertCards(skillName string, cards []*Card, pattern string) *Card {
	for _, skill := range p.viewAsSkills() {
		if skill.Name() != skillName {
			continue
		}
		if !skill.IsAvailable(p, pattern) || !skill.IsValid(cards, p, pattern) {
			return nil
		}
		return skill.ViewAs(cards, p)
	}
	return nil
}

func containsCard(cards []*Card, card *Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

func containsGeneral(generals []*General, g *General) bool {
	for _, c := range generals {
		if c == g {
			return true
		}
	}
	return false
}

// --- Phase loop ---

// PhaseChange is the payload of PhaseChanging and PhaseSkipping events.
type PhaseChange struct {
	From Phase
	To   Phase
}

// play drives the player through the given phases for one turn.
func (p *Player) play(phases []Phase) error {
	for _, target := range phases {
		change := &PhaseChange{From: p.phase, To: target}
		skip, err := p.logic.trigger(EventPhaseChanging, p, change)
		if err != nil {
			return err
		}
		p.setPhase(change.To)
		if skip || p.isPhaseSkipped(change.To) {
			broken, err := p.logic.trigger(EventPhaseSkipping, p, change)
			if err != nil {
				return err
			}
			if !broken {
				continue
			}
		}
		broken, err := p.logic.trigger(EventPhaseStart, p, nil)
		if err != nil {
			return err
		}
		if !broken {
			if _, err := p.logic.trigger(EventPhaseProceeding, p, nil); err != nil {
				return err
			}
		}
		if _, err := p.logic.trigger(EventPhaseEnd, p, nil); err != nil {
			return err
		}
	}
	change := &PhaseChange{From: p.phase, To: InactivePhase}
	if _, err := p.logic.trigger(EventPhaseChanging, p, change); err != nil {
		return err
	}
	p.setPhase(InactivePhase)
	p.clearSkippedPhases()
	return nil
}

// DrawCards draws n cards from the top of the draw pile into hand.
func (p *Player) DrawCards(n int) error {
	return p.logic.drawCards(p, n)
}
