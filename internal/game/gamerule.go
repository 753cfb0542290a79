package game

// GameRule is the baseline handler every mode builds on: it deals generals
// and starting hands, drives the phase bodies, and adjudicates death and
// victory. Skills outrank it inside each event.
type GameRule struct {
	phases  []Phase
	granted map[*General]bool
}

func NewGameRule() *GameRule {
	return &GameRule{
		phases: []Phase{
			RoundStartPhase,
			StartPhase,
			JudgePhase,
			DrawPhase,
			PlayPhase,
			DiscardPhase,
			FinishPhase,
		},
		granted: map[*General]bool{},
	}
}

func (r *GameRule) Name() string { return "game_rule" }

func (r *GameRule) Events() []EventType {
	return []EventType{
		EventGameStart,
		EventTurnStart,
		EventPhaseProceeding,
		EventAfterCardsMove,
		EventAfterHpReduced,
		EventGameOverJudge,
		EventBuryVictim,
	}
}

func (r *GameRule) Priority(EventType) int { return 0 }

func (r *GameRule) IsCompulsory() bool { return true }

func (r *GameRule) Triggerable(logic *GameLogic, event EventType, target *Player, data any) EventMap {
	if target == nil {
		return nil
	}
	m := EventMap{}
	m.Add(target, Event{Handler: r})
	return m
}

func (r *GameRule) OnCost(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) bool {
	return true
}

func (r *GameRule) Effect(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
	switch event {
	case EventGameStart:
		return false, r.prepare(logic, target)
	case EventTurnStart:
		return false, target.play(r.phases)
	case EventPhaseProceeding:
		return false, r.proceedPhase(logic, target)
	case EventAfterCardsMove:
		if moves, ok := data.(*[]*CardsMove); ok {
			r.syncEquipSkills(target, *moves)
		}
	case EventAfterHpReduced:
		if target.Hp() <= 0 {
			damage, _ := data.(*Damage)
			return false, logic.KillPlayer(target, damage)
		}
	case EventGameOverJudge:
		alive := logic.AllPlayers(false)
		if len(alive) <= 1 {
			return false, logic.gameOver(alive)
		}
	case EventBuryVictim:
		return false, r.buryVictim(logic, target)
	}
	return false, nil
}

/// prepare sets one player up for the match: general, hp, skills, and the
// starting hand of four.
func (r *GameRule) prepare(logic *GameLogic, target *Player) error {
	var candidates []*General
	for _, g := range logic.catalog.GeneralsOfMode(logic.mode) {
		if !r.granted[g] {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) > 0 {
		chosen := target.askForGeneral(candidates, 1)
		general := chosen[0]
		r.granted[general] = true
		target.setGeneral(general)
		for _, skill := range general.Skills() {
			target.AddSkill(skill, HeadSkillArea)
		}
	}
	return target.DrawCards(4)
}

func (r *GameRule) proceedPhase(logic *GameLogic, target *Player) error {
	switch target.Phase() {
	case JudgePhase:
		return r.resolveDelayedTricks(logic, target)
	case DrawPhase:
		return target.DrawCards(2)
	case PlayPhase:
		for target.IsAlive() {
			done, err := logic.activate(target)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
	case DiscardPhase:
		return r.discardToLimit(logic, target)
	}
	return nil
}

// resolveDelayedTricks judges the target's delayed tricks newest-first.
func (r *GameRule) resolveDelayedTricks(logic *GameLogic, target *Player) error {
	tricks := target.DelayedTrick().Cards()
	for i := len(tricks) - 1; i >= 0; i-- {
		trick := tricks[i]
		if !target.DelayedTrick().Contains(trick) || !target.IsAlive() {
			continue
		}
		toTable := &CardsMove{
			Cards: []*Card{trick},
			From:  target.DelayedTrick(),
			To:    logic.table,
			Open:  true,
		}
		if err := logic.moveCards([]*CardsMove{toTable}); err != nil {
			return err
		}

		effect := &CardEffect{
			Use: &CardUse{Card: trick, To: []*Player{target}},
			To:  target,
		}
		judge := &JudgeInfo{Who: target, Pattern: trick.JudgePattern()}
		if err := logic.Judge(judge); err != nil {
			return err
		}
		if judge.Matched {
			if _, err := logic.takeCardEffect(effect); err != nil {
				return err
			}
		} else if err := trick.OnMiss(logic, effect); err != nil {
			return err
		}

		if logic.table.Contains(trick) {
			discard := &CardsMove{
				Cards: []*Card{trick},
				From:  logic.table,
				To:    logic.discardPile,
				Open:  true,
			}
			if err := logic.moveCards([]*CardsMove{discard}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *GameRule) discardToLimit(logic *GameLogic, target *Player) error {
	limit := target.Hp()
	if limit < 0 {
		limit = 0
	}
	n := target.Hand().Size() - limit
	if n <= 0 {
		return nil
	}
	cards := target.askForCards(".|.|.|hand", "discard to hand limit", n, false)
	if len(cards) == 0 {
		return nil
	}
	move := &CardsMove{
		Cards: cards,
		From:  target.Hand(),
		To:    logic.discardPile,
		Open:  true,
	}
	return logic.moveCards([]*CardsMove{move})
}

// syncEquipSkills grants and revokes the skills carried by equip cards as
// they enter or leave the target's equip area.
func (r *GameRule) syncEquipSkills(target *Player, moves []*CardsMove) {
	for _, move := range moves {
		if move.From != nil && move.From.Type() == EquipArea && move.From.Owner() == target {
			for _, card := range move.Cards {
				for _, skill := range card.EquipSkills() {
					target.RemoveSkill(skill)
				}
			}
		}
		if move.To != nil && move.To.Type() == EquipArea && move.To.Owner() == target {
			for _, card := range move.Cards {
				for _, skill := range card.EquipSkills() {
					target.AddSkill(skill, AcquiredSkillArea)
				}
			}
		}
	}
}

// buryVictim returns everything the victim holds to the discard pile.
func (r *GameRule) buryVictim(logic *GameLogic, target *Player) error {
	var moves []*CardsMove
	for _, area := range []*CardArea{target.Hand(), target.Equip(), target.DelayedTrick(), target.Judge()} {
		if area.IsEmpty() {
			continue
		}
		moves = append(moves, &CardsMove{
			Cards: area.Cards(),
			From:  area,
			To:    logic.discardPile,
			Open:  true,
		})
	}
	if len(moves) == 0 {
		return nil
	}
	return logic.moveCards(moves)
}
