package game

import "github.com/takashiro/qsgs/internal/log"

// CardUse is the payload threaded through the card-use pipeline.
type CardUse struct {
	From       *Player
	To         []*Player
	Target     *Card // non-player target, e.g. the trick a Nullification answers
	Card       *Card
	IsHandcard bool
	AddHistory bool
	Extra      any
}

// RemoveTarget drops a target that a handler has excluded.
func (use *CardUse) RemoveTarget(target *Player) bool {
	for i, t := range use.To {
		if t == target {
			use.To = append(use.To[:i], use.To[i+1:]...)
			return true
		}
	}
	return false
}

// CardEffect is one target's share of a card use.
type CardEffect struct {
	Use         *CardUse
	From        *Player
	To          *Player
	IsNullified bool
}

// CardResponse is a card played reactively against a prompt rather than
// through the use pipeline.
type CardResponse struct {
	From   *Player
	To     *Player
	Card   *Card
	Target *Card
}

// UseCard drives a card through its full lifecycle.
func (gl *GameLogic) UseCard(use *CardUse) error {
	if use == nil || use.From == nil || use.Card == nil {
		return nil
	}

	use.IsHandcard = true
	for _, real := range use.Card.RealCards() {
		if !use.From.hand.Contains(real) {
			use.IsHandcard = false
			break
		}
	}

	if use.From.phase == PlayPhase && use.AddHistory {
		use.From.addCardHistory(use.Card.Name(), 1)
	}

	targetIds := make([]uint, 0, len(use.To))
	for _, t := range use.To {
		targetIds = append(targetIds, t.Id())
	}
	gl.broadcast(log.GameEvent{
		Type:   log.EventUseCard,
		Player: use.From.Id(),
		Data: map[string]any{
			"playerId": use.From.Id(),
			"cardId":   use.Card.EffectiveId(),
			"cardName": use.Card.Name(),
			"targets":  targetIds,
		},
		Details: use.From.Name() + " uses " + use.Card.Name(),
	})

	if err := use.Card.OnUse(gl, use); err != nil {
		return err
	}

	if _, err := gl.trigger(EventCardUsed, use.From, use); err != nil {
		return err
	}

	if use.From.IsAlive() {
		if _, err := gl.trigger(EventTargetChoosing, use.From, use); err != nil {
			return err
		}
		for _, target := range append([]*Player(nil), use.To...) {
			if !containsPlayer(use.To, target) {
				continue
			}
			if _, err := gl.trigger(EventTargetConfirming, target, use); err != nil {
				return err
			}
		}
		if len(use.To) > 0 {
			if _, err := gl.trigger(EventTargetChosen, use.From, use); err != nil {
				return err
			}
			for _, target := range append([]*Player(nil), use.To...) {
				if !containsPlayer(use.To, target) {
					continue
				}
				if _, err := gl.trigger(EventTargetConfirmed, target, use); err != nil {
					return err
				}
			}
		}
	}

	if len(use.To) > 0 || use.Target != nil {
		if err := use.Card.Use(gl, use); err != nil {
			return err
		}
	} else if err := use.Card.Complete(gl, use); err != nil {
		return err
	}

	_, err := gl.trigger(EventCardFinished, use.From, use)
	return err
}

// takeCardEffect resolves one target's effect, reporting whether it took
// place.
func (gl *GameLogic) takeCardEffect(effect *CardEffect) (bool, error) {
	took := false
	if effect.To != nil {
		if effect.To.IsAlive() {
			cancelled, err := gl.trigger(EventCardEffect, effect.To, effect)
			if err != nil {
				return false, err
			}
			if !cancelled {
				cancelled, err = gl.trigger(EventCardEffected, effect.To, effect)
				if err != nil {
					return false, err
				}
				if !cancelled {
					took = true
					if err := effect.Use.Card.OnEffect(gl, effect); err != nil {
						return took, err
					}
					if effect.To.IsAlive() && !effect.IsNullified {
						if err := effect.Use.Card.Effect(gl, effect); err != nil {
							return took, err
						}
					}
				}
			}
		}
	} else if effect.Use.Target != nil {
		took = true
		if err := effect.Use.Card.OnEffect(gl, effect); err != nil {
			return took, err
		}
		if !effect.IsNullified {
			if err := effect.Use.Card.Effect(gl, effect); err != nil {
				return took, err
			}
		}
	}
	if _, err := gl.trigger(EventPostCardEffected, effect.To, effect); err != nil {
		return took, err
	}
	return took, nil
}

// offerNullification gives every living player, in action order, a window
// to answer the trick with a Nullification; the first acceptance is used
// against the effect.
func offerNullification(gl *GameLogic, effect *CardEffect) error {
	for _, player := range gl.AllPlayers(false) {
		use := player.askToUseCard("Nullification", "nullify "+effect.Use.Card.Name())
		if use == nil {
			continue
		}
		use.Target = effect.Use.Card
		use.Extra = effect
		return gl.UseCard(use)
	}
	return nil
}

// RespondCard plays a card reactively: it is staged on the table so that
// CardResponded handlers can still reach it, then whatever is left on the
// table goes to the discard pile. A broken trigger voids the response.
func (gl *GameLogic) RespondCard(response *CardResponse) (bool, error) {
	if response == nil || response.Card == nil {
		return false, nil
	}
	move := &CardsMove{
		Cards: []*Card{response.Card},
		To:    gl.table,
		Open:  true,
	}
	if err := gl.moveCards([]*CardsMove{move}); err != nil {
		return false, err
	}
	gl.broadcast(log.GameEvent{
		Type:   log.EventCardResponded,
		Player: response.From.Id(),
		Data: map[string]any{
			"playerId": response.From.Id(),
			"cardId":   response.Card.EffectiveId(),
			"cardName": response.Card.Name(),
		},
		Details: response.From.Name() + " responds with " + response.Card.Name(),
	})
	broken, err := gl.trigger(EventCardResponded, response.From, response)
	if err != nil {
		return false, err
	}
	if gl.table.Contains(response.Card) {
		cleanup := &CardsMove{
			Cards: []*Card{response.Card},
			From:  gl.table,
			To:    gl.discardPile,
			Open:  true,
		}
		if err := gl.moveCards([]*CardsMove{cleanup}); err != nil {
			return false, err
		}
	}
	return !broken, nil
}

// RecastCard trades a recastable card for a fresh draw.
func (gl *GameLogic) RecastCard(player *Player, card *Card) error {
	if card == nil || !card.CanRecast() {
		return nil
	}
	gl.broadcast(log.GameEvent{
		Type:   log.EventShowCard,
		Player: player.Id(),
		Data:   map[string]any{"playerId": player.Id(), "cardId": card.Id(), "cardName": card.Name()},
	})
	move := &CardsMove{
		Cards: []*Card{card},
		To:    gl.discardPile,
		Open:  true,
	}
	if err := gl.moveCards([]*CardsMove{move}); err != nil {
		return err
	}
	return gl.drawCards(player, 1)
}

// --- Play-phase action routing ---

// checkTargets validates a chosen target list the way incremental picking
// would.
func checkTargets(gl *GameLogic, card *Card, targets []*Player, source *Player) bool {
	var selected []*Player
	for _, target := range targets {
		if !card.TargetFilter(gl, selected, target, source) {
			return false
		}
		selected = append(selected, target)
	}
	return card.TargetFeasible(selected, source)
}

// activate runs one Play-phase decision; true means the phase is over.
// Invalid requests are rejected without touching state.
func (gl *GameLogic) activate(player *Player) (bool, error) {
	action := player.activate()
	if action.EndPhase {
		return true, nil
	}

	switch {
	case action.Recast:
		card := action.Card
		if card == nil && len(action.Cards) == 1 {
			card = action.Cards[0]
		}
		if card == nil || !card.CanRecast() || !player.hand.Contains(card) {
			return false, nil
		}
		return false, gl.RecastCard(player, card)

	case action.Skill != "":
		return false, gl.invokeSkill(player, action)

	case action.Card != nil:
		card := action.Card
		if !player.hand.Contains(card) && !player.equip.Contains(card) {
			return false, nil
		}
		if !card.IsAvailable(gl, player) || !checkTargets(gl, card, action.To, player) {
			return false, nil
		}
		use := &CardUse{From: player, To: action.To, Card: card, AddHistory: true}
		return false, gl.UseCard(use)
	}
	return false, nil
}

// invokeSkill handles proactive and convert skills chosen in the Play
// phase.
func (gl *GameLogic) invokeSkill(player *Player, action *PlayAction) error {
	skill := player.FindSkill(action.Skill)
	if skill == nil {
		return nil
	}
	switch s := skill.(type) {
	case *ProactiveSkill:
		if !s.IsAvailable(player, "") || !s.IsValid(action.Cards, player, "") {
			return nil
		}
		var selected []*Player
		for _, target := range action.To {
			if !s.TargetFilter(selected, target, player) {
				return nil
			}
			selected = append(selected, target)
		}
		if !s.TargetFeasible(selected, action.Cards) {
			return nil
		}
		if !s.Cost(gl, player, action.To, action.Cards) {
			return nil
		}
		player.addSkillHistory(s.Name())
		gl.broadcast(log.GameEvent{
			Type:   log.EventInvokeSkill,
			Player: player.Id(),
			Data:   map[string]any{"playerId": player.Id(), "skillName": s.Name()},
		})
		return s.Effect(gl, player, action.To, action.Cards)

	case *ViewAsSkill:
		if !s.IsAvailable(player, "") || !s.IsValid(action.Cards, player, "") {
			return nil
		}
		card := s.ViewAs(action.Cards, player)
		if card == nil || !card.IsAvailable(gl, player) || !checkTargets(gl, card, action.To, player) {
			return nil
		}
		player.addSkillHistory(s.Name())
		gl.broadcast(log.GameEvent{
			Type:   log.EventInvokeSkill,
			Player: player.Id(),
			Data:   map[string]any{"playerId": player.Id(), "skillName": s.Name()},
		})
		use := &CardUse{From: player, To: action.To, Card: card, AddHistory: true}
		return gl.UseCard(use)
	}
	return nil
}

func containsPlayer(players []*Player, player *Player) bool {
	for _, p := range players {
		if p == player {
			return true
		}
	}
	return false
}
