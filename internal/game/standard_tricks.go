package game

import "github.com/takashiro/qsgs/internal/log"

func registerTrickCards(pkg *Package) {
	pkg.AddBehavior(newAmazingGrace())
	pkg.AddBehavior(newGodSalvation())
	pkg.AddBehavior(newSavageAssault())
	pkg.AddBehavior(newArcheryAttack())
	pkg.AddBehavior(newDuel())
	pkg.AddBehavior(newCollateral())
	pkg.AddBehavior(newExNihilo())
	pkg.AddBehavior(newSnatch())
	pkg.AddBehavior(newDismantlement())
	pkg.AddBehavior(newNullification())
	pkg.AddBehavior(newIndulgence())
	pkg.AddBehavior(newLightning())
}

// AmazingGrace reveals one draw-pile card per target in the shared wugu
// area; targets pick one each in action order.
func newAmazingGrace() *Card {
	c := newCard("AmazingGrace", TrickKind, GlobalEffectType, NoSuit, 0)
	c.targetFixed = true
	c.onUseFn = func(logic *GameLogic, use *CardUse) error {
		fillTargets(logic, use, true)
		if err := defaultOnUse(logic, use); err != nil {
			return err
		}
		cards, err := logic.getDrawPileCards(len(use.To))
		if err != nil {
			return err
		}
		move := &CardsMove{
			Cards: cards,
			From:  logic.drawPile,
			To:    logic.wugu,
			Open:  true,
		}
		if err := logic.moveCards([]*CardsMove{move}); err != nil {
			return err
		}
		ids := make([]uint, 0, len(cards))
		for _, card := range cards {
			ids = append(ids, card.Id())
		}
		logic.broadcast(log.GameEvent{
			Type:    log.EventShowAmazingGrace,
			Data:    map[string]any{"cardId": ids},
			Details: "amazing grace reveals cards",
		})
		return nil
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		pick := effect.To.askToTakeAmazingGrace(logic.wugu.Cards())
		if pick == nil {
			return nil
		}
		move := &CardsMove{
			Cards: []*Card{pick},
			From:  logic.wugu,
			To:    effect.To.Hand(),
			Open:  true,
		}
		return logic.moveCards([]*CardsMove{move})
	}
	c.completeFn = func(logic *GameLogic, use *CardUse) error {
		logic.broadcast(log.GameEvent{
			Type:    log.EventClearAmazingGrace,
			Details: "amazing grace cleared",
		})
		if !logic.wugu.IsEmpty() {
			move := &CardsMove{
				Cards: logic.wugu.Cards(),
				From:  logic.wugu,
				To:    logic.discardPile,
				Open:  true,
			}
			if err := logic.moveCards([]*CardsMove{move}); err != nil {
				return err
			}
		}
		return defaultComplete(logic, use)
	}
	return c
}

// GodSalvation heals every player by one.
func newGodSalvation() *Card {
	c := newCard("GodSalvation", TrickKind, GlobalEffectType, NoSuit, 0)
	c.targetFixed = true
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		return logic.RecoverHp(&Recovery{
			From:    effect.From,
			To:      effect.To,
			Card:    effect.Use.Card,
			Recover: 1,
		})
	}
	return c
}

// SavageAssault makes every other player play a Slash or take one damage.
func newSavageAssault() *Card {
	c := newCard("SavageAssault", TrickKind, AreaOfEffectType, NoSuit, 0)
	c.targetFixed = true
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		return respondOrTakeDamage(logic, effect, "Slash")
	}
	return c
}

// ArcheryAttack makes every other player play a Jink or take one damage.
func newArcheryAttack() *Card {
	c := newCard("ArcheryAttack", TrickKind, AreaOfEffectType, NoSuit, 0)
	c.targetFixed = true
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		return respondOrTakeDamage(logic, effect, "Jink")
	}
	return c
}

func respondOrTakeDamage(logic *GameLogic, effect *CardEffect, pattern string) error {
	card := effect.To.askForCard(pattern, "respond to "+effect.Use.Card.Name(), true)
	if card != nil {
		ok, err := logic.RespondCard(&CardResponse{
			From:   effect.To,
			To:     effect.From,
			Card:   card,
			Target: effect.Use.Card,
		})
		if err != nil || ok {
			return err
		}
	}
	return logic.DealDamage(&Damage{
		From:   effect.From,
		To:     effect.To,
		Card:   effect.Use.Card,
		Damage: 1,
		Nature: NormalDamage,
	})
}

// Duel: the players alternate playing Slash, the target first; whoever
// stops takes one damage from the other.
func newDuel() *Card {
	c := newCard("Duel", TrickKind, SingleTargetType, NoSuit, 0)
	c.filterFn = func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
		return toSelect != source && defaultTargetFilter(c, selected, toSelect, source)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		first, second := effect.To, effect.From
		for {
			slash := first.askForCard("Slash", "play a Slash for the Duel", true)
			ok := false
			if slash != nil {
				var err error
				ok, err = logic.RespondCard(&CardResponse{
					From:   first,
					To:     second,
					Card:   slash,
					Target: effect.Use.Card,
				})
				if err != nil {
					return err
				}
			}
			if !ok {
				return logic.DealDamage(&Damage{
					From:   second,
					To:     first,
					Card:   effect.Use.Card,
					Damage: 1,
					Nature: NormalDamage,
				})
			}
			first, second = second, first
		}
	}
	return c
}

// slashReach is how far a player could send a Slash, card-mod allowances
// included.
func slashReach(source *Player) int {
	probe := newCard("Slash", BasicKind, NoSubtype, NoSuit, 0)
	probe.distanceLimit = 1
	return probe.DistanceLimit(source)
}

// Collateral: pick an armed player and a victim in their reach; the armed
// player slashes the victim or hands their weapon to the user.
func newCollateral() *Card {
	c := newCard("Collateral", TrickKind, SingleTargetType, NoSuit, 0)
	c.maxTargetNum = 2
	c.minTargetNum = 2
	c.filterFn = func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
		switch len(selected) {
		case 0:
			return toSelect != source && toSelect.Equip().findSubtype(WeaponType) != nil
		case 1:
			killer := selected[0]
			return toSelect != killer && killer.DistanceTo(toSelect) <= slashReach(killer)
		default:
			return false
		}
	}
	c.onUseFn = func(logic *GameLogic, use *CardUse) error {
		// No action-order sort here: use.To is the (killer, victim) pair.
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
	c.useFn = func(logic *GameLogic, use *CardUse) error {
		// Only the armed player is a real effect target; the victim rides
		// along in use.To.
		if len(use.To) >= 2 {
			effect := &CardEffect{
				Use:  use,
				From: use.From,
				To:   use.To[0],
			}
			if _, err := logic.takeCardEffect(effect); err != nil {
				return err
			}
		}
		return use.Card.Complete(logic, use)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		killer := effect.To
		if len(effect.Use.To) < 2 {
			return nil
		}
		victim := effect.Use.To[1]
		if victim.IsAlive() {
			slash := killer.askForCard("Slash", "slash "+victim.Name()+" or hand over your weapon", true)
			if slash != nil {
				return logic.UseCard(&CardUse{From: killer, To: []*Player{victim}, Card: slash})
			}
		}
		weapon := killer.Equip().findSubtype(WeaponType)
		if weapon == nil {
			return nil
		}
		move := &CardsMove{
			Cards:   []*Card{weapon},
			From:    killer.Equip(),
			To:      effect.From.Hand(),
			Visible: effect.From,
		}
		return logic.moveCards([]*CardsMove{move})
	}
	return c
}

// ExNihilo: draw two cards out of nothing.
func newExNihilo() *Card {
	c := newCard("ExNihilo", TrickKind, SingleTargetType, NoSuit, 0)
	c.targetFixed = true
	c.onUseFn = func(logic *GameLogic, use *CardUse) error {
		if len(use.To) == 0 {
			use.To = []*Player{use.From}
		}
		return defaultOnUse(logic, use)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		return effect.To.DrawCards(2)
	}
	return c
}

// Snatch takes one card from a player at distance 1.
func newSnatch() *Card {
	c := newCard("Snatch", TrickKind, SingleTargetType, NoSuit, 0)
	c.distanceLimit = 1
	c.filterFn = func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
		return toSelect != source && hasAnyCard(toSelect) && defaultTargetFilter(c, selected, toSelect, source)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		pick := effect.From.askToChooseCard(effect.To, []AreaType{HandArea, EquipArea, DelayedTrickArea})
		if pick == nil {
			return nil
		}
		move := &CardsMove{
			Cards:   []*Card{pick},
			To:      effect.From.Hand(),
			Visible: effect.From,
		}
		return logic.moveCards([]*CardsMove{move})
	}
	return c
}

// Dismantlement discards one card of any other player.
func newDismantlement() *Card {
	c := newCard("Dismantlement", TrickKind, SingleTargetType, NoSuit, 0)
	c.filterFn = func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
		return toSelect != source && hasAnyCard(toSelect) && defaultTargetFilter(c, selected, toSelect, source)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		pick := effect.From.askToChooseCard(effect.To, []AreaType{HandArea, EquipArea, DelayedTrickArea})
		if pick == nil {
			return nil
		}
		move := &CardsMove{
			Cards: []*Card{pick},
			To:    logic.discardPile,
			Open:  true,
		}
		return logic.moveCards([]*CardsMove{move})
	}
	return c
}

func hasAnyCard(player *Player) bool {
	return !player.Hand().IsEmpty() || !player.Equip().IsEmpty() || !player.DelayedTrick().IsEmpty()
}

// Nullification cancels the trick it answers; against another Nullification
// it flips the cancellation back.
func newNullification() *Card {
	c := newCard("Nullification", TrickKind, SingleTargetType, NoSuit, 0)
	c.targetFixed = true
	c.availableFn = func(logic *GameLogic, source *Player) bool { return false }
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		outer, ok := effect.Use.Extra.(*CardEffect)
		if !ok {
			return nil
		}
		if outer.Use.Card != nil && outer.Use.Card.Name() == "Nullification" {
			outer.IsNullified = !outer.IsNullified
		} else {
			outer.IsNullified = true
		}
		return nil
	}
	return c
}

// Indulgence sits in the target's delayed-trick area; a non-heart judge
// skips their Play phase.
func newIndulgence() *Card {
	c := newCard("Indulgence", TrickKind, DelayedType, NoSuit, 0)
	c.judgePattern = ".|^heart"
	c.filterFn = func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
		return toSelect != source &&
			toSelect.DelayedTrick().findName(c.Name()) == nil &&
			defaultTargetFilter(c, selected, toSelect, source)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		effect.To.SkipPhase(PlayPhase)
		return nil
	}
	return c
}

// Lightning starts above its user; a spade 2-9 judge deals three thunder
// damage, anything else passes it to the next player without one.
func newLightning() *Card {
	c := newCard("Lightning", TrickKind, DelayedType, NoSuit, 0)
	c.targetFixed = true
	c.judgePattern = ".|spade|2~9"
	c.onUseFn = func(logic *GameLogic, use *CardUse) error {
		if len(use.To) == 0 {
			use.To = []*Player{use.From}
		}
		return delayedOnUse(logic, use)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		return logic.DealDamage(&Damage{
			To:     effect.To,
			Card:   effect.Use.Card,
			Damage: 3,
			Nature: ThunderDamage,
		})
	}
	c.onMissFn = func(logic *GameLogic, effect *CardEffect) error {
		current := effect.To
		next := current.NextAlive(1)
		for next != nil && next != current && next.DelayedTrick().findName(c.Name()) != nil {
			next = next.NextAlive(1)
		}
		if next == nil || next == current {
			return nil
		}
		effect.Use.To = []*Player{next}
		if _, err := logic.trigger(EventTargetConfirming, next, effect.Use); err != nil {
			return err
		}
		if !containsPlayer(effect.Use.To, next) {
			return nil
		}
		if _, err := logic.trigger(EventTargetConfirmed, next, effect.Use); err != nil {
			return err
		}
		move := &CardsMove{
			Cards: []*Card{effect.Use.Card},
			From:  logic.table,
			To:    next.DelayedTrick(),
			Open:  true,
		}
		return logic.moveCards([]*CardsMove{move})
	}
	return c
}
