package game

import "github.com/takashiro/qsgs/internal/log"

// Damage is the payload threaded through the damage pipeline.
type Damage struct {
	From   *Player
	To     *Player
	Card   *Card
	Damage int
	Nature DamageNature

	Chain    bool
	Transfer bool
	ByUser   bool
}

// HpLoss is the payload of HpLost and AfterHpLost; handlers may mutate Num.
type HpLoss struct {
	Victim *Player
	Num    int
}

// Recovery is the payload of the recover pipeline.
type Recovery struct {
	From    *Player
	To      *Player
	Card    *Card
	Recover int
}

// Death is the payload of the death pipeline.
type Death struct {
	Who    *Player
	Damage *Damage
}

// DealDamage runs the full damage pipeline.
func (gl *GameLogic) DealDamage(d *Damage) error {
	if d == nil || d.To == nil || !d.To.IsAlive() || d.Damage <= 0 {
		return nil
	}

	if !d.Chain && !d.Transfer {
		if _, err := gl.trigger(EventConfirmDamage, d.From, d); err != nil {
			return err
		}
	}

	broken, err := gl.trigger(EventBeforeDamage, d.From, d)
	if err != nil || broken {
		return err
	}

	// The start/damaging/damaged group can be broken as a whole; hp
	// reduction and the epilogue still run.
	group := []struct {
		event  EventType
		target *Player
	}{
		{EventDamageStart, d.To},
		{EventDamaging, d.From},
		{EventDamaged, d.To},
	}
	for _, step := range group {
		broken, err := gl.trigger(step.event, step.target, d)
		if err != nil {
			return err
		}
		if broken {
			break
		}
	}

	if _, err := gl.trigger(EventBeforeHpReduced, d.To, d); err != nil {
		return err
	}
	d.To.hp -= d.Damage
	fromId := uint(0)
	if d.From != nil {
		fromId = d.From.Id()
	}
	gl.broadcast(log.GameEvent{
		Type:   log.EventDamage,
		Player: d.To.Id(),
		Data: map[string]any{
			"fromId": fromId,
			"toId":   d.To.Id(),
			"damage": d.Damage,
			"nature": d.Nature.String(),
		},
		Details: d.To.Name() + " takes " + d.Nature.String() + " damage",
	})
	d.To.broadcastProperty("hp", d.To.hp)
	if _, err := gl.trigger(EventAfterHpReduced, d.To, d); err != nil {
		return err
	}

	if _, err := gl.trigger(EventAfterDamaging, d.From, d); err != nil {
		return err
	}
	if _, err := gl.trigger(EventAfterDamaged, d.To, d); err != nil {
		return err
	}
	_, err = gl.trigger(EventDamageComplete, d.To, d)
	return err
}

// LoseHp reduces hp without a damage source.
func (gl *GameLogic) LoseHp(victim *Player, n int) error {
	if victim == nil || !victim.IsAlive() || n <= 0 {
		return nil
	}
	loss := &HpLoss{Victim: victim, Num: n}
	broken, err := gl.trigger(EventHpLost, victim, loss)
	if err != nil || broken {
		return err
	}
	if loss.Num <= 0 {
		return nil
	}
	victim.hp -= loss.Num
	gl.broadcast(log.GameEvent{
		Type:    log.EventLoseHp,
		Player:  victim.Id(),
		Data:    map[string]any{"playerId": victim.Id(), "num": loss.Num},
		Details: victim.Name() + " loses hp",
	})
	victim.broadcastProperty("hp", victim.hp)
	if _, err := gl.trigger(EventAfterHpReduced, victim, loss); err != nil {
		return err
	}
	_, err = gl.trigger(EventAfterHpLost, victim, loss)
	return err
}

// RecoverHp restores hp up to the victim's maximum.
func (gl *GameLogic) RecoverHp(r *Recovery) error {
	if r == nil || r.To == nil || !r.To.IsAlive() || r.To.hp >= r.To.maxHp || r.Recover <= 0 {
		return nil
	}
	broken, err := gl.trigger(EventBeforeRecover, r.To, r)
	if err != nil || broken {
		return err
	}
	if r.To.hp+r.Recover > r.To.maxHp {
		r.Recover = r.To.maxHp - r.To.hp
	}
	r.To.hp += r.Recover
	gl.broadcast(log.GameEvent{
		Type:    log.EventRecover,
		Player:  r.To.Id(),
		Data:    map[string]any{"playerId": r.To.Id(), "num": r.Recover},
		Details: r.To.Name() + " recovers hp",
	})
	r.To.broadcastProperty("hp", r.To.hp)
	_, err = gl.trigger(EventAfterRecover, r.To, r)
	return err
}

// KillPlayer runs the death pipeline for the victim.
func (gl *GameLogic) KillPlayer(victim *Player, damage *Damage) error {
	if victim == nil || !victim.IsAlive() {
		return nil
	}
	victim.alive = false
	victim.broadcastProperty("alive", false)

	death := &Death{Who: victim, Damage: damage}
	for _, event := range []EventType{EventBeforeGameOverJudge, EventGameOverJudge, EventDied, EventBuryVictim} {
		if _, err := gl.trigger(event, victim, death); err != nil {
			return err
		}
	}
	return nil
}
