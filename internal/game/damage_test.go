package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiro/qsgs/internal/log"
)

func TestDealDamageReducesHp(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]

	require.NoError(t, env.logic.DealDamage(&Damage{
		From:   p0,
		To:     p1,
		Damage: 2,
		Nature: FireDamage,
	}))
	assert.Equal(t, 2, p1.Hp())

	damages := env.logger.EventsOfType(log.EventDamage)
	require.Len(t, damages, 1)
	assert.Equal(t, 2, damages[0].Data["damage"])
	assert.Equal(t, "fire", damages[0].Data["nature"])
}

func TestDealDamageIgnoresDeadOrZero(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]

	require.NoError(t, env.logic.DealDamage(&Damage{From: p0, To: p1, Damage: 0}))
	p1.alive = false
	require.NoError(t, env.logic.DealDamage(&Damage{From: p0, To: p1, Damage: 1}))
	assert.Equal(t, 4, p1.Hp())
}

func TestDamageGroupBreakStillReducesHp(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]

	epilogueRan := false
	guard := &stubHandler{name: "guard", events: []EventType{EventDamaged}, priority: 1, compulsory: true}
	guard.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		if target != p1 {
			return nil
		}
		m := EventMap{}
		m.Add(p1, Event{Handler: guard})
		return m
	}
	guard.effectFn = func(*Player) (bool, error) { return true, nil }
	env.logic.AddHandler(guard)

	after := &stubHandler{name: "after", events: []EventType{EventAfterDamaged}, priority: 2, compulsory: true}
	after.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		if target != p1 {
			return nil
		}
		m := EventMap{}
		m.Add(p1, Event{Handler: after})
		return m
	}
	after.effectFn = func(*Player) (bool, error) {
		epilogueRan = true
		return false, nil
	}
	env.logic.AddHandler(after)

	require.NoError(t, env.logic.DealDamage(&Damage{From: p0, To: p1, Damage: 1}))
	assert.Equal(t, 3, p1.Hp(), "a broken damage group does not void the hp loss")
	assert.True(t, epilogueRan)
	assert.Len(t, env.logger.EventsOfType(log.EventDamage), 1)
}

func TestRecoverHpClampsAtMax(t *testing.T) {
	env := newTestEnv(t, 1)
	p := env.players[0]
	p.hp = 2

	r := &Recovery{To: p, Recover: 5}
	require.NoError(t, env.logic.RecoverHp(r))
	assert.Equal(t, 4, p.Hp())
	assert.Equal(t, 2, r.Recover, "the payload reflects the effective amount")

	// A full player cannot recover.
	require.NoError(t, env.logic.RecoverHp(&Recovery{To: p, Recover: 1}))
	assert.Equal(t, 4, p.Hp())
}

func TestLoseHp(t *testing.T) {
	env := newTestEnv(t, 1)
	p := env.players[0]

	require.NoError(t, env.logic.LoseHp(p, 2))
	assert.Equal(t, 2, p.Hp())
	assert.NotEmpty(t, env.logger.EventsOfType(log.EventLoseHp))
}

func TestLoseHpHandlerMayReduceLoss(t *testing.T) {
	env := newTestEnv(t, 1)
	p := env.players[0]

	shield := alwaysOn(&stubHandler{name: "shield", events: []EventType{EventHpLost}, priority: 1, compulsory: true}, p)
	shield.effectFn = func(*Player) (bool, error) { return false, nil }
	shield.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		if loss, ok := data.(*HpLoss); ok {
			loss.Num = 0
		}
		m := EventMap{}
		m.Add(p, Event{Handler: shield})
		return m
	}
	env.logic.AddHandler(shield)

	require.NoError(t, env.logic.LoseHp(p, 3))
	assert.Equal(t, 4, p.Hp())
}

func TestLoseHpBrokenSkipsReduction(t *testing.T) {
	env := newTestEnv(t, 1)
	p := env.players[0]

	veto := alwaysOn(&stubHandler{name: "veto", events: []EventType{EventHpLost}, priority: 1, compulsory: true}, p)
	veto.effectFn = func(*Player) (bool, error) { return true, nil }
	env.logic.AddHandler(veto)

	require.NoError(t, env.logic.LoseHp(p, 2))
	assert.Equal(t, 4, p.Hp())
	assert.Empty(t, env.logger.EventsOfType(log.EventLoseHp))
}

func TestLethalDamageEndsDuelGame(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	p1.hp = 1

	err := env.logic.DealDamage(&Damage{From: p0, To: p1, Damage: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, SignalGameFinish))
	assert.False(t, p1.IsAlive())
	assert.True(t, env.logic.IsFinished())
	assert.Equal(t, []*Player{p0}, env.logic.Winners())
}

func TestKillPlayerBuriesVictim(t *testing.T) {
	env := newTestEnv(t, 3)
	p1 := env.players[1]
	held := env.addToHand(p1, "Slash", Spade, 7)
	armor := env.equip(p1, "RenwangShield", Club, 2)

	require.NoError(t, env.logic.KillPlayer(p1, nil))
	assert.False(t, p1.IsAlive())
	assert.True(t, env.logic.discardPile.Contains(held))
	assert.True(t, env.logic.discardPile.Contains(armor))
	assert.True(t, p1.hand.IsEmpty())
	assert.True(t, p1.equip.IsEmpty())
	assert.False(t, env.logic.IsFinished(), "two seats remain alive")
}
