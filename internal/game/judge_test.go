package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiro/qsgs/internal/log"
)

func TestJudgeDrawsAndDiscards(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	card := env.newCard("Slash", Spade, 7)
	env.stockDrawPile(card)

	j := &JudgeInfo{Who: p0, Pattern: ".|spade|2~9"}
	require.NoError(t, env.logic.Judge(j))
	assert.True(t, j.Matched)
	assert.Same(t, card, j.Card)
	assert.True(t, env.logic.discardPile.Contains(card))
	assert.True(t, p0.judge.IsEmpty())

	results := env.logger.EventsOfType(log.EventJudgeResult)
	require.Len(t, results, 1)
	assert.Equal(t, true, results[0].Data["matched"])
}

func TestGuicaiReplacesJudgeCard(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	p1.AddSkill(newGuicai(), HeadSkillArea)
	replacement := env.addToHand(p1, "Slash", Heart, 10)
	drawn := env.newCard("Slash", Spade, 5)
	env.stockDrawPile(drawn)

	env.clients[1].OnTrigger(0).AnswerCard("Slash")
	j := &JudgeInfo{Who: p0, Pattern: ".|spade|2~9"}
	require.NoError(t, env.logic.Judge(j))

	assert.Same(t, replacement, j.Card)
	assert.False(t, j.Matched, "the heart replacement fails the spade pattern")
	assert.True(t, env.logic.discardPile.Contains(drawn))
	assert.True(t, env.logic.discardPile.Contains(replacement))
	assert.False(t, p1.hand.Contains(replacement))

	results := env.logger.EventsOfType(log.EventJudgeResult)
	require.Len(t, results, 2, "the retrial re-announces the result")
	assert.Equal(t, false, results[1].Data["matched"])
}

func TestIndulgenceSkipsPlayPhase(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	indulgence := env.newCard("Indulgence", Spade, 6)
	p0.delayedTrick.Add(indulgence)
	env.logic.setCardPosition(indulgence, p0.delayedTrick)
	env.stockDrawPile(env.newCard("Slash", Club, 5))

	require.NoError(t, env.rule.resolveDelayedTricks(env.logic, p0))
	assert.True(t, p0.isPhaseSkipped(PlayPhase))
	assert.True(t, env.logic.discardPile.Contains(indulgence))
	assert.True(t, p0.delayedTrick.IsEmpty())
}

func TestIndulgenceHeartJudgeEscapes(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	indulgence := env.newCard("Indulgence", Spade, 6)
	p0.delayedTrick.Add(indulgence)
	env.logic.setCardPosition(indulgence, p0.delayedTrick)
	env.stockDrawPile(env.newCard("Jink", Heart, 2))

	require.NoError(t, env.rule.resolveDelayedTricks(env.logic, p0))
	assert.False(t, p0.isPhaseSkipped(PlayPhase))
	assert.True(t, env.logic.discardPile.Contains(indulgence), "a miss still discards it")
}

func TestLightningStrikesOnSpade(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	lightning := env.newCard("Lightning", Spade, 1)
	p0.delayedTrick.Add(lightning)
	env.logic.setCardPosition(lightning, p0.delayedTrick)
	env.stockDrawPile(env.newCard("Slash", Spade, 7))

	require.NoError(t, env.rule.resolveDelayedTricks(env.logic, p0))
	assert.Equal(t, 1, p0.Hp())
	assert.True(t, env.logic.discardPile.Contains(lightning))

	damages := env.logger.EventsOfType(log.EventDamage)
	require.Len(t, damages, 1)
	assert.Equal(t, "thunder", damages[0].Data["nature"])
	assert.Equal(t, uint(0), damages[0].Data["fromId"], "lightning has no source")
}

func TestLightningMissHopsToNextPlayer(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1 := env.players[0], env.players[1]
	lightning := env.newCard("Lightning", Spade, 1)
	p0.delayedTrick.Add(lightning)
	env.logic.setCardPosition(lightning, p0.delayedTrick)
	env.stockDrawPile(env.newCard("Jink", Heart, 2))

	require.NoError(t, env.rule.resolveDelayedTricks(env.logic, p0))
	assert.Equal(t, 4, p0.Hp())
	assert.True(t, p1.delayedTrick.Contains(lightning))
	assert.False(t, env.logic.table.Contains(lightning))
	assert.False(t, env.logic.discardPile.Contains(lightning))
}

func TestLightningSkipsHoldersOfAnother(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	first := env.newCard("Lightning", Spade, 1)
	second := env.newCard("Lightning", Heart, 12)
	p0.delayedTrick.Add(first)
	env.logic.setCardPosition(first, p0.delayedTrick)
	p1.delayedTrick.Add(second)
	env.logic.setCardPosition(second, p1.delayedTrick)
	env.stockDrawPile(env.newCard("Jink", Heart, 2))

	require.NoError(t, env.rule.resolveDelayedTricks(env.logic, p0))
	assert.True(t, p2.delayedTrick.Contains(first), "a player already under Lightning is skipped")
	assert.True(t, p1.delayedTrick.Contains(second))
}
