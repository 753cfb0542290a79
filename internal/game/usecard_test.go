package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiro/qsgs/internal/log"
)

func TestSlashHitDealsDamage(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	slash := env.addToHand(p0, "Slash", Spade, 7)

	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: slash}))
	assert.Equal(t, 3, p1.Hp())
	assert.True(t, env.logic.discardPile.Contains(slash))
	assert.True(t, p0.hand.IsEmpty())
}

func TestSlashAnsweredByJink(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	slash := env.addToHand(p0, "Slash", Spade, 7)
	jink := env.addToHand(p1, "Jink", Heart, 2)

	env.clients[1].AnswerCard("Jink")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: slash}))
	assert.Equal(t, 4, p1.Hp())
	assert.True(t, env.logic.discardPile.Contains(jink))
	assert.NotEmpty(t, env.logger.EventsOfType(log.EventCardResponded))
}

func TestDuelAlternation(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	duel := env.addToHand(p0, "Duel", Spade, 1)
	env.addToHand(p1, "Slash", Club, 2)

	// The target answers first; once the user cannot answer back, the
	// damage comes from the target.
	env.clients[1].AnswerCard("Slash")
	env.clients[0].DeclineCard()
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: duel}))

	assert.Equal(t, 3, p0.Hp())
	assert.Equal(t, 4, p1.Hp())
	damages := env.logger.EventsOfType(log.EventDamage)
	require.Len(t, damages, 1)
	assert.Equal(t, p1.Id(), damages[0].Data["fromId"])
	assert.Equal(t, p0.Id(), damages[0].Data["toId"])
}

func TestNullificationCancelsTrick(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	dismantlement := env.addToHand(p0, "Dismantlement", Spade, 3)
	kept := env.addToHand(p1, "Slash", Club, 2)
	nullification := env.addToHand(p1, "Nullification", Spade, 11)

	env.clients[1].AnswerUse("Nullification")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: dismantlement}))

	assert.True(t, p1.hand.Contains(kept), "the cancelled trick must not discard anything")
	assert.True(t, env.logic.discardPile.Contains(dismantlement))
	assert.True(t, env.logic.discardPile.Contains(nullification))
}

func TestNullificationAgainstNullification(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	dismantlement := env.addToHand(p0, "Dismantlement", Spade, 3)
	target := env.addToHand(p1, "Slash", Club, 2)
	env.addToHand(p1, "Nullification", Spade, 11)
	env.addToHand(p2, "Nullification", Club, 12)

	// p1 cancels the Dismantlement; p2 cancels the cancellation.
	env.clients[1].AnswerUse("Nullification")
	env.clients[2].AnswerUse("Nullification")
	env.clients[0].PickCard("Slash")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: dismantlement}))

	assert.True(t, env.logic.discardPile.Contains(target), "the trick resolves after all")
	assert.False(t, p1.hand.Contains(target))
}

func TestCollateralForcesSlash(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	collateral := env.addToHand(p0, "Collateral", Club, 12)
	weapon := env.equip(p1, "Crossbow", Club, 1)
	slash := env.addToHand(p1, "Slash", Spade, 7)

	env.clients[1].AnswerCard("Slash")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1, p2}, Card: collateral}))

	assert.Equal(t, 3, p2.Hp())
	assert.True(t, p1.equip.Contains(weapon), "answering keeps the weapon")
	assert.True(t, env.logic.discardPile.Contains(slash))
	assert.True(t, env.logic.discardPile.Contains(collateral))
}

func TestCollateralClaimsWeaponOnRefusal(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	collateral := env.addToHand(p0, "Collateral", Club, 13)
	weapon := env.equip(p1, "Crossbow", Club, 1)

	env.clients[1].DeclineCard()
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1, p2}, Card: collateral}))

	assert.Equal(t, 4, p2.Hp())
	assert.True(t, p0.hand.Contains(weapon), "the refused weapon changes hands")
	assert.True(t, p1.equip.IsEmpty())
	assert.False(t, p1.HasSkill("crossbow"), "the skill leaves with the weapon")
}

func TestCollateralTargeting(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	collateral := env.addToHand(p0, "Collateral", Club, 12)

	assert.False(t, collateral.TargetFilter(env.logic, nil, p1, p0), "an unarmed player is no killer")
	env.equip(p1, "Crossbow", Club, 1)
	assert.True(t, collateral.TargetFilter(env.logic, nil, p1, p0))
	assert.True(t, collateral.TargetFilter(env.logic, []*Player{p1}, p2, p0), "the victim is in reach")
	assert.False(t, collateral.TargetFilter(env.logic, []*Player{p1}, p1, p0), "no self-slash")
	assert.False(t, collateral.TargetFeasible([]*Player{p1}, p0), "needs both picks")
	assert.True(t, collateral.TargetFeasible([]*Player{p1, p2}, p0))
}

func TestSnatchTakesChosenCard(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	snatch := env.addToHand(p0, "Snatch", Spade, 3)
	peach := env.addToHand(p1, "Peach", Heart, 3)

	env.clients[0].PickCard("Peach")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: snatch}))
	assert.True(t, p0.hand.Contains(peach))
	assert.True(t, p1.hand.IsEmpty())
}

func TestDismantlementRequiresTargetWithCards(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	dismantlement := env.addToHand(p0, "Dismantlement", Spade, 3)

	assert.False(t, dismantlement.TargetFilter(env.logic, nil, p1, p0), "empty-handed target is invalid")
	env.addToHand(p1, "Slash", Club, 2)
	assert.True(t, dismantlement.TargetFilter(env.logic, nil, p1, p0))
}

func TestExNihiloDrawsTwo(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	exNihilo := env.addToHand(p0, "ExNihilo", Heart, 7)
	env.stockDrawPile(
		env.newCard("Slash", Spade, 7),
		env.newCard("Jink", Heart, 2),
	)

	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, Card: exNihilo}))
	assert.Equal(t, 2, p0.hand.Size())
	assert.True(t, env.logic.discardPile.Contains(exNihilo))
}

func TestAmazingGraceSharesRevealedCards(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	grace := env.addToHand(p0, "AmazingGrace", Heart, 3)
	slash := env.newCard("Slash", Spade, 7)
	jink := env.newCard("Jink", Heart, 2)
	peach := env.newCard("Peach", Heart, 3)
	env.stockDrawPile(slash, jink, peach)

	env.clients[0].TakeGrace("Peach")
	env.clients[1].TakeGrace("Jink")
	env.clients[2].TakeGrace("Slash")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, Card: grace}))

	assert.True(t, p0.hand.Contains(peach))
	assert.True(t, p1.hand.Contains(jink))
	assert.True(t, p2.hand.Contains(slash))
	assert.True(t, env.logic.wugu.IsEmpty())
	assert.True(t, env.logic.discardPile.Contains(grace))
}

func TestGodSalvationHealsEveryone(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1 := env.players[0], env.players[1]
	p0.hp = 2
	p1.hp = 3
	salvation := env.addToHand(p0, "GodSalvation", Heart, 1)

	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, Card: salvation}))
	assert.Equal(t, 3, p0.Hp())
	assert.Equal(t, 4, p1.Hp())
	assert.Equal(t, 4, env.players[2].Hp())
}

func TestSavageAssaultSparesResponders(t *testing.T) {
	env := newTestEnv(t, 3)
	p0, p1, p2 := env.players[0], env.players[1], env.players[2]
	assault := env.addToHand(p0, "SavageAssault", Spade, 7)
	env.addToHand(p1, "Slash", Club, 2)

	env.clients[1].AnswerCard("Slash")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, Card: assault}))
	assert.Equal(t, 4, p0.Hp(), "the user is not a target")
	assert.Equal(t, 4, p1.Hp())
	assert.Equal(t, 3, p2.Hp())
}

func TestActivateRejectsInvalidAction(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	p0.setPhase(PlayPhase)
	env.addToHand(p0, "Slash", Spade, 7)

	// Targeting oneself with a Slash is rejected without touching state.
	env.clients[0].Play("Slash", p0)
	done, err := env.logic.activate(p0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, p0.hand.Size())
	assert.Equal(t, 4, p0.Hp())

	env.clients[0].Play("Slash", p1)
	done, err = env.logic.activate(p0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 3, p1.Hp())
	assert.Equal(t, 1, p0.CardHistory("Slash"))

	// An exhausted script ends the phase.
	done, err = env.logic.activate(p0)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestRespondCardDiscardsAndNotifies(t *testing.T) {
	env := newTestEnv(t, 2)
	p1 := env.players[1]
	jink := env.addToHand(p1, "Jink", Heart, 2)

	ok, err := env.logic.RespondCard(&CardResponse{From: p1, Card: jink})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, env.logic.discardPile.Contains(jink))
	assert.False(t, p1.hand.Contains(jink))
}

func TestRespondCardStagesOnTable(t *testing.T) {
	env := newTestEnv(t, 2)
	p1 := env.players[1]
	jink := env.addToHand(p1, "Jink", Heart, 2)

	// A CardResponded handler grabs the card off the table before cleanup.
	grab := alwaysOn(&stubHandler{name: "grab", events: []EventType{EventCardResponded}, priority: 1, compulsory: true}, p1)
	grab.effectFn = func(invoker *Player) (bool, error) {
		if !env.logic.table.Contains(jink) {
			return false, nil
		}
		move := &CardsMove{
			Cards:   []*Card{jink},
			From:    env.logic.table,
			To:      invoker.Hand(),
			Visible: invoker,
		}
		return false, env.logic.moveCards([]*CardsMove{move})
	}
	env.logic.AddHandler(grab)

	ok, err := env.logic.RespondCard(&CardResponse{From: p1, Card: jink})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, p1.hand.Contains(jink), "the responded card was reachable on the table")
	assert.False(t, env.logic.discardPile.Contains(jink))
}

func TestRespondCardBrokenVoidsResponse(t *testing.T) {
	env := newTestEnv(t, 2)
	p1 := env.players[1]
	jink := env.addToHand(p1, "Jink", Heart, 2)

	veto := alwaysOn(&stubHandler{name: "veto", events: []EventType{EventCardResponded}, priority: 1, compulsory: true}, p1)
	veto.effectFn = func(*Player) (bool, error) { return true, nil }
	env.logic.AddHandler(veto)

	ok, err := env.logic.RespondCard(&CardResponse{From: p1, Card: jink})
	require.NoError(t, err)
	assert.False(t, ok, "a broken trigger voids the response")
	assert.True(t, env.logic.discardPile.Contains(jink), "the card is still spent")
}
