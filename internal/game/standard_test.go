package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenwangShieldVoidsBlackSlash(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	env.equip(p1, "RenwangShield", Club, 2)

	black := env.addToHand(p0, "Slash", Spade, 7)
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: black}))
	assert.Equal(t, 4, p1.Hp())

	red := env.addToHand(p0, "Slash", Heart, 10)
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: red}))
	assert.Equal(t, 3, p1.Hp())
}

func TestJadeSealDrawsAtDrawPhase(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	env.equip(p0, "JadeSeal", Club, 9)
	env.stockDrawPile(env.newCard("Slash", Spade, 7))

	p0.setPhase(DrawPhase)
	_, err := env.logic.trigger(EventPhaseStart, p0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p0.hand.Size())
}

func TestJianxiongTakesTheDamageCard(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	p1.AddSkill(newJianxiong(), HeadSkillArea)
	slash := env.addToHand(p0, "Slash", Spade, 7)

	env.clients[1].OnTrigger(0)
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: slash}))

	assert.Equal(t, 3, p1.Hp())
	assert.True(t, p1.hand.Contains(slash), "the slash goes to the victim instead of the discard pile")
	assert.False(t, env.logic.discardPile.Contains(slash))
}

func TestQingguoAnswersSlashWithBlackCard(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	p1.AddSkill(newQingguo(), HeadSkillArea)
	slash := env.addToHand(p0, "Slash", Heart, 10)
	black := env.addToHand(p1, "Slash", Club, 2)

	env.clients[1].AnswerCardSkill("qingguo", "Slash")
	require.NoError(t, env.logic.UseCard(&CardUse{From: p0, To: []*Player{p1}, Card: slash}))

	assert.Equal(t, 4, p1.Hp(), "the converted Jink blocks the hit")
	assert.True(t, env.logic.discardPile.Contains(black))
	assert.True(t, p1.hand.IsEmpty())
}

func TestGuanxingArrangesDrawPile(t *testing.T) {
	env := newTestEnv(t, 3)
	p0 := env.players[0]
	p0.AddSkill(newGuanxing(), HeadSkillArea)
	slash := env.newCard("Slash", Spade, 7)
	jink := env.newCard("Jink", Heart, 2)
	peach := env.newCard("Peach", Heart, 3)
	env.stockDrawPile(slash, jink, peach)

	p0.setPhase(StartPhase)
	env.clients[0].OnTrigger(0).Arrange([]string{"Peach", "Slash"}, []string{"Jink"})
	_, err := env.logic.trigger(EventPhaseStart, p0, nil)
	require.NoError(t, err)

	cards := env.logic.drawPile.Cards()
	require.Len(t, cards, 3)
	assert.Same(t, peach, cards[0])
	assert.Same(t, slash, cards[1])
	assert.Same(t, jink, cards[2], "the second group sinks to the bottom")
	assert.Equal(t, 1, p0.SkillHistory("guanxing"))
}

func TestSpearTurnsTwoHandCardsIntoSlash(t *testing.T) {
	env := newTestEnv(t, 2)
	p0, p1 := env.players[0], env.players[1]
	env.equip(p0, "Spear", Spade, 12)
	jink := env.addToHand(p0, "Jink", Heart, 2)
	peach := env.addToHand(p0, "Peach", Heart, 3)
	p0.setPhase(PlayPhase)

	env.clients[0].PlaySkill("spear", []string{"Jink", "Peach"}, p1)
	done, err := env.logic.activate(p0)
	require.NoError(t, err)
	assert.False(t, done)

	assert.Equal(t, 3, p1.Hp())
	assert.True(t, env.logic.discardPile.Contains(jink))
	assert.True(t, env.logic.discardPile.Contains(peach))
	assert.Equal(t, 1, p0.CardHistory("Slash"), "the virtual use counts against the limit")
	assert.Equal(t, 1, p0.SkillHistory("spear"))
}

func TestSpearExtendsSlashReach(t *testing.T) {
	env := newTestEnv(t, 5)
	p0, p2 := env.players[0], env.players[2]
	slash := env.addToHand(p0, "Slash", Spade, 7)

	require.Equal(t, 2, p0.DistanceTo(p2))
	assert.False(t, slash.TargetFilter(env.logic, nil, p2, p0))

	env.equip(p0, "Spear", Spade, 12)
	assert.True(t, slash.TargetFilter(env.logic, nil, p2, p0))
}

func TestEquipSwapDiscardsOldPiece(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	old := env.equip(p0, "Crossbow", Club, 1)
	replacement := env.equip(p0, "Crossbow", Diamond, 1)

	assert.True(t, env.logic.discardPile.Contains(old))
	assert.True(t, p0.equip.Contains(replacement))
	assert.Equal(t, 1, p0.equip.Size())
	assert.True(t, p0.HasSkill("crossbow"), "the new piece carries the skill on")
}

func TestHorsesHaveNoSkills(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	horse := env.equip(p0, "DefensiveHorse", Spade, 5)

	assert.Empty(t, horse.EquipSkills())
	assert.Equal(t, DefensiveHorseType, horse.Subtype())
}

func TestStandardCatalogShape(t *testing.T) {
	catalog := NewStandardCatalog()
	mode := catalog.FindMode("standard")
	require.NotNil(t, mode)
	assert.Equal(t, 2, mode.MinPlayers)

	pkg := catalog.FindPackage("standard")
	require.NotNil(t, pkg)
	assert.Len(t, pkg.Generals(), 9)
	assert.NotEmpty(t, pkg.Cards())
	for _, g := range pkg.Generals() {
		assert.NotZero(t, g.Id(), "catalog registration assigns ids")
	}
}
