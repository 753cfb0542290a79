package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiro/qsgs/internal/log"
)

func TestStartRejectsBadSetup(t *testing.T) {
	catalog := NewStandardCatalog()

	settings := DefaultRoomSettings()
	settings.Mode = "nonexistent"
	logic := NewGameLogic(settings, catalog, log.NewMemoryLogger())
	logic.AddPlayer(RobotClient{})
	assert.Error(t, logic.Start())

	logic = NewGameLogic(DefaultRoomSettings(), catalog, log.NewMemoryLogger())
	assert.Error(t, logic.Start(), "no players seated")
}

func TestRobotMatchRunsToStalemate(t *testing.T) {
	settings := DefaultRoomSettings()
	settings.ReshuffleCap = 1
	logic := NewGameLogic(settings, NewStandardCatalog(), log.NewMemoryLogger())
	logic.SeedRand(11)
	logic.AddPlayer(RobotClient{})
	logic.AddPlayer(RobotClient{})

	require.NoError(t, logic.Start(), "a stalemate finishes cleanly")
	assert.True(t, logic.IsFinished())
	assert.Nil(t, logic.Winners())
	assert.Greater(t, logic.Round(), 0)

	for _, p := range logic.Players() {
		require.NotNil(t, p.General(), "everyone got a general")
		assert.True(t, p.IsAlive(), "robots never attack each other")
		assert.LessOrEqual(t, p.Hand().Size(), p.Hp()+2, "discard keeps hands near the limit")
	}

	logger := logic.Logger().(*log.MemoryLogger)
	assert.NotEmpty(t, logger.EventsOfType(log.EventNewRound))
	assert.NotEmpty(t, logger.EventsOfType(log.EventGameOver))
}

func TestTurnClearsHistories(t *testing.T) {
	env := newTestEnv(t, 2)
	p0 := env.players[0]
	p0.addCardHistory("Slash", 1)
	env.stockDrawPile(env.newCard("Slash", Spade, 7), env.newCard("Jink", Heart, 2))

	require.NoError(t, env.logic.takeTurn(p0))
	assert.Equal(t, 0, p0.CardHistory("Slash"))
	assert.Equal(t, InactivePhase, p0.Phase())
}

func TestAddExtraTurn(t *testing.T) {
	env := newTestEnv(t, 2)
	env.logic.AddExtraTurn(env.players[1])
	assert.Equal(t, []*Player{env.players[1]}, env.logic.extraTurns)
}
