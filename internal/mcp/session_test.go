package mcp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiro/qsgs/internal/game"
	"github.com/takashiro/qsgs/internal/log"
)

func TestNewGameSessionRejectsTooFewSeats(t *testing.T) {
	_, err := NewGameSession(game.NewStandardCatalog(), 1)
	assert.Error(t, err)
}

func TestGameSessionPromptsForGeneralFirst(t *testing.T) {
	sess, err := NewGameSession(game.NewStandardCatalog(), 2)
	require.NoError(t, err)

	resp := sess.waitForPending()
	require.False(t, resp.GameOver)
	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseGeneral, resp.Pending.Type)
	assert.Equal(t, resp.Pending.MinNum, resp.Pending.MaxNum)
	require.NotEmpty(t, resp.Pending.Generals)
	for _, label := range resp.Pending.Generals {
		assert.Contains(t, label, ":", "labels carry the id for choose_general")
		assert.Contains(t, label, "hp")
	}

	require.NotNil(t, resp.State)
	assert.Len(t, resp.State.Players, 2)

	// An empty answer makes the engine fall back to the first candidate.
	sess.ctrl.responseCh <- generalResponse{}

	next := sess.waitForPending()
	require.False(t, next.GameOver)
	require.NotNil(t, next.Pending)
	assert.NotEqual(t, DecisionChooseGeneral, next.Pending.Type, "the match moved past setup")
	assert.Same(t, next.Pending, sess.currentPending)
	require.NotNil(t, sess.seat.General())

	require.NotNil(t, next.State)
	var self *PlayerView
	for i := range next.State.Players {
		if next.State.Players[i].Id == sess.seat.Id() {
			self = &next.State.Players[i]
		} else {
			assert.Empty(t, next.State.Players[i].Hand, "other hands stay hidden")
		}
	}
	require.NotNil(t, self)
	assert.Len(t, self.Hand, self.HandNum, "the agent sees its own hand")
	assert.NotEmpty(t, self.Hand, "setup dealt starting cards")
}

func TestBuildStateViewMasksOtherHands(t *testing.T) {
	catalog := game.NewStandardCatalog()
	logic := game.NewGameLogic(game.DefaultRoomSettings(), catalog, nil)
	p0 := logic.AddPlayer(nil)
	p1 := logic.AddPlayer(nil)

	behavior := catalog.FindPackage("standard").FindBehavior("Slash")
	p0.Hand().Add(logic.NewCard(behavior, game.Spade, 7))
	p1.Hand().Add(logic.NewCard(behavior, game.Club, 8))

	view := buildStateView(logic, p0)
	require.Len(t, view.Players, 2)
	assert.Len(t, view.Players[0].Hand, 1)
	assert.Equal(t, "Slash", view.Players[0].Hand[0].Name)
	assert.Empty(t, view.Players[1].Hand)
	assert.Equal(t, 1, view.Players[1].HandNum)
}

func TestDrainEventsClearsBuffer(t *testing.T) {
	sess := &GameSession{}
	sess.ctrl = NewAgentClient(sess)

	sess.ctrl.Notify(log.GameEvent{Details: "test"})
	assert.Len(t, sess.drainEvents(), 1)
	assert.Empty(t, sess.drainEvents())
}

func TestParseIds(t *testing.T) {
	ids, err := parseIds(" 12 34  56 ")
	require.NoError(t, err)
	assert.Equal(t, []uint{12, 34, 56}, ids)

	ids, err = parseIds("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseIds("12 oops")
	assert.Error(t, err)

	_, err = parseIds(strings.Repeat("9", 20))
	assert.Error(t, err, "out of uint32 range")
}
