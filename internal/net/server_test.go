package net

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiro/qsgs/internal/game"
)

func newTestServer() *Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewServer(game.NewStandardCatalog(), game.DefaultRoomSettings(), logger)
}

func TestFindOrCreateRoom(t *testing.T) {
	s := newTestServer()

	room := s.findOrCreateRoom("", 2, 4)
	require.NotNil(t, room)
	assert.NotEmpty(t, room.Id())
	assert.Equal(t, 2, room.humans)
	assert.Equal(t, 4, room.seats)

	assert.Same(t, room, s.findOrCreateRoom(room.Id(), 1, 1), "joining by id finds the room")
	assert.Nil(t, s.findOrCreateRoom("no-such-room", 1, 1))

	room.started = true
	assert.Nil(t, s.findOrCreateRoom(room.Id(), 1, 1), "a started room takes no more joins")
}

func TestRemoveRoom(t *testing.T) {
	s := newTestServer()
	room := s.findOrCreateRoom("", 1, 2)
	s.removeRoom(room.Id())
	assert.Nil(t, s.findOrCreateRoom(room.Id(), 1, 1))
}

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(game.NewStandardCatalog(), nil, nil)
	require.NotNil(t, s.settings)
	assert.Equal(t, "standard", s.settings.Mode)
	assert.NotNil(t, s.Handler())
}
