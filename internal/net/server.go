package net

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/takashiro/qsgs/internal/game"
	"github.com/takashiro/qsgs/internal/log"
)

// Server hosts rooms over websocket. A room starts its match once the
// requested number of human seats is filled; remaining seats up to the room
// capacity are robots.
type Server struct {
	logger   *logrus.Logger
	catalog  *game.Catalog
	settings *game.RoomSettings

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewServer(catalog *game.Catalog, settings *game.RoomSettings, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if settings == nil {
		settings = game.DefaultRoomSettings()
	}
	return &Server{
		logger:   logger,
		catalog:  catalog,
		settings: settings,
		rooms:    map[string]*Room{},
	}
}

// Handler serves the join endpoint. Joining without a room id creates a
// room; the id comes back in the first event.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/play", s.handlePlay)
	return mux
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	roomId := r.URL.Query().Get("room")
	humans, _ := strconv.Atoi(r.URL.Query().Get("players"))
	if humans < 1 {
		humans = 1
	}
	seats, _ := strconv.Atoi(r.URL.Query().Get("seats"))
	if seats < humans {
		seats = s.settings.Capacity
	}

	room := s.findOrCreateRoom(roomId, humans, seats)
	if room == nil {
		http.Error(w, "room not found or already started", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket accept failed")
		return
	}
	room.join(conn)
}

func (s *Server) findOrCreateRoom(id string, humans, seats int) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" {
		room := s.rooms[id]
		if room == nil || room.started {
			return nil
		}
		return room
	}
	room := &Room{
		id:     uuid.NewString(),
		server: s,
		humans: humans,
		seats:  seats,
	}
	room.logger = s.logger.WithField("room", room.id)
	s.rooms[room.id] = room
	return room
}

func (s *Server) removeRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// Room is one pending or running match.
type Room struct {
	id     string
	server *Server
	logger *logrus.Entry
	humans int
	seats  int

	mu      sync.Mutex
	clients []*RemoteClient
	started bool
}

func (r *Room) Id() string { return r.id }

func (r *Room) join(conn *websocket.Conn) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		conn.Close(websocket.StatusPolicyViolation, "room already started")
		return
	}
	client := NewRemoteClient(conn, r.logger.WithField("seat", len(r.clients)+1))
	r.clients = append(r.clients, client)
	ready := len(r.clients) >= r.humans
	if ready {
		r.started = true
	}
	r.mu.Unlock()

	r.logger.WithField("clients", len(r.clients)).Info("player joined")
	if ready {
		go r.runMatch()
	}
}

func (r *Room) runMatch() {
	defer r.server.removeRoom(r.id)

	logic := game.NewGameLogic(r.server.settings, r.server.catalog, log.NewMemoryLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, client := range r.clients {
		player := logic.AddPlayer(client)
		client.Bind(logic, player)
		go client.ReadLoop(ctx)
	}
	for i := len(r.clients); i < r.seats; i++ {
		logic.AddPlayer(game.RobotClient{})
	}

	r.logger.WithField("players", len(logic.Players())).Info("match started")
	if err := logic.Start(); err != nil {
		r.logger.WithError(err).Error("match aborted")
	} else {
		r.logger.Info("match finished")
	}

	for _, client := range r.clients {
		client.conn.Close(websocket.StatusNormalClosure, "game over")
	}
}
