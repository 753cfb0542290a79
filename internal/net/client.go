package net

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/takashiro/qsgs/internal/game"
	"github.com/takashiro/qsgs/internal/log"
)

// RemoteClient adapts one websocket connection to the engine's client
// port. The engine calls it from the match goroutine; a read loop routes
// replies back by sequence number.
type RemoteClient struct {
	conn   *websocket.Conn
	logger *logrus.Entry

	logic  *game.GameLogic
	player *game.Player

	mu      sync.Mutex
	seq     int
	pending map[int]chan json.RawMessage
	closed  bool
}

func NewRemoteClient(conn *websocket.Conn, logger *logrus.Entry) *RemoteClient {
	return &RemoteClient{
		conn:    conn,
		logger:  logger,
		pending: map[int]chan json.RawMessage{},
	}
}

// Bind attaches the client to its seat once the match exists, so replies
// can be resolved to cards and players.
func (c *RemoteClient) Bind(logic *game.GameLogic, player *game.Player) {
	c.logic = logic
	c.player = player
}

// ReadLoop pumps incoming messages until the connection dies.
func (c *RemoteClient) ReadLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.logger.WithError(err).Debug("connection closed")
			c.shutdown()
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.WithError(err).Warn("malformed message")
			continue
		}
		if msg.Type != MessageReply {
			continue
		}
		c.mu.Lock()
		ch := c.pending[msg.Seq]
		delete(c.pending, msg.Seq)
		c.mu.Unlock()
		if ch != nil {
			ch <- msg.Data
		}
	}
}

func (c *RemoteClient) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for seq, ch := range c.pending {
		close(ch)
		delete(c.pending, seq)
	}
}

func (c *RemoteClient) write(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, websocket.MessageText, data)
}

// request sends a prompt and waits for its reply or the deadline.
func (c *RemoteClient) request(ctx context.Context, name string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("connection closed")
	}
	c.seq++
	seq := c.seq
	ch := make(chan json.RawMessage, 1)
	c.pending[seq] = ch
	c.mu.Unlock()

	msg := Message{Type: MessageRequest, Seq: seq, Name: name, Data: data}
	if err := c.write(ctx, msg); err != nil {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, errors.New("connection closed")
		}
		return reply, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, ctx.Err()
	}
}

// --- game.Client ---

func (c *RemoteClient) Notify(event log.GameEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	msg := Message{Type: MessageEvent, Name: event.Type.String(), Data: data}
	if err := c.write(context.Background(), msg); err != nil {
		c.logger.WithError(err).Debug("notify failed")
	}
}

func (c *RemoteClient) ChooseTriggerOrder(ctx context.Context, options []game.Event, cancelable bool) (int, error) {
	payload := TriggerOrderPayload{Cancelable: cancelable}
	for _, option := range options {
		entry := TriggerOption{Skill: option.Handler.Name()}
		for _, to := range option.To {
			entry.To = append(entry.To, to.Id())
		}
		payload.Options = append(payload.Options, entry)
	}
	raw, err := c.request(ctx, RequestTriggerOrder, payload)
	if err != nil {
		return -1, err
	}
	var reply TriggerOrderReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return -1, err
	}
	return reply.Index, nil
}

func (c *RemoteClient) AskForCard(ctx context.Context, prompt game.CardPrompt) (*game.CardReply, error) {
	raw, err := c.request(ctx, RequestAskForCard, CardPromptPayload{
		Pattern:  prompt.Pattern,
		Message:  prompt.Message,
		Optional: prompt.Optional,
		MinNum:   prompt.MinNum,
		MaxNum:   prompt.MaxNum,
	})
	if err != nil {
		return nil, err
	}
	var reply CardReplyPayload
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, err
	}
	if len(reply.CardIds) == 0 && reply.Skill == "" {
		return nil, nil
	}
	return &game.CardReply{CardIds: reply.CardIds, Skill: reply.Skill}, nil
}

func (c *RemoteClient) ChoosePlayerCard(ctx context.Context, owner *game.Player, areas []game.AreaType) (uint, error) {
	payload := ChoosePlayerCardPayload{OwnerId: owner.Id()}
	for _, area := range areas {
		payload.Areas = append(payload.Areas, area.String())
	}
	raw, err := c.request(ctx, RequestChoosePlayerCard, payload)
	if err != nil {
		return 0, err
	}
	var reply ChooseCardReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return 0, err
	}
	return reply.CardId, nil
}

func (c *RemoteClient) AskToUseCard(ctx context.Context, prompt game.CardPrompt) (*game.PlayAction, error) {
	raw, err := c.request(ctx, RequestUseCard, CardPromptPayload{
		Pattern:  prompt.Pattern,
		Message:  prompt.Message,
		Optional: prompt.Optional,
	})
	if err != nil {
		return nil, err
	}
	return c.decodeAction(raw)
}

func (c *RemoteClient) ArrangeCards(ctx context.Context, cards []*game.Card, capacities []int) ([][]uint, error) {
	payload := ArrangeCardPayload{Capacities: capacities}
	for _, card := range cards {
		payload.CardIds = append(payload.CardIds, card.Id())
	}
	raw, err := c.request(ctx, RequestArrangeCard, payload)
	if err != nil {
		return nil, err
	}
	var reply ArrangeCardReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, err
	}
	return reply.Groups, nil
}

func (c *RemoteClient) AskForOption(ctx context.Context, options []string) (int, error) {
	raw, err := c.request(ctx, RequestAskForOption, OptionPayload{Options: options})
	if err != nil {
		return 0, err
	}
	var reply OptionReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return 0, err
	}
	return reply.Index, nil
}

func (c *RemoteClient) ChooseGeneral(ctx context.Context, candidates []*game.General, n int) ([]uint, error) {
	payload := ChooseGeneralPayload{Num: n}
	for _, g := range candidates {
		payload.Candidates = append(payload.Candidates, GeneralInfo{
			Id:      g.Id(),
			Name:    g.Name(),
			Kingdom: g.Kingdom(),
			MaxHp:   g.MaxHp(),
		})
	}
	raw, err := c.request(ctx, RequestChooseGeneral, payload)
	if err != nil {
		return nil, err
	}
	var reply ChooseGeneralReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, err
	}
	return reply.GeneralIds, nil
}

func (c *RemoteClient) TakeAmazingGrace(ctx context.Context, cards []*game.Card) (uint, error) {
	payload := AmazingGracePayload{}
	for _, card := range cards {
		payload.CardIds = append(payload.CardIds, card.Id())
	}
	raw, err := c.request(ctx, RequestTakeAmazingGrace, payload)
	if err != nil {
		return 0, err
	}
	var reply ChooseCardReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return 0, err
	}
	return reply.CardId, nil
}

func (c *RemoteClient) Activate(ctx context.Context) (*game.PlayAction, error) {
	raw, err := c.request(ctx, RequestUseCard, CardPromptPayload{Message: "play"})
	if err != nil {
		return nil, err
	}
	return c.decodeAction(raw)
}

func (c *RemoteClient) decodeAction(raw json.RawMessage) (*game.PlayAction, error) {
	var reply UseCardReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, err
	}
	if reply.EndPhase {
		return &game.PlayAction{EndPhase: true}, nil
	}
	if c.logic == nil {
		return nil, errors.New("client not bound to a match")
	}
	action := &game.PlayAction{
		Skill:  reply.Skill,
		Recast: reply.Recast,
	}
	if reply.CardId != 0 {
		action.Card = c.logic.FindCard(reply.CardId)
	}
	for _, id := range reply.CardIds {
		if card := c.logic.FindCard(id); card != nil {
			action.Cards = append(action.Cards, card)
		}
	}
	for _, id := range reply.To {
		if target := c.logic.FindPlayer(id); target != nil {
			action.To = append(action.To, target)
		}
	}
	if action.Card == nil && action.Skill == "" && len(action.Cards) == 0 {
		return nil, nil
	}
	return action, nil
}
