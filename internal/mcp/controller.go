package mcp

import (
	"context"
	"fmt"

	"github.com/takashiro/qsgs/internal/game"
	"github.com/takashiro/qsgs/internal/log"
)

// AgentClient implements game.Client by publishing each prompt to the
// session's pending channel and blocking until a tool call answers it.
type AgentClient struct {
	session    *GameSession
	responseCh chan any
}

func NewAgentClient(session *GameSession) *AgentClient {
	return &AgentClient{
		session:    session,
		responseCh: make(chan any),
	}
}

// ask publishes a pending decision and waits for the matching response.
func (c *AgentClient) ask(ctx context.Context, pending *PendingDecision) (any, error) {
	pending.State = buildStateView(c.session.logic, c.session.seat)
	select {
	case c.session.pendingCh <- pending:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *AgentClient) Notify(event log.GameEvent) {
	c.session.appendEvent(event)
}

func (c *AgentClient) ChooseTriggerOrder(ctx context.Context, options []game.Event, cancelable bool) (int, error) {
	pending := &PendingDecision{
		Type:       DecisionTriggerOrder,
		Cancelable: cancelable,
	}
	for _, option := range options {
		label := option.Handler.Name()
		for _, to := range option.To {
			label += " -> " + to.Name()
		}
		pending.Options = append(pending.Options, label)
	}
	resp, err := c.ask(ctx, pending)
	if err != nil {
		return -1, err
	}
	reply, ok := resp.(orderResponse)
	if !ok {
		return -1, fmt.Errorf("unexpected response %T", resp)
	}
	return reply.Index, nil
}

func (c *AgentClient) AskForCard(ctx context.Context, prompt game.CardPrompt) (*game.CardReply, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:     DecisionProvideCard,
		Pattern:  prompt.Pattern,
		Prompt:   prompt.Message,
		Optional: prompt.Optional,
		MinNum:   prompt.MinNum,
		MaxNum:   prompt.MaxNum,
		Cards:    buildCardViews(c.session.seat.Hand().Cards()),
	})
	if err != nil {
		return nil, err
	}
	reply, ok := resp.(cardsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", resp)
	}
	if len(reply.CardIds) == 0 && reply.Skill == "" {
		return nil, nil
	}
	return &game.CardReply{CardIds: reply.CardIds, Skill: reply.Skill}, nil
}

func (c *AgentClient) ChoosePlayerCard(ctx context.Context, owner *game.Player, areas []game.AreaType) (uint, error) {
	pending := &PendingDecision{
		Type:   DecisionPickCard,
		Prompt: "choose a card of " + owner.Name(),
	}
	for _, area := range areas {
		switch area {
		case game.HandArea:
			// Hand cards stay face down for the chooser.
			for _, card := range owner.Hand().Cards() {
				pending.Cards = append(pending.Cards, CardView{Id: card.Id()})
			}
		case game.EquipArea:
			pending.Cards = append(pending.Cards, buildCardViews(owner.Equip().Cards())...)
		case game.DelayedTrickArea:
			pending.Cards = append(pending.Cards, buildCardViews(owner.DelayedTrick().Cards())...)
		}
	}
	resp, err := c.ask(ctx, pending)
	if err != nil {
		return 0, err
	}
	reply, ok := resp.(pickResponse)
	if !ok {
		return 0, fmt.Errorf("unexpected response %T", resp)
	}
	return reply.CardId, nil
}

func (c *AgentClient) AskToUseCard(ctx context.Context, prompt game.CardPrompt) (*game.PlayAction, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:     DecisionUseCard,
		Pattern:  prompt.Pattern,
		Prompt:   prompt.Message,
		Optional: prompt.Optional,
		Cards:    buildCardViews(c.session.seat.Hand().Cards()),
	})
	if err != nil {
		return nil, err
	}
	return c.decodeAction(resp)
}

func (c *AgentClient) ArrangeCards(ctx context.Context, cards []*game.Card, capacities []int) ([][]uint, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:       DecisionArrangeCards,
		Cards:      buildCardViews(cards),
		Capacities: capacities,
	})
	if err != nil {
		return nil, err
	}
	reply, ok := resp.(arrangeResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", resp)
	}
	return reply.Groups, nil
}

func (c *AgentClient) AskForOption(ctx context.Context, options []string) (int, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:    DecisionChooseOption,
		Options: options,
	})
	if err != nil {
		return 0, err
	}
	reply, ok := resp.(optionResponse)
	if !ok {
		return 0, fmt.Errorf("unexpected response %T", resp)
	}
	return reply.Index, nil
}

func (c *AgentClient) ChooseGeneral(ctx context.Context, candidates []*game.General, n int) ([]uint, error) {
	pending := &PendingDecision{
		Type:   DecisionChooseGeneral,
		MinNum: n,
		MaxNum: n,
	}
	for _, general := range candidates {
		pending.Generals = append(pending.Generals,
			fmt.Sprintf("%d:%s (%s, %d hp)", general.Id(), general.Name(), general.Kingdom(), general.MaxHp()))
	}
	resp, err := c.ask(ctx, pending)
	if err != nil {
		return nil, err
	}
	reply, ok := resp.(generalResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", resp)
	}
	return reply.Ids, nil
}

func (c *AgentClient) TakeAmazingGrace(ctx context.Context, cards []*game.Card) (uint, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:   DecisionPickCard,
		Prompt: "take a card",
		Cards:  buildCardViews(cards),
	})
	if err != nil {
		return 0, err
	}
	reply, ok := resp.(pickResponse)
	if !ok {
		return 0, fmt.Errorf("unexpected response %T", resp)
	}
	return reply.CardId, nil
}

func (c *AgentClient) Activate(ctx context.Context) (*game.PlayAction, error) {
	resp, err := c.ask(ctx, &PendingDecision{
		Type:  DecisionActivate,
		Cards: buildCardViews(c.session.seat.Hand().Cards()),
	})
	if err != nil {
		return nil, err
	}
	return c.decodeAction(resp)
}

func (c *AgentClient) decodeAction(resp any) (*game.PlayAction, error) {
	reply, ok := resp.(actionResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response %T", resp)
	}
	if reply.EndPhase {
		return &game.PlayAction{EndPhase: true}, nil
	}
	logic := c.session.logic
	action := &game.PlayAction{
		Skill:  reply.Skill,
		Recast: reply.Recast,
	}
	if reply.CardId != 0 {
		action.Card = logic.FindCard(reply.CardId)
	}
	for _, id := range reply.CardIds {
		if card := logic.FindCard(id); card != nil {
			action.Cards = append(action.Cards, card)
		}
	}
	for _, id := range reply.To {
		if target := logic.FindPlayer(id); target != nil {
			action.To = append(action.To, target)
		}
	}
	if action.Card == nil && action.Skill == "" && len(action.Cards) == 0 {
		return nil, nil
	}
	return action, nil
}
