package game

import "github.com/takashiro/qsgs/internal/log"

// CardsMove describes one batch transfer between areas. A nil From means
// the source is unknown and gets resolved from each card's actual position.
type CardsMove struct {
	Cards []*Card
	From  *CardArea
	To    *CardArea

	// Open moves are visible to everyone; Visible names one extra viewer
	// (e.g. the drawing player).
	Open    bool
	Visible *Player

	// virtuals carries view-as tokens decomposed out of Cards so the
	// transfer phase can relocate them.
	virtuals []*Card
}

// IsRelevantTo reports whether the player owns either end of the move.
func (m *CardsMove) IsRelevantTo(player *Player) bool {
	return (m.From != nil && m.From.Owner() == player) || (m.To != nil && m.To.Owner() == player)
}

// isVisibleTo is the per-viewer visibility mask for notifications.
func (m *CardsMove) isVisibleTo(viewer *Player) bool {
	return m.Open || m.Visible == viewer || m.IsRelevantTo(viewer)
}

// moveCards is the only mutator of area membership. Each event phase is
// preceded by a filtering pass so handler edits stay well-formed.
func (gl *GameLogic) moveCards(moves []*CardsMove) error {
	moves = gl.filterCardsMove(moves)
	if err := gl.triggerMoveEvent(EventBeforeCardsMove, &moves); err != nil {
		return err
	}
	moves = gl.filterCardsMove(moves)
	if err := gl.triggerMoveEvent(EventCardsMove, &moves); err != nil {
		return err
	}
	moves = gl.filterCardsMove(moves)

	for _, move := range moves {
		for _, token := range move.virtuals {
			gl.relocateVirtual(token, move.To)
		}
		var moved []*Card
		for _, card := range move.Cards {
			if gl.cardPosition[card] != move.From {
				continue
			}
			if move.From != nil {
				move.From.Remove(card)
			}
			move.To.Add(card)
			gl.setCardPosition(card, move.To)
			moved = append(moved, card)
		}
		move.Cards = moved
	}

	gl.notifyMoveCards(moves)

	return gl.triggerMoveEvent(EventAfterCardsMove, &moves)
}

func (gl *GameLogic) triggerMoveEvent(event EventType, moves *[]*CardsMove) error {
	for _, player := range gl.AllPlayers(false) {
		if _, err := gl.trigger(event, player, moves); err != nil {
			return err
		}
	}
	return nil
}

// filterCardsMove decomposes virtual cards into their real subcards and
// splits unknown-source moves by the cards' actual areas.
func (gl *GameLogic) filterCardsMove(moves []*CardsMove) []*CardsMove {
	var out []*CardsMove
	for _, move := range moves {
		var real []*Card
		for _, card := range move.Cards {
			if card.IsVirtual() {
				move.virtuals = append(move.virtuals, card)
				real = append(real, card.RealCards()...)
			} else {
				real = append(real, card)
			}
		}
		if move.From != nil {
			move.Cards = real
			out = append(out, move)
			continue
		}
		// Unknown source: one sub-move per actual area, in input order.
		var sources []*CardArea
		grouped := map[*CardArea][]*Card{}
		for _, card := range real {
			area := gl.cardPosition[card]
			if _, seen := grouped[area]; !seen {
				sources = append(sources, area)
			}
			grouped[area] = append(grouped[area], card)
		}
		for i, area := range sources {
			sub := &CardsMove{
				Cards:   grouped[area],
				From:    area,
				To:      move.To,
				Open:    move.Open,
				Visible: move.Visible,
			}
			if i == 0 {
				sub.virtuals = move.virtuals
			}
			out = append(out, sub)
		}
	}
	return out
}

// relocateVirtual moves a view-as token into the destination if it keeps
// virtual cards, dropping it from wherever it sat before.
func (gl *GameLogic) relocateVirtual(token *Card, to *CardArea) {
	if current := gl.cardPosition[token]; current != nil {
		current.Remove(token)
		gl.setCardPosition(token, nil)
	}
	if to != nil && to.KeepVirtual() {
		to.Add(token)
		gl.setCardPosition(token, to)
	}
	gl.broadcast(log.GameEvent{
		Type: log.EventSetVirtualCard,
		Data: map[string]any{
			"cardName": token.Name(),
			"area":     areaPayload(to),
		},
	})
}

func areaPayload(area *CardArea) map[string]any {
	if area == nil {
		return nil
	}
	payload := map[string]any{"type": area.Type().String()}
	if area.Owner() != nil {
		payload["ownerId"] = area.Owner().Id()
	}
	return payload
}

// notifyMoveCards emits one MoveCards notification per viewer, masking card
// ids the viewer may not see. The logger records the unmasked event once.
func (gl *GameLogic) notifyMoveCards(moves []*CardsMove) {
	if len(moves) == 0 {
		return
	}
	payloadFor := func(viewer *Player) []map[string]any {
		payload := make([]map[string]any, 0, len(moves))
		for _, move := range moves {
			entry := map[string]any{
				"from":  areaPayload(move.From),
				"to":    areaPayload(move.To),
				"count": len(move.Cards),
			}
			if viewer == nil || move.isVisibleTo(viewer) {
				ids := make([]uint, 0, len(move.Cards))
				for _, card := range move.Cards {
					ids = append(ids, card.Id())
				}
				entry["cardId"] = ids
			}
			payload = append(payload, entry)
		}
		return payload
	}

	event := log.GameEvent{
		Type: log.EventMoveCards,
		Data: map[string]any{"moves": payloadFor(nil)},
	}
	event.Round = gl.round
	if gl.currentPlayer != nil {
		event.Phase = gl.currentPlayer.phase.String()
	}
	gl.logger.Log(event)

	for _, viewer := range gl.players {
		masked := event
		masked.Player = viewer.Id()
		masked.Data = map[string]any{"moves": payloadFor(viewer)}
		viewer.client.Notify(masked)
	}
}
