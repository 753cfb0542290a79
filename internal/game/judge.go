package game

import "github.com/takashiro/qsgs/internal/log"

// JudgeInfo is the payload of the judge sub-protocol. Retrial handlers may
// swap Card and must refresh Matched via UpdateResult.
type JudgeInfo struct {
	Who     *Player
	Pattern string
	Card    *Card
	Matched bool
}

// UpdateResult re-evaluates the pattern against the current judge card.
func (j *JudgeInfo) UpdateResult() {
	j.Matched = j.Card != nil && NewCardPattern(j.Pattern).Match(j.Who, j.Card)
}

// Judge draws a card for a random-outcome check, invites retrials, and
// discards the judge card afterwards.
func (gl *GameLogic) Judge(j *JudgeInfo) error {
	if j == nil || j.Who == nil {
		return nil
	}
	broken, err := gl.trigger(EventStartJudge, j.Who, j)
	if err != nil || broken {
		return err
	}

	cards, err := gl.getDrawPileCards(1)
	if err != nil {
		return err
	}
	j.Card = cards[0]
	j.UpdateResult()

	move := &CardsMove{
		Cards: []*Card{j.Card},
		From:  gl.drawPile,
		To:    j.Who.judge,
		Open:  true,
	}
	if err := gl.moveCards([]*CardsMove{move}); err != nil {
		return err
	}
	gl.broadcastJudgeResult(j)

	for _, player := range gl.AllPlayers(false) {
		retried, err := gl.trigger(EventAskForRetrial, player, j)
		if err != nil {
			return err
		}
		if retried {
			break
		}
	}
	if _, err := gl.trigger(EventFinishRetrial, j.Who, j); err != nil {
		return err
	}
	if _, err := gl.trigger(EventFinishJudge, j.Who, j); err != nil {
		return err
	}

	if j.Who.judge.Contains(j.Card) {
		discard := &CardsMove{
			Cards: []*Card{j.Card},
			From:  j.Who.judge,
			To:    gl.discardPile,
			Open:  true,
		}
		return gl.moveCards([]*CardsMove{discard})
	}
	return nil
}

func (gl *GameLogic) broadcastJudgeResult(j *JudgeInfo) {
	gl.broadcast(log.GameEvent{
		Type:   log.EventJudgeResult,
		Player: j.Who.Id(),
		Data: map[string]any{
			"playerId": j.Who.Id(),
			"cardId":   j.Card.Id(),
			"cardName": j.Card.Name(),
			"matched":  j.Matched,
		},
		Details: j.Who.Name() + " judges " + j.Card.Name(),
	})
}
