package game

import (
	"errors"

	"github.com/takashiro/qsgs/internal/log"
)

// Start prepares the match and runs the turn loop until the game finishes.
func (gl *GameLogic) Start() error {
	if gl.mode == nil {
		return errors.New("no game mode configured")
	}
	if len(gl.players) == 0 {
		return errors.New("no players seated")
	}
	if gl.mode.Rule != nil {
		gl.AddHandler(gl.mode.Rule())
	}

	seats := make([]uint, 0, len(gl.players))
	for _, p := range gl.players {
		seats = append(seats, p.Id())
	}
	gl.broadcast(log.GameEvent{
		Type:    log.EventArrangeSeat,
		Data:    map[string]any{"playerId": seats},
		Details: "arrange seats",
	})

	var cards []*Card
	for _, descriptor := range gl.catalog.CardsOfMode(gl.mode) {
		cards = append(cards, gl.NewCard(descriptor, descriptor.suit, descriptor.number))
	}
	gl.PrepareCards(cards)

	gl.broadcast(log.GameEvent{
		Type:    log.EventGameStart,
		Details: "game start",
	})
	for _, player := range gl.players {
		if _, err := gl.trigger(EventGameStart, player, nil); err != nil {
			if errors.Is(err, SignalGameFinish) {
				return nil
			}
			return err
		}
	}

	return gl.run()
}

// AddExtraTurn queues an extra turn taken before seat order resumes.
func (gl *GameLogic) AddExtraTurn(player *Player) {
	gl.extraTurns = append(gl.extraTurns, player)
}

// run is the turn loop and the sole catcher of control signals.
func (gl *GameLogic) run() error {
	current := gl.players[0]
	for !gl.finished {
		if current.Seat() == 1 {
			gl.round++
			gl.broadcast(log.GameEvent{
				Type:    log.EventNewRound,
				Data:    map[string]any{"round": gl.round},
				Details: "new round",
			})
		}
		if !current.IsAlive() {
			current = current.Next()
			continue
		}
		if err := gl.takeTurn(current); err != nil {
			if errors.Is(err, SignalGameFinish) {
				return nil
			}
			return err
		}
		for len(gl.extraTurns) > 0 && !gl.finished {
			extra := gl.extraTurns[0]
			gl.extraTurns = gl.extraTurns[1:]
			if !extra.IsAlive() {
				continue
			}
			if err := gl.takeTurn(extra); err != nil {
				if errors.Is(err, SignalGameFinish) {
					return nil
				}
				return err
			}
		}
		current = current.Next()
	}
	return nil
}

// takeTurn runs one player's turn, converting TurnBroken and StageChange
// into a clean hand-off to the next seat.
func (gl *GameLogic) takeTurn(player *Player) error {
	gl.setCurrentPlayer(player)
	gl.broadcast(log.GameEvent{
		Type:    log.EventTurnStart,
		Player:  player.Id(),
		Data:    map[string]any{"playerId": player.Id()},
		Details: player.Name() + " starts a turn",
	})

	_, err := gl.trigger(EventTurnStart, player, nil)
	if err != nil {
		var signal ControlSignal
		if !errors.As(err, &signal) {
			return err
		}
		switch signal {
		case SignalGameFinish:
			return err
		case SignalTurnBroken:
			if _, err := gl.trigger(EventTurnBroken, player, nil); err != nil {
				if errors.Is(err, SignalGameFinish) {
					return err
				}
			}
			if player.Phase() != InactivePhase {
				if _, err := gl.trigger(EventPhaseEnd, player, nil); err != nil {
					if errors.Is(err, SignalGameFinish) {
						return err
					}
				}
				player.setPhase(InactivePhase)
			}
			player.clearSkippedPhases()
		case SignalStageChange:
			if player.Phase() != InactivePhase {
				player.setPhase(InactivePhase)
			}
			player.clearSkippedPhases()
		}
	}
	player.clearHistory()
	return nil
}
