package mcp

import (
	"github.com/takashiro/qsgs/internal/game"
)

// CardView is one card as presented in tool responses.
type CardView struct {
	Id     uint   `json:"id"`
	Name   string `json:"name"`
	Suit   string `json:"suit"`
	Number int    `json:"number"`
}

// PlayerView is one seat's public state. Hand cards are listed only for
// the agent's own seat.
type PlayerView struct {
	Id            uint       `json:"id"`
	Seat          int        `json:"seat"`
	Name          string     `json:"name"`
	Kingdom       string     `json:"kingdom,omitempty"`
	Hp            int        `json:"hp"`
	MaxHp         int        `json:"maxHp"`
	Alive         bool       `json:"alive"`
	Phase         string     `json:"phase"`
	HandNum       int        `json:"handNum"`
	Hand          []CardView `json:"hand,omitempty"`
	Equips        []CardView `json:"equips,omitempty"`
	DelayedTricks []CardView `json:"delayedTricks,omitempty"`
	Skills        []string   `json:"skills,omitempty"`
}

// StateView is the whole match from one seat's perspective.
type StateView struct {
	Round       int          `json:"round"`
	Current     uint         `json:"currentPlayer,omitempty"`
	DrawPileNum int          `json:"drawPileNum"`
	Players     []PlayerView `json:"players"`
}

func buildCardView(card *game.Card) CardView {
	return CardView{
		Id:     card.Id(),
		Name:   card.Name(),
		Suit:   card.Suit().String(),
		Number: card.Number(),
	}
}

func buildCardViews(cards []*game.Card) []CardView {
	views := make([]CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, buildCardView(card))
	}
	return views
}

func buildPlayerView(player *game.Player, self bool) PlayerView {
	view := PlayerView{
		Id:      player.Id(),
		Seat:    player.Seat(),
		Name:    player.Name(),
		Hp:      player.Hp(),
		MaxHp:   player.MaxHp(),
		Alive:   player.IsAlive(),
		Phase:   player.Phase().String(),
		HandNum: player.Hand().Size(),
		Equips:  buildCardViews(player.Equip().Cards()),
	}
	if general := player.General(); general != nil {
		view.Kingdom = general.Kingdom()
	}
	if tricks := player.DelayedTrick().Cards(); len(tricks) > 0 {
		view.DelayedTricks = buildCardViews(tricks)
	}
	for _, skill := range player.Skills() {
		view.Skills = append(view.Skills, skill.Descriptor().Name())
	}
	if self {
		view.Hand = buildCardViews(player.Hand().Cards())
	}
	return view
}

// buildStateView renders the match as seen by viewer. Other seats' hands
// stay hidden.
func buildStateView(logic *game.GameLogic, viewer *game.Player) *StateView {
	view := &StateView{
		Round:       logic.Round(),
		DrawPileNum: logic.DrawPile().Size(),
	}
	if current := logic.CurrentPlayer(); current != nil {
		view.Current = current.Id()
	}
	for _, player := range logic.Players() {
		view.Players = append(view.Players, buildPlayerView(player, player == viewer))
	}
	return view
}
