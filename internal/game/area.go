package game

import "math/rand"

// AreaType identifies one of the zones a card can occupy.
type AreaType int

const (
	UnknownArea AreaType = iota
	DrawPileArea
	DiscardPileArea
	HandArea
	EquipArea
	DelayedTrickArea
	JudgeArea
	TableArea
	WuguArea
)

func (t AreaType) String() string {
	switch t {
	case DrawPileArea:
		return "draw_pile"
	case DiscardPileArea:
		return "discard_pile"
	case HandArea:
		return "hand"
	case EquipArea:
		return "equip"
	case DelayedTrickArea:
		return "delayed_trick"
	case JudgeArea:
		return "judge"
	case TableArea:
		return "table"
	case WuguArea:
		return "wugu"
	default:
		return "unknown"
	}
}

// CardArea is an ordered bag of cards in one zone. Player-owned areas carry
// an owner; shared piles do not.
type CardArea struct {
	typ   AreaType
	owner *Player
	cards []*Card

	// keepVirtual retains virtual cards on arrival instead of decomposing
	// them into their real subcards.
	keepVirtual bool
}

func NewCardArea(typ AreaType, owner *Player) *CardArea {
	area := &CardArea{typ: typ, owner: owner}
	switch typ {
	case TableArea, EquipArea, DelayedTrickArea:
		area.keepVirtual = true
	}
	return area
}

func (a *CardArea) Type() AreaType { return a.typ }

func (a *CardArea) Owner() *Player { return a.owner }

func (a *CardArea) KeepVirtual() bool { return a.keepVirtual }

func (a *CardArea) Size() int { return len(a.cards) }

func (a *CardArea) IsEmpty() bool { return len(a.cards) == 0 }

// Cards returns a copy of the area's contents in order.
func (a *CardArea) Cards() []*Card {
	return append([]*Card(nil), a.cards...)
}

// First returns the card at the top of the area, or nil if empty.
func (a *CardArea) First() *Card {
	if len(a.cards) == 0 {
		return nil
	}
	return a.cards[0]
}

// TakeFirst removes and returns the top card, or nil if empty.
func (a *CardArea) TakeFirst() *Card {
	if len(a.cards) == 0 {
		return nil
	}
	card := a.cards[0]
	a.cards = a.cards[1:]
	return card
}

// RandCard returns a uniformly random card from the area, or nil if empty.
// The pick comes from the caller's rng so seeded matches stay deterministic.
func (a *CardArea) RandCard(rng *rand.Rand) *Card {
	if len(a.cards) == 0 {
		return nil
	}
	return a.cards[rng.Intn(len(a.cards))]
}

// Contains reports whether the exact card instance is in the area.
func (a *CardArea) Contains(card *Card) bool {
	for _, c := range a.cards {
		if c == card {
			return true
		}
	}
	return false
}

// Find returns the card with the given id, or nil.
func (a *CardArea) Find(id uint) *Card {
	for _, c := range a.cards {
		if c.Id() == id {
			return c
		}
	}
	return nil
}

// Add appends a card to the bottom of the area. A virtual card entering an
// area that does not keep virtuals is decomposed into its real subcards.
func (a *CardArea) Add(card *Card) {
	if card.IsVirtual() && !a.keepVirtual {
		for _, sub := range card.Subcards() {
			a.Add(sub)
		}
		return
	}
	if !a.Contains(card) {
		a.cards = append(a.cards, card)
	}
}

// AddFront inserts a card at the top of the area.
func (a *CardArea) AddFront(card *Card) {
	if card.IsVirtual() && !a.keepVirtual {
		subs := card.Subcards()
		for i := len(subs) - 1; i >= 0; i-- {
			a.AddFront(subs[i])
		}
		return
	}
	if !a.Contains(card) {
		a.cards = append([]*Card{card}, a.cards...)
	}
}

// Remove deletes the card from the area, reporting success.
func (a *CardArea) Remove(card *Card) bool {
	for i, c := range a.cards {
		if c == card {
			a.cards = append(a.cards[:i], a.cards[i+1:]...)
			return true
		}
	}
	return false
}

// findName returns the first card with the given name, or nil.
func (a *CardArea) findName(name string) *Card {
	for _, c := range a.cards {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// findSubtype returns the first card of the given subtype, or nil.
func (a *CardArea) findSubtype(subtype CardSubtype) *Card {
	for _, c := range a.cards {
		if c.Subtype() == subtype {
			return c
		}
	}
	return nil
}

// Clear removes and returns all cards.
func (a *CardArea) Clear() []*Card {
	cards := a.cards
	a.cards = nil
	return cards
}
