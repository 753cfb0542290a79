package game

import (
	"strconv"
	"strings"
)

// CardPattern matches cards against a compact textual expression of the form
//
//	names|suits|numbers|place
//
// Trailing segments may be omitted. Each segment is a comma-separated list
// of alternatives; "." matches anything and a "^" prefix negates one
// alternative. Numbers accept single values and n~m ranges; suits accept
// suit names plus "red" and "black". Examples: "Slash", ".|^heart",
// ".|spade|2~9", ".|.|.|hand".
type CardPattern struct {
	names   []string
	suits   []string
	numbers []string
	places  []string
}

func NewCardPattern(exp string) *CardPattern {
	p := &CardPattern{}
	segments := strings.Split(exp, "|")
	parse := func(i int) []string {
		if i >= len(segments) || segments[i] == "" {
			return nil
		}
		return strings.Split(segments[i], ",")
	}
	p.names = parse(0)
	p.suits = parse(1)
	p.numbers = parse(2)
	p.places = parse(3)
	return p
}

// Match reports whether the card satisfies the pattern. The owner is
// consulted only for place restrictions and may be nil when the pattern
// carries none.
func (p *CardPattern) Match(owner *Player, card *Card) bool {
	return matchSegment(p.names, func(alt string) bool {
		return alt == card.Name()
	}) && matchSegment(p.suits, func(alt string) bool {
		switch alt {
		case "red":
			return card.Color() == Red
		case "black":
			return card.Color() == Black
		default:
			return alt == card.Suit().String()
		}
	}) && matchSegment(p.numbers, func(alt string) bool {
		return matchNumber(alt, card.Number())
	}) && matchSegment(p.places, func(alt string) bool {
		return matchPlace(alt, owner, card)
	})
}

// matchSegment applies one segment: every negated alternative must miss and,
// if any positive alternatives exist, at least one must hit.
func matchSegment(alts []string, matches func(alt string) bool) bool {
	if len(alts) == 0 {
		return true
	}
	positive := 0
	hit := false
	for _, alt := range alts {
		if negated, ok := strings.CutPrefix(alt, "^"); ok {
			if negated != "." && matches(negated) {
				return false
			}
			continue
		}
		positive++
		if alt == "." || matches(alt) {
			hit = true
		}
	}
	return positive == 0 || hit
}

func matchNumber(alt string, number int) bool {
	if low, high, ok := strings.Cut(alt, "~"); ok {
		min, err1 := strconv.Atoi(low)
		max, err2 := strconv.Atoi(high)
		return err1 == nil && err2 == nil && number >= min && number <= max
	}
	n, err := strconv.Atoi(alt)
	return err == nil && number == n
}

func matchPlace(alt string, owner *Player, card *Card) bool {
	if owner == nil {
		return false
	}
	switch alt {
	case "hand":
		return owner.Hand().Contains(card)
	case "equip":
		return owner.Equip().Contains(card)
	default:
		return false
	}
}
