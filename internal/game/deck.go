package game

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// deckFile maps package names to their physical card lists.
type deckFile map[string]deckPackage

type deckPackage struct {
	Cards []deckCard `yaml:"cards"`
}

type deckCard struct {
	Name   string `yaml:"name"`
	Suit   string `yaml:"suit"`
	Number int    `yaml:"number"`
}

func parseSuit(name string) (Suit, error) {
	for _, suit := range []Suit{NoSuit, Spade, Heart, Club, Diamond} {
		if suit.String() == name {
			return suit, nil
		}
	}
	return NoSuit, fmt.Errorf("unknown suit %q", name)
}

// LoadDeck reads a yaml deck list and replaces the copies of every
// package it names. Behaviors must already be registered.
func LoadDeck(data []byte, catalog *Catalog) error {
	var file deckFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse deck: %w", err)
	}
	for pkgName, deck := range file {
		pkg := catalog.FindPackage(pkgName)
		if pkg == nil {
			return fmt.Errorf("deck references unknown package %q", pkgName)
		}
		pkg.ClearCopies()
		for _, entry := range deck.Cards {
			suit, err := parseSuit(entry.Suit)
			if err != nil {
				return fmt.Errorf("deck %s: %w", pkgName, err)
			}
			if entry.Number < 1 || entry.Number > 13 {
				return fmt.Errorf("deck %s: card %s has number %d", pkgName, entry.Name, entry.Number)
			}
			if err := pkg.AddCopy(entry.Name, suit, entry.Number); err != nil {
				return err
			}
		}
	}
	return nil
}
