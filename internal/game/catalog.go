package game

import "fmt"

// General is a playable character descriptor.
type General struct {
	id      uint
	name    string
	kingdom string
	maxHp   int
	skills  []PlayerSkill
}

func NewGeneral(name string, kingdom string, maxHp int) *General {
	return &General{name: name, kingdom: kingdom, maxHp: maxHp}
}

func (g *General) Id() uint { return g.id }

func (g *General) Name() string { return g.name }

func (g *General) Kingdom() string { return g.kingdom }

func (g *General) MaxHp() int { return g.maxHp }

func (g *General) AddSkill(skill PlayerSkill) *General {
	g.skills = append(g.skills, skill)
	return g
}

func (g *General) Skills() []PlayerSkill { return g.skills }

// Package groups generals and physical card copies under one content name.
// Card behaviors are registered once per name; copies reference them.
type Package struct {
	name      string
	generals  []*General
	behaviors map[string]*Card
	cards     []*Card
}

func NewPackage(name string) *Package {
	return &Package{name: name, behaviors: map[string]*Card{}}
}

func (p *Package) Name() string { return p.name }

func (p *Package) AddGeneral(general *General) *Package {
	p.generals = append(p.generals, general)
	return p
}

func (p *Package) Generals() []*General { return p.generals }

// AddBehavior registers the descriptor for one card name.
func (p *Package) AddBehavior(card *Card) *Package {
	p.behaviors[card.Name()] = card
	return p
}

func (p *Package) FindBehavior(name string) *Card { return p.behaviors[name] }

// AddCopy adds one physical copy of a registered behavior.
func (p *Package) AddCopy(name string, suit Suit, number int) error {
	behavior := p.behaviors[name]
	if behavior == nil {
		return fmt.Errorf("package %s: unknown card %q", p.name, name)
	}
	clone := *behavior
	clone.suit = suit
	clone.number = number
	p.cards = append(p.cards, &clone)
	return nil
}

// Cards lists the package's physical copies.
func (p *Package) Cards() []*Card { return p.cards }

// ClearCopies drops the default copies so a custom deck can replace them.
func (p *Package) ClearCopies() { p.cards = nil }

// GameMode couples a rule with the packages it plays with. Rule is a
// factory so each match gets its own handler state.
type GameMode struct {
	Name       string
	MinPlayers int
	Packages   []string
	Rule       func() EventHandler
}

// Catalog is the explicit registry of modes and packages an embedder builds
// at startup and hands to each match.
type Catalog struct {
	modes    map[string]*GameMode
	packages map[string]*Package

	nextGeneralId uint
	nextSkillId   uint
}

func NewCatalog() *Catalog {
	return &Catalog{
		modes:    map[string]*GameMode{},
		packages: map[string]*Package{},
	}
}

func (c *Catalog) AddMode(mode *GameMode) {
	c.modes[mode.Name] = mode
}

func (c *Catalog) FindMode(name string) *GameMode { return c.modes[name] }

// AddPackage registers a package, assigning stable ids to its generals and
// skills.
func (c *Catalog) AddPackage(pkg *Package) {
	for _, general := range pkg.generals {
		c.nextGeneralId++
		general.id = c.nextGeneralId
		for _, skill := range general.skills {
			if skill.Descriptor().id == 0 {
				c.nextSkillId++
				skill.Descriptor().id = c.nextSkillId
			}
		}
	}
	c.packages[pkg.name] = pkg
}

func (c *Catalog) FindPackage(name string) *Package { return c.packages[name] }

// GeneralsOfMode lists every general of the mode's packages.
func (c *Catalog) GeneralsOfMode(mode *GameMode) []*General {
	var generals []*General
	for _, name := range mode.Packages {
		if pkg := c.packages[name]; pkg != nil {
			generals = append(generals, pkg.generals...)
		}
	}
	return generals
}

// CardsOfMode lists every physical card copy of the mode's packages.
func (c *Catalog) CardsOfMode(mode *GameMode) []*Card {
	var cards []*Card
	for _, name := range mode.Packages {
		if pkg := c.packages[name]; pkg != nil {
			cards = append(cards, pkg.cards...)
		}
	}
	return cards
}

func (c *Catalog) FindGeneral(id uint) *General {
	for _, pkg := range c.packages {
		for _, g := range pkg.generals {
			if g.id == id {
				return g
			}
		}
	}
	return nil
}

func (c *Catalog) FindSkill(id uint) *Skill {
	for _, pkg := range c.packages {
		for _, g := range pkg.generals {
			for _, s := range g.skills {
				if s.Descriptor().id == id {
					return s.Descriptor()
				}
			}
		}
	}
	return nil
}
