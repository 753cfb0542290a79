package game

// NewStandardCatalog builds the catalog an embedder hands to matches: the
// standard package and the standard last-man-standing mode.
func NewStandardCatalog() *Catalog {
	catalog := NewCatalog()
	catalog.AddPackage(NewStandardPackage())
	catalog.AddMode(&GameMode{
		Name:       "standard",
		MinPlayers: 2,
		Packages:   []string{"standard"},
		Rule:       func() EventHandler { return NewGameRule() },
	})
	return catalog
}

// NewStandardPackage registers the standard behaviors, generals, and the
// default physical copies.
func NewStandardPackage() *Package {
	pkg := NewPackage("standard")
	registerBasicCards(pkg)
	registerTrickCards(pkg)
	registerEquipCards(pkg)
	registerStandardGenerals(pkg)
	addStandardCopies(pkg)
	return pkg
}

// --- Basic cards ---

func registerBasicCards(pkg *Package) {
	pkg.AddBehavior(newSlash())
	pkg.AddBehavior(newJink())
	pkg.AddBehavior(newPeach())
}

// Slash: one per Play phase, reach 1, the target plays a Jink or takes one
// point of damage.
func newSlash() *Card {
	c := newCard("Slash", BasicKind, NoSubtype, NoSuit, 0)
	c.useLimit = 1
	c.distanceLimit = 1
	c.filterFn = func(logic *GameLogic, selected []*Player, toSelect *Player, source *Player) bool {
		return toSelect != source && defaultTargetFilter(c, selected, toSelect, source)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		jink := effect.To.askForCard("Jink", "play a Jink against the Slash", true)
		if jink != nil {
			ok, err := logic.RespondCard(&CardResponse{
				From:   effect.To,
				To:     effect.From,
				Card:   jink,
				Target: effect.Use.Card,
			})
			if err != nil || ok {
				return err
			}
		}
		return logic.DealDamage(&Damage{
			From:   effect.From,
			To:     effect.To,
			Card:   effect.Use.Card,
			Damage: 1,
			Nature: NormalDamage,
			ByUser: true,
		})
	}
	return c
}

// Jink is response-only.
func newJink() *Card {
	c := newCard("Jink", BasicKind, NoSubtype, NoSuit, 0)
	c.availableFn = func(logic *GameLogic, source *Player) bool { return false }
	return c
}

// Peach: self-target, restores one hp while wounded.
func newPeach() *Card {
	c := newCard("Peach", BasicKind, NoSubtype, NoSuit, 0)
	c.targetFixed = true
	c.availableFn = func(logic *GameLogic, source *Player) bool {
		return source.Hp() < source.MaxHp()
	}
	c.onUseFn = func(logic *GameLogic, use *CardUse) error {
		if len(use.To) == 0 {
			use.To = []*Player{use.From}
		}
		return defaultOnUse(logic, use)
	}
	c.effectFn = func(logic *GameLogic, effect *CardEffect) error {
		return logic.RecoverHp(&Recovery{
			From:    effect.From,
			To:      effect.To,
			Card:    effect.Use.Card,
			Recover: 1,
		})
	}
	return c
}

// --- Default deck ---

func addStandardCopies(pkg *Package) {
	type copySpec struct {
		name   string
		suit   Suit
		number int
	}
	copies := []copySpec{
		{"Slash", Spade, 7}, {"Slash", Spade, 8}, {"Slash", Spade, 9}, {"Slash", Spade, 10},
		{"Slash", Club, 2}, {"Slash", Club, 3}, {"Slash", Club, 4}, {"Slash", Club, 5},
		{"Slash", Club, 8}, {"Slash", Club, 9}, {"Slash", Club, 10}, {"Slash", Club, 11},
		{"Slash", Heart, 10}, {"Slash", Heart, 11}, {"Slash", Diamond, 6}, {"Slash", Diamond, 7},
		{"Slash", Diamond, 8}, {"Slash", Diamond, 9}, {"Slash", Diamond, 10}, {"Slash", Diamond, 13},

		{"Jink", Heart, 2}, {"Jink", Heart, 4}, {"Jink", Heart, 13}, {"Jink", Diamond, 2},
		{"Jink", Diamond, 3}, {"Jink", Diamond, 4}, {"Jink", Diamond, 5}, {"Jink", Diamond, 6},
		{"Jink", Diamond, 7}, {"Jink", Diamond, 8}, {"Jink", Diamond, 10}, {"Jink", Diamond, 11},

		{"Peach", Heart, 3}, {"Peach", Heart, 5}, {"Peach", Heart, 6}, {"Peach", Heart, 7},
		{"Peach", Heart, 8}, {"Peach", Heart, 9}, {"Peach", Heart, 12}, {"Peach", Diamond, 12},

		{"AmazingGrace", Heart, 3}, {"AmazingGrace", Heart, 4},
		{"GodSalvation", Heart, 1},
		{"SavageAssault", Spade, 7}, {"SavageAssault", Spade, 13}, {"SavageAssault", Club, 7},
		{"ArcheryAttack", Heart, 1},
		{"Duel", Spade, 1}, {"Duel", Club, 1}, {"Duel", Diamond, 1},
		{"Collateral", Club, 12}, {"Collateral", Club, 13},
		{"ExNihilo", Heart, 7}, {"ExNihilo", Heart, 8}, {"ExNihilo", Heart, 9}, {"ExNihilo", Heart, 11},
		{"Snatch", Spade, 3}, {"Snatch", Spade, 4}, {"Snatch", Spade, 11},
		{"Snatch", Diamond, 3}, {"Snatch", Diamond, 4},
		{"Dismantlement", Spade, 3}, {"Dismantlement", Spade, 4}, {"Dismantlement", Spade, 12},
		{"Dismantlement", Club, 3}, {"Dismantlement", Club, 4}, {"Dismantlement", Heart, 12},
		{"Nullification", Spade, 11}, {"Nullification", Club, 12}, {"Nullification", Club, 13},
		{"Indulgence", Spade, 6}, {"Indulgence", Club, 6}, {"Indulgence", Heart, 6},
		{"Lightning", Spade, 1}, {"Lightning", Heart, 12},

		{"Crossbow", Club, 1}, {"Crossbow", Diamond, 1},
		{"Spear", Spade, 12},
		{"RenwangShield", Club, 2},
		{"JadeSeal", Club, 9},
		{"DefensiveHorse", Spade, 5}, {"DefensiveHorse", Club, 5}, {"DefensiveHorse", Heart, 13},
		{"OffensiveHorse", Spade, 13}, {"OffensiveHorse", Heart, 5}, {"OffensiveHorse", Diamond, 13},
	}
	for _, spec := range copies {
		// behaviors are registered by this package, so this cannot fail
		_ = pkg.AddCopy(spec.name, spec.suit, spec.number)
	}
}
