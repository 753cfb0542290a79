package game

func registerEquipCards(pkg *Package) {
	pkg.AddBehavior(newCrossbow())
	pkg.AddBehavior(newSpear())
	pkg.AddBehavior(newRenwangShield())
	pkg.AddBehavior(newJadeSeal())
	pkg.AddBehavior(newHorse("DefensiveHorse", DefensiveHorseType))
	pkg.AddBehavior(newHorse("OffensiveHorse", OffensiveHorseType))
}

func newEquip(name string, subtype CardSubtype) *Card {
	return newCard(name, EquipKind, subtype, NoSuit, 0)
}

// Crossbow lifts the per-turn Slash limit.
func newCrossbow() *Card {
	c := newEquip("Crossbow", WeaponType)
	skill := NewCardModSkill("crossbow")
	skill.extraUseNum = func(card *Card, source *Player) int {
		if card.Name() == "Slash" {
			return InfinityNum
		}
		return 0
	}
	c.equipSkills = []PlayerSkill{skill}
	return c
}

// Spear extends Slash reach by two and turns any two hand cards into a
// Slash.
func newSpear() *Card {
	c := newEquip("Spear", WeaponType)
	reach := NewCardModSkill("spear_reach")
	reach.extraDistanceLimit = func(card *Card, source *Player) int {
		if card.Name() == "Slash" {
			return 2
		}
		return 0
	}
	convert := NewViewAsSkill("spear")
	convert.availableFn = func(self *Player, pattern string) bool {
		return pattern == "" || pattern == "Slash"
	}
	convert.viewFilterFn = func(selected []*Card, card *Card, self *Player, pattern string) bool {
		return len(selected) < 2 && self.Hand().Contains(card)
	}
	convert.viewAsFn = func(cards []*Card, self *Player) *Card {
		if len(cards) != 2 {
			return nil
		}
		pkg := standardBehaviors(self)
		if pkg == nil {
			return nil
		}
		return pkg.FindBehavior("Slash").VirtualClone(cards...)
	}
	c.equipSkills = []PlayerSkill{reach, convert}
	return c
}

// RenwangShield voids black Slashes aimed at the wearer.
func newRenwangShield() *Card {
	c := newEquip("RenwangShield", ArmorType)
	skill := NewTriggerSkill("renwang_shield").On(EventCardEffect)
	skill.SetFrequency(Compulsory)
	skill.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		effect, ok := data.(*CardEffect)
		if !ok || target == nil || effect.To != target || !target.HasSkill(skill.Name()) {
			return nil
		}
		if effect.Use.Card == nil || effect.Use.Card.Name() != "Slash" || effect.Use.Card.Color() != Black {
			return nil
		}
		return singleOption(skill, target, 1)
	}
	skill.effectFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
		return true, nil
	}
	c.equipSkills = []PlayerSkill{skill}
	return c
}

// JadeSeal draws an extra card at the start of the wearer's Draw phase.
func newJadeSeal() *Card {
	c := newEquip("JadeSeal", TreasureType)
	skill := NewTriggerSkill("jade_seal").On(EventPhaseStart)
	skill.SetFrequency(Compulsory)
	skill.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		if target == nil || !target.IsAlive() || target.Phase() != DrawPhase || !target.HasSkill(skill.Name()) {
			return nil
		}
		return singleOption(skill, target, 1)
	}
	skill.effectFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
		return false, target.DrawCards(1)
	}
	c.equipSkills = []PlayerSkill{skill}
	return c
}

// Horses adjust seat distance through the distance model; they carry no
// skill of their own.
func newHorse(name string, subtype CardSubtype) *Card {
	return newEquip(name, subtype)
}

// standardBehaviors finds the standard package through the player's match.
func standardBehaviors(player *Player) *Package {
	if player == nil || player.logic == nil || player.logic.catalog == nil {
		return nil
	}
	return player.logic.catalog.FindPackage("standard")
}
