package game

import "github.com/takashiro/qsgs/internal/log"

func registerStandardGenerals(pkg *Package) {
	pkg.AddGeneral(NewGeneral("caocao", "wei", 4).AddSkill(newJianxiong()))
	pkg.AddGeneral(NewGeneral("simayi", "wei", 3).AddSkill(newGuicai()))
	pkg.AddGeneral(NewGeneral("zhenji", "wei", 3).AddSkill(newQingguo()))
	pkg.AddGeneral(NewGeneral("liubei", "shu", 4))
	pkg.AddGeneral(NewGeneral("zhugeliang", "shu", 3).AddSkill(newGuanxing()))
	pkg.AddGeneral(NewGeneral("guanyu", "shu", 4))
	pkg.AddGeneral(NewGeneral("sunquan", "wu", 4))
	pkg.AddGeneral(NewGeneral("luxun", "wu", 3))
	pkg.AddGeneral(NewGeneral("huatuo", "qun", 3))
}

// Jianxiong: after taking damage that carries a card, Cao Cao may take that
// card into his hand.
func newJianxiong() *TriggerSkill {
	return NewMasochismSkill("jianxiong",
		func(logic *GameLogic, target *Player, damage *Damage) int {
			if damage.Card == nil || !target.HasSkill("jianxiong") {
				return 0
			}
			return 1
		},
		func(logic *GameLogic, target *Player, damage *Damage, invoker *Player) (bool, error) {
			logic.broadcast(log.GameEvent{
				Type:   log.EventInvokeSkill,
				Player: invoker.Id(),
				Data:   map[string]any{"playerId": invoker.Id(), "skillName": "jianxiong"},
			})
			invoker.addSkillHistory("jianxiong")
			move := &CardsMove{
				Cards: damage.Card.RealCards(),
				To:    invoker.Hand(),
				Open:  true,
			}
			return false, logic.moveCards([]*CardsMove{move})
		})
}

// Guanxing: at the start of his turn, Zhuge Liang looks at the top cards of
// the draw pile (one per living player, at most five) and puts any of them
// back on top in an order of his choosing, the rest at the bottom.
func newGuanxing() *TriggerSkill {
	s := NewTriggerSkill("guanxing").On(EventPhaseStart)
	s.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		if target == nil || target.Phase() != StartPhase || !target.HasSkill(s.Name()) {
			return nil
		}
		if logic.DrawPile().IsEmpty() {
			return nil
		}
		return singleOption(s, target, 1)
	}
	s.effectFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
		n := len(logic.AllPlayers(false))
		if n > 5 {
			n = 5
		}
		var cards []*Card
		for i := 0; i < n; i++ {
			card := logic.DrawPile().TakeFirst()
			if card == nil {
				break
			}
			cards = append(cards, card)
		}
		if len(cards) == 0 {
			return false, nil
		}
		logic.broadcast(log.GameEvent{
			Type:   log.EventInvokeSkill,
			Player: invoker.Id(),
			Data:   map[string]any{"playerId": invoker.Id(), "skillName": s.Name()},
		})
		invoker.addSkillHistory(s.Name())

		groups := invoker.askToArrangeCards(cards, []int{len(cards), len(cards)})
		top, bottom := groups[0], groups[1]
		for i := len(top) - 1; i >= 0; i-- {
			logic.DrawPile().AddFront(top[i])
		}
		for _, card := range bottom {
			logic.DrawPile().Add(card)
		}
		return false, nil
	}
	return s
}

// Guicai: Sima Yi may play a hand card to replace a judge card before it
// resolves.
func newGuicai() *TriggerSkill {
	s := NewTriggerSkill("guicai").On(EventAskForRetrial)
	s.triggerableFn = func(logic *GameLogic, event EventType, target *Player, data any) EventMap {
		judge, ok := data.(*JudgeInfo)
		if !ok || judge.Card == nil {
			return nil
		}
		if target == nil || !target.HasSkill(s.Name()) || target.Hand().IsEmpty() {
			return nil
		}
		return singleOption(s, target, 1)
	}
	s.onCostFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) bool {
		card := invoker.askForCard(".|.|.|hand", "replace the judge card", true)
		if card == nil {
			return false
		}
		invoker.SetTag("guicai_card", card)
		return true
	}
	s.effectFn = func(logic *GameLogic, event EventType, target *Player, data any, invoker *Player) (bool, error) {
		judge := data.(*JudgeInfo)
		card, _ := invoker.Tag("guicai_card").(*Card)
		invoker.RemoveTag("guicai_card")
		if card == nil {
			return false, nil
		}
		logic.broadcast(log.GameEvent{
			Type:   log.EventInvokeSkill,
			Player: invoker.Id(),
			Data:   map[string]any{"playerId": invoker.Id(), "skillName": s.Name()},
		})
		invoker.addSkillHistory(s.Name())

		old := judge.Card
		moves := []*CardsMove{
			{
				Cards: []*Card{card},
				From:  invoker.Hand(),
				To:    judge.Who.Judge(),
				Open:  true,
			},
			{
				Cards: []*Card{old},
				From:  judge.Who.Judge(),
				To:    logic.DiscardPile(),
				Open:  true,
			},
		}
		if err := logic.moveCards(moves); err != nil {
			return false, err
		}
		judge.Card = card
		judge.UpdateResult()
		logic.broadcastJudgeResult(judge)
		return true, nil
	}
	return s
}

// Qingguo: Zhen Ji may play any black hand card as a Jink.
func newQingguo() *ViewAsSkill {
	return NewOneCardViewAsSkill("qingguo",
		func(card *Card, self *Player, pattern string) bool {
			return pattern == "Jink" && card.Color() == Black && self.Hand().Contains(card)
		},
		func(card *Card, self *Player) *Card {
			pkg := standardBehaviors(self)
			if pkg == nil {
				return nil
			}
			return pkg.FindBehavior("Jink").VirtualClone(card)
		})
}
