package net

import "encoding/json"

// Message is the wire envelope. Events flow server-to-client unprompted;
// requests expect a reply carrying the same sequence number.
type Message struct {
	Type string          `json:"type"`
	Seq  int             `json:"seq,omitempty"`
	Name string          `json:"name,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	MessageEvent   = "event"
	MessageRequest = "request"
	MessageReply   = "reply"
)

// Request names, one per prompt kind.
const (
	RequestTriggerOrder     = "TriggerOrder"
	RequestAskForCard       = "AskForCard"
	RequestChoosePlayerCard = "ChoosePlayerCard"
	RequestUseCard          = "UseCard"
	RequestArrangeCard      = "ArrangeCard"
	RequestAskForOption     = "AskForOption"
	RequestChooseGeneral    = "ChooseGeneral"
	RequestTakeAmazingGrace = "TakeAmazingGrace"
)

// TriggerOrderPayload lists pending options by handler name and secondary
// targets.
type TriggerOrderPayload struct {
	Options    []TriggerOption `json:"options"`
	Cancelable bool            `json:"cancelable"`
}

type TriggerOption struct {
	Skill string `json:"skill"`
	To    []uint `json:"to,omitempty"`
}

type TriggerOrderReply struct {
	Index int `json:"index"`
}

type CardPromptPayload struct {
	Pattern  string `json:"pattern"`
	Message  string `json:"message"`
	Optional bool   `json:"optional"`
	MinNum   int    `json:"minNum,omitempty"`
	MaxNum   int    `json:"maxNum,omitempty"`
}

type CardReplyPayload struct {
	CardIds []uint `json:"cardId,omitempty"`
	Skill   string `json:"skill,omitempty"`
}

type ChoosePlayerCardPayload struct {
	OwnerId uint     `json:"ownerId"`
	Areas   []string `json:"areas"`
}

type ChooseCardReply struct {
	CardId uint `json:"cardId"`
}

// UseCardReply doubles as the Play-phase action reply.
type UseCardReply struct {
	CardId   uint   `json:"cardId,omitempty"`
	CardIds  []uint `json:"cardIds,omitempty"`
	Skill    string `json:"skill,omitempty"`
	To       []uint `json:"to,omitempty"`
	Recast   bool   `json:"recast,omitempty"`
	EndPhase bool   `json:"endPhase,omitempty"`
}

type ArrangeCardPayload struct {
	CardIds    []uint `json:"cardId"`
	Capacities []int  `json:"capacities"`
}

type ArrangeCardReply struct {
	Groups [][]uint `json:"groups"`
}

type OptionPayload struct {
	Options []string `json:"options"`
}

type OptionReply struct {
	Index int `json:"index"`
}

type ChooseGeneralPayload struct {
	Candidates []GeneralInfo `json:"candidates"`
	Num        int           `json:"num"`
}

type GeneralInfo struct {
	Id      uint   `json:"id"`
	Name    string `json:"name"`
	Kingdom string `json:"kingdom"`
	MaxHp   int    `json:"maxHp"`
}

type ChooseGeneralReply struct {
	GeneralIds []uint `json:"generalId"`
}

type AmazingGracePayload struct {
	CardIds []uint `json:"cardId"`
}
