package game

import "time"

// RoomSettings configures one match.
type RoomSettings struct {
	Mode         string        `yaml:"mode"`
	Capacity     int           `yaml:"capacity"`
	Timeout      time.Duration `yaml:"timeout"`
	ReshuffleCap int           `yaml:"reshuffle_cap"`
}

func DefaultRoomSettings() *RoomSettings {
	return &RoomSettings{
		Mode:         "standard",
		Capacity:     8,
		Timeout:      15 * time.Second,
		ReshuffleCap: 0,
	}
}
