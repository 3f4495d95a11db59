package core

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserActive       UserStatus = "ACTIVE"
	UserUnsubscribed UserStatus = "UNSUBSCRIBED"
)

// Slot is one of the two daily reminder slots.
type Slot string

const (
	SlotNight   Slot = "night"
	SlotMorning Slot = "morning"
)

func Slots() []Slot {
	return []Slot{SlotNight, SlotMorning}
}

func ParseSlot(s string) (Slot, bool) {
	switch Slot(s) {
	case SlotNight, SlotMorning:
		return Slot(s), true
	}
	return "", false
}

type User struct {
	ID          string
	Status      UserStatus
	MorningTime string // HH:MM or empty
	NightTime   string // HH:MM or empty
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u User) ReminderTime(slot Slot) string {
	switch slot {
	case SlotMorning:
		return u.MorningTime
	case SlotNight:
		return u.NightTime
	}
	return ""
}

func (u User) Active() bool {
	return u.Status == UserActive
}

const (
	ChannelLINE     = "line"
	ChannelTelegram = "telegram"
	ChannelCLI      = "cli"
)

// NewUserID qualifies a transport-native id with its channel, e.g. line:U4af4980629.
func NewUserID(channel, id string) string {
	return channel + ":" + id
}

func SplitUserID(userID string) (channel, id string, ok bool) {
	channel, id, ok = strings.Cut(userID, ":")
	if !ok || channel == "" || id == "" {
		return "", "", false
	}
	return channel, id, true
}
