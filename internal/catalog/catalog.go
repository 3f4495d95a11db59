// Package catalog holds the user-facing message table. A Catalog is loaded once
// at startup and shared read-only.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Message identifiers.
const (
	CommonCancel   = "common.cancel"
	CommonError    = "common.error"
	CommonFallback = "common.fallback"

	EventFollowNew          = "event.followNew"
	EventFollowWelcomeBack  = "event.followWelcomeBack"
	EventFollowRejoinPrompt = "event.followRejoinPrompt"

	RegistrationSuccess = "registration.success"
	RegistrationPrompt  = "registration.prompt"

	UnregistrationSuccess      = "unregistration.success"
	UnregistrationUnsubscribed = "unregistration.unsubscribed"
	UnregistrationReactivate   = "unregistration.reactivate"

	ModificationAskItem        = "modification.askItem"
	ModificationAskNote        = "modification.askNote"
	ModificationSuccess        = "modification.success"
	ModificationSuccessTitle   = "modification.successTitle"
	ModificationSuccessAltText = "modification.successAltText"
	ModificationItemTooLong    = "modification.itemTooLong"
	ModificationNoteTooLong    = "modification.noteTooLong"
	ModificationEdit           = "modification.edit"

	QueryTodayTitle    = "query.todayTitle"
	QueryTomorrowTitle = "query.tomorrowTitle"
	QueryAltText       = "query.altText"
	QueryNotFound      = "query.notFound"
	QuerySheetEmpty    = "query.sheetEmpty"

	ReminderNightTitle      = "reminder.nightTitle"
	ReminderMorningTitle    = "reminder.morningTitle"
	ReminderNightDay        = "reminder.nightDay"
	ReminderMorningDay      = "reminder.morningDay"
	ReminderAltText         = "reminder.altText"
	ReminderSettingsTitle   = "reminder.settingsTitle"
	ReminderSettingsAltText = "reminder.settingsAltText"
	ReminderNightLabel      = "reminder.nightLabel"
	ReminderMorningLabel    = "reminder.morningLabel"
	ReminderOff             = "reminder.off"
	ReminderChange          = "reminder.change"
	ReminderClear           = "reminder.clear"
	ReminderUpdated         = "reminder.updated"
	ReminderCleared         = "reminder.cleared"
	ReminderUserNotFound    = "reminder.userNotFound"
	ReminderPickTime        = "reminder.pickTime"

	ErrorTimeout      = "error.timeout"
	ErrorUpdateFailed = "error.updateFailed"

	FlexHelpAltText     = "flex.helpAltText"
	FlexScheduleAltText = "flex.scheduleAltText"
	FlexSchedulePrompt  = "flex.schedulePrompt"

	HelpListTitle         = "help.listTitle"
	HelpListBody          = "help.listBody"
	HelpListButton        = "help.listButton"
	HelpTodayTitle        = "help.todayTitle"
	HelpTodayBody         = "help.todayBody"
	HelpTodayButton       = "help.todayButton"
	HelpTomorrowTitle     = "help.tomorrowTitle"
	HelpTomorrowBody      = "help.tomorrowBody"
	HelpTomorrowButton    = "help.tomorrowButton"
	HelpReminderTitle     = "help.reminderTitle"
	HelpReminderBody      = "help.reminderBody"
	HelpReminderButton    = "help.reminderButton"
	HelpUnsubscribeTitle  = "help.unsubscribeTitle"
	HelpUnsubscribeBody   = "help.unsubscribeBody"
	HelpUnsubscribeButton = "help.unsubscribeButton"
)

// required lists every identifier the application formats.
var required = []string{
	CommonCancel, CommonError, CommonFallback,
	EventFollowNew, EventFollowWelcomeBack, EventFollowRejoinPrompt,
	RegistrationSuccess, RegistrationPrompt,
	UnregistrationSuccess, UnregistrationUnsubscribed, UnregistrationReactivate,
	ModificationAskItem, ModificationAskNote, ModificationSuccess, ModificationSuccessTitle,
	ModificationSuccessAltText, ModificationItemTooLong, ModificationNoteTooLong,
	ModificationEdit,
	QueryTodayTitle, QueryTomorrowTitle, QueryAltText, QueryNotFound, QuerySheetEmpty,
	ReminderNightTitle, ReminderMorningTitle, ReminderNightDay, ReminderMorningDay, ReminderAltText,
	ReminderSettingsTitle, ReminderSettingsAltText, ReminderNightLabel, ReminderMorningLabel,
	ReminderOff, ReminderChange, ReminderClear, ReminderUpdated, ReminderCleared, ReminderUserNotFound, ReminderPickTime,
	ErrorTimeout, ErrorUpdateFailed,
	FlexHelpAltText, FlexScheduleAltText, FlexSchedulePrompt,
	HelpListTitle, HelpListBody, HelpListButton,
	HelpTodayTitle, HelpTodayBody, HelpTodayButton,
	HelpTomorrowTitle, HelpTomorrowBody, HelpTomorrowButton,
	HelpReminderTitle, HelpReminderBody, HelpReminderButton,
	HelpUnsubscribeTitle, HelpUnsubscribeBody, HelpUnsubscribeButton,
}

// Catalog is an immutable table of messages keyed by dotted identifier.
type Catalog struct {
	messages map[string]string
}

// Template returns the embedded catalog source, for writing an editable copy.
func Template() []byte {
	return bytes.Clone(defaultMessages)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultMessages)
}

// Load reads path as a YAML catalog layered over the embedded one.
// An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	override, err := flatten(data)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(base.messages))
	for k, v := range base.messages {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return &Catalog{messages: merged}, nil
}

// Parse builds a catalog from YAML and verifies every required identifier is present.
func Parse(data []byte) (*Catalog, error) {
	messages, err := flatten(data)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, key := range required {
		if _, ok := messages[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("catalog is missing messages: %s", strings.Join(missing, ", "))
	}

	return &Catalog{messages: messages}, nil
}

func flatten(data []byte) (map[string]string, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	out := make(map[string]string)
	var walk func(prefix string, node map[string]any) error
	walk = func(prefix string, node map[string]any) error {
		for k, v := range node {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			switch val := v.(type) {
			case string:
				out[key] = val
			case map[string]any:
				if err := walk(key, val); err != nil {
					return err
				}
			default:
				return fmt.Errorf("catalog entry %q must be a string, got %T", key, v)
			}
		}
		return nil
	}

	if err := walk("", tree); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the raw message for key, or the key itself when unknown.
func (c *Catalog) Get(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Format substitutes positional placeholders {0}, {1}, … with args.
func (c *Catalog) Format(key string, args ...any) string {
	msg := c.Get(key)
	if len(args) == 0 {
		return msg
	}

	pairs := make([]string, 0, len(args)*2)
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
