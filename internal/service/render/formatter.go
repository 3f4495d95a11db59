// Package render turns domain values into channel-neutral messages using the
// message catalog.
package render

import (
	"strings"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/core"
)

type Formatter struct {
	cat *catalog.Catalog
}

func NewFormatter(cat *catalog.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

func (f *Formatter) Catalog() *catalog.Catalog {
	return f.cat
}

// Text is a plain message from the catalog.
func (f *Formatter) Text(key string, args ...any) core.Message {
	return core.Message{Type: core.MessageText, Text: f.cat.Format(key, args...)}
}

// Menu is a catalog message with the main menu attached as quick replies.
func (f *Formatter) Menu(key string, args ...any) core.Message {
	msg := f.Text(key, args...)
	msg.QuickReplies = menuReplies()
	return msg
}

func (f *Formatter) Error() core.Message {
	return f.Text(catalog.CommonError)
}

func (f *Formatter) ItemPrompt(day, currentItem string) core.Message {
	msg := f.Text(catalog.ModificationAskItem, day, currentItem)
	msg.QuickReplies = []core.Action{
		say(core.KeywordSkip),
		say(core.KeywordCancel),
	}
	return msg
}

func (f *Formatter) NotePrompt(currentNote string) core.Message {
	msg := f.Text(catalog.ModificationAskNote, currentNote)
	msg.QuickReplies = []core.Action{
		say(core.KeywordSkip),
		say(core.KeywordNone),
		say(core.KeywordCancel),
	}
	return msg
}

// InputRejected repeats a prompt with the validation error in front of it.
func (f *Formatter) InputRejected(prompt core.Message, errKey string, limit int) core.Message {
	prompt.Text = f.cat.Format(errKey, limit) + "\n\n" + prompt.Text
	return prompt
}

// Confirmation summarizes a committed modification.
func (f *Formatter) Confirmation(day, item, note string) core.Message {
	card := core.Card{
		Title:    f.cat.Get(catalog.ModificationSuccessTitle),
		Subtitle: day,
		Body:     DisplayItem(item),
		Tone:     core.ToneSuccess,
	}
	if HasNote(note) {
		card.Note = note
	}

	return core.Message{
		Type:         core.MessageCard,
		AltText:      f.cat.Format(catalog.ModificationSuccessAltText, day, DisplayItem(item)),
		Text:         f.cat.Format(catalog.ModificationSuccess, day, DisplayItem(item), DisplayNote(note)),
		Cards:        []core.Card{card},
		QuickReplies: menuReplies(),
	}
}

// DayCard answers a today or tomorrow query.
func (f *Formatter) DayCard(titleKey string, day calendar.Weekday, entry core.ScheduleEntry) core.Message {
	card := entryCard(f.cat.Get(titleKey), day, entry)
	card.Tone = core.TonePrimary
	card.Buttons = []core.Action{editAction(f.cat.Get(catalog.ModificationEdit), day)}

	return core.Message{
		Type:         core.MessageCard,
		AltText:      f.cat.Format(catalog.QueryAltText, day, DisplayItem(entry.GarbageType)),
		Cards:        []core.Card{card},
		QuickReplies: menuReplies(),
	}
}

// Schedule lists the week as tappable cards followed by an edit hint.
func (f *Formatter) Schedule(entries []core.ScheduleEntry) []core.Message {
	cards := make([]core.Card, 0, 7)
	for _, day := range calendar.All() {
		entry, _ := core.FindDay(entries, day)
		card := entryCard(day.String(), day, entry)
		card.Compact = true
		tap := editAction(day.String(), day)
		card.Tap = &tap
		cards = append(cards, card)
	}

	return []core.Message{
		{
			Type:    core.MessageCarousel,
			AltText: f.cat.Get(catalog.FlexScheduleAltText),
			Cards:   cards,
		},
		f.Menu(catalog.FlexSchedulePrompt),
	}
}

func (f *Formatter) Help() core.Message {
	card := func(title, body, button, keyword string) core.Card {
		return core.Card{
			Title:   f.cat.Get(title),
			Body:    f.cat.Get(body),
			Buttons: []core.Action{{Type: core.ActionMessage, Label: f.cat.Get(button), Text: keyword}},
		}
	}

	return core.Message{
		Type:    core.MessageCarousel,
		AltText: f.cat.Get(catalog.FlexHelpAltText),
		Cards: []core.Card{
			card(catalog.HelpListTitle, catalog.HelpListBody, catalog.HelpListButton, core.KeywordList),
			card(catalog.HelpTodayTitle, catalog.HelpTodayBody, catalog.HelpTodayButton, core.KeywordToday),
			card(catalog.HelpTomorrowTitle, catalog.HelpTomorrowBody, catalog.HelpTomorrowButton, core.KeywordTomorrow),
			card(catalog.HelpReminderTitle, catalog.HelpReminderBody, catalog.HelpReminderButton, core.KeywordReminder),
			card(catalog.HelpUnsubscribeTitle, catalog.HelpUnsubscribeBody, catalog.HelpUnsubscribeButton, core.KeywordUnsubscribe),
		},
		QuickReplies: menuReplies(),
	}
}

// ReminderSettings shows both slots with time pickers.
func (f *Formatter) ReminderSettings(u core.User) core.Message {
	line := func(labelKey, hhmm string) string {
		if hhmm == "" {
			hhmm = f.cat.Get(catalog.ReminderOff)
		}
		return f.cat.Get(labelKey) + "：" + hhmm
	}

	var buttons []core.Action
	for _, slot := range core.Slots() {
		label := f.SlotLabel(slot)
		initial := u.ReminderTime(slot)
		if initial == "" {
			initial = defaultReminderTime(slot)
		}
		buttons = append(buttons, core.Action{
			Type:    core.ActionTimePicker,
			Label:   label + " " + f.cat.Get(catalog.ReminderChange),
			Data:    core.EncodePostback(core.PostbackSetReminder, "slot", string(slot)),
			Initial: initial,
		})
		if u.ReminderTime(slot) != "" {
			buttons = append(buttons, core.Action{
				Type:  core.ActionPostback,
				Label: label + " " + f.cat.Get(catalog.ReminderClear),
				Data:  core.EncodePostback(core.PostbackClearReminder, "slot", string(slot)),
			})
		}
	}

	return core.Message{
		Type:    core.MessageCard,
		AltText: f.cat.Get(catalog.ReminderSettingsAltText),
		Cards: []core.Card{{
			Title: f.cat.Get(catalog.ReminderSettingsTitle),
			Body: strings.Join([]string{
				line(catalog.ReminderNightLabel, u.NightTime),
				line(catalog.ReminderMorningLabel, u.MorningTime),
			}, "\n"),
			Buttons: buttons,
		}},
		QuickReplies: menuReplies(),
	}
}

func (f *Formatter) SlotLabel(slot core.Slot) string {
	if slot == core.SlotMorning {
		return f.cat.Get(catalog.ReminderMorningLabel)
	}
	return f.cat.Get(catalog.ReminderNightLabel)
}

// Reminder is the pushed notification for one slot.
func (f *Formatter) Reminder(slot core.Slot, day calendar.Weekday, entry core.ScheduleEntry) core.Message {
	titleKey, dayKey := catalog.ReminderNightTitle, catalog.ReminderNightDay
	if slot == core.SlotMorning {
		titleKey, dayKey = catalog.ReminderMorningTitle, catalog.ReminderMorningDay
	}

	card := entryCard(f.cat.Get(titleKey), day, entry)
	card.Subtitle = f.cat.Format(dayKey, day)
	card.Tone = core.TonePrimary

	return core.Message{
		Type:    core.MessageCard,
		AltText: f.cat.Format(catalog.ReminderAltText, day, DisplayItem(entry.GarbageType)),
		Cards:   []core.Card{card},
	}
}

// RegisterPrompt asks an unknown user to register.
func (f *Formatter) RegisterPrompt(key string) core.Message {
	msg := f.Text(key)
	msg.QuickReplies = []core.Action{say(core.KeywordRegister)}
	return msg
}

// ReactivatePrompt asks an unsubscribed user to come back.
func (f *Formatter) ReactivatePrompt(key string) core.Message {
	msg := f.Text(key)
	msg.QuickReplies = []core.Action{say(core.KeywordReactivate)}
	return msg
}

// DisplayItem maps a stored garbage type to its displayed form.
func DisplayItem(item string) string {
	if strings.TrimSpace(item) == "" {
		return core.Unset
	}
	return item
}

// DisplayNote maps a stored note to its displayed form.
func DisplayNote(note string) string {
	if !HasNote(note) {
		return core.Unset
	}
	return note
}

func HasNote(note string) bool {
	n := strings.TrimSpace(note)
	return n != "" && n != core.NoteNone && n != core.Unset
}

func entryCard(title string, day calendar.Weekday, entry core.ScheduleEntry) core.Card {
	card := core.Card{
		Title:    title,
		Subtitle: day.String(),
		Body:     DisplayItem(entry.GarbageType),
	}
	if entry.HasNote() {
		card.Note = entry.Note
	}
	if entry.GarbageType == "" {
		card.Tone = core.ToneMuted
	}
	return card
}

func editAction(label string, day calendar.Weekday) core.Action {
	return core.Action{
		Type:  core.ActionPostback,
		Label: label,
		Data:  core.EncodePostback(core.PostbackStartChange, "day", day.String()),
	}
}

func say(text string) core.Action {
	return core.Action{Type: core.ActionMessage, Label: text, Text: text}
}

func menuReplies() []core.Action {
	return []core.Action{
		say(core.KeywordList),
		say(core.KeywordToday),
		say(core.KeywordTomorrow),
		say(core.KeywordHelp),
	}
}

func defaultReminderTime(slot core.Slot) string {
	if slot == core.SlotMorning {
		return "07:00"
	}
	return "21:00"
}
