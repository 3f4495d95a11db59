// Package dialogue runs the two-step conversation that edits one weekday of a
// user's schedule.
package dialogue

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/core"
)

var ErrCorruptSession = errors.New("corrupt session")

// Limits bound user input, counted in runes.
type Limits struct {
	ItemMax int
	NoteMax int
}

// State is one step of the conversation.
type State interface {
	Session() core.Session
}

type AwaitingItem struct {
	Day         calendar.Weekday
	CurrentItem string
	CurrentNote string
}

type AwaitingNote struct {
	Day         calendar.Weekday
	CurrentItem string
	CurrentNote string
	NewItem     *string
}

func (s AwaitingItem) Session() core.Session {
	return core.Session{
		Step:        core.StepAwaitingItem,
		Day:         s.Day.String(),
		CurrentItem: s.CurrentItem,
		CurrentNote: s.CurrentNote,
	}
}

func (s AwaitingNote) Session() core.Session {
	return core.Session{
		Step:        core.StepAwaitingNote,
		Day:         s.Day.String(),
		CurrentItem: s.CurrentItem,
		CurrentNote: s.CurrentNote,
		NewItem:     s.NewItem,
	}
}

// Decode restores a state from its stored form.
func Decode(sess core.Session) (State, error) {
	day, ok := calendar.Parse(sess.Day)
	if !ok {
		return nil, fmt.Errorf("%w: unknown day %q", ErrCorruptSession, sess.Day)
	}

	switch sess.Step {
	case core.StepAwaitingItem:
		return AwaitingItem{Day: day, CurrentItem: sess.CurrentItem, CurrentNote: sess.CurrentNote}, nil
	case core.StepAwaitingNote:
		return AwaitingNote{Day: day, CurrentItem: sess.CurrentItem, CurrentNote: sess.CurrentNote, NewItem: sess.NewItem}, nil
	default:
		return nil, fmt.Errorf("%w: unknown step %q", ErrCorruptSession, sess.Step)
	}
}

// Begin builds the first state for day from the stored entry, if any.
func Begin(day calendar.Weekday, entry core.ScheduleEntry, found bool) AwaitingItem {
	s := AwaitingItem{Day: day, CurrentItem: core.Unset, CurrentNote: core.Unset}
	if !found {
		return s
	}
	if strings.TrimSpace(entry.GarbageType) != "" {
		s.CurrentItem = entry.GarbageType
	}
	if entry.HasNote() {
		s.CurrentNote = entry.Note
	}
	return s
}

type OutputKind int

const (
	// OutputPromptNote asks for the note after an accepted item.
	OutputPromptNote OutputKind = iota
	// OutputRejected repeats the current prompt with a validation error.
	OutputRejected
	OutputCancelled
	OutputCommit
)

// Output describes the effect of one transition.
type Output struct {
	Kind OutputKind

	// OutputRejected
	ErrorKey string
	Limit    int

	// OutputCommit
	Day  calendar.Weekday
	Item string
	Note string
}

// Transition applies one user input. A nil next state ends the conversation.
func Transition(state State, input string, limits Limits) (State, Output) {
	input = strings.TrimSpace(input)

	if input == core.KeywordCancel {
		return nil, Output{Kind: OutputCancelled}
	}

	switch s := state.(type) {
	case AwaitingItem:
		return onItem(s, input, limits)
	case AwaitingNote:
		return onNote(s, input, limits)
	}
	panic(fmt.Sprintf("dialogue: unexpected state %T", state))
}

func onItem(s AwaitingItem, input string, limits Limits) (State, Output) {
	next := AwaitingNote{Day: s.Day, CurrentItem: s.CurrentItem, CurrentNote: s.CurrentNote}

	if input == "" || input == core.KeywordSkip {
		return next, Output{Kind: OutputPromptNote}
	}

	if utf8.RuneCountInString(input) > limits.ItemMax {
		return s, Output{Kind: OutputRejected, ErrorKey: catalog.ModificationItemTooLong, Limit: limits.ItemMax}
	}

	next.NewItem = &input
	return next, Output{Kind: OutputPromptNote}
}

func onNote(s AwaitingNote, input string, limits Limits) (State, Output) {
	var note string
	switch input {
	case "", core.KeywordSkip:
		note = s.CurrentNote
	case core.KeywordNone:
		note = core.NoteNone
	default:
		if utf8.RuneCountInString(input) > limits.NoteMax {
			return s, Output{Kind: OutputRejected, ErrorKey: catalog.ModificationNoteTooLong, Limit: limits.NoteMax}
		}
		note = input
	}

	item := s.CurrentItem
	if s.NewItem != nil {
		item = *s.NewItem
	}

	return nil, Output{
		Kind: OutputCommit,
		Day:  s.Day,
		Item: storedItem(Sanitize(item)),
		Note: storedNote(Sanitize(note)),
	}
}

func storedItem(item string) string {
	if item == core.Unset {
		return ""
	}
	return item
}

func storedNote(note string) string {
	if note == "" || note == core.Unset {
		return core.NoteNone
	}
	return note
}
