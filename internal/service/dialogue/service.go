package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/catalog"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/metrics"
	"github.com/sandevgo/gomibot/internal/service/render"
	"github.com/sandevgo/gomibot/internal/service/session"
	"github.com/sandevgo/gomibot/pkg/log"
)

var ErrUnknownDay = errors.New("unknown day")

// Service drives conversations against the schedule and session stores.
type Service struct {
	schedules core.ScheduleRepository
	sessions  *session.Store
	render    *render.Formatter
	limits    Limits
}

func NewService(
	schedules core.ScheduleRepository,
	sessions *session.Store,
	formatter *render.Formatter,
	limits Limits,
) *Service {
	return &Service{
		schedules: schedules,
		sessions:  sessions,
		render:    formatter,
		limits:    limits,
	}
}

// Active reports whether the user is in the middle of a modification.
func (s *Service) Active(ctx context.Context, userID string) bool {
	_, ok := s.sessions.Get(ctx, userID)
	return ok
}

// Start opens a modification of dayLabel, replacing any previous one.
func (s *Service) Start(ctx context.Context, userID, dayLabel string) ([]core.Message, error) {
	day, ok := calendar.Parse(dayLabel)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDay, dayLabel)
	}

	logger := log.FromCtx(ctx).With().Str("user_id", userID).Str("day", day.String()).Logger()

	entries, err := s.schedules.GetByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load schedule")
		return []core.Message{s.render.Error()}, nil
	}

	entry, found := core.FindDay(entries, day)
	state := Begin(day, entry, found)

	if err := s.sessions.Put(ctx, userID, state.Session()); err != nil {
		logger.Error().Err(err).Msg("failed to store session")
		return []core.Message{s.render.Error()}, nil
	}

	metrics.DialogueOutcomes.WithLabelValues("started").Inc()
	logger.Debug().Msg("modification started")
	return []core.Message{s.render.ItemPrompt(day.String(), state.CurrentItem)}, nil
}

// Continue feeds one line of user input into the active conversation.
func (s *Service) Continue(ctx context.Context, userID, input string) []core.Message {
	logger := log.FromCtx(ctx).With().Str("user_id", userID).Logger()

	if strings.TrimSpace(input) == core.KeywordCancel {
		s.sessions.Remove(ctx, userID)
		metrics.DialogueOutcomes.WithLabelValues("cancelled").Inc()
		return []core.Message{s.render.Menu(catalog.CommonCancel)}
	}

	stored, ok := s.sessions.Get(ctx, userID)
	if !ok {
		return s.timeout(ctx, userID)
	}

	state, err := Decode(stored)
	if err != nil {
		logger.Warn().Err(err).Msg("discarding session")
		return s.timeout(ctx, userID)
	}

	next, out := Transition(state, input, s.limits)

	switch out.Kind {
	case OutputPromptNote:
		note := next.(AwaitingNote)
		if err := s.sessions.Put(ctx, userID, note.Session()); err != nil {
			logger.Error().Err(err).Msg("failed to store session")
			s.sessions.Remove(ctx, userID)
			return []core.Message{s.render.Error()}
		}
		metrics.DialogueOutcomes.WithLabelValues("item_accepted").Inc()
		return []core.Message{s.render.NotePrompt(note.CurrentNote)}

	case OutputRejected:
		metrics.DialogueOutcomes.WithLabelValues("rejected").Inc()
		return []core.Message{s.render.InputRejected(s.prompt(state), out.ErrorKey, out.Limit)}

	case OutputCancelled:
		s.sessions.Remove(ctx, userID)
		metrics.DialogueOutcomes.WithLabelValues("cancelled").Inc()
		return []core.Message{s.render.Menu(catalog.CommonCancel)}

	case OutputCommit:
		err := s.schedules.Update(ctx, userID, out.Day, out.Item, out.Note)
		s.sessions.Remove(ctx, userID)
		if err != nil {
			logger.Error().Err(err).Str("day", out.Day.String()).Msg("failed to commit schedule")
			metrics.DialogueOutcomes.WithLabelValues("commit_failed").Inc()
			return []core.Message{s.render.Menu(catalog.ErrorUpdateFailed)}
		}
		metrics.DialogueOutcomes.WithLabelValues("committed").Inc()
		logger.Info().Str("day", out.Day.String()).Msg("schedule updated")
		return []core.Message{s.render.Confirmation(out.Day.String(), out.Item, out.Note)}
	}

	return s.timeout(ctx, userID)
}

func (s *Service) prompt(state State) core.Message {
	switch st := state.(type) {
	case AwaitingItem:
		return s.render.ItemPrompt(st.Day.String(), st.CurrentItem)
	case AwaitingNote:
		return s.render.NotePrompt(st.CurrentNote)
	}
	return s.render.Error()
}

func (s *Service) timeout(ctx context.Context, userID string) []core.Message {
	s.sessions.Remove(ctx, userID)
	metrics.DialogueOutcomes.WithLabelValues("timeout").Inc()
	return []core.Message{s.render.Menu(catalog.ErrorTimeout)}
}
