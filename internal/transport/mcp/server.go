// Package mcp exposes schedules as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/sandevgo/gomibot/internal/service/dialogue"
	"github.com/sandevgo/gomibot/pkg/log"
)

type Handler struct {
	users     core.UserRepository
	schedules core.ScheduleRepository
	loc       *time.Location
	limits    dialogue.Limits
	now       func() time.Time
}

func NewHandler(
	users core.UserRepository,
	schedules core.ScheduleRepository,
	loc *time.Location,
	limits dialogue.Limits,
) *Handler {
	return &Handler{
		users:     users,
		schedules: schedules,
		loc:       loc,
		limits:    limits,
		now:       time.Now,
	}
}

// NewServer builds an MCP server with every schedule tool registered.
func NewServer(h *Handler) *server.MCPServer {
	s := server.NewMCPServer(core.AppName, core.Version, server.WithToolCapabilities(false))
	h.RegisterTools(s)
	return s
}

// Serve speaks MCP over the given streams until ctx is done.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	log.FromCtx(ctx).Info().Msg("mcp server listening on stdio")
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("list_users",
		mcp.WithDescription("List registered users with their status and reminder times."),
	), h.handleListUsers)

	s.AddTool(mcp.NewTool("list_schedule",
		mcp.WithDescription("Weekly garbage collection schedule of a user, Monday first."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Channel-qualified user id, e.g. line:U4af49806")),
	), h.handleListSchedule)

	s.AddTool(mcp.NewTool("get_day",
		mcp.WithDescription("Collection entry for one day. Accepts a weekday label (月曜日…日曜日) or 今日/明日."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Channel-qualified user id")),
		mcp.WithString("day", mcp.Required(), mcp.Description("Weekday label, 今日 or 明日")),
	), h.handleGetDay)

	s.AddTool(mcp.NewTool("update_schedule",
		mcp.WithDescription("Set the garbage type and note for one weekday. An empty garbage_type clears the day."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Channel-qualified user id")),
		mcp.WithString("day", mcp.Required(), mcp.Description("Weekday label"), mcp.Enum(weekdayLabels()...)),
		mcp.WithString("garbage_type", mcp.Required(), mcp.Description("What is collected, e.g. 燃えるごみ")),
		mcp.WithString("note", mcp.Description("Optional note shown under the garbage type")),
	), h.handleUpdateSchedule)
}

type userView struct {
	UserID      string `json:"user_id"`
	Status      string `json:"status"`
	NightTime   string `json:"night_time,omitempty"`
	MorningTime string `json:"morning_time,omitempty"`
}

type dayView struct {
	Day         string `json:"day"`
	GarbageType string `json:"garbage_type"`
	Note        string `json:"note,omitempty"`
}

func (h *Handler) handleListUsers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	users, err := h.users.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list users: %v", err)), nil
	}

	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{
			UserID:      u.ID,
			Status:      string(u.Status),
			NightTime:   u.NightTime,
			MorningTime: u.MorningTime,
		})
	}
	return jsonResult(out)
}

func (h *Handler) handleListSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, errResult := h.entries(ctx, userID)
	if errResult != nil {
		return errResult, nil
	}

	out := make([]dayView, 0, 7)
	for _, day := range calendar.All() {
		entry, _ := core.FindDay(entries, day)
		out = append(out, view(day, entry))
	}
	return jsonResult(out)
}

func (h *Handler) handleGetDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var day calendar.Weekday
	switch label {
	case core.KeywordToday, core.KeywordTodayKana:
		day = calendar.Of(h.now(), h.loc)
	case core.KeywordTomorrow, core.KeywordTomorrowKana:
		day = calendar.Tomorrow(h.now(), h.loc)
	default:
		var ok bool
		if day, ok = calendar.Parse(label); !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown day %q", label)), nil
		}
	}

	entries, errResult := h.entries(ctx, userID)
	if errResult != nil {
		return errResult, nil
	}
	entry, _ := core.FindDay(entries, day)
	return jsonResult(view(day, entry))
}

func (h *Handler) handleUpdateSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := req.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	label, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, ok := calendar.Parse(label)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown day %q", label)), nil
	}

	item := dialogue.Sanitize(req.GetString("garbage_type", ""))
	note := dialogue.Sanitize(req.GetString("note", ""))
	if n := utf8.RuneCountInString(item); n > h.limits.ItemMax {
		return mcp.NewToolResultError(fmt.Sprintf("garbage_type is %d characters, limit is %d", n, h.limits.ItemMax)), nil
	}
	if n := utf8.RuneCountInString(note); n > h.limits.NoteMax {
		return mcp.NewToolResultError(fmt.Sprintf("note is %d characters, limit is %d", n, h.limits.NoteMax)), nil
	}
	if note == "" || note == core.Unset {
		note = core.NoteNone
	}
	if item == core.Unset {
		item = ""
	}

	if _, errResult := h.entries(ctx, userID); errResult != nil {
		return errResult, nil
	}
	if err := h.schedules.Update(ctx, userID, day, item, note); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("user_id", userID).Msg("mcp: schedule update failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to update schedule: %v", err)), nil
	}

	log.FromCtx(ctx).Info().Str("user_id", userID).Str("day", day.String()).Msg("mcp: schedule updated")
	return jsonResult(view(day, core.ScheduleEntry{Day: day, GarbageType: item, Note: note}))
}

// entries loads a registered user's schedule.
func (h *Handler) entries(ctx context.Context, userID string) ([]core.ScheduleEntry, *mcp.CallToolResult) {
	if _, err := h.users.Get(ctx, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, mcp.NewToolResultError(fmt.Sprintf("user %q is not registered", userID))
		}
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to load user: %v", err))
	}

	entries, err := h.schedules.GetByUser(ctx, userID)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to load schedule: %v", err))
	}
	return entries, nil
}

func view(day calendar.Weekday, entry core.ScheduleEntry) dayView {
	v := dayView{Day: day.String(), GarbageType: entry.GarbageType}
	if entry.HasNote() {
		v.Note = entry.Note
	}
	return v
}

func weekdayLabels() []string {
	out := make([]string, 0, 7)
	for _, d := range calendar.All() {
		out = append(out, d.String())
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
