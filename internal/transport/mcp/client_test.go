package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/gomibot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h *Handler) *client.Client {
	t.Helper()
	ctx := context.Background()

	cli, err := client.NewInProcessClient(NewServer(h))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	require.NoError(t, cli.Start(ctx))

	req := mcpproto.InitializeRequest{}
	req.Params.ProtocolVersion = mcpproto.LATEST_PROTOCOL_VERSION
	req.Params.Capabilities = mcpproto.ClientCapabilities{}
	req.Params.ClientInfo = mcpproto.Implementation{
		Name:    core.AppName + "-test",
		Version: core.Version,
	}
	_, err = cli.Initialize(ctx, req)
	require.NoError(t, err)
	return cli
}

func TestServer_ListTools(t *testing.T) {
	cli := newClient(t, newHandler(t))

	resp, err := cli.ListTools(context.Background(), mcpproto.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range resp.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_users", "list_schedule", "get_day", "update_schedule"}, names)
}

func TestServer_UpdateThenGet(t *testing.T) {
	cli := newClient(t, newHandler(t))
	ctx := context.Background()

	update := mcpproto.CallToolRequest{}
	update.Params.Name = "update_schedule"
	update.Params.Arguments = map[string]any{
		"user_id":      userID,
		"day":          "水曜日",
		"garbage_type": "資源ごみ",
		"note":         "雨天時は翌週",
	}
	res, err := cli.CallTool(ctx, update)
	require.NoError(t, err)
	require.False(t, res.IsError)

	get := mcpproto.CallToolRequest{}
	get.Params.Name = "get_day"
	get.Params.Arguments = map[string]any{"user_id": userID, "day": "明日"}
	res, err = cli.CallTool(ctx, get)
	require.NoError(t, err)

	var v dayView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &v))
	assert.Equal(t, dayView{Day: "水曜日", GarbageType: "資源ごみ", Note: "雨天時は翌週"}, v)
}
