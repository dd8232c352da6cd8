package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/snakes-ladders/api"
	"github.com/wricardo/snakes-ladders/game/config"
	"github.com/wricardo/snakes-ladders/game/engine"
	"github.com/wricardo/snakes-ladders/game/service"
	"github.com/wricardo/snakes-ladders/game/session"
)

func newRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

// newBackedClient starts the real REST API over the shipped boards
func newBackedClient(t *testing.T, dice ...int) *Client {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"classic.yaml", "small.yaml"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "configs", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
	configs, err := config.NewManager(dir)
	require.NoError(t, err)

	var opts []service.Option
	if len(dice) > 0 {
		opts = append(opts, service.WithDieSource(engine.NewFixedDie(dice...)))
	}
	svc := service.NewGameService(session.NewManager(), configs, opts...)

	ts := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func createSession(t *testing.T, c *Client, args map[string]interface{}) string {
	t.Helper()
	result, err := c.handleCreateSession(context.Background(), newRequest("create_session", args))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	text := resultText(t, result)
	first := strings.SplitN(text, "\n", 2)[0]
	id := strings.TrimPrefix(first, "Created session: ")
	require.Len(t, id, 4, text)
	return id
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080")

	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			json.NewEncoder(w).Encode(map[string]string{"id": "ab12"})
		case "/conflict":
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{"error": "game is over", "code": 409})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	var got map[string]string
	require.NoError(t, client.apiCall(ctx, "POST", "/ok", map[string]int{"die": 3}, &got))
	assert.Equal(t, "ab12", got["id"])

	err := client.apiCall(ctx, "POST", "/conflict", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "game is over", err.Error())

	err = client.apiCall(ctx, "GET", "/broken", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_GameFlow(t *testing.T) {
	client := newBackedClient(t)
	ctx := context.Background()
	id := createSession(t, client, map[string]interface{}{"config_id": "classic"})

	// Player 1 moves 1 -> 4
	result, err := client.handleRoll(ctx, newRequest("roll", map[string]interface{}{"session_id": id, "die": float64(3)}))
	require.NoError(t, err)
	text := resultText(t, result)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "P1 rolled 3: 1 -> 4")
	assert.Contains(t, text, "Turn: player 2")

	result, err = client.handleRoll(ctx, newRequest("roll", map[string]interface{}{"session_id": id, "die": float64(9)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "die value must be between 1 and 6")

	result, err = client.handleGameState(ctx, newRequest("game_state", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "Board: classic (10x10, finish at 100)")
	assert.Contains(t, text, "P1 (human): 4 | P2 (human): 1")
	// Bottom row of the classic board: player 2 on 1, player 1 on 4
	assert.Contains(t, text, "2..1......\n")

	result, err = client.handleRollHistory(ctx, newRequest("roll_history", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "Total: 1")
	assert.Contains(t, text, "#1 P1 (human) rolled 3: 1 -> 4 [moved]")

	result, err = client.handleReset(ctx, newRequest("reset_game", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "P1 (human): 1 | P2 (human): 1")

	result, err = client.handleAcknowledge(ctx, newRequest("acknowledge", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "nothing to acknowledge after reset")
}

func TestClient_VsComputer(t *testing.T) {
	client := newBackedClient(t, 2)
	ctx := context.Background()
	id := createSession(t, client, map[string]interface{}{"config_id": "small", "mode": "vs_computer"})

	// Human 1 -> 2; computer rolls 2 and climbs the ladder at 3 to 15
	result, err := client.handleRoll(ctx, newRequest("roll", map[string]interface{}{"session_id": id, "die": float64(1)}))
	require.NoError(t, err)
	text := resultText(t, result)
	require.False(t, result.IsError, text)
	assert.Contains(t, text, "computer: P2 rolled 2: 1 -> 3, ladder up to 15")
	assert.Contains(t, text, "Turn: player 1")

	result, err = client.handleSetMode(ctx, newRequest("set_mode", map[string]interface{}{"session_id": id, "mode": "two_player"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "P2 (human)")

	result, err = client.handleSetPlayerKind(ctx, newRequest("set_player_kind", map[string]interface{}{
		"session_id": id, "player": float64(1), "kind": "computer",
	}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "Player 1 is now computer")
	// Player 1 was up, so the computer plays their turn at once
	assert.Contains(t, text, "computer: P1 rolled 2: 2 -> 4")
	assert.Contains(t, text, "Turn: player 2")

	result, err = client.handleSetPlayerKind(ctx, newRequest("set_player_kind", map[string]interface{}{
		"session_id": id, "player": float64(3), "kind": "human",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClient_DescribeCell(t *testing.T) {
	client := newBackedClient(t)
	ctx := context.Background()
	id := createSession(t, client, nil)

	tests := []struct {
		cell float64
		want string
	}{
		{20, "ladder - landing here climbs to 58"},
		{99, "snake - landing here slides to 76"},
		{1, "Type: start"},
		{100, "finish - must be reached exactly"},
		{50, "Type: plain"},
	}
	for _, tt := range tests {
		result, err := client.handleDescribeCell(ctx, newRequest("describe_cell", map[string]interface{}{"session_id": id, "cell": tt.cell}))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), tt.want)
	}

	result, err := client.handleDescribeCell(ctx, newRequest("describe_cell", map[string]interface{}{"session_id": id, "cell": float64(101)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClient_SessionsAndConfigs(t *testing.T) {
	client := newBackedClient(t)
	ctx := context.Background()

	result, err := client.handleListSessions(ctx, newRequest("list_sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, "No active sessions", resultText(t, result))

	id := createSession(t, client, map[string]interface{}{"config_id": "small"})

	result, err = client.handleListSessions(ctx, newRequest("list_sessions", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), id)

	result, err = client.handleGetSession(ctx, newRequest("get_session", map[string]interface{}{"session_id": id}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Board: small")

	result, err = client.handleGetSession(ctx, newRequest("get_session", map[string]interface{}{"session_id": "zzzz"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = client.handleGetSession(ctx, newRequest("get_session", map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "session_id is required")

	result, err = client.handleListConfigs(ctx, newRequest("list_configs", nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "classic")
	assert.Contains(t, text, "Grid: 6x6, Cells: 36, Snakes: 3, Ladders: 3")

	result, err = client.handleCreateSession(ctx, newRequest("create_session", map[string]interface{}{"config_id": "nowhere"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClient_GameInstructions(t *testing.T) {
	client := NewClient("http://unused")
	result, err := client.handleGameInstructions(context.Background(), newRequest("game_instructions", nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Three 6s in a row")
	assert.Contains(t, text, "exactly")
}

func TestFormatBoard(t *testing.T) {
	board := &engine.BoardConfig{
		Name:    "t",
		Size:    3,
		WinRule: engine.WinRuleExact,
		Snakes:  map[int]int{8: 2},
		Ladders: map[int]int{4: 6},
	}
	state := engine.NewGameState(board, nil)
	state.Players[engine.Player2].Position = 5

	// Rows top to bottom: 7 8 9 / 6 5 4 / 1 2 3
	assert.Equal(t, ".S.\n.2L\n1..\n", formatBoard(board, state))

	state.Players[engine.Player2].Position = 1
	assert.Equal(t, "B..", strings.Split(formatBoard(board, state), "\n")[2])
}

func TestFormatOutcome(t *testing.T) {
	tests := []struct {
		outcome *engine.TurnOutcome
		want    string
	}{
		{&engine.TurnOutcome{Kind: engine.Moved, Player: 1, Die: 3, From: 1, FinalPosition: 4}, "P1 rolled 3: 1 -> 4"},
		{&engine.TurnOutcome{Kind: engine.HazardTriggered, Player: 2, Die: 1, From: 98, Landed: 99, FinalPosition: 76}, "P2 rolled 1: 98 -> 99, snake down to 76"},
		{&engine.TurnOutcome{Kind: engine.BonusRoll, Player: 1, Die: 6, FinalPosition: 20, SixesInARow: 1}, "P1 rolled 6: now on 20, rolls again (1 six(es) in a row)"},
		{&engine.TurnOutcome{Kind: engine.Forfeited, Player: 1, Die: 6, FinalPosition: 14}, "P1 rolled a third 6: turn forfeited, back to 14"},
		{&engine.TurnOutcome{Kind: engine.RejectedOvershoot, Player: 2, Die: 5, FinalPosition: 97}, "P2 rolled 5: overshoots the finish, stays on 97"},
		{&engine.TurnOutcome{Kind: engine.Win, Player: 1, Die: 4, FinalPosition: 100}, "P1 rolled 4: reaches 100 and WINS"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatOutcome(tt.outcome))
	}
	assert.Empty(t, formatOutcome(nil))
}
