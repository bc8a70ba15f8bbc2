package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/engine"
	"github.com/hupe1980/drawboard/generator"
	"github.com/hupe1980/drawboard/onboard"
	"github.com/stretchr/testify/assert"
)

// stalledGenerator parks stroke requests until the session stops, so sessions
// stay "running" without mutating the board mid-assertion. Compose passes
// through to the embedded mock.
type stalledGenerator struct {
	*generator.MockGenerator
}

func (stalledGenerator) NextStroke(ctx context.Context, _ generator.StrokeRequest) (*core.Stroke, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func fastConfig() engine.Config {
	cfg := engine.DefaultConfig
	cfg.StrokePointDelay = time.Millisecond
	cfg.PostStrokeDelay = time.Millisecond
	cfg.EraseCooldown = time.Millisecond
	cfg.StrictCooldown = time.Millisecond
	cfg.TransientBackoff = time.Millisecond
	cfg.EmptyStrokeDelay = time.Millisecond
	cfg.CommandDelay = time.Millisecond
	return cfg
}

// newTestServer wires mock → engine → Server → httptest and returns the live
// base URL alongside the mock for queueing behavior.
func newTestServer(t *testing.T, cfg engine.Config, optFns ...func(o *Options)) (*httptest.Server, *generator.MockGenerator) {
	t.Helper()

	mock := generator.NewMockGenerator("mock", generator.ProviderOpenAI)
	eng := engine.New(func(o *engine.Options) {
		o.Config = cfg
		o.GeneratorFactory = func(generator.Config) (generator.Generator, error) {
			return stalledGenerator{mock}, nil
		}
	})
	t.Cleanup(eng.Close)

	srv := httptest.NewServer(New(eng, optFns...).Handler())
	t.Cleanup(srv.Close)
	return srv, mock
}

func postJSON(t *testing.T, url string, body any) (int, map[string]any) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp.StatusCode, decoded
}

func getJSON(t *testing.T, url string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp, decoded
}

func TestServer_HealthAndIndex(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	for _, path := range []string{"/health", "/api/health"} {
		resp, body := getJSON(t, srv.URL+path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])
	}

	resp, body := getJSON(t, srv.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["message"], "Drawboard API")

	fav, err := http.Get(srv.URL + "/favicon.ico")
	assert.NoError(t, err)
	fav.Body.Close()
	assert.Equal(t, http.StatusNoContent, fav.StatusCode)
}

func TestServer_DiscoveryJSON(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	for _, path := range []string{"/bot", "/api"} {
		resp, body := getJSON(t, srv.URL+path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, srv.URL+"/skill.md", body["skill_md_url"])
		assert.Contains(t, body["skill_md"], srv.URL+"/api/agent/register")

		entry, ok := body["entry_point"].(map[string]any)
		assert.True(t, ok, "entry_point present")
		assert.Equal(t, "POST", entry["method"])
		assert.Equal(t, srv.URL+"/api/agent/register", entry["url"])
	}
}

func TestServer_DiscoveryHTMLForBrowsers(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/bot", nil)
	assert.NoError(t, err)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, buf.String(), "<!DOCTYPE html>")
	assert.Contains(t, buf.String(), srv.URL+"/bot")
}

func TestServer_SkillDocumentPlainText(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	for _, path := range []string{"/skill", "/skill.md"} {
		resp, err := http.Get(srv.URL + path)
		assert.NoError(t, err)
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
		assert.Contains(t, buf.String(), srv.URL+"/api/ai/start")
	}
}

func TestServer_BaseURLBehindProxy(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	_, body := getJSON(t, srv.URL+"/bot", map[string]string{
		"X-Forwarded-Proto": "https, http",
		"X-Forwarded-Host":  "board.example.com, internal",
	})
	assert.Equal(t, "https://board.example.com/skill.md", body["skill_md_url"])
}

func TestServer_PublicBaseURLOverride(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig(), WithPublicBaseURL("https://public.example/"))

	_, body := getJSON(t, srv.URL+"/bot", map[string]string{
		"X-Forwarded-Host": "ignored.example",
	})
	assert.Equal(t, "https://public.example/skill.md", body["skill_md_url"])
}

func TestServer_DrawAppendsAndIndexes(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/draw", map[string]any{
		"ai_name": "Bot",
		"action":  map[string]any{"type": "line", "x1": 100, "y1": 100, "x2": 200, "y2": 150, "color": "#ff0000", "width": 3},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(0), body["index"])

	status, body = postJSON(t, srv.URL+"/api/draw", map[string]any{
		"action": map[string]any{"type": "circle", "x": 50, "y": 60, "r": 10},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["index"])

	_, canvas := getJSON(t, srv.URL+"/api/canvas", nil)
	events, ok := canvas["events"].([]any)
	assert.True(t, ok, "events array")
	assert.Len(t, events, 2)

	first := events[0].(map[string]any)
	assert.Equal(t, "Bot", first["ai_name"])
	second := events[1].(map[string]any)
	assert.Equal(t, core.DefaultAuthor, second["ai_name"])
}

func TestServer_DrawRejectsInvalidAction(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/draw", map[string]any{
		"ai_name": "Bot",
		"action":  map[string]any{"type": "wedge"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeBadRequest, body["code"])
	assert.Contains(t, body["detail"], "wedge")

	status, body = postJSON(t, srv.URL+"/api/draw", map[string]any{
		"action": map[string]any{"type": "line", "x1": 1, "y1": 2},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["detail"], "x2")
}

func TestServer_ClearForbiddenByDefault(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/draw", map[string]any{
		"ai_name": "Bot",
		"action":  map[string]any{"type": "clear"},
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, codeForbidden, body["code"])

	status, body = postJSON(t, srv.URL+"/api/clear", map[string]any{})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, codeForbidden, body["code"])
	assert.Contains(t, body["detail"], "white")

	_, canvas := getJSON(t, srv.URL+"/api/canvas", nil)
	assert.Len(t, canvas["events"], 0)
}

func TestServer_ClearAllowedWhenEnabled(t *testing.T) {
	cfg := fastConfig()
	cfg.DisableClear = false
	srv, _ := newTestServer(t, cfg)

	status, body := postJSON(t, srv.URL+"/api/clear", map[string]any{})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])

	_, canvas := getJSON(t, srv.URL+"/api/canvas", nil)
	events := canvas["events"].([]any)
	assert.Len(t, events, 1)
	action := events[0].(map[string]any)["action"].(map[string]any)
	assert.Equal(t, "clear", action["type"])
}

func TestServer_AskAppliesCommands(t *testing.T) {
	srv, mock := newTestServer(t, fastConfig())
	mock.SetCommands(
		core.Line{X1: 10, Y1: 10, X2: 90, Y2: 90, Color: "#000000", Width: 2},
		core.Circle{X: 50, Y: 50, R: 20, Color: "#ff0000", Width: 2},
	)

	status, body := postJSON(t, srv.URL+"/api/ask", map[string]any{
		"prompt":  "draw a snowman",
		"api_key": "sk-test",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(2), body["count"])

	_, canvas := getJSON(t, srv.URL+"/api/canvas", nil)
	assert.Len(t, canvas["events"], 2)
}

func TestServer_AskPromptRequired(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/ask", map[string]any{
		"prompt":  "   ",
		"api_key": "sk-test",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeBadRequest, body["code"])
}

func TestServer_AskRateLimited(t *testing.T) {
	cfg := fastConfig()
	cfg.AskRateLimit = 2
	srv, mock := newTestServer(t, cfg)
	mock.SetCommands(core.Line{X1: 0, Y1: 0, X2: 1, Y2: 1, Color: "#000000", Width: 2})

	for i := 0; i < 2; i++ {
		status, _ := postJSON(t, srv.URL+"/api/ask", map[string]any{"prompt": "dot", "api_key": "sk-test"})
		assert.Equal(t, http.StatusOK, status)
	}

	status, body := postJSON(t, srv.URL+"/api/ask", map[string]any{"prompt": "dot", "api_key": "sk-test"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, codeRateLimited, body["code"])
	assert.Equal(t, "Too many requests. Try again shortly.", body["detail"])
}

func TestServer_RegisterStartMessageStopFlow(t *testing.T) {
	t.Setenv("OPENCLAW_BASE_URL", "")
	srv, _ := newTestServer(t, fastConfig())

	status, reg := postJSON(t, srv.URL+"/api/agent/register", map[string]any{"name": "MoltBot"})
	assert.Equal(t, http.StatusOK, status)
	agentID, _ := reg["agent_id"].(string)
	assert.NotEmpty(t, agentID)
	assert.Equal(t, onboard.RegisterMessage, reg["message"])
	assert.Equal(t, srv.URL+"/skill.md", reg["skill_md_url"])
	assert.Contains(t, reg["skill_md"], "/api/ai/start")

	// Joining without a gateway address is refused while the server has no
	// default gateway configured.
	status, body := postJSON(t, srv.URL+"/api/ai/start", map[string]any{"agent_id": agentID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeBadRequest, body["code"])
	assert.Contains(t, body["detail"], "Gateway")

	status, started := postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"agent_id":          agentID,
		"openclaw_base_url": "http://127.0.0.1:18789",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, started["ok"])
	aiID, _ := started["ai_id"].(string)
	assert.NotEmpty(t, aiID)
	assert.Equal(t, "MoltBot", started["ai_name"])
	assert.Equal(t, srv.URL+"/skill.md", started["skill_md_url"])

	status, body = postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"agent_id":          agentID,
		"openclaw_base_url": "http://127.0.0.1:18789",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeConflict, body["code"])

	status, body = postJSON(t, srv.URL+"/api/ai/message", map[string]any{
		"ai_name": "MoltBot",
		"message": "draw a red apple",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])

	status, body = postJSON(t, srv.URL+"/api/ai/stop", map[string]any{"ai_id": aiID})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])

	status, body = postJSON(t, srv.URL+"/api/ai/message", map[string]any{
		"ai_name": "MoltBot",
		"message": "anyone there?",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "no such AI", body["detail"])

	status, _ = postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"agent_id":          agentID,
		"openclaw_base_url": "http://127.0.0.1:18789",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_StartUnknownAgent(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"agent_id":          "ghost",
		"openclaw_base_url": "http://127.0.0.1:18789",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, codeNotFound, body["code"])
	assert.Contains(t, body["detail"], "register")
}

func TestServer_StartDirectProviderNeedsKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/ai/start", map[string]any{"ai_name": "Solo"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, codeBadRequest, body["code"])
	assert.Contains(t, body["detail"], "OPENAI_API_KEY")

	status, started := postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"ai_name": "Solo",
		"api_key": "sk-test",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Solo", started["ai_name"])
}

func TestServer_StartRateLimited(t *testing.T) {
	cfg := fastConfig()
	cfg.StartRateLimit = 1
	srv, _ := newTestServer(t, cfg)

	status, _ := postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"ai_name": "First",
		"api_key": "sk-test",
	})
	assert.Equal(t, http.StatusOK, status)

	// The limiter fires before the session conflict does.
	status, body := postJSON(t, srv.URL+"/api/ai/start", map[string]any{
		"ai_name": "Second",
		"api_key": "sk-test",
	})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, codeRateLimited, body["code"])
}

func TestServer_StopUnknownIsOK(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	status, body := postJSON(t, srv.URL+"/api/ai/stop", map[string]any{"ai_id": "nobody"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["ok"])
}

func TestServer_WebSocketViewer(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	syncFrame := readFrame(t, conn)
	assert.Equal(t, "sync", syncFrame["type"])
	cursorsFrame := readFrame(t, conn)
	assert.Equal(t, "cursors", cursorsFrame["type"])

	assert.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	pong := readFrame(t, conn)
	assert.Equal(t, "pong", pong["type"])

	status, _ := postJSON(t, srv.URL+"/api/draw", map[string]any{
		"ai_name": "Bot",
		"action":  map[string]any{"type": "line", "x1": 0, "y1": 0, "x2": 10, "y2": 10},
	})
	assert.Equal(t, http.StatusOK, status)

	drawFrame := readFrame(t, conn)
	assert.Equal(t, "draw", drawFrame["type"])
	event := drawFrame["event"].(map[string]any)
	assert.Equal(t, "Bot", event["ai_name"])
}

func TestServer_CORS(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig())

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/draw", nil)
	req.Header.Set("Origin", "https://viewer.example")
	resp, err := http.DefaultClient.Do(req)
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://viewer.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_CORSAllowlistRejects(t *testing.T) {
	srv, _ := newTestServer(t, fastConfig(), WithAllowedOrigins("https://allowed.example"))

	resp, body := getJSON(t, srv.URL+"/health", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, codeForbidden, body["code"])

	resp, body = getJSON(t, srv.URL+"/health", map[string]string{"Origin": "https://allowed.example"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "https://allowed.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame map[string]any
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame %q: %v", data, err)
	}
	return frame
}
