package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/hupe1980/drawboard/core"
	"github.com/hupe1980/drawboard/engine"
	"github.com/hupe1980/drawboard/hub"
	"github.com/hupe1980/drawboard/onboard"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Drawboard API. Mount frontend at / for UI.",
	})
}

// handleFavicon answers the reflexive browser request with 204 instead of a
// logged 404.
func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDiscover serves the bot entry payload: JSON with the skill document
// inline, or the human-facing explanation page when the client asks for HTML.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	base := s.baseURL(r)
	if strings.Contains(strings.ToLower(r.Header.Get("Accept")), "text/html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, onboard.DiscoveryHTML(base))
		return
	}
	s.writeJSON(w, http.StatusOK, onboard.NewDiscovery(base))
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, onboard.SkillDoc(s.baseURL(r)))
}

type drawRequest struct {
	AIName string          `json:"ai_name"`
	Action json.RawMessage `json:"action"`
}

// handleDraw appends one drawing action to the board.
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	action, err := core.ParseAction(req.Action)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	index, err := s.engine.SubmitDraw(req.AIName, action)
	if err != nil {
		if errors.Is(err, engine.ErrClearDisabled) {
			s.writeError(w, http.StatusForbidden, codeForbidden,
				"Full-canvas clear is not available. Other users may be watching the canvas.")
			return
		}
		s.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "index": index})
}

// handleCanvas returns the full event history, the same payload a WebSocket
// viewer receives in its sync frame.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"events": s.engine.Snapshot()})
}

type askRequest struct {
	Prompt     string `json:"prompt"`
	AIName     string `json:"ai_name"`
	AIProvider string `json:"ai_provider"`
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`

	// CanvasEvents optionally replaces the board history as the context the
	// generator sees. Absent or null means the full history.
	CanvasEvents []core.DrawEvent `json:"canvas_events"`
}

// handleAsk turns a natural-language prompt into drawing commands and applies
// them to the board, paced so viewers watch the picture appear.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if err := s.askLimiter.Allow(clientKey(r)); err != nil {
		s.writeError(w, http.StatusTooManyRequests, codeRateLimited, "Too many requests. Try again shortly.")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	count, err := s.engine.Ask(r.Context(), engine.AskRequest{
		Prompt:   req.Prompt,
		Name:     req.AIName,
		Provider: req.AIProvider,
		APIKey:   req.APIKey,
		Model:    req.Model,
		Events:   req.CanvasEvents,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// handleClear wipes the whole board, which on a shared canvas is normally
// rejected. SubmitDraw enforces the policy.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if _, err := s.engine.SubmitDraw(core.DefaultAuthor, core.Clear{}); err != nil {
		s.writeError(w, http.StatusForbidden, codeForbidden,
			"Full-canvas clear is not available. Other users may be watching the canvas, and wiping everyone's work at once is not allowed. Erase only what you need with white (eraser) strokes.")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

type registerRequest struct {
	Name string `json:"name"`
}

// handleRegister issues an agent identity. The response repeats the skill
// document so a bot that arrived with nothing but this URL can continue.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	reg, err := s.engine.Register(req.Name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	base := s.baseURL(r)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"agent_id":     reg.ID,
		"message":      onboard.RegisterMessage,
		"skill_md_url": base + "/skill.md",
		"skill_md":     onboard.SkillDoc(base),
	})
}

type startRequest struct {
	AIName          string `json:"ai_name"`
	AIProvider      string `json:"ai_provider"`
	APIKey          string `json:"api_key"`
	Model           string `json:"model"`
	AgentID         string `json:"agent_id"`
	OpenClawBaseURL string `json:"openclaw_base_url"`
}

// handleStart admits an autonomous drawing session, either for a registered
// agent (agent_id + gateway) or directly against a cloud provider.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.startLimiter.Allow(clientKey(r)); err != nil {
		s.writeError(w, http.StatusTooManyRequests, codeRateLimited, "Too many requests. Try again shortly.")
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	res, err := s.engine.Start(r.Context(), engine.StartRequest{
		Name:       req.AIName,
		Provider:   req.AIProvider,
		APIKey:     req.APIKey,
		Model:      req.Model,
		AgentID:    req.AgentID,
		GatewayURL: req.OpenClawBaseURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrSessionActive):
			s.writeError(w, http.StatusBadRequest, codeConflict, err.Error())
		case errors.Is(err, core.ErrAgentNotFound):
			s.writeError(w, http.StatusNotFound, codeNotFound, err.Error())
		default:
			s.writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		}
		return
	}

	base := s.baseURL(r)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":           true,
		"ai_id":        res.SessionID,
		"ai_name":      res.Name,
		"skill_md_url": base + "/skill.md",
		"skill_md":     onboard.SkillDoc(base),
	})
}

type messageRequest struct {
	AIName  string `json:"ai_name"`
	Message string `json:"message"`
}

// handleMessage leaves a directive for a running session, picked up on its
// next stroke. A miss is not an error to a bot, so it still answers 200.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if s.engine.SendDirective(req.AIName, req.Message) {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": false, "detail": "no such AI"})
}

type stopRequest struct {
	AIName string `json:"ai_name"`
	AIID   string `json:"ai_id"`
}

// handleStop removes sessions by id, or every session wearing a name.
// Idempotent: stopping nothing is still ok.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	s.engine.Stop(engine.StopRequest{SessionID: req.AIID, Name: req.AIName})
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// handleWS upgrades the connection and attaches it to the hub as a viewer.
// The first frames the viewer receives are the snapshot sync and the live
// cursor set; everything after is incremental.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		s.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := hub.NewClient(s.engine.Hub(), conn)
	s.engine.AttachViewer(client)
	client.Run()
}
