// Package server exposes the game over a websocket endpoint. Each
// connection gets its own session; frames in are commands, frames out are
// events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/klara-games/blockfall/engine"
	"github.com/klara-games/blockfall/internal/cache"
	"github.com/klara-games/blockfall/internal/game"
)

// Config holds the HTTP-facing settings, loaded from the environment.
type Config struct {
	Addr           string   // listen address, HTTP_ADDR
	AllowedOrigins []string // websocket origin patterns, WS_ALLOWED_ORIGINS (comma separated)
}

// LoadConfig reads the server configuration from the environment, applying
// defaults for anything unset.
func LoadConfig() Config {
	cfg := Config{
		Addr:           os.Getenv("HTTP_ADDR"),
		AllowedOrigins: nil,
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if raw := os.Getenv("WS_ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	return cfg
}

// Server accepts websocket connections and runs one session per client.
type Server struct {
	cfg   Config
	rules engine.Rules
	log   *logrus.Logger

	// seedFn provides the RNG seed for new sessions. Defaults to the wall
	// clock; tests may fix it.
	seedFn func() uint64
}

// NewServer builds a server around the given rules.
func NewServer(cfg Config, rules engine.Rules, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		cfg:    cfg,
		rules:  rules,
		log:    logger,
		seedFn: func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// Handler returns the HTTP mux: /ws for gameplay, /sessions for the action
// history, /health for liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("GET /sessions/{id}/history", s.handleHistory)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// handleHistory serves a session's recorded action stream as a JSON array.
// With no Redis configured the history is simply empty.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	records, err := cache.SessionActionHistory(r.Context(), sessionID)
	if err != nil {
		s.log.WithError(err).WithField("session", sessionID).Error("history read failed")
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []cache.SessionActionRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		s.log.WithError(err).Warn("history write failed")
	}
}

// handleWS upgrades the connection and runs the session read loop until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.AllowedOrigins,
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session terminated")

	sess := game.NewSession(s.seedFn(), s.rules, s.log)
	log := s.log.WithField("session", sess.ID)

	// Events are fanned out through a buffered channel so the session never
	// blocks on a slow client; overflow drops the frame, and the next
	// state_sync restores the client anyway.
	outbound := make(chan game.Event, 64)
	sess.BroadcastFn = func(ev game.Event) {
		select {
		case outbound <- ev:
		default:
			log.Warnf("dropping %s event, outbound buffer full", ev.Type)
		}
	}
	sess.OnSessionEnd = func(sessionID uuid.UUID, score, level, lines int) {
		log.WithFields(logrus.Fields{
			"score": score,
			"level": level,
			"lines": lines,
		}).Info("round finished")
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for ev := range outbound {
			writeCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				return
			}
		}
	}()

	log.Info("client connected")
	for {
		var cmd game.Command
		if err := wsjson.Read(r.Context(), conn, &cmd); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				log.Info("client disconnected")
			} else {
				log.WithError(err).Info("read loop ended")
			}
			break
		}
		sess.HandleCommand(cmd)
	}

	sess.Close()
	close(outbound)
	<-writerDone
	conn.Close(websocket.StatusNormalClosure, "bye")
}
