// Package web exposes the arena over HTTP as a small JSON API.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"defight/internal/arena"
	"defight/internal/combat"
	"defight/internal/equipment"
)

type Server struct {
	Arena *arena.Service
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /duels", s.handleStart)
	mux.HandleFunc("GET /duels/{id}", s.handleDuel)
	mux.HandleFunc("POST /duels/{id}/actions", s.handleAction)
	mux.HandleFunc("GET /duels/{id}/report", s.handleReport)
	mux.HandleFunc("GET /accounts/{account}/stats", s.handleStats)
	return mux
}

// POST /duels
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	var stake uint64
	if v := r.FormValue("stake"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid stake", http.StatusBadRequest)
			return
		}
		stake = n
	}
	var items []equipment.Item
	for i, extra := range r.Form["item"] {
		items = append(items, equipment.Item{TokenID: fmt.Sprintf("item-%d", i+1), Extra: extra})
	}

	rec, err := s.Arena.StartDuel(r.Context(), r.FormValue("account"), stake, items)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

// GET /duels/{id}
func (s *Server) handleDuel(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Arena.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// POST /duels/{id}/actions
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	round, err := s.Arena.MakeAction(r.Context(), r.PathValue("id"), r.FormValue("moves"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, round)
}

// GET /accounts/{account}/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Arena.AccountStats(r.Context(), r.PathValue("account"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

type errorBody struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// fail maps arena and combat errors onto status codes. Anything unexpected
// is logged and reported as a 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var wrong *combat.WrongActionsError
	var code int
	switch {
	case errors.As(err, &wrong):
		code = http.StatusBadRequest
		for _, pe := range wrong.Errors {
			body.Errors = append(body.Errors, pe.Error())
		}
	case errors.Is(err, combat.ErrTooFewActions),
		errors.Is(err, arena.ErrOwnerRequired),
		errors.Is(err, equipment.ErrInvalidExtra):
		code = http.StatusBadRequest
	case errors.Is(err, arena.ErrDuelNotFound):
		code = http.StatusNotFound
	case errors.Is(err, combat.ErrDuelDecided), errors.Is(err, arena.ErrDuelInProgress):
		code = http.StatusConflict
	default:
		code = http.StatusInternalServerError
		s.log().Error("request failed", zap.Error(err))
		body = errorBody{Error: "internal error"}
	}
	s.writeJSON(w, code, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log().Warn("write response", zap.Error(err))
	}
}

func (s *Server) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}
