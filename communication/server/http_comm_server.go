package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"hive/communication"
	"hive/game"
	"hive/searcher"
	"hive/searcher/agent"
)

type ServerCommunicator struct {
	agent agent.Agent
	// Agents keep search state, so thinking is serialized.
	mutex sync.Mutex
	mux   *http.ServeMux
}

// NewServerCommunicator initializes and returns a new ServerCommunicator thinking with a.
func NewServerCommunicator(a agent.Agent) *ServerCommunicator {
	sc := &ServerCommunicator{agent: a, mux: http.NewServeMux()}
	sc.mux.HandleFunc("GET /state/{state}/actions", sc.handleActions)
	sc.mux.HandleFunc("GET /state/{state}/act/{action}", sc.handleAct)
	sc.mux.HandleFunc("GET /state/{state}/think", sc.handleThink)
	return sc
}

func (sc *ServerCommunicator) Handler() http.Handler {
	return sc.mux
}

// Start starts the HTTP server.
func (sc *ServerCommunicator) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting server")
	return http.ListenAndServe(addr, sc.mux)
}

func (sc *ServerCommunicator) handleActions(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, communication.ActionsResponse{Actions: communication.ActionStrings(state)})
}

func (sc *ServerCommunicator) handleAct(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}
	action, err := game.ParseAction(r.PathValue("action"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := state.ApplyChecked(action); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, communication.NewActResponse(state))
}

func (sc *ServerCommunicator) handleThink(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r)
	if !ok {
		return
	}

	sc.mutex.Lock()
	decision, err := sc.agent.FindMove(state)
	sc.mutex.Unlock()
	if err != nil {
		log.Err(err).Str("state", state.String()).Msg("think-failed")
		writeError(w, err)
		return
	}

	state.Apply(decision.Action)
	writeJSON(w, http.StatusOK, communication.ThinkResponse{
		Action:      decision.Action.String(),
		Reason:      string(decision.Reason),
		Score:       decision.Score,
		Iterations:  decision.Stats.Iterations,
		ActResponse: communication.NewActResponse(state),
	})
}

func decodeState(w http.ResponseWriter, r *http.Request) (*game.State, bool) {
	state, err := communication.DecodeState(r.PathValue("state"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return state, true
}

func writeError(w http.ResponseWriter, err error) {
	var parseErr *game.ParseError
	status := http.StatusInternalServerError
	if errors.As(err, &parseErr) || errors.Is(err, game.ErrIllegalAction) || errors.Is(err, searcher.ErrNoActions) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, communication.ErrorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}
