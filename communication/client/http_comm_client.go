package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"hive/communication"
	"hive/game"
	"hive/searcher/agent"
)

// ClientCommunicator talks to a remote server and doubles as an agent that thinks remotely.
type ClientCommunicator struct {
	serverURL string
	client    *http.Client
}

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string, timeout time.Duration) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL: serverURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (cc *ClientCommunicator) Actions(state *game.State) ([]string, error) {
	var resp communication.ActionsResponse
	if err := cc.get(&resp, "state", communication.EncodeState(state), "actions"); err != nil {
		return nil, err
	}
	return resp.Actions, nil
}

// Act applies action, given in the coordinates of state, remotely. The returned state is normalized.
func (cc *ClientCommunicator) Act(state *game.State, action game.Action) (*game.State, error) {
	var resp communication.ActResponse
	if err := cc.get(&resp, "state", communication.EncodeState(state), "act", state.NormalizeAction(action).String()); err != nil {
		return nil, err
	}
	return communication.DecodeState(resp.State)
}

func (cc *ClientCommunicator) FindMove(state *game.State) (agent.Decision, error) {
	var resp communication.ThinkResponse
	if err := cc.get(&resp, "state", communication.EncodeState(state), "think"); err != nil {
		return agent.Decision{}, err
	}
	action, err := game.ParseAction(resp.Action)
	if err != nil {
		return agent.Decision{}, fmt.Errorf("server returned a bad action: %w", err)
	}
	// The server answers in normalized coordinates.
	dq, dr := state.NormalOffset()
	action = action.Translate(-dq, -dr)
	return agent.Decision{Action: action, Reason: agent.ReasonRemote, Score: resp.Score}, nil
}

func (cc *ClientCommunicator) get(v any, segments ...string) error {
	path, err := url.JoinPath(cc.serverURL, segments...)
	if err != nil {
		return fmt.Errorf("failed to build request url: %w", err)
	}
	resp, err := cc.client.Get(path)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, e.Detail)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
