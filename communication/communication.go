package communication

import (
	"fmt"

	"github.com/samber/lo"

	"hive/game"
)

// EmptyState stands for the starting position in URLs.
const EmptyState = "~"

type ActionsResponse struct {
	Actions []string `json:"actions"`
}

type ActResponse struct {
	State   string   `json:"state"`
	Result  string   `json:"result"`
	Actions []string `json:"actions"`
}

type ThinkResponse struct {
	Action     string  `json:"action"`
	Reason     string  `json:"reason"`
	Score      float64 `json:"score"`
	Iterations int     `json:"iterations"`
	ActResponse
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// DecodeState parses a state as it appears in a URL. The state is normalized, so action strings always
// refer to the coordinates of its canonical form.
func DecodeState(s string) (*game.State, error) {
	if s == EmptyState {
		return game.New(), nil
	}
	state, err := game.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	return state.Normalize(), nil
}

// EncodeState formats a state for a URL.
func EncodeState(state *game.State) string {
	if state.PieceCount(game.P1)+state.PieceCount(game.P2) == 0 && state.Turn() == game.P1 {
		return EmptyState
	}
	return state.String()
}

func ActionStrings(state *game.State) []string {
	return lo.Map(state.Actions(), func(a game.Action, _ int) string { return a.String() })
}

func NewActResponse(state *game.State) ActResponse {
	state = state.Normalize()
	return ActResponse{
		State:   state.String(),
		Result:  state.Result().String(),
		Actions: ActionStrings(state),
	}
}
