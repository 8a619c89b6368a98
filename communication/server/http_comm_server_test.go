package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"hive/communication"
	"hive/game"
	"hive/searcher"
	"hive/searcher/agent"
)

func newTestServer() *ServerCommunicator {
	options := searcher.DefaultOptions()
	options.Iterations = 50
	options.Seed = 1
	return NewServerCommunicator(agent.NewEvaluationAgent(options))
}

func get(t *testing.T, sc *ServerCommunicator, path string, v any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	sc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
	return rec.Code
}

func TestActions(t *testing.T) {
	sc := newTestServer()

	t.Run("empty state", func(t *testing.T) {
		var resp communication.ActionsResponse
		require.Equal(t, http.StatusOK, get(t, sc, "/state/~/actions", &resp))
		require.Len(t, resp.Actions, 4)
	})

	t.Run("bad state", func(t *testing.T) {
		var resp communication.ErrorResponse
		require.Equal(t, http.StatusUnprocessableEntity, get(t, sc, "/state/Xaa1/actions", &resp))
		require.NotEmpty(t, resp.Detail)
	})
}

func TestAct(t *testing.T) {
	sc := newTestServer()

	t.Run("applies a legal action", func(t *testing.T) {
		var actions communication.ActionsResponse
		get(t, sc, "/state/~/actions", &actions)

		var resp communication.ActResponse
		require.Equal(t, http.StatusOK, get(t, sc, "/state/~/act/"+actions.Actions[0], &resp))
		require.Equal(t, "2", resp.State[len(resp.State)-1:])
		require.Len(t, resp.Actions, 24)
		require.Equal(t, "none", resp.Result)

		var again communication.ActionsResponse
		require.Equal(t, http.StatusOK, get(t, sc, "/state/"+resp.State+"/actions", &again))
		require.Equal(t, again.Actions, resp.Actions, "Listed actions should refer to the returned state")
	})

	t.Run("every listed action of an edge state applies", func(t *testing.T) {
		var actions communication.ActionsResponse
		require.Equal(t, http.StatusOK, get(t, sc, "/state/QabaacsadqbaAbbsbdacaadagdb1/actions", &actions))
		require.NotEmpty(t, actions.Actions)
		for _, a := range actions.Actions {
			_, err := game.ParseAction(a)
			require.NoError(t, err)

			var resp communication.ActResponse
			require.Equal(t, http.StatusOK, get(t, sc, "/state/QabaacsadqbaAbbsbdacaadagdb1/act/"+a, &resp), "Action %s should apply", a)
		}
	})

	t.Run("rejects an illegal action", func(t *testing.T) {
		var resp communication.ErrorResponse
		require.Equal(t, http.StatusUnprocessableEntity, get(t, sc, "/state/~/act/aabb", &resp))
	})
}

func TestThink(t *testing.T) {
	sc := newTestServer()

	t.Run("forced win", func(t *testing.T) {
		var resp communication.ThinkResponse
		require.Equal(t, http.StatusOK, get(t, sc, "/state/Qbbbbaacaacbgbcgacqbdaae2/think", &resp))
		require.Equal(t, string(agent.ReasonWin), resp.Reason)
		require.Equal(t, "p2 win", resp.Result)
		require.Empty(t, resp.Actions)
	})

	t.Run("search", func(t *testing.T) {
		var resp communication.ThinkResponse
		require.Equal(t, http.StatusOK, get(t, sc, "/state/Qaaqba1/think", &resp))
		require.Equal(t, string(agent.ReasonMCTS), resp.Reason)
		require.Equal(t, 50, resp.Iterations)
		require.NotEmpty(t, resp.Actions)
	})
}
