package uhp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matryer/is"
	"golang.org/x/exp/rand"

	"hive/game"
	"hive/searcher"
)

func newTestSession(out *bytes.Buffer) *Session {
	options := searcher.DefaultOptions()
	options.Iterations = 50
	options.Seed = 1
	return NewSession(out, options, 1, true)
}

// run executes commands and returns the output of the last one.
func run(s *Session, out *bytes.Buffer, commands ...string) string {
	for _, c := range commands {
		out.Reset()
		s.Execute(c)
	}
	return out.String()
}

func TestInfo(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)
	is.Equal(run(s, &out, "info"), "id "+Identifier+"\n\nok\n")
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	is.Equal(run(s, &out, "newgame"), "Base;NotStarted;White[1]\nok\n")
	is.Equal(run(s, &out, "newgame Base"), "Base;NotStarted;White[1]\nok\n")

	got := run(s, &out, "newgame Base;InProgress;White[2];wS1;bG1 wS1-")
	is.Equal(got, "Base;InProgress;White[2];wS1;bG1 wS1-\nok\n")
	is.Equal(s.State().PieceCount(game.P2), 1)

	got = run(s, &out, "newgame Mosquito")
	is.True(strings.HasPrefix(got, "err "))
	is.True(strings.HasSuffix(got, "ok\n"))

	got = run(s, &out, "newgame Base;InProgress;White[2];wS1;bQ1 wS1-")
	is.True(strings.HasPrefix(got, "err illegal move"))
}

func TestPlay(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	is.Equal(run(s, &out, "play wS1"), "Base;InProgress;Black[1];wS1\nok\n")
	is.Equal(run(s, &out, "play bG1 wS1-"), "Base;InProgress;White[2];wS1;bG1 wS1-\nok\n")

	t.Run("invalid move", func(t *testing.T) {
		is := is.New(t)
		got := run(s, &out, "play wQ wS1/")
		is.True(strings.HasPrefix(got, "invalidmove "))
		is.True(strings.HasSuffix(got, "ok\n"))
		is.Equal(len(s.history), 2)
	})

	t.Run("pass is not legal while there are moves", func(t *testing.T) {
		is := is.New(t)
		got := run(s, &out, "pass")
		is.True(strings.HasPrefix(got, "invalidmove "))
	})

	t.Run("unknown command", func(t *testing.T) {
		is := is.New(t)
		is.Equal(run(s, &out, "dance"), "err invalid command \"dance\"\nok\n")
	})
}

func TestValidMoves(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	moves := strings.Split(strings.TrimSuffix(run(s, &out, "validmoves"), "\nok\n"), ";")
	is.Equal(len(moves), 4)
	is.Equal(moves[0], "wA1")

	run(s, &out, "play wS1")
	moves = strings.Split(strings.TrimSuffix(run(s, &out, "validmoves"), "\nok\n"), ";")
	is.Equal(len(moves), 24)
	seen := map[string]bool{}
	for _, m := range moves {
		is.True(!seen[m]) // move strings are unique
		seen[m] = true
	}
	is.True(seen["bA1 /wS1"])
	is.True(seen["bB1 wS1\\"])
}

func TestMoveStringRoundTrip(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewSource(3))
	for g := 0; g < 5; g++ {
		state := game.New()
		for ply := 0; ply < 60 && state.Result() == game.NoResult; ply++ {
			for _, a := range state.Actions() {
				m := MoveString(state, a)
				parsed, err := ParseMoveString(state, m)
				is.NoErr(err)
				is.Equal(parsed, a) // the move string names its action
			}
			state.Apply(state.Action(rng.Intn(state.ActionCount())))
		}
	}
}

func TestUndo(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	run(s, &out, "play wS1", "play bG1 wS1-")
	before := s.State().String()
	run(s, &out, "play wQ /wS1")
	is.Equal(len(s.history), 3)

	is.Equal(run(s, &out, "undo"), "Base;InProgress;White[2];wS1;bG1 wS1-\nok\n")
	is.Equal(s.State().String(), before)

	is.Equal(run(s, &out, "undo 2"), "Base;NotStarted;White[1]\nok\n")
	is.Equal(s.State().String(), game.New().String())

	got := run(s, &out, "undo")
	is.Equal(got, "err invalid number to undo\nok\n")
}

func TestBestMove(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	t.Run("opening", func(t *testing.T) {
		is := is.New(t)
		m := strings.TrimSuffix(run(s, &out, "bestmove depth 20"), "\nok\n")
		_, err := ParseMoveString(s.state, m)
		is.NoErr(err)
	})

	t.Run("forced win", func(t *testing.T) {
		is := is.New(t)
		state, err := game.Parse("Qbbbbaacaacbgbcgacqbdaae2")
		is.NoErr(err)
		s.state, s.history = state, []string{"x"}

		m := strings.TrimSuffix(run(s, &out, "bestmove time 00:00:01"), "\nok\n")
		a, err := ParseMoveString(state, m)
		is.NoErr(err)
		i, _ := state.WinningAction()
		is.Equal(a, state.Action(i))
	})

	t.Run("bad limits", func(t *testing.T) {
		is := is.New(t)
		is.True(strings.HasPrefix(run(s, &out, "bestmove depth x"), "err "))
		is.True(strings.HasPrefix(run(s, &out, "bestmove nodes 5"), "err "))
		is.True(strings.HasPrefix(run(s, &out, "bestmove time 1s"), "err "))
	})
}

func TestOptions(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	is.Equal(run(s, &out, "options"), "Workers;int;1;1;1;64\nIterations;int;50;100000;1;10000000\nok\n")
	is.Equal(run(s, &out, "options set Workers 4"), "Workers;int;4;1;1;64\nok\n")
	is.Equal(s.workers, 4)
	is.True(strings.HasPrefix(run(s, &out, "options get Colour"), "err "))
}

func TestRun(t *testing.T) {
	is := is.New(t)
	var out bytes.Buffer
	s := newTestSession(&out)

	err := s.Run(strings.NewReader("newgame\nplay wS1\nexit\nplay bS1 wS1/\n"))
	is.NoErr(err)
	is.True(s.Quitting())
	is.Equal(len(s.history), 1) // commands after exit are ignored
	is.True(strings.HasPrefix(out.String(), "id "+Identifier))
}
