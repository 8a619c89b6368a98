package uhp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"hive/game"
	"hive/searcher"
	"hive/searcher/agent"
)

const Identifier = "Zoe v1.1"

const gameType = "Base"

var (
	errGameOver = errors.New("game is over")
	errNoGame   = errors.New("invalid game string")
)

// Session is one UHP conversation: it keeps the game being played and answers commands line by line.
type Session struct {
	out     io.Writer
	options searcher.Options
	workers int
	book    bool

	state    *game.State
	history  []string
	quitting bool
}

func NewSession(out io.Writer, options searcher.Options, workers int, book bool) *Session {
	return &Session{
		out:     out,
		options: options,
		workers: max(workers, 1),
		book:    book,
		state:   game.New(),
	}
}

// Run answers commands from in until it is exhausted or exit is received.
func (s *Session) Run(in io.Reader) error {
	s.Execute("info")
	scanner := bufio.NewScanner(in)
	for !s.quitting {
		if !scanner.Scan() {
			break // Exit loop if input ends
		}
		s.Execute(scanner.Text())
	}
	return scanner.Err()
}

func (s *Session) Quitting() bool {
	return s.quitting
}

// Execute runs a single command line and writes its response, terminated by "ok".
func (s *Session) Execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	cmd, args, _ := strings.Cut(line, " ")
	log.Debug().Str("cmd", cmd).Str("args", args).Msg("uhp-command")

	err := s.processCommand(cmd, strings.TrimSpace(args))
	if s.quitting {
		return
	}
	if errors.Is(err, ErrInvalidMove) {
		s.println("invalidmove", err.Error())
	} else if err != nil {
		s.println("err", err.Error())
	}
	s.println("ok")
}

func (s *Session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Session) processCommand(cmd, args string) error {
	switch cmd {
	case "info":
		s.println("id", Identifier)
		s.println()
	case "newgame":
		return s.newGame(args)
	case "play":
		if args == "" {
			return errors.New("no movestring")
		}
		return s.play(args)
	case "pass":
		return s.play(PassMove)
	case "validmoves":
		if s.state.Result() != game.NoResult {
			return errGameOver
		}
		s.println(strings.Join(s.validMoves(), ";"))
	case "bestmove":
		return s.bestMove(args)
	case "undo":
		return s.undo(args)
	case "options":
		return s.processOptions(args)
	case "exit":
		s.quitting = true
	default:
		return fmt.Errorf("invalid command %q", cmd)
	}
	return nil
}

func (s *Session) newGame(args string) error {
	fields := lo.Map(strings.Split(args, ";"), func(f string, _ int) string { return strings.TrimSpace(f) })
	if args != "" && fields[0] != gameType {
		return fmt.Errorf("game type %q not supported", fields[0])
	}
	if len(fields) == 2 {
		return errNoGame
	}

	state, history := game.New(), []string(nil)
	if len(fields) > 3 {
		for _, m := range fields[3:] {
			a, err := ParseMoveString(state, m)
			if err != nil {
				log.Debug().Err(err).Msg("uhp-newgame")
				return fmt.Errorf("illegal move %q in game string", m)
			}
			state.Apply(a)
			history = append(history, m)
		}
	}

	s.state, s.history = state, history
	s.println(s.GameString())
	return nil
}

func (s *Session) play(m string) error {
	if s.state.Result() != game.NoResult {
		return errGameOver
	}
	a, err := ParseMoveString(s.state, m)
	if err != nil {
		return err
	}
	s.state.Apply(a)
	s.history = append(s.history, m)
	s.println(s.GameString())
	return nil
}

func (s *Session) validMoves() []string {
	return lo.Map(s.state.Actions(), func(a game.Action, _ int) string { return MoveString(s.state, a) })
}

func (s *Session) bestMove(args string) error {
	if s.state.Result() != game.NoResult {
		return errGameOver
	}

	options := s.options
	if args != "" {
		limit, value, ok := strings.Cut(args, " ")
		if !ok {
			return errors.New("invalid limit")
		}
		switch limit {
		case "time":
			d, err := parseClock(value)
			if err != nil {
				return err
			}
			options.Duration, options.Iterations = d, 0
		case "depth":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("bad depth %q", value)
			}
			options.Iterations, options.Duration = n, 0
		default:
			return fmt.Errorf("bad limit specification %q", limit)
		}
	}

	thinker := agent.NewEvaluationAgent(options, agent.WithWorkers(s.workers), agent.WithBook(s.book))
	decision, err := thinker.FindMove(s.state)
	if err != nil {
		return err
	}
	s.println(MoveString(s.state, decision.Action))
	return nil
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("bad time %q", s)
	}
	var d time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad time %q", s)
		}
		d += time.Duration(n) * unit
	}
	if d == 0 {
		return 0, fmt.Errorf("bad time %q", s)
	}
	return d, nil
}

func (s *Session) undo(args string) error {
	n := 1
	if args != "" {
		var err error
		if n, err = strconv.Atoi(args); err != nil {
			return fmt.Errorf("bad undo count %q", args)
		}
	}
	if n < 1 || n > len(s.history) {
		return errors.New("invalid number to undo")
	}

	history := s.history[:len(s.history)-n]
	state := game.New()
	for _, m := range history {
		a, err := ParseMoveString(state, m)
		if err != nil {
			return fmt.Errorf("failed to replay %q: %w", m, err)
		}
		state.Apply(a)
	}

	s.state, s.history = state, history
	s.println(s.GameString())
	return nil
}

func (s *Session) processOptions(args string) error {
	fields := strings.Fields(args)
	switch {
	case len(fields) == 0:
		s.println(s.option("Workers"))
		s.println(s.option("Iterations"))
	case len(fields) == 2 && fields[0] == "get":
		line := s.option(fields[1])
		if line == "" {
			return fmt.Errorf("unknown option %q", fields[1])
		}
		s.println(line)
	case len(fields) == 3 && fields[0] == "set":
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 1 {
			return fmt.Errorf("bad value %q", fields[2])
		}
		switch fields[1] {
		case "Workers":
			s.workers = n
		case "Iterations":
			s.options.Iterations, s.options.Duration = n, 0
		default:
			return fmt.Errorf("unknown option %q", fields[1])
		}
		s.println(s.option(fields[1]))
	default:
		return errors.New("invalid options command")
	}
	return nil
}

func (s *Session) option(name string) string {
	switch name {
	case "Workers":
		return fmt.Sprintf("Workers;int;%d;1;1;64", s.workers)
	case "Iterations":
		return fmt.Sprintf("Iterations;int;%d;%d;1;10000000", s.options.Iterations, searcher.DefaultIterations)
	}
	return ""
}

// GameString describes the current game in UHP form.
func (s *Session) GameString() string {
	var status string
	switch s.state.Result() {
	case game.P1Win:
		status = "WhiteWins"
	case game.P2Win:
		status = "BlackWins"
	case game.Draw:
		status = "Draw"
	default:
		status = "InProgress"
		if len(s.history) == 0 {
			status = "NotStarted"
		}
	}

	color := "White"
	if s.state.Turn() == game.P2 {
		color = "Black"
	}

	parts := append([]string{gameType, status, fmt.Sprintf("%s[%d]", color, len(s.history)/2+1)}, s.history...)
	return strings.Join(parts, ";")
}

// State returns a copy of the current position.
func (s *Session) State() *game.State {
	return s.state.Clone()
}
