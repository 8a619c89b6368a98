package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"hive/config"
	"hive/uhp"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.ConfigureLogging()

	session := uhp.NewSession(os.Stdout, cfg.Search, cfg.Workers, cfg.Book)

	// Hosts drive the engine through pipes; the line editor is only for people.
	if !readline.IsTerminal(int(os.Stdin.Fd())) {
		if err := session.Run(os.Stdin); err != nil {
			log.Fatal().Err(err).Msg("reading commands")
		}
		return
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:      "\033[33mhive>\033[0m ",
		HistoryFile: os.TempDir() + "/hive-uhp.history",
		EOFPrompt:   "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("readline")
	}
	defer l.Close()

	session.Execute("info")
	for !session.Quitting() {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		session.Execute(line)
	}
}
