package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"wisp/vm"
)

// replCmd starts an interactive session backed by a single long-lived VM,
// so globals defined on one line survive into the next.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive wisp session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive session. Recognises "stack", "nostack", and "exit".
`
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

func historyFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wisp", "repl_history")
}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      ">>> ",
		HistoryFile: historyFilePath(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "repl: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	machine := vm.New()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return subcommands.ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "repl: %v\n", err)
			return subcommands.ExitFailure
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit":
			return subcommands.ExitSuccess
		case "stack":
			machine.SetTrace(true)
			continue
		case "nostack":
			machine.SetTrace(false)
			continue
		}

		machine.Interpret(line)
	}
}
