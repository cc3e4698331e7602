package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"wisp/vm"
)

// runCmd executes a wisp script from a file.
type runCmd struct {
	trace bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute a wisp script from a source file" }
func (*runCmd) Usage() string {
	return `run <script>:
  Execute a wisp script.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.trace, "trace", false, "trace the operand stack and each instruction while running")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "run: missing script argument")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(74)
	}

	machine := vm.New()
	machine.SetTrace(r.trace)

	switch machine.Interpret(string(data)) {
	case vm.Ok:
		os.Exit(0)
	case vm.CompileError:
		os.Exit(65)
	case vm.RuntimeErrorResult:
		os.Exit(70)
	}

	return subcommands.ExitSuccess
}
