package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], DefaultEnv()))
}

// realMain dispatches commands and returns the process exit code.
func realMain(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "convert":
		flags, positional, err := parseConvertFlags(args[1:])
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitUsage
		}

		configureMaxprocs(flags.common.verbose, env)

		if err := runConvert(positional, flags, env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "doctor":
		return runDoctorCmd(args[1:], env)

	case "version":
		fmt.Fprintf(env.Stdout, "tex2html %s\n", Version)
		return ExitSuccess

	case "help":
		runHelp(args[1:], env)
		return ExitSuccess

	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// configureMaxprocs aligns GOMAXPROCS with container CPU quotas.
// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS env var,
// in which case Go runtime defaults apply and the program continues safely.
func configureMaxprocs(verbose bool, env *Environment) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}
}
