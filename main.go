package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ca-srg/habitflow/infrastructure/di"
	"github.com/ca-srg/habitflow/interface/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run builds the container and executes the command line
func run(args []string, out, errOut io.Writer) int {
	args, debug := splitDebugFlag(args)

	opts := []di.ContainerOption{}
	if debug {
		opts = append(opts, di.WithDebugMode(true))
	}
	if dir := os.Getenv("HABITFLOW_CONFIG_DIR"); dir != "" {
		opts = append(opts, di.WithConfigDir(dir))
	}

	container, err := di.NewContainer(opts...)
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Failed to initialize application: %v\n", err)
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			_, _ = fmt.Fprintf(errOut, "Warning: %v\n", err)
		}
	}()

	return cli.Execute(container.Services(), args, out, errOut)
}

// splitDebugFlag removes --debug, which must be known before the container
// is built
func splitDebugFlag(args []string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	debug := false
	for i, arg := range args {
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		if arg == "--debug" {
			debug = true
			continue
		}
		rest = append(rest, arg)
	}
	return rest, debug
}
