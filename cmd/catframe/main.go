package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

const usage = `usage: catframe <command> [flags]

commands:
  concat   concatenate files, unifying the categories of shared categorical columns
  merge    join two files, unifying the categories of categorical key columns
  cast     convert columns to categorical in place

Files are read and written by extension: .csv, .parquet, .arrow/.arrows, .json.
Run 'catframe <command> --help' for the flags of a command.
`

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n\n%s", usage)
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "concat":
		err = runConcat(ctx, rest, stdout)
	case "merge":
		err = runMerge(ctx, rest, stdout)
	case "cast":
		err = runCast(ctx, rest, stdout)
	case "help", "-h", "--help":
		_, err = fmt.Fprint(stdout, usage)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	verbose bool
	output  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "verbose", false, "enable verbose (debug) logging (or set CATFRAME_VERBOSE=1)")
	fs.StringVarP(&c.output, "output", "o", "", "output file, format chosen by extension; prints a table when empty (or set CATFRAME_OUTPUT)")
}

// applyEnv lets the environment switch on verbose logging and supply an
// output path when none was given on the command line.
func (c *commonFlags) applyEnv() {
	switch os.Getenv("CATFRAME_VERBOSE") {
	case "1", "true":
		c.verbose = true
	}
	if env := os.Getenv("CATFRAME_OUTPUT"); env != "" && c.output == "" {
		c.output = env
	}
}
