package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/NerdMeNot/catframe"
	"github.com/NerdMeNot/catframe/internal/logger"
)

func runConcat(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("concat", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	catColsFlag := fs.StringSlice("cat-cols", nil, "columns to convert to categorical before concatenating")
	joinFlag := fs.String("join", "outer", "columns to keep: outer (all) or inner (shared) (or set CATFRAME_JOIN)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyEnv()
	if env := os.Getenv("CATFRAME_JOIN"); env != "" {
		*joinFlag = env
	}

	if fs.NArg() == 0 {
		return errors.New("concat needs at least one input file")
	}
	join, err := catframe.ParseConcatJoin(*joinFlag)
	if err != nil {
		return err
	}

	log := logger.New(common.verbose)
	frames, err := readFrames(ctx, log, fs.Args())
	if err != nil {
		return err
	}
	for i, df := range frames {
		if err := categorize(df, *catColsFlag); err != nil {
			return fmt.Errorf("categorize %s: %w", fs.Arg(i), err)
		}
	}

	out, err := catframe.ConcatCategorical(frames, catframe.ConcatOptions{Join: join})
	if err != nil {
		return err
	}
	log.Info("concatenated", "inputs", len(frames), "rows", out.Height(), "categorical", out.CategoricalColumns())
	return writeFrame(out, common.output, stdout)
}

func runMerge(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	leftFlag := fs.String("left", "", "left input file")
	rightFlag := fs.String("right", "", "right input file")
	onFlag := fs.StringSlice("on", nil, "key columns present in both inputs (default: every shared column)")
	leftOnFlag := fs.StringSlice("left-on", nil, "left key columns, paired with --right-on")
	rightOnFlag := fs.StringSlice("right-on", nil, "right key columns, paired with --left-on")
	howFlag := fs.String("how", "inner", "join type: inner, left, right or outer (or set CATFRAME_HOW)")
	suffixFlag := fs.String("suffix", "_right", "suffix for right columns whose names clash")
	catColsFlag := fs.StringSlice("cat-cols", nil, "columns to convert to categorical in both inputs before joining")
	removeUnusedFlag := fs.Bool("remove-unused", false, "drop categories the joined data does not use")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyEnv()
	if env := os.Getenv("CATFRAME_HOW"); env != "" {
		*howFlag = env
	}

	if *leftFlag == "" || *rightFlag == "" {
		return errors.New("merge needs --left and --right")
	}
	how, err := catframe.ParseJoinType(*howFlag)
	if err != nil {
		return err
	}

	var opts catframe.JoinOptions
	switch {
	case len(*leftOnFlag) > 0 || len(*rightOnFlag) > 0:
		if len(*onFlag) > 0 {
			return errors.New("--on cannot be combined with --left-on/--right-on")
		}
		opts = catframe.LeftOn(*leftOnFlag...).RightOn(*rightOnFlag...)
	case len(*onFlag) > 0:
		opts = catframe.On(*onFlag...)
	default:
		opts = catframe.DefaultJoinOptions()
	}
	opts = opts.WithHow(how).WithSuffix(*suffixFlag)

	log := logger.New(common.verbose)
	frames, err := readFrames(ctx, log, []string{*leftFlag, *rightFlag})
	if err != nil {
		return err
	}
	left, right := frames[0], frames[1]
	if err := categorize(left, *catColsFlag); err != nil {
		return fmt.Errorf("categorize %s: %w", *leftFlag, err)
	}
	if err := categorize(right, *catColsFlag); err != nil {
		return fmt.Errorf("categorize %s: %w", *rightFlag, err)
	}

	out, err := catframe.MergeCategorical(left, right, opts, *removeUnusedFlag)
	if err != nil {
		return err
	}
	log.Info("merged", "how", how, "rows", out.Height(), "categorical", out.CategoricalColumns())
	return writeFrame(out, common.output, stdout)
}

func runCast(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cast", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	colsFlag := fs.StringSlice("cols", nil, "columns to convert to categorical")
	orderedFlag := fs.StringSlice("ordered", nil, "columns whose categories are ordered ascending")
	subtypeFlag := fs.StringToString("subtype", nil, "category value type per column, e.g. grade=int64")
	removeUnusedFlag := fs.Bool("remove-unused", false, "drop categories no row uses")
	syncOrderedFlag := fs.Bool("sync-ordered", false, "apply --ordered to columns that are already categorical")
	if err := fs.Parse(args); err != nil {
		return err
	}
	common.applyEnv()

	if fs.NArg() != 1 {
		return errors.New("cast needs exactly one input file")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	subTypes := make(map[string]catframe.DType, len(*subtypeFlag))
	for col, name := range *subtypeFlag {
		dtype, err := catframe.ParseDType(name)
		if err != nil {
			return fmt.Errorf("--subtype %s: %w", col, err)
		}
		subTypes[col] = dtype
	}

	log := logger.New(common.verbose)
	df, err := readFrame(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.Arg(0), err)
	}
	log.Debug("read input", "path", fs.Arg(0), "rows", df.Height(), "columns", df.Width())

	err = catframe.CatAsType(df, catframe.CastOptions{
		Columns:                *colsFlag,
		SubTypes:               subTypes,
		OrderedColumns:         *orderedFlag,
		RemoveUnusedCategories: *removeUnusedFlag,
		SyncOrdered:            *syncOrderedFlag,
	})
	if err != nil {
		return err
	}
	log.Info("cast", "categorical", df.CategoricalColumns())
	return writeFrame(df, common.output, stdout)
}
