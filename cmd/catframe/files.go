package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/NerdMeNot/catframe"
)

type fileFormat int

const (
	formatCSV fileFormat = iota
	formatParquet
	formatArrow
	formatJSON
)

func formatFor(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return formatCSV, nil
	case ".parquet", ".pq":
		return formatParquet, nil
	case ".arrow", ".arrows", ".ipc":
		return formatArrow, nil
	case ".json":
		return formatJSON, nil
	}
	return 0, fmt.Errorf("cannot tell the format of %q from its extension", path)
}

func readFrame(path string) (*catframe.DataFrame, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatParquet:
		return catframe.ReadParquet(path)
	case formatArrow:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return catframe.ReadArrowIPC(bufio.NewReader(f))
	case formatJSON:
		return readJSON(path)
	default:
		return catframe.ReadCSV(path)
	}
}

// readJSON accepts both layouts: an object is a column document written by
// catframe, an array is a list of records.
func readJSON(path string) (*catframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	opts := catframe.DefaultJSONReadOptions()
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		opts.Format = catframe.JSONColumns
	}
	return catframe.ReadJSONFromReader(bytes.NewReader(data), opts)
}

// readFrames reads every input concurrently, keeping the argument order.
func readFrames(ctx context.Context, log *slog.Logger, paths []string) ([]*catframe.DataFrame, error) {
	frames := make([]*catframe.DataFrame, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			df, err := readFrame(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			log.Debug("read input", "path", path, "rows", df.Height(), "columns", df.Width())
			frames[i] = df
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// writeFrame writes df to path, or prints it to stdout when path is empty.
func writeFrame(df *catframe.DataFrame, path string, stdout io.Writer) error {
	if path == "" {
		_, err := fmt.Fprintln(stdout, df.String())
		return err
	}

	format, err := formatFor(path)
	if err != nil {
		return err
	}
	switch format {
	case formatParquet:
		return df.WriteParquet(path)
	case formatArrow:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := df.WriteArrowIPC(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case formatJSON:
		return df.WriteJSON(path, catframe.JSONWriteOptions{Format: catframe.JSONColumns})
	default:
		return df.WriteCSV(path)
	}
}

// categorize converts cols of df to categorical; CSV inputs carry no
// categorical metadata of their own.
func categorize(df *catframe.DataFrame, cols []string) error {
	if len(cols) == 0 {
		return nil
	}
	return catframe.CatAsType(df, catframe.CastOptions{Columns: cols})
}
