package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/tagfilter/filter"
	"github.com/ardnew/tagfilter/lang"
	"github.com/ardnew/tagfilter/log"
)

type (
	kongContextKey   struct{}
	databaseFilesKey struct{}
	outputKey        struct{}
	inputKey         struct{}
)

// WithContext returns a new context.Context containing the given
// kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongContextKey{}).(*kong.Context)

	return ktx
}

// WithDatabaseFiles returns a new context.Context naming the database files
// commands query. With no files, commands use [filter.DefaultDatabase].
func WithDatabaseFiles(ctx context.Context, files []string) context.Context {
	return context.WithValue(ctx, databaseFilesKey{}, files)
}

// WithOutput returns a new context.Context whose commands write to w
// instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// WithInput returns a new context.Context whose commands read "-" from r
// instead of os.Stdin.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok {
		return w
	}

	return os.Stdout
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok {
		return r
	}

	return os.Stdin
}

// stdinSource is the special argument for reading from stdin.
const stdinSource = "-"

// queryText joins args into query text. A single "-" reads the query from
// stdin.
func queryText(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 || args[0] != stdinSource {
		return strings.Join(args, " "), nil
	}

	ra := readahead.NewReader(inputFrom(ctx))
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadQuery.Wrap(err).With(slog.String("source", "stdin"))
	}

	return string(data), nil
}

// openSource opens path, or returns stdin for "-".
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(inputFrom(ctx)), nil
	}

	return os.Open(path)
}

// databaseFrom loads and merges the database files stored in ctx by
// [WithDatabaseFiles]. Files that resolve to the same file are loaded once.
func databaseFrom(ctx context.Context) (*filter.Database, error) {
	files, _ := ctx.Value(databaseFilesKey{}).([]string)
	if len(files) == 0 {
		log.DebugContext(ctx, "using default database")

		return filter.DefaultDatabase(), nil
	}

	seen := make(map[fileKey]struct{})
	dbs := make([]*filter.Database, 0, len(files))

	for _, path := range files {
		file, err := openUniqueFile(path, seen)
		if err != nil {
			return nil, filter.ErrLoadDatabase.Wrap(err).
				With(slog.String("path", path))
		}

		if file == nil {
			log.DebugContext(ctx, "skipped duplicate database",
				slog.String("path", path))

			continue
		}

		db, err := filter.LoadDatabase(ctx, file)
		file.Close()

		if err != nil {
			return nil, lang.WrapError(err).With(slog.String("path", path))
		}

		log.DebugContext(ctx, "loaded database",
			slog.String("path", path),
			slog.Int("items", len(db.Items)))

		dbs = append(dbs, db)
	}

	return filter.Merge(dbs...), nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// openUniqueFile opens the file at path if it hasn't been seen before,
// following symlinks and comparing device and inode numbers. It returns a
// nil file and nil error for a file already seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, err
	}

	key, hasKey := makeFileKey(info)
	if hasKey {
		if _, exists := seen[key]; exists {
			return nil, nil
		}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}

	if hasKey {
		seen[key] = struct{}{}
	}

	return file, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
