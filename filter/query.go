package filter

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/tagfilter/lang"
)

// maxCached is the number of programs kept before the cache is emptied.
const maxCached = 1024

// programCache stores compiled programs keyed by hash of the query text.
var (
	programCache sync.Map
	cachedCount  atomic.Int64
)

type cached struct {
	once    sync.Once
	query   string
	program *Program
	err     error
}

// CompileQuery parses and compiles query text. Unless disabled with
// [WithCache], results are cached, so the returned program is shared and
// must not be modified. The cache holds at most maxCached programs and is
// emptied when full.
func CompileQuery(ctx context.Context, query string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)
	if o.noCache {
		return compileQuery(ctx, query, o, opts...)
	}

	key := strconv.FormatUint(xxh3.HashString(query), 36)

	value, loaded := programCache.LoadOrStore(key, &cached{query: query})
	if !loaded && cachedCount.Add(1) > maxCached {
		ClearCache()
	}

	entry, ok := value.(*cached)
	if !ok || entry.query != query {
		return compileQuery(ctx, query, o, opts...)
	}

	o.logger.TraceContext(ctx, "program cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", loaded))

	entry.once.Do(func() {
		entry.program, entry.err = compileQuery(ctx, query, o, opts...)
	})

	return entry.program, entry.err
}

func compileQuery(
	ctx context.Context,
	query string,
	o options,
	opts ...Option,
) (*Program, error) {
	ast, err := lang.Parse(ctx, query,
		lang.WithLogger(o.logger), lang.WithCache(!o.noCache))
	if err != nil {
		return nil, err
	}

	return Compile(ctx, ast, opts...)
}

// ClearCache removes all cached programs.
func ClearCache() {
	programCache.Clear()
	cachedCount.Store(0)
}

// Query returns the items matching query, in database order.
func (db *Database) Query(ctx context.Context, query string, opts ...Option) ([]Item, error) {
	program, err := CompileQuery(ctx, query, opts...)
	if err != nil {
		return nil, err
	}

	return db.Filter(ctx, program, opts...)
}

// Filter returns the items program matches, in database order, honoring
// the database's implications.
func (db *Database) Filter(ctx context.Context, program *Program, opts ...Option) ([]Item, error) {
	o := makeOptions(opts...)

	matched := make([]Item, 0)

	for _, item := range db.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := program.Eval(NewEnv(item, db.Closure(item.Tags)))
		if err != nil {
			return nil, err
		}

		if ok {
			matched = append(matched, item)
		}
	}

	o.logger.DebugContext(ctx, "query evaluated",
		slog.String("query", program.Query()),
		slog.Int("items", len(db.Items)),
		slog.Int("matched", len(matched)))

	return matched, nil
}
