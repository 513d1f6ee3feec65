package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// maxCached is the number of queries kept before the cache is emptied.
const maxCached = 1024

// globalCache stores parsed queries keyed by hash of (source, options).
var (
	globalCache sync.Map
	cachedCount atomic.Int64
)

// state tracks parsing state for one cached source.
type state struct {
	once   sync.Once
	source string
	ast    *AST
	err    error
}

// cacheKey combines the source hash with the options that affect parsing.
func cacheKey(source string, opts optionsKey) string {
	sourceHash := xxh3.HashString(source)
	optsHash := xxh3.HashString(strconv.Itoa(opts.maxDepth))

	return strconv.FormatUint(sourceHash^optsHash, 36)
}

// parseCached parses a string with caching.
func parseCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*AST, error) {
	// Build a temporary AST to get effective options
	var tempAST AST

	applyDefaults(&tempAST)
	applyOptions(&tempAST, opts...)

	key := cacheKey(source, tempAST.opts)

	value, cacheHit := globalCache.LoadOrStore(key, &state{source: source})
	if !cacheHit && cachedCount.Add(1) > maxCached {
		ClearCache()
	}

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrParse.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	// A hash collision must never return another query's AST.
	if entry.source != source {
		tempAST.logger.TraceContext(ctx, "cache collision",
			slog.String("key", key))

		return parse(ctx, source, opts...)
	}

	tempAST.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", cacheHit))

	entry.once.Do(func() {
		entry.ast, entry.err = parse(ctx, source, opts...)
	})

	return entry.ast, entry.err
}

// ClearCache removes all cached queries. [Parse] calls it once the cache
// holds maxCached queries.
func ClearCache() {
	globalCache.Clear()
	cachedCount.Store(0)
}
