package driver

import (
	"context"
	"fmt"
	"strconv"

	"xts/internal/diag"
	"xts/internal/lexer"
	"xts/internal/observ"
	"xts/internal/source"
	"xts/internal/token"
	"xts/internal/trace"
)

// Options configures Tokenize and TokenizeDir.
type Options struct {
	MaxDiagnostics int           // per file; <= 0 means unbounded
	Jobs           int           // TokenizeDir parallelism; <= 0 means GOMAXPROCS
	Extensions     []string      // TokenizeDir file filter; empty means .xts
	Cache          *TokenCache   // optional
	Sink           Sink          // optional progress events
	Timer          *observ.Timer // optional phase timings
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Cached  bool
}

// Tokenize loads and lexes a single file. Only I/O failures are returned as
// errors; lexical problems end up in Bag.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()

	loadIdx := opts.Timer.Begin("load")
	fileID, err := fs.Load(path)
	opts.Timer.End(loadIdx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return tokenizeLoaded(ctx, fs, fs.Get(fileID), opts), nil
}

// TokenizeSource lexes in-memory content registered as a virtual file.
func TokenizeSource(ctx context.Context, name string, content []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, content))
	return tokenizeLoaded(ctx, fs, file, opts)
}

func tokenizeLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	bag := diag.NewBag(opts.MaxDiagnostics)

	lexIdx := opts.Timer.Begin("lex")
	tokens, cached := lexFile(ctx, file, opts.Cache, bag)
	opts.Timer.End(lexIdx, strconv.Itoa(len(tokens))+" tokens")

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Cached:  cached,
	}
}

// lexFile runs the lexer over file, consulting cache first when set.
// Diagnostics go to bag in both cases, each at most once.
func lexFile(ctx context.Context, file *source.File, cache *TokenCache, bag *diag.Bag) ([]token.Token, bool) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file:"+file.Path, trace.CurrentSpan(ctx))
	bagReporter := diag.BagReporter{Bag: bag}
	reporter := diag.NewDedupReporter(bagReporter)
	finish := func(tokens []token.Token, status string) {
		span.WithExtra("tokens", strconv.Itoa(len(tokens)))
		if n := reporter.Suppressed(); n > 0 {
			span.WithExtra("duplicates", strconv.Itoa(n))
		}
		span.End(status)
	}

	key := KeyFor(file.Hash)
	if cache != nil {
		payload, ok, err := cache.Get(key)
		switch {
		case err != nil:
			diag.ReportWarning(bagReporter, diag.IOCacheError, fileStart(file), "token cache read failed: "+err.Error()).Emit()
		case ok:
			if tokens, diags, ok := payload.Restore(file); ok {
				diag.Replay(reporter, diags)
				finish(tokens, "cached")
				return tokens, true
			}
		}
	}

	// the cache stores every diagnostic, not just what fits into bag
	var all *diag.Bag
	var r diag.Reporter = reporter
	if cache != nil {
		all = diag.NewBag(0)
		r = diag.MultiReporter{reporter, diag.BagReporter{Bag: all}}
	}

	tokens := lexer.New(file, lexer.Options{Reporter: r}).Collect()

	if cache != nil {
		if err := cache.Put(key, newCachedTokens(file, tokens, all.Items())); err != nil {
			diag.ReportWarning(bagReporter, diag.IOCacheError, fileStart(file), "token cache write failed: "+err.Error()).Emit()
		}
	}

	finish(tokens, "")
	return tokens, false
}

func fileStart(file *source.File) source.Span {
	return source.Span{File: file.ID}
}
