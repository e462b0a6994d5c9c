package driver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"xts/internal/diag"
	"xts/internal/project"
	"xts/internal/source"
	"xts/internal/token"
)

// Current schema version - increment when CachedTokens or token.Kind changes
const tokenCacheSchemaVersion uint16 = 1

// TokenCache stores lexer output on disk keyed by file content hash.
// Thread-safe for concurrent access.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedTokens is the on-disk payload. Spans are stored with the file id of
// the run that produced them; Restore rebinds them.
type CachedTokens struct {
	Schema      uint16
	Hash        project.Digest
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
}

// DefaultCacheDir returns $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenTokenCache initializes a cache rooted at dir; "" selects DefaultCacheDir("xts").
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir("xts"); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// KeyFor derives the cache key from the content hash and the schema version.
func KeyFor(contentHash [32]byte) project.Digest {
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], tokenCacheSchemaVersion)
	return project.Combine(project.Digest(contentHash), schema[:])
}

func (c *TokenCache) pathFor(key project.Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не держать всё в одной папке
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *TokenCache) Put(key project.Digest, payload *CachedTokens) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a payload from another schema
// is a miss, not an error.
func (c *TokenCache) Get(key project.Digest) (*CachedTokens, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out CachedTokens
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if out.Schema != tokenCacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "tokens"))
}

// newCachedTokens snapshots a lexer result for storage.
func newCachedTokens(file *source.File, tokens []token.Token, diags []diag.Diagnostic) *CachedTokens {
	return &CachedTokens{
		Schema:      tokenCacheSchemaVersion,
		Hash:        project.Digest(file.Hash),
		Tokens:      tokens,
		Diagnostics: diags,
	}
}

// Restore rebinds cached spans to file and returns tokens and diagnostics.
// A payload whose hash does not match file is rejected.
func (p *CachedTokens) Restore(file *source.File) ([]token.Token, []diag.Diagnostic, bool) {
	if p == nil || p.Hash != project.Digest(file.Hash) {
		return nil, nil, false
	}
	tokens := make([]token.Token, len(p.Tokens))
	for i, tok := range p.Tokens {
		tok.Span.File = file.ID
		tokens[i] = tok
	}
	diags := make([]diag.Diagnostic, len(p.Diagnostics))
	for i, d := range p.Diagnostics {
		d.Primary.File = file.ID
		notes := make([]diag.Note, len(d.Notes))
		for j, n := range d.Notes {
			n.Span.File = file.ID
			notes[j] = n
		}
		d.Notes = notes
		fixes := make([]diag.Fix, len(d.Fixes))
		for j, fx := range d.Fixes {
			edits := make([]diag.FixEdit, len(fx.Edits))
			for k, e := range fx.Edits {
				e.Span.File = file.ID
				edits[k] = e
			}
			fx.Edits = edits
			fixes[j] = fx
		}
		d.Fixes = fixes
		diags[i] = d
	}
	return tokens, diags, true
}
