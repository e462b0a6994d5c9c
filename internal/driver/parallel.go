package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"xts/internal/diag"
	"xts/internal/source"
	"xts/internal/token"
	"xts/internal/trace"
)

// FileResult is the outcome for one file of TokenizeDir.
type FileResult struct {
	Path   string        // путь к файлу, как его нашёл ListFiles
	FileID source.FileID // ID файла в FileSet
	Tokens []token.Token
	Bag    *diag.Bag
	Cached bool
	Failed bool // file could not be loaded; Bag holds the reason
}

// DirResult collects per-file results in sorted path order.
type DirResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// HasErrors reports whether any file produced an error diagnostic.
func (r *DirResult) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every file's diagnostics into one sorted bag.
func (r *DirResult) Diagnostics() *diag.Bag {
	merged := diag.NewBag(0)
	for i := range r.Files {
		merged.Merge(r.Files[i].Bag)
	}
	merged.Sort()
	return merged
}

// ListFiles returns the sorted list of files under dir whose extension is
// one of exts (".xts" when empty).
func ListFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{".xts"}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	slices.Sort(files)
	return files, nil
}

// TokenizeDir lexes every matching file under dir in parallel. Files that
// fail to load get an IOLoadFileError diagnostic instead of aborting the run.
// Cancelling ctx stops scheduling further files.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*DirResult, error) {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "tokenize_dir", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, root)

	listIdx := opts.Timer.Begin("list")
	files, err := ListFiles(dir, opts.Extensions)
	opts.Timer.End(listIdx, strconv.Itoa(len(files))+" files")
	if err != nil {
		root.End("list failed")
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	fileSet := source.NewFileSetWithBase(dir)
	result := &DirResult{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		root.End("no files")
		return result, nil
	}

	for _, path := range files {
		opts.Sink.emit(path, StatusQueued, 0)
	}

	// FileSet не потокобезопасен: грузим всё заранее, воркеры только читают
	loadSpan := trace.Begin(tracer, trace.ScopePass, "load", root.ID())
	loadIdx := opts.Timer.Begin("load")
	for i, path := range files {
		bag := diag.NewBag(opts.MaxDiagnostics)
		result.Files[i] = FileResult{Path: path, Bag: bag}
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустой файл под тем же путём, чтобы диагностика указывала на него
			fileID = fileSet.Add(path, nil, 0)
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileID}, "failed to load file: "+err.Error()))
			result.Files[i].Failed = true
		}
		result.Files[i].FileID = fileID
	}
	opts.Timer.End(loadIdx, "")
	loadSpan.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	lexSpan := trace.Begin(tracer, trace.ScopePass, "lex", root.ID())
	lexIdx := opts.Timer.Begin("lex")
	lexCtx := trace.WithSpan(ctx, lexSpan)

	g, gctx := errgroup.WithContext(lexCtx)
	g.SetLimit(min(jobs, len(files)))

	for i := range result.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			fr := &result.Files[i]
			if fr.Failed {
				opts.Sink.emit(fr.Path, StatusError, 0)
				return nil
			}
			opts.Sink.emit(fr.Path, StatusLexing, 0)

			tokens, cached := lexFile(gctx, fileSet.Get(fr.FileID), opts.Cache, fr.Bag)
			fr.Tokens = tokens
			fr.Cached = cached

			status := StatusDone
			switch {
			case fr.Bag.HasErrors():
				status = StatusError
			case cached:
				status = StatusCached
			}
			opts.Sink.emit(fr.Path, status, len(tokens))
			return nil
		})
	}

	err = g.Wait()
	opts.Timer.End(lexIdx, strconv.Itoa(len(files))+" files")
	lexSpan.End("")
	if err != nil {
		root.End("cancelled")
		return result, err
	}
	root.WithExtra("files", strconv.Itoa(len(files))).End("")
	return result, nil
}
