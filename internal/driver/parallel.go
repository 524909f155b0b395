package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/lexer"
	"github.com/Tomok/cad-dsl/internal/parser"
	"github.com/Tomok/cad-dsl/internal/resolver"
	"github.com/Tomok/cad-dsl/internal/sema"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/types"
)

// SourceExt is the file extension of design files.
const SourceExt = ".cad"

// CheckDirResult содержит результат конвейера по одному файлу каталога.
type CheckDirResult struct {
	Path     string
	FileID   ast.FileID
	Builder  *ast.Builder
	Resolved *resolver.Result
	Sema     *sema.Result
	Bag      *diag.Bag
}

// listSourceFiles возвращает отсортированный список всех *.cad файлов.
func listSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// сортировка даёт детерминированный порядок результатов
	sort.Strings(files)
	return files, nil
}

// CheckDir runs the full pipeline over every design file under dir in
// parallel. Каждый файл проверяется полностью независимо: свой Bag,
// свой interner, свой scope tree. Общий только FileSet (read-only
// после предзагрузки).
func CheckDir(ctx context.Context, dir string, maxDiagnostics, jobs int) (*source.FileSet, []CheckDirResult, error) {
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен, загружаем всё заранее
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индекс i уникален для каждой горутины, мьютекс не нужен
	results := make([]CheckDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiagnostics)
			if loadErr, failed := loadErrors[path]; failed {
				bag.Add(diag.NewError(diag.UnknownCode, source.Span{},
					"failed to load file: "+loadErr.Error()))
				results[i] = CheckDirResult{Path: path, Bag: bag}
				return nil
			}

			file := fileSet.Get(fileIDs[path])
			builder := ast.NewBuilder(ast.Hints{}, nil)
			lx := lexer.New(file, &diag.BagReporter{Bag: bag})

			maxErrors, err := safecast.Conv[uint](maxDiagnostics)
			if err != nil {
				return err
			}
			parsed := parser.ParseFile(lx, builder, parser.Options{
				Reporter:  &diag.BagReporter{Bag: bag},
				MaxErrors: maxErrors,
			})

			reporter := &diag.BagReporter{Bag: bag}
			ti := types.NewInterner()
			resolved := resolver.ResolveFile(builder, parsed.File, resolver.Options{
				Types:    ti,
				Reporter: reporter,
			})
			checked := sema.Check(builder, parsed.File, sema.Options{
				Reporter: reporter,
				Resolved: resolved,
				Types:    ti,
			})

			bag.Sort()
			results[i] = CheckDirResult{
				Path:     path,
				FileID:   parsed.File,
				Builder:  builder,
				Resolved: resolved,
				Sema:     checked,
				Bag:      bag,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
