package driver

import (
	"fortio.org/safecast"

	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/diagfmt"
	"github.com/Tomok/cad-dsl/internal/lexer"
	"github.com/Tomok/cad-dsl/internal/parser"
	"github.com/Tomok/cad-dsl/internal/resolver"
	"github.com/Tomok/cad-dsl/internal/sema"
	"github.com/Tomok/cad-dsl/internal/source"
	"github.com/Tomok/cad-dsl/internal/token"
	"github.com/Tomok/cad-dsl/internal/types"
)

// TokenizeResult содержит результат токенизации одного файла.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads one file and runs only the lexer over it.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(file, &diag.BagReporter{Bag: bag})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// ParseResult содержит результат парсинга одного файла.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Parse loads one file and produces its arena AST.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseLoaded(fs, fileID, maxDiagnostics)
}

// parseLoaded parses a file already in the set.
func parseLoaded(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) (*ParseResult, error) {
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(file, &diag.BagReporter{Bag: bag})

	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	result := parser.ParseFile(lx, builder, parser.Options{
		Reporter:  &diag.BagReporter{Bag: bag},
		MaxErrors: maxErrors,
	})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}

// CheckResult содержит результат всего конвейера по одному файлу.
type CheckResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Builder  *ast.Builder
	FileID   ast.FileID
	Resolved *resolver.Result
	Sema     *sema.Result
	Bag      *diag.Bag
}

// CheckFile runs the whole pipeline over one file:
// lex → parse → resolve → check. Диагностики всех фаз ложатся в один Bag.
func CheckFile(path string, maxDiagnostics int) (*CheckResult, error) {
	parsed, err := Parse(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return checkParsed(parsed), nil
}

// CheckFileCached is CheckFile with a content-hash cache in front. На
// попадании конвейер не запускается: диагностики восстанавливаются из
// кеша, Resolved и Sema остаются nil. The second return reports whether
// the result came from the cache; a nil cache always misses.
func CheckFileCached(path string, maxDiagnostics int, cache *DiskCache) (*CheckResult, bool, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, false, err
	}
	file := fs.Get(fileID)

	var payload DiskPayload
	hit, err := cache.Get(file.Hash, &payload)
	if err == nil && hit {
		return &CheckResult{
			FileSet: fs,
			File:    file,
			Bag:     payload.RestoreBag(fileID, maxDiagnostics),
		}, true, nil
	}
	// Ошибка чтения кеша не фатальна: пересчитываем.
	parsed, err := parseLoaded(fs, fileID, maxDiagnostics)
	if err != nil {
		return nil, false, err
	}
	return checkParsed(parsed), false, nil
}

func checkParsed(parsed *ParseResult) *CheckResult {
	reporter := &diag.BagReporter{Bag: parsed.Bag}
	ti := types.NewInterner()

	resolved := resolver.ResolveFile(parsed.Builder, parsed.FileID, resolver.Options{
		Types:    ti,
		Reporter: reporter,
	})
	checked := sema.Check(parsed.Builder, parsed.FileID, sema.Options{
		Reporter: reporter,
		Resolved: resolved,
		Types:    ti,
	})

	parsed.Bag.Sort()
	return &CheckResult{
		FileSet:  parsed.FileSet,
		File:     parsed.File,
		Builder:  parsed.Builder,
		FileID:   parsed.FileID,
		Resolved: resolved,
		Sema:     checked,
		Bag:      parsed.Bag,
	}
}

// DiagnosticsJSON renders the bag of a check result for tooling.
func (r *CheckResult) DiagnosticsJSON(opts diagfmt.JSONOpts) diagfmt.DiagnosticsOutput {
	return diagfmt.BuildDiagnosticsOutput(r.Bag, r.FileSet, opts)
}
