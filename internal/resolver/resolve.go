package resolver

import (
	"github.com/Tomok/cad-dsl/internal/ast"
	"github.com/Tomok/cad-dsl/internal/diag"
	"github.com/Tomok/cad-dsl/internal/symbols"
	"github.com/Tomok/cad-dsl/internal/types"
)

// Options controls a resolve pass for a single AST file.
type Options struct {
	Table    *symbols.Table
	Hints    symbols.Hints
	Types    *types.Interner
	Reporter diag.Reporter
	// NoPrelude skips built-in installation; tests use it to get an
	// empty root scope.
	NoPrelude bool
}

// ResolveFile runs both passes over one file: declaration collection
// builds every scope and symbol, reference linking then resolves each
// use against the finished scope tree. The split is what makes forward
// references inside a declarative scope work.
func ResolveFile(builder *ast.Builder, fileID ast.FileID, opts Options) *Result {
	table := opts.Table
	if table == nil {
		table = symbols.NewTable(opts.Hints, builder.StringsInterner)
	}
	ti := opts.Types
	if ti == nil {
		ti = types.NewInterner()
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}

	result := newResult(fileID)
	result.Table = table

	file := builder.Files.Get(fileID)
	if file == nil {
		return result
	}

	fileScope := table.FileRoot(file.Span.File, file.Span)
	result.FileScope = fileScope

	res := symbols.NewResolver(table, fileScope, symbols.ResolverOptions{Reporter: opts.Reporter})
	if !opts.NoPrelude {
		installPrelude(table, res, ti)
	}

	c := collector{
		builder:  builder,
		result:   result,
		resolver: res,
		file:     fileID,
	}
	for _, itemID := range file.Items {
		c.collectItem(itemID)
	}

	l := linker{
		builder:  builder,
		result:   result,
		resolver: res,
		reporter: opts.Reporter,
	}
	for _, itemID := range file.Items {
		l.linkItem(itemID)
	}

	return result
}
