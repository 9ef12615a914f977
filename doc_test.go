//go:build !ios && !android && (amd64 || arm64)

package opentok

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExportedMethodsDocumented fails on any exported function or method of
// an exported type that has no doc comment. String and Error are exempt.
func TestExportedMethodsDocumented(t *testing.T) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, ".", func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	require.NoError(t, err)
	pkg, ok := pkgs["opentok"]
	require.True(t, ok)

	var missing []string
	for _, f := range pkg.Files {
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || !fn.Name.IsExported() || fn.Doc != nil {
				continue
			}
			name := fn.Name.Name
			if fn.Recv != nil {
				recv := receiverName(fn.Recv.List[0].Type)
				if !ast.IsExported(recv) || name == "String" || name == "Error" {
					continue
				}
				name = recv + "." + name
			}
			missing = append(missing, fset.Position(fn.Pos()).String()+" "+name)
		}
	}
	assert.Empty(t, missing)
}

func receiverName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.StarExpr:
		return receiverName(x.X)
	case *ast.IndexExpr:
		return receiverName(x.X)
	case *ast.IndexListExpr:
		return receiverName(x.X)
	case *ast.Ident:
		return x.Name
	}
	return ""
}
