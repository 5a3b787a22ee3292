package codefmt

import (
	"fmt"
	"go/token"

	"github.com/sublee/confbind/internal/model"
)

func (w *Writer) wrapPrintfArgs(args []any) []any {
	wrapped := make([]any, len(args))
	for i, arg := range args {
		switch arg.(type) {
		case *model.TypeSpec, model.TypeID, Symbol, token.Pos:
			wrapped[i] = formatArg{arg, w}
		default:
			wrapped[i] = arg
		}
	}
	return wrapped
}

type formatArg struct {
	x any
	w *Writer
}

func (f formatArg) typeSpec() *model.TypeSpec {
	switch x := f.x.(type) {
	case *model.TypeSpec:
		return x
	case model.TypeID:
		if t, ok := f.w.graph.Lookup(x); ok {
			return t
		}
	}
	return nil
}

// Format implements fmt.Formatter interface.
//
// Supported verbs:
//
//	%t: *model.TypeSpec, model.TypeID - Go type expression in the output package
//	%s: Symbol - runtime reference under the unit policy
//	%b: token.Pos - file:line:column form
//
// For other verbs, it falls back to the default formatting of fmt package.
func (f formatArg) Format(s fmt.State, verb rune) {
	switch verb {
	case 't':
		t := f.typeSpec()
		if t == nil {
			fmt.Fprintf(s, "[%%t cannot format %T]", f.x)
			return
		}
		_, _ = s.Write([]byte(f.w.Type(t)))
		return

	case 's', 'v':
		if sym, ok := f.x.(Symbol); ok {
			_, _ = s.Write([]byte(f.w.Sym(sym)))
			return
		}

	case 'b':
		pos, ok := f.x.(token.Pos)
		if !ok {
			fmt.Fprintf(s, "[%%b cannot format %T]", f.x)
			return
		}
		_, _ = s.Write([]byte(FormatPosition(f.w.graph.Position(pos))))
		return
	}

	fmt.Fprintf(s, fmt.FormatString(s, verb), f.x)
}
