// golangcilintconfbind package provides a plugin for golangci-lint to
// integrate the Confbind analyzer. To build a custom golangci-lint binary with
// this plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// Now you will have a golangci-lint-confbind binary that you can use to lint
// your Go code with the Confbind analyzer.
package golangcilintconfbind

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/confbind/pkg/confbindanalysis"
)

func init() {
	register.Plugin("confbind", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return ConfbindLinter{}, nil
}

type ConfbindLinter struct{}

func (ConfbindLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{confbindanalysis.Analyzer}, nil
}

// GetLoadMode asks for type information since directives are resolved to
// types.
func (ConfbindLinter) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
