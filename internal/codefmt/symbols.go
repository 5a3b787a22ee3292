package codefmt

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

const (
	// RuntimePath is the import path of the runtime the generated code calls.
	RuntimePath = "github.com/sublee/confbind"

	// RuntimeName is the declared package name at [RuntimePath].
	RuntimeName = "confbind"
)

// Symbol is an exported identifier of the runtime package. Templates refer to
// runtime helpers only through symbols so that the qualification policy of
// the unit applies to every reference.
type Symbol int

const (
	SymKeyDelimiter Symbol = iota
	SymSection
	SymHasValue
	SymHasChildren
	SymHasValueOrChildren
	SymSectionAt
	SymCombinePath
	SymMatchKey
	SymNewMap
	SymCompareKeys
	SymBinderOptions
	SymNewBinderOptions
	SymParseBool
	SymParseInt
	SymParseUint
	SymParseFloat
	SymParseDuration
	SymParseText
	SymParseError
	SymInitError
	SymArgumentNilError
	SymUnknownKeyError
	SymUnsupportedTypeError
	SymDefaultName
	SymServiceCollection
	SymNewServiceCollection
	SymConfigure
	SymResolve
	SymOptionsBuilder
	SymAddOptions

	numSymbols
)

var symbolNames = [numSymbols]string{
	SymKeyDelimiter:         "KeyDelimiter",
	SymSection:              "Section",
	SymHasValue:             "HasValue",
	SymHasChildren:          "HasChildren",
	SymHasValueOrChildren:   "HasValueOrChildren",
	SymSectionAt:            "SectionAt",
	SymCombinePath:          "CombinePath",
	SymMatchKey:             "MatchKey",
	SymNewMap:               "NewMap",
	SymCompareKeys:          "CompareKeys",
	SymBinderOptions:        "BinderOptions",
	SymNewBinderOptions:     "NewBinderOptions",
	SymParseBool:            "ParseBool",
	SymParseInt:             "ParseInt",
	SymParseUint:            "ParseUint",
	SymParseFloat:           "ParseFloat",
	SymParseDuration:        "ParseDuration",
	SymParseText:            "ParseText",
	SymParseError:           "ParseError",
	SymInitError:            "InitError",
	SymArgumentNilError:     "ArgumentNilError",
	SymUnknownKeyError:      "UnknownKeyError",
	SymUnsupportedTypeError: "UnsupportedTypeError",
	SymDefaultName:          "DefaultName",
	SymServiceCollection:    "ServiceCollection",
	SymNewServiceCollection: "NewServiceCollection",
	SymConfigure:            "Configure",
	SymResolve:              "Resolve",
	SymOptionsBuilder:       "OptionsBuilder",
	SymAddOptions:           "AddOptions",
}

// String returns the unqualified identifier.
func (s Symbol) String() string {
	if s < 0 || s >= numSymbols {
		return fmt.Sprintf("Symbol(%d)", int(s))
	}
	return symbolNames[s]
}

// Symbols returns every runtime symbol.
func Symbols() []Symbol {
	syms := make([]Symbol, numSymbols)
	for i := range syms {
		syms[i] = Symbol(i)
	}
	return syms
}

// Policy decides how references to runtime symbols are rendered.
type Policy int

const (
	// Qualified imports the runtime by name and renders "confbind.Section".
	Qualified Policy = iota

	// Minimal dot-imports the runtime and renders "Section".
	Minimal
)

func (p Policy) String() string {
	switch p {
	case Qualified:
		return "qualified"
	case Minimal:
		return "minimal"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// DecidePolicy picks the policy of a unit. names are the identifiers that
// would share the file scope with a dot-imported runtime: the package-scope
// names of the output package and the minimal names of the reachable types.
// Minimal is chosen only if none of them is a runtime symbol and forceQualified
// is false. The colliding names are returned in sorted order.
func DecidePolicy(names []string, forceQualified bool) (Policy, []string) {
	runtime := treeset.NewWithStringComparator()
	for _, s := range Symbols() {
		runtime.Add(s.String())
	}

	collisions := treeset.NewWithStringComparator()
	for _, name := range names {
		if runtime.Contains(name) {
			collisions.Add(name)
		}
	}

	var sorted []string
	for _, v := range collisions.Values() {
		sorted = append(sorted, v.(string))
	}

	if forceQualified || len(sorted) != 0 {
		return Qualified, sorted
	}
	return Minimal, nil
}
