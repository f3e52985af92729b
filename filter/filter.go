package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// Filter is a compiled boolean predicate over a response body
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression without caching
func Compile(expression string) (*Filter, error) {
	return defaultCompiler.Compile(expression)
}

// MustCompile is like Compile but panics on error
func MustCompile(expression string) *Filter {
	f, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return f
}

// Match evaluates the filter. Top-level keys of the body are variables, the
// whole body is available as response. Missing keys evaluate to nil.
func (f *Filter) Match(resp seeksphere.Response) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnvironment(resp))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     fmt.Sprintf("expression returned %T, not bool", result),
		}
	}
	return matched, nil
}

// Expression returns the source expression
func (f *Filter) Expression() string {
	return f.expression
}

func (f *Filter) String() string {
	return f.expression
}
