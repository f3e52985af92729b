package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/seeksphere/seeksphere-go/seeksphere"
)

// DefaultCacheSize is the number of programs a NewCompiler keeps by default
const DefaultCacheSize = 100

var defaultCompiler = NewCompiler(WithCache(0))

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the LRU size. Zero or less disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		} else {
			c.cache = nil
		}
	}
}

// Compiler compiles expressions and caches the resulting programs
type Compiler struct {
	cache *lruCache
}

// NewCompiler creates a compiler with a DefaultCacheSize cache
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{cache: newLRUCache(DefaultCacheSize)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression that must produce a boolean
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(compileEnvironment()),
		expr.AllowUndefinedVariables(), // response keys are only known at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.put(f)
	}

	return f, nil
}

// Clear removes all cached programs
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Size returns the number of cached programs
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.count()
	}
	return 0
}

// compileEnvironment declares the helper signatures for type checking
func compileEnvironment() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	env["has"] = func(string) bool { return false }
	env["response"] = map[string]any{}
	return env
}

// runtimeEnvironment exposes the body; helpers win over colliding keys
func runtimeEnvironment(resp seeksphere.Response) map[string]any {
	env := make(map[string]any, len(resp)+8)
	maps.Copy(env, resp)

	addHelperFunctions(env)
	env["has"] = func(key string) bool {
		_, ok := resp[key]
		return ok
	}
	env["response"] = map[string]any(resp)

	return env
}

// addHelperFunctions adds helpers that complement the built-in operators
func addHelperFunctions(env map[string]any) {
	env["icontains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}
