package filter

import (
	"context"

	"github.com/s0up4200/hassctl/homeassistant"
)

// DefaultCacheSize is the number of compiled expressions a Compiler keeps.
const DefaultCacheSize = 64

// Compiler compiles expressions and caches the result by expression text.
type Compiler struct {
	cache *lruCache
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the number of cached expressions
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// NewCompiler creates a caching compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{cache: newLRUCache(DefaultCacheSize)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile returns the cached filter for expression, compiling it on a miss.
func (c *Compiler) Compile(expression string) (*ExprFilter, error) {
	if f, ok := c.cache.Get(expression); ok {
		return f, nil
	}
	f, err := CompileExprFilter(expression)
	if err != nil {
		return nil, err
	}
	c.cache.Put(expression, f)
	return f, nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	c.cache.Clear()
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	return c.cache.Size()
}

// Apply returns the states matching f, in their original order. It stops
// early when ctx is done.
func Apply(ctx context.Context, f *ExprFilter, states []homeassistant.State) ([]homeassistant.State, error) {
	var matched []homeassistant.State
	for _, state := range states {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.Evaluate(state) {
			matched = append(matched, state)
		}
	}
	return matched, nil
}
