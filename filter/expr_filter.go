package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/hassctl/homeassistant"
)

// ExprFilter represents a compiled expr filter
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// helpers are the functions available to every expression, next to expr's
// builtins (lower, upper, now, ...) and operators (contains, startsWith, ...).
var helpers = map[string]any{
	"num": func(v any) float64 {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return 0
			}
			return f
		}
		return 0
	},
}

// CompileExprFilter compiles an expr filter expression
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, newCompilationError(expression, ErrEmptyExpression)
	}

	env := map[string]any{}
	for k, v := range helpers {
		env[k] = v
	}
	for k, v := range stateEnv(homeassistant.State{}) {
		env[k] = v
	}

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, err)
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// stateEnv exposes one entity to an expression.
func stateEnv(state homeassistant.State) map[string]any {
	domain, objectID, _ := strings.Cut(state.EntityID, ".")

	var attributes map[string]any
	name := state.EntityID
	if state.Attributes != nil {
		if raw, err := json.Marshal(state.Attributes); err == nil {
			_ = json.Unmarshal(raw, &attributes)
		}
		if state.Attributes.FriendlyName != "" {
			name = state.Attributes.FriendlyName
		}
	}

	return map[string]any{
		"entity_id":    state.EntityID,
		"domain":       domain,
		"object_id":    objectID,
		"name":         name,
		"state":        state.State,
		"attributes":   attributes,
		"last_changed": state.LastChanged,
		"last_updated": state.LastUpdated,

		"attr": func(key string) any {
			v, _ := state.Attribute(key)
			return v
		},
		"hasAttr": func(key string) bool {
			_, ok := state.Attribute(key)
			return ok
		},
		"changedWithin": func(d string) bool {
			window, err := time.ParseDuration(d)
			if err != nil || state.LastChanged.IsZero() {
				return false
			}
			return time.Since(state.LastChanged) <= window
		},
	}
}

// Evaluate evaluates the filter against a state. Evaluation errors count as
// no match.
func (f *ExprFilter) Evaluate(state homeassistant.State) bool {
	ok, err := f.Match(state)
	return err == nil && ok
}

// Match evaluates the filter and reports evaluation errors.
func (f *ExprFilter) Match(state homeassistant.State) (bool, error) {
	env := stateEnv(state)
	for k, v := range helpers {
		env[k] = v
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, newEvaluationError(f.expr, state.EntityID, err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, newEvaluationError(f.expr, state.EntityID, fmt.Errorf("%w: got %T", ErrNotBool, result))
	}
	return matched, nil
}

// Expression returns the original expression
func (f *ExprFilter) Expression() string {
	return f.expr
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}
