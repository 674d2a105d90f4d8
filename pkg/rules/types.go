package rules

import (
	"errors"
	"time"
)

// ErrEmptyExpression is returned when an evaluator is asked to run "".
var ErrEmptyExpression = errors.New("rules: expression must not be empty")

// Engine names reported in errors and logs.
const (
	EngineExpr   = "expr"
	EngineCEL    = "cel"
	EngineJS     = "js"
	EngineCustom = "custom"
)

// Context carries the inputs a rule is evaluated against.
type Context struct {
	Option   string
	Path     string
	Args     []string
	Now      *time.Time
	Metadata map[string]any
}

func (ctx Context) withDefaults() Context {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = []string{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx Context) variables() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"option":   ctx.Option,
		"path":     ctx.Path,
		"args":     ctx.Args,
		"now":      *ctx.Now,
		"metadata": ctx.Metadata,
	}
}

// Evaluator runs expressions against a Context.
type Evaluator interface {
	Evaluate(ctx Context, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx Context) (any, error)
}

// EngineName reports which engine backs e.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	}
	if isJSEvaluator(e) {
		return EngineJS
	}
	return EngineCustom
}

// Bool evaluates rule and requires a boolean result.
func Bool(rule CompiledRule, ctx Context) (bool, error) {
	if rule == nil {
		return false, errors.New("rules: compiled rule is nil")
	}
	out, err := rule.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{
			Option: ctx.Option,
			Err:    errors.New("rule did not return a bool"),
		}
	}
	return result, nil
}
