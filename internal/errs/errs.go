// Package errs defines the categorized error type shared by every engine entry point.
package errs

// #region imports
import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// #endregion

// #region category

// Category tags an error with its handling class.
type Category string

const (
	CategoryValidation        Category = "validation"
	CategoryStrategyExecution Category = "strategy_execution"
	CategoryInitialization    Category = "initialization"
	CategoryNotFound          Category = "not_found"
	CategoryCancelled         Category = "cancelled"
	CategoryUnavailable       Category = "unavailable"
)

// Sentinels for errors.Is. Matching is by category only.
var (
	ErrValidation        = &Error{Category: CategoryValidation}
	ErrStrategyExecution = &Error{Category: CategoryStrategyExecution}
	ErrInitialization    = &Error{Category: CategoryInitialization}
	ErrNotFound          = &Error{Category: CategoryNotFound}
	ErrCancelled         = &Error{Category: CategoryCancelled}
	ErrUnavailable       = &Error{Category: CategoryUnavailable}
)

// #endregion

// #region error

// Error is a categorized failure with an observability context bundle.
type Error struct {
	Category Category
	Op       string
	Message  string
	Context  map[string]any
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Category))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

// With returns a copy of e with key=value added to its context bundle.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

// #endregion

// #region constructors

// New builds an error. kv is an alternating key/value list for the context bundle.
func New(cat Category, op, msg string, kv ...any) *Error {
	return &Error{Category: cat, Op: op, Message: msg, Context: bundle(kv)}
}

// Wrap builds an error around cause.
func Wrap(cat Category, op string, cause error, kv ...any) *Error {
	return &Error{Category: cat, Op: op, Err: cause, Context: bundle(kv)}
}

func Validation(op, msg string, kv ...any) *Error {
	return New(CategoryValidation, op, msg, kv...)
}

func NotFound(op, msg string, kv ...any) *Error {
	return New(CategoryNotFound, op, msg, kv...)
}

func Initialization(op, msg string, kv ...any) *Error {
	return New(CategoryInitialization, op, msg, kv...)
}

func StrategyExecution(op, msg string, kv ...any) *Error {
	return New(CategoryStrategyExecution, op, msg, kv...)
}

// CategoryOf returns the category of the first *Error in err's chain, or "" if none.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

func bundle(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			k = fmt.Sprint(kv[i])
		}
		m[k] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		m["_extra"] = kv[len(kv)-1]
	}
	return m
}

// #endregion
