// Package errors normalizes pipeline errors into metric-friendly class names.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	"github.com/autobmg/processdocs/internal/domain/model"
)

// Classify returns a normalized error class suitable for tagging metrics and
// logs. Typed pipeline failures classify by their FailureKind; anything else
// falls back to the innermost concrete error type.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if failure, ok := model.AsFailure(err); ok && failure.Kind.Valid() {
		return string(failure.Kind)
	}
	if goerrors.Is(err, model.ErrNoDocuments) {
		return string(model.FailureEmptyResult)
	}

	// Unwrap to the innermost error for better signal.
	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
