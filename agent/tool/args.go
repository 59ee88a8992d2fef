package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

// argError marks a malformed tool argument, as opposed to a domain rejection.
type argError struct {
	name   string
	reason string
}

func (e *argError) Error() string {
	return fmt.Sprintf("%s %s", e.name, e.reason)
}

func requiredString(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", &argError{name: name, reason: "is required"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &argError{name: name, reason: "must be a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &argError{name: name, reason: "is empty"}
	}
	return s, nil
}

// optionalString returns "" for a missing argument and leaves the decision to
// the caller's validation.
func optionalString(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &argError{name: name, reason: "must be a string"}
	}
	return strings.TrimSpace(s), nil
}

// quantityArg accepts integral JSON numbers, Go integers and digit strings.
// Anything else, including zero and negatives, is statex.ErrInvalidQuantity.
func quantityArg(args map[string]any, name string) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, &statex.InputError{Kind: statex.ErrInvalidQuantity, Value: ""}
	}

	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, &statex.InputError{Kind: statex.ErrInvalidQuantity, Value: strconv.FormatFloat(v, 'f', -1, 64)}
		}
		n = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, &statex.InputError{Kind: statex.ErrInvalidQuantity, Value: v.String()}
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return 0, &statex.InputError{Kind: statex.ErrInvalidQuantity, Value: v}
		}
		n = parsed
	default:
		return 0, &statex.InputError{Kind: statex.ErrInvalidQuantity, Value: fmt.Sprint(v)}
	}

	if n <= 0 || n > math.MaxInt32 {
		return 0, &statex.InputError{Kind: statex.ErrInvalidQuantity, Value: strconv.FormatInt(n, 10)}
	}
	return int(n), nil
}
