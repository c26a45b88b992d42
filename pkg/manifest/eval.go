package manifest

import (
	stderrors "errors"
	"fmt"
)

var errUnhashable = stderrors.New("dict keys must be strings, numbers, booleans or None")

// add evaluates left + right for the literal types the decoder produces
func add(left, right interface{}) (interface{}, error) {
	switch l := left.(type) {
	case string:
		if r, ok := right.(string); ok {
			return l + r, nil
		}
	case []interface{}:
		if r, ok := right.([]interface{}); ok {
			out := make([]interface{}, 0, len(l)+len(r))
			out = append(out, l...)
			return append(out, r...), nil
		}
	case int64:
		switch r := right.(type) {
		case int64:
			return l + r, nil
		case float64:
			return float64(l) + r, nil
		}
	case float64:
		switch r := right.(type) {
		case int64:
			return l + float64(r), nil
		case float64:
			return l + r, nil
		}
	}
	return nil, fmt.Errorf("unsupported operand types for +: %s and %s", typeName(left), typeName(right))
}

func typeName(v interface{}) string {
	switch v.(type) {
	case string:
		return "str"
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "dict"
	case int64:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case nil:
		return "None"
	}
	return fmt.Sprintf("%T", v)
}
