package client

import (
	"fmt"
	"net/url"
	"strconv"
)

// cleanParams turns a filter mapping into query values, dropping entries
// whose value is nil, the empty string, or the sentinel strings "None" and
// "null". Numeric zero survives. The input is never mutated and the function
// is idempotent over its own output.
func cleanParams(params map[string]any) url.Values {
	values := url.Values{}
	for key, value := range params {
		formatted, ok := formatParam(value)
		if !ok {
			continue
		}
		values.Set(key, formatted)
	}
	return values
}

func formatParam(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if v == "" || v == "None" || v == "null" {
			return "", false
		}
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		s := fmt.Sprint(v)
		if s == "" || s == "None" || s == "null" || s == "<nil>" {
			return "", false
		}
		return s, true
	}
}
