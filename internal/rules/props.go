package rules

import (
	"fmt"
	"math"
)

// intProp reads an integer property. TOML integers arrive as int64 and
// JSON numbers as float64.
func intProp(name string, val any) (int, error) {
	switch n := val.(type) {
	case int:
		return n, nil
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("property %s: %d is out of range", name, n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("property %s: expected an integer, got %v", name, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("property %s: expected an integer, got %T", name, val)
	}
}

func boolProp(name string, val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected a boolean, got %T", name, val)
	}
	return b, nil
}
