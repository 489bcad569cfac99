package project

import "strings"

// TruthyFlag normalizes a bool-ish custom property to a boolean.
//
// The active flag was historically persisted as the literal strings
// "True"/"False" and later migrated to a native boolean; both encodings must
// read the same. Numeric encodings count as truthy when non-zero.
func TruthyFlag(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		default:
			return false
		}
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}
