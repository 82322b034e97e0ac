package attribute

import (
	"fmt"
)

// ToString converts a resolved attribute value to text. Booleans become the
// literals "true" and "false".
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
