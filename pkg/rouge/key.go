package rouge

import (
	"fmt"
	"strings"
)

func key[T comparable](gram []T) string {
	parts := make([]string, len(gram))
	for i, v := range gram {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\x1f")
}
