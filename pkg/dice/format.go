package dice

import (
	"strconv"
	"strings"
)

// Format renders roll values as a sentence:
//
//	[4]       -> "You rolled: 4"
//	[3 5]     -> "You rolled: 3 and 5 (total: 8)"
//	[2 2 6]   -> "You rolled: 2, 2, 6 (total: 10)"
//
// An empty slice is rejected with ErrInvalidArgument.
func Format(results []int) (string, error) {
	switch len(results) {
	case 0:
		return "", errEmpty()
	case 1:
		return "You rolled: " + strconv.Itoa(results[0]), nil
	case 2:
		x, y := results[0], results[1]
		return "You rolled: " + strconv.Itoa(x) + " and " + strconv.Itoa(y) +
			" (total: " + strconv.Itoa(x+y) + ")", nil
	}

	var b strings.Builder
	b.WriteString("You rolled: ")
	total := 0
	for i, v := range results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(v))
		total += v
	}
	b.WriteString(" (total: ")
	b.WriteString(strconv.Itoa(total))
	b.WriteString(")")
	return b.String(), nil
}
