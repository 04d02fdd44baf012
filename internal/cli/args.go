package cli

import (
	"strconv"
	"strings"
)

// NormalizeListArgs folds space-separated values after a list flag into one
// comma-separated value, so "--temperatures 0.0 0.5" parses like
// "--temperatures 0.0,0.5". Only numeric tokens are folded.
func NormalizeListArgs(args []string, listFlags ...string) []string {
	isList := make(map[string]bool, len(listFlags))
	for _, name := range listFlags {
		isList["--"+name] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		out = append(out, arg)
		if !isList[arg] {
			continue
		}

		var values []string
		for i+1 < len(args) && isNumber(args[i+1]) {
			values = append(values, args[i+1])
			i++
		}
		if len(values) > 0 {
			out = append(out, strings.Join(values, ","))
		}
	}
	return out
}

func isNumber(s string) bool {
	for _, part := range strings.Split(s, ",") {
		if _, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			return false
		}
	}
	return true
}
