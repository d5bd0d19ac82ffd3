// Package template fills {{name}} placeholders in issue titles and bodies.
package template

import (
	"regexp"
)

var variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// Render replaces every {{name}} found in variables. Unknown placeholders are
// left untouched so literal braces in markdown survive.
func Render(text string, variables map[string]string) string {
	if len(variables) == 0 {
		return text
	}

	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if value, ok := variables[name]; ok {
			return value
		}
		return match
	})
}

// MergeVariables combines built-in values with user-supplied ones. User
// values win on collision.
func MergeVariables(builtins, user map[string]string) map[string]string {
	if len(builtins) == 0 && len(user) == 0 {
		return nil
	}

	result := make(map[string]string, len(builtins)+len(user))
	for k, v := range builtins {
		result[k] = v
	}
	for k, v := range user {
		result[k] = v
	}
	return result
}
