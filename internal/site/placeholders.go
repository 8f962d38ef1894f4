package site

import (
	"slices"
	"strings"
)

// ReplacePlaceholders replaces every {{KEY}} in content with vars[KEY]. Replacement is a single
// pass, so placeholder text inside a substituted value is left alone. Unknown placeholders are
// kept verbatim.
func ReplacePlaceholders(content string, vars map[string]string) string {
	if len(vars) == 0 {
		return content
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(content)
}
