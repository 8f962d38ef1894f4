package site

import (
	"regexp"
	"strings"
)

// MarkActive highlights the navigation links of page: every anchor carrying
// data-page="<page>" gains the active class and its text is wrapped in <strong>.
func MarkActive(content, page string) string {
	re := regexp.MustCompile(`(<a[^>]*data-page="` + regexp.QuoteMeta(page) + `"[^>]*>)([^<]*)(</a>)`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		m := re.FindStringSubmatch(match)
		opening, text, closing := m[1], m[2], m[3]
		if strings.Contains(opening, `class="`) {
			opening = strings.Replace(opening, `class="`, `class="active `, 1)
		} else {
			opening = strings.TrimSuffix(opening, ">") + ` class="active">`
		}
		return opening + "<strong>" + text + "</strong>" + closing
	})
}
