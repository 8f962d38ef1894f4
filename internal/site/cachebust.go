package site

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// assetPathPattern matches local asset paths eligible for fingerprinting.
var assetPathPattern = regexp.MustCompile(`^/?assets/(?:css|js|images|documents)/[^"'?]+$`)

// assetRefPattern locates href/src attributes pointing at local assets. RE2 has no
// backreferences, so the closing quote is captured separately and compared to the opening one.
var assetRefPattern = regexp.MustCompile(`((?:href|src)=)(["'])(/?assets/(?:css|js|images|documents)/[^"'?]+)(["'])`)

// fingerprinter hashes asset files once per build.
type fingerprinter struct {
	srcDir string
	hashes map[string]string
}

func newFingerprinter(srcDir string) *fingerprinter {
	return &fingerprinter{srcDir: srcDir, hashes: make(map[string]string)}
}

// hash returns the first 8 hex digits of the MD5 of the asset, or "" if it does not exist.
func (f *fingerprinter) hash(ref string) string {
	rel := strings.TrimLeft(ref, "/")
	if h, ok := f.hashes[rel]; ok {
		return h
	}

	h := ""
	if file, err := os.Open(filepath.Join(f.srcDir, filepath.FromSlash(rel))); err == nil {
		sum := md5.New()
		if _, err := io.Copy(sum, file); err == nil {
			h = hex.EncodeToString(sum.Sum(nil))[:8]
		}
		_ = file.Close()
	}
	f.hashes[rel] = h
	return h
}

// CacheBust appends ?v=<hash> to href and src attributes referencing files under
// assets/{css,js,images,documents}/ that exist in srcDir. Only references that the HTML
// tokenizer reports as attribute values are rewritten, so matching text in comments or
// scripts is left untouched.
func CacheBust(content, srcDir string) string {
	return newFingerprinter(srcDir).apply(content)
}

func (f *fingerprinter) apply(content string) string {
	refs := assetAttributeRefs(content)
	if len(refs) == 0 {
		return content
	}

	matches := assetRefPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content) + len(matches)*11)
	last := 0
	for _, m := range matches {
		openQuote, closeQuote := content[m[4]:m[5]], content[m[8]:m[9]]
		ref := content[m[6]:m[7]]
		if openQuote != closeQuote || !refs[ref] {
			continue
		}
		h := f.hash(ref)
		if h == "" {
			continue
		}
		// Insert the query right after the path, before the closing quote.
		b.WriteString(content[last:m[7]])
		b.WriteString("?v=")
		b.WriteString(h)
		last = m[7]
	}
	b.WriteString(content[last:])
	return b.String()
}

// assetAttributeRefs collects href/src attribute values that look like local asset paths.
func assetAttributeRefs(content string) map[string]bool {
	refs := make(map[string]bool)
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return refs
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if k := string(key); (k == "href" || k == "src") && assetPathPattern.Match(val) {
					refs[string(val)] = true
				}
			}
		}
	}
}
