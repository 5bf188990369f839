// Package sanitizer removes markup from text that visitors type into the demo form, so that the
// stored values can be shown in the admin tools without escaping surprises.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of encoded markup are peeled off.
const maxPasses = 8

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

// Text strips all HTML elements from s and trims surrounding whitespace. Entities are decoded, so
// "Smith & Sons" stays as it is, and markup hidden in entities such as "&lt;b&gt;" is stripped as
// well. If an angle bracket is left over, the escaped form is returned instead.
func Text(s string) string {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	for i := 0; i < maxPasses; i++ {
		decoded := html.UnescapeString(strictPolicy.Sanitize(s))
		if decoded == s {
			break
		}
		s = decoded
	}
	if strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(strictPolicy.Sanitize(s))
	}
	return strings.TrimSpace(s)
}
