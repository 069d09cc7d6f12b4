// Package resolver turns document-relative references into absolute URLs.
package resolver

import (
	"fmt"
	"net/url"
)

// Resolve interprets href relative to the document URL base, following the
// usual reference resolution rules: absolute hrefs pass through, rooted
// hrefs replace the path, relative hrefs resolve against the base path.
func Resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parsing reference %q: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
