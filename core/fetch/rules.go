// Package fetch — URL rules.
// Validates and normalizes the single URL a run is given.
package fetch

import (
	"net/url"
	"path"
	"strings"

	"github.com/gaurav-prasanna/threadpipe/core"
)

// staticExtensions are file extensions that never hold a readable article.
var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true, ".bmp": true,
	".css": true, ".js": true, ".mjs": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".mp4": true, ".webm": true, ".mp3": true, ".wav": true,
	".zip": true, ".tar": true, ".gz": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// ValidateURL parses rawURL and requires an absolute http or https URL
// that does not point at a static asset.
func ValidateURL(rawURL string) (*url.URL, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, &core.InvalidInputError{Field: "url", Reason: "empty"}
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &core.InvalidInputError{Field: "url", Reason: err.Error()}
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &core.InvalidInputError{Field: "url", Reason: rawURL + " must use http or https (e.g. https://example.com)"}
	}
	if parsed.Host == "" {
		return nil, &core.InvalidInputError{Field: "url", Reason: rawURL + " has no host"}
	}
	if IsStaticAsset(parsed) {
		return nil, &core.InvalidInputError{Field: "url", Reason: rawURL + " points at a static asset, not a page"}
	}
	return parsed, nil
}

// IsStaticAsset checks if a URL points to a static asset (image, CSS, JS, etc.).
func IsStaticAsset(u *url.URL) bool {
	ext := strings.ToLower(path.Ext(u.Path))
	return staticExtensions[ext]
}

// NormalizeURL strips the fragment, which is never sent to the server.
func NormalizeURL(u *url.URL) string {
	clone := *u
	clone.Fragment = ""
	clone.RawFragment = ""
	return clone.String()
}
