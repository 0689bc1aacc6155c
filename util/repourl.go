// Package util - repository URL normalization. Repositories are keyed by
// normalized URL, so registration and ingestion must agree on the canonical
// form before any lookup.
//
//revive:disable-next-line:var-naming
package util

import "strings"

// NormalizeRepoURL canonicalizes a source repository URL:
// SSH remotes are rewritten to HTTPS form, the .git suffix and trailing
// slashes are stripped, and the result is lowercased.
// Example: git@github.com:Acme/Shop.git -> https://github.com/acme/shop
func NormalizeRepoURL(rawURL string) string {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return ""
	}

	// ssh://git@host/path and git@host:path remotes
	url = strings.TrimPrefix(url, "ssh://")
	if rest, ok := strings.CutPrefix(url, "git@"); ok {
		// git@github.com:org/repo -> github.com/org/repo
		rest = strings.Replace(rest, ":", "/", 1)
		url = "https://" + rest
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	url = strings.Replace(url, "http://", "https://", 1)

	url = strings.TrimRight(url, "/")
	url = strings.TrimSuffix(url, ".git")
	url = strings.TrimRight(url, "/")

	return strings.ToLower(url)
}
