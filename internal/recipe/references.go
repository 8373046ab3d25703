package recipe

import "strings"

// ReleasePrefix is stripped from a ref to derive the recipe version.
const ReleasePrefix = "release-"

// SetReference points every git repository at ref and sets version to ref
// without its release- prefix. An empty ref removes both.
func (r *Recipe) SetReference(ref string) {
	for _, repo := range r.GitRepositories() {
		if ref != "" {
			repo["reference"] = ref
		} else {
			delete(repo, "reference")
		}
	}
	if ref != "" {
		r.Fields["version"] = strings.TrimPrefix(ref, ReleasePrefix)
	} else {
		delete(r.Fields, "version")
	}
}

// PinCommit pins repositories whose URL contains repoSlug to commit.
// It returns the number of repositories pinned.
func (r *Recipe) PinCommit(repoSlug, commit string) int {
	pinned := 0
	for _, repo := range r.GitRepositories() {
		url, _ := repo["url"].(string)
		if !strings.Contains(url, repoSlug) {
			continue
		}
		repo["reference"] = commit
		repo["reference_type"] = "commit"
		pinned++
	}
	return pinned
}
