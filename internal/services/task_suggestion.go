package services

import (
	"regexp"
	"strings"

	"github.com/xvierd/pomo-cli/internal/ports"
)

// trunkBranches carry no task intent of their own; the last commit subject
// is used instead.
var trunkBranches = map[string]bool{
	"main":          true,
	"master":        true,
	"develop":       true,
	"dev":           true,
	"trunk":         true,
	"HEAD detached": true,
}

// issuePrefix matches ticket keys such as "123-" or "ABC-42-" at the start
// of a branch slug.
var issuePrefix = regexp.MustCompile(`^([A-Za-z]+-)?[0-9]+[-_]`)

// SuggestTask derives a draft task note from git context. It returns an
// empty string when nothing useful can be derived.
func SuggestTask(info *ports.GitInfo) string {
	if info == nil {
		return ""
	}

	branch := strings.TrimSpace(info.Branch)
	if branch != "" && !trunkBranches[branch] {
		if s := humanizeBranch(branch); s != "" {
			return s
		}
	}
	return strings.TrimSpace(info.CommitMsg)
}

// humanizeBranch turns "feature/ABC-12-add-login_form" into "add login form".
func humanizeBranch(branch string) string {
	slug := branch
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		slug = slug[i+1:]
	}
	slug = issuePrefix.ReplaceAllString(slug, "")
	slug = strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return strings.Join(strings.Fields(slug), " ")
}
