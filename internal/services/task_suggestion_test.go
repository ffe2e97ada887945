package services

import (
	"testing"

	"github.com/xvierd/pomo-cli/internal/ports"
)

func TestSuggestTask(t *testing.T) {
	tests := []struct {
		name string
		info *ports.GitInfo
		want string
	}{
		{"nil info", nil, ""},
		{"feature branch", &ports.GitInfo{Branch: "feature/add-login-form", CommitMsg: "wip"}, "add login form"},
		{"nested prefix", &ports.GitInfo{Branch: "user/fix/cache_eviction"}, "cache eviction"},
		{"ticket key", &ports.GitInfo{Branch: "bugfix/ABC-42-null-deref"}, "null deref"},
		{"numeric ticket", &ports.GitInfo{Branch: "123-tidy-docs"}, "tidy docs"},
		{"main uses commit", &ports.GitInfo{Branch: "main", CommitMsg: "Bump deps"}, "Bump deps"},
		{"master uses commit", &ports.GitInfo{Branch: "master", CommitMsg: " Initial commit "}, "Initial commit"},
		{"detached uses commit", &ports.GitInfo{Branch: "HEAD detached", CommitMsg: "Release v1"}, "Release v1"},
		{"empty slug falls back", &ports.GitInfo{Branch: "feature/", CommitMsg: "Fix typo"}, "Fix typo"},
		{"nothing known", &ports.GitInfo{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestTask(tt.info); got != tt.want {
				t.Errorf("SuggestTask() = %q, want %q", got, tt.want)
			}
		})
	}
}
