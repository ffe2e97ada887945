package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, msg string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(msg), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := worktree.Add("notes.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}
	hash, err := worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

func TestDetector_Detect(t *testing.T) {
	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "Add timer modes\n\nLonger body.")

	info, err := NewDetector().Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.Commit != hash.String() {
		t.Errorf("Commit = %s, want %s", info.Commit, hash)
	}
	if info.Branch != "master" && info.Branch != "main" {
		t.Errorf("Unexpected branch: %s", info.Branch)
	}
	if info.CommitMsg != "Add timer modes" {
		t.Errorf("CommitMsg = %q, want subject line only", info.CommitMsg)
	}
}

func TestDetector_Detect_FeatureBranchFromSubdir(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "Initial commit")

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature/add-login-form"),
		Create: true,
	}); err != nil {
		t.Fatalf("Failed to checkout branch: %v", err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:xvierd/pomo-cli.git"},
	}); err != nil {
		t.Fatalf("Failed to add remote: %v", err)
	}

	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), sub)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Branch != "feature/add-login-form" {
		t.Errorf("Branch = %q", info.Branch)
	}
	if info.Repository != "xvierd/pomo-cli" {
		t.Errorf("Repository = %q", info.Repository)
	}
}

func TestDetector_Detect_NoCommits(t *testing.T) {
	dir, _ := initRepo(t)

	info, err := NewDetector().Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Commit != "" || info.CommitMsg != "" {
		t.Errorf("expected no commit info, got %+v", info)
	}
}

func TestDetector_Detect_NoGitRepo(t *testing.T) {
	_, err := NewDetector().Detect(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("Detect() error = %v, want ErrNotRepository", err)
	}
}

func TestDetector_Detect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewDetector().Detect(ctx, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Detect() error = %v, want context.Canceled", err)
	}
}

func TestExtractRepoName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"git@github.com:user/repo.git", "user/repo"},
		{"https://github.com/user/repo.git", "user/repo"},
		{"https://gitlab.com/org/project/", "org/project"},
		{"ssh://git@host.example/team/repo.git", "team/repo"},
		{"/path/to/repo", "/path/to/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := extractRepoName(tt.url); got != tt.expected {
				t.Errorf("extractRepoName(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		commit   string
		expected string
	}{
		{"abcdef1234567890abcdef1234567890abcdef12", "abcdef1"},
		{"short", "short"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.commit, func(t *testing.T) {
			if got := ShortCommit(tt.commit); got != tt.expected {
				t.Errorf("ShortCommit(%q) = %q, want %q", tt.commit, got, tt.expected)
			}
		})
	}
}
