package fetch

import (
	"errors"
	"testing"
)

type mockSource struct {
	body string
	err  error
}

func (m mockSource) Get(uri string) (string, error) {
	return m.body, m.err
}

func TestGitHubRetrieverLatestRelease(t *testing.T) {
	g := GitHubRetriever{Source: mockSource{body: `[{"sha":"abc123"}]`}}
	got, err := g.LatestRelease()
	if err != nil {
		t.Fatalf("LatestRelease: %v", err)
	}
	if got != "abc123" {
		t.Errorf("LatestRelease() = %q, want %q", got, "abc123")
	}
}

func TestGitHubRetrieverLatestReleaseEmpty(t *testing.T) {
	g := GitHubRetriever{Source: mockSource{body: `[]`}}
	if _, err := g.LatestRelease(); err == nil {
		t.Error("expected an error when no commits are returned")
	}
}

func TestGitHubRetrieverSourceError(t *testing.T) {
	g := GitHubRetriever{Source: mockSource{err: errors.New("boom")}}
	if _, err := g.LatestRelease(); err == nil {
		t.Error("expected the source error to propagate")
	}
}

func TestGitHubRetrieverList(t *testing.T) {
	g := GitHubRetriever{Source: mockSource{body: "com\n"}}
	got, err := g.List("abc123")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got != "com\n" {
		t.Errorf("List() = %q, want %q", got, "com\n")
	}
}
