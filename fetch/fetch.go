// Package fetch retrieves the raw Public Suffix List text over HTTP. It is
// one of the external collaborators spec.md deliberately keeps out of the
// core match engine: the core only ever sees a parsed *rules.RuleSet.
//
// Grounded on the teacher's listretriever.go: a small interface so callers
// can swap in a network share, an embedded copy, or a test double, plus a
// GitHub-backed default implementation using the standard net/http client.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Source is the collaborator interface the core's documentation describes
// as "HTTP client: get(uri) -> text". Implementations may fail wrapping
// ErrUnableToLoadPublicSuffixList.
type Source interface {
	Get(uri string) (string, error)
}

// ErrUnableToLoadPublicSuffixList is the sentinel surfaced by Source.Get and
// Retriever.LatestRelease on any transport or status failure.
var ErrUnableToLoadPublicSuffixList = fmt.Errorf("fetch: unable to load public suffix list")

// httpSource implements Source with a plain *http.Client, falling back to
// http.DefaultClient when none is configured - the same defensive fallback
// listretriever.go uses for a possibly-nil client.
type httpSource struct {
	client *http.Client
}

// NewHTTPSource builds a Source backed by client. A nil client falls back
// to http.DefaultClient.
func NewHTTPSource(client *http.Client) Source {
	return httpSource{client: client}
}

func (s httpSource) Get(uri string) (string, error) {
	client := http.DefaultClient
	if s.client != nil {
		client = s.client
	}

	res, err := client.Get(uri)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %s", ErrUnableToLoadPublicSuffixList, uri, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: GET %s: status %d", ErrUnableToLoadPublicSuffixList, uri, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body of %s: %s", ErrUnableToLoadPublicSuffixList, uri, err.Error())
	}
	return string(body), nil
}

const (
	defaultCommitURL  = "https://api.github.com/repos/publicsuffix/list/commits?path=public_suffix_list.dat"
	defaultListURLFmt = "https://raw.githubusercontent.com/publicsuffix/list/%s/public_suffix_list.dat"
)

type releaseInfo struct {
	SHA string `json:"sha"`
}

// Retriever fetches the latest release tag and the raw list text for that
// release, mirroring the teacher's ListRetriever interface.
type Retriever interface {
	LatestRelease() (string, error)
	List(release string) (string, error)
}

// GitHubRetriever retrieves releases from the official publicsuffix/list
// GitHub mirror.
type GitHubRetriever struct {
	Source Source
}

// NewGitHubRetriever builds a GitHubRetriever using client for HTTP
// requests (nil selects http.DefaultClient).
func NewGitHubRetriever(client *http.Client) GitHubRetriever {
	return GitHubRetriever{Source: NewHTTPSource(client)}
}

// LatestRelease returns the commit SHA of the most recent change to
// public_suffix_list.dat.
func (g GitHubRetriever) LatestRelease() (string, error) {
	body, err := g.Source.Get(defaultCommitURL)
	if err != nil {
		return "", err
	}
	var commits []releaseInfo
	if err := json.Unmarshal([]byte(body), &commits); err != nil {
		return "", fmt.Errorf("%w: decoding commit list: %s", ErrUnableToLoadPublicSuffixList, err.Error())
	}
	if len(commits) == 0 || commits[0].SHA == "" {
		return "", fmt.Errorf("%w: no commits found for public_suffix_list.dat", ErrUnableToLoadPublicSuffixList)
	}
	return commits[0].SHA, nil
}

// List retrieves the raw PSL text for release.
func (g GitHubRetriever) List(release string) (string, error) {
	uri := fmt.Sprintf(defaultListURLFmt, release)
	text, err := g.Source.Get(uri)
	if err != nil {
		return "", err
	}
	log.Printf("fetch: retrieved public suffix list release %s (%d bytes)", release, len(text))
	return text, nil
}
