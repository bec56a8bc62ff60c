package etld

import (
	"bytes"
	"errors"
	"testing"

	"github.com/globalsign/etld/fetch"
	"github.com/globalsign/etld/rules"
)

const fixtureList = `// ===BEGIN ICANN DOMAINS===
com
co.uk
uk
// ===END ICANN DOMAINS===

// ===BEGIN PRIVATE DOMAINS===
github.io
// ===END PRIVATE DOMAINS===
`

// mockRetriever implements fetch.Retriever over an in-memory fixture, for
// tests that must not touch the network.
type mockRetriever struct {
	release string
	text    string
	err     error
}

func (m mockRetriever) LatestRelease() (string, error) { return m.release, m.err }
func (m mockRetriever) List(release string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func resetState(t *testing.T) {
	t.Helper()
	if err := UpdateWithRetriever(mockRetriever{release: "fixture", text: fixtureList}); err != nil {
		t.Fatalf("UpdateWithRetriever: %v", err)
	}
	t.Cleanup(func() {
		current.Store(state{})
	})
}

func TestUpdateWithRetriever(t *testing.T) {
	resetState(t)

	if got := Release(); got != "fixture" {
		t.Errorf("Release() = %q, want %q", got, "fixture")
	}

	if suffix, icann := PublicSuffix("www.example.co.uk"); suffix != "co.uk" || !icann {
		t.Errorf("PublicSuffix(www.example.co.uk) = (%q, %v), want (%q, true)", suffix, icann, "co.uk")
	}

	if !HasPublicSuffix("example.github.io") {
		t.Error("HasPublicSuffix(example.github.io) = false, want true")
	}

	etld1, err := EffectiveTLDPlusOne("a.b.example.co.uk")
	if err != nil {
		t.Fatalf("EffectiveTLDPlusOne: %v", err)
	}
	if etld1 != "example.co.uk" {
		t.Errorf("EffectiveTLDPlusOne(a.b.example.co.uk) = %q, want %q", etld1, "example.co.uk")
	}
}

func TestUpdateWithRetrieverIsNoopOnSameRelease(t *testing.T) {
	resetState(t)
	before := load()

	if err := UpdateWithRetriever(mockRetriever{release: "fixture", text: "// ===END ICANN DOMAINS===\ngarbage that would fail to parse if re-parsed \x00"}); err != nil {
		t.Fatalf("UpdateWithRetriever: %v", err)
	}

	if load().rs != before.rs {
		t.Error("UpdateWithRetriever re-fetched despite an unchanged release tag")
	}
}

func TestUpdateWithRetrieverPropagatesFetchError(t *testing.T) {
	wantErr := errors.New("boom")
	if err := UpdateWithRetriever(mockRetriever{err: wantErr}); err == nil {
		t.Fatal("UpdateWithRetriever returned nil error, want non-nil")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	resetState(t)

	var buf bytes.Buffer
	if err := Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Overwrite current state before Read, to prove Read actually replaces
	// it rather than Release/PublicSuffix still reading the fixture above.
	empty, err := rules.FromText("")
	if err != nil {
		t.Fatalf("rules.FromText: %v", err)
	}
	current.Store(state{rs: empty, release: "other"})

	if err := Read(&buf); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got := Release(); got != "fixture" {
		t.Errorf("Release() after Read = %q, want %q", got, "fixture")
	}
	if suffix, icann := PublicSuffix("www.example.co.uk"); suffix != "co.uk" || !icann {
		t.Errorf("PublicSuffix after Read = (%q, %v), want (%q, true)", suffix, icann, "co.uk")
	}
}

func TestHasPublicSuffixUnresolvableHost(t *testing.T) {
	resetState(t)
	if HasPublicSuffix("not a valid host!!") {
		t.Error("HasPublicSuffix on an invalid host = true, want false")
	}
}

var _ fetch.Retriever = mockRetriever{}
