// Package etld provides a process-wide, concurrency-safe Public Suffix List
// client: an atomically-swapped rule set plus the convenience functions most
// callers want (PublicSuffix, EffectiveTLDPlusOne, HasPublicSuffix).
//
// The package starts with an empty rule set - call Update (or Read, to load
// a previously-saved snapshot) before resolving real hosts. Callers who need
// more control - a custom HTTP client, a non-default policy, or direct access
// to the parsed rule set - should use the rules, host, and domain packages
// directly instead; this package is a thin facade over them.
//
// A list can be serialised using Write, and loaded using Read - this allows a
// caller to persist the updated internal list at shutdown and resume using it
// immediately on the next start, without a network round trip.
package etld

import (
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/globalsign/etld/fetch"
	"github.com/globalsign/etld/host"
	"github.com/globalsign/etld/rules"
)

// state is the atomically-swapped snapshot of the currently loaded list.
type state struct {
	rs      *rules.RuleSet
	release string
}

var current atomic.Value

func init() {
	empty, err := rules.FromText("")
	if err != nil {
		panic(fmt.Sprintf("etld: error while initialising an empty rule set: %s", err.Error()))
	}
	current.Store(state{rs: empty})
}

func load() state {
	return current.Load().(state)
}

// persisted is the wire format Write/Read exchange: a rules.Snapshot plus
// the release identifier it was fetched at.
type persisted struct {
	Release  string         `json:"release"`
	Snapshot rules.Snapshot `json:"snapshot"`
}

// Write atomically encodes the currently loaded public suffix list as JSON,
// compresses it, and writes it to w.
func Write(w io.Writer) error {
	zw := zlib.NewWriter(w)
	defer zw.Close()

	st := load()
	return json.NewEncoder(zw).Encode(persisted{Release: st.release, Snapshot: st.rs.ToSnapshot()})
}

// Read loads a public suffix list serialised and compressed by Write and
// uses it for future lookups.
func Read(r io.Reader) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return fmt.Errorf("etld: zlib error: %s", err.Error())
	}
	defer zr.Close()

	var p persisted
	if err := json.NewDecoder(zr).Decode(&p); err != nil {
		return fmt.Errorf("etld: json error: %s", err.Error())
	}

	rs, err := rules.FromSnapshot(p.Snapshot)
	if err != nil {
		return fmt.Errorf("etld: decoded snapshot is not a valid rule set: %s", err.Error())
	}

	current.Store(state{rs: rs, release: p.Release})
	return nil
}

// Update fetches the latest public suffix list from the official GitHub
// repository (https://github.com/publicsuffix/list) and uses it for future
// lookups.
func Update() error {
	return UpdateWithRetriever(fetch.NewGitHubRetriever(nil))
}

// UpdateWithRetriever attempts to update the internal public suffix list
// using retriever as a data source, allowing callers to fetch from a network
// share, a mirror, or a test double instead of the default GitHub mirror.
func UpdateWithRetriever(retriever fetch.Retriever) error {
	release, err := retriever.LatestRelease()
	if err != nil {
		return fmt.Errorf("etld: error while retrieving latest release: %s", err.Error())
	}

	if load().release == release {
		return nil
	}

	text, err := retriever.List(release)
	if err != nil {
		return fmt.Errorf("etld: error while retrieving release %s: %s", release, err.Error())
	}

	rs, err := rules.FromText(text)
	if err != nil {
		return err
	}

	current.Store(state{rs: rs, release: release})
	return nil
}

// Release returns the release identifier of the currently loaded list, or
// the empty string if the list was never updated or loaded.
func Release() string {
	return load().release
}

// HasPublicSuffix returns true if domain's suffix is recognised by the
// currently loaded public suffix list.
func HasPublicSuffix(domain string) bool {
	_, icann, private := resolve(domain)
	return icann || private
}

// PublicSuffix returns the public suffix of domain. The returned bool is
// true when the public suffix is managed by the Internet Corporation for
// Assigned Names and Numbers; if false, the suffix is either privately
// managed or unrecognised (the input is split on its last label). A name
// that is not a valid host yields the empty string.
func PublicSuffix(name string) (string, bool) {
	suffix, icann, _ := resolve(name)
	return suffix, icann
}

// EffectiveTLDPlusOne returns the effective top level domain plus one more
// label. For example, the eTLD+1 for "foo.bar.golang.org" is "golang.org".
func EffectiveTLDPlusOne(name string) (string, error) {
	h, err := host.New(name, true, 0, 0)
	if err != nil {
		return "", fmt.Errorf("etld: invalid domain %q: %s", name, err.Error())
	}

	rd, err := load().rs.Resolve(h, rules.COOKIE)
	if err != nil {
		return "", fmt.Errorf("etld: cannot derive eTLD+1 for domain %q: %s", name, err.Error())
	}

	registrable, ok := rd.Registrable()
	if !ok {
		return "", fmt.Errorf("etld: domain %q has no registrable portion under its suffix", name)
	}
	return registrable.String(), nil
}

// resolve runs the COOKIE policy against name and reports the matched
// suffix string and its section, falling back to the trailing label when
// name is a valid host that can't be resolved - mirroring the teacher's
// behavior of returning a best-effort suffix rather than an error from
// PublicSuffix/HasPublicSuffix. A name that is not a valid host yields "".
func resolve(name string) (suffix string, icann, private bool) {
	h, err := host.New(name, true, 0, 0)
	if err != nil {
		return "", false, false
	}

	rd, err := load().rs.Resolve(h, rules.COOKIE)
	if err != nil {
		return fallbackSuffix(name), false, false
	}

	s := rd.Suffix()
	content, _ := s.Content()
	return content, s.IsICANN(), s.IsPrivate()
}

// fallbackSuffix returns the last label of name, the "prevailing rule is *"
// behavior the original Public Suffix List algorithm falls back to when no
// rule in the list applies.
func fallbackSuffix(name string) string {
	last := name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			last = name[i+1:]
			break
		}
	}
	return last
}
