// Package cookiejarlist adapts a rules.RuleSet to net/http/cookiejar's
// PublicSuffixList interface, for direct use with http.Client's Jar.
//
// Grounded on the teacher's cookiejarlist.go, generalized from a single
// process-wide compiled-in list to any rule set the caller supplies.
package cookiejarlist

import (
	"fmt"
	"net/http/cookiejar"

	"github.com/globalsign/etld/host"
	"github.com/globalsign/etld/rules"
)

// list implements cookiejar.PublicSuffixList over a *rules.RuleSet using
// the COOKIE policy, by definition the policy a cookie jar wants.
type list struct {
	rs      *rules.RuleSet
	release string
}

// New builds a cookiejar.PublicSuffixList backed by rs. release is a
// free-form label (e.g. a PSL commit SHA) surfaced by String().
func New(rs *rules.RuleSet, release string) cookiejar.PublicSuffixList {
	return list{rs: rs, release: release}
}

// PublicSuffix implements cookiejar.PublicSuffixList. On any resolution
// failure (too few labels, trailing dot, invalid IDNA) it returns domain
// unchanged, matching the net/http/cookiejar contract that PublicSuffix
// never errors - an unresolvable suffix simply disables cookie scoping
// above domain for that host.
func (l list) PublicSuffix(domain string) string {
	h, err := host.New(domain, true, 0, 0)
	if err != nil {
		return domain
	}
	rd, err := l.rs.Resolve(h, rules.COOKIE)
	if err != nil {
		return domain
	}
	content, ok := rd.Suffix().Content()
	if !ok {
		return domain
	}
	return content
}

func (l list) String() string {
	return fmt.Sprintf("public suffix list, release %s", l.release)
}
