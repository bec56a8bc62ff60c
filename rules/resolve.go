package rules

import (
	"fmt"

	"github.com/globalsign/etld/domain"
	"github.com/globalsign/etld/host"
	"github.com/globalsign/etld/suffix"
)

// Policy selects which PSL section(s) the resolver consults.
type Policy uint8

const (
	// COOKIE consults both sections and prefers the longer match, with
	// PRIVATE winning ties - the policy most callers building a cookie
	// jar or general-purpose domain parser want.
	COOKIE Policy = iota
	// ICANN consults only the ICANN section.
	ICANN
	// PRIVATE consults only the PRIVATE section.
	PRIVATE
)

func (p Policy) String() string {
	switch p {
	case ICANN:
		return "icann"
	case PRIVATE:
		return "private"
	default:
		return "cookie"
	}
}

// ParsePolicy parses the CLI/config spelling of a policy (cookie|icann|private).
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "cookie":
		return COOKIE, nil
	case "icann":
		return ICANN, nil
	case "private":
		return PRIVATE, nil
	default:
		return 0, fmt.Errorf("rules: unknown policy %q", s)
	}
}

// matchSection implements the per-section longest-match walk of spec §4.E:
// exact children are preferred over the wildcard child at every node; an
// exact child carrying the exception flag stops the walk immediately and
// backs the match off by one label. best is the number of matched suffix
// labels, or -1 if the section has no rule matching any prefix of labels.
func matchSection(root *node, labels []string) int {
	best := -1
	cur := root
	for i := 0; i < len(labels); i++ {
		label := labels[i]
		if child, ok := cur.children[label]; ok {
			if child.exception {
				return i
			}
			if child.terminal {
				best = i + 1
			}
			cur = child
			continue
		}
		if wc, ok := cur.children[wildcardKey]; ok {
			best = i + 1
			cur = wc
			continue
		}
		break
	}
	return best
}

// Resolve runs the longest-match algorithm against H under policy and
// composes the result into a domain.ResolvedDomain.
func (rs *RuleSet) Resolve(h host.Host, policy Policy) (domain.ResolvedDomain, error) {
	if h.IsNull() {
		return domain.ResolvedDomain{}, fmt.Errorf("%w: null host", domain.ErrInvalidDomain)
	}
	if c, _ := h.Content(); c == "" {
		return domain.ResolvedDomain{}, fmt.Errorf("%w: empty host", domain.ErrInvalidDomain)
	}
	if h.Count() < 2 {
		return domain.ResolvedDomain{}, fmt.Errorf("%w: host %q has fewer than two labels", domain.ErrUnableToResolveDomain, h)
	}
	if h.HasTrailingDot() {
		return domain.ResolvedDomain{}, fmt.Errorf("%w: host %q has a trailing dot", domain.ErrUnableToResolveDomain, h)
	}

	ascii, err := h.ToASCII()
	if err != nil {
		return domain.ResolvedDomain{}, err
	}
	labels := ascii.Labels()

	bestICANN := matchSection(rs.icann, labels)
	bestPrivate := matchSection(rs.private, labels)

	var best int
	var sec suffix.Section

	switch policy {
	case ICANN:
		if bestICANN < 0 {
			return domain.ResolvedDomain{}, fmt.Errorf("%w: %q has no suffix in the ICANN section", domain.ErrUnableToResolveDomain, h)
		}
		best, sec = bestICANN, suffix.ICANN
	case PRIVATE:
		if bestPrivate < 0 {
			return domain.ResolvedDomain{}, fmt.Errorf("%w: %q has no suffix in the PRIVATE section", domain.ErrUnableToResolveDomain, h)
		}
		best, sec = bestPrivate, suffix.PRIVATE
	default: // COOKIE
		switch {
		case bestICANN < 0 && bestPrivate < 0:
			best, sec = 1, suffix.UNKNOWN
		case bestPrivate >= bestICANN:
			best, sec = bestPrivate, suffix.PRIVATE
		default:
			best, sec = bestICANN, suffix.ICANN
		}
	}

	if best >= len(labels) {
		return domain.ResolvedDomain{}, fmt.Errorf("%w: %q equals its own public suffix", domain.ErrUnableToResolveDomain, h)
	}

	suffixHost, err := trimToPrefix(ascii, best)
	if err != nil {
		return domain.ResolvedDomain{}, err
	}
	s, err := suffix.FromHost(suffixHost, sec)
	if err != nil {
		return domain.ResolvedDomain{}, err
	}
	return domain.New(h, s)
}

// trimToPrefix returns the Host consisting of h's first n labels (TLD-first
// order), derived via WithoutLabel rather than re-parsing a string.
func trimToPrefix(h host.Host, n int) (host.Host, error) {
	total := h.Count()
	if n == total {
		return h, nil
	}
	if n == 0 {
		return h.WithoutLabel(allOffsets(total)...)
	}
	trim := make([]int, 0, total-n)
	for i := n; i < total; i++ {
		trim = append(trim, i)
	}
	return h.WithoutLabel(trim...)
}

func allOffsets(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
