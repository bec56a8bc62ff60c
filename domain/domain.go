// Package domain implements ResolvedDomain, the composite result of
// resolving a host against the Public Suffix List: the full host, the
// matched Suffix, the registrable domain, and the sub-domain. All four
// slots are kept consistent by deriving registrable and sub-domain purely
// by computation from host and suffix (see New) - never by ad hoc field
// surgery - so the decomposition invariant in spec §3 never drifts.
package domain

import (
	"errors"
	"fmt"

	"github.com/globalsign/etld/host"
	"github.com/globalsign/etld/suffix"
)

var (
	// ErrInvalidDomain mirrors host.ErrInvalidDomain for composite-level
	// failures (e.g. an empty sub-domain argument).
	ErrInvalidDomain = errors.New("domain: invalid domain")
	// ErrUnableToResolveDomain is raised when a host/suffix pair cannot be
	// composed into a ResolvedDomain (suffix not strictly shorter than
	// host, suffix not actually a suffix of host, ...).
	ErrUnableToResolveDomain = errors.New("domain: unable to resolve domain")
	// ErrUnableToResolveSubDomain is raised by WithSubDomain when there is
	// no registrable domain to attach a sub-domain to.
	ErrUnableToResolveSubDomain = errors.New("domain: unable to resolve sub-domain")
)

// ResolvedDomain holds the four immutable slots described in spec §3.
// Registrable and sub-domain are the null Host when not applicable.
type ResolvedDomain struct {
	host        host.Host
	suffix      suffix.Suffix
	registrable host.Host
	subDomain   host.Host
}

// New composes a ResolvedDomain from a host and an already-matched suffix.
// A null suffix yields a ResolvedDomain with no registrable domain and no
// sub-domain (the host simply wasn't resolved against the PSL).
func New(h host.Host, s suffix.Suffix) (ResolvedDomain, error) {
	if h.IsNull() {
		return ResolvedDomain{}, fmt.Errorf("%w: null host", ErrInvalidDomain)
	}
	if s.Host.IsNull() {
		return ResolvedDomain{host: h}, nil
	}
	n, sc := h.Count(), s.Count()
	if sc >= n {
		return ResolvedDomain{}, fmt.Errorf("%w: suffix %q is not strictly shorter than host %q", ErrUnableToResolveDomain, s, h)
	}
	registrable, subDomain, err := split(h, sc)
	if err != nil {
		return ResolvedDomain{}, err
	}
	return ResolvedDomain{host: h, suffix: s, registrable: registrable, subDomain: subDomain}, nil
}

// split derives the registrable domain (suffixLabels+1 labels, TLD-aligned
// with h) and the sub-domain (everything above it) by slicing h's own label
// sequence through Host.WithoutLabel, rather than re-parsing any string.
func split(h host.Host, suffixLabels int) (registrable, subDomain host.Host, err error) {
	n := h.Count()
	best := suffixLabels // registrable keeps offsets [0, best]

	registrable = h
	if best+1 < n {
		trim := make([]int, 0, n-best-1)
		for i := best + 1; i < n; i++ {
			trim = append(trim, i)
		}
		if registrable, err = h.WithoutLabel(trim...); err != nil {
			return host.Host{}, host.Host{}, err
		}

		keep := make([]int, 0, best+1)
		for i := 0; i <= best; i++ {
			keep = append(keep, i)
		}
		if subDomain, err = h.WithoutLabel(keep...); err != nil {
			return host.Host{}, host.Host{}, err
		}
	}
	return registrable, subDomain, nil
}

// Host returns the full resolved host.
func (d ResolvedDomain) Host() host.Host { return d.host }

// Suffix returns the matched suffix (the null Suffix if none was attached).
func (d ResolvedDomain) Suffix() suffix.Suffix { return d.suffix }

// Registrable returns the registrable domain. ok is false when the host has
// no suffix attached.
func (d ResolvedDomain) Registrable() (host.Host, bool) {
	return d.registrable, !d.registrable.IsNull()
}

// SubDomain returns the sub-domain. ok is false when there are no labels
// above the registrable domain.
func (d ResolvedDomain) SubDomain() (host.Host, bool) {
	return d.subDomain, !d.subDomain.IsNull()
}

// WithPublicSuffix replaces the suffix and recomposes registrable/sub-domain.
// h must have at least one label and no trailing dot. If s is non-null its
// content must already be a suffix of h, unless h has a single label, in
// which case it is extended by s (single-label host + new suffix).
func (d ResolvedDomain) WithPublicSuffix(s suffix.Suffix) (ResolvedDomain, error) {
	h := d.host
	if h.IsNull() {
		return ResolvedDomain{}, fmt.Errorf("%w: no host to attach a suffix to", ErrUnableToResolveDomain)
	}
	if h.HasTrailingDot() {
		return ResolvedDomain{}, fmt.Errorf("%w: host %q has a trailing dot", ErrUnableToResolveDomain, h)
	}

	if h.Count() < 2 {
		if s.Host.IsNull() {
			return ResolvedDomain{host: h}, nil
		}
		extended, err := extendWithSuffix(h, s.Host)
		if err != nil {
			return ResolvedDomain{}, err
		}
		return New(extended, s)
	}

	if !s.Host.IsNull() && !hostEndsInSuffix(h, s.Host) {
		return ResolvedDomain{}, fmt.Errorf("%w: %q is not a suffix of %q", ErrUnableToResolveDomain, s, h)
	}
	return New(h, s)
}

func hostEndsInSuffix(h, s host.Host) bool {
	hl, sl := h.Labels(), s.Labels()
	if len(sl) >= len(hl) {
		return false
	}
	for i, l := range sl {
		if hl[i] != l {
			return false
		}
	}
	return true
}

func extendWithSuffix(h, s host.Host) (host.Host, error) {
	content, ok := h.Content()
	if !ok {
		return h, nil
	}
	sContent, ok := s.Content()
	if !ok {
		return h, nil
	}
	return host.New(content+"."+sContent, true, h.ASCIIOption(), h.UnicodeOption())
}

// WithSubDomain replaces the sub-domain portion. sd inherits the IDNA form
// of the host: if the host is Unicode anywhere, sd is converted to Unicode;
// otherwise ASCII.
func (d ResolvedDomain) WithSubDomain(sd string) (ResolvedDomain, error) {
	if sd == "" {
		return ResolvedDomain{}, fmt.Errorf("%w: sub-domain must not be empty", ErrInvalidDomain)
	}
	reg, ok := d.Registrable()
	if !ok {
		return ResolvedDomain{}, fmt.Errorf("%w: %q has no registrable domain", ErrUnableToResolveSubDomain, d.host)
	}
	regContent, _ := reg.Content()

	combined, err := host.New(sd+"."+regContent, true, d.host.ASCIIOption(), d.host.UnicodeOption())
	if err != nil {
		return ResolvedDomain{}, err
	}
	if hostHasUnicode(d.host) {
		combined, err = combined.ToUnicode()
	} else {
		combined, err = combined.ToASCII()
	}
	if err != nil {
		return ResolvedDomain{}, err
	}
	return New(combined, d.suffix)
}

func hostHasUnicode(h host.Host) bool {
	content, ok := h.Content()
	if !ok {
		return false
	}
	for i := 0; i < len(content); i++ {
		if content[i] >= 0x80 {
			return true
		}
	}
	return false
}

// Resolve attaches an explicit Suffix, re-classifying without recomputing
// from rules. Non-mutating (returns d unchanged) when s already equals the
// current suffix.
func (d ResolvedDomain) Resolve(s suffix.Suffix) (ResolvedDomain, error) {
	if s.Equal(d.suffix) {
		return d, nil
	}
	return New(d.host, s)
}

// ToASCII converts both the host and the suffix to ASCII in lockstep.
func (d ResolvedDomain) ToASCII() (ResolvedDomain, error) {
	h, err := d.host.ToASCII()
	if err != nil {
		return ResolvedDomain{}, err
	}
	s, err := d.suffix.ToASCII()
	if err != nil {
		return ResolvedDomain{}, err
	}
	return New(h, s)
}

// ToUnicode converts both the host and the suffix to Unicode in lockstep.
func (d ResolvedDomain) ToUnicode() (ResolvedDomain, error) {
	h, err := d.host.ToUnicode()
	if err != nil {
		return ResolvedDomain{}, err
	}
	s, err := d.suffix.ToUnicode()
	if err != nil {
		return ResolvedDomain{}, err
	}
	return New(h, s)
}

// WithASCIIOption propagates a new ASCII option bitmask to both halves.
func (d ResolvedDomain) WithASCIIOption(o host.Option) ResolvedDomain {
	d.host = d.host.WithASCIIOption(o)
	d.suffix.Host = d.suffix.Host.WithASCIIOption(o)
	if rebuilt, err := New(d.host, d.suffix); err == nil {
		return rebuilt
	}
	return d
}

// WithUnicodeOption propagates a new Unicode option bitmask to both halves.
func (d ResolvedDomain) WithUnicodeOption(o host.Option) ResolvedDomain {
	d.host = d.host.WithUnicodeOption(o)
	d.suffix.Host = d.suffix.Host.WithUnicodeOption(o)
	if rebuilt, err := New(d.host, d.suffix); err == nil {
		return rebuilt
	}
	return d
}
