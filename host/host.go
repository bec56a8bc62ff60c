// Package host implements Host, an immutable, label-indexed DNS host name
// guaranteed to be IDNA-valid. Mutations produce new values; the IDNA
// conversion invariants are enforced on every construction.
package host

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/globalsign/etld/idna"
)

// Option re-exports the IDNA option bitmask so callers need not import the
// idna package directly for the common case.
type Option = idna.Option

const (
	Transitional             = idna.Transitional
	NonTransitionalToASCII   = idna.NonTransitionalToASCII
	NonTransitionalToUnicode = idna.NonTransitionalToUnicode
	CheckBidi                = idna.CheckBidi
	CheckContextJ            = idna.CheckContextJ
	UseSTD3ASCIIRules        = idna.UseSTD3ASCIIRules
)

const maxLabelLength = 63

// Error kinds, per spec §7/§8. Wrapped with context via fmt.Errorf("...: %w").
var (
	ErrInvalidDomain   = errors.New("host: invalid domain")
	ErrInvalidLabel    = errors.New("host: invalid label")
	ErrInvalidLabelKey = errors.New("host: invalid label key")
)

// Host is an ordered sequence of DNS labels stored TLD-first (reverse DNS
// order), plus the IDNA option bitmask used for its ASCII and Unicode
// conversions.
//
// The zero value is the null host: no labels, Count()==0, Content() reports
// ok=false. A Host built from the empty string is a distinct value with
// exactly one label (itself empty); Count()==1 and Content() returns ("",
// true). Neither resolves to a registrable domain (see package domain), but
// they are not interchangeable: Count differs, and Labels()/LabelAt() behave
// accordingly.
type Host struct {
	hasContent  bool
	labels      []string // reverse DNS order: labels[0] is the TLD
	trailingDot bool
	asciiOpts   Option
	unicodeOpts Option
}

// New builds a Host from a nullable content string. hasContent distinguishes
// the null host (hasContent=false, content ignored) from the empty-string
// host (hasContent=true, content="").
func New(content string, hasContent bool, asciiOpts, unicodeOpts Option) (Host, error) {
	if !hasContent {
		return Host{asciiOpts: asciiOpts, unicodeOpts: unicodeOpts}, nil
	}
	if !asciiOpts.Valid() || !unicodeOpts.Valid() {
		return Host{}, fmt.Errorf("%w: unrecognized idna option bits", ErrInvalidDomain)
	}

	s := content
	if strings.ContainsRune(s, '%') {
		if decoded, err := url.QueryUnescape(s); err == nil {
			s = decoded
		}
	}
	s = asciiLower(s)

	trailingDot := s != "." && strings.HasSuffix(s, ".")
	core := s
	if trailingDot {
		core = s[:len(s)-1]
	}

	forward := strings.Split(core, ".")
	if len(forward) > 1 {
		for _, raw := range forward {
			if raw == "" {
				return Host{}, fmt.Errorf("%w: empty label in %q", ErrInvalidLabel, content)
			}
		}
	}
	labels := make([]string, len(forward))
	for i, raw := range forward {
		lbl, err := convertLabel(raw, asciiOpts)
		if err != nil {
			return Host{}, err
		}
		labels[i] = lbl
	}
	reverseStrings(labels)

	if len(labels) >= 2 && allDigits(labels[0]) {
		return Host{}, fmt.Errorf("%w: numeric top-level label %q", ErrInvalidLabel, labels[0])
	}

	return Host{
		hasContent:  true,
		labels:      labels,
		trailingDot: trailingDot,
		asciiOpts:   asciiOpts,
		unicodeOpts: unicodeOpts,
	}, nil
}

// convertLabel validates and, for non-ASCII input, IDNA-converts a single
// label that is known not to contain a dot.
func convertLabel(raw string, asciiOpts Option) (string, error) {
	if isASCII(raw) {
		if err := validateASCIILabel(raw); err != nil {
			return "", err
		}
		return raw, nil
	}
	converted, err := idna.ToASCII(raw, asciiOpts)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidDomain, err.Error())
	}
	if err := validateASCIILabel(converted); err != nil {
		return "", err
	}
	return converted, nil
}

func validateASCIILabel(lbl string) error {
	if len(lbl) > maxLabelLength {
		return fmt.Errorf("%w: label %q exceeds %d octets", ErrInvalidLabel, lbl, maxLabelLength)
	}
	if lbl == "" {
		// Empty labels are not rejected here: New rejects an empty
		// label among several before converting, so the only empty
		// label it passes is the sole label of the empty-string host,
		// while splitInsertedValue keeps the empty labels that dots in
		// a substitution value produce.
		return nil
	}
	if strings.HasPrefix(lbl, "-") || strings.HasSuffix(lbl, "-") {
		return fmt.Errorf("%w: label %q has a leading or trailing hyphen", ErrInvalidLabel, lbl)
	}
	for _, r := range lbl {
		if !isLDH(r) {
			return fmt.Errorf("%w: label %q contains disallowed character %q", ErrInvalidLabel, lbl, r)
		}
	}
	return nil
}

func isLDH(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func asciiLower(s string) string {
	if !strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Content returns the canonical dot-joined form in forward DNS order. ok is
// false only for the null host.
func (h Host) Content() (s string, ok bool) {
	if !h.hasContent {
		return "", false
	}
	forward := make([]string, len(h.labels))
	copy(forward, h.labels)
	reverseStrings(forward)
	s = strings.Join(forward, ".")
	if h.trailingDot {
		s += "."
	}
	return s, true
}

func (h Host) String() string {
	s, ok := h.Content()
	if !ok {
		return "<null host>"
	}
	return s
}

// Count returns the number of labels: 0 for the null host, 1 for the
// empty-string host, otherwise the number of dot-separated labels (the
// trailing-dot artifact label is not counted).
func (h Host) Count() int {
	return len(h.labels)
}

// Labels returns the full label sequence, TLD first, fully materialized.
func (h Host) Labels() []string {
	out := make([]string, len(h.labels))
	copy(out, h.labels)
	return out
}

// HasTrailingDot reports whether the host's content ends in a literal dot.
func (h Host) HasTrailingDot() bool {
	return h.trailingDot
}

// ASCIIOption returns the host's ASCII conversion option bitmask.
func (h Host) ASCIIOption() Option { return h.asciiOpts }

// UnicodeOption returns the host's Unicode conversion option bitmask.
func (h Host) UnicodeOption() Option { return h.unicodeOpts }

func (h Host) normalizeKey(k int) (int, bool) {
	n := h.Count()
	if k < 0 {
		k += n
	}
	if k < 0 || k >= n {
		return 0, false
	}
	return k, true
}

// LabelAt returns the label at signed offset k (negative counts from the
// right). ok is false, with no panic, when k is out of range.
func (h Host) LabelAt(k int) (string, bool) {
	idx, ok := h.normalizeKey(k)
	if !ok {
		return "", false
	}
	return h.labels[idx], true
}

// Keys returns every offset (in the canonical, positive, TLD-first indexing)
// whose label equals s.
func (h Host) Keys(s string) []int {
	var out []int
	for i, l := range h.labels {
		if l == s {
			out = append(out, i)
		}
	}
	return out
}

// Equal reports structural equality: same label sequence and same IDNA
// options.
func (h Host) Equal(o Host) bool {
	if h.hasContent != o.hasContent || h.trailingDot != o.trailingDot ||
		h.asciiOpts != o.asciiOpts || h.unicodeOpts != o.unicodeOpts {
		return false
	}
	if len(h.labels) != len(o.labels) {
		return false
	}
	for i := range h.labels {
		if h.labels[i] != o.labels[i] {
			return false
		}
	}
	return true
}

// IsNull reports whether h is the null host (no content at all).
func (h Host) IsNull() bool {
	return !h.hasContent
}

// WithLabel replaces the label at offset k with v, which may itself contain
// dots (treated as a sequence of labels substituted in place). k == Count()
// prepends (becomes the new leftmost label); k == -Count()-1 appends
// (becomes the new TLD).
func (h Host) WithLabel(k int, v string) (Host, error) {
	n := h.Count()

	inserted, err := splitInsertedValue(v)
	if err != nil {
		return Host{}, err
	}

	// k == -(n+1) is the append boundary (new TLD): it inserts ahead of
	// the whole reversed label sequence without replacing labels[0], so
	// it cannot go through the ordinary normalizeKey-style offset below.
	if k == -(n + 1) {
		newLabels := make([]string, 0, n+len(inserted))
		newLabels = append(newLabels, inserted...)
		newLabels = append(newLabels, h.labels...)
		return rebuild(newLabels, h.trailingDot, h.asciiOpts, h.unicodeOpts)
	}

	pos := k
	if pos < 0 {
		pos += n
	}
	if pos < 0 || pos > n {
		return Host{}, fmt.Errorf("%w: offset %d out of range for host with %d labels", ErrInvalidLabelKey, k, n)
	}

	newLabels := make([]string, 0, n+len(inserted))
	newLabels = append(newLabels, h.labels[:pos]...)
	newLabels = append(newLabels, inserted...)
	if pos < n {
		newLabels = append(newLabels, h.labels[pos+1:]...)
	}

	return rebuild(newLabels, h.trailingDot, h.asciiOpts, h.unicodeOpts)
}

// splitInsertedValue turns a (possibly dotted) substitution value into its
// label sequence. A dot at position 0 or at the last position produces an
// empty label there, exactly as a literal empty label typed by the caller
// would: with_label and append are treated identically (spec §9 open
// question resolved in SPEC_FULL.md §4.B).
func splitInsertedValue(v string) ([]string, error) {
	if v == "" {
		return nil, fmt.Errorf("%w: replacement label must not be empty", ErrInvalidLabel)
	}
	parts := strings.Split(asciiLower(v), ".")
	out := make([]string, len(parts))
	for i, p := range parts {
		lbl, err := convertLabel(p, 0)
		if err != nil {
			return nil, err
		}
		out[i] = lbl
	}
	reverseStrings(out)
	return out, nil
}

// WithoutLabel removes the labels at the given offsets. Keys are normalized
// to positive offsets, deduplicated, and validated; removing every label
// yields the null Host.
func (h Host) WithoutLabel(keys ...int) (Host, error) {
	n := h.Count()
	remove := make(map[int]bool, len(keys))
	for _, k := range keys {
		idx, ok := h.normalizeKey(k)
		if !ok {
			return Host{}, fmt.Errorf("%w: offset %d out of range for host with %d labels", ErrInvalidLabelKey, k, n)
		}
		remove[idx] = true
	}
	if len(remove) == n {
		return Host{asciiOpts: h.asciiOpts, unicodeOpts: h.unicodeOpts}, nil
	}
	newLabels := make([]string, 0, n-len(remove))
	for i, l := range h.labels {
		if !remove[i] {
			newLabels = append(newLabels, l)
		}
	}
	return rebuild(newLabels, h.trailingDot, h.asciiOpts, h.unicodeOpts)
}

// Prepend is a convenience wrapper over WithLabel that adds v as the new
// leftmost label (e.g. Prepend("www") on "example.com" yields
// "www.example.com"): k = Count() appends to the TLD-first label sequence,
// which is the leftmost position in forward DNS order.
func (h Host) Prepend(v string) (Host, error) {
	return h.WithLabel(h.Count(), v)
}

// Append is a convenience wrapper over WithLabel that adds v as the new TLD
// (e.g. Append("com") on "example" yields "example.com"): k = -Count()-1
// inserts before the current TLD in the reversed label sequence.
func (h Host) Append(v string) (Host, error) {
	return h.WithLabel(-h.Count()-1, v)
}

func rebuild(labels []string, trailingDot bool, asciiOpts, unicodeOpts Option) (Host, error) {
	if len(labels) >= 2 && allDigits(labels[0]) {
		return Host{}, fmt.Errorf("%w: numeric top-level label %q", ErrInvalidLabel, labels[0])
	}
	return Host{
		hasContent:  true,
		labels:      labels,
		trailingDot: trailingDot,
		asciiOpts:   asciiOpts,
		unicodeOpts: unicodeOpts,
	}, nil
}

// ToASCII converts every label to its ASCII (Punycode) form. h is returned
// unchanged (same value) when no label needs conversion.
func (h Host) ToASCII() (Host, error) {
	return h.convertAll(idna.ToASCII, h.asciiOpts)
}

// ToUnicode converts every label to its Unicode (U-label) form. h is
// returned unchanged (same value) when no label needs conversion.
func (h Host) ToUnicode() (Host, error) {
	return h.convertAll(idna.ToUnicode, h.unicodeOpts)
}

func (h Host) convertAll(conv func(string, Option) (string, error), opts Option) (Host, error) {
	if !h.hasContent || len(h.labels) == 0 {
		return h, nil
	}
	out := make([]string, len(h.labels))
	changed := false
	for i, l := range h.labels {
		c, err := conv(l, opts)
		if err != nil {
			return Host{}, fmt.Errorf("%w: %s", ErrInvalidDomain, err.Error())
		}
		if c != l {
			changed = true
		}
		out[i] = c
	}
	if !changed {
		return h, nil
	}
	return Host{
		hasContent:  true,
		labels:      out,
		trailingDot: h.trailingDot,
		asciiOpts:   h.asciiOpts,
		unicodeOpts: h.unicodeOpts,
	}, nil
}

// WithASCIIOption returns a Host with its ASCII conversion option bitmask
// replaced by o. Returns h unchanged when o already equals the current value.
func (h Host) WithASCIIOption(o Option) Host {
	if o == h.asciiOpts {
		return h
	}
	h.asciiOpts = o
	return h
}

// WithUnicodeOption returns a Host with its Unicode conversion option
// bitmask replaced by o. Returns h unchanged when o already equals the
// current value.
func (h Host) WithUnicodeOption(o Option) Host {
	if o == h.unicodeOpts {
		return h
	}
	h.unicodeOpts = o
	return h
}
