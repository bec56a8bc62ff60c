// Package idna converts individual DNS labels and whole dot-joined hosts
// between their ASCII (Punycode) and Unicode forms per IDNA2008/UTS#46.
//
// It is a thin, assertive wrapper around golang.org/x/net/idna: the Unicode
// tables, NFC normalization, Punycode codec and bidi/contextJ checks all come
// from there. This package's job is translating the Option bitmask used
// throughout this module into the equivalent golang.org/x/net/idna.Profile,
// and turning the single untyped error that package returns into the
// per-label flag taxonomy callers need to decide whether a failure should be
// tolerated.
package idna

import (
	"fmt"
	"strings"

	xidna "golang.org/x/net/idna"
)

// Option is a bitmask of IDNA processing flags threaded explicitly through
// every Host and Suffix value - never held as package-level state.
type Option uint8

const (
	// Transitional selects UTS#46 transitional processing (maps deviation
	// characters such as ß, ς, ZWJ, ZWNJ instead of leaving them valid).
	Transitional Option = 1 << iota
	// NonTransitionalToASCII selects non-transitional processing for ToASCII.
	NonTransitionalToASCII
	// NonTransitionalToUnicode selects non-transitional processing for ToUnicode.
	NonTransitionalToUnicode
	// CheckBidi enables the bidi rule of RFC 5893.
	CheckBidi
	// CheckContextJ enables CONTEXTJ rule validation of RFC 5892 Appendix A.
	CheckContextJ
	// UseSTD3ASCIIRules rejects ASCII characters disallowed by STD3 (RFC 1122).
	UseSTD3ASCIIRules

	allOptions = Transitional | NonTransitionalToASCII | NonTransitionalToUnicode |
		CheckBidi | CheckContextJ | UseSTD3ASCIIRules
)

// Valid reports whether o contains only recognized bits. Unknown bitmask
// combinations are rejected rather than silently ignored (spec §9 open
// question: IDNA option bitmask combinations not in the enumerated set).
func (o Option) Valid() bool {
	return o&^allOptions == 0
}

func (o Option) transitional() bool {
	return o&Transitional != 0 && o&NonTransitionalToASCII == 0 && o&NonTransitionalToUnicode == 0
}

// LabelErrorFlag names one failure mode observed while converting a label.
type LabelErrorFlag uint16

const (
	FlagEmptyLabel LabelErrorFlag = 1 << iota
	FlagLabelTooLong
	FlagDisallowedChar
	FlagHyphenMisuse
	FlagBidiError
	FlagContextJError
	FlagPunycodeError
	FlagInvalidACELabel
)

func (f LabelErrorFlag) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for bit, name := range map[LabelErrorFlag]string{
		FlagEmptyLabel:      "empty-label",
		FlagLabelTooLong:    "label-too-long",
		FlagDisallowedChar:  "disallowed-char",
		FlagHyphenMisuse:    "hyphen-misuse",
		FlagBidiError:       "bidi-error",
		FlagContextJError:   "contextj-error",
		FlagPunycodeError:   "punycode-error",
		FlagInvalidACELabel: "invalid-ace-label",
	} {
		if f&bit != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// LabelError records the flags raised while converting a single label.
type LabelError struct {
	Label string
	Flags LabelErrorFlag
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("idna: label %q: %s", e.Label, e.Flags)
}

// LabelErrors is the error returned by a failed ToASCII or ToUnicode call:
// one entry for every label of the converted input, each flagged with the
// classification of the single error golang.org/x/net/idna reported for the
// whole call. Entries are not limited to the labels that actually failed.
type LabelErrors []*LabelError

func (e LabelErrors) Error() string {
	parts := make([]string, len(e))
	for i, le := range e {
		parts[i] = le.Error()
	}
	return strings.Join(parts, "; ")
}

// Flags ORs together every flag raised across all labels.
func (e LabelErrors) Flags() LabelErrorFlag {
	var f LabelErrorFlag
	for _, le := range e {
		f |= le.Flags
	}
	return f
}

func classify(label string, err error) LabelErrorFlag {
	if label == "" {
		return FlagEmptyLabel
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "bidi"):
		return FlagBidiError
	case strings.Contains(msg, "joiner") || strings.Contains(msg, "contextj"):
		return FlagContextJError
	case strings.Contains(msg, "punycode") || strings.Contains(msg, "Punycode"):
		return FlagPunycodeError
	case strings.Contains(msg, "too long"):
		return FlagLabelTooLong
	case strings.Contains(msg, "hyphen"):
		return FlagHyphenMisuse
	case strings.HasPrefix(label, "xn--"):
		return FlagInvalidACELabel
	default:
		return FlagDisallowedChar
	}
}

func profile(o Option) *xidna.Profile {
	opts := []xidna.Option{
		xidna.MapForLookup(),
		xidna.Transitional(o.transitional()),
	}
	if o&UseSTD3ASCIIRules != 0 {
		opts = append(opts, xidna.StrictDomainName(true), xidna.ValidateLabels(true))
	}
	if o&CheckBidi != 0 {
		opts = append(opts, xidna.BidiRule())
	}
	if o&CheckContextJ != 0 {
		opts = append(opts, xidna.CheckJoiners(true))
	}
	return xidna.New(opts...)
}

// ToASCII converts a single label or a dot-joined host to its ASCII
// (Punycode) form. A trailing dot is preserved; the empty string passes
// through unchanged.
func ToASCII(s string, o Option) (string, error) {
	if !o.Valid() {
		return "", fmt.Errorf("idna: invalid option bitmask %#02x", uint8(o))
	}
	if s == "" {
		return s, nil
	}
	trailingDot := s != "." && strings.HasSuffix(s, ".")
	body := s
	if trailingDot {
		body = s[:len(s)-1]
	}
	out, err := profile(o).ToASCII(body)
	if err != nil {
		return "", toLabelErrors(body, err)
	}
	if trailingDot {
		out += "."
	}
	return out, nil
}

// ToUnicode converts a single label or a dot-joined host to its Unicode
// (U-label) form. A trailing dot is preserved; the empty string passes
// through unchanged.
func ToUnicode(s string, o Option) (string, error) {
	if !o.Valid() {
		return "", fmt.Errorf("idna: invalid option bitmask %#02x", uint8(o))
	}
	if s == "" {
		return s, nil
	}
	trailingDot := s != "." && strings.HasSuffix(s, ".")
	body := s
	if trailingDot {
		body = s[:len(s)-1]
	}
	out, err := profile(o).ToUnicode(body)
	if err != nil {
		return "", toLabelErrors(body, err)
	}
	if trailingDot {
		out += "."
	}
	return out, nil
}

func toLabelErrors(host string, err error) LabelErrors {
	labels := strings.Split(host, ".")
	var errs LabelErrors
	for _, l := range labels {
		errs = append(errs, &LabelError{Label: l, Flags: classify(l, err)})
	}
	if len(errs) == 0 {
		errs = append(errs, &LabelError{Label: host, Flags: classify(host, err)})
	}
	return errs
}

// TransitionalDifference reports whether ToASCII under transitional and
// non-transitional processing produce distinct output for s, i.e. whether s
// contains a UTS#46 deviation character (ß, ς, ZWJ, ZWNJ, ...).
func TransitionalDifference(s string) bool {
	a, errA := ToASCII(s, Transitional)
	b, errB := ToASCII(s, NonTransitionalToASCII)
	if (errA == nil) != (errB == nil) {
		return true
	}
	if errA != nil {
		return false
	}
	return a != b
}
