// Package suffix implements Suffix, a Host carrying the PSL section that
// produced it (ICANN, PRIVATE, UNKNOWN) or NONE for the null suffix.
package suffix

import (
	"errors"
	"fmt"

	"github.com/globalsign/etld/host"
)

// Section classifies which half of the Public Suffix List produced a Suffix,
// or that it was never looked up at all.
type Section uint8

const (
	// NONE is the unique section value of the null Suffix.
	NONE Section = iota
	// UNKNOWN marks a suffix assigned but not found in either PSL section.
	UNKNOWN
	// ICANN marks a suffix found in the ICANN section.
	ICANN
	// PRIVATE marks a suffix found in the PRIVATE section.
	PRIVATE
)

func (s Section) String() string {
	switch s {
	case ICANN:
		return "ICANN"
	case PRIVATE:
		return "PRIVATE"
	case UNKNOWN:
		return "UNKNOWN"
	default:
		return "NONE"
	}
}

// ErrInvalidSuffix is raised when a non-null Suffix would have zero labels.
var ErrInvalidSuffix = errors.New("suffix: non-null suffix must have at least one label")

// Suffix is a Host plus the PSL section tag that classifies it.
type Suffix struct {
	host.Host
	section Section
}

// FromHost attaches section to h. A null h always carries NONE regardless of
// the requested section, since NONE is the unique section value of the null
// Suffix.
func FromHost(h host.Host, section Section) (Suffix, error) {
	if h.IsNull() {
		return Suffix{Host: h, section: NONE}, nil
	}
	if h.Count() == 0 {
		return Suffix{}, ErrInvalidSuffix
	}
	return Suffix{Host: h, section: section}, nil
}

// FromString builds a Suffix directly from content, with no PSL section
// information: the result is UNKNOWN unless content is null, in which case
// it is NONE.
func FromString(content string, hasContent bool, asciiOpts, unicodeOpts host.Option) (Suffix, error) {
	h, err := host.New(content, hasContent, asciiOpts, unicodeOpts)
	if err != nil {
		return Suffix{}, fmt.Errorf("suffix: %w", err)
	}
	section := UNKNOWN
	if h.IsNull() {
		section = NONE
	}
	return FromHost(h, section)
}

// None is the unique null Suffix value.
var None = Suffix{section: NONE}

// Section returns the PSL section tag.
func (s Suffix) Section() Section { return s.section }

// IsKnown reports whether the suffix was found in either PSL section.
func (s Suffix) IsKnown() bool { return s.section == ICANN || s.section == PRIVATE }

// IsICANN reports whether the suffix is in the ICANN section.
func (s Suffix) IsICANN() bool { return s.section == ICANN }

// IsPrivate reports whether the suffix is in the PRIVATE section.
func (s Suffix) IsPrivate() bool { return s.section == PRIVATE }

// Equal reports structural equality of the underlying Host and the section
// tag.
func (s Suffix) Equal(o Suffix) bool {
	return s.section == o.section && s.Host.Equal(o.Host)
}

// WithSection returns a Suffix with a different section tag attached,
// without re-running any PSL lookup; used to re-classify a suffix (e.g.
// ICANN <-> PRIVATE).
func (s Suffix) WithSection(section Section) Suffix {
	if s.Host.IsNull() {
		section = NONE
	}
	if section == s.section {
		return s
	}
	s.section = section
	return s
}

// ToASCII converts the underlying Host to its ASCII form, preserving the
// section tag.
func (s Suffix) ToASCII() (Suffix, error) {
	h, err := s.Host.ToASCII()
	if err != nil {
		return Suffix{}, err
	}
	s.Host = h
	return s, nil
}

// ToUnicode converts the underlying Host to its Unicode form, preserving the
// section tag.
func (s Suffix) ToUnicode() (Suffix, error) {
	h, err := s.Host.ToUnicode()
	if err != nil {
		return Suffix{}, err
	}
	s.Host = h
	return s, nil
}
