package rules

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/globalsign/etld/idna"
)

// ErrInvalidRules is raised when the PSL text could not be parsed: malformed
// section markers, or a rule that fails IDNA conversion.
var ErrInvalidRules = errors.New("rules: invalid public suffix list text")

const (
	icannBeginMarker   = "===BEGIN ICANN DOMAINS==="
	icannEndMarker     = "===END ICANN DOMAINS==="
	privateBeginMarker = "===BEGIN PRIVATE DOMAINS==="
	privateEndMarker   = "===END PRIVATE DOMAINS==="
)

type section uint8

const (
	sectionNone section = iota
	sectionICANN
	sectionPrivate
)

// RuleSet is the parsed, read-only Public Suffix List, split into its two
// independent trees. It is safe for concurrent use: once built, it is never
// mutated.
type RuleSet struct {
	icann   *node
	private *node
}

// FromText parses the raw PSL text into a RuleSet.
func FromText(text string) (*RuleSet, error) {
	rs := &RuleSet{icann: newNode(), private: newNode()}

	cur := sectionNone
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		switch {
		case strings.Contains(line, icannBeginMarker):
			if cur != sectionNone {
				return nil, fmt.Errorf("%w: %q inside another section", ErrInvalidRules, line)
			}
			cur = sectionICANN
			continue
		case strings.Contains(line, icannEndMarker):
			if cur != sectionICANN {
				return nil, fmt.Errorf("%w: %q without a matching begin marker", ErrInvalidRules, line)
			}
			cur = sectionNone
			continue
		case strings.Contains(line, privateBeginMarker):
			if cur != sectionNone {
				return nil, fmt.Errorf("%w: %q inside another section", ErrInvalidRules, line)
			}
			cur = sectionPrivate
			continue
		case strings.Contains(line, privateEndMarker):
			if cur != sectionPrivate {
				return nil, fmt.Errorf("%w: %q without a matching begin marker", ErrInvalidRules, line)
			}
			cur = sectionNone
			continue
		}

		if line == "" || strings.HasPrefix(line, "//") || cur == sectionNone {
			continue
		}

		if err := rs.addRule(cur, line); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRules, err.Error())
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRules, err.Error())
	}
	if cur != sectionNone {
		return nil, fmt.Errorf("%w: section not closed at end of text", ErrInvalidRules)
	}

	return rs, nil
}

// FromReader is a convenience wrapper over FromText for streaming sources
// such as an HTTP response body.
func FromReader(r io.Reader) (*RuleSet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRules, err.Error())
	}
	return FromText(string(b))
}

func (rs *RuleSet) addRule(sec section, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	token := fields[0]

	exception := strings.HasPrefix(token, "!")
	if exception {
		token = token[1:]
	}
	if token == "" {
		return fmt.Errorf("empty rule")
	}

	rawLabels := strings.Split(token, ".")
	path := make([]string, len(rawLabels))
	for i, raw := range rawLabels {
		if raw == wildcardKey {
			path[i] = wildcardKey
			continue
		}
		ascii, err := idna.ToASCII(raw, idna.NonTransitionalToASCII)
		if err != nil {
			return fmt.Errorf("label %q: %w", raw, err)
		}
		path[i] = strings.ToLower(ascii)
	}
	reverseStrings(path)

	root := rs.icann
	if sec == sectionPrivate {
		root = rs.private
	}
	root.insert(path, exception)
	return nil
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
