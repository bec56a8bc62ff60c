package cookiejarlist

import (
	"testing"

	"github.com/globalsign/etld/rules"
)

const fixtureList = `// ===BEGIN ICANN DOMAINS===
com
// ===END ICANN DOMAINS===
`

func TestPublicSuffix(t *testing.T) {
	rs, err := rules.FromText(fixtureList)
	if err != nil {
		t.Fatalf("rules.FromText: %v", err)
	}
	l := New(rs, "test")

	if got := l.PublicSuffix("www.example.com"); got != "com" {
		t.Errorf("PublicSuffix(%q) = %q, want %q", "www.example.com", got, "com")
	}

	// A host that can't be resolved (single label) is returned unchanged,
	// matching net/http/cookiejar's no-error contract.
	if got := l.PublicSuffix("localhost"); got != "localhost" {
		t.Errorf("PublicSuffix(%q) = %q, want %q", "localhost", got, "localhost")
	}
}

func TestString(t *testing.T) {
	rs, _ := rules.FromText(fixtureList)
	l := New(rs, "abc123")
	if got := l.String(); got == "" {
		t.Error("String() returned empty string")
	}
}
