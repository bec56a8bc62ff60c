//go:build gofuzz

package etld

import (
	"fmt"

	psl "golang.org/x/net/publicsuffix"
)

// Fuzz cross-checks the facade against golang.org/x/net/publicsuffix, whose
// compiled-in list is refreshed independently of this package's Update.
// Mismatches usually mean either list is stale, not that one is wrong, so
// this harness is a manual differential tool, not part of the test suite.
func Fuzz(in []byte) int {
	name := string(in)

	got, icann := PublicSuffix(name)
	want, wantIcann := psl.PublicSuffix(name)
	if want != got {
		panic(fmt.Sprintf("output mismatch: got %q, want %q\n", got, want))
	}
	if icann != wantIcann {
		panic(fmt.Sprintf("output mismatch: ICANN got %v, want %v\n", icann, wantIcann))
	}

	want, wantErr := psl.EffectiveTLDPlusOne(name)
	got, err := EffectiveTLDPlusOne(name)
	if want != got {
		panic(fmt.Sprintf("output mismatch: eTLD+1 got %q, want %q\n", got, want))
	}
	if (err == nil) != (wantErr == nil) {
		panic(fmt.Sprintf("error mismatch: got err %v, want %v\n", err, wantErr))
	}

	if err != nil {
		return -1
	}
	return 1
}
