//go:build integration

package etld

import "testing"

// TestUpdateAgainstGitHub exercises the real GitHub-backed retriever end to
// end; it is excluded from normal test runs because it requires network
// access.
func TestUpdateAgainstGitHub(t *testing.T) {
	if err := Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if Release() == "" {
		t.Fatal("Release() is empty after a successful Update")
	}

	if !HasPublicSuffix("example.com") {
		t.Error("HasPublicSuffix(example.com) = false, want true")
	}

	etld1, err := EffectiveTLDPlusOne("www.example.com")
	if err != nil {
		t.Fatalf("EffectiveTLDPlusOne: %v", err)
	}
	if etld1 != "example.com" {
		t.Errorf("EffectiveTLDPlusOne(www.example.com) = %q, want %q", etld1, "example.com")
	}
}
