package host

import "testing"

func TestNewNullAndEmpty(t *testing.T) {
	null, err := New("", false, 0, 0)
	if err != nil {
		t.Fatalf("New(null): %v", err)
	}
	if !null.IsNull() || null.Count() != 0 {
		t.Errorf("null host: IsNull=%v Count=%d, want true/0", null.IsNull(), null.Count())
	}
	if _, ok := null.Content(); ok {
		t.Error("null host Content() ok = true, want false")
	}

	empty, err := New("", true, 0, 0)
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if empty.IsNull() {
		t.Error("empty-string host reported as null")
	}
	if empty.Count() != 1 {
		t.Errorf("empty-string host Count() = %d, want 1", empty.Count())
	}
	if c, ok := empty.Content(); !ok || c != "" {
		t.Errorf("empty-string host Content() = (%q, %v), want (\"\", true)", c, ok)
	}
}

func TestCountAndLabels(t *testing.T) {
	h, err := New("www.example.com", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", h.Count())
	}
	want := []string{"com", "example", "www"}
	got := h.Labels()
	for i, w := range want {
		if got[i] != w {
			t.Errorf("Labels()[%d] = %q, want %q", i, got[i], w)
		}
	}
	if l, ok := h.LabelAt(0); !ok || l != "com" {
		t.Errorf("LabelAt(0) = (%q, %v), want (\"com\", true)", l, ok)
	}
	if l, ok := h.LabelAt(-1); !ok || l != "www" {
		t.Errorf("LabelAt(-1) = (%q, %v), want (\"www\", true)", l, ok)
	}
	if _, ok := h.LabelAt(3); ok {
		t.Error("LabelAt(3) ok = true, want false (out of range)")
	}
}

func TestTrailingDotPreserved(t *testing.T) {
	h, err := New("example.com.", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.Count() != 2 {
		t.Errorf("Count() = %d, want 2 (trailing-dot label excluded)", h.Count())
	}
	if c, _ := h.Content(); c != "example.com." {
		t.Errorf("Content() = %q, want %q", c, "example.com.")
	}
}

func TestURLEscapedInput(t *testing.T) {
	h, err := New("b%C3%A9b%C3%A9.be", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Labels are stored in A-label form; the Unicode form shows the
	// decoded input.
	u, err := h.ToUnicode()
	if err != nil {
		t.Fatalf("ToUnicode: %v", err)
	}
	c, _ := u.Content()
	if c != "bébé.be" {
		t.Errorf("Content() = %q, want %q", c, "bébé.be")
	}
}

func TestWithLabelPrependAppend(t *testing.T) {
	h, err := New("example.com", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	withWWW, err := h.Prepend("www")
	if err != nil {
		t.Fatalf("Prepend: %v", err)
	}
	if c, _ := withWWW.Content(); c != "www.example.com" {
		t.Errorf("Prepend content = %q, want %q", c, "www.example.com")
	}

	base, err := New("example", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	withCom, err := base.Append("com")
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if c, _ := withCom.Content(); c != "example.com" {
		t.Errorf("Append content = %q, want %q", c, "example.com")
	}
}

func TestWithLabelNegativeOffsetReplaces(t *testing.T) {
	h, err := New("example.com", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// k=-1 aliases the same label as LabelAt(-1): a replacement, not the
	// append boundary (which is k=-Count()-1=-3 for this host).
	replaced, err := h.WithLabel(-1, "org")
	if err != nil {
		t.Fatalf("WithLabel: %v", err)
	}
	if c, _ := replaced.Content(); c != "org.com" {
		t.Errorf("WithLabel(-1, \"org\") content = %q, want %q", c, "org.com")
	}
}

func TestWithoutLabel(t *testing.T) {
	h, err := New("www.example.com", true, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	trimmed, err := h.WithoutLabel(2) // remove "www" (leftmost, offset count-1=2)
	if err != nil {
		t.Fatalf("WithoutLabel: %v", err)
	}
	if c, _ := trimmed.Content(); c != "example.com" {
		t.Errorf("content = %q, want %q", c, "example.com")
	}

	all, err := h.WithoutLabel(0, 1, 2)
	if err != nil {
		t.Fatalf("WithoutLabel(all): %v", err)
	}
	if !all.IsNull() {
		t.Error("removing every label did not yield the null host")
	}
}

func TestInvalidLabelKey(t *testing.T) {
	h, _ := New("example.com", true, 0, 0)
	if _, err := h.WithLabel(5, "www"); err == nil {
		t.Fatal("expected InvalidLabelKey for an out-of-range offset")
	}
}

func TestNumericTLDRejected(t *testing.T) {
	if _, err := New("example.123", true, 0, 0); err == nil {
		t.Fatal("expected an error for an all-numeric top-level label on a multi-label host")
	}
	// A single-label host equal to a number is not subject to this rule.
	if _, err := New("123", true, 0, 0); err != nil {
		t.Errorf("single numeric label host rejected: %v", err)
	}
}

func TestEqual(t *testing.T) {
	a, _ := New("example.com", true, 0, 0)
	b, _ := New("example.com", true, 0, 0)
	c, _ := New("example.org", true, 0, 0)
	if !a.Equal(b) {
		t.Error("identical hosts reported unequal")
	}
	if a.Equal(c) {
		t.Error("distinct hosts reported equal")
	}
}

func TestIdempotentASCIIOnlyHost(t *testing.T) {
	h, _ := New("example.com", true, 0, 0)
	ascii, err := h.ToASCII()
	if err != nil {
		t.Fatalf("ToASCII: %v", err)
	}
	if !ascii.Equal(h) {
		t.Error("ToASCII on an ASCII-only host was not a no-op")
	}
}
