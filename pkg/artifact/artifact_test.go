package artifact

import "testing"

func TestNewComputesStableHash(t *testing.T) {
	a := New("validate", "Verdict: green", "mock", "mock-1", "prompt")
	b := New("validate", "Verdict: green", "mock", "mock-1", "other prompt")

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.Hash != b.Hash {
		t.Fatalf("expected hash to ignore prompt, got %q and %q", a.Hash, b.Hash)
	}
	if len(a.Hash) != 16 {
		t.Fatalf("expected 16 char hash, got %q", a.Hash)
	}

	c := New("research", "Verdict: green", "mock", "mock-1", "prompt")
	if c.Hash == a.Hash {
		t.Fatalf("expected stage to affect hash")
	}
}

func TestWithMetadataCopies(t *testing.T) {
	a := New("risks", "content", "mock", "mock-1", "")
	b := a.WithMetadata("label", "Risk Analyzer")

	if _, ok := a.Metadata["label"]; ok {
		t.Fatalf("expected original metadata untouched")
	}
	if b.Metadata["label"] != "Risk Analyzer" || b.ID != a.ID {
		t.Fatalf("unexpected copy %+v", b)
	}
}

func TestVerify(t *testing.T) {
	a := New("validate", "content", "mock", "mock-1", "")
	if !a.Verify() {
		t.Fatalf("expected fresh artifact to verify")
	}
	a.Content = "tampered"
	if a.Verify() {
		t.Fatalf("expected tampered artifact to fail verification")
	}
}
