package tui

import "testing"

func TestToastStack(t *testing.T) {
	var s toastStack

	if cmd := s.push("saved", toastSuccess); cmd == nil {
		t.Fatal("push returned no expiry command")
	}
	s.push("failed", toastError)
	if len(s.toasts) != 2 {
		t.Fatalf("toast count = %d, want 2", len(s.toasts))
	}

	// Manual dismiss drops the oldest.
	s.dismiss()
	if len(s.toasts) != 1 || s.toasts[0].text != "failed" {
		t.Errorf("after dismiss: %+v", s.toasts)
	}

	// Expiring an unknown id is a no-op.
	s.expire(999)
	if len(s.toasts) != 1 {
		t.Errorf("expire of unknown id changed the stack: %+v", s.toasts)
	}

	s.expire(s.toasts[0].id)
	if len(s.toasts) != 0 {
		t.Errorf("toast survived its expiry: %+v", s.toasts)
	}
}

func TestToastIDsAreUnique(t *testing.T) {
	var s toastStack
	s.push("one", toastSuccess)
	s.push("two", toastSuccess)
	s.push("three", toastSuccess)

	seen := map[int]bool{}
	for _, toast := range s.toasts {
		if seen[toast.id] {
			t.Fatalf("duplicate toast id %d", toast.id)
		}
		seen[toast.id] = true
	}
}
