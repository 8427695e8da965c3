package domain

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Rita@Example.COM "); got != "rita@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestUserRefResolve(t *testing.T) {
	ref := RefID("u1")
	if ref.Resolved() {
		t.Error("bare ref should not be resolved")
	}

	ref.Resolve(UserSummary{ID: "u2", Name: "Wrong"})
	if ref.Resolved() {
		t.Error("mismatched id must not attach")
	}

	ref.Resolve(UserSummary{ID: "u1", Name: "Rita"})
	if !ref.Resolved() || ref.User.Name != "Rita" {
		t.Errorf("resolve failed: %+v", ref)
	}
}
