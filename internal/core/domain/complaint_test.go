package domain

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to ComplaintStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusResolved, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusResolved, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved, StatusCancelled} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus("archived") {
		t.Error(`ValidStatus("archived") = true`)
	}
}

func TestVisibleNotes(t *testing.T) {
	c := &Complaint{Notes: []Note{
		{Content: "public"},
		{Content: "internal", IsInternal: true},
	}}

	if got := c.VisibleNotes(RoleResident); len(got) != 1 || got[0].Content != "public" {
		t.Errorf("resident notes = %+v, want only public", got)
	}
	if got := c.VisibleNotes(RoleStaff); len(got) != 2 {
		t.Errorf("staff notes = %d, want 2", len(got))
	}
	if got := c.VisibleNotes(RoleAdmin); len(got) != 2 {
		t.Errorf("admin notes = %d, want 2", len(got))
	}
}
