package domain

import (
	"testing"
	"time"
)

func TestAnnouncementVisibleTo(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name string
		a    Announcement
		role Role
		want bool
	}{
		{"empty targets visible to all", Announcement{}, RoleResident, true},
		{"targeted role matches", Announcement{TargetRoles: []Role{RoleStaff}}, RoleStaff, true},
		{"targeted role excluded", Announcement{TargetRoles: []Role{RoleStaff}}, RoleResident, false},
		{"expired", Announcement{ExpiresAt: &past}, RoleResident, false},
		{"expires exactly now", Announcement{ExpiresAt: &now}, RoleResident, false},
		{"not yet expired", Announcement{ExpiresAt: &future}, RoleResident, true},
		{"expired even when targeted", Announcement{TargetRoles: []Role{RoleStaff}, ExpiresAt: &past}, RoleStaff, false},
	}
	for _, tc := range cases {
		if got := tc.a.VisibleTo(tc.role, now); got != tc.want {
			t.Errorf("%s: VisibleTo = %v, want %v", tc.name, got, tc.want)
		}
	}
}
