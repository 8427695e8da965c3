package policy

import (
	"testing"

	"github.com/resihub/community-system/internal/core/domain"
)

func fullUpdate() UserUpdate {
	name := "New Name"
	phone := "555-0101"
	apartment := "4B"
	building := "North"
	email := "new@example.com"
	role := domain.RoleAdmin
	active := false
	community := "comm-9"
	password := "hunter22"
	return UserUpdate{
		Name:        &name,
		Phone:       &phone,
		Apartment:   &apartment,
		Building:    &building,
		Email:       &email,
		Role:        &role,
		IsActive:    &active,
		CommunityID: &community,
		Password:    &password,
	}
}

func TestFilterUserUpdate_AdminKeepsEverything(t *testing.T) {
	admin := domain.Actor{ID: "adm-1", Role: domain.RoleAdmin}

	permitted, dropped := FilterUserUpdate(admin, "res-1", fullUpdate())
	if dropped {
		t.Error("admin update reported drops")
	}
	if permitted.Role == nil || permitted.IsActive == nil || permitted.Password == nil || permitted.Email == nil {
		t.Errorf("admin fields stripped: %+v", permitted)
	}
}

func TestFilterUserUpdate_OwnProfileMask(t *testing.T) {
	res := domain.Actor{ID: "res-1", Role: domain.RoleResident}

	permitted, dropped := FilterUserUpdate(res, "res-1", fullUpdate())
	if !dropped {
		t.Error("privileged fields should report as dropped")
	}

	// Profile fields survive.
	if permitted.Name == nil || permitted.Phone == nil || permitted.Apartment == nil || permitted.Building == nil {
		t.Errorf("profile fields stripped: %+v", permitted)
	}
	// Privileged fields do not.
	if permitted.Role != nil || permitted.IsActive != nil || permitted.Password != nil ||
		permitted.Email != nil || permitted.CommunityID != nil {
		t.Errorf("privileged fields leaked: %+v", permitted)
	}
}

func TestFilterUserUpdate_SomeoneElsesRecord(t *testing.T) {
	staff := domain.Actor{ID: "staff-1", Role: domain.RoleStaff}

	permitted, dropped := FilterUserUpdate(staff, "res-1", fullUpdate())
	if !dropped {
		t.Error("expected everything dropped")
	}
	if permitted != (UserUpdate{}) {
		t.Errorf("non-admin touched someone else's record: %+v", permitted)
	}
}

func TestFilterUserUpdate_NoDropsWhenNothingPrivileged(t *testing.T) {
	res := domain.Actor{ID: "res-1", Role: domain.RoleResident}
	name := "Just a rename"

	_, dropped := FilterUserUpdate(res, "res-1", UserUpdate{Name: &name})
	if dropped {
		t.Error("plain profile update reported drops")
	}
}
