package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

func TestRegister_AlwaysResident(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAuthService(users, "secret", time.Hour)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Rita",
		Email:    "  Rita@Example.COM ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Role != domain.RoleResident {
		t.Errorf("role = %s, want resident", user.Role)
	}
	if !user.IsActive {
		t.Error("new account should be active")
	}
	if user.Email != "rita@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")) != nil {
		t.Error("password hash does not verify")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	users.seed(domain.User{Email: "rita@example.com"})
	svc := NewAuthService(users, "secret", time.Hour)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Rita", Email: "rita@example.com", Password: "hunter22",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin_TokenClaims(t *testing.T) {
	users := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	users.seed(domain.User{
		ID: "user-1", Email: "rita@example.com", PasswordHash: string(hash),
		Role: domain.RoleResident, IsActive: true, CommunityID: "comm-1",
	})
	svc := NewAuthService(users, "secret", time.Hour)

	token, user, err := svc.Login(context.Background(), "Rita@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user = %s, want user-1", user.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims["sub"] != "user-1" || claims["role"] != "resident" || claims["community_id"] != "comm-1" {
		t.Errorf("claims wrong: %+v", claims)
	}
}

func TestLogin_Failures(t *testing.T) {
	users := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	users.seed(domain.User{ID: "user-1", Email: "rita@example.com", PasswordHash: string(hash), Role: domain.RoleResident, IsActive: true})
	users.seed(domain.User{ID: "user-2", Email: "off@example.com", PasswordHash: string(hash), Role: domain.RoleResident, IsActive: false})
	svc := NewAuthService(users, "secret", time.Hour)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "rita@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	// An unknown email must be indistinguishable from a wrong password.
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "off@example.com", "hunter22"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Errorf("disabled account: err = %v, want ErrAccountDisabled", err)
	}
}
