package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

// UserService implements the identity and role directory.
type UserService struct {
	repo     ports.UserRepository
	activity ports.ActivityRepository
	logger   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, activity ports.ActivityRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, activity: activity, logger: logger}
}

// Create is the admin path for account creation and may grant any role.
func (s *UserService) Create(ctx context.Context, actor domain.Actor, input ports.CreateUserInput) (*domain.User, error) {
	if d := policy.Decide(actor, policy.ResourceUser, policy.ActionCreate); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
		Phone:        input.Phone,
		Apartment:    input.Apartment,
		Building:     input.Building,
		CommunityID:  input.CommunityID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "user.create", created.ID, string(created.Role))
	return created, nil
}

// Get returns a user record: own record for anyone, any record for admins.
func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	d := policy.Decide(actor, policy.ResourceUser, policy.ActionRead)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}
	if d.Effect == policy.AllowScoped && id != actor.ID {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

// List is the admin directory listing with role/search filters.
func (s *UserService) List(ctx context.Context, actor domain.Actor, input ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if d := policy.Decide(actor, policy.ResourceUser, policy.ActionList); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.repo.List(ctx, ports.ListUsersFilter{
		Role:        input.Role,
		Search:      input.Search,
		CommunityID: actor.CommunityID,
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Update applies the permitted subset of the update per the role
// field-mask table. Role, active flag, community and credential changes
// are admin-only and silently discarded for everyone else.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, upd policy.UserUpdate) (*domain.User, error) {
	d := policy.Decide(actor, policy.ResourceUser, policy.ActionUpdate)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}
	if d.Effect == policy.AllowScoped && id != actor.ID {
		return nil, domain.ErrForbidden
	}

	permitted, dropped := policy.FilterUserUpdate(actor, id, upd)
	if dropped {
		s.logger.Debug().Str("user_id", id).Str("actor_id", actor.ID).Msg("discarded fields outside role mask")
	}

	set := map[string]any{"updated_at": time.Now().UTC()}
	if permitted.Name != nil {
		set["name"] = *permitted.Name
	}
	if permitted.Phone != nil {
		set["phone"] = *permitted.Phone
	}
	if permitted.Apartment != nil {
		set["apartment"] = *permitted.Apartment
	}
	if permitted.Building != nil {
		set["building"] = *permitted.Building
	}
	if permitted.Email != nil {
		set["email"] = domain.NormalizeEmail(*permitted.Email)
	}
	if permitted.Role != nil {
		if !domain.ValidRole(*permitted.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *permitted.Role)
		}
		set["role"] = *permitted.Role
	}
	if permitted.IsActive != nil {
		set["is_active"] = *permitted.IsActive
	}
	if permitted.CommunityID != nil {
		set["community_id"] = *permitted.CommunityID
	}
	if permitted.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*permitted.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = string(hash)
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "user.update", id, "")
	return updated, nil
}

// Delete removes an account. Admin only, and never the admin's own.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if d := policy.Decide(actor, policy.ResourceUser, policy.ActionDelete); d.Effect != policy.Allow {
		return domain.ErrForbidden
	}
	if id == actor.ID {
		return domain.ErrSelfDelete
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, actor, "user.delete", id, "")
	return nil
}

func (s *UserService) logActivity(ctx context.Context, actor domain.Actor, action, entityID, details string) {
	entry := &domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      action,
		EntityType:  "user",
		EntityID:    entityID,
		Details:     details,
		CommunityID: actor.CommunityID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activity.Insert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write activity log")
	}
}
