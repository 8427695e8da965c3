package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

// FeeService implements admin-only monthly fee management. The store
// enforces uniqueness of (resident, month, year).
type FeeService struct {
	repo     ports.FeeRepository
	users    ports.UserRepository
	activity ports.ActivityRepository
	logger   zerolog.Logger
}

func NewFeeService(repo ports.FeeRepository, users ports.UserRepository, activity ports.ActivityRepository, logger zerolog.Logger) *FeeService {
	return &FeeService{repo: repo, users: users, activity: activity, logger: logger}
}

func (s *FeeService) Create(ctx context.Context, actor domain.Actor, input ports.CreateFeeInput) (*domain.MonthlyFee, error) {
	if d := policy.Decide(actor, policy.ResourceFee, policy.ActionCreate); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", domain.ErrValidation)
	}
	if input.Year < 2000 {
		return nil, fmt.Errorf("%w: invalid year", domain.ErrValidation)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	resident, err := s.users.FindByID(ctx, input.ResidentID)
	if err != nil {
		return nil, err
	}
	if resident.Role != domain.RoleResident {
		return nil, fmt.Errorf("%w: fees can only target resident accounts", domain.ErrValidation)
	}

	now := time.Now().UTC()
	fee := &domain.MonthlyFee{
		Resident:    domain.RefResolved(resident.Summary()),
		Month:       input.Month,
		Year:        input.Year,
		Amount:      input.Amount,
		Description: input.Description,
		Status:      domain.FeeUnpaid,
		DueDate:     input.DueDate,
		CommunityID: resident.CommunityID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, fee)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "fee.create", created.ID, fmt.Sprintf("%d/%d", input.Month, input.Year))
	return created, nil
}

func (s *FeeService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.MonthlyFee, error) {
	if d := policy.Decide(actor, policy.ResourceFee, policy.ActionRead); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByID(ctx, id)
}

func (s *FeeService) List(ctx context.Context, actor domain.Actor, filter ports.ListFeesFilter) (*ports.ListFeesResult, error) {
	if d := policy.Decide(actor, policy.ResourceFee, policy.ActionList); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	filter.Page, filter.Limit = page, limit
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListFeesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *FeeService) Update(ctx context.Context, actor domain.Actor, id string, input ports.UpdateFeeInput) (*domain.MonthlyFee, error) {
	if d := policy.Decide(actor, policy.ResourceFee, policy.ActionUpdate); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}

	set := map[string]any{"updated_at": time.Now().UTC()}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
		}
		set["amount"] = *input.Amount
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Status != nil {
		switch *input.Status {
		case domain.FeePaid:
			set["status"] = domain.FeePaid
			set["paid_at"] = time.Now().UTC()
		case domain.FeeUnpaid:
			set["status"] = domain.FeeUnpaid
			set["paid_at"] = nil
		default:
			return nil, fmt.Errorf("%w: unknown fee status %q", domain.ErrValidation, *input.Status)
		}
	}
	if input.DueDate != nil {
		set["due_date"] = *input.DueDate
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "fee.update", id, "")
	return updated, nil
}

func (s *FeeService) logActivity(ctx context.Context, actor domain.Actor, action, entityID, details string) {
	entry := &domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      action,
		EntityType:  "fee",
		EntityID:    entityID,
		Details:     details,
		CommunityID: actor.CommunityID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activity.Insert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write activity log")
	}
}
