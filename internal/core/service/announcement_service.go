package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

// AnnouncementService implements role- and expiry-filtered announcements.
// Writes are admin-only; list visibility is pushed into the store query,
// single reads check VisibleTo on the loaded record.
type AnnouncementService struct {
	repo     ports.AnnouncementRepository
	activity ports.ActivityRepository
	images   ports.ImageStore
	events   ports.EventSink
	logger   zerolog.Logger
}

func NewAnnouncementService(
	repo ports.AnnouncementRepository,
	activity ports.ActivityRepository,
	images ports.ImageStore,
	events ports.EventSink,
	logger zerolog.Logger,
) *AnnouncementService {
	return &AnnouncementService{repo: repo, activity: activity, images: images, events: events, logger: logger}
}

func (s *AnnouncementService) Create(ctx context.Context, actor domain.Actor, input ports.CreateAnnouncementInput) (*domain.Announcement, error) {
	if d := policy.Decide(actor, policy.ResourceAnnouncement, policy.ActionCreate); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}
	if input.Title == "" || input.Body == "" {
		return nil, fmt.Errorf("%w: title and body are required", domain.ErrValidation)
	}
	for _, r := range input.TargetRoles {
		if !domain.ValidRole(r) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, r)
		}
	}

	var attachments []string
	for _, att := range input.Attachments {
		uploaded, err := s.images.Upload(ctx, att.Name, att.Reader, "announcements")
		if err != nil {
			s.logger.Warn().Err(err).Str("attachment", att.Name).Msg("attachment upload failed, dropping")
			continue
		}
		attachments = append(attachments, uploaded.URL)
	}

	now := time.Now().UTC()
	announcement := &domain.Announcement{
		Title:       input.Title,
		Body:        input.Body,
		TargetRoles: input.TargetRoles,
		Attachments: attachments,
		ExpiresAt:   input.ExpiresAt,
		CreatedBy:   domain.RefID(actor.ID),
		CommunityID: actor.CommunityID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, announcement)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, actor, "announcement.create", created.ID, created.Title)
	s.events.Emit(domain.LifecycleEvent{
		ID:          uuid.NewString(),
		Kind:        domain.EventAnnouncementPosted,
		CommunityID: created.CommunityID,
		ActorID:     actor.ID,
		Detail:      created.Title,
		Timestamp:   now,
	})
	return created, nil
}

func (s *AnnouncementService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Announcement, error) {
	d := policy.Decide(actor, policy.ResourceAnnouncement, policy.ActionRead)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}

	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !announcement.VisibleTo(actor.Role, time.Now().UTC()) {
		// Invisible records read as absent, not forbidden.
		return nil, domain.ErrAnnouncementNotFound
	}
	return announcement, nil
}

func (s *AnnouncementService) List(ctx context.Context, actor domain.Actor, page, limit int) (*ports.ListAnnouncementsResult, error) {
	d := policy.Decide(actor, policy.ResourceAnnouncement, policy.ActionList)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}

	page, limit = normalizePage(page, limit)
	filter := ports.ListAnnouncementsFilter{
		Scope: d.Scope,
		Page:  page,
		Limit: limit,
	}
	if !actor.IsAdmin() {
		// The store applies the visibility predicate so totals and
		// page boundaries count only what the caller can see.
		filter.VisibleToRole = actor.Role
		filter.VisibleAt = time.Now().UTC()
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListAnnouncementsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *AnnouncementService) Update(ctx context.Context, actor domain.Actor, id string, input ports.UpdateAnnouncementInput) (*domain.Announcement, error) {
	if d := policy.Decide(actor, policy.ResourceAnnouncement, policy.ActionUpdate); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}

	set := map[string]any{"updated_at": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Body != nil {
		set["body"] = *input.Body
	}
	if input.TargetRoles != nil {
		for _, r := range *input.TargetRoles {
			if !domain.ValidRole(r) {
				return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, r)
			}
		}
		set["target_roles"] = *input.TargetRoles
	}
	if input.ExpiresAt != nil {
		set["expires_at"] = *input.ExpiresAt
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, actor, "announcement.update", id, "")
	return updated, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if d := policy.Decide(actor, policy.ResourceAnnouncement, policy.ActionDelete); d.Effect != policy.Allow {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, actor, "announcement.delete", id, "")
	return nil
}

func (s *AnnouncementService) logActivity(ctx context.Context, actor domain.Actor, action, entityID, details string) {
	entry := &domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      action,
		EntityType:  "announcement",
		EntityID:    entityID,
		Details:     details,
		CommunityID: actor.CommunityID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activity.Insert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write activity log")
	}
}
