package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/api/metrics"
	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

const defaultPageLimit = 10
const maxPageLimit = 100

// ComplaintService owns the complaint lifecycle: creation, scoped listing,
// status transitions, assignment, notes, and feedback.
type ComplaintService struct {
	repo        ports.ComplaintRepository
	users       ports.UserRepository
	assignments ports.AssignmentRepository
	activity    ports.ActivityRepository
	images      ports.ImageStore
	events      ports.EventSink
	logger      zerolog.Logger
}

func NewComplaintService(
	repo ports.ComplaintRepository,
	users ports.UserRepository,
	assignments ports.AssignmentRepository,
	activity ports.ActivityRepository,
	images ports.ImageStore,
	events ports.EventSink,
	logger zerolog.Logger,
) *ComplaintService {
	return &ComplaintService{
		repo:        repo,
		users:       users,
		assignments: assignments,
		activity:    activity,
		images:      images,
		events:      events,
		logger:      logger,
	}
}

// Create files a new complaint. The submitter is always the actor; status
// is forced to pending. Individual image upload failures are dropped and
// the remainder proceed.
func (s *ComplaintService) Create(ctx context.Context, actor domain.Actor, input ports.CreateComplaintInput) (*domain.Complaint, error) {
	if d := policy.Decide(actor, policy.ResourceComplaint, policy.ActionCreate); d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}
	if input.Title == "" || input.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}
	if !domain.ValidCategory(input.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, input.Category)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, priority)
	}

	var urls []string
	for _, img := range input.Images {
		uploaded, err := s.images.Upload(ctx, img.Name, img.Reader, "complaints")
		if err != nil {
			// Upload failures are non-fatal to complaint creation.
			s.logger.Warn().Err(err).Str("image", img.Name).Msg("image upload failed, dropping")
			continue
		}
		urls = append(urls, uploaded.URL)
	}

	now := time.Now().UTC()
	complaint := &domain.Complaint{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      domain.StatusPending,
		Submitter:   domain.RefID(actor.ID),
		Images:      urls,
		Location:    input.Location,
		CommunityID: actor.CommunityID,
		StatusHistory: []domain.StatusChange{
			{Status: domain.StatusPending, ChangedBy: actor.ID, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, complaint)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create complaint")
		return nil, err
	}

	s.resolveRefs(ctx, created)
	metrics.ComplaintsCreatedTotal.WithLabelValues(string(created.Category)).Inc()
	s.logActivity(ctx, actor, "complaint.create", "complaint", created.ID, created.Title)
	s.events.Emit(domain.LifecycleEvent{
		ID:          uuid.NewString(),
		Kind:        domain.EventComplaintCreated,
		ComplaintID: created.ID,
		CommunityID: created.CommunityID,
		ActorID:     actor.ID,
		Detail:      created.Title,
		Timestamp:   now,
	})

	s.logger.Info().Str("complaint_id", created.ID).Str("category", string(created.Category)).Msg("complaint created")
	return created, nil
}

// Get retrieves one complaint under the actor's scope. Internal notes are
// stripped for residents.
func (s *ComplaintService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Complaint, error) {
	d := policy.Decide(actor, policy.ResourceComplaint, policy.ActionRead)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}

	complaint, err := s.repo.FindByID(ctx, id, d.Scope)
	if err != nil {
		return nil, err
	}
	complaint.Notes = complaint.VisibleNotes(actor.Role)
	s.resolveRefs(ctx, complaint)
	return complaint, nil
}

// List returns a scoped, filtered, newest-first page of complaints.
func (s *ComplaintService) List(ctx context.Context, actor domain.Actor, input ports.ListComplaintsInput) (*ports.ListComplaintsResult, error) {
	d := policy.Decide(actor, policy.ResourceComplaint, policy.ActionList)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)
	filter := ports.ListComplaintsFilter{
		Scope:    d.Scope,
		Status:   input.Status,
		Priority: input.Priority,
		Category: input.Category,
		Page:     page,
		Limit:    limit,
	}
	// Explicit assignee narrowing is an admin affordance; scoped actors
	// already carry their own predicate.
	if actor.IsAdmin() {
		filter.AssigneeID = input.AssigneeID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		c.Notes = c.VisibleNotes(actor.Role)
		s.resolveRefs(ctx, c)
	}

	return &ports.ListComplaintsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateStatus moves a complaint along the transition table. Staff may only
// mutate complaints assigned to them; residents are denied outright.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	d := policy.Decide(actor, policy.ResourceComplaint, policy.ActionUpdate)
	if d.Effect == policy.Deny {
		metrics.RejectedTransitionsTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	complaint, err := s.repo.FindByID(ctx, id, policy.Scope{})
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthority(actor, complaint); err != nil {
		metrics.RejectedTransitionsTotal.WithLabelValues("forbidden").Inc()
		return nil, err
	}
	if !complaint.Status.CanTransitionTo(status) {
		metrics.RejectedTransitionsTotal.WithLabelValues("invalid_transition").Inc()
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, complaint.Status, status)
	}

	var resolvedAt *time.Time
	now := time.Now().UTC()
	if status == domain.StatusResolved {
		resolvedAt = &now
	}
	if err := s.repo.SetStatus(ctx, id, status, actor.ID, resolvedAt); err != nil {
		s.logger.Error().Err(err).Str("complaint_id", id).Msg("failed to update status")
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(complaint.Status), string(status)).Inc()
	s.logActivity(ctx, actor, "complaint.status", "complaint", id, fmt.Sprintf("%s -> %s", complaint.Status, status))
	s.events.Emit(domain.LifecycleEvent{
		ID:          uuid.NewString(),
		Kind:        domain.EventStatusChanged,
		ComplaintID: id,
		UserID:      complaint.Submitter.ID,
		CommunityID: complaint.CommunityID,
		ActorID:     actor.ID,
		Detail:      string(status),
		Timestamp:   now,
	})

	complaint.Status = status
	complaint.ResolvedAt = resolvedAt
	complaint.UpdatedAt = now
	s.resolveRefs(ctx, complaint)
	return complaint, nil
}

// AssignStaff pairs an active staff member with a complaint: the ledger
// record and the complaint projection (assignee + in_progress) are written
// as one unit of work, with a compensating delete when the second write
// fails.
func (s *ComplaintService) AssignStaff(ctx context.Context, actor domain.Actor, input ports.AssignStaffInput) (*domain.Assignment, error) {
	if d := policy.Decide(actor, policy.ResourceAssignment, policy.ActionCreate); d.Effect != policy.Allow {
		return nil, domain.ErrForbidden
	}

	complaint, err := s.repo.FindByID(ctx, input.ComplaintID, policy.Scope{})
	if err != nil {
		return nil, err
	}
	if !complaint.Status.CanTransitionTo(domain.StatusInProgress) && complaint.Status != domain.StatusInProgress {
		return nil, fmt.Errorf("%w: cannot assign while %s", domain.ErrInvalidTransition, complaint.Status)
	}

	staff, err := s.users.FindByID(ctx, input.StaffID)
	if err != nil {
		return nil, err
	}
	if staff.Role != domain.RoleStaff || !staff.IsActive {
		return nil, domain.ErrNotStaff
	}

	now := time.Now().UTC()
	assignment := &domain.Assignment{
		ComplaintID:    complaint.ID,
		Assignee:       domain.RefResolved(staff.Summary()),
		AssignedBy:     domain.RefID(actor.ID),
		Status:         domain.AssignmentActive,
		AssignedAt:     now,
		DueDate:        input.DueDate,
		Notes:          input.Notes,
		CommunityID:    complaint.CommunityID,
		ComplaintTitle: complaint.Title,
	}
	created, err := s.assignments.Create(ctx, assignment)
	if err != nil {
		s.logger.Error().Err(err).Str("complaint_id", complaint.ID).Msg("failed to create assignment")
		return nil, err
	}

	if err := s.repo.SetAssignee(ctx, complaint.ID, domain.RefID(staff.ID), actor.ID); err != nil {
		// Compensate: the ledger and the complaint must never disagree.
		if delErr := s.assignments.Delete(ctx, created.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("assignment_id", created.ID).Msg("compensating delete failed")
		}
		s.logger.Error().Err(err).Str("complaint_id", complaint.ID).Msg("failed to set assignee")
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(complaint.Status), string(domain.StatusInProgress)).Inc()
	s.logActivity(ctx, actor, "complaint.assign", "complaint", complaint.ID, "assigned to "+staff.Name)
	s.events.Emit(domain.LifecycleEvent{
		ID:          uuid.NewString(),
		Kind:        domain.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		UserID:      staff.ID,
		CommunityID: complaint.CommunityID,
		ActorID:     actor.ID,
		Detail:      complaint.Title,
		Timestamp:   now,
	})

	s.logger.Info().Str("complaint_id", complaint.ID).Str("staff_id", staff.ID).Msg("staff assigned")
	return created, nil
}

// AddNote appends a note. Staff may annotate only their own assigned
// complaints; residents may not annotate at all.
func (s *ComplaintService) AddNote(ctx context.Context, actor domain.Actor, id, content string, isInternal bool) (*domain.Complaint, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: note content is required", domain.ErrValidation)
	}
	if d := policy.Decide(actor, policy.ResourceComplaint, policy.ActionUpdate); d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}

	complaint, err := s.repo.FindByID(ctx, id, policy.Scope{})
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthority(actor, complaint); err != nil {
		return nil, err
	}

	note := domain.Note{
		Content:    content,
		Author:     domain.RefID(actor.ID),
		IsInternal: isInternal,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.AppendNote(ctx, id, note); err != nil {
		return nil, err
	}

	s.logActivity(ctx, actor, "complaint.note", "complaint", id, "")
	complaint.Notes = append(complaint.Notes, note)
	s.resolveRefs(ctx, complaint)
	return complaint, nil
}

// SubmitFeedback records the submitter's rating on a resolved complaint.
// A repeated submission overwrites the previous feedback.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, actor domain.Actor, id string, rating int, comment string) (*domain.Complaint, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	complaint, err := s.repo.FindByID(ctx, id, policy.Scope{})
	if err != nil {
		return nil, err
	}
	if complaint.Submitter.ID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if complaint.Status != domain.StatusResolved {
		return nil, domain.ErrNotResolved
	}

	fb := domain.Feedback{
		Rating:      rating,
		Comment:     comment,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.repo.SetFeedback(ctx, id, fb); err != nil {
		return nil, err
	}

	metrics.FeedbackRating.Observe(float64(rating))
	s.logActivity(ctx, actor, "complaint.feedback", "complaint", id, fmt.Sprintf("rating=%d", rating))
	s.events.Emit(domain.LifecycleEvent{
		ID:          uuid.NewString(),
		Kind:        domain.EventFeedbackSubmitted,
		ComplaintID: id,
		CommunityID: complaint.CommunityID,
		ActorID:     actor.ID,
		Detail:      fmt.Sprintf("rating=%d", rating),
		Timestamp:   fb.SubmittedAt,
	})

	complaint.Feedback = &fb
	s.resolveRefs(ctx, complaint)
	return complaint, nil
}

// requireAuthority checks per-record write authority: admins always, staff
// only on complaints assigned to them.
func (s *ComplaintService) requireAuthority(actor domain.Actor, c *domain.Complaint) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsStaff() && c.Assignee != nil && c.Assignee.ID == actor.ID {
		return nil
	}
	return domain.ErrForbidden
}

// resolveRefs expands submitter/assignee/note-author references to
// display projections. Lookup failures leave the bare ids in place.
func (s *ComplaintService) resolveRefs(ctx context.Context, c *domain.Complaint) {
	ids := []string{c.Submitter.ID}
	if c.Assignee != nil {
		ids = append(ids, c.Assignee.ID)
	}
	for _, n := range c.Notes {
		ids = append(ids, n.Author.ID)
	}

	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("complaint_id", c.ID).Msg("failed to resolve user refs")
		return
	}
	if u, ok := summaries[c.Submitter.ID]; ok {
		c.Submitter.Resolve(u)
	}
	if c.Assignee != nil {
		if u, ok := summaries[c.Assignee.ID]; ok {
			c.Assignee.Resolve(u)
		}
	}
	for i := range c.Notes {
		if u, ok := summaries[c.Notes[i].Author.ID]; ok {
			c.Notes[i].Author.Resolve(u)
		}
	}
}

// logActivity appends to the audit trail; failures are logged, never fatal.
func (s *ComplaintService) logActivity(ctx context.Context, actor domain.Actor, action, entityType, entityID, details string) {
	entry := &domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     details,
		CommunityID: actor.CommunityID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activity.Insert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to write activity log")
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
