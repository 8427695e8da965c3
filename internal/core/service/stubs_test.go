package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID map[string]*domain.User
	next int

	createErr error
	findErr   error
	// lastListFilter records the filter of the most recent List call.
	lastListFilter ports.ListUsersFilter
	lastUpdateSet  map[string]any
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(u domain.User) *domain.User {
	if u.ID == "" {
		r.next++
		u.ID = fmt.Sprintf("user-%d", r.next)
	}
	clone := u
	r.byID[u.ID] = &clone
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	return r.seed(*u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindSummaries(_ context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := make(map[string]domain.UserSummary)
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.lastListFilter = f

	var matched []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.CommunityID != "" && u.CommunityID != f.CommunityID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Search)) {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, set map[string]any) (*domain.User, error) {
	r.lastUpdateSet = set
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for k, v := range set {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "apartment":
			u.Apartment = v.(string)
		case "building":
			u.Building = v.(string)
		case "email":
			u.Email = v.(string)
		case "role":
			u.Role = v.(domain.Role)
		case "is_active":
			u.IsActive = v.(bool)
		case "community_id":
			u.CommunityID = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		}
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubComplaintRepo struct {
	byID map[string]*domain.Complaint
	next int

	setAssigneeErr error
	lastListFilter ports.ListComplaintsFilter

	statusCounts   map[domain.ComplaintStatus]int64
	categoryCounts map[domain.ComplaintCategory]int64
	priorityCounts map[domain.ComplaintPriority]int64
	spans          map[string][]ports.ResolvedSpan
	assignedCounts map[string]int64
}

func newStubComplaintRepo() *stubComplaintRepo {
	return &stubComplaintRepo{byID: make(map[string]*domain.Complaint)}
}

func (r *stubComplaintRepo) seed(c domain.Complaint) *domain.Complaint {
	if c.ID == "" {
		r.next++
		c.ID = fmt.Sprintf("complaint-%d", r.next)
	}
	clone := c
	r.byID[c.ID] = &clone
	return &clone
}

func (r *stubComplaintRepo) Create(_ context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	created := r.seed(*c)
	clone := *created
	return &clone, nil
}

func scopeMatches(c *domain.Complaint, submitterID, assigneeID string) bool {
	if submitterID != "" && c.Submitter.ID != submitterID {
		return false
	}
	if assigneeID != "" && (c.Assignee == nil || c.Assignee.ID != assigneeID) {
		return false
	}
	return true
}

func (r *stubComplaintRepo) FindByID(_ context.Context, id string, scope policy.Scope) (*domain.Complaint, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrComplaintNotFound
	}
	if !scopeMatches(c, scope.SubmitterID, scope.AssigneeID) {
		return nil, domain.ErrComplaintNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubComplaintRepo) List(_ context.Context, f ports.ListComplaintsFilter) ([]*domain.Complaint, int64, error) {
	r.lastListFilter = f

	var matched []*domain.Complaint
	for _, c := range r.byID {
		if !scopeMatches(c, f.Scope.SubmitterID, f.Scope.AssigneeID) {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Priority != "" && c.Priority != f.Priority {
			continue
		}
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if f.AssigneeID != "" && (c.Assignee == nil || c.Assignee.ID != f.AssigneeID) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, int64(len(matched)), nil
}

func (r *stubComplaintRepo) SetStatus(_ context.Context, id string, status domain.ComplaintStatus, changedBy string, resolvedAt *time.Time) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.Status = status
	c.ResolvedAt = resolvedAt
	c.StatusHistory = append(c.StatusHistory, domain.StatusChange{Status: status, ChangedBy: changedBy, Timestamp: time.Now().UTC()})
	return nil
}

func (r *stubComplaintRepo) SetAssignee(_ context.Context, id string, assignee domain.UserRef, changedBy string) error {
	if r.setAssigneeErr != nil {
		return r.setAssigneeErr
	}
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.Assignee = &assignee
	c.Status = domain.StatusInProgress
	c.StatusHistory = append(c.StatusHistory, domain.StatusChange{Status: domain.StatusInProgress, ChangedBy: changedBy, Timestamp: time.Now().UTC()})
	return nil
}

func (r *stubComplaintRepo) AppendNote(_ context.Context, id string, note domain.Note) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.Notes = append(c.Notes, note)
	return nil
}

func (r *stubComplaintRepo) SetFeedback(_ context.Context, id string, fb domain.Feedback) error {
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrComplaintNotFound
	}
	c.Feedback = &fb
	return nil
}

func (r *stubComplaintRepo) CountByStatus(_ context.Context, _ policy.Scope) (map[domain.ComplaintStatus]int64, error) {
	return r.statusCounts, nil
}

func (r *stubComplaintRepo) CountByCategory(_ context.Context, _ policy.Scope) (map[domain.ComplaintCategory]int64, error) {
	return r.categoryCounts, nil
}

func (r *stubComplaintRepo) CountByPriority(_ context.Context, _ policy.Scope) (map[domain.ComplaintPriority]int64, error) {
	return r.priorityCounts, nil
}

func (r *stubComplaintRepo) Recent(_ context.Context, _ policy.Scope, _ int) ([]*domain.Complaint, error) {
	return nil, nil
}

func (r *stubComplaintRepo) ResolvedByAssignee(_ context.Context, assigneeID string) ([]ports.ResolvedSpan, error) {
	return r.spans[assigneeID], nil
}

func (r *stubComplaintRepo) CountAssigned(_ context.Context, assigneeID string) (int64, error) {
	return r.assignedCounts[assigneeID], nil
}

type stubAssignmentRepo struct {
	items []*domain.Assignment
	next  int

	createErr      error
	deletedIDs     []string
	lastListFilter ports.ListAssignmentsFilter
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{}
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.next++
	clone := *a
	clone.ID = fmt.Sprintf("assignment-%d", r.next)
	r.items = append(r.items, &clone)
	out := clone
	return &out, nil
}

func (r *stubAssignmentRepo) List(_ context.Context, f ports.ListAssignmentsFilter) ([]*domain.Assignment, int64, error) {
	r.lastListFilter = f

	var matched []*domain.Assignment
	for _, a := range r.items {
		if f.Scope.AssigneeID != "" && a.Assignee.ID != f.Scope.AssigneeID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		clone := *a
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubAssignmentRepo) Delete(_ context.Context, id string) error {
	r.deletedIDs = append(r.deletedIDs, id)
	for i, a := range r.items {
		if a.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrAssignmentNotFound
}

type stubActivityRepo struct {
	entries []*domain.ActivityLog
}

func (r *stubActivityRepo) Insert(_ context.Context, entry *domain.ActivityLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

type stubImageStore struct {
	failNames map[string]bool
	uploaded  []string
}

func (s *stubImageStore) Upload(_ context.Context, name string, _ io.Reader, folder string) (*ports.UploadedImage, error) {
	if s.failNames[name] {
		return nil, fmt.Errorf("upload rejected: %s", name)
	}
	s.uploaded = append(s.uploaded, name)
	url := "https://images.local/" + folder + "/" + name
	return &ports.UploadedImage{URL: url, PublicID: name}, nil
}

func (s *stubImageStore) Delete(_ context.Context, _ string) error { return nil }

type stubEventSink struct {
	events []domain.LifecycleEvent
}

func (s *stubEventSink) Emit(event domain.LifecycleEvent) {
	s.events = append(s.events, event)
}
