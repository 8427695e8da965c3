package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

type stubFeeRepo struct {
	byID map[string]*domain.MonthlyFee
	next int
}

func newStubFeeRepo() *stubFeeRepo {
	return &stubFeeRepo{byID: make(map[string]*domain.MonthlyFee)}
}

func (r *stubFeeRepo) Create(_ context.Context, f *domain.MonthlyFee) (*domain.MonthlyFee, error) {
	for _, existing := range r.byID {
		if existing.Resident.ID == f.Resident.ID && existing.Month == f.Month && existing.Year == f.Year {
			return nil, domain.ErrDuplicateFee
		}
	}
	r.next++
	clone := *f
	clone.ID = fmt.Sprintf("fee-%d", r.next)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubFeeRepo) FindByID(_ context.Context, id string) (*domain.MonthlyFee, error) {
	f, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrFeeNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *stubFeeRepo) List(_ context.Context, filter ports.ListFeesFilter) ([]*domain.MonthlyFee, int64, error) {
	var out []*domain.MonthlyFee
	for _, f := range r.byID {
		if filter.ResidentID != "" && f.Resident.ID != filter.ResidentID {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		clone := *f
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubFeeRepo) Update(_ context.Context, id string, set map[string]any) (*domain.MonthlyFee, error) {
	f, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrFeeNotFound
	}
	if v, ok := set["amount"]; ok {
		f.Amount = v.(float64)
	}
	if v, ok := set["status"]; ok {
		f.Status = v.(domain.FeeStatus)
	}
	if v, ok := set["paid_at"]; ok {
		if v == nil {
			f.PaidAt = nil
		} else {
			at := v.(time.Time)
			f.PaidAt = &at
		}
	}
	clone := *f
	return &clone, nil
}

func newFeeFixture() (*FeeService, *stubFeeRepo, *stubUserRepo) {
	repo := newStubFeeRepo()
	users := newStubUserRepo()
	svc := NewFeeService(repo, users, &stubActivityRepo{}, zerolog.Nop())
	return svc, repo, users
}

func TestFeeCreate_AdminOnlyAndValidation(t *testing.T) {
	svc, _, users := newFeeFixture()
	users.seed(domain.User{ID: "res-1", Name: "Rita", Email: "rita@x.io", Role: domain.RoleResident, CommunityID: "comm-1"})
	ctx := context.Background()

	ok := ports.CreateFeeInput{ResidentID: "res-1", Month: 8, Year: 2026, Amount: 120}
	if _, err := svc.Create(ctx, resident("res-1"), ok); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("resident: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Create(ctx, staffActor("staff-1"), ok); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("staff: err = %v, want ErrForbidden", err)
	}

	bad := []ports.CreateFeeInput{
		{ResidentID: "res-1", Month: 0, Year: 2026, Amount: 120},
		{ResidentID: "res-1", Month: 13, Year: 2026, Amount: 120},
		{ResidentID: "res-1", Month: 8, Year: 1999, Amount: 120},
		{ResidentID: "res-1", Month: 8, Year: 2026, Amount: 0},
	}
	for i, input := range bad {
		if _, err := svc.Create(ctx, adminActor("adm-1"), input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}

	created, err := svc.Create(ctx, adminActor("adm-1"), ok)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.FeeUnpaid {
		t.Errorf("status = %s, want unpaid", created.Status)
	}
	if !created.Resident.Resolved() || created.Resident.User.Name != "Rita" {
		t.Errorf("resident ref not resolved at write: %+v", created.Resident)
	}
	if created.CommunityID != "comm-1" {
		t.Errorf("community not inherited from resident: %q", created.CommunityID)
	}
}

func TestFeeCreate_TargetMustBeResident(t *testing.T) {
	svc, repo, users := newFeeFixture()
	users.seed(domain.User{ID: "staff-1", Name: "Sam", Email: "sam@x.io", Role: domain.RoleStaff})
	users.seed(domain.User{ID: "adm-2", Name: "Ada", Email: "ada@x.io", Role: domain.RoleAdmin})
	ctx := context.Background()

	for _, id := range []string{"staff-1", "adm-2"} {
		input := ports.CreateFeeInput{ResidentID: id, Month: 8, Year: 2026, Amount: 120}
		if _, err := svc.Create(ctx, adminActor("adm-1"), input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", id, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Errorf("fee stored for a non-resident: %d records", len(repo.byID))
	}
}

func TestFeeCreate_DuplicateMonth(t *testing.T) {
	svc, _, users := newFeeFixture()
	users.seed(domain.User{ID: "res-1", Name: "Rita", Email: "rita@x.io", Role: domain.RoleResident})
	ctx := context.Background()

	input := ports.CreateFeeInput{ResidentID: "res-1", Month: 8, Year: 2026, Amount: 120}
	if _, err := svc.Create(ctx, adminActor("adm-1"), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, adminActor("adm-1"), input); !errors.Is(err, domain.ErrDuplicateFee) {
		t.Errorf("second create: err = %v, want ErrDuplicateFee", err)
	}
}

func TestFeeUpdate_PaidStampsAndClears(t *testing.T) {
	svc, repo, users := newFeeFixture()
	users.seed(domain.User{ID: "res-1", Name: "Rita", Email: "rita@x.io", Role: domain.RoleResident})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminActor("adm-1"), ports.CreateFeeInput{ResidentID: "res-1", Month: 8, Year: 2026, Amount: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paid := domain.FeePaid
	updated, err := svc.Update(ctx, adminActor("adm-1"), created.ID, ports.UpdateFeeInput{Status: &paid})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if updated.Status != domain.FeePaid || updated.PaidAt == nil {
		t.Errorf("paid_at not stamped: %+v", updated)
	}

	unpaid := domain.FeeUnpaid
	updated, err = svc.Update(ctx, adminActor("adm-1"), created.ID, ports.UpdateFeeInput{Status: &unpaid})
	if err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}
	if updated.Status != domain.FeeUnpaid || updated.PaidAt != nil {
		t.Errorf("paid_at not cleared: %+v", updated)
	}
	if repo.byID[created.ID].PaidAt != nil {
		t.Errorf("store kept paid_at: %+v", repo.byID[created.ID])
	}
}

func TestFeeUpdate_Validation(t *testing.T) {
	svc, _, users := newFeeFixture()
	users.seed(domain.User{ID: "res-1", Name: "Rita", Email: "rita@x.io", Role: domain.RoleResident})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminActor("adm-1"), ports.CreateFeeInput{ResidentID: "res-1", Month: 8, Year: 2026, Amount: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	negative := -5.0
	if _, err := svc.Update(ctx, adminActor("adm-1"), created.ID, ports.UpdateFeeInput{Amount: &negative}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative amount: err = %v, want ErrValidation", err)
	}
	weird := domain.FeeStatus("pending")
	if _, err := svc.Update(ctx, adminActor("adm-1"), created.ID, ports.UpdateFeeInput{Status: &weird}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}
}
