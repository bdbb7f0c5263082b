package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Shared test fixtures
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// testNow is the fixed reference time every service test runs at.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newFixedClock() *fixedClock { return &fixedClock{now: testNow} }

// nopLocker hands out leases unconditionally; the stub repos are not accessed
// concurrently in these tests.
type nopLocker struct{}

func (nopLocker) Acquire(_ context.Context, _ string) (func(), error) {
	return func() {}, nil
}

// recordingNotifier captures every message so tests can assert on delivery
// without a transport.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []struct{ UserID, Message string }
}

func (n *recordingNotifier) Notify(_ context.Context, userID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, struct{ UserID, Message string }{userID, message})
}

func (n *recordingNotifier) sentTo(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, m := range n.messages {
		if m.UserID == userID {
			count++
		}
	}
	return count
}

func activePrincipal(rank int, perms ...string) domain.Principal {
	return domain.Principal{
		UserID: "user-test",
		Name:   "Test User",
		Status: domain.UserActive,
		Role: domain.RoleSnapshot{
			ID:          "role-test",
			Name:        "Test Role",
			Rank:        rank,
			Permissions: perms,
		},
	}
}

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubRoleRepo struct {
	byID      map[string]*domain.Role
	createErr error
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{byID: make(map[string]*domain.Role)}
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *role
	r.byID[role.ID] = &clone
	return nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id string) (*domain.Role, error) {
	role, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	for _, role := range r.byID {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	out := make([]*domain.Role, 0, len(r.byID))
	for _, role := range r.byID {
		clone := *role
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *domain.Role) error {
	if _, ok := r.byID[role.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *role
	r.byID[role.ID] = &clone
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubRoleRepo) MaxRank(_ context.Context) (int, error) {
	max := -1
	for _, role := range r.byID {
		if role.Rank > max {
			max = role.Rank
		}
	}
	return max, nil
}

func seedRole(repo *stubRoleRepo, id, name string, rank int, perms ...string) *domain.Role {
	role := &domain.Role{
		ID:          id,
		Name:        name,
		Rank:        rank,
		Permissions: perms,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	repo.byID[id] = role
	return role
}

type stubUserRepo struct {
	byID           map[string]*domain.User
	createErr      error
	updateErr      error
	countByRoleErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
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
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, roleID string) (int64, error) {
	if r.countByRoleErr != nil {
		return 0, r.countByRoleErr
	}
	var n int64
	for _, u := range r.byID {
		if u.Role.ID == roleID {
			n++
		}
	}
	return n, nil
}

type stubProjectRepo struct {
	byID         map[string]*domain.Project
	comments     map[string][]*domain.Comment
	setStatusErr error
	deleteErr    error
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{
		byID:     make(map[string]*domain.Project),
		comments: make(map[string][]*domain.Comment),
	}
}

func (r *stubProjectRepo) Create(_ context.Context, p *domain.Project) error {
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubProjectRepo) List(_ context.Context, f ports.ListProjectsFilter) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.byID {
		if f.AssignedTo != "" && !p.IsAssigned(f.AssignedTo) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubProjectRepo) SetStatus(_ context.Context, id string, status domain.ProjectStatus, at time.Time) error {
	if r.setStatusErr != nil {
		return r.setStatusErr
	}
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = at
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubProjectRepo) AddComment(_ context.Context, c *domain.Comment) error {
	clone := *c
	r.comments[c.ProjectID] = append(r.comments[c.ProjectID], &clone)
	return nil
}

func (r *stubProjectRepo) ListComments(_ context.Context, projectID string) ([]*domain.Comment, error) {
	out := make([]*domain.Comment, 0, len(r.comments[projectID]))
	for _, c := range r.comments[projectID] {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func seedProject(repo *stubProjectRepo, id string, status domain.ProjectStatus, assigned ...string) *domain.Project {
	p := &domain.Project{
		ID:            id,
		Title:         "Project " + id,
		Status:        status,
		DueDate:       testNow.AddDate(0, 1, 0),
		AssignedUsers: assigned,
		CreatedBy:     "creator-1",
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	repo.byID[id] = p
	return p
}

type stubReviewRepo struct {
	byID       map[string]*domain.ReviewRequest
	resolveErr error
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byID: make(map[string]*domain.ReviewRequest)}
}

func (r *stubReviewRepo) Create(_ context.Context, rr *domain.ReviewRequest) error {
	clone := *rr
	r.byID[rr.ID] = &clone
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id string) (*domain.ReviewRequest, error) {
	rr, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rr
	return &clone, nil
}

func (r *stubReviewRepo) FindPendingByProject(_ context.Context, projectID string) (*domain.ReviewRequest, error) {
	for _, rr := range r.byID {
		if rr.ProjectID == projectID && rr.Status == domain.ReviewPending {
			clone := *rr
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubReviewRepo) List(_ context.Context, f ports.ListReviewsFilter) ([]*domain.ReviewRequest, error) {
	var out []*domain.ReviewRequest
	for _, rr := range r.byID {
		if f.Status != "" && rr.Status != f.Status {
			continue
		}
		if f.SubmittedBy != "" && rr.SubmittedBy != f.SubmittedBy {
			continue
		}
		clone := *rr
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Resolve mirrors the real repo's conditional write: only a pending request
// can be resolved, and the losing side of a race sees ErrInvalidState.
func (r *stubReviewRepo) Resolve(_ context.Context, id string, res ports.ReviewResolution) error {
	if r.resolveErr != nil {
		return r.resolveErr
	}
	rr, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rr.Status != domain.ReviewPending {
		return domain.ErrInvalidState
	}
	rr.Status = res.Status
	rr.ReviewedBy = res.ReviewedBy
	rr.ReviewedByName = res.ReviewedByName
	rr.Comments = res.Comments
	rr.UpdatedAt = res.At
	return nil
}

func seedPendingReview(repo *stubReviewRepo, id, projectID, submittedBy string) *domain.ReviewRequest {
	rr := &domain.ReviewRequest{
		ID:          id,
		ProjectID:   projectID,
		ProjectTitle: "Project " + projectID,
		Status:      domain.ReviewPending,
		SubmittedBy: submittedBy,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	repo.byID[id] = rr
	return rr
}

type stubLedgerRepo struct {
	byID      map[string]*domain.ApprovedProjectEntry
	appendErr error
}

func newStubLedgerRepo() *stubLedgerRepo {
	return &stubLedgerRepo{byID: make(map[string]*domain.ApprovedProjectEntry)}
}

func (r *stubLedgerRepo) Append(_ context.Context, e *domain.ApprovedProjectEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubLedgerRepo) FindByID(_ context.Context, id string) (*domain.ApprovedProjectEntry, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubLedgerRepo) List(_ context.Context, f ports.LedgerFilter) ([]*domain.ApprovedProjectEntry, error) {
	var out []*domain.ApprovedProjectEntry
	for _, e := range r.byID {
		if f.TitleContains != "" && !strings.Contains(strings.ToLower(e.ProjectTitle), strings.ToLower(f.TitleContains)) {
			continue
		}
		if f.Month != "" && e.ApprovedAt.UTC().Format("2006-01") != f.Month {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubLedgerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
