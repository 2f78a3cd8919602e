package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/events"
	"github.com/loga115/ticketflow/internal/repository"
)

// fixedRand returns the same jitter on every draw.
type fixedRand struct {
	value int
}

func (f fixedRand) Intn(n int) int {
	if f.value >= n {
		return n - 1
	}
	return f.value
}

type fakeTicketRepo struct {
	tickets          map[string]*domain.Ticket
	created          []domain.Ticket
	createdWindow    []domain.Ticket
	completedWindow  []domain.Ticket
	assignedSince    []domain.Ticket
	byAssignee       []domain.Ticket
	activeByAssignee int
	statRows         []repository.TicketStatRow
	completionCalls  []completionCall
}

type completionCall struct {
	TicketID    string
	Status      domain.TicketStatus
	CompletedAt *time.Time
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = "ticket-" + ticket.Title
	}
	if ticket.TicketNumber == "" {
		ticket.TicketNumber = "TKT-000001"
	}
	copied := *ticket
	r.created = append(r.created, copied)
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok || ticket.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Patch(ctx context.Context, ownerID, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok || ticket.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	if patch.Title != nil {
		ticket.Title = *patch.Title
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) SetAssignment(ctx context.Context, ownerID, id string, assigneeID *string, assignedAt *time.Time) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok || ticket.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	ticket.AssigneeID = assigneeID
	ticket.AssignedAt = assignedAt
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) SetCompletion(ctx context.Context, ownerID, id string, status domain.TicketStatus, completedAt *time.Time) error {
	ticket, ok := r.tickets[id]
	if !ok || ticket.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.CompletedAt = completedAt
	r.completionCalls = append(r.completionCalls, completionCall{TicketID: id, Status: status, CompletedAt: completedAt})
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, ownerID, id string) error {
	ticket, ok := r.tickets[id]
	if !ok || ticket.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) ListByAssignee(ctx context.Context, ownerID, employeeID string, limit int) ([]domain.Ticket, error) {
	return r.byAssignee, nil
}

func (r *fakeTicketRepo) ListAssignedSince(ctx context.Context, ownerID, employeeID string, since time.Time) ([]domain.Ticket, error) {
	return r.assignedSince, nil
}

func (r *fakeTicketRepo) ListCreatedWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.Ticket, error) {
	return r.createdWindow, nil
}

func (r *fakeTicketRepo) ListCompletedWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.Ticket, error) {
	return r.completedWindow, nil
}

func (r *fakeTicketRepo) CountActiveByAssignee(ctx context.Context, employeeID string) (int, error) {
	return r.activeByAssignee, nil
}

func (r *fakeTicketRepo) StatRows(ctx context.Context, ownerID string) ([]repository.TicketStatRow, error) {
	return r.statRows, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*domain.Employee
	deleted   []string
}

func newFakeEmployeeRepo(employees ...domain.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[string]*domain.Employee)}
	for i := range employees {
		emp := employees[i]
		repo.employees[emp.ID] = &emp
	}
	return repo
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, employee *domain.Employee) error {
	if employee.ID == "" {
		employee.ID = "emp-" + employee.Email
	}
	copied := *employee
	r.employees[employee.ID] = &copied
	return nil
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *emp
	return &copied, nil
}

func (r *fakeEmployeeRepo) Patch(ctx context.Context, ownerID, id string, patch repository.EmployeePatch) (*domain.Employee, error) {
	emp, ok := r.employees[id]
	if !ok || emp.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	if patch.Name != nil {
		emp.Name = *patch.Name
	}
	if patch.Active != nil {
		emp.Active = *patch.Active
	}
	copied := *emp
	return &copied, nil
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, ownerID, id string) error {
	emp, ok := r.employees[id]
	if !ok || emp.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(r.employees, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeEmployeeRepo) List(ctx context.Context, ownerID string, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		if emp.OwnerID == ownerID {
			out = append(out, *emp)
		}
	}
	return out, nil
}

type fakeTimeLogRepo struct {
	logs []domain.TimeLog
}

func (r *fakeTimeLogRepo) Create(ctx context.Context, log *domain.TimeLog) error {
	if log.ID == "" {
		log.ID = "log-" + log.EmployeeID
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeTimeLogRepo) CreateBatch(ctx context.Context, logs []domain.TimeLog) ([]domain.TimeLog, error) {
	r.logs = append(r.logs, logs...)
	return logs, nil
}

func (r *fakeTimeLogRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.TimeLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id && r.logs[i].OwnerID == ownerID {
			copied := r.logs[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTimeLogRepo) Patch(ctx context.Context, ownerID, id string, patch repository.TimeLogPatch) (*domain.TimeLog, error) {
	for i := range r.logs {
		if r.logs[i].ID == id && r.logs[i].OwnerID == ownerID {
			if patch.HoursWorked != nil {
				r.logs[i].HoursWorked = *patch.HoursWorked
			}
			copied := r.logs[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTimeLogRepo) Delete(ctx context.Context, ownerID, id string) error {
	for i := range r.logs {
		if r.logs[i].ID == id && r.logs[i].OwnerID == ownerID {
			r.logs = append(r.logs[:i], r.logs[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTimeLogRepo) List(ctx context.Context, ownerID string, filter repository.TimeLogFilter) ([]domain.TimeLog, error) {
	out := make([]domain.TimeLog, 0, len(r.logs))
	for _, log := range r.logs {
		if log.OwnerID != ownerID {
			continue
		}
		if filter.EmployeeID != nil && log.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, log)
	}
	return out, nil
}

func (r *fakeTimeLogRepo) ListByEmployeeWindow(ctx context.Context, ownerID, employeeID string, window domain.PeriodWindow) ([]domain.TimeLog, error) {
	out := make([]domain.TimeLog, 0)
	for _, log := range r.logs {
		if log.OwnerID == ownerID && log.EmployeeID == employeeID && window.Contains(log.WorkDate) {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *fakeTimeLogRepo) ListByTicket(ctx context.Context, ownerID, ticketID string) ([]domain.TimeLog, error) {
	out := make([]domain.TimeLog, 0)
	for _, log := range r.logs {
		if log.OwnerID == ownerID && log.TicketID != nil && *log.TicketID == ticketID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (r *fakeTimeLogRepo) ListByWindow(ctx context.Context, ownerID string, window domain.PeriodWindow) ([]domain.TimeLog, error) {
	out := make([]domain.TimeLog, 0)
	for _, log := range r.logs {
		if log.OwnerID == ownerID && window.Contains(log.WorkDate) {
			out = append(out, log)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.TicketCategory
}

func newFakeCategoryRepo(categories ...domain.TicketCategory) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: make(map[string]*domain.TicketCategory)}
	for i := range categories {
		cat := categories[i]
		repo.categories[cat.ID] = &cat
	}
	return repo
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *domain.TicketCategory) error {
	if category.ID == "" {
		category.ID = "cat-" + category.Name
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.TicketCategory, error) {
	cat, ok := r.categories[id]
	if !ok || cat.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *cat
	return &copied, nil
}

func (r *fakeCategoryRepo) Patch(ctx context.Context, ownerID, id string, patch repository.CategoryPatch) (*domain.TicketCategory, error) {
	cat, ok := r.categories[id]
	if !ok || cat.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	copied := *cat
	return &copied, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, ownerID, id string) error {
	cat, ok := r.categories[id]
	if !ok || cat.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) List(ctx context.Context, ownerID string) ([]domain.TicketCategory, error) {
	out := make([]domain.TicketCategory, 0, len(r.categories))
	for _, cat := range r.categories {
		if cat.OwnerID == ownerID {
			out = append(out, *cat)
		}
	}
	return out, nil
}

type fakeSummaryRepo struct {
	summaries map[string]*domain.TicketSummary
}

func newFakeSummaryRepo(summaries ...domain.TicketSummary) *fakeSummaryRepo {
	repo := &fakeSummaryRepo{summaries: make(map[string]*domain.TicketSummary)}
	for i := range summaries {
		s := summaries[i]
		repo.summaries[s.ID] = &s
	}
	return repo
}

func (r *fakeSummaryRepo) List(ctx context.Context, ownerID string, filter repository.SummaryFilter) ([]domain.TicketSummary, error) {
	out := make([]domain.TicketSummary, 0, len(r.summaries))
	for _, s := range r.summaries {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSummaryRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.TicketSummary, error) {
	s, ok := r.summaries[id]
	if !ok || s.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSummaryRepo) ListByEmployee(ctx context.Context, ownerID, employeeID string, status *domain.TicketStatus) ([]domain.TicketSummary, error) {
	out := make([]domain.TicketSummary, 0)
	for _, s := range r.summaries {
		if s.OwnerID != ownerID || s.EmployeeID == nil || *s.EmployeeID != employeeID {
			continue
		}
		if status != nil && s.Status != *status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

type fakeWorkloadRepo struct {
	snapshots []domain.WorkloadSnapshot
}

func (r *fakeWorkloadRepo) GetByEmployee(ctx context.Context, ownerID, employeeID string) (*domain.WorkloadSnapshot, error) {
	for i := range r.snapshots {
		if r.snapshots[i].EmployeeID == employeeID {
			copied := r.snapshots[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeWorkloadRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkloadSnapshot, error) {
	return r.snapshots, nil
}

type fakeCommentRepo struct {
	comments []domain.TicketComment
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.TicketComment) error {
	if comment.ID == "" {
		comment.ID = "comment-1"
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, ownerID, ticketID, id, content string) (*domain.TicketComment, error) {
	for i := range r.comments {
		if r.comments[i].ID == id {
			r.comments[i].Content = content
			copied := r.comments[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) Delete(ctx context.Context, ownerID, ticketID, id string) error {
	for i := range r.comments {
		if r.comments[i].ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCommentRepo) ListByTicket(ctx context.Context, ownerID, ticketID string) ([]domain.TicketComment, error) {
	out := make([]domain.TicketComment, 0)
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	entries []domain.TicketHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *domain.TicketHistory) error {
	if entry.ID == "" {
		entry.ID = "history-1"
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(ctx context.Context, ownerID, ticketID string, limit int) ([]domain.TicketHistory, error) {
	out := make([]domain.TicketHistory, 0)
	for _, e := range r.entries {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) Events() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, len(d.events))
	copy(out, d.events)
	return out
}
