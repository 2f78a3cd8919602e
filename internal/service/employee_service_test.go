package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/events"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

type employeeFixture struct {
	svc        *EmployeeService
	employees  *fakeEmployeeRepo
	tickets    *fakeTicketRepo
	workloads  *fakeWorkloadRepo
	summaries  *fakeSummaryRepo
	dispatcher *recordingDispatcher
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	engineering := "Engineering"
	employees := newFakeEmployeeRepo(
		domain.Employee{
			ID:              "emp-1",
			OwnerID:         testOwner,
			Name:            "Dana",
			Email:           "dana@example.com",
			Department:      &engineering,
			Specializations: []string{"Backend", "SQL"},
			Active:          true,
		},
		domain.Employee{
			ID:              "emp-2",
			OwnerID:         testOwner,
			Name:            "Lee",
			Email:           "lee@example.com",
			Specializations: []string{"backend"},
			Active:          true,
		},
	)
	tickets := newFakeTicketRepo()
	workloads := &fakeWorkloadRepo{}
	summaries := newFakeSummaryRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewEmployeeService(EmployeeDependencies{
		EmployeeRepo: employees,
		TicketRepo:   tickets,
		TimeLogRepo:  &fakeTimeLogRepo{},
		WorkloadRepo: workloads,
		SummaryRepo:  summaries,
		Dispatcher:   dispatcher,
		Now: func() time.Time {
			return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
		},
	})
	return &employeeFixture{svc: svc, employees: employees, tickets: tickets, workloads: workloads, summaries: summaries, dispatcher: dispatcher}
}

func TestDeleteEmployeeWithActiveTickets(t *testing.T) {
	f := newEmployeeFixture(t)
	f.tickets.activeByAssignee = 3

	err := f.svc.Delete(context.Background(), testOwner, "emp-1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Contains(t, domainErr.Message, "3 active assigned ticket")
	assert.Empty(t, f.employees.deleted, "the employee row must survive a rejected delete")
}

func TestDeleteEmployeeClean(t *testing.T) {
	f := newEmployeeFixture(t)
	f.tickets.activeByAssignee = 0

	err := f.svc.Delete(context.Background(), testOwner, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"emp-1"}, f.employees.deleted)

	published := f.dispatcher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventEmployeeDeleted, published[0].Type)
}

func TestDeleteEmployeeUnknown(t *testing.T) {
	f := newEmployeeFixture(t)

	err := f.svc.Delete(context.Background(), testOwner, "emp-missing")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestCreateEmployeeDefaultsActive(t *testing.T) {
	f := newEmployeeFixture(t)

	employee, err := f.svc.Create(context.Background(), testOwner, EmployeeCreateInput{
		Name:  "Sam",
		Email: "sam@example.com",
	})
	require.NoError(t, err)
	assert.True(t, employee.Active)
}

func TestCreateEmployeeRequiresNameAndEmail(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.svc.Create(context.Background(), testOwner, EmployeeCreateInput{Email: "x@example.com"})
	require.Error(t, err)

	_, err = f.svc.Create(context.Background(), testOwner, EmployeeCreateInput{Name: "Sam"})
	require.Error(t, err)
}

func TestSpecializationsFoldCase(t *testing.T) {
	f := newEmployeeFixture(t)

	entries, err := f.svc.Specializations(context.Background(), testOwner)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Count, "Backend and backend fold to one tag")
	assert.Equal(t, "Backend", entries[0].Name, "first spelling seen wins")
	assert.Equal(t, "SQL", entries[1].Name)
	assert.Equal(t, 1, entries[1].Count)
}

func TestListBySpecialization(t *testing.T) {
	f := newEmployeeFixture(t)

	matched, err := f.svc.ListBySpecialization(context.Background(), testOwner, "BACKEND")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	matched, err = f.svc.ListBySpecialization(context.Background(), testOwner, "Frontend")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestPerformanceDayBounds(t *testing.T) {
	f := newEmployeeFixture(t)

	for _, days := range []int{-1, 366} {
		_, err := f.svc.Performance(context.Background(), testOwner, "emp-1", days)
		require.Error(t, err, "days=%d", days)
	}

	report, err := f.svc.Performance(context.Background(), testOwner, "emp-1", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerformanceDays, report.Period.Days)
}

func TestAssignedTickets(t *testing.T) {
	f := newEmployeeFixture(t)
	emp := "emp-1"
	other := "emp-2"
	f.summaries.summaries["t-1"] = &domain.TicketSummary{ID: "t-1", OwnerID: testOwner, EmployeeID: &emp, Status: domain.TicketStatusOpen}
	f.summaries.summaries["t-2"] = &domain.TicketSummary{ID: "t-2", OwnerID: testOwner, EmployeeID: &emp, Status: domain.TicketStatusResolved}
	f.summaries.summaries["t-3"] = &domain.TicketSummary{ID: "t-3", OwnerID: testOwner, EmployeeID: &other, Status: domain.TicketStatusOpen}

	list, err := f.svc.AssignedTickets(context.Background(), testOwner, "emp-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "Dana", list.Employee.Name)
	assert.Len(t, list.Tickets, 2)

	open := domain.TicketStatusOpen
	list, err = f.svc.AssignedTickets(context.Background(), testOwner, "emp-1", &open)
	require.NoError(t, err)
	require.Len(t, list.Tickets, 1)
	assert.Equal(t, "t-1", list.Tickets[0].ID)
}

func TestAssignedTicketsUnknownEmployee(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.svc.AssignedTickets(context.Background(), testOwner, "emp-missing", nil)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAssignedTicketsInvalidStatus(t *testing.T) {
	f := newEmployeeFixture(t)

	bogus := domain.TicketStatus("bogus")
	_, err := f.svc.AssignedTickets(context.Background(), testOwner, "emp-1", &bogus)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestDepartments(t *testing.T) {
	support := "Support"
	engineering := "Engineering"
	blank := "  "
	employees := newFakeEmployeeRepo(
		domain.Employee{ID: "emp-1", OwnerID: testOwner, Name: "Dana", Email: "dana@example.com", Department: &support, Active: true},
		domain.Employee{ID: "emp-2", OwnerID: testOwner, Name: "Lee", Email: "lee@example.com", Department: &engineering, Active: true},
		domain.Employee{ID: "emp-3", OwnerID: testOwner, Name: "Sam", Email: "sam@example.com", Department: &engineering, Active: true},
		domain.Employee{ID: "emp-4", OwnerID: testOwner, Name: "Ida", Email: "ida@example.com", Department: &blank, Active: true},
		domain.Employee{ID: "emp-5", OwnerID: testOwner, Name: "Joe", Email: "joe@example.com", Active: true},
	)
	svc := NewEmployeeService(EmployeeDependencies{EmployeeRepo: employees})

	departments, err := svc.Departments(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineering", "Support"}, departments, "distinct, sorted, blanks skipped")
}

func TestDepartmentStats(t *testing.T) {
	f := newEmployeeFixture(t)
	engineering := "Engineering"
	f.workloads.snapshots = []domain.WorkloadSnapshot{
		{EmployeeID: "emp-1", Department: &engineering, Active: true, ActiveTickets: 2, TotalHoursLogged: 12.25},
		{EmployeeID: "emp-2", Department: &engineering, Active: false, ActiveTickets: 0, TotalHoursLogged: 3.0},
		{EmployeeID: "emp-3", Active: true, ActiveTickets: 1, TotalHoursLogged: 4.5},
	}

	stats, err := f.svc.DepartmentStats(context.Background(), testOwner)
	require.NoError(t, err)

	require.Len(t, stats, 2)
	assert.Equal(t, "Engineering", stats[0].Department)
	assert.Equal(t, 2, stats[0].Employees)
	assert.Equal(t, 1, stats[0].ActiveEmployees)
	assert.Equal(t, 2, stats[0].ActiveTickets)
	assert.Equal(t, 15.25, stats[0].TotalHoursLogged)
	assert.Equal(t, "Unassigned", stats[1].Department)
}
