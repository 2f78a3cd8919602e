package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loga115/ticketflow/internal/config"
	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/events"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

type ticketFixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	employees  *fakeEmployeeRepo
	history    *fakeHistoryRepo
	dispatcher *recordingDispatcher
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	employees := newFakeEmployeeRepo(
		domain.Employee{ID: "emp-1", OwnerID: testOwner, Name: "Dana", Active: true},
		domain.Employee{ID: "emp-idle", OwnerID: testOwner, Name: "Idle", Active: false},
	)
	history := &fakeHistoryRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		SummaryRepo:  newFakeSummaryRepo(),
		CategoryRepo: newFakeCategoryRepo(domain.TicketCategory{ID: "cat-1", OwnerID: testOwner, Name: "Backend"}),
		EmployeeRepo: employees,
		CommentRepo:  &fakeCommentRepo{},
		HistoryRepo:  history,
		Dispatcher:   dispatcher,
		Config:       config.TicketConfig{DefaultStatus: "open", DefaultPriority: "medium"},
		Now: func() time.Time {
			return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
		},
	})
	return &ticketFixture{svc: svc, tickets: tickets, employees: employees, history: history, dispatcher: dispatcher}
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newTicketFixture(t)

	ticket, err := f.svc.Create(context.Background(), testOwner, TicketCreateInput{
		Title:      "Search broken",
		ReportedBy: "Alex",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Nil(t, ticket.AssignedAt)
	assert.Nil(t, ticket.CompletedAt)

	published := f.dispatcher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketCreated, published[0].Type)
	assert.Equal(t, testOwner, published[0].OwnerID)
}

func TestCreateTicketInvalidStatus(t *testing.T) {
	f := newTicketFixture(t)
	bogus := domain.TicketStatus("bogus")

	_, err := f.svc.Create(context.Background(), testOwner, TicketCreateInput{
		Title:      "Search broken",
		ReportedBy: "Alex",
		Status:     &bogus,
	})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code, "an explicit invalid status is rejected, not defaulted")
}

func TestCreateTicketMissingTitle(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Create(context.Background(), testOwner, TicketCreateInput{ReportedBy: "Alex"})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateTicketWithAssignee(t *testing.T) {
	f := newTicketFixture(t)
	assignee := "emp-1"

	ticket, err := f.svc.Create(context.Background(), testOwner, TicketCreateInput{
		Title:      "Search broken",
		ReportedBy: "Alex",
		AssigneeID: &assignee,
	})
	require.NoError(t, err)
	require.NotNil(t, ticket.AssignedAt)
}

func TestUpdateTicketEmptyPatch(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.Update(context.Background(), testOwner, "ticket-1", repository.TicketPatch{})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateTicketCompletionTransition(t *testing.T) {
	f := newTicketFixture(t)
	f.tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:      "ticket-1",
		OwnerID: testOwner,
		Title:   "Search broken",
		Status:  domain.TicketStatusInProgress,
	}

	resolved := domain.TicketStatusResolved
	updated, err := f.svc.Update(context.Background(), testOwner, "ticket-1", repository.TicketPatch{Status: &resolved})
	require.NoError(t, err)

	require.NotNil(t, updated.CompletedAt)
	require.Len(t, f.tickets.completionCalls, 1)
	assert.Equal(t, resolved, f.tickets.completionCalls[0].Status)

	published := f.dispatcher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketStatusChanged, published[0].Type)
	payload, ok := published[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusInProgress, payload.OldStatus)
	assert.Equal(t, resolved, payload.NewStatus)
}

func TestUpdateTicketReopenClearsCompletion(t *testing.T) {
	f := newTicketFixture(t)
	completedAt := time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)
	f.tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:          "ticket-1",
		OwnerID:     testOwner,
		Title:       "Search broken",
		Status:      domain.TicketStatusResolved,
		CompletedAt: &completedAt,
	}

	open := domain.TicketStatusOpen
	updated, err := f.svc.Update(context.Background(), testOwner, "ticket-1", repository.TicketPatch{Status: &open})
	require.NoError(t, err)

	assert.Nil(t, updated.CompletedAt)
	require.Len(t, f.tickets.completionCalls, 1)
	assert.Nil(t, f.tickets.completionCalls[0].CompletedAt)
}

func TestAssignTicket(t *testing.T) {
	f := newTicketFixture(t)
	f.tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:      "ticket-1",
		OwnerID: testOwner,
		Title:   "Search broken",
		Status:  domain.TicketStatusOpen,
	}

	ticket, err := f.svc.Assign(context.Background(), testOwner, "ticket-1", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, ticket.AssigneeID)
	assert.Equal(t, "emp-1", *ticket.AssigneeID)
	require.NotNil(t, ticket.AssignedAt)

	published := f.dispatcher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketAssigned, published[0].Type)
}

func TestAssignTicketInactiveEmployee(t *testing.T) {
	f := newTicketFixture(t)
	f.tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:      "ticket-1",
		OwnerID: testOwner,
		Status:  domain.TicketStatusOpen,
	}

	_, err := f.svc.Assign(context.Background(), testOwner, "ticket-1", "emp-idle")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUnassignTicket(t *testing.T) {
	f := newTicketFixture(t)
	assignee := "emp-1"
	assignedAt := time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)
	f.tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:         "ticket-1",
		OwnerID:    testOwner,
		Status:     domain.TicketStatusInProgress,
		AssigneeID: &assignee,
		AssignedAt: &assignedAt,
	}

	ticket, err := f.svc.Unassign(context.Background(), testOwner, "ticket-1")
	require.NoError(t, err)
	assert.Nil(t, ticket.AssigneeID)
	assert.Nil(t, ticket.AssignedAt)
}

func TestTicketCrossTenantIsNotFound(t *testing.T) {
	f := newTicketFixture(t)
	f.tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:      "ticket-1",
		OwnerID: "other-owner",
		Status:  domain.TicketStatusOpen,
	}

	err := f.svc.Delete(context.Background(), testOwner, "ticket-1")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code, "cross-tenant access must look like a missing row")
}

func TestStatsOverview(t *testing.T) {
	f := newTicketFixture(t)
	assignee := "emp-1"
	f.tickets.statRows = []repository.TicketStatRow{
		{Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh},
		{Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, AssigneeID: &assignee},
		{Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh, AssigneeID: &assignee},
	}

	overview, err := f.svc.StatsOverview(context.Background(), testOwner)
	require.NoError(t, err)

	assert.Equal(t, 3, overview.Total)
	assert.Equal(t, 2, overview.Open)
	assert.Equal(t, 1, overview.Completed)
	assert.Equal(t, 1, overview.Unassigned)
	require.NotEmpty(t, overview.ByStatus)
	assert.Equal(t, "open", overview.ByStatus[0].Key)
	assert.Equal(t, 2, overview.ByStatus[0].Count)
}
