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
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

type timeLogFixture struct {
	svc        *TimeLogService
	timeLogs   *fakeTimeLogRepo
	tickets    *fakeTicketRepo
	dispatcher *recordingDispatcher
}

func newTimeLogFixture(t *testing.T) *timeLogFixture {
	t.Helper()
	employees := newFakeEmployeeRepo(domain.Employee{
		ID:      "emp-1",
		OwnerID: testOwner,
		Name:    "Dana",
		Email:   "dana@example.com",
		Active:  true,
	})
	tickets := newFakeTicketRepo()
	tickets.tickets["ticket-1"] = &domain.Ticket{
		ID:      "ticket-1",
		OwnerID: testOwner,
		Title:   "Fix login",
		Status:  domain.TicketStatusOpen,
	}
	timeLogs := &fakeTimeLogRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewTimeLogService(TimeLogDependencies{
		TimeLogRepo:  timeLogs,
		EmployeeRepo: employees,
		TicketRepo:   tickets,
		Dispatcher:   dispatcher,
		Now: func() time.Time {
			return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
		},
	})
	return &timeLogFixture{svc: svc, timeLogs: timeLogs, tickets: tickets, dispatcher: dispatcher}
}

func validLogInput() TimeLogCreateInput {
	ticketID := "ticket-1"
	return TimeLogCreateInput{
		EmployeeID:  "emp-1",
		TicketID:    &ticketID,
		Description: "Investigated login failures",
		HoursWorked: 2.5,
		WorkDate:    time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC),
		Billable:    true,
	}
}

func TestCreateTimeLog(t *testing.T) {
	f := newTimeLogFixture(t)

	log, err := f.svc.Create(context.Background(), testOwner, validLogInput())
	require.NoError(t, err)
	assert.Equal(t, 2.5, log.HoursWorked)
	assert.True(t, log.Billable)

	published := f.dispatcher.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTimeLogged, published[0].Type)
	payload, ok := published[0].Payload.(events.TimeLoggedPayload)
	require.True(t, ok)
	assert.Equal(t, 2.5, payload.Hours)
	assert.True(t, payload.Billable)
}

func TestCreateTimeLogHoursBounds(t *testing.T) {
	f := newTimeLogFixture(t)

	for _, hours := range []float64{0, -1, 24.5} {
		input := validLogInput()
		input.HoursWorked = hours
		_, err := f.svc.Create(context.Background(), testOwner, input)
		require.Error(t, err, "hours=%v", hours)
		var domainErr *apperrors.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}

	input := validLogInput()
	input.HoursWorked = 24
	_, err := f.svc.Create(context.Background(), testOwner, input)
	assert.NoError(t, err, "a full 24-hour day is allowed")
}

func TestCreateTimeLogUnknownEmployee(t *testing.T) {
	f := newTimeLogFixture(t)

	input := validLogInput()
	input.EmployeeID = "emp-missing"
	_, err := f.svc.Create(context.Background(), testOwner, input)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestCreateTimeLogUnknownTicket(t *testing.T) {
	f := newTimeLogFixture(t)

	input := validLogInput()
	missing := "ticket-missing"
	input.TicketID = &missing
	_, err := f.svc.Create(context.Background(), testOwner, input)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestCreateTimeLogWithoutTicket(t *testing.T) {
	f := newTimeLogFixture(t)

	input := validLogInput()
	input.TicketID = nil
	_, err := f.svc.Create(context.Background(), testOwner, input)
	assert.NoError(t, err, "general (non-ticket) time is allowed")
}

func TestCreateBatchRejectsBadEntryWithIndex(t *testing.T) {
	f := newTimeLogFixture(t)

	bad := validLogInput()
	bad.HoursWorked = 0
	_, err := f.svc.CreateBatch(context.Background(), testOwner, []TimeLogCreateInput{validLogInput(), bad})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, 1, domainErr.Details["entry_index"])
	assert.Empty(t, f.timeLogs.logs, "nothing is written when any entry fails")
	assert.Empty(t, f.dispatcher.Events())
}

func TestCreateBatchSizeCap(t *testing.T) {
	f := newTimeLogFixture(t)

	inputs := make([]TimeLogCreateInput, MaxBatchLogEntries+1)
	for i := range inputs {
		inputs[i] = validLogInput()
	}
	_, err := f.svc.CreateBatch(context.Background(), testOwner, inputs)
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	_, err = f.svc.CreateBatch(context.Background(), testOwner, nil)
	require.Error(t, err, "an empty batch is rejected")
}

func TestCreateBatchPublishesPerEntry(t *testing.T) {
	f := newTimeLogFixture(t)

	created, err := f.svc.CreateBatch(context.Background(), testOwner,
		[]TimeLogCreateInput{validLogInput(), validLogInput(), validLogInput()})
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Len(t, f.dispatcher.Events(), 3)
}

func TestListTimeLogsInvertedRange(t *testing.T) {
	f := newTimeLogFixture(t)

	start := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.List(context.Background(), testOwner, repository.TimeLogFilter{StartDate: &start, EndDate: &end})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateTimeLogHours(t *testing.T) {
	f := newTimeLogFixture(t)

	log, err := f.svc.Create(context.Background(), testOwner, validLogInput())
	require.NoError(t, err)

	bad := 30.0
	_, err = f.svc.Update(context.Background(), testOwner, log.ID, repository.TimeLogPatch{HoursWorked: &bad})
	require.Error(t, err)

	good := 3.0
	updated, err := f.svc.Update(context.Background(), testOwner, log.ID, repository.TimeLogPatch{HoursWorked: &good})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.HoursWorked)
}

func TestDeleteTimeLogUnknown(t *testing.T) {
	f := newTimeLogFixture(t)

	err := f.svc.Delete(context.Background(), testOwner, "log-missing")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
