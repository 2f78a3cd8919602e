package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/events"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// MaxBatchLogEntries caps one batch submission.
const MaxBatchLogEntries = 50

// TimeLogService manages time log entries. Hours per entry must fall in
// (0, 24]; references to employees and tickets are checked before writes.
type TimeLogService struct {
	timeLogs   repository.TimeLogRepository
	employees  repository.EmployeeRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TimeLogDependencies bundles collaborators.
type TimeLogDependencies struct {
	TimeLogRepo  repository.TimeLogRepository
	EmployeeRepo repository.EmployeeRepository
	TicketRepo   repository.TicketRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewTimeLogService creates the service.
func NewTimeLogService(deps TimeLogDependencies) *TimeLogService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeLogService{
		timeLogs:   deps.TimeLogRepo,
		employees:  deps.EmployeeRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// TimeLogCreateInput carries the fields accepted on creation.
type TimeLogCreateInput struct {
	EmployeeID  string
	TicketID    *string
	Description string
	HoursWorked float64
	WorkDate    time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Billable    bool
}

// Create records one log entry.
func (s *TimeLogService) Create(ctx context.Context, ownerID string, input TimeLogCreateInput) (*domain.TimeLog, error) {
	if err := s.validateInput(ctx, ownerID, input); err != nil {
		return nil, err
	}

	log := &domain.TimeLog{
		OwnerID:     ownerID,
		EmployeeID:  input.EmployeeID,
		TicketID:    input.TicketID,
		Description: input.Description,
		HoursWorked: input.HoursWorked,
		WorkDate:    input.WorkDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Billable:    input.Billable,
	}
	if err := s.timeLogs.Create(ctx, log); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishLogged(ctx, ownerID, log)
	return log, nil
}

// CreateBatch records several entries atomically; one bad entry rejects the
// whole batch before anything is written.
func (s *TimeLogService) CreateBatch(ctx context.Context, ownerID string, inputs []TimeLogCreateInput) ([]domain.TimeLog, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError("at least one entry is required", nil)
	}
	if len(inputs) > MaxBatchLogEntries {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("batch must not exceed %d entries", MaxBatchLogEntries),
			map[string]any{"entries": len(inputs)},
		)
	}
	for i, input := range inputs {
		if err := s.validateInput(ctx, ownerID, input); err != nil {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) && domainErr.Details != nil {
				domainErr.Details["entry_index"] = i
			}
			return nil, err
		}
	}

	logs := make([]domain.TimeLog, 0, len(inputs))
	for _, input := range inputs {
		logs = append(logs, domain.TimeLog{
			OwnerID:     ownerID,
			EmployeeID:  input.EmployeeID,
			TicketID:    input.TicketID,
			Description: input.Description,
			HoursWorked: input.HoursWorked,
			WorkDate:    input.WorkDate,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			Billable:    input.Billable,
		})
	}
	created, err := s.timeLogs.CreateBatch(ctx, logs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range created {
		s.publishLogged(ctx, ownerID, &created[i])
	}
	return created, nil
}

// Get returns one log entry.
func (s *TimeLogService) Get(ctx context.Context, ownerID, logID string) (*domain.TimeLog, error) {
	log, err := s.timeLogs.GetByID(ctx, ownerID, logID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("time log", map[string]any{"time_log_id": logID})
		}
		return nil, apperrors.MapError(err)
	}
	return log, nil
}

// List returns log entries matching the filter, newest first.
func (s *TimeLogService) List(ctx context.Context, ownerID string, filter repository.TimeLogFilter) ([]domain.TimeLog, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, apperrors.NewValidationError("start_date must not be after end_date", nil)
	}
	rows, err := s.timeLogs.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// Update applies a partial update.
func (s *TimeLogService) Update(ctx context.Context, ownerID, logID string, patch repository.TimeLogPatch) (*domain.TimeLog, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.HoursWorked != nil && !domain.ValidHours(*patch.HoursWorked) {
		return nil, apperrors.NewValidationError("hours_worked must be greater than 0 and at most 24",
			map[string]any{"hours_worked": *patch.HoursWorked})
	}
	if patch.EmployeeID != nil {
		if err := s.checkEmployee(ctx, ownerID, *patch.EmployeeID); err != nil {
			return nil, err
		}
	}
	if patch.TicketID != nil {
		if err := s.checkTicket(ctx, ownerID, *patch.TicketID); err != nil {
			return nil, err
		}
	}

	log, err := s.timeLogs.Patch(ctx, ownerID, logID, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("time log", map[string]any{"time_log_id": logID})
		}
		return nil, apperrors.MapError(err)
	}
	return log, nil
}

// Delete removes a log entry.
func (s *TimeLogService) Delete(ctx context.Context, ownerID, logID string) error {
	if err := s.timeLogs.Delete(ctx, ownerID, logID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("time log", map[string]any{"time_log_id": logID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TimeLogService) validateInput(ctx context.Context, ownerID string, input TimeLogCreateInput) error {
	if input.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id is required", nil)
	}
	if !domain.ValidHours(input.HoursWorked) {
		return apperrors.NewValidationError("hours_worked must be greater than 0 and at most 24",
			map[string]any{"hours_worked": input.HoursWorked})
	}
	if input.WorkDate.IsZero() {
		return apperrors.NewValidationError("work_date is required", nil)
	}
	if err := s.checkEmployee(ctx, ownerID, input.EmployeeID); err != nil {
		return err
	}
	if input.TicketID != nil {
		if err := s.checkTicket(ctx, ownerID, *input.TicketID); err != nil {
			return err
		}
	}
	return nil
}

func (s *TimeLogService) checkEmployee(ctx context.Context, ownerID, employeeID string) error {
	if _, err := s.employees.GetByID(ctx, ownerID, employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TimeLogService) checkTicket(ctx context.Context, ownerID, ticketID string) error {
	if _, err := s.tickets.GetByID(ctx, ownerID, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TimeLogService) publishLogged(ctx context.Context, ownerID string, log *domain.TimeLog) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTimeLogged,
		OwnerID:   ownerID,
		Timestamp: s.now().UTC(),
		Payload: events.TimeLoggedPayload{
			TimeLogID:  log.ID,
			EmployeeID: log.EmployeeID,
			TicketID:   log.TicketID,
			Hours:      log.HoursWorked,
			Billable:   log.Billable,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.Error(err), zap.String("event_type", string(event.Type)))
	}
}
