package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/loga115/ticketflow/internal/domain"
	"github.com/loga115/ticketflow/internal/repository"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

// WorkloadService produces point-in-time workload snapshots.
type WorkloadService struct {
	workloads repository.WorkloadRepository
}

// NewWorkloadService creates the service.
func NewWorkloadService(workloads repository.WorkloadRepository) *WorkloadService {
	return &WorkloadService{workloads: workloads}
}

// GetSnapshot reads the employee's current workload. A missing row means the
// employee does not exist for this caller.
func (s *WorkloadService) GetSnapshot(ctx context.Context, ownerID, employeeID string) (*domain.WorkloadSnapshot, error) {
	snapshot, err := s.workloads.GetByEmployee(ctx, ownerID, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	return snapshot, nil
}

// ListSnapshots reads every employee's current workload, ordered by name.
func (s *WorkloadService) ListSnapshots(ctx context.Context, ownerID string) ([]domain.WorkloadSnapshot, error) {
	snapshots, err := s.workloads.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return snapshots, nil
}
