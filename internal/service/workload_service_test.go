package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loga115/ticketflow/internal/domain"
	apperrors "github.com/loga115/ticketflow/pkg/util"
)

func TestGetSnapshotNotFound(t *testing.T) {
	svc := NewWorkloadService(&fakeWorkloadRepo{})

	_, err := svc.GetSnapshot(context.Background(), testOwner, "emp-missing")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestListSnapshots(t *testing.T) {
	repo := &fakeWorkloadRepo{snapshots: []domain.WorkloadSnapshot{
		{EmployeeID: "emp-1", Name: "Dana"},
		{EmployeeID: "emp-2", Name: "Lee"},
	}}
	svc := NewWorkloadService(repo)

	snapshots, err := svc.ListSnapshots(context.Background(), testOwner)
	require.NoError(t, err)
	assert.Len(t, snapshots, 2)
}
