package movements

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	rows      []models.MovementLogEntry
	err       error
	lastLimit int
	lastID    int64
}

func (s *stubReader) ListRecent(ctx context.Context, limit int) ([]models.MovementLogEntry, error) {
	s.lastLimit = limit
	return s.rows, s.err
}

func (s *stubReader) ListByEmployee(ctx context.Context, employeeID int64, limit int) ([]models.MovementLogEntry, error) {
	s.lastID = employeeID
	return s.rows, s.err
}

func (s *stubReader) ListByItem(ctx context.Context, itemID int64, limit int) ([]models.MovementLogEntry, error) {
	s.lastID = itemID
	return s.rows, s.err
}

func TestNewServiceDefaultsLimit(t *testing.T) {
	_, err := NewService(nil, 10)
	require.Error(t, err)

	stub := &stubReader{}
	svc, err := NewService(stub, 0)
	require.NoError(t, err)
	_, err = svc.Recent(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultRecentLimit, stub.lastLimit)
}

func TestServiceMapsRows(t *testing.T) {
	stub := &stubReader{rows: []models.MovementLogEntry{{ID: 9, ItemID: 4, ItemName: "Widget", EmployeeID: 2, Quantity: 3}}}
	svc, err := NewService(stub, 25)
	require.NoError(t, err)

	out, err := svc.ByItem(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, int64(4), stub.lastID)
	require.Equal(t, []EntryDTO{{LogID: 9, ItemID: 4, ItemName: "Widget", EmployeeID: 2, Quantity: 3}}, out)

	out, err = svc.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 25, stub.lastLimit)
}

func TestServiceEmptyIsNotNil(t *testing.T) {
	svc, err := NewService(&stubReader{}, 0)
	require.NoError(t, err)
	out, err := svc.ByEmployee(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestServiceErrors(t *testing.T) {
	svc, err := NewService(&stubReader{err: errors.New("db down")}, 0)
	require.NoError(t, err)

	_, err = svc.Recent(context.Background())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStoreFailure))

	_, err = svc.ByEmployee(context.Background(), 0)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	_, err = svc.ByItem(context.Background(), -1)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
