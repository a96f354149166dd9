package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/stockroom-backend/internal/policy"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func totalQuantity(rows []models.InventoryRecord, name string) int {
	total := 0
	for _, row := range rows {
		if row.Name == name {
			total += row.Quantity
		}
	}
	return total
}

func TestMoveWidgetScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	widget := h.insert(t, "Widget", "Tools", 10, enums.LocationStorage)

	res, err := h.svc.Move(ctx, MoveInput{ItemID: widget, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 4, Actor: clerk})
	require.NoError(t, err)
	require.Equal(t, 6, res.SourceRemaining)
	require.False(t, res.SourceDeleted)
	require.False(t, res.Merged)
	require.Equal(t, 4, res.Destination.Quantity)
	require.Equal(t, enums.LocationDisplay, res.Destination.Location)
	require.Equal(t, "Tools", res.Destination.ItemCategory)
	require.NotEqual(t, widget, res.Destination.ItemID)

	require.Equal(t, widget, res.LogEntry.ItemID)
	require.Equal(t, int64(2), res.LogEntry.EmployeeID)
	require.Equal(t, "Bob Smith", res.LogEntry.EmployeeName)
	require.Equal(t, 4, res.LogEntry.Quantity)
	require.Equal(t, fixedNow, res.LogEntry.MovementDate)

	rows := h.rows(t)
	require.Len(t, rows, 2)
	require.Equal(t, 6, rows[0].Quantity)
	require.Equal(t, enums.LocationStorage, rows[0].Location)
	require.Equal(t, 4, rows[1].Quantity)
	require.Equal(t, int64(1), h.logCount(t))

	res, err = h.svc.Move(ctx, MoveInput{ItemID: widget, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 6, Actor: clerk})
	require.NoError(t, err)
	require.Equal(t, 0, res.SourceRemaining)
	require.True(t, res.SourceDeleted)
	require.True(t, res.Merged)
	require.Equal(t, 10, res.Destination.Quantity)

	rows = h.rows(t)
	require.Len(t, rows, 1, "source row at zero must be deleted")
	require.Equal(t, enums.LocationDisplay, rows[0].Location)
	require.Equal(t, 10, rows[0].Quantity)
	require.Equal(t, int64(2), h.logCount(t))
}

func TestMoveMergesIntoExistingDestination(t *testing.T) {
	h := newHarness(t)
	src := h.insert(t, "Notebook A4", "Stationery", 200, enums.LocationStorage)
	dst := h.insert(t, "Notebook A4", "Stationery", 5, enums.LocationDisplay)

	res, err := h.svc.Move(context.Background(), MoveInput{ItemID: src, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 20, Actor: manager})
	require.NoError(t, err)
	require.True(t, res.Merged)
	require.Equal(t, dst, res.Destination.ItemID)
	require.Equal(t, 25, res.Destination.Quantity)
	require.Equal(t, fixedNow, res.Destination.LastUpdated.UTC())

	rows := h.rows(t)
	require.Len(t, rows, 2)
	require.Equal(t, 180, rows[0].Quantity)
	require.Equal(t, 25, rows[1].Quantity)
	require.Equal(t, 205, totalQuantity(rows, "Notebook A4"))
}

func TestMoveMergePastColumnLimitIsRejected(t *testing.T) {
	h := newHarness(t)
	src := h.insert(t, "Notebook A4", "Stationery", 10, enums.LocationStorage)
	h.insert(t, "Notebook A4", "Stationery", maxQuantity-4, enums.LocationDisplay)
	before := h.rows(t)

	_, err := h.svc.Move(context.Background(), MoveInput{ItemID: src, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 5, Actor: admin})
	requireCode(t, err, pkgerrors.CodeInvalidQuantity)

	require.Equal(t, before, h.rows(t))
	require.Zero(t, h.logCount(t))
}

func TestMoveInsufficientQuantityLeavesStateUntouched(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Printer HP LaserJet", "Electronics", 8, enums.LocationStorage)
	before := h.rows(t)

	_, err := h.svc.Move(context.Background(), MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 9, Actor: admin})
	requireCode(t, err, pkgerrors.CodeInsufficientQuantity)
	require.Equal(t, "Insufficient quantity", pkgerrors.As(err).Message())
	require.Equal(t, map[string]any{"available": 8, "requested": 9}, pkgerrors.As(err).Details())

	require.Equal(t, before, h.rows(t))
	require.Zero(t, h.logCount(t))
}

func TestMovePreconditionOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.insert(t, "Laptop Dell XPS", "Electronics", 5, enums.LocationDisplay)

	// quantity is checked before the role policy
	_, err := h.svc.Move(ctx, MoveInput{ItemID: id, From: enums.LocationDisplay, To: enums.LocationStorage, Quantity: 0, Actor: clerk})
	requireCode(t, err, pkgerrors.CodeInvalidQuantity)
	_, err = h.svc.Move(ctx, MoveInput{ItemID: id, From: enums.LocationDisplay, To: enums.LocationStorage, Quantity: -3, Actor: clerk})
	requireCode(t, err, pkgerrors.CodeInvalidQuantity)

	// policy is checked before existence
	_, err = h.svc.Move(ctx, MoveInput{ItemID: 999, From: enums.LocationDisplay, To: enums.LocationStorage, Quantity: 1, Actor: clerk})
	requireCode(t, err, pkgerrors.CodeForbidden)

	// existence is checked before sufficiency
	_, err = h.svc.Move(ctx, MoveInput{ItemID: 999, From: enums.LocationDisplay, To: enums.LocationReturns, Quantity: 500, Actor: clerk})
	requireCode(t, err, pkgerrors.CodeNotFound)

	require.Zero(t, h.logCount(t))
}

func TestMoveClerkDisplayToStorageDenied(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Office Chair", "Furniture", 15, enums.LocationDisplay)

	_, err := h.svc.Move(context.Background(), MoveInput{ItemID: id, From: enums.LocationDisplay, To: enums.LocationStorage, Quantity: 1, Actor: clerk})
	requireCode(t, err, pkgerrors.CodeForbidden)
	require.Equal(t, policy.ReasonClerkRoute, pkgerrors.As(err).Message())
	require.Equal(t, 15, h.rows(t)[0].Quantity)
}

func TestMoveUnknownRoleDenied(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Office Chair", "Furniture", 15, enums.LocationDisplay)

	_, err := h.svc.Move(context.Background(), MoveInput{ItemID: id, From: enums.LocationDisplay, To: enums.LocationReturns, Quantity: 1, Actor: policy.Actor{EmployeeID: 9, Role: "Intern"}})
	requireCode(t, err, pkgerrors.CodeForbidden)
}

func TestMoveItemAtOtherLocationIsNotFound(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Damaged Monitor", "Electronics", 2, enums.LocationReturns)

	_, err := h.svc.Move(context.Background(), MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 1, Actor: admin})
	requireCode(t, err, pkgerrors.CodeNotFound)
	require.Equal(t, "Item not found in source location", pkgerrors.As(err).Message())
}

func TestMoveRouteValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.insert(t, "Widget", "Tools", 3, enums.LocationStorage)

	cases := []MoveInput{
		{ItemID: id, From: enums.LocationStorage, To: enums.LocationStorage, Quantity: 1, Actor: admin},
		{ItemID: id, From: "Attic", To: enums.LocationStorage, Quantity: 1, Actor: admin},
		{ItemID: id, From: enums.LocationStorage, To: "", Quantity: 1, Actor: admin},
		{ItemID: 0, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 1, Actor: admin},
	}
	for _, in := range cases {
		_, err := h.svc.Move(ctx, in)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
	require.Equal(t, 3, h.rows(t)[0].Quantity)
}

func TestMoveFailedReplayChangesNothing(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Widget", "Tools", 2, enums.LocationStorage)
	in := MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 5, Actor: admin}

	for i := 0; i < 3; i++ {
		_, err := h.svc.Move(context.Background(), in)
		requireCode(t, err, pkgerrors.CodeInsufficientQuantity)
	}
	rows := h.rows(t)
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Quantity)
	require.Zero(t, h.logCount(t))
}

func TestMoveRollsBackWhenAuditAppendFails(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Widget", "Tools", 10, enums.LocationStorage)
	h.insert(t, "Widget", "Tools", 1, enums.LocationDisplay)
	require.NoError(t, h.db.Migrator().DropTable(&models.MovementLogEntry{}))

	_, err := h.svc.Move(context.Background(), MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 10, Actor: admin})
	requireCode(t, err, pkgerrors.CodeStoreFailure)

	rows := h.rows(t)
	require.Len(t, rows, 2, "source deletion must be rolled back")
	require.Equal(t, 10, rows[0].Quantity)
	require.Equal(t, 1, rows[1].Quantity)
}

func TestMoveConcurrentDrainNeverOversells(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Widget", "Tools", 5, enums.LocationStorage)

	const workers = 12
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Move(context.Background(), MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 1, Actor: clerk})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			if pkgerrors.Is(err, pkgerrors.CodeNotFound) || pkgerrors.Is(err, pkgerrors.CodeInsufficientQuantity) {
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, ok)
	require.Equal(t, workers-5, rejected)

	rows := h.rows(t)
	require.Len(t, rows, 1)
	require.Equal(t, enums.LocationDisplay, rows[0].Location)
	require.Equal(t, 5, rows[0].Quantity)
	require.Equal(t, int64(5), h.logCount(t))
}

func TestMoveRecordsMetrics(t *testing.T) {
	h := newHarness(t)
	id := h.insert(t, "Widget", "Tools", 5, enums.LocationStorage)
	ctx := context.Background()

	_, err := h.svc.Move(ctx, MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationDisplay, Quantity: 2, Actor: clerk})
	require.NoError(t, err)
	_, err = h.svc.Move(ctx, MoveInput{ItemID: id, From: enums.LocationStorage, To: enums.LocationReturns, Quantity: 1, Actor: clerk})
	require.Error(t, err)

	mfs, err := h.reg.Gather()
	require.NoError(t, err)
	require.Equal(t, 1.0, counter(mfs, "inventory_moves_total", map[string]string{"outcome": "ok"}))
	require.Equal(t, 1.0, counter(mfs, "inventory_moves_total", map[string]string{"outcome": "FORBIDDEN"}))
	require.Equal(t, 2.0, counter(mfs, "inventory_moved_units_total", map[string]string{"from": "Storage", "to": "Display"}))
	require.Contains(t, h.logs.String(), "inventory.move.completed")
}

func counter(mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	var total float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			match := true
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					match = false
				}
			}
			if match {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}
