package repo

import (
	"context"
	"testing"

	"github.com/angelmondragon/stockroom-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewBaseStoresConnection(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)
	require.Same(t, db, base.db)
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	require.Equal(t, ctx, withCtx.Statement.Context)

	//nolint:staticcheck // nil context returns the raw connection
	require.Same(t, db, base.DB(nil))
}

func TestBaseWithTx(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)
	require.Equal(t, base, base.WithTx(nil))

	err := db.Transaction(func(tx *gorm.DB) error {
		bound := base.WithTx(tx)
		require.Same(t, tx, bound.db)
		return bound.DB(context.Background()).Create(&models.Employee{
			Name: "Tx", Email: "tx@example.com", Role: "Admin", PasswordHash: "x",
		}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Employee{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestBaseForUpdateOnSqlite(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)
	require.NoError(t, db.Create(&models.InventoryRecord{Name: "Widget", Category: "Tools", Quantity: 3, Location: "Storage"}).Error)

	var rec models.InventoryRecord
	require.NoError(t, base.ForUpdate(context.Background()).Where("item_name = ?", "Widget").First(&rec).Error)
	require.Equal(t, 3, rec.Quantity)
}
