package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type parent struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

type child struct {
	ID       uint    `gorm:"primaryKey"`
	ParentID *uint   `gorm:"index"`
	Parent   *parent `gorm:"constraint:OnDelete:SET NULL"`
	Amount   int     `gorm:"not null;check:chk_children_amount,amount >= 0"`
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(ctx, db) })

	require.NoError(t, Migrate(ctx, db, &parent{}, &child{}))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(context.Background(), db, &parent{}, &child{}))
}

func TestClose_NilHandleIsTolerated(t *testing.T) {
	assert.NoError(t, Close(context.Background(), nil))
}

func TestConstraints_AreEnforcedAndClassified(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := parent{Name: "widget"}
	require.NoError(t, db.WithContext(ctx).Create(&p).Error)

	err := db.WithContext(ctx).Create(&parent{Name: "widget"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	missing := uint(999)
	err = db.WithContext(ctx).Create(&child{ParentID: &missing}).Error
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))

	err = db.WithContext(ctx).Create(&child{ParentID: &p.ID, Amount: -1}).Error
	require.Error(t, err)
	assert.True(t, IsCheckViolation(err))
}

func TestDeleteParent_NullsChildReference(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := parent{Name: "gadget"}
	require.NoError(t, db.Create(&p).Error)
	c := child{ParentID: &p.ID, Amount: 1}
	require.NoError(t, db.Create(&c).Error)

	require.NoError(t, db.WithContext(ctx).Delete(&parent{}, p.ID).Error)

	var reloaded child
	require.NoError(t, db.First(&reloaded, c.ID).Error)
	assert.Nil(t, reloaded.ParentID)
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	tr := NewTransactor(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := tr.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&parent{Name: "rolled back"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&parent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithinTransaction_CommitsAndJoinsNestedCalls(t *testing.T) {
	db := openTestDB(t)
	tr := NewTransactor(db)
	ctx := context.Background()

	err := tr.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&parent{Name: "outer"}).Error; err != nil {
			return err
		}
		return tr.WithinTransaction(ctx, func(ctx context.Context) error {
			return Conn(ctx, db).Create(&parent{Name: "inner"}).Error
		})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&parent{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestClassifiers_RecognizePostgresCodes(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("exec: %w", &pq.Error{Code: pq.ErrorCode(code)})
	}

	assert.True(t, IsUniqueViolation(wrap("23505")))
	assert.True(t, IsForeignKeyViolation(wrap("23503")))
	assert.True(t, IsCheckViolation(wrap("23514")))
	assert.False(t, IsForeignKeyViolation(wrap("23505")))
	assert.False(t, IsUniqueViolation(nil))
}
