package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PrjctQ/qcore/pkg/database"
	"github.com/PrjctQ/qcore/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

func (widget) TableName() string {
	return "widgets"
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	// Given: an empty table
	db := testutil.SetupTestDB(t, &widget{})
	defer testutil.CleanupTestDB(t, db)

	// When: the transaction function writes and then fails
	err := database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		if err := tx.Create(&widget{Name: "doomed"}).Error; err != nil {
			return err
		}
		return errors.New("business rule failed")
	})

	// Then: the write is rolled back
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t, &widget{})
	defer testutil.CleanupTestDB(t, db)

	err := database.WithTransaction(context.Background(), db, func(tx *gorm.DB) error {
		return tx.Create(&widget{Name: "kept"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWithTransaction_NilFunctionRejected(t *testing.T) {
	db := testutil.SetupTestDB(t, &widget{})
	defer testutil.CleanupTestDB(t, db)

	err := database.WithTransaction(context.Background(), db, nil)
	assert.Error(t, err)
}
