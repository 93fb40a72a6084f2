package database_test

import (
	"testing"

	"market/internal/database/databasetest"
	"market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_ActiveReviewUniqueness(t *testing.T) {
	db := databasetest.Open(t)

	first := models.Review{UserID: 1, ProductID: 1, Grade: 4, IsActive: true}
	require.NoError(t, db.Create(&first).Error)

	duplicate := models.Review{UserID: 1, ProductID: 1, Grade: 2, IsActive: true}
	assert.Error(t, db.Create(&duplicate).Error, "second active review must violate the partial index")

	require.NoError(t, db.Model(&first).Update("is_active", false).Error)
	again := models.Review{UserID: 1, ProductID: 1, Grade: 5, IsActive: true}
	assert.NoError(t, db.Create(&again).Error, "an inactive review does not block a new one")
}
