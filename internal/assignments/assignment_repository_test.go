package assignments

import (
	"testing"
	"time"

	"armory/internal/repository"
	"armory/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func setupRepository(t *testing.T) (AssignmentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRepository(repository.NewRepository(db)), mock
}

func TestAssetStatusFor(t *testing.T) {
	assert.Equal(t, models.AssetStatusAvailable, assetStatusFor(models.AssignmentStatusReturned))
	assert.Equal(t, models.AssetStatusExpended, assetStatusFor(models.AssignmentStatusLost))
	assert.Equal(t, models.AssetStatusMaintenance, assetStatusFor(models.AssignmentStatusDamaged))
	assert.Equal(t, "", assetStatusFor(models.AssignmentStatusActive))
}

func TestUpdateAssignmentLostReleasesAsset(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assignments" SET .*'lost'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "assets" SET "status"='expended'.*SELECT "asset_id" FROM "assignments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	lost := models.AssignmentStatusLost
	err := repo.UpdateAssignment(55, &AssignmentChanges{Status: &lost})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssignmentWithoutStatusLeavesAssetAlone(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assignments" SET `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	notes := "handed to new shift"
	err := repo.UpdateAssignment(55, &AssignmentChanges{Notes: &notes})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReturnedReleasesAsset(t *testing.T) {
	repo, mock := setupRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "assignments" SET .*'returned'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "assets" SET "status"='available'`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkReturned(55, time.Now())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
