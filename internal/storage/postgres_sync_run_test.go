package storage

import (
	"context"
	"testing"
	"time"

	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"go.uber.org/zap/zaptest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"gitlab.com/peopleclay/api/push-activity-service/internal/apperrors"
	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

func newTestSyncRunRepo(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock, func()) {
	logger.Log = zaptest.NewLogger(t).Named("test")
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)
	repo := &PostgresRepo{db: gormDB, leadPageSize: defaultLeadPageSize}
	teardown := func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	}
	return repo, mock, teardown
}

func TestPostgresRepo_SaveSyncRun_Success(t *testing.T) {
	repo, mock, teardown := newTestSyncRunRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	run := model.SyncRun{
		RunID:              "run-abc",
		CampaignsProcessed: 3,
		CampaignsAdded:     1,
		LeadsAdded:         20,
		StartedAt:          time.Now(),
		DurationSeconds:    1.25,
	}

	insertPattern := `INSERT INTO "sync_history" ("run_id","campaigns_processed","campaigns_added","campaigns_removed","campaigns_updated","leads_added","leads_removed","company_count_changes","started_at","duration_seconds","created_at") VALUES ($1,$2,$3,$4,$5,$6,$7,NULL,$8,$9,$10) RETURNING "id"`
	mock.ExpectQuery(insertPattern).
		WithArgs("run-abc", 3, 1, 0, 0, 20, 0, sqlmock.AnyArg(), 1.25, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := repo.SaveSyncRun(ctx, run)
	assert.NoError(t, err)
}

func TestPostgresRepo_FindLatestSyncRun_Found(t *testing.T) {
	repo, mock, teardown := newTestSyncRunRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "run_id", "campaigns_processed", "started_at", "duration_seconds"}
	rows := sqlmock.NewRows(cols).AddRow(5, "run-latest", 4, now, 2.5)
	selectQuery := `SELECT * FROM "sync_history" ORDER BY started_at DESC, id DESC LIMIT $1`
	mock.ExpectQuery(selectQuery).WithArgs(1).WillReturnRows(rows)

	run, err := repo.FindLatestSyncRun(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, run)
	assert.Equal(t, "run-latest", run.RunID)
}

func TestPostgresRepo_FindLatestSyncRun_NotFound(t *testing.T) {
	repo, mock, teardown := newTestSyncRunRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	selectQuery := `SELECT * FROM "sync_history" ORDER BY started_at DESC, id DESC LIMIT $1`
	mock.ExpectQuery(selectQuery).WithArgs(1).WillReturnError(gorm.ErrRecordNotFound)

	run, err := repo.FindLatestSyncRun(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, run)
}

func TestPostgresRepo_CountSyncRuns(t *testing.T) {
	repo, mock, teardown := newTestSyncRunRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	countQuery := `SELECT count(*) FROM "sync_history"`
	mock.ExpectQuery(countQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	count, err := repo.CountSyncRuns(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), count)
}
