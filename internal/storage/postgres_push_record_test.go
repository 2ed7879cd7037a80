package storage

import (
	"context"
	"testing"

	"gitlab.com/peopleclay/api/push-activity-service/pkg/logger"
	"go.uber.org/zap/zaptest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestPushRecordRepo(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock, func()) {
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

func TestPostgresRepo_MarkPushed_AllNew(t *testing.T) {
	repo, mock, teardown := newTestPushRecordRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	insertPattern := `INSERT INTO "push_records" ("campaign_id","company_name","pushed_at") VALUES ($1,$2,$3),($4,$5,$6) ON CONFLICT ("campaign_id","company_name") DO NOTHING RETURNING "id"`
	rows := sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2)
	mock.ExpectQuery(insertPattern).
		WithArgs("cam_1", "Acme", sqlmock.AnyArg(), "cam_1", "Globex", sqlmock.AnyArg()).
		WillReturnRows(rows)

	inserted, err := repo.MarkPushed(ctx, "cam_1", []string{"Acme", "Globex"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), inserted)
}

func TestPostgresRepo_MarkPushed_DuplicatesSkipped(t *testing.T) {
	repo, mock, teardown := newTestPushRecordRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	// One of the two pairs already exists; only the new row comes back.
	insertPattern := `INSERT INTO "push_records" ("campaign_id","company_name","pushed_at") VALUES ($1,$2,$3),($4,$5,$6) ON CONFLICT ("campaign_id","company_name") DO NOTHING RETURNING "id"`
	rows := sqlmock.NewRows([]string{"id"}).AddRow(7)
	mock.ExpectQuery(insertPattern).
		WithArgs("cam_1", "Acme", sqlmock.AnyArg(), "cam_1", "Globex", sqlmock.AnyArg()).
		WillReturnRows(rows)

	inserted, err := repo.MarkPushed(ctx, "cam_1", []string{"Acme", "Globex"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), inserted)
}

func TestPostgresRepo_MarkPushed_Empty(t *testing.T) {
	repo, mock, teardown := newTestPushRecordRepo(t)
	t.Cleanup(teardown)

	inserted, err := repo.MarkPushed(context.Background(), "cam_1", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindPushedCompaniesByCampaignID(t *testing.T) {
	repo, mock, teardown := newTestPushRecordRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"company_name"}).AddRow("Acme").AddRow("Globex")
	selectQuery := `SELECT "company_name" FROM "push_records" WHERE campaign_id = $1 ORDER BY id ASC`
	mock.ExpectQuery(selectQuery).WithArgs("cam_1").WillReturnRows(rows)

	companies, err := repo.FindPushedCompaniesByCampaignID(ctx, "cam_1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, companies)
}

func TestPostgresRepo_FindPushedCompaniesByCampaignID_Empty(t *testing.T) {
	repo, mock, teardown := newTestPushRecordRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	selectQuery := `SELECT "company_name" FROM "push_records" WHERE campaign_id = $1 ORDER BY id ASC`
	mock.ExpectQuery(selectQuery).WithArgs("cam_never").WillReturnRows(sqlmock.NewRows([]string{"company_name"}))

	companies, err := repo.FindPushedCompaniesByCampaignID(ctx, "cam_never")
	assert.NoError(t, err)
	assert.Len(t, companies, 0)
}

func TestPostgresRepo_HasAnyPushRecordForCampaign(t *testing.T) {
	repo, mock, teardown := newTestPushRecordRepo(t)
	t.Cleanup(teardown)
	ctx := context.Background()

	countQuery := `SELECT count(*) FROM "push_records" WHERE campaign_id = $1`
	mock.ExpectQuery(countQuery).WithArgs("cam_1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	has, err := repo.HasAnyPushRecordForCampaign(ctx, "cam_1")
	assert.NoError(t, err)
	assert.True(t, has)

	mock.ExpectQuery(countQuery).WithArgs("cam_2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	has, err = repo.HasAnyPushRecordForCampaign(ctx, "cam_2")
	assert.NoError(t, err)
	assert.False(t, has)
}
