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

	"gitlab.com/peopleclay/api/push-activity-service/internal/model"
)

func newTestLeadRepo(t *testing.T, pageSize int) (*PostgresRepo, sqlmock.Sqlmock, func()) {
	logger.Log = zaptest.NewLogger(t).Named("test")
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)
	repo := &PostgresRepo{db: gormDB, leadPageSize: pageSize}
	teardown := func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	}
	return repo, mock, teardown
}

func TestPostgresRepo_BulkUpsertLeads_Success(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, defaultLeadPageSize)
	t.Cleanup(teardown)
	ctx := context.Background()

	leads := []model.Lead{
		{ID: "lea_1", CampaignID: "cam_1", Email: "a@acme.com", CompanyName: "Acme", State: "contacted", IsActive: true},
	}

	insertPattern := `INSERT INTO "leads" ("id","campaign_id","email","first_name","last_name","company_name","job_title","linkedin_url","state","state_system","is_active","created_at","last_updated") VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) ON CONFLICT ("id") DO UPDATE SET "email"="excluded"."email","first_name"="excluded"."first_name","last_name"="excluded"."last_name","company_name"="excluded"."company_name","job_title"="excluded"."job_title","linkedin_url"="excluded"."linkedin_url","state"="excluded"."state","state_system"="excluded"."state_system","is_active"="excluded"."is_active","last_updated"="excluded"."last_updated"`
	mock.ExpectExec(insertPattern).
		WithArgs(
			"lea_1", "cam_1", "a@acme.com", "", "", "Acme", "", "", "contacted", "", true,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.BulkUpsertLeads(ctx, leads)
	assert.NoError(t, err)
}

func TestPostgresRepo_BulkUpsertLeads_Empty(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, defaultLeadPageSize)
	t.Cleanup(teardown)

	err := repo.BulkUpsertLeads(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepo_FindActiveLeadsByCampaignID_SinglePage(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, 10)
	t.Cleanup(teardown)
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "campaign_id", "email", "company_name", "state", "state_system", "is_active", "created_at", "last_updated"}
	rows := sqlmock.NewRows(cols).
		AddRow("lea_1", "cam_1", "a@acme.com", "Acme", "contacted", "", true, now, now).
		AddRow("lea_2", "cam_1", "b@globex.com", "Globex", "contacted", "", true, now, now)
	selectQuery := `SELECT * FROM "leads" WHERE campaign_id = $1 AND is_active = $2 ORDER BY id ASC LIMIT $3`
	mock.ExpectQuery(selectQuery).WithArgs("cam_1", true, 10).WillReturnRows(rows)

	leads, err := repo.FindActiveLeadsByCampaignID(ctx, "cam_1")
	assert.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Equal(t, "lea_1", leads[0].ID)
}

func TestPostgresRepo_FindActiveLeadsByCampaignID_Paginates(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, 2)
	t.Cleanup(teardown)
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "campaign_id", "email", "company_name", "is_active", "created_at", "last_updated"}
	firstPage := sqlmock.NewRows(cols).
		AddRow("lea_1", "cam_1", "a@acme.com", "Acme", true, now, now).
		AddRow("lea_2", "cam_1", "b@globex.com", "Globex", true, now, now)
	secondPage := sqlmock.NewRows(cols).
		AddRow("lea_3", "cam_1", "c@initech.com", "Initech", true, now, now)

	firstQuery := `SELECT * FROM "leads" WHERE campaign_id = $1 AND is_active = $2 ORDER BY id ASC LIMIT $3`
	mock.ExpectQuery(firstQuery).WithArgs("cam_1", true, 2).WillReturnRows(firstPage)
	secondQuery := `SELECT * FROM "leads" WHERE campaign_id = $1 AND is_active = $2 ORDER BY id ASC LIMIT $3 OFFSET $4`
	mock.ExpectQuery(secondQuery).WithArgs("cam_1", true, 2, 2).WillReturnRows(secondPage)

	leads, err := repo.FindActiveLeadsByCampaignID(ctx, "cam_1")
	assert.NoError(t, err)
	assert.Len(t, leads, 3)
	assert.Equal(t, "lea_3", leads[2].ID)
}

func TestPostgresRepo_FindActiveLeadsByCampaignID_PageErrorAbortsRead(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, 2)
	t.Cleanup(teardown)
	ctx := context.Background()
	now := time.Now()

	cols := []string{"id", "campaign_id", "email", "company_name", "is_active", "created_at", "last_updated"}
	firstPage := sqlmock.NewRows(cols).
		AddRow("lea_1", "cam_1", "a@acme.com", "Acme", true, now, now).
		AddRow("lea_2", "cam_1", "b@globex.com", "Globex", true, now, now)

	firstQuery := `SELECT * FROM "leads" WHERE campaign_id = $1 AND is_active = $2 ORDER BY id ASC LIMIT $3`
	mock.ExpectQuery(firstQuery).WithArgs("cam_1", true, 2).WillReturnRows(firstPage)
	secondQuery := `SELECT * FROM "leads" WHERE campaign_id = $1 AND is_active = $2 ORDER BY id ASC LIMIT $3 OFFSET $4`
	mock.ExpectQuery(secondQuery).WithArgs("cam_1", true, 2, 2).WillReturnError(gorm.ErrInvalidTransaction)

	leads, err := repo.FindActiveLeadsByCampaignID(ctx, "cam_1")
	assert.Error(t, err)
	assert.Nil(t, leads)
}

func TestPostgresRepo_CountActiveLeads(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, defaultLeadPageSize)
	t.Cleanup(teardown)
	ctx := context.Background()

	countQuery := `SELECT count(*) FROM "leads" WHERE is_active = $1`
	mock.ExpectQuery(countQuery).WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountActiveLeads(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestPostgresRepo_DeactivateLeadsByIDs(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, defaultLeadPageSize)
	t.Cleanup(teardown)
	ctx := context.Background()

	updatePattern := `UPDATE "leads" SET "is_active"=$1,"last_updated"=$2 WHERE id IN ($3,$4)`
	mock.ExpectExec(updatePattern).
		WithArgs(false, sqlmock.AnyArg(), "lea_1", "lea_2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeactivateLeadsByIDs(ctx, []string{"lea_1", "lea_2"})
	assert.NoError(t, err)
}

func TestPostgresRepo_DeactivateLeadsByCampaignIDs(t *testing.T) {
	repo, mock, teardown := newTestLeadRepo(t, defaultLeadPageSize)
	t.Cleanup(teardown)
	ctx := context.Background()

	updatePattern := `UPDATE "leads" SET "is_active"=$1,"last_updated"=$2 WHERE campaign_id IN ($3)`
	mock.ExpectExec(updatePattern).
		WithArgs(false, sqlmock.AnyArg(), "cam_gone").
		WillReturnResult(sqlmock.NewResult(0, 5))

	err := repo.DeactivateLeadsByCampaignIDs(ctx, []string{"cam_gone"})
	assert.NoError(t, err)
}
