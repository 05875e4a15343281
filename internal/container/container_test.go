package container

import (
	"context"
	"testing"

	"energyexplain/adapters/memory"
	"energyexplain/adapters/postgres"
	"energyexplain/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{Pipeline: config.DefaultPipeline()}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestNewWiresInMemoryStorage(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)
	assert.IsType(t, &memory.EvaluationRepository{}, c.EvaluationRepo)
	assert.NotNil(t, c.Sessions)
	assert.NotNil(t, c.Explain)
	assert.NotNil(t, c.Evaluations)
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestNewRejectsInvalidPipeline(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.Features.RollingWindow = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestInitWithDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS evaluation_responses").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	c, err := New(testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(context.Background(), sqlx.NewDb(db, "postgres")))
	assert.IsType(t, &postgres.EvaluationRepository{}, c.EvaluationRepo)

	require.NoError(t, c.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
