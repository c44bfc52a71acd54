// Package integration runs the catalog against a real PostgreSQL database
// started with testcontainers and migrated with the embedded migrations.
package integration

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/migration"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/persistence"
	"github.com/Esyonel/vural-enerji-sub001/migrations"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// catalogTables are emptied before every test
var catalogTables = []string{"quote_requests", "package_line_items", "solar_packages", "products"}

// postgresServer is started by the first test that needs it and shared by
// the rest of the package.
var postgresServer struct {
	mu        sync.Mutex
	container *tcpostgres.PostgresContainer
	cfg       config.DatabaseConfig
}

type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewTestDB connects through persistence.Open to the shared server and
// empties the catalog tables.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	cfg := startPostgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persistence.Open(ctx, &cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tdb := &TestDB{DB: db.DB, t: t}
	tdb.CleanTables()
	return tdb
}

// CleanTables empties every catalog table in one statement
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()
	stmt := "TRUNCATE " + strings.Join(catalogTables, ", ") + " CASCADE"
	require.NoError(tdb.t, tdb.DB.Exec(stmt).Error)
}

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	postgresServer.mu.Lock()
	defer postgresServer.mu.Unlock()

	if postgresServer.container != nil {
		return postgresServer.cfg
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("solar_test"),
		tcpostgres.WithUsername("solar"),
		tcpostgres.WithPassword("solar"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:         host,
		Port:         port.Int(),
		User:         "solar",
		Password:     "solar",
		DBName:       "solar_test",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
	migrate(t, cfg.DSN())

	postgresServer.container = container
	postgresServer.cfg = cfg
	return cfg
}

// migrate applies the embedded migrations over a connection the migrator closes
func migrate(t *testing.T, dsn string) {
	t.Helper()

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	m, err := migration.Open(sqlDB, migration.Embedded(migrations.FS), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = m.Close() }()

	require.NoError(t, m.Up())
	_, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty, "schema left dirty")
}

// CleanupSharedContainer stops the shared server. TestMain calls it once
// every test has run.
func CleanupSharedContainer() {
	postgresServer.mu.Lock()
	defer postgresServer.mu.Unlock()

	if postgresServer.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = postgresServer.container.Terminate(ctx)
	postgresServer.container = nil
}
