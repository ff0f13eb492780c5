//go:build database

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHistoryWithMySQL records axis runs in a MySQL backend.
func TestHistoryWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "bfhaxis",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/bfhaxis", host, port.Port())
	exerciseHistory(t, map[string]string{
		"BFHAXIS_HISTORY_BACKEND":    "mysql",
		"BFHAXIS_HISTORY_DB_CONNECT": connStr,
	})
}

// TestHistoryWithPostgres records axis runs in a PostgreSQL backend.
func TestHistoryWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseHistory(t, map[string]string{
		"BFHAXIS_HISTORY_BACKEND":    "postgresql",
		"BFHAXIS_HISTORY_DB_CONNECT": connStr,
	})
}

// exerciseHistory runs the full history lifecycle against one backend:
// clear, migrate, record two runs, status, export, rollback.
func exerciseHistory(t *testing.T, env map[string]string) {
	t.Helper()
	fixture := writeWeeklyFixture(t, 20)
	axisArgs := []string{"axis", fixture, "--column", "uge", "--delimiter", ";", "--output", "json", "--record"}

	_, err := runBfhaxis(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runBfhaxis(t, env, "history", "migrate")
	require.NoError(t, err)

	var runIDs []int64
	for range 2 {
		out, err := runBfhaxis(t, env, axisArgs...)
		require.NoError(t, err)
		var result struct {
			RunID int64 `json:"run_id"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		runIDs = append(runIDs, result.RunID)
	}
	assert.Greater(t, runIDs[1], runIDs[0])

	status, err := runBfhaxis(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "Connected: true")
	assert.Contains(t, status, "Total Runs: 2")

	prefix := filepath.Join(t.TempDir(), "history")
	_, err = runBfhaxis(t, env, "history", "export", "--output-file", prefix)
	require.NoError(t, err)
	assert.FileExists(t, prefix+".axis_runs.parquet")
	assert.FileExists(t, prefix+".axis_breaks.parquet")

	_, err = runBfhaxis(t, env, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)

	_, err = runBfhaxis(t, env, "history", "clear")
	require.NoError(t, err)
}
