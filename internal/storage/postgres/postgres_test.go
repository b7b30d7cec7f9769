package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pribylovaa/register-service/internal/config"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты пакета postgres:
// - поднимают реальный PostgreSQL через testcontainers-go (образ postgres:16-alpine);
// - применяют встроенные миграции через Migrate;
// - проверяют репозитории users/sessions, уникальность, FK и каскадное удаление.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// startPostgres поднимает временный PostgreSQL, применяет миграции и возвращает хранилище.
// Если переменная окружения GO_TEST_INTEGRATION не установлена: тест пропускается.
func startPostgres(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	st, err := New(ctx, config.DBConfig{
		DatabaseURL:     fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port()),
		MaxConns:        4,
		MaxConnIdleTime: 30 * time.Second,
		ConnectTimeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Migrate(ctx))

	return st
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.DBConfig{DatabaseURL: "://broken"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "storage.postgres.New")
}

func TestIntegration_Migrate_CreatesSchema(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	for _, idx := range []string{"users_email_idx", "sessions_token_idx"} {
		var exists bool
		err := st.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = $1)`, idx,
		).Scan(&exists)
		require.NoError(t, err)
		require.True(t, exists, "index %s must exist", idx)
	}

	var rule string
	err := st.db.QueryRow(ctx, `
		SELECT rc.delete_rule
		FROM information_schema.referential_constraints rc
		JOIN information_schema.table_constraints tc ON tc.constraint_name = rc.constraint_name
		WHERE tc.table_name = 'sessions'`,
	).Scan(&rule)
	require.NoError(t, err)
	require.Equal(t, "CASCADE", rule)

	cols := map[string]struct {
		dataType string
		maxLen   int
	}{
		"users.id":            {"uuid", 0},
		"users.email":         {"character varying", 255},
		"users.password_hash": {"character varying", 255},
		"users.created_at":    {"timestamp with time zone", 0},
		"users.updated_at":    {"timestamp with time zone", 0},
		"sessions.user_id":    {"uuid", 0},
		"sessions.token":      {"character varying", 255},
		"sessions.expires_at": {"timestamp with time zone", 0},
		"sessions.created_at": {"timestamp with time zone", 0},
	}
	for name, want := range cols {
		table, column, _ := strings.Cut(name, ".")

		var (
			dataType string
			maxLen   int
		)
		err := st.db.QueryRow(ctx, `
		SELECT data_type::text, COALESCE(character_maximum_length, 0)::int
		FROM information_schema.columns
		WHERE table_name = $1 AND column_name = $2`, table, column,
		).Scan(&dataType, &maxLen)
		require.NoError(t, err, name)
		require.Equal(t, want.dataType, dataType, name)
		require.Equal(t, want.maxLen, maxLen, name)
	}

	// повторный запуск не должен ничего ломать.
	require.NoError(t, st.Migrate(ctx))
}

func TestIntegration_Ping_OK(t *testing.T) {
	st := startPostgres(t)
	require.NoError(t, st.Ping(context.Background()))
}
