package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhpham2409/quiz-app/internal/store"
)

// mockDBTX is a no-op implementation of store.DBTX for constructor tests.
type mockDBTX struct{}

func (m *mockDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (m *mockDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, nil
}

func (m *mockDBTX) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (m *mockDBTX) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func TestNewPostgresQuestionStore(t *testing.T) {
	tests := []struct {
		name        string
		db          store.DBTX
		logger      *slog.Logger
		expectPanic bool
		check       func(t *testing.T, s *PostgresQuestionStore)
	}{
		{
			name:        "nil_db_panics",
			db:          nil,
			logger:      slog.Default(),
			expectPanic: true,
		},
		{
			name:   "valid_db_with_logger",
			db:     &sql.DB{},
			logger: slog.Default(),
			check: func(t *testing.T, s *PostgresQuestionStore) {
				assert.NotNil(t, s)
				assert.NotNil(t, s.db)
				assert.NotNil(t, s.logger)
			},
		},
		{
			name:   "valid_db_nil_logger_uses_default",
			db:     &sql.DB{},
			logger: nil,
			check: func(t *testing.T, s *PostgresQuestionStore) {
				assert.NotNil(t, s)
				assert.NotNil(t, s.db)
				assert.NotNil(t, s.logger)
			},
		},
		{
			name:   "mock_dbtx",
			db:     &mockDBTX{},
			logger: slog.Default(),
			check: func(t *testing.T, s *PostgresQuestionStore) {
				assert.NotNil(t, s)
				assert.NotNil(t, s.db)
				assert.NotNil(t, s.logger)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectPanic {
				assert.Panics(t, func() {
					NewPostgresQuestionStore(tt.db, tt.logger)
				})
				return
			}

			s := NewPostgresQuestionStore(tt.db, tt.logger)
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestPostgresQuestionStore_WithTx(t *testing.T) {
	originalDB := &sql.DB{}
	s := NewPostgresQuestionStore(originalDB, slog.Default())

	assert.NotNil(t, s)
	assert.Equal(t, originalDB, s.db)
	assert.NotNil(t, s.logger)
}
