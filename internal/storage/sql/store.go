package sql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docuvault/group-manager/internal/domain"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to domain.ErrAlreadyExists.
func wrapUniqueError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db *sqlx.DB
}

// New creates a new SQL store.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ============================================
// API Keys
// ============================================

// apiKeyRow mirrors the api_keys table; capabilities are stored as a
// comma-joined column.
type apiKeyRow struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	KeyHash      string     `db:"key_hash"`
	KeyPrefix    string     `db:"key_prefix"`
	Capabilities string     `db:"capabilities"`
	CreatedAt    time.Time  `db:"created_at"`
	LastUsedAt   *time.Time `db:"last_used_at"`
}

func (r *apiKeyRow) toDomain() *domain.APIKey {
	return &domain.APIKey{
		ID:           r.ID,
		Name:         r.Name,
		KeyHash:      r.KeyHash,
		KeyPrefix:    r.KeyPrefix,
		Capabilities: splitCapabilities(r.Capabilities),
		CreatedAt:    r.CreatedAt,
		LastUsedAt:   r.LastUsedAt,
	}
}

func joinCapabilities(caps []domain.Capability) string {
	parts := make([]string, len(caps))
	for i, c := range caps {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func splitCapabilities(s string) []domain.Capability {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	caps := make([]domain.Capability, len(parts))
	for i, p := range parts {
		caps[i] = domain.Capability(p)
	}
	return caps
}

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, capabilities, created_at, last_used_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, joinCapabilities(key.Capabilities), key.CreatedAt, key.LastUsedAt)
	return wrapUniqueError(err)
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	var row apiKeyRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, key_hash, key_prefix, capabilities, created_at, last_used_at
		 FROM api_keys WHERE key_hash = $1`, keyHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	var rows []apiKeyRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, name, key_hash, key_prefix, capabilities, created_at, last_used_at
		 FROM api_keys ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	keys := make([]*domain.APIKey, len(rows))
	for i := range rows {
		keys[i] = rows[i].toDomain()
	}
	return keys, nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM api_keys`)
	return count, err
}

// ============================================
// Users
// ============================================

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, created_at, deleted_at)
		 VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.CreatedAt, user.DeletedAt)
	return wrapUniqueError(err)
}

func (s *Store) GetActiveUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, created_at, deleted_at FROM users
		 WHERE username = $1 AND deleted_at IS NULL`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) ListActiveUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := s.db.SelectContext(ctx, &users,
		`SELECT id, username, created_at, deleted_at FROM users
		 WHERE deleted_at IS NULL ORDER BY username`)
	return users, err
}

func (s *Store) SoftDeleteUser(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ============================================
// Groups
// ============================================

func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, parent_id, created_by, created_at, deleted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		group.ID, group.Name, group.ParentID, group.CreatedBy, group.CreatedAt, group.DeletedAt)
	return wrapUniqueError(err)
}

func (s *Store) GetActiveGroupByName(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := s.db.GetContext(ctx, &group,
		`SELECT id, name, parent_id, created_by, created_at, deleted_at FROM groups
		 WHERE name = $1 AND deleted_at IS NULL`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) GetActiveGroupByID(ctx context.Context, id string) (*domain.Group, error) {
	var group domain.Group
	err := s.db.GetContext(ctx, &group,
		`SELECT id, name, parent_id, created_by, created_at, deleted_at FROM groups
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Store) ListActiveGroups(ctx context.Context) ([]*domain.Group, error) {
	var groups []*domain.Group
	err := s.db.SelectContext(ctx, &groups,
		`SELECT id, name, parent_id, created_by, created_at, deleted_at FROM groups
		 WHERE deleted_at IS NULL ORDER BY name`)
	return groups, err
}

func (s *Store) SoftDeleteGroup(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE groups SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ============================================
// Memberships
// ============================================

func (s *Store) AddMembership(ctx context.Context, m *domain.Membership) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_groups (group_id, user_id, created_at) VALUES ($1, $2, $3)`,
		m.GroupID, m.UserID, m.CreatedAt)
	return wrapUniqueError(err)
}

func (s *Store) RemoveMembership(ctx context.Context, groupID, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_groups WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) FindGroupsForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	var groups []*domain.Group
	err := s.db.SelectContext(ctx, &groups,
		`SELECT g.id, g.name, g.parent_id, g.created_by, g.created_at, g.deleted_at
		 FROM groups g JOIN user_groups ug ON ug.group_id = g.id
		 WHERE ug.user_id = $1 AND g.deleted_at IS NULL
		 ORDER BY g.name`, userID)
	return groups, err
}

func (s *Store) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	var usernames []string
	err := s.db.SelectContext(ctx, &usernames,
		`SELECT u.username
		 FROM users u JOIN user_groups ug ON ug.user_id = u.id
		 WHERE ug.group_id = $1 AND u.deleted_at IS NULL
		 ORDER BY u.username`, groupID)
	return usernames, err
}
