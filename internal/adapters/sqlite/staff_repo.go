package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/blotter/internal/core/access"
	"github.com/example/blotter/internal/errs"
	"github.com/example/blotter/internal/models"
)

const (
	officerColumns = "id, name, badgeNumber, rank, contactNumber, userId, isActive, createdAt, updatedAt"
	userColumns    = "id, username, passwordHash, firstName, lastName, role, isActive, mustChangePassword, createdAt"
	statusColumns  = "id, name, description, color, sortOrder, isActive"
)

// OfficerRepository implements secondary.OfficerRepository with SQLite.
type OfficerRepository struct {
	base
}

func scanOfficer(s scanner) (*models.Officer, error) {
	var o models.Officer
	var userID sql.NullInt64
	if err := s.Scan(&o.ID, &o.Name, &o.BadgeNumber, &o.Rank, &o.ContactNumber, &userID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.UserID = idPtr(userID)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return &o, nil
}

// Create persists a new officer. Badge numbers are unique.
func (r *OfficerRepository) Create(ctx context.Context, o *models.Officer) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO officers (name, badgeNumber, rank, contactNumber, userId, isActive, createdAt, updatedAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		o.Name, o.BadgeNumber, o.Rank, o.ContactNumber, nullID(o.UserID), o.IsActive, now, now)
	if err != nil {
		return mapErr("officer", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get officer id: %w", err)
	}
	o.ID, o.CreatedAt, o.UpdatedAt = id, now, now
	r.touched(ctx, "officers")
	return nil
}

// GetByID retrieves an officer.
func (r *OfficerRepository) GetByID(ctx context.Context, id int64) (*models.Officer, error) {
	o, err := scanOfficer(r.conn(ctx).QueryRowContext(ctx, "SELECT "+officerColumns+" FROM officers WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("officer", id, err)
	}
	return o, nil
}

// GetByBadge retrieves an officer by badge number.
func (r *OfficerRepository) GetByBadge(ctx context.Context, badgeNumber string) (*models.Officer, error) {
	o, err := scanOfficer(r.conn(ctx).QueryRowContext(ctx, "SELECT "+officerColumns+" FROM officers WHERE badgeNumber = ?", badgeNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundBy("officer", "badge", badgeNumber)
	}
	if err != nil {
		return nil, mapErr("officer", "get", err)
	}
	return o, nil
}

// Update replaces an officer's fields.
func (r *OfficerRepository) Update(ctx context.Context, o *models.Officer) error {
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE officers SET name = ?, badgeNumber = ?, rank = ?, contactNumber = ?, userId = ?, isActive = ?, updatedAt = ? WHERE id = ?",
		o.Name, o.BadgeNumber, o.Rank, o.ContactNumber, nullID(o.UserID), o.IsActive, now, o.ID)
	if err != nil {
		return mapErr("officer", "update", err)
	}
	if err := requireAffected("officer", o.ID, res); err != nil {
		return err
	}
	o.UpdatedAt = now
	r.touched(ctx, "officers")
	return nil
}

// Delete removes an officer.
func (r *OfficerRepository) Delete(ctx context.Context, id int64) error {
	return r.deleteRow(ctx, "officer", "officers", id)
}

// List lists officers by name.
func (r *OfficerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Officer, error) {
	query := "SELECT " + officerColumns + " FROM officers"
	if activeOnly {
		query += " WHERE isActive = 1"
	}
	rows, err := r.conn(ctx).QueryContext(ctx, query+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list officers: %w", err)
	}
	return collect(rows, scanOfficer)
}

// GetMany returns the existing officers among ids, in ids order.
func (r *OfficerRepository) GetMany(ctx context.Context, ids []int64) ([]*models.Officer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+officerColumns+" FROM officers WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get officers: %w", err)
	}
	found, err := collect(rows, scanOfficer)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Officer, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}
	out := make([]*models.Officer, 0, len(found))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
			delete(byID, id)
		}
	}
	return out, nil
}

// Upsert inserts or replaces an officer by ID.
func (r *OfficerRepository) Upsert(ctx context.Context, o *models.Officer) error {
	now := r.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	_, err := r.conn(ctx).ExecContext(ctx, `
		INSERT INTO officers (id, name, badgeNumber, rank, contactNumber, userId, isActive, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, badgeNumber = excluded.badgeNumber, rank = excluded.rank,
			contactNumber = excluded.contactNumber, userId = excluded.userId, isActive = excluded.isActive,
			updatedAt = excluded.updatedAt`,
		o.ID, o.Name, o.BadgeNumber, o.Rank, o.ContactNumber, nullID(o.UserID), o.IsActive, o.CreatedAt.UTC(), o.UpdatedAt.UTC())
	if err != nil {
		return mapErr("officer", "upsert", err)
	}
	r.touched(ctx, "officers")
	return nil
}

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	base
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	var role string
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &u.IsActive, &u.MustChangePassword, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = access.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// Create persists a new user. Usernames are unique.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = access.RoleUser
	}
	now := r.now()
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO users (username, passwordHash, firstName, lastName, role, isActive, mustChangePassword, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		u.Username, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.IsActive, u.MustChangePassword, now)
	if err != nil {
		return mapErr("user", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	u.ID, u.CreatedAt = id, now
	r.touched(ctx, "users")
	return nil
}

// GetByID retrieves a user.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.conn(ctx).QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, rowErr("user", id, err)
	}
	return u, nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.conn(ctx).QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundBy("user", "username", username)
	}
	if err != nil {
		return nil, mapErr("user", "get", err)
	}
	return u, nil
}

// Update replaces a user's fields.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		"UPDATE users SET username = ?, passwordHash = ?, firstName = ?, lastName = ?, role = ?, isActive = ?, mustChangePassword = ? WHERE id = ?",
		u.Username, u.PasswordHash, u.FirstName, u.LastName, string(u.Role), u.IsActive, u.MustChangePassword, u.ID)
	if err != nil {
		return mapErr("user", "update", err)
	}
	if err := requireAffected("user", u.ID, res); err != nil {
		return err
	}
	r.touched(ctx, "users")
	return nil
}

// CountByRole counts accounts holding role.
func (r *UserRepository) CountByRole(ctx context.Context, role access.Role) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role = ?", string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// StatusRepository implements secondary.StatusRepository with SQLite.
type StatusRepository struct {
	base
}

func scanStatus(s scanner) (*models.Status, error) {
	var st models.Status
	if err := s.Scan(&st.ID, &st.Name, &st.Description, &st.Color, &st.SortOrder, &st.IsActive); err != nil {
		return nil, err
	}
	return &st, nil
}

// Create persists a status catalog entry. Names are unique.
func (r *StatusRepository) Create(ctx context.Context, s *models.Status) error {
	res, err := r.conn(ctx).ExecContext(ctx,
		"INSERT INTO statuses (name, description, color, sortOrder, isActive) VALUES (?, ?, ?, ?, ?)",
		s.Name, s.Description, s.Color, s.SortOrder, s.IsActive)
	if err != nil {
		return mapErr("status", "create", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get status id: %w", err)
	}
	s.ID = id
	r.touched(ctx, "statuses")
	return nil
}

// GetByName retrieves a catalog entry by status name.
func (r *StatusRepository) GetByName(ctx context.Context, name string) (*models.Status, error) {
	s, err := scanStatus(r.conn(ctx).QueryRowContext(ctx, "SELECT "+statusColumns+" FROM statuses WHERE name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFoundBy("status", "name", name)
	}
	if err != nil {
		return nil, mapErr("status", "get", err)
	}
	return s, nil
}

// List returns the catalog in display order.
func (r *StatusRepository) List(ctx context.Context) ([]*models.Status, error) {
	rows, err := r.conn(ctx).QueryContext(ctx, "SELECT "+statusColumns+" FROM statuses ORDER BY sortOrder, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	return collect(rows, scanStatus)
}

// Count returns the number of catalog entries.
func (r *StatusRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM statuses").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count statuses: %w", err)
	}
	return n, nil
}
