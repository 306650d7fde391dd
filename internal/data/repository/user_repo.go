package repository

import (
	"context"
	"errors"
	"fmt"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByRole(ctx context.Context, role entity.RoleName) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	AddRole(ctx context.Context, userID int64, role entity.RoleName) error
	RemoveRole(ctx context.Context, userID int64, role entity.RoleName) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// userSelect aggregates role names so a user is read in one row.
const userSelect = `
	SELECT u.id, u.username, u.email, u.password, u.first_name, u.last_name, u.phone,
	       u.is_active, u.created_at, u.updated_at,
	       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id
`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u     entity.User
		roles []string
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&roles,
	)
	if err != nil {
		return nil, err
	}

	u.Roles = make([]entity.RoleName, len(roles))
	for i, role := range roles {
		u.Roles[i] = entity.RoleName(role)
	}
	return &u, nil
}

// Create inserts the user and links its roles
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, password, first_name, last_name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	conn := database.Conn(ctx, r.db)
	err := conn.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("username or email already registered: %w", entity.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	for _, role := range user.Roles {
		if err := r.AddRole(ctx, user.ID, role); err != nil {
			return err
		}
	}

	return nil
}

func (r *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := userSelect + ` WHERE ` + where + ` GROUP BY u.id`

	user, err := scanUser(database.Conn(ctx, r.db).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := r.findOne(ctx, "u.id = $1", id)
	if err != nil {
		r.log.Error("Failed to find user by ID", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.findOne(ctx, "LOWER(u.email) = LOWER($1)", email)
	if err != nil {
		r.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := r.findOne(ctx, "u.username = $1", username)
	if err != nil {
		r.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return user, nil
}

func (r *userRepository) FindByRole(ctx context.Context, role entity.RoleName) ([]*entity.User, error) {
	query := userSelect + `
		WHERE u.id IN (
			SELECT ur2.user_id FROM user_roles ur2
			JOIN roles r2 ON r2.id = ur2.role_id
			WHERE r2.name = $1
		)
		GROUP BY u.id
		ORDER BY u.username
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, role)
	if err != nil {
		r.log.Error("Failed to find users by role", zap.Error(err), zap.String("role", string(role)))
		return nil, fmt.Errorf("find users by role %s: %w", role, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, phone = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.IsActive,
	).Scan(&user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("user %d: %w", user.ID, entity.ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("email already registered: %w", entity.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to update user", zap.Error(err), zap.Int64("user_id", user.ID))
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx,
		`UPDATE users SET password = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		r.log.Error("Failed to update password", zap.Error(err), zap.Int64("user_id", id))
		return fmt.Errorf("update password for user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

func (r *userRepository) AddRole(ctx context.Context, userID int64, role entity.RoleName) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`

	if _, err := database.Conn(ctx, r.db).Exec(ctx, query, userID, role); err != nil {
		r.log.Error("Failed to add role",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("role", string(role)),
		)
		return fmt.Errorf("add role %s to user %d: %w", role, userID, err)
	}

	return nil
}

func (r *userRepository) RemoveRole(ctx context.Context, userID int64, role entity.RoleName) error {
	query := `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role_id = (SELECT id FROM roles WHERE name = $2)
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, userID, role)
	if err != nil {
		r.log.Error("Failed to remove role",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("role", string(role)),
		)
		return fmt.Errorf("remove role %s from user %d: %w", role, userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d does not have role %s: %w", userID, role, entity.ErrNotFound)
	}

	return nil
}
