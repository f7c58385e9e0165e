package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	apperrors "zayavka-portal/pkg/errors"
)

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entities.User) (int, error)
	FindUserByID(ctx context.Context, id int) (*entities.User, error)
	FindUserByUsername(ctx context.Context, username string) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id int, data dto.UpdateProfileDTO) error
	SelectRole(ctx context.Context, id int, role string) error
	GetUsers(ctx context.Context) ([]entities.User, error)
	DeleteUserCascade(ctx context.Context, id int) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

const userColumns = `id, username, email, password, role, full_name, faculty, position, photo, created_at`

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.Role,
		&u.FullName, &u.Faculty, &u.Position, &u.Photo, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) (int, error) {
	query := `
		INSERT INTO users (username, email, password, role, full_name, faculty, position, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	var newID int
	err := r.storage.QueryRow(ctx, query,
		user.Username, user.Email, user.Password, user.Role,
		user.FullName, user.Faculty, user.Position, user.Photo,
	).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return 0, apperrors.ErrEmailTaken
			}
			return 0, apperrors.ErrUsernameTaken
		}
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return newID, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id int) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.storage.QueryRow(ctx, query, username))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки логина: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, data dto.UpdateProfileDTO) error {
	query := `
		UPDATE users
		SET full_name = COALESCE(NULLIF($1, ''), full_name),
		    faculty   = COALESCE(NULLIF($2, ''), faculty),
		    position  = COALESCE(NULLIF($3, ''), position),
		    photo     = COALESCE(NULLIF($4, ''), photo)
		WHERE id = $5`

	tag, err := r.storage.Exec(ctx, query, data.FullName, data.Faculty, data.Position, data.Photo, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SelectRole выставляет роль только если она ещё не выбрана.
// Условие role IS NULL делает выбор одноразовым на уровне SQL.
func (r *UserRepository) SelectRole(ctx context.Context, id int, role string) error {
	tag, err := r.storage.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2 AND role IS NULL`, role, id)
	if err != nil {
		return fmt.Errorf("ошибка выбора роли: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.storage.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrRoleChosen
	}
	return nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	rows, err := r.storage.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// DeleteUserCascade удаляет пользователя вместе с его заявками одной
// транзакцией. Журнал действий чистится каскадом на уровне схемы.
func (r *UserRepository) DeleteUserCascade(ctx context.Context, id int) (err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM zayavki WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления заявок пользователя: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = apperrors.ErrNotFound
		return err
	}

	return tx.Commit(ctx)
}
