package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	"zayavka-portal/pkg/constants"
	apperrors "zayavka-portal/pkg/errors"
)

type ZayavkaRepositoryInterface interface {
	CreateZayavkaInTx(ctx context.Context, tx pgx.Tx, userID int, data dto.CreateZayavkaDTO) (int, error)
	FindZayavka(ctx context.Context, id int) (*entities.Zayavka, error)
	FindZayavkaForUpdateInTx(ctx context.Context, tx pgx.Tx, id int) (*entities.Zayavka, error)
	UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int, status constants.Status) error
	SetFeedbackInTx(ctx context.Context, tx pgx.Tx, id int, comment string, rating *int) error
	DeleteZayavkaInTx(ctx context.Context, tx pgx.Tx, id int) error
	GetByOwner(ctx context.Context, userID int) ([]entities.Zayavka, error)
	GetDashboard(ctx context.Context, filter dto.ZayavkaFilterDTO, includeDone bool) ([]entities.Zayavka, error)
	GetHistory(ctx context.Context) ([]entities.Zayavka, error)
	GetAll(ctx context.Context) ([]entities.Zayavka, error)
	GetForPeriod(ctx context.Context, from, to *time.Time) ([]entities.Zayavka, error)
}

type ZayavkaRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewZayavkaRepository(storage *pgxpool.Pool, logger *zap.Logger) ZayavkaRepositoryInterface {
	return &ZayavkaRepository{storage: storage, logger: logger}
}

// Колонки заявки вместе с владельцем. Все выборки ходят через этот набор,
// чтобы сканирование было единым.
var zayavkaColumns = []string{
	"z.id", "z.type", "z.description", "z.status", "z.created_at", "z.user_id",
	"z.file", "z.urgent", "z.comment", "z.rating", "z.confirmed_by_user",
	"u.id", "u.username", "u.full_name", "u.faculty",
}

func scanZayavka(row pgx.Row) (*entities.Zayavka, error) {
	var z entities.Zayavka
	var status string
	err := row.Scan(
		&z.ID, &z.Type, &z.Description, &status, &z.CreatedAt, &z.UserID,
		&z.File, &z.Urgent, &z.Comment, &z.Rating, &z.ConfirmedByUser,
		&z.Owner.ID, &z.Owner.Username, &z.Owner.FullName, &z.Owner.Faculty,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	z.Status = constants.Status(status)
	return &z, nil
}

func (r *ZayavkaRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]entities.Zayavka, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	zayavki := make([]entities.Zayavka, 0)
	for rows.Next() {
		z, err := scanZayavka(rows)
		if err != nil {
			return nil, err
		}
		zayavki = append(zayavki, *z)
	}
	return zayavki, rows.Err()
}

func baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(zayavkaColumns...).
		From("zayavki z").
		Join("users u ON z.user_id = u.id")
}

// CreateZayavkaInTx — новая заявка всегда создаётся в статусе "ожидает".
func (r *ZayavkaRepository) CreateZayavkaInTx(ctx context.Context, tx pgx.Tx, userID int, data dto.CreateZayavkaDTO) (int, error) {
	query := `
		INSERT INTO zayavki (type, description, status, user_id, file, urgent)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id`

	var newID int
	err := tx.QueryRow(ctx, query,
		data.Type, data.Description, constants.StatusPending.String(), userID, data.File, data.Urgent,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return newID, nil
}

func (r *ZayavkaRepository) FindZayavka(ctx context.Context, id int) (*entities.Zayavka, error) {
	query, args, err := baseSelect().Where(sq.Eq{"z.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanZayavka(r.storage.QueryRow(ctx, query, args...))
}

// FindZayavkaForUpdateInTx блокирует строку заявки на время транзакции.
func (r *ZayavkaRepository) FindZayavkaForUpdateInTx(ctx context.Context, tx pgx.Tx, id int) (*entities.Zayavka, error) {
	query, args, err := baseSelect().
		Where(sq.Eq{"z.id": id}).
		Suffix("FOR UPDATE OF z").
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanZayavka(tx.QueryRow(ctx, query, args...))
}

func (r *ZayavkaRepository) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id int, status constants.Status) error {
	tag, err := tx.Exec(ctx, `UPDATE zayavki SET status = $1 WHERE id = $2`, status.String(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ZayavkaRepository) SetFeedbackInTx(ctx context.Context, tx pgx.Tx, id int, comment string, rating *int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE zayavki
		SET comment = NULLIF($1, ''), rating = $2, confirmed_by_user = TRUE
		WHERE id = $3`, comment, rating, id)
	if err != nil {
		return fmt.Errorf("ошибка сохранения отзыва: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ZayavkaRepository) DeleteZayavkaInTx(ctx context.Context, tx pgx.Tx, id int) error {
	tag, err := tx.Exec(ctx, `DELETE FROM zayavki WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ZayavkaRepository) GetByOwner(ctx context.Context, userID int) ([]entities.Zayavka, error) {
	query, args, err := baseSelect().
		Where(sq.Eq{"z.user_id": userID}).
		OrderBy("z.created_at DESC", "z.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryList(ctx, query, args...)
}

// dashboardQuery собирает условия панели: скрытие сделанных заявок,
// ILIKE-подстроки по типу и статусу и свободный поиск по описанию либо
// владельцу. Все условия соединяются через AND, свободный поиск — OR внутри.
func dashboardQuery(filter dto.ZayavkaFilterDTO, includeDone bool) (string, []interface{}, error) {
	b := baseSelect()

	if !includeDone {
		b = b.Where(sq.NotEq{"z.status": constants.StatusDone.String()})
	}
	if filter.Type != "" {
		b = b.Where(sq.ILike{"z.type": "%" + filter.Type + "%"})
	}
	if filter.Status != "" {
		b = b.Where(sq.ILike{"z.status": "%" + filter.Status + "%"})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		b = b.Where(sq.Or{
			sq.ILike{"z.description": pattern},
			sq.ILike{"u.username": pattern},
			sq.ILike{"u.full_name": pattern},
		})
	}

	return b.OrderBy("z.created_at DESC", "z.id").ToSql()
}

// GetDashboard — админская панель. По умолчанию скрывает сделанные заявки;
// includeDone=true поднимает их, когда фильтр по статусу явно их запросил.
func (r *ZayavkaRepository) GetDashboard(ctx context.Context, filter dto.ZayavkaFilterDTO, includeDone bool) ([]entities.Zayavka, error) {
	query, args, err := dashboardQuery(filter, includeDone)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса панели: %w", err)
	}
	return r.queryList(ctx, query, args...)
}

func (r *ZayavkaRepository) GetHistory(ctx context.Context) ([]entities.Zayavka, error) {
	query, args, err := baseSelect().
		Where(sq.Eq{"z.status": constants.StatusDone.String()}).
		OrderBy("z.created_at DESC", "z.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryList(ctx, query, args...)
}

func (r *ZayavkaRepository) GetAll(ctx context.Context) ([]entities.Zayavka, error) {
	query, args, err := baseSelect().
		OrderBy("z.created_at DESC", "z.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryList(ctx, query, args...)
}

// GetForPeriod — строки для отчёта. Границы необязательны: [from, to).
func (r *ZayavkaRepository) GetForPeriod(ctx context.Context, from, to *time.Time) ([]entities.Zayavka, error) {
	b := baseSelect()
	if from != nil {
		b = b.Where(sq.GtOrEq{"z.created_at": *from})
	}
	if to != nil {
		b = b.Where(sq.Lt{"z.created_at": *to})
	}

	query, args, err := b.OrderBy("z.created_at DESC", "z.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса отчёта: %w", err)
	}
	return r.queryList(ctx, query, args...)
}
