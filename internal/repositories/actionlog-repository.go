package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"zayavka-portal/internal/entities"
)

// ActionLogRepositoryInterface — журнал действий. Только запись и чтение,
// изменение и удаление записей не предусмотрены.
type ActionLogRepositoryInterface interface {
	AppendInTx(ctx context.Context, tx pgx.Tx, userID int, action string, zayavkaID *int) error
	GetByUser(ctx context.Context, userID int) ([]entities.ActionLog, error)
}

type ActionLogRepository struct {
	storage *pgxpool.Pool
}

func NewActionLogRepository(storage *pgxpool.Pool) ActionLogRepositoryInterface {
	return &ActionLogRepository{storage: storage}
}

func (r *ActionLogRepository) AppendInTx(ctx context.Context, tx pgx.Tx, userID int, action string, zayavkaID *int) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO action_logs (action, user_id, zayavka_id) VALUES ($1, $2, $3)`,
		action, userID, zayavkaID,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи в журнал действий: %w", err)
	}
	return nil
}

func (r *ActionLogRepository) GetByUser(ctx context.Context, userID int) ([]entities.ActionLog, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT id, action, created_at, user_id, zayavka_id FROM action_logs WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала действий: %w", err)
	}
	defer rows.Close()

	logs := make([]entities.ActionLog, 0)
	for rows.Next() {
		var l entities.ActionLog
		if err := rows.Scan(&l.ID, &l.Action, &l.CreatedAt, &l.UserID, &l.ZayavkaID); err != nil {
			return nil, fmt.Errorf("ошибка сканирования журнала: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
