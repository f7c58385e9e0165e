package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	"zayavka-portal/internal/events"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/pkg/constants"
	"zayavka-portal/pkg/eventbus"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/utils"
)

// calendarCacheKey — общий ключ кеша календарной ленты. Любая мутация
// заявок сбрасывает его.
const calendarCacheKey = "calendar:events"

type ZayavkaServiceInterface interface {
	CreateZayavka(ctx context.Context, data dto.CreateZayavkaDTO) (int, error)
	TransitionStatus(ctx context.Context, id int, rawStatus string) (*entities.Zayavka, error)
	SubmitFeedback(ctx context.Context, id int, data dto.FeedbackDTO) error
	DeleteZayavka(ctx context.Context, id int) error
}

// ZayavkaService — движок жизненного цикла заявки. Все проверки прав
// выполняются здесь, на границе операции, а не в обработчиках маршрутов.
type ZayavkaService struct {
	pool        *pgxpool.Pool
	zayavkaRepo repositories.ZayavkaRepositoryInterface
	logRepo     repositories.ActionLogRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewZayavkaService(
	pool *pgxpool.Pool,
	zayavkaRepo repositories.ZayavkaRepositoryInterface,
	logRepo repositories.ActionLogRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) ZayavkaServiceInterface {
	return &ZayavkaService{
		pool:        pool,
		zayavkaRepo: zayavkaRepo,
		logRepo:     logRepo,
		cacheRepo:   cacheRepo,
		bus:         bus,
		logger:      logger,
	}
}

// canDelete: удалить заявку может только её владелец и только пока она
// не в статусе "сделано".
func canDelete(z *entities.Zayavka, actorID int) error {
	if z.UserID != actorID {
		return apperrors.ErrForbidden
	}
	if z.Status == constants.StatusDone {
		return apperrors.ErrForbidden
	}
	return nil
}

// canSubmitFeedback: отзыв оставляет владелец, и только по завершённой
// (сделано/отказано) заявке. Оценка — целое 1..5 либо отсутствует.
func canSubmitFeedback(z *entities.Zayavka, actorID int, rating *int) error {
	if z.UserID != actorID {
		return apperrors.ErrForbidden
	}
	if !z.Status.IsTerminal() {
		return apperrors.ErrForbidden
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperrors.ErrInvalidRating
	}
	return nil
}

func (s *ZayavkaService) CreateZayavka(ctx context.Context, data dto.CreateZayavkaDTO) (newID int, err error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	newID, err = s.zayavkaRepo.CreateZayavkaInTx(ctx, tx, actorID, data)
	if err != nil {
		s.logger.Error("не удалось создать заявку", zap.Error(err))
		return 0, err
	}

	if err = s.logRepo.AppendInTx(ctx, tx, actorID, fmt.Sprintf("Создана заявка «%s»", data.Type), &newID); err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка коммита транзакции: %w", err)
	}

	s.invalidateCalendar(ctx)

	s.logger.Info("заявка создана",
		zap.Int("zayavkaId", newID),
		zap.Int("userId", actorID),
		zap.Bool("urgent", data.Urgent),
	)
	return newID, nil
}

// TransitionStatus переводит заявку в новый статус. Только администратор.
// Статус валидируется один раз здесь; дальше по системе ходит только
// значение закрытого перечисления.
func (s *ZayavkaService) TransitionStatus(ctx context.Context, id int, rawStatus string) (z *entities.Zayavka, err error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	newStatus, err := constants.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	z, err = s.zayavkaRepo.FindZayavkaForUpdateInTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err = s.zayavkaRepo.UpdateStatusInTx(ctx, tx, id, newStatus); err != nil {
		return nil, err
	}

	action := fmt.Sprintf("Статус заявки №%d изменён: %s → %s", id, z.Status, newStatus)
	if err = s.logRepo.AppendInTx(ctx, tx, actorID, action, &id); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка коммита транзакции: %w", err)
	}

	z.Status = newStatus
	s.invalidateCalendar(ctx)

	// Экспорт в архивную книгу — побочный эффект. Слушатель сам логирует
	// свои ошибки; переход уже зафиксирован и не зависит от них.
	if newStatus.IsTerminal() {
		s.bus.Publish(ctx, events.ZayavkaStatusChangedEvent{
			ZayavkaID:     z.ID,
			NewStatus:     newStatus,
			Type:          z.Type,
			Description:   z.Description,
			File:          z.File.String,
			CreatedAt:     z.CreatedAt,
			OwnerUsername: z.Owner.Username,
			OwnerFaculty:  z.Owner.Faculty.String,
		})
	}

	return z, nil
}

func (s *ZayavkaService) SubmitFeedback(ctx context.Context, id int, data dto.FeedbackDTO) (err error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	z, err := s.zayavkaRepo.FindZayavkaForUpdateInTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if err = canSubmitFeedback(z, actorID, data.Rating); err != nil {
		return err
	}

	if err = s.zayavkaRepo.SetFeedbackInTx(ctx, tx, id, data.Comment, data.Rating); err != nil {
		return err
	}

	if err = s.logRepo.AppendInTx(ctx, tx, actorID, fmt.Sprintf("Оставлен отзыв по заявке №%d", id), &id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *ZayavkaService) DeleteZayavka(ctx context.Context, id int) (err error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	z, err := s.zayavkaRepo.FindZayavkaForUpdateInTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if err = canDelete(z, actorID); err != nil {
		return err
	}

	if err = s.zayavkaRepo.DeleteZayavkaInTx(ctx, tx, id); err != nil {
		return err
	}

	if err = s.logRepo.AppendInTx(ctx, tx, actorID, fmt.Sprintf("Удалена заявка «%s»", z.Type), nil); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	s.invalidateCalendar(ctx)
	return nil
}

func (s *ZayavkaService) invalidateCalendar(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, calendarCacheKey); err != nil {
		s.logger.Warn("не удалось сбросить кеш календаря", zap.Error(err))
	}
}
