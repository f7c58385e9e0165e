package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/pkg/constants"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/utils"
)

const calendarCacheTTL = time.Minute

type QueryServiceInterface interface {
	MyZayavki(ctx context.Context) ([]dto.ZayavkaDTO, error)
	Dashboard(ctx context.Context, filter dto.ZayavkaFilterDTO) ([]dto.ZayavkaDTO, error)
	History(ctx context.Context) ([]dto.ZayavkaDTO, error)
	FindZayavka(ctx context.Context, id int) (*dto.ZayavkaDTO, error)
	CalendarFeed(ctx context.Context) ([]dto.CalendarEventDTO, error)
}

// QueryService строит представления над хранилищем заявок с учётом роли
// актора: сотрудник видит только своё, администратор — всё.
type QueryService struct {
	zayavkaRepo repositories.ZayavkaRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	logger      *zap.Logger
}

func NewQueryService(
	zayavkaRepo repositories.ZayavkaRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) QueryServiceInterface {
	return &QueryService{
		zayavkaRepo: zayavkaRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

func toZayavkaDTO(z entities.Zayavka) dto.ZayavkaDTO {
	d := dto.ZayavkaDTO{
		ID:              z.ID,
		Type:            z.Type,
		Description:     z.Description,
		Status:          z.Status.String(),
		CreatedAt:       z.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		File:            z.File.String,
		Urgent:          z.Urgent,
		Comment:         z.Comment.String,
		ConfirmedByUser: z.ConfirmedByUser,
		Owner: dto.ShortUserDTO{
			ID:       z.Owner.ID,
			Username: z.Owner.Username,
			FullName: z.Owner.FullName.String,
		},
	}
	if z.Rating.Valid {
		d.Rating = z.Rating.Int
	}
	return d
}

func toZayavkaDTOs(zayavki []entities.Zayavka) []dto.ZayavkaDTO {
	dtos := make([]dto.ZayavkaDTO, len(zayavki))
	for i, z := range zayavki {
		dtos[i] = toZayavkaDTO(z)
	}
	return dtos
}

func (s *QueryService) MyZayavki(ctx context.Context) ([]dto.ZayavkaDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	zayavki, err := s.zayavkaRepo.GetByOwner(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return toZayavkaDTOs(zayavki), nil
}

// Dashboard — админская панель. Сделанные заявки скрыты, пока фильтр по
// статусу явно их не запросил.
func (s *QueryService) Dashboard(ctx context.Context, filter dto.ZayavkaFilterDTO) ([]dto.ZayavkaDTO, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	filter.Type = strings.TrimSpace(filter.Type)
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Query = strings.TrimSpace(filter.Query)

	// Любой распознанный алиас статуса (английский или историческое
	// написание) приводится к каноническому, иначе ILIKE по нему ничего
	// не найдёт. Нераспознанная строка уходит в фильтр как есть.
	includeDone := false
	if filter.Status != "" {
		if st, err := constants.ParseStatus(filter.Status); err == nil {
			filter.Status = st.String()
			includeDone = st == constants.StatusDone
		}
	}

	zayavki, err := s.zayavkaRepo.GetDashboard(ctx, filter, includeDone)
	if err != nil {
		return nil, err
	}
	return toZayavkaDTOs(zayavki), nil
}

func (s *QueryService) History(ctx context.Context) ([]dto.ZayavkaDTO, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	zayavki, err := s.zayavkaRepo.GetHistory(ctx)
	if err != nil {
		return nil, err
	}
	return toZayavkaDTOs(zayavki), nil
}

// FindZayavka отдаёт заявку владельцу либо администратору.
func (s *QueryService) FindZayavka(ctx context.Context, id int) (*dto.ZayavkaDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	z, err := s.zayavkaRepo.FindZayavka(ctx, id)
	if err != nil {
		return nil, err
	}
	if z.UserID != actorID && role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	d := toZayavkaDTO(*z)
	return &d, nil
}

// CalendarFeed — проекция всех заявок в события календаря. Лента кешируется
// в Redis с коротким TTL; мутации заявок сбрасывают кеш.
func (s *QueryService) CalendarFeed(ctx context.Context) ([]dto.CalendarEventDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, calendarCacheKey); err == nil && cached != "" {
		var events []dto.CalendarEventDTO
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			return events, nil
		}
		s.logger.Warn("кеш календаря повреждён, перечитываем из БД")
	}

	zayavki, err := s.zayavkaRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]dto.CalendarEventDTO, 0, len(zayavki))
	for _, z := range zayavki {
		events = append(events, dto.CalendarEventDTO{
			Title: z.Type + " (" + z.Status.String() + ")",
			Start: z.CreatedAt.Local().Format("2006-01-02"),
			Color: constants.StatusColor(z.Status.String()),
		})
	}

	if payload, err := json.Marshal(events); err == nil {
		if err := s.cacheRepo.Set(ctx, calendarCacheKey, string(payload), calendarCacheTTL); err != nil {
			s.logger.Warn("не удалось записать кеш календаря", zap.Error(err))
		}
	}

	return events, nil
}
