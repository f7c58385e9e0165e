package services

import (
	"context"
	"io"

	"go.uber.org/zap"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/pkg/constants"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/filestorage"
	"zayavka-portal/pkg/utils"
)

type UserServiceInterface interface {
	GetProfile(ctx context.Context) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, data dto.UpdateProfileDTO, photo io.Reader, photoName string) (*dto.UserDTO, error)
	GetUsers(ctx context.Context) ([]dto.UserDTO, error)
	GetMyActions(ctx context.Context) ([]entities.ActionLog, error)
	DeleteUser(ctx context.Context, id int) error
}

type UserService struct {
	userRepo    repositories.UserRepositoryInterface
	logRepo     repositories.ActionLogRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	logRepo repositories.ActionLogRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepo:    userRepo,
		logRepo:     logRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func toUserDTO(u *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String,
		FullName: u.FullName.String,
		Faculty:  u.Faculty.String,
		Position: u.Position.String,
		Photo:    u.Photo.String,
	}
}

func (s *UserService) GetProfile(ctx context.Context) (*dto.UserDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	d := toUserDTO(user)
	return &d, nil
}

// UpdateProfile обновляет только переданные поля. Фото, если пришло,
// сохраняется в файловое хранилище, в профиль пишется относительный путь.
func (s *UserService) UpdateProfile(ctx context.Context, data dto.UpdateProfileDTO, photo io.Reader, photoName string) (*dto.UserDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if photo != nil {
		path, err := s.fileStorage.Save(photo, photoName, "avatars")
		if err != nil {
			s.logger.Error("не удалось сохранить фото профиля", zap.Error(err))
			return nil, err
		}
		data.Photo = path
	}

	if err := s.userRepo.UpdateProfile(ctx, actorID, data); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	d := toUserDTO(user)
	return &d, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]dto.UserDTO, error) {
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if role != constants.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos, nil
}

// GetMyActions — журнал собственных действий актора, новые сверху.
func (s *UserService) GetMyActions(ctx context.Context) ([]entities.ActionLog, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.logRepo.GetByUser(ctx, actorID)
}

// DeleteUser удаляет пользователя вместе со всеми его заявками.
// Удалять самого себя администратору запрещено.
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return err
	}
	if role != constants.RoleAdmin {
		return apperrors.ErrForbidden
	}
	if actorID == id {
		return apperrors.NewInvalidInputError("нельзя удалить собственную учётную запись")
	}

	if err := s.userRepo.DeleteUserCascade(ctx, id); err != nil {
		return err
	}

	s.logger.Info("пользователь удалён вместе с заявками",
		zap.Int("user_id", id),
		zap.Int("deleted_by", actorID),
	)
	return nil
}
