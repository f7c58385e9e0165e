package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"zayavka-portal/internal/dto"
	"zayavka-portal/internal/entities"
	"zayavka-portal/internal/repositories"
	"zayavka-portal/pkg/config"
	"zayavka-portal/pkg/constants"
	apperrors "zayavka-portal/pkg/errors"
	"zayavka-portal/pkg/service"
	"zayavka-portal/pkg/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthServiceInterface interface {
	Register(ctx context.Context, data dto.RegisterDTO) (*dto.AuthResultDTO, error)
	Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResultDTO, error)
	GoogleLoginURL(state string) string
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResultDTO, error)
	SelectRole(ctx context.Context, role string) (*dto.TokenPairDTO, error)
	RefreshTokens(refreshToken string) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepo    repositories.UserRepositoryInterface
	jwtService  service.JWTService
	oauthConfig *oauth2.Config
	logger      *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	jwtService service.JWTService,
	googleCfg config.GoogleConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		oauthConfig: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  googleCfg.RedirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

func (s *AuthService) Register(ctx context.Context, data dto.RegisterDTO) (*dto.AuthResultDTO, error) {
	hashed, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username: data.Username,
		Email:    data.Email,
		Password: hashed,
		Role:     null.StringFrom(data.Role),
		FullName: null.NewString(data.FullName, data.FullName != ""),
		Faculty:  null.NewString(data.Faculty, data.Faculty != ""),
		Position: null.NewString(data.Position, data.Position != ""),
	}

	newID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = newID

	s.logger.Info("зарегистрирован новый пользователь",
		zap.Int("user_id", newID),
		zap.String("username", user.Username),
	)
	return s.buildAuthResult(user)
}

func (s *AuthService) Login(ctx context.Context, data dto.LoginDTO) (*dto.AuthResultDTO, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, data.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.buildAuthResult(user)
}

func (s *AuthService) GoogleLoginURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state)
}

// GoogleCallback обменивает код провайдера на профиль и находит либо заводит
// пользователя. У заведённого через Google пользователя роль не выбрана:
// клиент обязан вызвать выбор роли перед работой с заявками.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResultDTO, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("ошибка обмена кода авторизации", zap.Error(err))
		return nil, apperrors.ErrInvalidCredentials
	}

	info, err := s.fetchGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return s.buildAuthResult(user)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user, err = s.createGoogleUser(ctx, info)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResult(user)
}

func (s *AuthService) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	resp, err := s.oauthConfig.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса профиля Google: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("провайдер ответил статусом %d", resp.StatusCode)
	}

	var info dto.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("ошибка разбора профиля Google: %w", err)
	}
	return &info, nil
}

func (s *AuthService) createGoogleUser(ctx context.Context, info *dto.GoogleUserInfo) (*entities.User, error) {
	username, err := s.uniqueUsername(ctx, info)
	if err != nil {
		return nil, err
	}

	// Пароль-заглушка: входа по паролю у федеративного аккаунта нет,
	// но колонка обязательная.
	hashed, err := utils.HashPassword(uuid.New().String())
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username: username,
		Email:    info.Email,
		Password: hashed,
		FullName: null.NewString(info.Name, info.Name != ""),
	}

	newID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = newID

	s.logger.Info("создан пользователь через Google",
		zap.Int("user_id", newID),
		zap.String("username", username),
	)
	return user, nil
}

// uniqueUsername строит логин из имени профиля; при коллизии добавляет
// числовой суффикс.
func (s *AuthService) uniqueUsername(ctx context.Context, info *dto.GoogleUserInfo) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(info.Name), " ", "_"))
	if base == "" {
		base = strings.Split(info.Email, "@")[0]
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := s.userRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// SelectRole — одноразовый выбор роли после федеративного входа.
// Повторная попытка завершается ошибкой, даже с той же ролью.
func (s *AuthService) SelectRole(ctx context.Context, role string) (*dto.TokenPairDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !constants.IsValidRole(role) {
		return nil, apperrors.ErrInvalidRole
	}

	if err := s.userRepo.SelectRole(ctx, actorID, role); err != nil {
		return nil, err
	}

	access, refresh, err := s.jwtService.GenerateTokens(actorID, role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) RefreshTokens(refreshToken string) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	access, refresh, err := s.jwtService.GenerateTokens(claims.UserID, claims.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) buildAuthResult(user *entities.User) (*dto.AuthResultDTO, error) {
	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role.String)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResultDTO{
		User:   toUserDTO(user),
		Tokens: dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh},
	}, nil
}
