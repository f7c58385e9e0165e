package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"zayavka-portal/pkg/config"
	"zayavka-portal/pkg/database/postgresql"
	"zayavka-portal/pkg/service"
	"zayavka-portal/pkg/utils"
)

// Сквозной тест портала: регистрация, создание заявки, смена статуса,
// отзыв. Требует живой тестовой БД, иначе пропускается целиком.
type PortalTestSuite struct {
	suite.Suite
	Echo          *echo.Echo
	DB            *pgxpool.Pool
	adminToken    string
	employeeToken string
	employeeID    int
	zayavkaID     int
	suffix        string
}

func TestPortalSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL не задан, пропускаем интеграционный тест")
	}
	suite.Run(t, new(PortalTestSuite))
}

func (s *PortalTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	s.Require().NoError(postgresql.Migrate(dsn), "миграции должны применяться к тестовой БД")

	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())

	logger := zap.NewNop()
	dbConn := postgresql.ConnectDB(dsn)
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 1})
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, logger)

	cfg := config.New()
	cfg.Storage.UploadDir = s.T().TempDir()
	cfg.Storage.ExportDir = s.T().TempDir()

	InitRouter(e, dbConn, redisClient, jwtSvc, logger, cfg)

	s.Echo = e
	s.DB = dbConn
	s.suffix = fmt.Sprintf("%d", rand.Intn(1_000_000))
}

func (s *PortalTestSuite) TearDownSuite() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func (s *PortalTestSuite) doJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *PortalTestSuite) decodeBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	var resp struct {
		Body map[string]interface{} `json:"body"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Body
}

func (s *PortalTestSuite) register(username, role string) (token string, userID int) {
	rec := s.doJSON(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, "регистрация должна проходить: %s", rec.Body.String())

	body := s.decodeBody(rec)
	tokens := body["tokens"].(map[string]interface{})
	user := body["user"].(map[string]interface{})
	return tokens["access_token"].(string), int(user["id"].(float64))
}

func (s *PortalTestSuite) Test01_RegisterUsers() {
	s.adminToken, _ = s.register("admin_"+s.suffix, "admin")
	s.employeeToken, s.employeeID = s.register("user_"+s.suffix, "employee")
	s.NotEmpty(s.adminToken)
	s.NotEmpty(s.employeeToken)
}

func (s *PortalTestSuite) Test02_DuplicateUsernameRejected() {
	rec := s.doJSON(http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "user_" + s.suffix,
		"email":    "another_" + s.suffix + "@example.com",
		"password": "secret123",
		"role":     "employee",
	})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *PortalTestSuite) Test03_CreateZayavka() {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	s.Require().NoError(w.WriteField("type", "Проектор"))
	s.Require().NoError(w.WriteField("description", "Не включается после замены лампы"))
	s.Require().NoError(w.WriteField("urgent", "true"))
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/zayavki", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.employeeToken)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.zayavkaID = int(s.decodeBody(rec)["id"].(float64))
	s.NotZero(s.zayavkaID)
}

func (s *PortalTestSuite) Test04_DashboardForbiddenForEmployee() {
	rec := s.doJSON(http.MethodGet, "/api/zayavki/dashboard", s.employeeToken, nil)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *PortalTestSuite) Test05_AdminTransitionsStatus() {
	rec := s.doJSON(http.MethodPut, fmt.Sprintf("/api/zayavki/%d/status", s.zayavkaID), s.adminToken,
		map[string]string{"status": "сделано"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *PortalTestSuite) Test06_InvalidStatusRejected() {
	rec := s.doJSON(http.MethodPut, fmt.Sprintf("/api/zayavki/%d/status", s.zayavkaID), s.adminToken,
		map[string]string{"status": "в работе"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *PortalTestSuite) Test07_EmployeeCannotTransition() {
	rec := s.doJSON(http.MethodPut, fmt.Sprintf("/api/zayavki/%d/status", s.zayavkaID), s.employeeToken,
		map[string]string{"status": "принято"})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *PortalTestSuite) Test08_FeedbackOnCompleted() {
	rec := s.doJSON(http.MethodPost, fmt.Sprintf("/api/zayavki/%d/feedback", s.zayavkaID), s.employeeToken,
		map[string]interface{}{"comment": "Спасибо, всё работает", "rating": 5})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
}

func (s *PortalTestSuite) Test09_MyZayavkiShowsFeedback() {
	rec := s.doJSON(http.MethodGet, "/api/zayavki/my", s.employeeToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Body []map[string]interface{} `json:"body"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.Body)

	found := false
	for _, z := range resp.Body {
		if int(z["id"].(float64)) == s.zayavkaID {
			found = true
			s.Equal("сделано", z["status"])
			s.Equal(true, z["confirmed_by_user"])
		}
	}
	s.True(found, "созданная заявка должна быть в списке владельца")
}

func (s *PortalTestSuite) Test10_UnauthorizedWithoutToken() {
	rec := s.doJSON(http.MethodGet, "/api/zayavki/my", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
