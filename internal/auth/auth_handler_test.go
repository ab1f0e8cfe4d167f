package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/auth"
	autherrors "github.com/yutaorii/saisyuukadaiteisyutu/internal/auth/errors"
	authMock "github.com/yutaorii/saisyuukadaiteisyutu/internal/auth/mock"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/middleware"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	return gin.New()
}

var cookies = auth.CookieOptions{AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour}

func cookieNames(w *httptest.ResponseRecorder) []string {
	var names []string
	for _, c := range w.Result().Cookies() {
		names = append(names, c.Name)
	}
	return names
}

func TestHandler_Login(t *testing.T) {
	t.Run("web client gets cookies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := authMock.NewMockService(ctrl)
		router := setupAuthRouter()
		router.POST("/login", auth.NewHandler(mockService, cookies).Login)

		mockService.EXPECT().
			Login(gomock.Any(), "E001", "abcd1234").
			Return("access-token", "refresh-token", auth.AuthResponse{Code: "E001"}, nil)

		body, _ := json.Marshal(auth.LoginRequest{Code: "E001", Password: "abcd1234"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "web")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, cookieNames(w))
	})

	t.Run("api client gets no cookies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := authMock.NewMockService(ctrl)
		router := setupAuthRouter()
		router.POST("/login", auth.NewHandler(mockService, cookies).Login)

		mockService.EXPECT().
			Login(gomock.Any(), "E001", "abcd1234").
			Return("access-token", "refresh-token", auth.AuthResponse{Code: "E001"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"code":"E001","password":"abcd1234"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "curl/8.5.0")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, cookieNames(w))
	})

	t.Run("bad credentials -> 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := authMock.NewMockService(ctrl)
		router := setupAuthRouter()
		router.POST("/login", auth.NewHandler(mockService, cookies).Login)

		mockService.EXPECT().
			Login(gomock.Any(), "E001", "nope").
			Return("", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"code":"E001","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing password -> 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := authMock.NewMockService(ctrl)
		mockService.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		router := setupAuthRouter()
		router.POST("/login", auth.NewHandler(mockService, cookies).Login)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"code":"E001"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	router := setupAuthRouter()
	router.GET("/me", func(c *gin.Context) {
		c.Set(middleware.ContextEmployeeCode, "E001")
		c.Next()
	}, auth.NewHandler(mockService, cookies).Me)

	mockService.EXPECT().GetMe(gomock.Any(), "E001").Return(&auth.AuthResponse{Code: "E001"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Logout_ClearsCookies(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := setupAuthRouter()
	router.POST("/logout", auth.NewHandler(authMock.NewMockService(ctrl), cookies).Logout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func TestHandler_RefreshToken(t *testing.T) {
	t.Run("body token for api clients", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := authMock.NewMockService(ctrl)
		router := setupAuthRouter()
		router.POST("/refresh", auth.NewHandler(mockService, cookies).RefreshToken)

		mockService.EXPECT().
			RefreshToken(gomock.Any(), "r1").
			Return("a2", "r2", auth.AuthResponse{Code: "E001"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"r1"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("web client without cookie -> 401", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockService := authMock.NewMockService(ctrl)
		router := setupAuthRouter()
		router.POST("/refresh", auth.NewHandler(mockService, cookies).RefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("X-Client-Type", "web")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
