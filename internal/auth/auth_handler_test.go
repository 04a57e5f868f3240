package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	authMock "go-leave/internal/auth/mock"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, false)
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	t.Run("Success Login - Web Client (Cookie Check)", func(t *testing.T) {
		reqBody := auth.LoginRequest{
			Email:    "test@example.com",
			Password: "password123",
		}
		body, _ := json.Marshal(reqBody)

		expectedResp := auth.AuthResponse{
			ID:    "user-1",
			Email: "test@example.com",
			Role:  "MANAGER",
		}

		mockService.EXPECT().
			Login(gomock.Any(), reqBody.Email, reqBody.Password).
			Return("access-token", "refresh-token", expectedResp, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "WEB")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)

		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, "test@example.com", res["data"].(map[string]interface{})["user"].(map[string]interface{})["email"])
	})

	t.Run("Success Login - Mobile Client gets no cookies", func(t *testing.T) {
		body, _ := json.Marshal(auth.LoginRequest{Email: "test@example.com", Password: "password123"})

		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("access-token", "refresh-token", auth.AuthResponse{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "MOBILE")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Failed Login - Invalid Credentials", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials)

		body, _ := json.Marshal(auth.LoginRequest{Email: "wrong@test.com", Password: "123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, false)
	router := setupAuthRouter()
	router.POST("/register", handler.Register)

	t.Run("Success Register", func(t *testing.T) {
		reqData := auth.RegisterRequest{
			Email:    "new@example.com",
			Name:     "New User",
			Password: "newpassword",
			Role:     "MANAGER",
		}
		body, _ := json.Marshal(reqData)

		mockService.EXPECT().
			Register(gomock.Any(), reqData).
			Return(auth.AuthResponse{Email: reqData.Email, Name: reqData.Name, Role: reqData.Role}, nil)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Failed Register - Validation Error", func(t *testing.T) {
		body := []byte(`{"email": "invalid-email", "name": ""}`)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed Register - Unknown Role", func(t *testing.T) {
		body := []byte(`{"email": "a@example.com", "name": "A", "password": "secret123", "role": "ADMIN"}`)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed Register - Email Already Exists", func(t *testing.T) {
		reqData := auth.RegisterRequest{
			Email:    "exists@example.com",
			Name:     "Existing User",
			Password: "password123",
		}
		body, _ := json.Marshal(reqData)

		mockService.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			Return(auth.AuthResponse{}, autherrors.ErrEmailAlreadyRegistered)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService, false)
	router := setupAuthRouter()
	router.GET("/me", func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set("user_id", uid)
		}
		c.Next()
	}, handler.Me)

	t.Run("Authenticated", func(t *testing.T) {
		mockService.EXPECT().
			GetMe(gomock.Any(), "user-1").
			Return(&auth.AuthResponse{ID: "user-1", Role: "EMPLOYEE"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("X-Test-User", "user-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	handler := auth.NewHandler(nil, true)
	router := setupAuthRouter()
	router.POST("/logout", handler.Logout)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Empty(t, c.Value)
		assert.True(t, c.Secure)
	}
}
