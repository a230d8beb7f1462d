package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"course-service/internal/logger"
	"course-service/internal/metrics"
	"course-service/internal/user"
	"course-service/testing/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Shared(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	// Create handler ONCE and reuse across all subtests
	repo := user.NewRepository(pgContainer.DB, metrics.NewMock())
	service := user.NewService(repo, nil)
	handler := user.NewHandler(service, logger.Discard(), metrics.NewMock())
	router := gin.New()
	handler.RegisterRoutes(router)

	t.Run("Register_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := postForm(router, "/register", url.Values{
			"username": {"alice"},
			"password": {"Abcd123!"},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "User registered successfully")

		stored, err := repo.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "Abcd123!", stored.Password)
		assert.Len(t, stored.Password, 60)
		assert.False(t, stored.IsAdmin)
	})

	t.Run("Register_AdminFlag", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := postForm(router, "/register", url.Values{
			"username": {"root"},
			"password": {"Abcd123!"},
			"is_admin": {"true"},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		stored, err := repo.GetByUsername(context.Background(), "root")
		require.NoError(t, err)
		assert.True(t, stored.IsAdmin)
	})

	t.Run("Register_InvalidUsername", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		cases := []url.Values{
			{"password": {"Abcd123!"}},
			{"username": {""}, "password": {"Abcd123!"}},
			{"username": {"elevenchars"}, "password": {"Abcd123!"}},
			{"username": {"alice"}},
		}
		for _, form := range cases {
			w := postForm(router, "/register", form)
			assert.Equal(t, http.StatusBadRequest, w.Code, form.Encode())
			assert.Contains(t, w.Body.String(), "Invalid username")
		}
	})

	t.Run("Register_PasswordPolicy", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		for _, pw := range []string{"abcd123!", "Abcdefg!", "Abcd1234", "Ab1!"} {
			w := postForm(router, "/register", url.Values{"username": {"bob"}, "password": {pw}})
			assert.Equal(t, http.StatusBadRequest, w.Code, pw)
			assert.Contains(t, w.Body.String(), "Password must contain")
		}
	})

	t.Run("Register_DuplicateUsername", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		form := url.Values{"username": {"carol"}, "password": {"Abcd123!"}}
		require.Equal(t, http.StatusCreated, postForm(router, "/register", form).Code)

		w := postForm(router, "/register", form)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "username already exists")
	})

	t.Run("Login_Success", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		require.Equal(t, http.StatusCreated, postForm(router, "/register", url.Values{
			"username": {"dave"}, "password": {"Abcd123!"}, "is_admin": {"1"},
		}).Code)

		w := postForm(router, "/login", url.Values{"username": {"dave"}, "password": {"Abcd123!"}})

		assert.Equal(t, http.StatusOK, w.Code)
		var response user.LoginResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "Login successful", response.Message)
		assert.True(t, response.IsAdmin)
	})

	t.Run("Login_InvalidPassword", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		require.Equal(t, http.StatusCreated, postForm(router, "/register", url.Values{
			"username": {"erin"}, "password": {"Abcd123!"},
		}).Code)

		w := postForm(router, "/login", url.Values{"username": {"erin"}, "password": {"Abcd123?"}})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("Login_UserNotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := postForm(router, "/login", url.Values{"username": {"ghost"}, "password": {"Abcd123!"}})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("Login_MissingFields", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := postForm(router, "/login", url.Values{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
