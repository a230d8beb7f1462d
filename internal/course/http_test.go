package course_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"course-service/internal/course"
	"course-service/internal/enrollment"
	"course-service/internal/logger"
	"course-service/internal/metrics"
	"course-service/internal/resource"
	"course-service/internal/user"
	"course-service/testing/testdb"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

type fsRemover struct{ fs afero.Fs }

func (r fsRemover) Remove(path string) error { return r.fs.Remove(path) }

func TestCourseHandler_Shared(t *testing.T) {
	gin.SetMode(gin.TestMode)

	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t)

	files := afero.NewMemMapFs()
	repo := course.NewRepository(pgContainer.DB, metrics.NewMock())
	service := course.NewService(repo, fsRemover{files}, nil, logger.Discard())
	handler := course.NewHandler(service, logger.Discard(), metrics.NewMock())
	router := gin.New()
	handler.RegisterRoutes(router)

	listCourses := func(t *testing.T) []course.Course {
		t.Helper()
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var courses []course.Course
		require.NoError(t, json.NewDecoder(w.Body).Decode(&courses))
		return courses
	}

	t.Run("CreateCourse_ThenList", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPost, "/courses", url.Values{
			"name":        {"Distributed Systems"},
			"description": {"Consensus, replication, failure"},
		}))

		assert.Equal(t, http.StatusCreated, w.Code)
		var created map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, "Course added successfully", created["message"])
		assert.EqualValues(t, 1, created["id"])

		courses := listCourses(t)
		require.Len(t, courses, 1)
		assert.Equal(t, "Distributed Systems", courses[0].Name)
		assert.Equal(t, "Consensus, replication, failure", courses[0].Description)
		assert.Equal(t, 1, courses[0].ID)
	})

	t.Run("CreateCourse_EmptyNameAccepted", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPost, "/courses", url.Values{}))

		assert.Equal(t, http.StatusCreated, w.Code)
		courses := listCourses(t)
		require.Len(t, courses, 1)
		assert.Equal(t, "", courses[0].Name)
		assert.Equal(t, "", courses[0].Description)
	})

	t.Run("CreateCourse_NameTooLong", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPost, "/courses", url.Values{"name": {strings.Repeat("n", 101)}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, listCourses(t))
	})

	t.Run("ListCourses_Empty", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/courses", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("UpdateCourse_DescriptionOnly", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		_, err := repo.Create(context.Background(), &course.Course{Name: "Algorithms", Description: "old"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPut, "/courses/1", url.Values{"description": {"new"}}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Course updated successfully")

		got, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Algorithms", got.Name)
		assert.Equal(t, "new", got.Description)
	})

	t.Run("UpdateCourse_NameOnly", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		_, err := repo.Create(context.Background(), &course.Course{Name: "Algorithms", Description: "kept"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPut, "/courses/1", url.Values{"name": {"Algorithms II"}}))
		require.Equal(t, http.StatusOK, w.Code)

		got, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Algorithms II", got.Name)
		assert.Equal(t, "kept", got.Description)
	})

	t.Run("UpdateCourse_NoFields", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		_, err := repo.Create(context.Background(), &course.Course{Name: "Compilers"})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPut, "/courses/1", url.Values{}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UpdateCourse_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPut, "/courses/99999", url.Values{"name": {"x"}}))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Course not found")
	})

	t.Run("UpdateCourse_InvalidID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPut, "/courses/abc", url.Values{"name": {"x"}}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DeleteCourse_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/courses/99999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Course not found")
	})

	t.Run("DeleteCourse_IDZero", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/courses/0", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Course not found")
	})

	t.Run("UpdateCourse_IDZero", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest(http.MethodPut, "/courses/0", url.Values{"name": {"x"}}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DeleteCourse_Cascades", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB)
		ctx := context.Background()

		keep, err := repo.Create(ctx, &course.Course{Name: "Keep"})
		require.NoError(t, err)
		drop, err := repo.Create(ctx, &course.Course{Name: "Drop"})
		require.NoError(t, err)

		student := &user.User{Username: "sam", Password: "digest"}
		_, err = pgContainer.DB.NewInsert().Model(student).Exec(ctx)
		require.NoError(t, err)

		require.NoError(t, afero.WriteFile(files, "/uploads/drop.pdf", []byte("x"), 0o644))
		require.NoError(t, afero.WriteFile(files, "/uploads/keep.pdf", []byte("y"), 0o644))
		resources := []*resource.Resource{
			{Name: "Slides", FilePath: "/uploads/drop.pdf", FileName: "slides.pdf", CourseID: drop.ID},
			{Name: "Notes", FilePath: "/uploads/keep.pdf", FileName: "notes.pdf", CourseID: keep.ID},
		}
		for _, r := range resources {
			_, err := pgContainer.DB.NewInsert().Model(r).Exec(ctx)
			require.NoError(t, err)
		}
		enrollments := []*enrollment.Enrollment{
			{UserID: student.ID, CourseID: drop.ID},
			{UserID: student.ID, CourseID: keep.ID},
		}
		for _, e := range enrollments {
			_, err := pgContainer.DB.NewInsert().Model(e).Exec(ctx)
			require.NoError(t, err)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/courses/2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Course deleted successfully")

		courses := listCourses(t)
		require.Len(t, courses, 1)
		assert.Equal(t, "Keep", courses[0].Name)

		resourceCount, err := pgContainer.DB.NewSelect().Model((*resource.Resource)(nil)).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, resourceCount)

		enrollmentCount, err := pgContainer.DB.NewSelect().Model((*enrollment.Enrollment)(nil)).Where("course_id = ?", drop.ID).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, enrollmentCount)

		dropped, err := afero.Exists(files, "/uploads/drop.pdf")
		require.NoError(t, err)
		assert.False(t, dropped)
		kept, err := afero.Exists(files, "/uploads/keep.pdf")
		require.NoError(t, err)
		assert.True(t, kept)
	})
}
