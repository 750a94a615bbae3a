package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/b-learning-api/internal/dto"
	"github.com/noah-isme/b-learning-api/internal/handler"
)

func TestHealthAndMetrics(t *testing.T) {
	env := setupApp(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, body := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var health handler.HealthResponse
		require.NoError(t, json.Unmarshal(body.Data, &health))
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "reject", health.LatePolicy)
	}

	resp, _ := env.do(t, http.MethodGet, "/api/courses", nil)
	require.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	raw, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestCourseCatalogOverHTTP(t *testing.T) {
	env := setupApp(t)

	resp, body := env.do(t, http.MethodPost, "/api/courses", map[string]string{"code": "ma201", "title": "Linear Algebra"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var course dto.CourseResponse
	require.NoError(t, json.Unmarshal(body.Data, &course))
	assert.Equal(t, "MA201", course.Code)

	resp, _ = env.do(t, http.MethodPost, "/api/courses", map[string]string{"code": "MA201", "title": "Another algebra"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/courses/"+env.course.ID, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/modules", map[string]interface{}{"course_id": course.ID, "title": "Vectors"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var module dto.ModuleResponse
	require.NoError(t, json.Unmarshal(body.Data, &module))
	assert.Equal(t, 1, module.OrderNum)

	resp, body = env.do(t, http.MethodPost, "/api/lectures", map[string]interface{}{
		"module_id":         module.ID,
		"title":             "Homework one",
		"type":              "ASSIGNMENT",
		"assignment_config": map[string]interface{}{"max_points": 50, "due_days": 3},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var lecture dto.LectureResponse
	require.NoError(t, json.Unmarshal(body.Data, &lecture))
	require.NotNil(t, lecture.Assignment)
	assert.InDelta(t, 50, lecture.Assignment.MaxPoints, 0.001)

	resp, body = env.do(t, http.MethodGet, "/api/courses?search=algebra&limit=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var courses dto.ListResponse[dto.CourseResponse]
	require.NoError(t, json.Unmarshal(body.Data, &courses))
	require.EqualValues(t, 1, courses.Total)
	assert.EqualValues(t, 1, courses.Items[0].ModuleCount)
	assert.Equal(t, 5, courses.Limit)

	resp, body = env.do(t, http.MethodGet, "/api/assignments?course_id="+course.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var assignments dto.ListResponse[dto.AssignmentResponse]
	require.NoError(t, json.Unmarshal(body.Data, &assignments))
	require.EqualValues(t, 1, assignments.Total)
	assert.Equal(t, "MA201", assignments.Items[0].CourseCode)
	assert.Equal(t, 50, assignments.Limit)
}

func TestStudentAndEnrollmentOverHTTP(t *testing.T) {
	env := setupApp(t)

	resp, body := env.do(t, http.MethodPost, "/api/students", map[string]string{"email": "grace@example.com", "first_name": "Grace", "last_name": "Hopper"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)
	var student dto.StudentResponse
	require.NoError(t, json.Unmarshal(body.Data, &student))

	resp, body = env.do(t, http.MethodPost, "/api/enrollments", map[string]string{"user_id": student.ID, "course_id": env.course.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)

	resp, _ = env.do(t, http.MethodPost, "/api/enrollments", map[string]string{"user_id": student.ID, "course_id": env.course.ID})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/enrollments?course_id="+env.course.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var enrollments dto.ListResponse[dto.EnrollmentResponse]
	require.NoError(t, json.Unmarshal(body.Data, &enrollments))
	assert.EqualValues(t, 2, enrollments.Total)

	resp, body = env.do(t, http.MethodGet, "/api/students?search=hopper", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var students dto.ListResponse[dto.StudentResponse]
	require.NoError(t, json.Unmarshal(body.Data, &students))
	require.EqualValues(t, 1, students.Total)
	assert.EqualValues(t, 1, students.Items[0].EnrolledCourses)
}
