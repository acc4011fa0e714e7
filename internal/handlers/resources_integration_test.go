package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers/testutil"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

type classroom struct {
	env      *testutil.Env
	teacher  string
	other    string
	student  string
	admin    string
	outsider string
}

func newClassroom(t *testing.T) *classroom {
	env := testutil.NewEnv(t)
	return &classroom{
		env:      env,
		teacher:  env.TokenFor(env.CreateUser("tess", "Passw0rd!", iauth.RoleTeacher)),
		other:    env.TokenFor(env.CreateUser("tom", "Passw0rd!", iauth.RoleTeacher)),
		student:  env.TokenFor(env.CreateUser("sam", "Passw0rd!")),
		admin:    env.TokenFor(env.CreateUser("ada", "Passw0rd!", iauth.RoleAdmin)),
		outsider: env.TokenFor(env.CreateUser("olly", "Passw0rd!")),
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &out)
	return out
}

func (c *classroom) createAssignment(t *testing.T) models.Assignment {
	t.Helper()
	w := c.env.Request(http.MethodPost, "/api/assignments", map[string]any{"title": "Fractions", "max_score": 100}, c.teacher)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Assignment](t, w)
}

func (c *classroom) setStatus(t *testing.T, id, status, token string) *httptest.ResponseRecorder {
	t.Helper()
	return c.env.Request(http.MethodPatch, "/api/assignments/"+id+"/status", map[string]string{"status": status}, token)
}

func TestAssignmentLifecycle(t *testing.T) {
	c := newClassroom(t)

	w := c.env.Request(http.MethodPost, "/api/assignments", map[string]any{"title": "Essay"}, c.student)
	require.Equal(t, http.StatusForbidden, w.Code)

	assignment := c.createAssignment(t)
	require.Equal(t, "DRAFT", assignment.Status)

	// drafts are hidden from students
	w = c.env.Request(http.MethodGet, "/api/assignments/"+assignment.ID, nil, c.student)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = c.env.Request(http.MethodGet, "/api/assignments/"+assignment.ID, nil, c.other)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, http.StatusForbidden, c.setStatus(t, assignment.ID, "PUBLISHED", c.other).Code)
	require.Equal(t, http.StatusOK, c.setStatus(t, assignment.ID, "PUBLISHED", c.teacher).Code)

	w = c.env.Request(http.MethodGet, "/api/assignments/"+assignment.ID, nil, c.student)
	require.Equal(t, http.StatusOK, w.Code)

	back := c.setStatus(t, assignment.ID, "DRAFT", c.admin)
	require.Equal(t, http.StatusConflict, back.Code)
	require.Equal(t, "ASSIGNMENT_INVALID_TRANSITION", testutil.ErrorCode(t, back))

	w = c.env.Request(http.MethodGet, "/api/assignments/does-not-exist", nil, c.admin)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmissionFlow(t *testing.T) {
	c := newClassroom(t)
	assignment := c.createAssignment(t)

	w := c.env.Request(http.MethodPost, "/api/assignments/"+assignment.ID+"/submissions", map[string]string{"content": "1/2"}, c.student)
	require.Equal(t, http.StatusForbidden, w.Code, "draft assignments are not visible to students")

	require.Equal(t, http.StatusOK, c.setStatus(t, assignment.ID, "PUBLISHED", c.teacher).Code)

	w = c.env.Request(http.MethodPost, "/api/assignments/"+assignment.ID+"/submissions", map[string]string{"content": "1/2"}, c.student)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	submission := decode[models.Submission](t, w)
	require.Equal(t, models.SubmissionStatusSubmitted, submission.Status)

	path := "/api/submissions/" + submission.ID
	require.Equal(t, http.StatusOK, c.env.Request(http.MethodGet, path, nil, c.student).Code)
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodGet, path, nil, c.outsider).Code)
	require.Equal(t, http.StatusOK, c.env.Request(http.MethodGet, path, nil, c.other).Code)

	grade := map[string]any{"score": 90, "feedback": "good"}
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodPost, path+"/grade", grade, c.other).Code)
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodPost, path+"/grade", grade, c.student).Code)

	tooHigh := c.env.Request(http.MethodPost, path+"/grade", map[string]any{"score": 101}, c.teacher)
	require.Equal(t, http.StatusBadRequest, tooHigh.Code)
	require.Equal(t, "SUBMISSION_SCORE_OUT_OF_RANGE", testutil.ErrorCode(t, tooHigh))

	w = c.env.Request(http.MethodPost, path+"/grade", grade, c.teacher)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	graded := decode[models.Submission](t, w)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.NotNil(t, graded.Score)
	require.Equal(t, 90, *graded.Score)

	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodDelete, path, nil, c.teacher).Code)
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodDelete, path, nil, c.outsider).Code)
	require.Equal(t, http.StatusOK, c.env.Request(http.MethodDelete, path, nil, c.student).Code)
	require.Equal(t, http.StatusNotFound, c.env.Request(http.MethodGet, path, nil, c.admin).Code)
}

func TestFileAccess(t *testing.T) {
	c := newClassroom(t)
	assignment := c.createAssignment(t)

	attach := map[string]any{"assignment_id": assignment.ID, "file_path": "/uploads/worksheet.pdf", "file_size": 1024, "mime_type": "application/pdf"}
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodPost, "/api/files", attach, c.other).Code)
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodPost, "/api/files", attach, c.student).Code)

	w := c.env.Request(http.MethodPost, "/api/files", attach, c.teacher)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	file := decode[models.AssignmentFile](t, w)
	require.Equal(t, "worksheet.pdf", file.FileName)

	path := "/api/files/" + file.ID

	// students see files once the owning assignment is published
	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodGet, path, nil, c.student).Code)
	require.Equal(t, http.StatusOK, c.setStatus(t, assignment.ID, "PUBLISHED", c.teacher).Code)
	require.Equal(t, http.StatusOK, c.env.Request(http.MethodGet, path, nil, c.student).Code)

	require.Equal(t, http.StatusForbidden, c.env.Request(http.MethodDelete, path, nil, c.other).Code)
	require.Equal(t, http.StatusOK, c.env.Request(http.MethodDelete, path, nil, c.teacher).Code)
	require.Equal(t, http.StatusNotFound, c.env.Request(http.MethodGet, path, nil, c.admin).Code)

	missing := map[string]any{"assignment_id": "missing", "file_path": "/uploads/x.pdf"}
	w = c.env.Request(http.MethodPost, "/api/files", missing, c.admin)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "ASSIGNMENT_NOT_FOUND", testutil.ErrorCode(t, w))
}

func TestHealthAndMetrics(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "homework_api_latency_seconds")

	w = env.Request(http.MethodGet, "/nope", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "NOT_FOUND", testutil.ErrorCode(t, w))
}
