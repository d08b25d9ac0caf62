package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/notebook-api/internal/dto"
	"github.com/noah-isme/notebook-api/internal/middleware"
	"github.com/noah-isme/notebook-api/internal/models"
)

type fakeHomeSrv struct {
	resp   *dto.StudentHomeResponse
	cached bool
	err    error
	lastID string
}

func (f *fakeHomeSrv) Home(_ context.Context, studentID string) (*dto.StudentHomeResponse, bool, error) {
	f.lastID = studentID
	return f.resp, f.cached, f.err
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func TestStudentHomeRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(&fakeHomeSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/stu-1/home", nil)

	h.StudentHome(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStudentHomeStudentCannotReadOthers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(&fakeHomeSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/stu-2/home", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-2"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	h.StudentHome(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStudentHomeSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeHomeSrv{
		resp:   &dto.StudentHomeResponse{StudentID: "stu-1", StudentName: "Ana Petrova"},
		cached: true,
	}
	h := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/stu-1/home", nil)
	c.Params = gin.Params{{Key: "id", Value: "stu-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher})

	h.StudentHome(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", srv.lastID)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cached"])
	assert.Equal(t, "Ana Petrova", envelope.Data["student_name"])
}
