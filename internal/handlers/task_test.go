package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
	alice   *models.User
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = testutil.NewDB(suite.T())
	store := repository.NewStore(suite.db)
	suite.handler = NewTaskHandler(
		services.NewTaskService(store, auth.TaskPolicy{}),
		services.NewDashboardService(store, 0),
	)
	suite.alice = testutil.CreateUser(suite.T(), suite.db, "alice", models.RoleMember)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

// createAuthContext builds a context as if RequireAuth and RequireIDParam had run
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, paramID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyActor, &auth.Actor{ID: suite.alice.ID, Username: suite.alice.Username, Role: suite.alice.Role})
	if paramID != 0 {
		c.Set(constants.ContextKeyParamID, paramID)
	}
	return c, w
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Write docs",
		"priority":    "high",
		"dueDate":     "2024-06-01",
		"tags":        []string{"docs"},
		"assigneeIds": []uint64{suite.alice.ID},
	})
	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", body, 0)

	suite.handler.CreateTask(c)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TaskDetailDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Write docs", resp.Title)
	suite.Equal(models.TaskStatusPending, resp.Status)
	suite.Equal(models.TaskPriorityHigh, resp.Priority)
	suite.Equal("2024-06-01", *resp.DueDate)
	suite.Len(resp.Assignees, 1)
	suite.Len(resp.History, 1)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Validation() {
	for _, payload := range []string{
		`{"description":"no title"}`,
		`{"title":"x","status":"done"}`,
		`{"title":"x","dueDate":"someday"}`,
		`{"title":"x","assigneeIds":[999]}`,
	} {
		c, w := suite.createAuthContext(http.MethodPost, "/api/tasks", []byte(payload), 0)
		suite.handler.CreateTask(c)
		suite.Equal(http.StatusBadRequest, w.Code, payload)
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks_FiltersAndPagination() {
	bob := testutil.CreateUser(suite.T(), suite.db, "bob", models.RoleMember)
	first := testutil.CreateTask(suite.T(), suite.db, "first", suite.alice.ID)
	testutil.CreateTask(suite.T(), suite.db, "second", bob.ID)
	testutil.Assign(suite.T(), suite.db, first.ID, bob.ID)

	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks", nil, 0)
	suite.handler.ListTasks(c)
	suite.Equal(http.StatusOK, w.Code)
	var all []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &all))
	suite.Len(all, 2)
	suite.Empty(w.Header().Get(constants.HeaderTotalCount))

	c, w = suite.createAuthContext(http.MethodGet, "/api/tasks?assigneeId="+itoa(bob.ID), nil, 0)
	suite.handler.ListTasks(c)
	var assigned []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &assigned))
	suite.Require().Len(assigned, 1)
	suite.Equal("first", assigned[0].Title)

	c, w = suite.createAuthContext(http.MethodGet, "/api/tasks?page=1&limit=1", nil, 0)
	suite.handler.ListTasks(c)
	var page []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page, 1)
	suite.Equal("2", w.Header().Get(constants.HeaderTotalCount))

	c, w = suite.createAuthContext(http.MethodGet, "/api/tasks?creatorId=abc", nil, 0)
	suite.handler.ListTasks(c)
	suite.Equal(http.StatusBadRequest, w.Code)

	c, w = suite.createAuthContext(http.MethodGet, "/api/tasks?status=done", nil, 0)
	suite.handler.ListTasks(c)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialAndClear() {
	task := testutil.CreateTask(suite.T(), suite.db, "Task", suite.alice.ID)
	testutil.Assign(suite.T(), suite.db, task.ID, suite.alice.ID)

	body := []byte(`{"status":"completed","completedDate":"2024-02-03","assigneeIds":[]}`)
	c, w := suite.createAuthContext(http.MethodPut, "/api/tasks/1", body, task.ID)
	suite.handler.UpdateTask(c)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.TaskDetailDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Task", resp.Title)
	suite.Equal(models.TaskStatusCompleted, resp.Status)
	suite.Equal("2024-02-03", *resp.CompletedDate)
	suite.Empty(resp.Assignees)

	c, w = suite.createAuthContext(http.MethodPut, "/api/tasks/1", []byte(`{"title":null}`), task.ID)
	suite.handler.UpdateTask(c)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks/42", nil, 42)
	suite.handler.GetTask(c)
	suite.Equal(http.StatusNotFound, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "NOT_FOUND")
}

func (suite *TaskHandlerTestSuite) TestAddComment() {
	task := testutil.CreateTask(suite.T(), suite.db, "Task", suite.alice.ID)

	c, w := suite.createAuthContext(http.MethodPost, "/api/tasks/1/comments", []byte(`{"content":"LGTM"}`), task.ID)
	suite.handler.AddComment(c)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.CommentDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("LGTM", resp.Content)
	suite.Require().NotNil(resp.User)
	suite.Equal("alice", resp.User.Username)

	c, w = suite.createAuthContext(http.MethodPost, "/api/tasks/1/comments", []byte(`{"content":"   "}`), task.ID)
	suite.handler.AddComment(c)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := testutil.CreateTask(suite.T(), suite.db, "Task", suite.alice.ID)

	c, w := suite.createAuthContext(http.MethodDelete, "/api/tasks/1", nil, task.ID)
	suite.handler.DeleteTask(c)
	suite.Equal(http.StatusOK, w.Code)

	c, w = suite.createAuthContext(http.MethodDelete, "/api/tasks/1", nil, task.ID)
	suite.handler.DeleteTask(c)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetDashboard() {
	done := testutil.CreateTask(suite.T(), suite.db, "done", suite.alice.ID)
	testutil.CreateTask(suite.T(), suite.db, "open", suite.alice.ID)
	suite.Require().NoError(suite.db.Model(&models.Task{}).Where("id = ?", done.ID).
		Update("status", models.TaskStatusCompleted).Error)

	c, w := suite.createAuthContext(http.MethodGet, "/api/tasks/dashboard?recent=1", nil, 0)
	suite.handler.GetDashboard(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.DashboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.Total)
	suite.Equal(50, resp.CompletionRate)
	suite.Len(resp.RecentTasks, 1)

	c, w = suite.createAuthContext(http.MethodGet, "/api/tasks/dashboard?recent=-1", nil, 0)
	suite.handler.GetDashboard(c)
	suite.Equal(http.StatusBadRequest, w.Code)
}
