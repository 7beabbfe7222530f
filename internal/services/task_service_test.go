package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
)

type TaskServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	db      *gorm.DB
	store   repository.Store
	service *TaskService
	alice   *auth.Actor
	bob     *auth.Actor
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.store = repository.NewStore(s.db)
	s.service = NewTaskService(s.store, auth.TaskPolicy{})

	alice := testutil.CreateUser(s.T(), s.db, "alice", models.RoleMember)
	bob := testutil.CreateUser(s.T(), s.db, "bob", models.RoleMember)
	s.alice = &auth.Actor{ID: alice.ID, Username: alice.Username, Role: alice.Role}
	s.bob = &auth.Actor{ID: bob.ID, Username: bob.Username, Role: bob.Role}
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) historyCount(taskID uint64) int64 {
	var n int64
	s.Require().NoError(s.db.Model(&models.TaskHistory{}).Where("task_id = ?", taskID).Count(&n).Error)
	return n
}

func (s *TaskServiceTestSuite) TestCreate_RequiresTitle() {
	_, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "   "})
	s.ErrorIs(err, ErrTitleRequired)
	s.Equal(apierrors.KindValidation, apierrors.KindOf(err))

	var n int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&n).Error)
	s.Zero(n)
}

func (s *TaskServiceTestSuite) TestCreate_Defaults() {
	task, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{
		Title:       "Ship v1",
		Tags:        []string{"release"},
		AssigneeIDs: []uint64{s.bob.ID, s.bob.ID},
	})
	s.Require().NoError(err)

	s.Equal(models.TaskStatusPending, task.Status)
	s.Equal(models.TaskPriorityMedium, task.Priority)
	s.Require().NotNil(task.Creator)
	s.Equal("alice", task.Creator.Username)
	s.Require().Len(task.Assignees, 1)
	s.Equal(s.bob.ID, task.Assignees[0].UserID)
	s.Equal([]string{"release"}, []string(task.Tags))
	s.Require().Len(task.History, 1)
	s.Equal(models.HistoryActionCreated, task.History[0].Action)
	s.JSONEq(`{"title":"Ship v1"}`, string(task.History[0].Details))
}

func (s *TaskServiceTestSuite) TestCreate_RejectsUnknownReferences() {
	_, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "x", AssigneeIDs: []uint64{s.bob.ID, 999}})
	s.ErrorIs(err, ErrInvalidTaskAssignee)

	missing := uint64(999)
	_, err = s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "x", PaID: &missing})
	s.ErrorIs(err, ErrInvalidPA)

	_, err = s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "x", Status: "done"})
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.service.Create(s.ctx, nil, CreateTaskInput{Title: "x"})
	s.ErrorIs(err, auth.ErrUnauthenticated)

	var n int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&n).Error)
	s.Zero(n)
}

func (s *TaskServiceTestSuite) TestUpdate_PartialFieldsAndAssignees() {
	desc := "keep me"
	task, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{
		Title:       "Ship v1",
		Description: &desc,
		AssigneeIDs: []uint64{s.alice.ID, s.bob.ID},
	})
	s.Require().NoError(err)

	inProgress := models.TaskStatusInProgress
	updated, err := s.service.Update(s.ctx, s.bob, task.ID, UpdateTaskInput{
		Status:  &inProgress,
		DueDate: SetTo(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)),
		Changes: json.RawMessage(`{"status":"in_progress"}`),
	})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, updated.Status)
	s.Equal("Ship v1", updated.Title)
	s.Require().NotNil(updated.Description)
	s.Equal("keep me", *updated.Description)
	s.Len(updated.Assignees, 2, "absent assigneeIds leaves the set alone")
	s.Require().NotNil(updated.DueDate)
	s.Equal("2030-01-02", updated.DueDate.UTC().Format("2006-01-02"))
	s.EqualValues(2, s.historyCount(task.ID))
	s.JSONEq(`{"changes":{"status":"in_progress"}}`, string(updated.History[0].Details))

	empty := []uint64{}
	updated, err = s.service.Update(s.ctx, s.alice, task.ID, UpdateTaskInput{AssigneeIDs: &empty, Description: Clear[string]()})
	s.Require().NoError(err)
	s.Empty(updated.Assignees)
	s.Nil(updated.Description)

	updated, err = s.service.Update(s.ctx, s.alice, task.ID, UpdateTaskInput{AssigneeIDs: &empty})
	s.Require().NoError(err)
	s.Empty(updated.Assignees)
	s.EqualValues(4, s.historyCount(task.ID))
}

func (s *TaskServiceTestSuite) TestUpdate_AnyStatusTransition() {
	task, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "t", Status: models.TaskStatusCompleted})
	s.Require().NoError(err)

	pending := models.TaskStatusPending
	updated, err := s.service.Update(s.ctx, s.alice, task.ID, UpdateTaskInput{Status: &pending})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusPending, updated.Status)

	bogus := models.TaskStatus("archived")
	_, err = s.service.Update(s.ctx, s.alice, task.ID, UpdateTaskInput{Status: &bogus})
	s.ErrorIs(err, ErrInvalidStatus)

	blank := ""
	_, err = s.service.Update(s.ctx, s.alice, task.ID, UpdateTaskInput{Title: &blank})
	s.ErrorIs(err, ErrTitleRequired)
	s.EqualValues(2, s.historyCount(task.ID), "failed updates leave no history")
}

func (s *TaskServiceTestSuite) TestUpdate_NotFound() {
	title := "x"
	_, err := s.service.Update(s.ctx, s.alice, 4242, UpdateTaskInput{Title: &title})
	s.ErrorIs(err, ErrTaskNotFound)
	s.ErrorIs(s.service.Delete(s.ctx, s.alice, 4242), ErrTaskNotFound)
	_, err = s.service.AddComment(s.ctx, s.alice, 4242, "hi")
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestStrictOwnership() {
	strict := NewTaskService(s.store, auth.TaskPolicy{StrictOwnership: true})
	task, err := strict.Create(s.ctx, s.alice, CreateTaskInput{Title: "mine"})
	s.Require().NoError(err)

	title := "hijacked"
	_, err = strict.Update(s.ctx, s.bob, task.ID, UpdateTaskInput{Title: &title})
	s.ErrorIs(err, auth.ErrNotTaskMember)
	s.ErrorIs(strict.Delete(s.ctx, s.bob, task.ID), auth.ErrNotTaskMember)

	_, err = strict.AddComment(s.ctx, s.bob, task.ID, "comments stay open")
	s.NoError(err)

	root := testutil.CreateUser(s.T(), s.db, "root", models.RoleAdmin)
	admin := &auth.Actor{ID: root.ID, Username: root.Username, Role: root.Role}
	_, err = strict.Update(s.ctx, admin, task.ID, UpdateTaskInput{Title: &title})
	s.NoError(err)
}

func (s *TaskServiceTestSuite) TestAddComment() {
	task, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "t"})
	s.Require().NoError(err)

	_, err = s.service.AddComment(s.ctx, s.alice, task.ID, "  ")
	s.ErrorIs(err, ErrCommentEmpty)

	first, err := s.service.AddComment(s.ctx, s.alice, task.ID, "first")
	s.Require().NoError(err)
	s.Require().NotNil(first.User)
	s.Equal("alice", first.User.Username)
	_, err = s.service.AddComment(s.ctx, s.bob, task.ID, "LGTM")
	s.Require().NoError(err)

	detail, err := s.service.Get(s.ctx, task.ID)
	s.Require().NoError(err)
	s.Require().Len(detail.Comments, 2)
	s.Equal("LGTM", detail.Comments[0].Content)
}

func (s *TaskServiceTestSuite) TestDelete_Cascades() {
	task, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "t", AssigneeIDs: []uint64{s.bob.ID}})
	s.Require().NoError(err)
	_, err = s.service.AddComment(s.ctx, s.bob, task.ID, "bye")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, s.bob, task.ID))

	_, err = s.service.Get(s.ctx, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
	for _, model := range []interface{}{&models.TaskAssignee{}, &models.TaskComment{}, &models.TaskHistory{}} {
		var n int64
		s.Require().NoError(s.db.Model(model).Where("task_id = ?", task.ID).Count(&n).Error)
		s.Zero(n)
	}
}

func (s *TaskServiceTestSuite) TestList_Filters() {
	_, err := s.service.Create(s.ctx, s.alice, CreateTaskInput{Title: "a", Priority: models.TaskPriorityHigh})
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, s.bob, CreateTaskInput{Title: "b", AssigneeIDs: []uint64{s.alice.ID}})
	s.Require().NoError(err)

	tasks, total, err := s.service.List(s.ctx, ListTasksInput{})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Equal("b", tasks[0].Title)

	high := models.TaskPriorityHigh
	tasks, _, err = s.service.List(s.ctx, ListTasksInput{Priority: &high})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("a", tasks[0].Title)

	tasks, _, err = s.service.List(s.ctx, ListTasksInput{AssigneeID: &s.alice.ID})
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("b", tasks[0].Title)

	bad := models.TaskPriority("whenever")
	_, _, err = s.service.List(s.ctx, ListTasksInput{Priority: &bad})
	s.ErrorIs(err, ErrInvalidPriority)
}
