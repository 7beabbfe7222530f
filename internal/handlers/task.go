package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService      *services.TaskService
	dashboardService *services.DashboardService
}

func NewTaskHandler(taskService *services.TaskService, dashboardService *services.DashboardService) *TaskHandler {
	return &TaskHandler{
		taskService:      taskService,
		dashboardService: dashboardService,
	}
}

// ListTasks returns tasks newest first. Supports status, priority, creatorId
// and assigneeId filters and optional page/limit pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{
		Pagination: utils.GetPaginationParams(c),
	}

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}

	var ok bool
	if input.CreatorID, ok = queryID(c, "creatorId"); !ok {
		return
	}
	if input.AssigneeID, ok = queryID(c, "assigneeId"); !ok {
		return
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if input.Pagination.Enabled() {
		c.Header(constants.HeaderTotalCount, strconv.FormatInt(total, 10))
	}
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetDashboard returns aggregate task statistics
func (h *TaskHandler) GetDashboard(c *gin.Context) {
	recent := 0
	if raw := c.Query("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			apierrors.BadRequest(c, "recent must be a non-negative integer")
			return
		}
		recent = n
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), recent)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}

// GetTask returns a task with comments and history
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := requireParamID(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	input, err := req.ToCreateTaskInput()
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), actor, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskDetailDTO(*task))
}

// UpdateTask applies a partial update. Omitted fields are left unchanged and
// null clears optional fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := requireParamID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	input, err := dto.ParseUpdateTask(body)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task))
}

// DeleteTask deletes a task with its comments, assignees and history
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := requireParamID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), actor, id); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// AddComment appends a comment authored by the current user
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := requireParamID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// queryID parses an optional numeric query parameter, writing a 400 when malformed.
func queryID(c *gin.Context, key string) (*uint64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+key)
		return nil, false
	}
	return &id, true
}
