package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/filmlog/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	client          TaskQueue
	auditRetainDays int
}

// NewTasksController creates a new TasksController. auditRetentionDays is
// the window used by manually triggered audit cleanups.
func NewTasksController(client TaskQueue, auditRetentionDays int) *TasksController {
	return &TasksController{client: client, auditRetainDays: auditRetentionDays}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ListTaskTypes handles GET /api/tasks
// Returns the task types that can be triggered manually.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        tasks.SeedCatalogTask{}.Config().Name,
			Description: "Fill the movie catalog from TMDB trending, now playing, upcoming, popular and top rated lists",
		},
		{
			Type:        tasks.CleanupAuditEventsTask{}.Config().Name,
			Description: fmt.Sprintf("Delete audit events older than %d days", tc.retentionDays()),
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "get task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondNotFound(c, "task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
// Letterboxd imports are started through /api/import/letterboxd so they get a run id.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var task backlite.Task
	switch taskType {
	case tasks.SeedCatalogTask{}.Config().Name:
		task = tasks.SeedCatalogTask{}
	case tasks.CleanupAuditEventsTask{}.Config().Name:
		task = tasks.CleanupAuditEventsTask{RetentionDays: tc.retentionDays()}
	default:
		respondBadRequest(c, "unknown task type: "+taskType)
		return
	}

	taskID, err := tc.client.Enqueue(task)
	if err != nil {
		respondInternalError(c, err, "enqueue "+taskType)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task_id": taskID,
		"type":    taskType,
		"message": "task enqueued",
	})
}

func (tc *TasksController) retentionDays() int {
	if tc.auditRetainDays > 0 {
		return tc.auditRetainDays
	}
	return tasks.DefaultAuditRetentionDays
}
