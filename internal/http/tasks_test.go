package http

import (
	"net/http"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/filmlog/internal/tasks"
)

func TestTasksController_ListTaskTypes(t *testing.T) {
	app := newTestApp(t)

	w := performRequest(app.router, http.MethodGet, "/api/tasks", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		TaskTypes []TaskTypeInfo `json:"task_types"`
	}](w)
	require.Len(t, resp.TaskTypes, 2)
	assert.Equal(t, "seed_catalog", resp.TaskTypes[0].Type)
	assert.Contains(t, resp.TaskTypes[1].Description, "30 days")
}

func TestTasksController_RunTask(t *testing.T) {
	app := newTestApp(t)

	w := performRequest(app.router, http.MethodPost, "/api/tasks/cleanup_audit_events/run", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = performRequest(app.router, http.MethodPost, "/api/tasks/seed_catalog/run", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, app.queue.enqueued, 2)
	assert.Equal(t, tasks.CleanupAuditEventsTask{RetentionDays: 30}, app.queue.enqueued[0])
	assert.Equal(t, tasks.SeedCatalogTask{}, app.queue.enqueued[1])
}

func TestTasksController_RunUnknownTask(t *testing.T) {
	app := newTestApp(t)

	w := performRequest(app.router, http.MethodPost, "/api/tasks/import_letterboxd/run", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, app.queue.enqueued)
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	app := newTestApp(t)
	app.queue.statuses["task-9"] = backlite.TaskStatusRunning

	w := performRequest(app.router, http.MethodGet, "/api/tasks/task-9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", decode[map[string]string](w)["status"])

	w = performRequest(app.router, http.MethodGet, "/api/tasks/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
