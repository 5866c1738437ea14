package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/database/sync"
	"github.com/mrlokans/filmlog/internal/importers"
	"github.com/mrlokans/filmlog/internal/tasks"
)

// ImportRequest is the optional body of POST /api/import/letterboxd.
// An empty username falls back to the one saved in settings.
type ImportRequest struct {
	Username string `json:"username" form:"username" binding:"max=100"`
}

// ImportResponse reports a finished synchronous import.
type ImportResponse struct {
	RunID string `json:"run_id"`
	importers.ImportResult
}

type LetterboxdImportController struct {
	importer LetterboxdImporter
	runs     RunStore
	tasks    TaskQueue
}

// NewLetterboxdImportController creates the controller. taskQueue may be nil,
// in which case only synchronous imports are available.
func NewLetterboxdImportController(importer LetterboxdImporter, runs RunStore, taskQueue TaskQueue) *LetterboxdImportController {
	return &LetterboxdImportController{importer: importer, runs: runs, tasks: taskQueue}
}

// Import handles POST /api/import/letterboxd
// Runs the import inside the request, or with ?async=true enqueues it and
// returns the run id to poll.
func (ic *LetterboxdImportController) Import(c *gin.Context) {
	var req ImportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	async := c.Query("async") == "true"
	if async && ic.tasks == nil {
		respondBadRequest(c, "task queue is not enabled")
		return
	}

	userID := GetUserID(c)
	handle, err := ic.importer.ResolveHandle(userID, req.Username)
	if errors.Is(err, importers.ErrNoHandle) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "no_username"})
		return
	}
	if err != nil {
		respondInternalError(c, err, "resolve Letterboxd username")
		return
	}

	runID, err := ic.importer.BeginRun(userID)
	if errors.Is(err, importers.ErrImportRunning) {
		respondConflict(c, "import_running", err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "start Letterboxd import")
		return
	}

	if async {
		ic.enqueue(c, runID, userID, handle)
		return
	}

	result := ic.importer.ExecuteRun(c.Request.Context(), runID, userID, handle, nil)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, ImportResponse{RunID: runID, ImportResult: result})
}

func (ic *LetterboxdImportController) enqueue(c *gin.Context, runID, userID, handle string) {
	taskID, err := ic.tasks.Enqueue(tasks.ImportLetterboxdTask{RunID: runID, UserID: userID, Handle: handle})
	if err != nil {
		if cerr := ic.runs.CompleteRun(runID, false, nil, "failed to enqueue import"); cerr != nil {
			log.Printf("Letterboxd import: failed to close run %s: %v", runID, cerr)
		}
		respondInternalError(c, err, "enqueue Letterboxd import")
		return
	}

	log.Printf("Enqueued Letterboxd import for user %s as task %s (run %s)", userID, taskID, runID)
	respondAccepted(c, "import started", gin.H{
		"run_id":  runID,
		"task_id": taskID,
	})
}

// GetRun handles GET /api/import/letterboxd/runs/:id
// Runs of other users are reported as missing.
func (ic *LetterboxdImportController) GetRun(c *gin.Context) {
	run, err := ic.runs.GetRun(c.Param("id"))
	if errors.Is(err, sync.ErrRunNotFound) || (err == nil && run.UserID != GetUserID(c)) {
		respondNotFound(c, "run")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get import run")
		return
	}

	c.JSON(http.StatusOK, run)
}
