package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/filmlog/internal/entities"
)

type AuditController struct {
	events AuditReader
}

func NewAuditController(events AuditReader) *AuditController {
	return &AuditController{events: events}
}

// GetAuditEvents returns the caller's audit events, newest first.
// GET /api/audit?type=import&limit=25&offset=0
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	userID := GetUserID(c)
	limit, offset := parsePagination(c)

	var events []entities.AuditEvent
	var total int64
	var err error

	if eventType := c.Query("type"); eventType != "" {
		events, total, err = ac.events.GetEventsByType(entities.AuditEventType(eventType), userID, limit, offset)
	} else {
		events, total, err = ac.events.GetEvents(userID, limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "load audit events")
		return
	}

	respondPage(c, events, total, limit, offset)
}
