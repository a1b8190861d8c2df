package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
	"github.com/khedma/sunday-school-backend/internal/timewindow"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the audit log and exported reports.
type ReportHandler struct {
	reportService *service.ReportService
	auditService  *service.AuditService
	resolver      *timewindow.Resolver
	clock         timewindow.Clock
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, auditService *service.AuditService, resolver *timewindow.Resolver, clock timewindow.Clock) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService, resolver: resolver, clock: clock}
}

// ListLogs godoc
// GET /api/v1/logs?q=&action=&entity_type=
// Returns the newest audit entries first.
func (h *ReportHandler) ListLogs(c *gin.Context) {
	filter := model.AuditFilter{
		Q:          c.Query("q"),
		Action:     model.AuditAction(c.Query("action")),
		EntityType: c.Query("entity_type"),
	}

	logs, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logs": logs})
}

// BalancesXLSX godoc
// GET /api/v1/reports/balances.xlsx?class_id=
// Streams a workbook of student balances, optionally for one class.
func (h *ReportHandler) BalancesXLSX(c *gin.Context) {
	classID, ok := queryID(c, "class_id")
	if !ok {
		return
	}

	rows, err := h.reportService.Balances(c.Request.Context(), classID)
	if err != nil {
		failWith(c, err)
		return
	}

	// Render fully before writing headers so a failure still gets a JSON error.
	var buf bytes.Buffer
	if err := h.reportService.WriteBalancesXLSX(&buf, rows); err != nil {
		failWith(c, err)
		return
	}

	filename := fmt.Sprintf("balances-%s.xlsx", h.resolver.CivilDate(h.clock.Now()))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
