package controllers

import (
	"bytes"
	"net/http"

	"hotel-manager/services"
	"hotel-manager/utils"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(svc *services.ReportService) *ReportController {
	return &ReportController{Reports: svc}
}

func (ctrl *ReportController) Dashboard(c *gin.Context) {
	d, err := ctrl.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, d)
}

// ExportBookings answers with bookings.csv as an attachment.
func (ctrl *ReportController) ExportBookings(c *gin.Context) {
	// buffer first so a failed query still gets a JSON error instead of half a file
	var buf bytes.Buffer
	if _, err := ctrl.Reports.ExportBookings(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
