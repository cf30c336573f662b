package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models/reports"
)

func rentRollReportHandler(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")

	if format == "json" {
		rows, err := reports.GetRentRollReport(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=rent-roll.xlsx")
	if err := reports.WriteRentRollExcel(c.Request.Context(), c.Writer); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "reports.go", "rentRollReportHandler", "WriteRentRollExcel", nil, err)
		c.Status(http.StatusInternalServerError)
	}
}
