package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/limansoft/liman_backend/config"
	"github.com/limansoft/liman_backend/models"
	"github.com/limansoft/liman_backend/sgk"
	"github.com/limansoft/liman_backend/utils"
	"github.com/limansoft/liman_backend/workflow"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// httpStatusForCode maps the stable error codes to HTTP statuses.
var httpStatusForCode = map[string]int{
	"INVALID_PERIOD":       http.StatusBadRequest,
	"FILE_TOO_LARGE":       http.StatusBadRequest,
	"STALE_PERIOD":         http.StatusConflict,
	"PERIOD_MISMATCH":      http.StatusConflict,
	"ROSTER_UNAVAILABLE":   http.StatusServiceUnavailable,
	"STORAGE_WRITE_FAILED": http.StatusServiceUnavailable,
}

func respondError(c *gin.Context, err error) {
	var coded *utils.CodedError
	if errors.As(err, &coded) {
		status, ok := httpStatusForCode[coded.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			logServerError(c, coded.Code, err)
		}
		c.JSON(status, gin.H{"error": gin.H{"code": coded.Code, "message": coded.Message}})
		return
	}
	logServerError(c, "INTERNAL_SERVER_ERROR", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{
		"code":    "INTERNAL_SERVER_ERROR",
		"message": "unexpected error",
	}})
}

func logServerError(c *gin.Context, code string, err error) {
	cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	config.GetLogger().WithFields(logrus.Fields{
		"code":           code,
		"correlation_id": cid,
		"path":           c.Request.URL.Path,
	}).Error(err.Error())
}

func firmFromContext(c *gin.Context) (*models.Firm, bool) {
	firmId, ok := utils.GetFirmIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	firm, err := models.GetFirmById(c.Request.Context(), firmId)
	if err != nil || !firm.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return firm, true
}

func uploadSgkPeriodCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		firm, ok := firmFromContext(c)
		if !ok {
			return
		}

		period := c.PostForm("period")
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		// Reject oversized bodies before buffering them.
		if fileHeader.Size > utils.SgkMaxFileSizeBytes() {
			respondError(c, utils.ErrFileTooLarge)
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file could not be read"})
			return
		}
		defer src.Close()
		pdf, err := io.ReadAll(src)
		if err != nil {
			config.LogError(logger, "portal_sgk.go", "uploadSgkPeriodCheckHandler", "reading multipart file", firm.ID, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "file could not be read"})
			return
		}

		var uploadedBy *int
		if userId, ok := utils.GetPortalUserIdFromContext(c.Request.Context()); ok {
			uploadedBy = &userId
		}

		result, err := workflow.IngestSgkListing(c.Request.Context(), firm, period, pdf, uploadedBy, workflow.DefaultIngestDeps())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

type periodCheckListQuery struct {
	Period string `form:"period" binding:"omitempty,sgkperiod"`
	Page   string `form:"page"`
	Limit  string `form:"limit"`
}

func listSgkPeriodChecksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		firm, ok := firmFromContext(c)
		if !ok {
			return
		}

		var query periodCheckListQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			respondError(c, utils.ErrInvalidPeriod)
			return
		}
		periodCode := ""
		if query.Period != "" {
			periodCode, _ = sgk.NormalizePeriod(query.Period)
		}

		p := models.PaginationFromQuery(query.Page, query.Limit)
		checks, total, err := models.PaginatePeriodChecks(c.Request.Context(), firm.ID, periodCode, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":  checks,
			"total": total,
			"page":  p.Page,
			"limit": p.Limit,
		})
	}
}

func exportSgkPeriodChecksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		firm, ok := firmFromContext(c)
		if !ok {
			return
		}

		checks, _, err := models.PaginatePeriodChecks(c.Request.Context(), firm.ID, "", models.Pagination{Page: 1, Limit: 1000})
		if err != nil {
			respondError(c, err)
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)
		headers := []string{"Dönem", "Durum", "Yüklenme Tarihi", "Eşleşen", "Eksik", "Fazla", "Dosya"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		for row, check := range checks {
			values := []interface{}{
				sgk.FormatPeriod(check.PeriodCode),
				string(check.Status),
				check.UploadedAt.Format("2006-01-02 15:04"),
				check.MatchedEmployeeCount,
				check.MissingEmployeeCount,
				check.ExtraInSgkCount,
				check.StorageKey,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		fileName := fmt.Sprintf("sgk-donem-kontrolleri-%s.xlsx", time.Now().Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+fileName)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			config.LogError(logger, "portal_sgk.go", "exportSgkPeriodChecksHandler", "writing xlsx", firm.ID, err)
		}
	}
}

func employeeSgkStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		firm, ok := firmFromContext(c)
		if !ok {
			return
		}

		employeeId, err := strconv.Atoi(c.Param("id"))
		if err != nil || employeeId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id"})
			return
		}

		refDate := time.Now()
		if dateStr := c.Query("date"); dateStr != "" {
			parsed, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			refDate = parsed
		}

		emp, err := models.GetPortalEmployee(c.Request.Context(), employeeId, firm.ID)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
				return
			}
			respondError(c, err)
			return
		}

		status, activePeriod, err := models.EmployeeSgkStatus(c.Request.Context(), sgk.DefaultHolidayOracle(), emp, refDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       status,
			"activePeriod": activePeriod,
		})
	}
}

func latestCurrencyRateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := firmFromContext(c); !ok {
			return
		}

		code := c.DefaultQuery("currency", "USD")
		rate, err := models.LatestCurrencyRate(c.Request.Context(), code)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no rate found for " + code})
			return
		}
		c.JSON(http.StatusOK, rate)
	}
}
