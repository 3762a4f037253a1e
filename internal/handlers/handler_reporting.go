package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	integrityService portssvc.IntegritySvc
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, is portssvc.IntegritySvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		integrityService: is,
		now:              time.Now,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceEngineSvc) {
	h := newReportingHandler(balanceService, balanceService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/integrity", h.getIntegrity)
	}
}

// parseAsOf reads the asOf query parameter as an inclusive end of day.
// It defaults to today.
func parseAsOf(c *gin.Context, logger *slog.Logger, now func() time.Time) (time.Time, bool) {
	asOfStr := c.DefaultQuery("asOf", now().UTC().Format(dto.DateLayout))
	asOf, err := dto.ParseDateBound(asOfStr, true)
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", asOfStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return *asOf, true
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists every account's net balance as of a date in debit and credit columns
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}
	asOf, ok := parseAsOf(c, logger, h.now)
	if !ok {
		return
	}

	logger = logger.With(slog.String("asOf", asOf.Format(dto.DateLayout)))
	logger.Info("Generating trial balance report")

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		writeError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Groups asset, liability and equity balances as of a date, including current earnings
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}
	asOf, ok := parseAsOf(c, logger, h.now)
	if !ok {
		return
	}

	logger = logger.With(slog.String("asOf", asOf.Format(dto.DateLayout)))
	logger.Info("Generating balance sheet report")

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		writeError(c, logger, err, "Failed to generate balance sheet report")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Compares revenue and expense activity of a period with a previous period
// @Tags reports
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date, inclusive (YYYY-MM-DD)"
// @Param previousStartDate query string false "Previous period start (YYYY-MM-DD)"
// @Param previousEndDate query string false "Previous period end (YYYY-MM-DD)"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ProfitAndLossParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ProfitAndLoss", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	current, ok := bindPeriod(c, params.StartDate, params.EndDate)
	if !ok {
		return
	}

	var previous *domain.Period
	switch {
	case params.PreviousStartDate != "" && params.PreviousEndDate != "":
		p, ok := bindPeriod(c, params.PreviousStartDate, params.PreviousEndDate)
		if !ok {
			return
		}
		previous = &p
	case params.PreviousStartDate != "" || params.PreviousEndDate != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "previousStartDate and previousEndDate must be given together"})
		return
	}

	logger = logger.With(
		slog.String("startDate", params.StartDate),
		slog.String("endDate", params.EndDate),
	)
	logger.Info("Generating profit and loss report")

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), current, previous)
	if err != nil {
		writeError(c, logger, err, "Failed to generate profit and loss report")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getIntegrity godoc
// @Summary Verify cached balances
// @Description Replays the journal and compares the result with every cached account balance
// @Tags reports
// @Produce json
// @Param accountId query []string false "Restrict the check to these accounts" collectionFormat(multi)
// @Success 200 {object} domain.IntegrityReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to verify balances"
// @Security BearerAuth
// @Router /reports/integrity [get]
func (h *reportingHandler) getIntegrity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var (
		report *domain.IntegrityReport
		err    error
	)
	if ids := c.QueryArray("accountId"); len(ids) > 0 {
		report, err = h.integrityService.VerifyBalances(c.Request.Context(), ids)
	} else {
		report, err = h.integrityService.VerifyAllBalances(c.Request.Context())
	}
	if err != nil {
		writeError(c, logger, err, "Failed to verify balances")
		return
	}

	if report.Discrepancies == nil {
		report.Discrepancies = []domain.BalanceDiscrepancy{}
	}
	c.JSON(http.StatusOK, report)
}

// bindPeriod parses an inclusive start/end pair of calendar dates.
func bindPeriod(c *gin.Context, start, end string) (domain.Period, bool) {
	s, err := dto.ParseDate(start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format. Use YYYY-MM-DD"})
		return domain.Period{}, false
	}
	e, err := dto.ParseDateBound(end, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format. Use YYYY-MM-DD"})
		return domain.Period{}, false
	}
	return domain.Period{Start: s, End: *e}, true
}
