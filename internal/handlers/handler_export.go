package handlers

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

var (
	trialBalanceCSVHeader = []string{"code", "name", "type", "debit", "credit"}
	transactionsCSVHeader = []string{"date", "transaction_id", "type", "description", "reference", "line", "account_code", "account_name", "debit", "credit"}
)

// exportHandler streams reports and the journal as CSV.
type exportHandler struct {
	journalService   portssvc.JournalReaderSvc
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// registerExportRoutes registers the CSV export routes. Extra handlers, such as a
// dedicated rate limiter, run before every export.
func registerExportRoutes(rg *gin.RouterGroup, journalService portssvc.JournalReaderSvc, reportingService portssvc.ReportingService, extra ...gin.HandlerFunc) {
	h := &exportHandler{journalService: journalService, reportingService: reportingService, now: time.Now}

	exports := rg.Group("/exports", extra...)
	{
		exports.GET("/trial-balance.csv", h.exportTrialBalance)
		exports.GET("/transactions.csv", h.exportTransactions)
	}
}

// exportTrialBalance godoc
// @Summary Export trial balance as CSV
// @Description Trial balance as of a date with a closing TOTAL row
// @Tags exports
// @Produce text/csv
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to export trial balance"
// @Security BearerAuth
// @Router /exports/trial-balance.csv [get]
func (h *exportHandler) exportTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}
	asOf, ok := parseAsOf(c, logger, h.now)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		writeError(c, logger, err, "Failed to export trial balance")
		return
	}

	records := make([][]string, 0, len(report.Accounts)+2)
	records = append(records, trialBalanceCSVHeader)
	for _, row := range report.Accounts {
		records = append(records, []string{
			row.Code,
			row.Name,
			string(row.AccountType),
			row.Debit.StringFixed(2),
			row.Credit.StringFixed(2),
		})
	}
	records = append(records, []string{"TOTAL", "", "", report.Totals.Debit.StringFixed(2), report.Totals.Credit.StringFixed(2)})

	writeCSV(c, logger, fmt.Sprintf("trial-balance-%s.csv", asOf.Format(dto.DateLayout)), records)
}

// exportTransactions godoc
// @Summary Export transactions as CSV
// @Description One row per journal entry of every matching transaction
// @Tags exports
// @Produce text/csv
// @Param type query string false "Transaction type"
// @Param startDate query string false "Earliest date (YYYY-MM-DD)"
// @Param endDate query string false "Latest date, inclusive (YYYY-MM-DD)"
// @Param accountId query string false "Only transactions touching this account"
// @Param search query string false "Substring of description or reference"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to export transactions"
// @Security BearerAuth
// @Router /exports/transactions.csv [get]
func (h *exportHandler) exportTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ExportTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	filter, err := params.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Exports always cover the whole result set.
	filter.Limit = 0
	filter.NextToken = ""

	txns, _, err := h.journalService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, logger, err, "Failed to export transactions")
		return
	}

	records := [][]string{transactionsCSVHeader}
	for _, txn := range txns {
		records = append(records, transactionRecords(txn)...)
	}

	logger.Info("Transactions exported", slog.Int("transaction_count", len(txns)))
	writeCSV(c, logger, "transactions.csv", records)
}

func transactionRecords(txn domain.Transaction) [][]string {
	records := make([][]string, 0, len(txn.Entries))
	for _, e := range txn.Entries {
		var code, name string
		if e.Account != nil {
			code, name = e.Account.Code, e.Account.Name
		}
		records = append(records, []string{
			txn.Date.Format(dto.DateLayout),
			txn.TransactionID,
			string(txn.Type),
			txn.Description,
			txn.Reference,
			strconv.Itoa(e.LineNo),
			code,
			name,
			e.Debit.StringFixed(2),
			e.Credit.StringFixed(2),
		})
	}
	return records
}

func writeCSV(c *gin.Context, logger *slog.Logger, filename string, records [][]string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.WriteAll(records); err != nil {
		// Headers are already sent.
		logger.Error("Failed to write CSV export", slog.String("filename", filename), slog.String("error", err.Error()))
	}
}
