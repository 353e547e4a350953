package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	balanceService portssvc.BalanceQuerySvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(bs portssvc.BalanceQuerySvc) *reportingHandler {
	return &reportingHandler{
		balanceService: bs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceQuerySvc) {
	h := newReportingHandler(balanceService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Lists the non-zero balances of one currency split into debit and credit columns
// @Tags reports
// @Produce json
// @Param currencyID query int true "Currency ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Currency not found"
// @Failure 500 {object} map[string]string "Failed to generate trial balance"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for TrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tb, err := h.balanceService.TrialBalance(c.Request.Context(), params.CurrencyID)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}

	logger.Info("Trial balance generated", slog.Int64("currency_id", params.CurrencyID), slog.Int("rows", len(tb.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
