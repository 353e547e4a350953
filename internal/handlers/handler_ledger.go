package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves balance queries and balance maintenance.
type ledgerHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newLedgerHandler(bs portssvc.BalanceSvcFacade) *ledgerHandler {
	return &ledgerHandler{balanceService: bs}
}

// registerLedgerRoutes attaches balance routes to the account and entry groups
// and registers the maintenance routes under /admin/balances.
func registerLedgerRoutes(rg, accounts, entries *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newLedgerHandler(balanceService)

	accounts.GET("/:accountID/balances", h.listAccountBalances)
	accounts.GET("/:accountID/balances/:currencyID", h.getBalance)

	entries.POST("/:entryID/apply", h.applyEntry)

	admin := rg.Group("/admin/balances")
	{
		admin.POST("/recompute", h.recomputeBalances)
		admin.GET("/verify", h.verifyBalances)
		admin.POST("/apply-pending", h.applyPending)
	}
}

// listAccountBalances godoc
// @Summary List the balances of an account
// @Description Returns the materialized balance of the account in every currency it holds
// @Tags balances
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Success 200 {object} dto.ListAccountBalancesResponse
// @Failure 400 {object} map[string]string "Invalid account ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list balances"
// @Security BearerAuth
// @Router /accounts/{accountID}/balances [get]
func (h *ledgerHandler) listAccountBalances(c *gin.Context) {
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}

	balances, err := h.balanceService.ListAccountBalances(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to list balances")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountBalancesResponse{
		AccountID: accountID,
		Balances:  dto.ToAccountBalanceResponses(balances),
	})
}

// getBalance godoc
// @Summary Get an account balance in one currency
// @Description Without asOf the materialized balance is returned; with asOf it is summed from entries dated on or before that day
// @Tags balances
// @Produce  json
// @Param   accountID path int true "Account ID"
// @Param   currencyID path int true "Currency ID"
// @Param   asOf query string false "Historical date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or currency not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Security BearerAuth
// @Router /accounts/{accountID}/balances/{currencyID} [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := int64Param(c, "accountID")
	if !ok {
		return
	}
	currencyID, ok := int64Param(c, "currencyID")
	if !ok {
		return
	}

	var params dto.GetBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res := dto.AccountBalanceResponse{AccountID: accountID, CurrencyID: currencyID}
	if params.AsOf == "" {
		balance, err := h.balanceService.GetBalance(c.Request.Context(), accountID, currencyID)
		if err != nil {
			respondError(c, err, "Failed to retrieve balance")
			return
		}
		res.Balance = balance
	} else {
		asOf, err := time.Parse(time.DateOnly, params.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be YYYY-MM-DD"})
			return
		}
		balance, err := h.balanceService.GetBalanceAsOf(c.Request.Context(), accountID, currencyID, asOf)
		if err != nil {
			respondError(c, err, "Failed to retrieve balance")
			return
		}
		res.Balance = balance
		res.AsOfDate = &asOf
	}
	c.JSON(http.StatusOK, res)
}

// applyEntry godoc
// @Summary Apply the balances of a posted entry
// @Description Idempotent: applied is false when the entry was already reflected in the balances
// @Tags balances
// @Produce  json
// @Param   entryID path int true "Journal entry ID"
// @Success 200 {object} dto.ApplyEntryResponse
// @Failure 400 {object} map[string]string "Invalid entry ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to apply entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/apply [post]
func (h *ledgerHandler) applyEntry(c *gin.Context) {
	entryID, ok := int64Param(c, "entryID")
	if !ok {
		return
	}

	applied, err := h.balanceService.ApplyEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "Failed to apply entry")
		return
	}
	c.JSON(http.StatusOK, dto.ApplyEntryResponse{EntryID: entryID, Applied: applied})
}

// applyPending godoc
// @Summary Apply every entry whose balances were never applied
// @Tags admin
// @Accept  json
// @Produce  json
// @Param   request body dto.ApplyPendingRequest false "Maximum number of entries"
// @Success 200 {object} dto.ApplyPendingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to apply pending entries"
// @Security BearerAuth
// @Router /admin/balances/apply-pending [post]
func (h *ledgerHandler) applyPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApplyPendingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ApplyPending", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	applied, err := h.balanceService.ApplyPendingEntries(c.Request.Context(), req.Limit)
	if err != nil {
		respondError(c, err, "Failed to apply pending entries")
		return
	}
	c.JSON(http.StatusOK, dto.ApplyPendingResponse{Applied: applied})
}

// recomputeBalances godoc
// @Summary Rebuild every account balance from the journal lines
// @Description Blocks postings while it runs
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.RecomputeBalancesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to recompute balances"
// @Security BearerAuth
// @Router /admin/balances/recompute [post]
func (h *ledgerHandler) recomputeBalances(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	result, err := h.balanceService.RecomputeBalances(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to recompute balances")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Balances recomputed",
		slog.String("requested_by", userID),
		slog.Int64("inserted", result.Inserted))
	c.JSON(http.StatusOK, dto.RecomputeBalancesResponse{
		Deleted:    result.Deleted,
		Inserted:   result.Inserted,
		DurationMs: result.Duration.Milliseconds(),
	})
}

// verifyBalances godoc
// @Summary Compare account balances with the journal lines
// @Tags admin
// @Produce  json
// @Success 200 {object} dto.VerifyBalancesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to verify balances"
// @Security BearerAuth
// @Router /admin/balances/verify [get]
func (h *ledgerHandler) verifyBalances(c *gin.Context) {
	drifts, err := h.balanceService.VerifyBalances(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to verify balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToVerifyBalancesResponse(drifts))
}
