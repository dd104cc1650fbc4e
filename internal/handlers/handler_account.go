package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/greenpoints/recycle_rewards_app/internal/core/ports/services"
	"github.com/greenpoints/recycle_rewards_app/internal/dto"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
)

// accountHandler handles HTTP requests related to resident accounts.
type accountHandler struct {
	accountService    portssvc.AccountSvcFacade
	ledgerService     portssvc.LedgerSvcFacade
	redemptionService portssvc.RedemptionSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade, rs portssvc.RedemptionSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:    as,
		ledgerService:     ls,
		redemptionService: rs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade, rs portssvc.RedemptionSvcFacade) {
	h := newAccountHandler(as, ls, rs)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.registerAccount)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getBalance)
		accounts.POST("/:id/approve", h.approveAccount)
		accounts.POST("/:id/reject", h.rejectAccount)
		accounts.POST("/:id/credit", h.credit)
		accounts.POST("/:id/debit", h.debit)
		accounts.GET("/:id/entries", h.listEntries)
		accounts.GET("/:id/redemptions", h.listRedemptions)
		accounts.GET("/:id/reconciliation", h.reconcile)
	}
}

// registerAccount godoc
// @Summary Register a new resident account
// @Description Creates a pending account, with a fresh household unless an existing one is joined
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.RegisterAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) registerAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.RegisterAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register account")
		return
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getBalance godoc
// @Summary Get the current point balance of an account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	balance, err := h.accountService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: balance})
}

// approveAccount godoc
// @Summary Approve a pending account
// @Description Approves the account and triggers referral bonus processing
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Account is rejected"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/approve [post]
func (h *accountHandler) approveAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.ApproveAccount(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// rejectAccount godoc
// @Summary Reject a pending account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Account is not pending"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/reject [post]
func (h *accountHandler) rejectAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.RejectAccount(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// credit godoc
// @Summary Credit points to an account
// @Description Adds points for a recycling drop-off and writes the ledger entry
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   change body dto.BalanceChangeRequest true "Credit details"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/credit [post]
func (h *accountHandler) credit(c *gin.Context) {
	h.applyChange(c, true)
}

// debit godoc
// @Summary Debit points from an account
// @Description Removes points, rejecting debits that exceed the balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   change body dto.BalanceChangeRequest true "Debit details"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /accounts/{id}/debit [post]
func (h *accountHandler) debit(c *gin.Context) {
	h.applyChange(c, false)
}

func (h *accountHandler) applyChange(c *gin.Context, isCredit bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.BalanceChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for balance change", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	apply := h.accountService.Debit
	if isCredit {
		apply = h.accountService.Credit
	}
	newBalance, err := apply(c.Request.Context(), accountID, req.Amount, req.Description, req.ReferenceID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to apply balance change")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{AccountID: accountID, Balance: newBalance})
}

// listEntries godoc
// @Summary List ledger entries for an account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/entries [get]
func (h *accountHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.ledgerService.ListEntriesByAccount(c.Request.Context(), c.Param("id"), params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToListLedgerEntryResponse(entries),
		NextToken: nextToken,
	})
}

// listRedemptions godoc
// @Summary List redemptions for an account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token"
// @Success 200 {array} dto.RedemptionResponse
// @Security BearerAuth
// @Router /accounts/{id}/redemptions [get]
func (h *accountHandler) listRedemptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	redemptions, nextToken, err := h.redemptionService.ListRedemptionsByAccount(c.Request.Context(), c.Param("id"), params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list redemptions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"redemptions": dto.ToListRedemptionResponse(redemptions),
		"nextToken":   nextToken,
	})
}

// reconcile godoc
// @Summary Reconcile an account's ledger against its balance
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/reconciliation [get]
func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	result, err := h.ledgerService.ReconcileAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile account")
		return
	}
	c.JSON(http.StatusOK, result)
}
