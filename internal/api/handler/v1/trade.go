package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/api/handler/v1/request"
	"papertrade/internal/api/handler/v1/response"
	"papertrade/internal/api/middleware"
	"papertrade/internal/domain"
	"papertrade/internal/service"
)

type TradeService interface {
	Quote(ctx context.Context, symbol string) (domain.Quote, error)
	Buy(ctx context.Context, accountID uint, symbol string, shares int64) (domain.Transaction, error)
	Sell(ctx context.Context, accountID uint, symbol string, shares int64) (domain.Transaction, error)
	Portfolio(ctx context.Context, accountID uint) (domain.Portfolio, error)
	History(ctx context.Context, accountID uint) ([]domain.Transaction, error)
	Audit(ctx context.Context, accountID uint) (domain.AuditReport, error)
}

type TradeHandler struct {
	svc TradeService
}

func NewTradeHandler(svc TradeService) *TradeHandler {
	return &TradeHandler{
		svc: svc,
	}
}

// HandleGetQuote godoc
// @Summary      Get a live quote for a stock symbol
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        symbol   path       string true "stock symbol"
// @Success      200      {object}   domain.Quote
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /quotes/{symbol} [get]
func (h *TradeHandler) HandleGetQuote(ctx *gin.Context) {
	quote, err := h.svc.Quote(ctx.Request.Context(), ctx.Param("symbol"))
	if err != nil {
		if errors.Is(err, service.ErrSymbolNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrSymbolNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetQuote -> h.svc.Quote -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, quote)
}

// HandleBuy godoc
// @Summary      Buy shares at the current quoted price
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.TradeRequest true "request body"
// @Success      201      {object}   domain.Transaction
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /trades/buy [post]
func (h *TradeHandler) HandleBuy(ctx *gin.Context) {
	h.handleTrade(ctx, h.svc.Buy)
}

// HandleSell godoc
// @Summary      Sell shares at the current quoted price
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        request   body      request.TradeRequest true "request body"
// @Success      201      {object}   domain.Transaction
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /trades/sell [post]
func (h *TradeHandler) HandleSell(ctx *gin.Context) {
	h.handleTrade(ctx, h.svc.Sell)
}

func (h *TradeHandler) handleTrade(ctx *gin.Context, settle func(context.Context, uint, string, int64) (domain.Transaction, error)) {
	var req request.TradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	transaction, err := settle(ctx.Request.Context(), getAccountID(ctx), req.Symbol, req.Shares)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidShares):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrSymbolNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrInsufficientFunds),
			errors.Is(err, service.ErrInsufficientShares):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("v1.handleTrade -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, transaction)
}

// HandleGetPortfolio godoc
// @Summary      Get the portfolio priced at live quotes
// @Tags         portfolio
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.Portfolio
// @Failure      500      {object}   response.Err
// @Router       /portfolio [get]
func (h *TradeHandler) HandleGetPortfolio(ctx *gin.Context) {
	portfolio, err := h.svc.Portfolio(ctx.Request.Context(), getAccountID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPortfolio -> h.svc.Portfolio -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, portfolio)
}

// HandleGetTransactions godoc
// @Summary      Get the transaction history, newest first
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200      {array}    domain.Transaction
// @Failure      500      {object}   response.Err
// @Router       /transactions [get]
func (h *TradeHandler) HandleGetTransactions(ctx *gin.Context) {
	transactions, err := h.svc.History(ctx.Request.Context(), getAccountID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTransactions -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, transactions)
}

// HandleAuditLedger godoc
// @Summary      Replay the transaction log and report any drift
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.AuditReport
// @Failure      500      {object}   response.Err
// @Router       /ledger/audit [get]
func (h *TradeHandler) HandleAuditLedger(ctx *gin.Context) {
	report, err := h.svc.Audit(ctx.Request.Context(), getAccountID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.HandleAuditLedger -> h.svc.Audit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}

func getAccountID(ctx *gin.Context) uint {
	return ctx.GetUint(middleware.ContextKeyAccountID)
}
