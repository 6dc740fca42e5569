package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/api/handler/v1/response"
	"papertrade/internal/domain"
	"papertrade/internal/service"
)

type AccountService interface {
	GetAccount(ctx context.Context, id uint) (domain.Account, error)
}

type AccountHandler struct {
	svc AccountService
}

func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}   domain.Account
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /accounts/me [get]
func (h *AccountHandler) HandleGetMe(ctx *gin.Context) {
	account, err := h.svc.GetAccount(ctx.Request.Context(), getAccountID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrAccountNotFound))
			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetAccount -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, account)
}
