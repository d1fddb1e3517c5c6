package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groupledger/backend/internal/application/usecase/balance"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// BalanceController serves computed group balances.
type BalanceController struct {
	getBalancesUseCase *balance.GetGroupBalancesUseCase
}

// NewBalanceController creates a new balance controller instance.
func NewBalanceController(getBalancesUseCase *balance.GetGroupBalancesUseCase) *BalanceController {
	return &BalanceController{
		getBalancesUseCase: getBalancesUseCase,
	}
}

// Get handles GET /groups/:id/balances requests.
func (c *BalanceController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}

	var query dto.BalanceQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeInvalidConversionMode))
		return
	}

	output, err := c.getBalancesUseCase.Execute(ctx.Request.Context(), balance.GetGroupBalancesInput{
		GroupID:         groupID,
		UserID:          userID,
		DisplayCurrency: query.Currency,
		ConversionMode:  query.Mode,
		SelfFirst:       query.SelfFirst,
		IncludePersonal: query.IncludePersonal,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(output.Summary))
}
