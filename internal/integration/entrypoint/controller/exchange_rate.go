package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groupledger/backend/internal/application/usecase/exchangerate"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// ExchangeRateController handles manual rate entry and rate lookups.
type ExchangeRateController struct {
	recordUseCase *exchangerate.RecordRateUseCase
	getUseCase    *exchangerate.GetRateUseCase
}

// NewExchangeRateController creates a new exchange rate controller instance.
func NewExchangeRateController(
	recordUseCase *exchangerate.RecordRateUseCase,
	getUseCase *exchangerate.GetRateUseCase,
) *ExchangeRateController {
	return &ExchangeRateController{
		recordUseCase: recordUseCase,
		getUseCase:    getUseCase,
	}
}

// Record handles PUT /exchange-rates requests.
func (c *ExchangeRateController) Record(ctx *gin.Context) {
	var req dto.RecordRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeInvalidCurrencyPair))
		return
	}

	date, _ := dto.ParseDate(req.Date)
	rate, err := c.recordUseCase.Execute(ctx.Request.Context(), exchangerate.RecordRateInput{
		From: req.From,
		To:   req.To,
		Rate: req.Rate,
		Date: date,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// Get handles GET /exchange-rates requests.
func (c *ExchangeRateController) Get(ctx *gin.Context) {
	var query dto.RateQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeInvalidCurrencyPair))
		return
	}

	input := exchangerate.GetRateInput{From: query.From, To: query.To}
	if query.Date != "" {
		date, _ := dto.ParseDate(query.Date)
		input.Date = &date
	}

	rate, err := c.getUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
