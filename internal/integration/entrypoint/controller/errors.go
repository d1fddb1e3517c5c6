// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
	"github.com/groupledger/backend/internal/integration/entrypoint/middleware"
)

// handleError maps coded domain errors to HTTP responses.
// Anything without a code is logged and reported as an internal error.
func handleError(ctx *gin.Context, err error) {
	var (
		authErr     *domainerror.AuthError
		groupErr    *domainerror.GroupError
		expenseErr  *domainerror.ExpenseError
		balanceErr  *domainerror.BalanceError
		categoryErr *domainerror.CategoryError
		rateErr     *domainerror.ExchangeRateError
	)

	switch {
	case errors.As(err, &authErr):
		writeError(ctx, getStatusCodeForAuthError(authErr.Code), authErr.Message, string(authErr.Code))
	case errors.As(err, &groupErr):
		writeError(ctx, getStatusCodeForGroupError(groupErr.Code), groupErr.Message, string(groupErr.Code))
	case errors.As(err, &expenseErr):
		writeError(ctx, getStatusCodeForExpenseError(expenseErr.Code), expenseErr.Message, string(expenseErr.Code))
	case errors.As(err, &balanceErr):
		writeError(ctx, getStatusCodeForBalanceError(balanceErr.Code), balanceErr.Message, string(balanceErr.Code))
	case errors.As(err, &categoryErr):
		writeError(ctx, getStatusCodeForCategoryError(categoryErr.Code), categoryErr.Message, string(categoryErr.Code))
	case errors.As(err, &rateErr):
		writeError(ctx, getStatusCodeForExchangeRateError(rateErr.Code), rateErr.Message, string(rateErr.Code))
	default:
		slog.Error("Unhandled request error",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

func writeError(ctx *gin.Context, status int, message, code string) {
	ctx.JSON(status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeBindError reports a request that failed binding or validation.
func writeBindError(ctx *gin.Context, err error, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request",
		Code:    code,
		Details: err.Error(),
	})
}

// currentUserID returns the authenticated user or writes a 401.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a UUID path parameter or writes a 400.
func pathUUID(ctx *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func getStatusCodeForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeTermsNotAccepted,
		domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidPreferences:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeUserNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForGroupError(code domainerror.GroupErrorCode) int {
	switch code {
	case domainerror.ErrCodeGroupNotFound,
		domainerror.ErrCodeUserNotRegistered:
		return http.StatusNotFound
	case domainerror.ErrCodeUserAlreadyMember:
		return http.StatusConflict
	case domainerror.ErrCodeNotGroupAdmin,
		domainerror.ErrCodeNotGroupMember:
		return http.StatusForbidden
	case domainerror.ErrCodeGroupNameTooLong,
		domainerror.ErrCodeGroupNameRequired,
		domainerror.ErrCodeInvalidGroupEmail,
		domainerror.ErrCodeMissingGroupFields,
		domainerror.ErrCodeMemberIdentityRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForExpenseError(code domainerror.ExpenseErrorCode) int {
	switch code {
	case domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotExpenseOwner:
		return http.StatusForbidden
	case domainerror.ErrCodeExpenseInvalidAmount,
		domainerror.ErrCodeExpenseInvalidCurrency,
		domainerror.ErrCodeSplitsRequired,
		domainerror.ErrCodeExpenseSplitSum,
		domainerror.ErrCodeExpenseSplitNotMember,
		domainerror.ErrCodeDuplicateSplitUser,
		domainerror.ErrCodeExpenseNegativeShare,
		domainerror.ErrCodeExpenseInvalidFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForBalanceError(code domainerror.BalanceErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidDisplayCurrency,
		domainerror.ErrCodeInvalidConversionMode:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForCategoryError(code domainerror.CategoryErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryNameExists:
		return http.StatusConflict
	case domainerror.ErrCodeNotAuthorizedCategory:
		return http.StatusForbidden
	case domainerror.ErrCodeCategoryNameTooLong,
		domainerror.ErrCodeInvalidColorFormat,
		domainerror.ErrCodeInvalidOwnerType,
		domainerror.ErrCodeMissingCategoryFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func getStatusCodeForExchangeRateError(code domainerror.ExchangeRateErrorCode) int {
	switch code {
	case domainerror.ErrCodeRateNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidCurrencyPair,
		domainerror.ErrCodeInvalidRate:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
