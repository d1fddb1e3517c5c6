package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groupledger/backend/internal/application/usecase/user"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// UserController handles profile and preference endpoints.
type UserController struct {
	getProfileUseCase        *user.GetProfileUseCase
	updatePreferencesUseCase *user.UpdatePreferencesUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	getProfileUseCase *user.GetProfileUseCase,
	updatePreferencesUseCase *user.UpdatePreferencesUseCase,
) *UserController {
	return &UserController{
		getProfileUseCase:        getProfileUseCase,
		updatePreferencesUseCase: updatePreferencesUseCase,
	}
}

// Me handles GET /users/me requests.
func (c *UserController) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	u, err := c.getProfileUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// UpdatePreferences handles PATCH /users/me/preferences requests.
func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeInvalidPreferences))
		return
	}

	u, err := c.updatePreferencesUseCase.Execute(ctx.Request.Context(), user.UpdatePreferencesInput{
		UserID:          userID,
		Name:            req.Name,
		DisplayCurrency: req.DisplayCurrency,
		ConversionMode:  req.ConversionMode,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}
