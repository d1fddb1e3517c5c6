package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/usecase/category"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// categoryEndpoints lists and creates categories. The personal and the group
// routes differ only in the owner they pass.
type categoryEndpoints struct {
	list   *category.ListCategoriesUseCase
	create *category.CreateCategoryUseCase
}

func (e categoryEndpoints) respondList(ctx *gin.Context, input category.ListCategoriesInput) {
	categories, err := e.list.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToCategoryListResponse(categories))
}

func (e categoryEndpoints) respondCreate(ctx *gin.Context, ownerType entity.OwnerType, ownerID, requestBy uuid.UUID) {
	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeMissingCategoryFields))
		return
	}

	created, err := e.create.Execute(ctx.Request.Context(), category.CreateCategoryInput{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		OwnerType: ownerType,
		OwnerID:   ownerID,
		RequestBy: requestBy,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToCategoryResponse(created))
}

// CategoryController serves the caller's personal categories.
type CategoryController struct {
	categories categoryEndpoints
}

func NewCategoryController(
	listUseCase *category.ListCategoriesUseCase,
	createUseCase *category.CreateCategoryUseCase,
) *CategoryController {
	return &CategoryController{categories: categoryEndpoints{list: listUseCase, create: createUseCase}}
}

// List handles GET /categories.
func (c *CategoryController) List(ctx *gin.Context) {
	if userID, ok := currentUserID(ctx); ok {
		c.categories.respondList(ctx, category.ListCategoriesInput{UserID: userID})
	}
}

// Create handles POST /categories.
func (c *CategoryController) Create(ctx *gin.Context) {
	if userID, ok := currentUserID(ctx); ok {
		c.categories.respondCreate(ctx, entity.OwnerTypeUser, userID, userID)
	}
}
