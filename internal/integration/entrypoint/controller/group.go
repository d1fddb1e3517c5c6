package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groupledger/backend/internal/application/usecase/category"
	"github.com/groupledger/backend/internal/application/usecase/group"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// GroupController handles group and group category endpoints.
type GroupController struct {
	createUseCase    *group.CreateGroupUseCase
	listUseCase      *group.ListGroupsUseCase
	getUseCase       *group.GetGroupUseCase
	addMemberUseCase *group.AddMemberUseCase
	categories       categoryEndpoints
}

// NewGroupController creates a new group controller instance.
func NewGroupController(
	createUseCase *group.CreateGroupUseCase,
	listUseCase *group.ListGroupsUseCase,
	getUseCase *group.GetGroupUseCase,
	addMemberUseCase *group.AddMemberUseCase,
	listCategoriesUseCase *category.ListCategoriesUseCase,
	createCategoryUseCase *category.CreateCategoryUseCase,
) *GroupController {
	return &GroupController{
		createUseCase:    createUseCase,
		listUseCase:      listUseCase,
		getUseCase:       getUseCase,
		addMemberUseCase: addMemberUseCase,
		categories:       categoryEndpoints{list: listCategoriesUseCase, create: createCategoryUseCase},
	}
}

// Create handles POST /groups requests.
func (c *GroupController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeMissingGroupFields))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), group.CreateGroupInput{
		Name:          req.Name,
		UserID:        userID,
		ShadowMembers: req.ShadowMembers,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGroupResponse(output.Group, output.Members))
}

// List handles GET /groups requests.
func (c *GroupController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), group.ListGroupsInput{UserID: userID})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupListResponse(output.Groups))
}

// Get handles GET /groups/:id requests.
func (c *GroupController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), group.GetGroupInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupDetailResponse(output.Group, output.Members, output.UserRole))
}

// AddMember handles POST /groups/:id/members requests.
func (c *GroupController) AddMember(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeMissingGroupFields))
		return
	}

	output, err := c.addMemberUseCase.Execute(ctx.Request.Context(), group.AddMemberInput{
		GroupID:   groupID,
		RequestBy: userID,
		Email:     req.Email,
		Name:      req.Name,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGroupMemberResponse(output.Member))
}

// ListCategories handles GET /groups/:id/categories. The caller's personal
// categories come first.
func (c *GroupController) ListCategories(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}
	c.categories.respondList(ctx, category.ListCategoriesInput{UserID: userID, GroupID: &groupID})
}

// CreateCategory handles POST /groups/:id/categories.
func (c *GroupController) CreateCategory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}
	c.categories.respondCreate(ctx, entity.OwnerTypeGroup, groupID, userID)
}
