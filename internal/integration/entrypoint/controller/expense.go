package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/usecase/expense"
	domainerror "github.com/groupledger/backend/internal/domain/error"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
)

// ExpenseController handles group and personal expense endpoints.
type ExpenseController struct {
	createUseCase         *expense.CreateGroupExpenseUseCase
	createPersonalUseCase *expense.CreatePersonalExpenseUseCase
	listUseCase           *expense.ListGroupExpensesUseCase
	deleteUseCase         *expense.DeleteGroupExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	createUseCase *expense.CreateGroupExpenseUseCase,
	createPersonalUseCase *expense.CreatePersonalExpenseUseCase,
	listUseCase *expense.ListGroupExpensesUseCase,
	deleteUseCase *expense.DeleteGroupExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		createUseCase:         createUseCase,
		createPersonalUseCase: createPersonalUseCase,
		listUseCase:           listUseCase,
		deleteUseCase:         deleteUseCase,
	}
}

// Create handles POST /groups/:id/expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeExpenseInvalidFields))
		return
	}

	// Binding already validated the UUID and date formats.
	date, _ := dto.ParseDate(req.Date)
	input := expense.CreateGroupExpenseInput{
		GroupID:     groupID,
		UserID:      userID,
		PayerID:     optionalUUID(req.PayerID),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Date:        date,
		Description: req.Description,
		CategoryID:  optionalUUID(req.CategoryID),
	}
	for _, s := range req.Splits {
		input.Splits = append(input.Splits, expense.SplitInput{
			UserID: uuid.MustParse(s.UserID),
			Amount: s.Amount,
		})
	}
	for _, id := range req.SplitEqually {
		input.SplitEqually = append(input.SplitEqually, uuid.MustParse(id))
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

// List handles GET /groups/:id/expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), expense.ListGroupExpensesInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output.Expenses))
}

// Delete handles DELETE /groups/:id/expenses/:expenseId requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", "group")
	if !ok {
		return
	}
	expenseID, ok := pathUUID(ctx, "expenseId", "expense")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteGroupExpenseInput{
		GroupID:   groupID,
		ExpenseID: expenseID,
		UserID:    userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CreatePersonal handles POST /expenses/personal requests.
func (c *ExpenseController) CreatePersonal(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreatePersonalExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, string(domainerror.ErrCodeExpenseInvalidFields))
		return
	}

	date, _ := dto.ParseDate(req.Date)
	output, err := c.createPersonalUseCase.Execute(ctx.Request.Context(), expense.CreatePersonalExpenseInput{
		UserID:      userID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Date:        date,
		Description: req.Description,
		CategoryID:  optionalUUID(req.CategoryID),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

func optionalUUID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil
	}
	return &id
}
