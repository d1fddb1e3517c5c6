package balance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

// Defaults are used when neither the request nor the user's settings pick a value.
type Defaults struct {
	DisplayCurrency string
	ConversionMode  entity.ConversionMode
}

// GetGroupBalancesInput represents the input for computing a group's balances.
type GetGroupBalancesInput struct {
	GroupID         uuid.UUID
	UserID          uuid.UUID
	DisplayCurrency string // Optional, overrides the user's setting
	ConversionMode  string // Optional, overrides the user's setting
	SelfFirst       bool
	IncludePersonal bool
}

// GetGroupBalancesOutput represents the output of computing a group's balances.
type GetGroupBalancesOutput struct {
	Summary *entity.BalanceSummary
}

// GetGroupBalancesUseCase loads a group's data and builds its balance summary.
type GetGroupBalancesUseCase struct {
	groupRepo    adapter.GroupRepository
	expenseRepo  adapter.ExpenseRepository
	userRepo     adapter.UserRepository
	categoryRepo adapter.CategoryRepository
	summarizer   *Summarizer
	metrics      adapter.BalanceMetrics
	defaults     Defaults
}

// NewGetGroupBalancesUseCase creates a new GetGroupBalancesUseCase instance.
// metrics may be nil.
func NewGetGroupBalancesUseCase(
	groupRepo adapter.GroupRepository,
	expenseRepo adapter.ExpenseRepository,
	userRepo adapter.UserRepository,
	categoryRepo adapter.CategoryRepository,
	summarizer *Summarizer,
	metrics adapter.BalanceMetrics,
	defaults Defaults,
) *GetGroupBalancesUseCase {
	return &GetGroupBalancesUseCase{
		groupRepo:    groupRepo,
		expenseRepo:  expenseRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		summarizer:   summarizer,
		metrics:      metrics,
		defaults:     defaults,
	}
}

// Execute computes the balance summary for the requested group.
func (uc *GetGroupBalancesUseCase) Execute(ctx context.Context, input GetGroupBalancesInput) (*GetGroupBalancesOutput, error) {
	isMember, err := uc.groupRepo.IsUserMemberOfGroup(ctx, input.GroupID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeNotGroupMember,
			"you are not a member of this group",
			domainerror.ErrNotGroupMember,
		)
	}

	group, err := uc.groupRepo.FindGroupByID(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, domainerror.NewGroupError(
			domainerror.ErrCodeGroupNotFound,
			"group not found",
			domainerror.ErrGroupNotFound,
		)
	}

	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	currency, mode := uc.resolveSettings(input, user)

	members, err := uc.groupRepo.FindMembersByGroupID(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}

	expenses, err := uc.expenseRepo.ListByGroup(ctx, input.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group expenses: %w", err)
	}

	var personal []*entity.Expense
	if input.IncludePersonal {
		personal, err = uc.expenseRepo.ListPersonalByUser(ctx, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get personal expenses: %w", err)
		}
	}

	names, err := uc.categoryNames(ctx, expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	start := time.Now()
	summary, err := uc.summarizer.Summarize(ctx, SummaryInput{
		Group:            group,
		Expenses:         expenses,
		Members:          members,
		PersonalExpenses: personal,
		CategoryNames:    names,
		DisplayCurrency:  currency,
		Mode:             mode,
		CurrentUserID:    input.UserID,
		SelfFirst:        input.SelfFirst,
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ObserveSummary(mode, time.Since(start), summary.ConversionStats, summary.Issues)
	}
	for _, issue := range summary.Issues {
		attrs := []any{"group_id", group.ID, "code", issue.Code, "kind", issue.Kind, "message", issue.Message}
		if issue.ExpenseID != nil {
			attrs = append(attrs, "expense_id", *issue.ExpenseID)
		}
		slog.WarnContext(ctx, "Balance computation issue", attrs...)
	}

	return &GetGroupBalancesOutput{Summary: summary}, nil
}

// resolveSettings picks the display currency and mode: request first, then the
// user's settings, then the configured defaults.
func (uc *GetGroupBalancesUseCase) resolveSettings(input GetGroupBalancesInput, user *entity.User) (string, entity.ConversionMode) {
	currency := strings.TrimSpace(input.DisplayCurrency)
	mode := entity.ConversionMode(strings.ToLower(strings.TrimSpace(input.ConversionMode)))

	if currency == "" && user != nil {
		currency = user.DisplayCurrency
	}
	if currency == "" {
		currency = uc.defaults.DisplayCurrency
	}

	if mode == "" && user != nil {
		mode = user.ConversionMode
	}
	if mode == "" {
		mode = uc.defaults.ConversionMode
	}

	return currency, mode
}

func (uc *GetGroupBalancesUseCase) categoryNames(ctx context.Context, expenses []*entity.Expense) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, exp := range expenses {
		if exp.CategoryID == nil {
			continue
		}
		if _, ok := seen[*exp.CategoryID]; ok {
			continue
		}
		seen[*exp.CategoryID] = struct{}{}
		ids = append(ids, *exp.CategoryID)
	}

	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 || uc.categoryRepo == nil {
		return names, nil
	}

	categories, err := uc.categoryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
