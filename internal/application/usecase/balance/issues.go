package balance

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/groupledger/backend/internal/domain/entity"
	domainerror "github.com/groupledger/backend/internal/domain/error"
)

var (
	errNoProvider      = errors.New("no exchange rate provider configured")
	errRateUnavailable = errors.New("exchange rate unavailable")
)

// issueCollector accumulates computation issues in the order they are found.
type issueCollector struct {
	issues []entity.ComputationIssue
}

func (c *issueCollector) add(kind entity.IssueKind, code domainerror.BalanceErrorCode, expenseID *uuid.UUID, format string, args ...any) {
	var id *uuid.UUID
	if expenseID != nil {
		v := *expenseID
		id = &v
	}
	c.issues = append(c.issues, entity.ComputationIssue{
		Kind:      kind,
		Code:      string(code),
		ExpenseID: id,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (c *issueCollector) invalid(expenseID uuid.UUID, code domainerror.BalanceErrorCode, format string, args ...any) {
	c.add(entity.IssueInvalidInput, code, &expenseID, format, args...)
}

func (c *issueCollector) inconsistent(expenseID *uuid.UUID, code domainerror.BalanceErrorCode, format string, args ...any) {
	c.add(entity.IssueDataInconsistency, code, expenseID, format, args...)
}

func (c *issueCollector) unconverted(expenseID uuid.UUID, from, to string, cause error) {
	msg := "no exchange rate from %s to %s, original amount used"
	args := []any{from, to}
	if cause != nil {
		msg += ": %v"
		args = append(args, cause)
	}
	c.add(entity.IssueConversionUnavailable, domainerror.ErrCodeConversionUnavailable, &expenseID, msg, args...)
}

func (c *issueCollector) has(code domainerror.BalanceErrorCode) bool {
	for _, issue := range c.issues {
		if issue.Code == string(code) {
			return true
		}
	}
	return false
}
