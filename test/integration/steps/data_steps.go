package steps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/integration/adapters"
	"github.com/groupledger/backend/internal/integration/persistence/model"
	"github.com/groupledger/backend/test/integration/mock"
)

const defaultPassword = "SecurePass123!"

func (t *testContext) aUserExistsWithEmail(email string) error {
	_, err := t.ensureUser(email, defaultPassword)
	return err
}

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	_, err := t.ensureUser(email, password)
	return err
}

// ensureUser creates the user unless one with the same email exists. The
// name is the local part of the email.
func (t *testContext) ensureUser(email, password string) (*model.UserModel, error) {
	var existing model.UserModel
	if err := t.db.DbConn.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.UserModel{
		ID:              uuid.New(),
		Email:           email,
		Name:            strings.Split(email, "@")[0],
		PasswordHash:    string(hash),
		DisplayCurrency: entity.DefaultDisplayCurrency,
		ConversionMode:  string(entity.ConversionModeSimple),
		TermsAcceptedAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := t.db.DbConn.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// iAmLoggedInAs switches the current user, creating it when needed.
func (t *testContext) iAmLoggedInAs(email string) error {
	user, err := t.ensureUser(email, defaultPassword)
	if err != nil {
		return err
	}

	tokens := adapters.NewTokenService(testJWTSecret, t.cfg.JWT.AccessTokenExpiry, t.cfg.JWT.RefreshTokenExpiry)
	pair, err := tokens.GenerateTokenPair(context.Background(), user.ID, user.Email, false)
	if err != nil {
		return fmt.Errorf("failed to generate tokens: %w", err)
	}

	t.currentUserID = user.ID
	t.accessToken = pair.AccessToken
	t.refreshToken = pair.RefreshToken
	return nil
}

func (t *testContext) theUserPrefers(email, currency, mode string) error {
	result := t.db.DbConn.Model(&model.UserModel{}).
		Where("email = ?", email).
		Updates(map[string]any{"display_currency": currency, "conversion_mode": mode})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s not found", email)
	}
	return nil
}

// aGroupExistsWithMembers creates a group as the current user. Members with
// an email are registered users added by email, the rest are shadow members.
func (t *testContext) aGroupExistsWithMembers(name, members string) error {
	var shadows, emails []string
	for _, m := range strings.Split(members, ",") {
		m = strings.TrimSpace(m)
		switch {
		case m == "":
		case strings.Contains(m, "@"):
			emails = append(emails, m)
		default:
			shadows = append(shadows, m)
		}
	}

	payload, _ := json.Marshal(map[string]any{"name": name, "shadow_members": shadows})
	if err := t.executeRequest(http.MethodPost, "/api/v1/groups", payload); err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("failed to create group: status %d (body: %v)", t.response.status, t.response.body)
	}

	for _, email := range emails {
		if _, err := t.ensureUser(email, defaultPassword); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]string{"email": email})
		path := fmt.Sprintf("/api/v1/groups/%s/members", t.currentGroupID)
		if err := t.executeRequest(http.MethodPost, path, payload); err != nil {
			return err
		}
		if t.response.status != http.StatusCreated {
			return fmt.Errorf("failed to add %s: status %d (body: %v)", email, t.response.status, t.response.body)
		}
	}
	return nil
}

// theRateAPIQuotes programs the historical endpoint of the rate API for one day.
func (t *testContext) theRateAPIQuotes(rate, from, to, date string) error {
	return t.quote("/"+date, rate, from, to, date)
}

// theRateAPIQuotesLatest programs the latest endpoint; date is the publication day reported.
func (t *testContext) theRateAPIQuotesLatest(rate, from, to, date string) error {
	return t.quote("/latest", rate, from, to, date)
}

func (t *testContext) quote(path, rate, from, to, date string) error {
	value, err := decimal.NewFromString(rate)
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	t.rateAPI.SetResponse(-1, http.MethodGet, path, http.StatusOK, map[string]any{
		"amount": 1,
		"base":   from,
		"date":   date,
		"rates":  map[string]any{to: value},
	})
	return nil
}

func (t *testContext) theRateAPIIsUnavailable() error {
	t.rateAPI.SetResponse(-1, http.MethodGet, "/*", http.StatusServiceUnavailable, map[string]any{"message": "unavailable"})
	return nil
}

func (t *testContext) aStoredRate(rate, from, to, date string) error {
	value, err := decimal.NewFromString(rate)
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return err
	}
	return t.db.DbConn.Create(&model.ExchangeRateModel{
		ID:           uuid.New(),
		FromCurrency: from,
		ToCurrency:   to,
		AsOf:         day,
		Rate:         value,
		Source:       entity.RateProviderStored,
		CreatedAt:    time.Now().UTC(),
	}).Error
}

func (t *testContext) theRateAPIShouldHaveReceived(quantity int, path string) error {
	if count := t.rateAPI.RequestCount(http.MethodGet, path); count != quantity {
		return fmt.Errorf("expected %d requests to %s, got %d", quantity, path, count)
	}
	return nil
}

func (t *testContext) theRateCacheShouldContain(quantity int) error {
	if keys := mock.RedisKeys(); len(keys) != quantity {
		return fmt.Errorf("expected %d cache entries, got %d: %v", quantity, len(keys), keys)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	tableModel, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(tableModel).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))
	entitySlicePtr.Elem().Set(reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if count := entitySlicePtr.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}
