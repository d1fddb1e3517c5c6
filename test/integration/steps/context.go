// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/groupledger/backend/config"
	"github.com/groupledger/backend/internal/infra/dependency"
	"github.com/groupledger/backend/internal/infra/metrics"
	"github.com/groupledger/backend/internal/integration/persistence/model"
	"github.com/groupledger/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// suite holds the resources shared by every scenario.
type suite struct {
	cfg      *config.Config
	db       *mock.Db
	rateAPI  *mock.ApiMock
	server   *httptest.Server
	injector *dependency.Injector
}

var shared *suite

type testContext struct {
	*suite
	client      *http.Client
	headers     map[string]string
	response    *response
	timeMock    *mock.Time
	accessToken string
	// refreshToken is the token of the last login or registration.
	refreshToken     string
	currentUserID    uuid.UUID
	currentGroupID   uuid.UUID
	currentExpenseID uuid.UUID
}

type response struct {
	status int
	body   any
}

// InitializeTestSuite starts the API against an in-memory database, an
// in-process Redis and a mocked exchange rate API.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		rateAPI := mock.NewApiServer()
		rateAPI.Start()

		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.JWT.Secret = testJWTSecret
		cfg.Auth.BcryptCost = bcrypt.MinCost
		cfg.ExchangeRate.BaseURL = rateAPI.GetUrl()
		cfg.ExchangeRate.RequestsPerSecond = 100
		cfg.ExchangeRate.CacheEnabled = true
		cfg.Balance.DefaultCurrency = "USD"
		cfg.Balance.DefaultConversionMode = "simple"

		db := mock.NewDb("groupledger", model.All()...)
		injector := dependency.NewInjector(cfg, db.DbConn, mock.NewRedis(), metrics.NewPrometheus())

		shared = &suite{
			cfg:      cfg,
			db:       db,
			rateAPI:  rateAPI,
			server:   httptest.NewServer(injector.Router.Setup(cfg.Server.Environment)),
			injector: injector,
		}
	})

	ctx.AfterSuite(func() {
		if shared == nil {
			return
		}
		shared.server.Close()
		shared.rateAPI.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	t := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, t.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, t.theAPIServerIsRunning)
	ctx.Given(`^today is "([^"]*)"$`, t.todayIs)

	// User setup steps
	ctx.Given(`^a user exists with email "([^"]*)"$`, t.aUserExistsWithEmail)
	ctx.Given(`^a user exists with email "([^"]*)" and password "([^"]*)"$`, t.aUserExistsWithEmailAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)"$`, t.iAmLoggedInAs)
	ctx.Given(`^the user "([^"]*)" prefers "([^"]*)" in "([^"]*)" mode$`, t.theUserPrefers)

	// Group setup steps
	ctx.Given(`^a group "([^"]*)" exists with members "([^"]*)"$`, t.aGroupExistsWithMembers)

	// Exchange rate steps
	ctx.Given(`^the exchange rate API quotes "([^"]*)" from "([^"]*)" to "([^"]*)" on "([^"]*)"$`, t.theRateAPIQuotes)
	ctx.Given(`^the exchange rate API quotes "([^"]*)" from "([^"]*)" to "([^"]*)" as latest on "([^"]*)"$`, t.theRateAPIQuotesLatest)
	ctx.Given(`^the exchange rate API is unavailable$`, t.theRateAPIIsUnavailable)
	ctx.Given(`^a stored rate of "([^"]*)" from "([^"]*)" to "([^"]*)" on "([^"]*)"$`, t.aStoredRate)

	// Header steps
	ctx.Given(`^the header is empty$`, t.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, t.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, t.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, t.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, t.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, t.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, t.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, t.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, t.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, t.theResponseFieldShouldHaveItems)

	// Database and cache assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, t.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, t.theDbShouldContainObjectsInWithTheValues)
	ctx.Then(`^the exchange rate API should have received (\d+) requests? for "([^"]*)"$`, t.theRateAPIShouldHaveReceived)
	ctx.Then(`^the rate cache should contain (\d+) entr(?:y|ies)$`, t.theRateCacheShouldContain)
}

func (t *testContext) before() error {
	t.suite = shared
	t.headers = make(map[string]string)
	t.response = nil
	t.timeMock = mock.NewTime()
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = uuid.Nil
	t.currentGroupID = uuid.Nil
	t.currentExpenseID = uuid.Nil

	t.rateAPI.Reset()
	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return err
	}
	return t.db.ClearDB()
}

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errUnexpectedStatus(resp.StatusCode)
	}
	return nil
}

func (t *testContext) todayIs(date string) error {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return err
	}
	t.timeMock.SetCurrentTime(day)
	return nil
}
