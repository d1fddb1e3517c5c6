// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/groupledger/backend/config"
	"github.com/groupledger/backend/internal/application/adapter"
	"github.com/groupledger/backend/internal/application/usecase/auth"
	"github.com/groupledger/backend/internal/application/usecase/balance"
	"github.com/groupledger/backend/internal/application/usecase/category"
	"github.com/groupledger/backend/internal/application/usecase/exchangerate"
	"github.com/groupledger/backend/internal/application/usecase/expense"
	"github.com/groupledger/backend/internal/application/usecase/group"
	"github.com/groupledger/backend/internal/application/usecase/user"
	"github.com/groupledger/backend/internal/domain/entity"
	"github.com/groupledger/backend/internal/domain/valueobject"
	"github.com/groupledger/backend/internal/infra/cache"
	database "github.com/groupledger/backend/internal/infra/db"
	"github.com/groupledger/backend/internal/infra/metrics"
	"github.com/groupledger/backend/internal/infra/server/router"
	"github.com/groupledger/backend/internal/integration/adapters"
	"github.com/groupledger/backend/internal/integration/entrypoint/controller"
	"github.com/groupledger/backend/internal/integration/entrypoint/middleware"
	"github.com/groupledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Metrics      *metrics.Prometheus
	RateProvider adapter.ExchangeRateProvider
	Router       *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case rates are not cached.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, promMetrics *metrics.Prometheus) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	groupRepo := persistence.NewGroupRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	rateRepo := persistence.NewExchangeRateRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Auth.BcryptCost)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	rateProvider := NewRateProvider(cfg.ExchangeRate, rateRepo, redisClient, promMetrics)

	// Create auth and user use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	getProfileUseCase := user.NewGetProfileUseCase(userRepo)
	updatePreferencesUseCase := user.NewUpdatePreferencesUseCase(userRepo)

	// Create group and category use cases
	createGroupUseCase := group.NewCreateGroupUseCase(groupRepo, userRepo)
	listGroupsUseCase := group.NewListGroupsUseCase(groupRepo)
	getGroupUseCase := group.NewGetGroupUseCase(groupRepo)
	addMemberUseCase := group.NewAddMemberUseCase(groupRepo, userRepo)
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo, groupRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo, groupRepo)

	// Create expense use cases
	createExpenseUseCase := expense.NewCreateGroupExpenseUseCase(expenseRepo, groupRepo)
	createPersonalExpenseUseCase := expense.NewCreatePersonalExpenseUseCase(expenseRepo)
	listExpensesUseCase := expense.NewListGroupExpensesUseCase(expenseRepo, groupRepo)
	deleteExpenseUseCase := expense.NewDeleteGroupExpenseUseCase(expenseRepo, groupRepo)

	// Create balance engine
	summarizer := balance.NewSummarizer(
		balance.NewAggregator(
			balance.NewResolver(rateProvider, cfg.Balance.LookupTimeout),
			cfg.Balance.LookupConcurrency,
		),
	)
	getBalancesUseCase := balance.NewGetGroupBalancesUseCase(
		groupRepo,
		expenseRepo,
		userRepo,
		categoryRepo,
		summarizer,
		promMetrics,
		BalanceDefaults(cfg.Balance),
	)

	// Create exchange rate use cases
	recordRateUseCase := exchangerate.NewRecordRateUseCase(rateRepo)
	getRateUseCase := exchangerate.NewGetRateUseCase(rateProvider)

	// Create controllers
	var cacheHealthChecker func() bool
	if redisClient != nil {
		cacheHealthChecker = func() bool { return cache.HealthCheck(redisClient) }
	}
	healthController := controller.NewHealthController(database.NewDatabase(db).HealthCheck, cacheHealthChecker)

	authController := controller.NewAuthController(registerUseCase, loginUseCase, refreshTokenUseCase)
	userController := controller.NewUserController(getProfileUseCase, updatePreferencesUseCase)
	groupController := controller.NewGroupController(
		createGroupUseCase,
		listGroupsUseCase,
		getGroupUseCase,
		addMemberUseCase,
		listCategoriesUseCase,
		createCategoryUseCase,
	)
	expenseController := controller.NewExpenseController(
		createExpenseUseCase,
		createPersonalExpenseUseCase,
		listExpensesUseCase,
		deleteExpenseUseCase,
	)
	balanceController := controller.NewBalanceController(getBalancesUseCase)
	categoryController := controller.NewCategoryController(listCategoriesUseCase, createCategoryUseCase)
	exchangeRateController := controller.NewExchangeRateController(recordRateUseCase, getRateUseCase)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.IsTest() {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		userController,
		groupController,
		expenseController,
		balanceController,
		categoryController,
		exchangeRateController,
		promMetrics.Handler(),
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Metrics:      promMetrics,
		RateProvider: rateProvider,
		Router:       r,
	}
}

// NewRateProvider builds the exchange rate lookup chain: the external API
// (behind the Redis cache when a client is given) first, stored rates second.
// An empty base URL disables the external API.
func NewRateProvider(
	cfg config.ExchangeRateConfig,
	stored adapter.ExchangeRateProvider,
	redisClient *redis.Client,
	observer adapter.BalanceMetrics,
) adapter.ExchangeRateProvider {
	if cfg.BaseURL == "" {
		slog.Info("External exchange rate API disabled, using stored rates only")
		return stored
	}

	var api adapter.ExchangeRateProvider = adapters.NewHTTPRateProvider(
		adapters.WithRateBaseURL(cfg.BaseURL),
		adapters.WithRateTimeout(cfg.Timeout),
		adapters.WithRequestsPerSecond(cfg.RequestsPerSecond),
		adapters.WithRateMetrics(observer),
	)
	if redisClient != nil && cfg.CacheEnabled {
		api = adapters.NewCachedRateProvider(api, redisClient, cfg.LatestTTL, cfg.HistoricalTTL, observer)
	}

	return adapters.NewChainRateProvider(api, stored)
}

// BalanceDefaults converts configured defaults, falling back to USD and simple mode.
func BalanceDefaults(cfg config.BalanceConfig) balance.Defaults {
	defaults := balance.Defaults{
		DisplayCurrency: entity.DefaultDisplayCurrency,
		ConversionMode:  entity.ConversionModeSimple,
	}

	if code, ok := valueobject.ParseCurrency(cfg.DefaultCurrency); ok {
		defaults.DisplayCurrency = code.String()
	} else {
		slog.Warn("Invalid default display currency, using USD", "currency", cfg.DefaultCurrency)
	}

	if mode := entity.ConversionMode(cfg.DefaultConversionMode); mode.IsValid() {
		defaults.ConversionMode = mode
	} else {
		slog.Warn("Invalid default conversion mode, using simple", "mode", cfg.DefaultConversionMode)
	}

	return defaults
}
