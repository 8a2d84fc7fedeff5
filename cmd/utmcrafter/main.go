// Command utmcrafter serves the UTM link builder API.
//
// Configuration is read from the environment (and a .env file when present):
//
//	DATABASE_URL=postgres://localhost/utm?sslmode=disable
//	REDIS_URL=redis://localhost:6379/0
//	VENDOR_KEY=change-me
//	HTTP_ADDR=:8080
//
// Tenant requests carry the account in X-Account-ID and the authenticated
// user in X-User-ID. The vendor console under /vendor expects X-Vendor-Key.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pawa80/utm-link-crafter-sub002/catalog"
	"github.com/pawa80/utm-link-crafter-sub002/db"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/audit"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/config"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/feature"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/httpserver"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/pg"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/ratelimiter"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/redis"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/requestid"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
	"github.com/pawa80/utm-link-crafter-sub002/svc/link"
	"github.com/pawa80/utm-link-crafter-sub002/svc/vendor"
	"github.com/pawa80/utm-link-crafter-sub002/svc/wizard"
)

// Config is the process configuration.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production dev stage prod"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"utmcrafter"`

	// CatalogPath replaces the embedded plan and flag catalog.
	CatalogPath string `env:"CATALOG_PATH"`
	VendorKey   string `env:"VENDOR_KEY"`

	RedisEnabled   bool          `env:"REDIS_ENABLED" envDefault:"true"`
	WizardTTL      time.Duration `env:"WIZARD_SESSION_TTL" envDefault:"24h"`
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	ReadyTimeout   time.Duration `env:"READINESS_TIMEOUT" envDefault:"3s"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimit        ratelimiter.Config

	HTTP     httpserver.Config
	Postgres pg.Config
	Redis    redis.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("utmcrafter: fatal", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(
			requestid.LogExtractor(),
			tenant.LogExtractor(),
			account.LogExtractor(),
		),
	)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, db.Migrations(), cfg.Postgres, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	checks := map[string]httpserver.CheckFunc{"postgres": pg.Healthcheck(pool)}

	var rdb *goredis.Client
	if cfg.RedisEnabled {
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		checks["redis"] = redis.Healthcheck(rdb)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	accountStorage := account.NewPGStorage(pool)
	campaignStorage := campaign.NewPGStorage(pool)
	linkStorage := link.NewPGStorage(pool)

	counters := limits.NewRegistry()
	counters.Register(limits.ResourceCampaigns, campaignStorage.Count)
	counters.Register(limits.ResourceLinks, linkStorage.Count)
	counters.Register(limits.ResourceMembers, accountStorage.CountMembers)

	plans, err := limits.NewService(ctx, cat.Plans(), counters, account.PlanIDResolver(accountStorage))
	if err != nil {
		return fmt.Errorf("plans: %w", err)
	}

	flagList, err := cat.Flags()
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	flags, err := feature.NewMemoryProvider(flagList)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	authz, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(rbac.DefaultRoles()))
	if err != nil {
		return fmt.Errorf("rbac: %w", err)
	}
	entitlements := account.NewEntitlements(flags, plans)

	var (
		accountCache tenant.Cache
		sessions     wizard.Store
		buckets      ratelimiter.Store
	)
	if rdb != nil {
		onCacheError := func(err error) {
			log.WarnContext(ctx, "tenant cache unavailable", logger.Error(err))
		}
		accountCache = tenant.NewRedisCache(rdb, cfg.Redis.KeyPrefix+"account:", cfg.TenantCacheTTL, onCacheError)
		sessions = wizard.NewRedisStore(rdb, cfg.Redis.KeyPrefix, cfg.WizardTTL)
		buckets = ratelimiter.NewRedisStore(rdb, cfg.Redis.KeyPrefix)
	} else {
		accountCache = tenant.NewMemoryCache(tenant.DefaultCacheSize, cfg.TenantCacheTTL)
		sessions = wizard.NewMemoryStore(wizard.DefaultMemorySize, cfg.WizardTTL)
		buckets = ratelimiter.NewMemoryStore(ratelimiter.DefaultMemoryKeys)
	}

	var limiter *ratelimiter.Bucket
	if cfg.RateLimitEnabled {
		if limiter, err = ratelimiter.NewBucket(buckets, cfg.RateLimit); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	auditLog := audit.NewLogger(audit.NewPGStorage(pool),
		audit.WithAccountExtractor(func(ctx context.Context) (string, bool) {
			id, ok := tenant.IDFromContext(ctx)
			return id.String(), ok
		}),
		audit.WithUserExtractor(func(ctx context.Context) (string, bool) {
			m, ok := account.MemberFromContext(ctx)
			return m.UserID.String(), ok
		}),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
	)

	accounts := account.NewService(accountStorage, authz, plans,
		account.WithCache(accountCache),
		account.WithAudit(auditLog),
		account.WithEntitlements(entitlements),
		account.WithLogger(log),
	)
	links := link.NewService(linkStorage, campaignStorage, plans, entitlements, authz,
		link.WithAudit(auditLog),
		link.WithLogger(log),
	)
	campaigns := campaign.NewService(campaignStorage, plans, authz,
		campaign.WithLinkRoutes(links.CampaignRoutes()),
		campaign.WithAudit(auditLog),
		campaign.WithLogger(log),
	)
	assistant := wizard.NewService(sessions, campaigns, links, entitlements, authz,
		wizard.WithLogger(log),
	)
	console := vendor.NewService(cfg.VendorKey, accounts, plans, flags, vendor.NewPGAnalytics(pool),
		vendor.WithAudit(auditLog),
		vendor.WithLogger(log),
	)
	if cfg.VendorKey == "" {
		log.WarnContext(ctx, "VENDOR_KEY is empty, vendor console is disabled")
	}

	router := newRouter(routes{
		log:       log,
		checks:    checks,
		timeout:   cfg.ReadyTimeout,
		limiter:   limiter,
		cache:     accountCache,
		provider:  accounts,
		members:   accounts,
		account:   accounts.Handle(),
		campaigns: campaigns.Handle(),
		links:     links.Handle(),
		wizard:    assistant.Handle(),
		vendor:    console.Handle(),
	})

	log.InfoContext(ctx, "starting utmcrafter",
		slog.String("addr", cfg.HTTP.Addr),
		slog.Bool("redis", rdb != nil),
		slog.Int("plans", len(plans.Plans())),
	)

	server := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := server.Run(ctx, router); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
