package internal

import (
	"strings"

	"issuebridge/internal/db"
	"issuebridge/internal/deliveries"
	"issuebridge/internal/env"
	"issuebridge/internal/events"
	"issuebridge/internal/githubhooks"
	"issuebridge/internal/logger"
	"issuebridge/internal/metrics"
	"issuebridge/internal/models"
	"issuebridge/internal/operators"
	"issuebridge/internal/pagerduty"

	"github.com/gofiber/fiber/v3"
)

func SetupApp(deployment string, envRoot string, appVersion string) *fiber.App {
	app := fiber.New()

	env.Init(envRoot, appVersion)

	deploy := strings.TrimSpace(deployment)

	if err := db.InitDB(deploy); err != nil {
		logger.Fatal("could not connect to MongoDB", "error", err)
		return nil
	}

	if err := db.InitCache(); err != nil {
		logger.Fatal("could not connect to Redis", "error", err)
		return nil
	}

	if db.AuditEvents != nil {
		events.Em = events.NewEmitter(events.NewMongoStore(db.AuditEvents), deploy, env.AUDIT_TIMEZONE)
	} else {
		events.Em = nil
	}

	pd, err := pagerduty.NewClient(pagerduty.Config{
		RoutingKey: env.PAGERDUTY_ROUTING_KEY,
		EventsURL:  env.PAGERDUTY_EVENTS_URL,
		Timeout:    env.PAGERDUTY_TIMEOUT,
	})
	if err != nil {
		logger.Fatal("could not configure PagerDuty", "error", err)
		return nil
	}

	receipts := deliveries.NewStore(db.RDB, env.DELIVERY_TTL)

	bridge := app.Group("/issuebridge")

	bridge.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	bridge.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + env.VERSION)
	})

	githubhooks.Routes(bridge, &githubhooks.Hooks{
		Secret: env.GITHUB_WEBHOOK_SECRET,
		Trigger: models.TriggerContext{
			TriggerAction: env.TRIGGER_ACTION,
			Severity:      env.ALERT_SEVERITY,
		},
		Emitter:     pd,
		Deliveries:  receipts,
		Audit:       events.Em,
		EmitTimeout: env.PAGERDUTY_TIMEOUT,
	})
	operators.Routes(bridge)
	deliveries.Routes(bridge, receipts, models.OperatorMiddleware)
	metrics.Routes(app)

	return app
}
