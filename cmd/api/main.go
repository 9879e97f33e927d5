package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/learnsphere/configs"
	"github.com/anjiri1684/learnsphere/database"
	"github.com/anjiri1684/learnsphere/handlers"
	"github.com/anjiri1684/learnsphere/jobs"
	"github.com/anjiri1684/learnsphere/logging"
	"github.com/anjiri1684/learnsphere/notifications"
	"github.com/anjiri1684/learnsphere/routes"
	"github.com/anjiri1684/learnsphere/services"
	"github.com/anjiri1684/learnsphere/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	logging.Setup(config.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database.ConnectDB()
	database.Migrate()
	notifications.InitEmailService()

	generator, err := services.NewGeminiGenerator(ctx, config.Config("GEMINI_API_KEY"), config.Config("GEMINI_MODEL"))
	if err != nil {
		slog.Warn("AI test generation unavailable", "error", err)
		handlers.SetTestGenerator(nil)
	} else {
		handlers.SetTestGenerator(generator)
	}

	c := cron.New()
	if _, err := c.AddFunc("*/5 * * * *", jobs.SendDueDateReminders); err != nil {
		slog.Error("failed to schedule due date reminders", "error", err)
	}
	if _, err := c.AddFunc("*/5 * * * *", jobs.SummarizeClosedTests); err != nil {
		slog.Error("failed to schedule closed test summaries", "error", err)
	}
	c.Start()
	slog.Info("cron jobs scheduled", "entries", len(c.Entries()))

	go websocket.Proctor.Run(ctx)

	app := routes.NewApp(config.Config("FRONTEND_URL"), true)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		<-c.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	port := config.Config("PORT")
	slog.Info("server is running", "port", port)
	if err := app.Listen(":" + port); err != nil {
		slog.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
