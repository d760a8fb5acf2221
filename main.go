package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/internal/retry"
	"github.com/poggig1971/telpress-rassegna-bot/internal/runner"
	"github.com/poggig1971/telpress-rassegna-bot/services/batch"
	"github.com/poggig1971/telpress-rassegna-bot/services/deposit"
	"github.com/poggig1971/telpress-rassegna-bot/services/drive"
	"github.com/poggig1971/telpress-rassegna-bot/services/extractor"
	"github.com/poggig1971/telpress-rassegna-bot/services/gmail"
	googleauth "github.com/poggig1971/telpress-rassegna-bot/services/google"
	"github.com/poggig1971/telpress-rassegna-bot/services/locator"
	"github.com/poggig1971/telpress-rassegna-bot/services/notify"
	"github.com/poggig1971/telpress-rassegna-bot/services/smtp"
)

const dateLayout = "2006-01-02"

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}

	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()
	defer appLogger.Sync()

	app := &cli.App{
		Name:  "rassegna",
		Usage: "fetch the daily press review from the mailbox, deposit it on Drive and notify the list",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Usage: "only log warnings and errors"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("quiet") {
				appLogger.SetLevel(zapcore.WarnLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the daily ingestion-and-distribution pipeline once",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force-now", Usage: "bypass the daily run window"},
					&cli.BoolFlag{Name: "force", Usage: "replace an already deposited artifact"},
					&cli.StringFlag{Name: "on", Usage: "effective date (YYYY-MM-DD) instead of today"},
				},
				Action: func(c *cli.Context) error {
					return runPipeline(c.Context, cfg, appLogger, c)
				},
			},
			{
				Name:  "batch",
				Usage: "mail the press review PDF to the whole distribution list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "press review date (YYYY-MM-DD), default today"},
					&cli.StringFlag{Name: "range", Usage: "inclusive date range START:END (YYYY-MM-DD:YYYY-MM-DD)"},
				},
				Action: func(c *cli.Context) error {
					return runBatch(c.Context, cfg, appLogger, c)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		appLogger.Errorf("%v", err)
		os.Exit(1)
	}
}

func runPipeline(ctx context.Context, cfg *config.Config, appLogger *logger.AppLogger, c *cli.Context) error {
	opts := runner.Options{
		ForceNow: c.Bool("force-now"),
		Force:    c.Bool("force"),
	}
	if on := c.String("on"); on != "" {
		day, err := time.Parse(dateLayout, on)
		if err != nil {
			return cli.Exit(fmt.Sprintf("--on requires %s format", dateLayout), 2)
		}
		opts.On = &day
	}

	exec := retry.NewExecutor(retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
	}, appLogger)

	mailboxOpts, err := googleauth.MailboxOptions(ctx, cfg.Mailbox)
	if err != nil {
		return err
	}
	mailbox, err := gmail.NewGmailService(ctx, mailboxOpts, exec, appLogger)
	if err != nil {
		return err
	}
	store, err := drive.NewDriveService(ctx, googleauth.StoreOptions(cfg.Store), cfg.Store.Domain, exec, appLogger)
	if err != nil {
		return err
	}

	mailer := smtp.NewSMTPClient(cfg.SMTP, appLogger)
	pipeline := runner.New(
		cfg,
		locator.New(mailbox, cfg.Mailbox, appLogger),
		extractor.New(mailbox, exec, appLogger),
		deposit.NewManager(store, appLogger),
		notify.NewComposer(store, mailer, cfg.Notify, cfg.SMTP, appLogger),
		appLogger,
	)

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case models.OutcomeUploaded, models.OutcomeReplaced:
		fmt.Printf("[OK] %s: %s (id=%s)\n", result.Outcome, result.Record.Name, result.Record.ID)
	case models.OutcomeSkipped:
		fmt.Printf("[SKIP] %s already deposited (id=%s)\n", result.Name, result.Record.ID)
	default:
		fmt.Printf("[NOOP] %s\n", result.Outcome)
	}
	return nil
}

func runBatch(ctx context.Context, cfg *config.Config, appLogger *logger.AppLogger, c *cli.Context) error {
	exec := retry.NewExecutor(retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
	}, appLogger)

	mailer := smtp.NewSMTPClient(cfg.SMTP, appLogger)
	sender := batch.NewSender(cfg.Batch, cfg.SMTP, mailer, exec, appLogger)

	days, err := batchDays(c)
	if err != nil {
		return err
	}

	for _, day := range days {
		sent, err := sender.Run(ctx, day)
		if err != nil {
			return err
		}
		if sent == 0 {
			fmt.Printf("[NOOP] %s\n", models.OutcomeNoRecipients)
			continue
		}
		fmt.Printf("[OK] %s sent to %d recipients\n", models.ArtifactName(day), sent)
	}
	return nil
}

func batchDays(c *cli.Context) ([]time.Time, error) {
	if r := c.String("range"); r != "" {
		parts := strings.SplitN(r, ":", 2)
		if len(parts) != 2 {
			return nil, cli.Exit("--range requires START:END with ISO dates", 2)
		}
		start, err := time.Parse(dateLayout, parts[0])
		if err != nil {
			return nil, cli.Exit("--range requires START:END with ISO dates", 2)
		}
		end, err := time.Parse(dateLayout, parts[1])
		if err != nil {
			return nil, cli.Exit("--range requires START:END with ISO dates", 2)
		}
		if end.Before(start) {
			return nil, cli.Exit("--range END must be >= START", 2)
		}
		var days []time.Time
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			days = append(days, day)
		}
		return days, nil
	}

	if d := c.String("date"); d != "" {
		day, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("--date requires %s format", dateLayout), 2)
		}
		return []time.Time{day}, nil
	}

	return []time.Time{time.Now()}, nil
}
