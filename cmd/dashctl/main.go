package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/config"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/database"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/repository/postgresql"
	metricsService "github.com/cmlabs-hris/fg-dashboard-go/internal/service/metrics"
	"github.com/urfave/cli/v2"
)

const dbMetadataKey = "db"

func openDB(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(cfg.SlogLevel())

	db, err := database.NewPostgreSQLDB(c.Context, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.App.Metadata[dbMetadataKey] = db
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.App.Metadata[dbMetadataKey].(*database.DB); ok && db != nil {
		db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *database.DB {
	db, _ := c.App.Metadata[dbMetadataKey].(*database.DB)
	return db
}

func runMetrics(c *cli.Context) error {
	db := dbFrom(c)
	svc := metricsService.NewMetricsService(
		postgresql.NewEmployeeRepository(db),
		postgresql.NewAttendanceRepository(db),
		postgresql.NewCompletionRepository(db),
		time.Now,
	)

	var (
		result any
		err    error
	)
	if group := c.String("group"); group != "" {
		result, err = svc.GetGroupMetrics(c.Context, group, c.Int("month"), c.Int("year"))
	} else {
		result, err = svc.GetAllGroupsMetrics(c.Context, c.Int("month"), c.Int("year"))
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func runMigrate(c *cli.Context) error {
	if err := postgresql.EnsureSchema(c.Context, dbFrom(c)); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "schema is up to date")
	return nil
}

func runToken(c *cli.Context) error {
	svc := jwt.NewJWTService(c.String("secret"), c.String("expires-in"))
	token, expiresAt, err := svc.GenerateAccessToken(c.String("user-id"), c.String("email"), user.Role(c.String("role")))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	fmt.Fprintf(c.App.ErrWriter, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "dashctl",
		Usage:    "Operator tooling for the FG completion dashboard",
		Metadata: map[string]interface{}{},
		Commands: []*cli.Command{
			{
				Name:  "metrics",
				Usage: "Compute dashboard metrics for a group, or for all groups when --group is omitted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Roster group"},
					&cli.IntFlag{Name: "month", Aliases: []string{"m"}, Usage: "Month 1-12, defaults to the current month"},
					&cli.IntFlag{Name: "year", Aliases: []string{"y"}, Usage: "Year, defaults to the current year"},
					&cli.BoolFlag{Name: "pretty", Usage: "Indent the JSON output"},
				},
				Before: openDB,
				After:  closeDB,
				Action: runMetrics,
			},
			{
				Name:   "migrate",
				Usage:  "Create the roster, attendance and fg_completion tables",
				Before: openDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:  "token",
				Usage: "Print a signed access token for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Required: true, EnvVars: []string{"JWT_SECRET_KEY"}, Usage: "HMAC signing secret"},
					&cli.StringFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "role", Value: string(user.RoleManager), Usage: "leader, manager or admin"},
					&cli.StringFlag{Name: "expires-in", Value: "1h", EnvVars: []string{"JWT_ACCESS_EXPIRATION_TIME"}},
				},
				Action: runToken,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dashctl:", err)
		os.Exit(1)
	}
}
