// Command driverctl runs driver app operations from a terminal against the
// configured source: migrations, token issuing and the driver views.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fleetbook/driverapp/internal/auth"
	"github.com/fleetbook/driverapp/internal/bootstrap"
	"github.com/fleetbook/driverapp/internal/config"
	"github.com/fleetbook/driverapp/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// identity is the caller the driver commands act as.
type identity struct {
	userID string
	token  string
}

func (id identity) context(ctx context.Context) context.Context {
	if id.userID != "" {
		ctx = auth.WithUserID(ctx, id.userID)
	}
	if id.token != "" {
		ctx = auth.WithToken(ctx, id.token)
	}
	return ctx
}

func newRootCmd() *cobra.Command {
	var id identity

	root := &cobra.Command{
		Use:           "driverctl",
		Short:         "Driver app operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.LoadDotEnvUp(0)
		},
	}
	root.PersistentFlags().StringVar(&id.userID, "user", "", "act as this user id")
	root.PersistentFlags().StringVar(&id.token, "token", "", "bearer token forwarded to the fleet API")

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newDashboardCmd(&id))
	root.AddCommand(newTripCmd(&id))
	root.AddCommand(newExpenseCmd(&id))
	root.AddCommand(newNotificationsCmd(&id))
	return root
}

// openSources loads configuration and opens the configured source. Logs go
// to stderr so stdout stays machine-readable.
func openSources(ctx context.Context, migrate bool) (*bootstrap.Sources, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	if migrate {
		if cfg.Source != config.SourcePostgres {
			return nil, config.Config{}, fmt.Errorf("migrate needs SOURCE=%s, got %s", config.SourcePostgres, cfg.Source)
		}
		cfg.MigrateOnStart = true
	}
	src, err := bootstrap.Open(ctx, cfg, stderrLogger(cfg.LogLevel))
	if err != nil {
		return nil, config.Config{}, err
	}
	return src, cfg, nil
}

func stderrLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// loadApp opens the sources and returns a refreshed DriverApp for id.
func loadApp(ctx context.Context, id identity) (*service.DriverApp, *bootstrap.Sources, error) {
	src, _, err := openSources(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	app := src.NewDriverApp(time.Now)
	if err := app.Refresh(id.context(ctx)); err != nil {
		src.Close()
		return nil, nil, err
	}
	return app, src, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, _, err := openSources(cmd.Context(), true)
			if err != nil {
				return err
			}
			src.Close()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "migrations up to date")
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed access token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			token, err := auth.NewTokens(secret, ttl).Issue(userID, role, time.Now())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "for", "", "user id the token is issued to")
	cmd.Flags().StringVar(&role, "role", "driver", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("for")
	return cmd
}

func newDashboardCmd(id *identity) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the driver dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, src, err := loadApp(cmd.Context(), *id)
			if err != nil {
				return err
			}
			defer src.Close()

			snap := app.Snapshot()
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"user":               snap.User,
				"active_trip":        snap.ActiveTrip,
				"completed_today":    snap.CompletedToday,
				"net_khata":          snap.NetKhata,
				"monthly_trip_count": snap.MonthlyTripCount,
			})
		},
	}
}

func newTripCmd(id *identity) *cobra.Command {
	trip := &cobra.Command{Use: "trip", Short: "Trip commands"}

	trip.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List completed trips, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, src, err := loadApp(cmd.Context(), *id)
			if err != nil {
				return err
			}
			defer src.Close()

			history := app.Snapshot().TripHistory
			if len(history) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed trips")
				return nil
			}
			for _, v := range history {
				date := "unscheduled"
				if v.StartTime != nil {
					date = v.StartTime.Format(time.DateOnly)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s -> %s  %s\n", v.ID, date, v.SourceLabel, v.DestinationLabel, v.TruckLabel)
			}
			return nil
		},
	})

	trip.AddCommand(&cobra.Command{
		Use:   "complete <trip-id>",
		Short: "Mark a trip completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := id.context(cmd.Context())
			app, src, err := loadApp(cmd.Context(), *id)
			if err != nil {
				return err
			}
			defer src.Close()

			if err := app.CompleteTrip(ctx, args[0]); err != nil {
				return err
			}
			if err := app.ReloadTrips(ctx); err != nil {
				return err
			}
			view, _ := app.Trip(args[0])
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "trip %s is %s\n", view.ID, view.Status)
			return nil
		},
	})
	return trip
}

func newExpenseCmd(id *identity) *cobra.Command {
	expense := &cobra.Command{Use: "expense", Short: "Ledger commands"}

	var amount, description, tripID string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record an expense paid by the driver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("--amount: %w", err)
			}
			ctx := id.context(cmd.Context())
			app, src, err := loadApp(cmd.Context(), *id)
			if err != nil {
				return err
			}
			defer src.Close()

			if err := app.AddExpense(ctx, value, description, tripID); err != nil {
				return err
			}
			if err := app.ReloadLedger(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %s; net khata %s\n", value, app.Snapshot().NetKhata)
			return nil
		},
	}
	add.Flags().StringVar(&amount, "amount", "", "amount paid")
	add.Flags().StringVar(&description, "description", "", "what the money was spent on")
	add.Flags().StringVar(&tripID, "trip", "", "trip the expense belongs to (optional)")
	_ = add.MarkFlagRequired("amount")
	_ = add.MarkFlagRequired("description")

	expense.AddCommand(add)
	return expense
}

func newNotificationsCmd(id *identity) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications and document reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, cfg, err := openSources(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer src.Close()

			svc := service.NewNotificationService(src.Notifications, src.Session, time.Now, stderrLogger(cfg.LogLevel))
			notes, err := svc.List(id.context(cmd.Context()), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), notes)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum server notifications to fetch")
	return cmd
}
