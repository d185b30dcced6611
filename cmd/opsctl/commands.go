package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ledgerdesk/backoffice/internal/api/dto"
	"github.com/ledgerdesk/backoffice/internal/app"
	"github.com/ledgerdesk/backoffice/internal/auth"
	"github.com/ledgerdesk/backoffice/internal/config"
	"github.com/ledgerdesk/backoffice/internal/domain"
	"github.com/ledgerdesk/backoffice/internal/observability"
	"github.com/ledgerdesk/backoffice/internal/persistence"
	"github.com/ledgerdesk/backoffice/internal/service"
)

// cliEnv is what every subcommand needs. It is built inside RunE so
// `--help` works without a configured environment.
type cliEnv struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv() (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &cliEnv{cfg: cfg, logger: logger}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "opsctl",
		Short:         "Operator tooling for the back-office service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newReportsCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

func newReportsCmd() *cobra.Command {
	reports := &cobra.Command{
		Use:   "reports",
		Short: "Ledger report pipelines",
	}
	var root string
	run := &cobra.Command{
		Use:       "run [accounts|yearly|fs ...]",
		Short:     "Run report pipelines and print their final states",
		ValidArgs: []string{"accounts", "yearly", "fs"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadEnv()
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck
			if root != "" {
				rt.cfg.Reports.Root = root
			}

			container := app.New(cmd.Context(), *rt.cfg, rt.logger)
			defer container.Close()
			return runReports(cmd.Context(), container, cmd.OutOrStdout(), args)
		},
	}
	run.Flags().StringVar(&root, "root", "", "directory holding tmp/ and out/ (default REPORTS_ROOT)")
	reports.AddCommand(run)
	return reports
}

func runReports(ctx context.Context, container *app.Container, out io.Writer, args []string) error {
	scopes := make([]domain.ReportScope, 0, len(args))
	for _, arg := range args {
		scopes = append(scopes, domain.ReportScope(arg))
	}
	states, err := container.Reports.RunSync(ctx, scopes...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.NewReportStatesResponse(states)); err != nil {
		return err
	}
	return firstFailure(states)
}

// firstFailure names the first failed report in pipeline order.
func firstFailure(states map[domain.ReportScope]domain.ProcessState) error {
	for _, scope := range domain.ReportScopes() {
		state, ok := states[scope]
		if ok && state.Status == domain.ProcessStatusError {
			return fmt.Errorf("%s report failed: %s", scope, state.Error)
		}
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations (pgx) or AutoMigrate (gorm)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadEnv()
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			store, err := app.OpenStore(ctx, *rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(ctx, dir, rt.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", store.Backend)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", persistence.MigrationsDir, "directory of .sql migrations")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var subject, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed operator token",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadEnv()
			if err != nil {
				return err
			}
			tokens := auth.NewTokenManager(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.AccessTokenTTL())
			meta, token, err := service.NewAuthService(tokens).IssueToken(subject, domain.OperatorRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", meta.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().StringVar(&role, "role", string(domain.OperatorRoleOperator), "viewer, operator or admin")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
