package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/JonMunkholm/inventory/internal/application"
	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/store"
	"github.com/spf13/cobra"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg   *config.Config
	store core.Store
	svc   *core.Service
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, nil)
	slog.Debug("configuration loaded", "config", cfg.String())

	st, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.store = st
	a.svc = core.NewService(st, core.WithFailedRowsPath(cfg.Files.FailedRowsPath))
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("close store", "error", err)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "inventory",
		Short: "Store inventory manager",
		Long: `Keeps a product catalog in a local database.

Run without a command to import the inventory CSV and open the menu:
  v   view a product
  a   add or update a product
  b   back up the catalog to CSV
  q   quit`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.cfg.Import.OnStartup {
				startupImport(ctx, a.svc, a.cfg.Files.ImportPath, cmd.ErrOrStderr())
			}
			return application.NewSession(a.svc, cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.Files.BackupPath).Run(ctx)
		},
	}

	root.AddCommand(
		newImportCmd(a),
		newBackupCmd(a),
		newViewCmd(a),
		newListCmd(a),
	)
	return root
}

// startupImport reconciles the inventory file before the menu opens. A
// missing file or a failed import is reported and the menu still opens.
func startupImport(ctx context.Context, svc *core.Service, path string, errOut io.Writer) {
	summary, err := svc.Import(ctx, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("inventory file not found, skipping import", "path", path)
	case err != nil:
		slog.Error("startup import failed", "path", path, "error", err)
		fmt.Fprintln(errOut, core.MapError(err).String())
	case summary.Errored > 0:
		fmt.Fprintf(errOut, "%s: %d rows skipped\n", summary.FileName, summary.Errored)
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Merge an inventory CSV into the catalog (latest date wins)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Files.ImportPath
			if len(args) == 1 {
				path = args[0]
			}

			summary, err := a.svc.Import(cmd.Context(), path)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, %d created, %d updated, %d unchanged, %d skipped\n",
				summary.FileName, summary.Rows, summary.Created, summary.Updated, summary.Unchanged, summary.Errored)
			for _, re := range summary.Errors {
				fmt.Fprintf(out, "  line %d: %s\n", re.Line, re.Reason)
			}
			return nil
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [file]",
		Short: "Write every product to a backup CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Files.BackupPath
			if len(args) == 1 {
				path = args[0]
			}

			n, err := a.svc.Backup(cmd.Context(), path)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d products written to %s\n", n, path)
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return userError(&core.ParseError{Field: "id", Value: args[0], Reason: "not a whole number"})
			}

			p, err := a.svc.Product(cmd.Context(), id)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Product: %s\n", p.Name)
			fmt.Fprintf(out, "Quantity: %d\n", p.Quantity)
			fmt.Fprintf(out, "Price: %s\n", core.FormatPrice(p.Price))
			fmt.Fprintf(out, "Date Updated: %s\n", core.DisplayDate(p.LastUpdated))
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products in ID order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a.svc.Products(cmd.Context())
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			for _, p := range products {
				fmt.Fprintf(out, "%d\t%s\t%d\t%s\t%s\n",
					p.ID, p.Name, p.Quantity, core.FormatPrice(p.Price), core.FormatDate(p.LastUpdated))
			}
			return nil
		},
	}
}

// userError logs err and returns its user-facing form for cobra to print.
func userError(err error) error {
	slog.Debug("command failed", "error", err)
	return errors.New(core.MapError(err).String())
}
