package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-api/internal/database"
)

func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := database.Migrate(opts.Config)
			if err != nil {
				return err
			}
			defer migrator.Close()

			version, dirty, err := migrator.Version()
			if err != nil {
				opts.Logger.Error("failed to check migration version", slog.Any("error", err))
				return err
			}
			opts.Logger.Info(
				"migration successful",
				slog.String("driver", opts.Config.Storage.Driver),
				slog.Uint64("version", uint64(version)),
				slog.Bool("dirty", dirty),
			)
			return nil
		},
	}
}
