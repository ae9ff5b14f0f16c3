package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/classboard/internal/config"
	"github.com/mmcdole/classboard/internal/tui/tilepicker"
)

func newTilesCommand(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiles [source...]",
		Args:  cobra.ArbitraryArgs,
		Short: "Choose the dashboard tiles",
		Long: "Without arguments tiles opens an interactive picker. With arguments it " +
			"stores the given data sources as the tile selection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}

			picked := args
			if len(args) == 0 {
				if !isTTY(app.IO.Out) {
					return withExitCode(ExitInvalidUsage, errors.New("no terminal for the picker; pass the data sources as arguments"))
				}
				picked, err = tilepicker.Run(cmd.Context(), cfg.Dashboard.Tiles)
				if errors.Is(err, tilepicker.ErrCanceled) {
					return nil
				}
				if err != nil {
					return err
				}
			}
			return saveTiles(app, picked)
		},
	}
	cmd.AddCommand(newTilesListCommand(app))
	return cmd
}

func newTilesListCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the configured data sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			sources, err := config.ParseSources(cfg.Dashboard.Tiles)
			if err != nil {
				return withExitCode(ExitInvalidConfig, err)
			}
			for _, id := range sources.IDs() {
				fmt.Fprintln(app.IO.Out, id)
			}
			return nil
		},
	}
}

func saveTiles(app *AppContext, picked []string) error {
	if _, err := config.ParseSources(picked); err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}
	picked = tilepicker.Normalize(picked)
	if err := config.SaveTiles(app.Opts.ConfigPath, picked); err != nil {
		return err
	}
	fmt.Fprintf(app.IO.Out, "Saved %d tiles: %s\n", len(picked), strings.Join(picked, ", "))
	return nil
}
