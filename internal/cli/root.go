package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute(build BuildInfo, streams IOStreams) int {
	if wd, err := os.Getwd(); err == nil {
		if envErr := loadDotEnv(wd); envErr != nil {
			fmt.Fprintln(streams.ErrOut, "WARN:", envErr)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &AppContext{Build: build, IO: streams}
	root := newRootCommand(app)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(streams.ErrOut, "ERROR:", err)
		return mapExitCode(err)
	}
	return ExitSuccess
}

func newRootCommand(app *AppContext) *cobra.Command {
	showVersion := false

	root := &cobra.Command{
		Use:   "classboard",
		Short: "Terminal dashboard for your school register",
		Long:  "classboard shows lessons, grades, homework and the rest of your school register as dashboard tiles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(app)
				return nil
			}
			return runDashboard(cmd.Context(), app)
		},
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	defaultConfigPath := os.Getenv("CLASSBOARD_CONFIG")
	root.PersistentFlags().StringVarP(&app.Opts.ConfigPath, "config", "c", defaultConfigPath, "Path to config file")
	root.PersistentFlags().BoolVar(&app.Opts.Plain, "plain", false, "Print one snapshot instead of starting the interactive dashboard")
	root.PersistentFlags().IntVar(&app.Opts.Width, "width", 80, "Width of the plain snapshot")
	root.Flags().BoolVar(&showVersion, "version", false, "Print version info")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	root.AddCommand(newRunCommand(app))
	root.AddCommand(newTilesCommand(app))
	root.AddCommand(newCacheCommand(app))
	root.AddCommand(newVersionCommand(app))

	return root
}
