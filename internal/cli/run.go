package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/classboard/internal/tui"
)

// detailsTimeout bounds the wait for error details after a failed snapshot.
const detailsTimeout = 2 * time.Second

var errDashboardFailed = errors.New("the dashboard could not be loaded")

func newRunCommand(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the dashboard (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), app)
		},
	}
}

func runDashboard(ctx context.Context, app *AppContext) error {
	rt, err := newRuntime(app)
	if err != nil {
		return err
	}
	defer rt.Close()

	if app.Opts.Plain || !isTTY(app.IO.Out) {
		return runPlain(ctx, app, rt)
	}
	return tui.Run(ctx, rt.orch, tui.Options{Reload: rt.Reload})
}

// runPlain prints one snapshot once every tile has settled.
func runPlain(ctx context.Context, app *AppContext, rt *runtime) error {
	view := tui.NewPlainView()
	rt.orch.Attach(view)

	select {
	case <-view.Done():
	case <-ctx.Done():
		return withExitCode(ExitInterrupted, ctx.Err())
	}

	if view.Failed() {
		rt.orch.OnShowErrorDetails()
		select {
		case details := <-view.ErrorDetails():
			if details != "" {
				fmt.Fprintln(app.IO.ErrOut, details)
			}
		case <-time.After(detailsTimeout):
		case <-ctx.Done():
		}
		return withExitCode(ExitDashboardFailed, errDashboardFailed)
	}

	return view.Render(app.IO.Out, app.Opts.Width, time.Now())
}

func isTTY(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
