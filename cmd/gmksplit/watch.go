// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/splitter"
	"github.com/gmksplit/gmksplit/internal/watch"
)

type watchFlags struct {
	convertFlags
	debounce time.Duration
	ignore   []string
}

func newWatchCommand(app *App) *cobra.Command {
	var flags watchFlags

	cmd := &cobra.Command{
		Use:   "watch <project-dir> <archive>",
		Short: "Recompose an archive whenever the project directory changes",
		Long: `Compose the project directory into the archive, then keep the archive
up to date while the project is edited. Unlike convert, the archive is
replaced if it exists. A project that fails to compose leaves the last good
archive in place. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, app, &flags, args[0], args[1])
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce, "quiet period before rebuilding")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "extra glob patterns to ignore, relative to the project")
	return cmd
}

func runWatch(cmd *cobra.Command, app *App, flags *watchFlags, dir, archive string) error {
	const operation = "watch project"

	if err := checkWatchPaths(dir, archive); err != nil {
		return app.fail(cmd, operation, dir, err)
	}
	opts, logger, err := flags.resolve(cmd, app)
	if err != nil {
		return app.fail(cmd, operation, dir, err)
	}
	s := splitter.New(opts, logger)

	rebuild := func(ctx context.Context) error {
		if err := s.Recompose(ctx, dir, archive); err != nil {
			return err
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), SubtitleStyle.Render("wrote"), CmdStyle.Render(archive))
		return nil
	}
	if err := rebuild(cmd.Context()); err != nil {
		// Keep going, the user may fix the project and save again.
		fmt.Fprintf(app.stderr, "%s Initial build failed: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, app.verbose))
	}

	w, err := watch.New(watch.Config{
		Dir:      dir,
		Ignore:   flags.ignore,
		Debounce: flags.debounce,
		Logger:   logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("rebuilding", "changed", len(changed), "first", changed[0])
			if err := rebuild(ctx); err != nil {
				fmt.Fprintf(app.stderr, "%s Build failed: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, app.verbose))
			}
			return nil
		},
	})
	if err != nil {
		return app.fail(cmd, operation, dir, issue.Wrap(issue.IOFailure, err))
	}
	fmt.Fprintf(app.stdout, "%s %s %s\n", SubtitleStyle.Render("watching"), CmdStyle.Render(dir), SubtitleStyle.Render("(Ctrl+C to stop)"))
	if err := w.Run(cmd.Context()); err != nil {
		return app.fail(cmd, operation, dir, issue.Wrap(issue.IOFailure, err))
	}
	return nil
}

// checkWatchPaths requires an archive path outside the project directory, so
// writing the archive does not trigger another rebuild.
func checkWatchPaths(dir, archive string) error {
	if !isArchivePath(archive) {
		return issue.New(issue.PreconditionFailed, "archive path must end in .gmk or .gm81")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(dir)
	}
	absArchive, err := filepath.Abs(archive)
	if err != nil {
		return issue.Wrap(issue.IOFailure, err).WithPath(archive)
	}
	rel, err := filepath.Rel(absDir, absArchive)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return issue.New(issue.PreconditionFailed, "archive must be outside the project directory").WithPath(archive)
	}
	return nil
}
