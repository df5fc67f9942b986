// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gmksplit/gmksplit/internal/config"
	"github.com/gmksplit/gmksplit/internal/issue"
	"github.com/gmksplit/gmksplit/internal/splitter"
)

const (
	directionDecompose direction = iota + 1
	directionCompose
)

// archiveExts are the file extensions that mark a path as an archive file.
var archiveExts = []string{".gmk", ".gm81"}

type (
	direction uint8

	// convertFlags holds the per-run overrides of configuration values.
	convertFlags struct {
		preserveIDs        string
		compression        string
		convertLineEndings bool
		omitDisabledFields bool
	}
)

func (d direction) String() string {
	if d == directionCompose {
		return "compose archive"
	}
	return "decompose archive"
}

func newConvertCommand(app *App) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <source> <destination>",
		Short: "Convert an archive to a directory or a directory to an archive",
		Long: `Convert between an archive file and a project directory.

Exactly one of the two paths must end in .gmk or .gm81. When the source is
the archive it is decomposed into the destination directory, otherwise the
source directory is composed into the destination archive. The destination
must not exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, app, &flags, args[0], args[1])
		},
	}

	flags.register(cmd)
	return cmd
}

func runConvert(cmd *cobra.Command, app *App, flags *convertFlags, src, dst string) error {
	dir, err := detectDirection(src, dst)
	if err != nil {
		return app.fail(cmd, "convert", src, err)
	}

	opts, logger, err := flags.resolve(cmd, app)
	if err != nil {
		return app.fail(cmd, dir.String(), src, err)
	}
	logger.Debug("starting conversion", "direction", dir, "source", src, "destination", dst,
		"preserve_ids", opts.Policy, "compression", opts.Compression)

	s := splitter.New(opts, logger)
	switch dir {
	case directionDecompose:
		err = s.Decompose(cmd.Context(), src, dst)
	case directionCompose:
		err = s.Compose(cmd.Context(), src, dst)
	}
	if err != nil {
		return app.fail(cmd, dir.String(), src, err)
	}

	fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), SubtitleStyle.Render("wrote"), CmdStyle.Render(dst))
	return nil
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preserveIDs, "preserve-ids", "", "identifiers kept on compose: none, objects or all")
	cmd.Flags().StringVar(&f.compression, "compression", "", "archive body compression: none, lz4 or zstd")
	cmd.Flags().BoolVar(&f.convertLineEndings, "convert-line-endings", true, "write code with \\n and restore \\r\\n on compose")
	cmd.Flags().BoolVar(&f.omitDisabledFields, "omit-disabled-fields", true, "leave out switched-off field groups")
}

// resolve loads the configuration, applies the flags and returns the
// splitter options and logger for one run.
func (f *convertFlags) resolve(cmd *cobra.Command, app *App) (splitter.Options, *log.Logger, error) {
	cfg, _, err := app.Config.Load(cmd.Context(), app.loadOptions())
	if err != nil {
		return splitter.Options{}, nil, err
	}
	f.apply(cmd, cfg)
	opts, err := cfg.SplitterOptions()
	if err != nil {
		return splitter.Options{}, nil, issue.Wrap(issue.PreconditionFailed, err)
	}
	return opts, app.newLogger(cfg), nil
}

// apply copies every flag given on the command line over cfg.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("preserve-ids") {
		cfg.PreserveIDs = f.preserveIDs
	}
	if changed("compression") {
		cfg.Compression = f.compression
	}
	if changed("convert-line-endings") {
		cfg.ConvertLineEndings = f.convertLineEndings
	}
	if changed("omit-disabled-fields") {
		cfg.OmitDisabledFields = f.omitDisabledFields
	}
}

func isArchivePath(path string) bool {
	return slices.Contains(archiveExts, strings.ToLower(filepath.Ext(path)))
}

// detectDirection requires exactly one of src and dst to be an archive path.
func detectDirection(src, dst string) (direction, error) {
	srcArchive, dstArchive := isArchivePath(src), isArchivePath(dst)
	switch {
	case srcArchive && !dstArchive:
		return directionDecompose, nil
	case dstArchive && !srcArchive:
		return directionCompose, nil
	case srcArchive:
		return 0, issue.New(issue.PreconditionFailed, "both paths name an archive file, one must be a directory")
	default:
		return 0, issue.New(issue.PreconditionFailed, "neither path ends in .gmk or .gm81")
	}
}
