// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmksplit/gmksplit/internal/issue"
)

// fail reports err on stderr, wrapped in an ActionableError unless it
// already is one, and returns the ExitError that ends the command. The
// suggestions shown are the defaults for the error's kind.
func (a *App) fail(cmd *cobra.Command, operation, resource string, err error) error {
	kind := issue.KindOf(err)
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		actionable = issue.NewErrorContext().
			WithOperation(operation).
			WithResource(resource).
			Wrap(err).
			Build()
	}

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(actionable, a.verbose))
	if a.verbose && kind != 0 {
		if rendered, rerr := issue.Get(kind).Render("dark"); rerr == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: actionable}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own format, which lists the full chain in verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
