package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"findings.ee105.org/internal/dataset"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/logging"
)

var (
	colorOK   = color.New(color.FgGreen)
	colorFail = color.New(color.FgRed)
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a CSV can be used on the CO₂ dashboard",
		Long: `Check that a CSV has the columns country, year, co2 and co2_per_capita and
at least one row with a country and a year.

Pass a file path as an argument, or pipe the CSV via stdin:
  findings validate owid-co2-data.csv
  cat owid-co2-data.csv | findings validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) > 0 {
				f, err := os.Open(args[0]) //nolint:gosec // user-provided path is expected
				if err != nil {
					return exitError(ExitError, "findings: cannot open %q (%v)", args[0], err)
				}
				defer logging.SafeCloseWithLogging(f, c.logger, "validate input")
				r = f
			}
			return runValidate(cmd.OutOrStdout(), cmd.ErrOrStderr(), r, c.cfg.Emissions.ExcludePattern, c.cfg.Emissions.ExcludeISOCodes)
		},
	}
}

func runValidate(out, errOut io.Writer, r io.Reader, pattern string, isoCodes []string) error {
	ex, err := emissions.NewExclusions(pattern, isoCodes)
	if err != nil {
		return exitError(ExitError, "findings: %v", err)
	}

	frame, err := emissions.ReadWithExclusions(r, ex)
	if err != nil {
		var missing *dataset.MissingColumnError
		if errors.As(err, &missing) {
			_, _ = colorFail.Fprintf(errOut, "Missing required column: %s\n", missing.Column)
		} else {
			_, _ = colorFail.Fprintf(errOut, "Could not parse CSV: %v\n", err)
		}
		return &exitCodeError{code: ExitInvalid}
	}

	minYear, maxYear := frame.YearBounds()
	_, _ = colorOK.Fprintf(out, "valid: %d rows, years %d–%d, %d countries\n",
		frame.Rows(), minYear, maxYear, len(frame.Countries()))
	if !frame.HasPopulation() {
		_, _ = fmt.Fprintln(out, "note: no population column, per-capita rankings include every country")
	}
	return nil
}
