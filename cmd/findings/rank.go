package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/utils"
)

var (
	colorBold  = color.New(color.Bold)
	colorFocus = color.New(color.FgRed, color.Bold)
	colorDim   = color.New(color.Faint)
)

type rankOptions struct {
	file      string
	year      int
	limit     int
	perCapita bool
	minPop    float64
	trends    bool
	noCache   bool
}

func newRankCmd(c *cli) *cobra.Command {
	var opts rankOptions

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the top emitters for a year",
		Long: `Print the top CO₂ emitters, absolute or per capita, for one year of the
default dataset or a local CSV. Aggregates such as World are left out and the
focus country is highlighted. --trends prints the yearly series compared on
the CO₂ dashboard instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.file != "" {
				c.cfg.Dataset.URL = opts.file
			}
			application, err := app.New(c.cfg, c.logger)
			if err != nil {
				return exitError(ExitError, "findings: %v", err)
			}
			frame, err := application.CO2Frame(cmd.Context(), app.CO2Selection{NoCache: opts.noCache})
			if err != nil {
				return exitError(ExitError, "findings: %v", err)
			}
			return runRank(cmd.OutOrStdout(), application, frame, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "read this CSV instead of the default dataset")
	flags.IntVarP(&opts.year, "year", "y", 0, "ranking year (default: the configured year, or the latest for --per-capita)")
	flags.IntVarP(&opts.limit, "limit", "n", 0, "number of countries (default: emissions.top_n)")
	flags.BoolVar(&opts.perCapita, "per-capita", false, "rank by tonnes per person")
	flags.Float64Var(&opts.minPop, "min-population", -1, "per-capita population threshold (default: emissions.min_population)")
	flags.BoolVar(&opts.trends, "trends", false, "print the focus country and its comparators over time")
	flags.BoolVar(&opts.noCache, "nocache", false, "skip the dataset cache")
	return cmd
}

func runRank(w io.Writer, application *app.Application, frame *emissions.Frame, opts rankOptions) error {
	p := application.CO2Defaults(frame)
	if opts.limit > 0 {
		p.Limit = opts.limit
	}
	if opts.minPop >= 0 {
		p.MinPopulation = opts.minPop
	}
	if opts.year != 0 {
		minYear, maxYear := frame.YearBounds()
		if opts.year < minYear || opts.year > maxYear {
			return exitError(ExitError, "findings: year %d outside the data (%d–%d)", opts.year, minYear, maxYear)
		}
		p.RankYear, p.PerCapitaYear = opts.year, opts.year
	}

	if opts.trends {
		return printTrends(w, application, frame, p)
	}

	var (
		ranking  emissions.Ranking
		err      error
		decimals int
		unit     string
	)
	if opts.perCapita {
		ranking, err = frame.TopPerCapita(p.PerCapitaYear, p.Limit, p.MinPopulation)
		decimals, unit = 2, "Tonnes/person"
	} else {
		ranking, err = frame.TopEmitters(p.RankYear, p.Limit)
		unit = "CO₂ (Mt)"
	}
	if err != nil {
		return exitError(ExitError, "findings: %v", err)
	}

	title := fmt.Sprintf("Top %d CO₂ Emitters — %d", p.Limit, ranking.Year)
	if opts.perCapita {
		title = fmt.Sprintf("Top %d CO₂ per Capita — %d", p.Limit, ranking.Year)
	}
	_, _ = colorBold.Fprintln(w, title)
	if len(ranking.Rows) == 0 {
		_, _ = colorDim.Fprintln(w, "no qualifying countries")
		return nil
	}

	width := len("Country")
	for _, row := range ranking.Rows {
		width = max(width, len([]rune(row.Country)))
	}
	_, _ = colorBold.Fprintf(w, "%3s  %-*s  %14s\n", "#", width, "Country", unit)
	for i, row := range ranking.Rows {
		line := fmt.Sprintf("%3d  %-*s  %14s", i+1, width, row.Country, utils.FormatThousands(row.Value, decimals))
		if row.Country == p.Focus {
			_, _ = colorFocus.Fprintln(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
	if !opts.perCapita {
		_, _ = colorDim.Fprintf(w, "World CO₂ (Mt): %s  Median CO₂ (Mt): %s\n",
			utils.FormatThousands(ranking.Total, 0), utils.FormatThousands(ranking.Median, 0))
	}
	return nil
}

func printTrends(w io.Writer, application *app.Application, frame *emissions.Frame, p app.CO2Params) error {
	comps, err := application.Comparators(frame, p)
	if err != nil {
		return exitError(ExitError, "findings: %v", err)
	}
	trends, err := frame.Trends(p.Focus, comps, p.TrendFrom, p.TrendTo)
	if err != nil {
		return exitError(ExitError, "findings: %v", err)
	}

	_, _ = colorBold.Fprintf(w, "CO₂ over Time — Highlight: %s (%d–%d)\n", p.Focus, p.TrendFrom, p.TrendTo)
	_, _ = colorDim.Fprintln(w, emissions.ComparisonCaption(p.Focus, comps))
	for _, t := range trends {
		first, last := t.Points[0], t.Points[len(t.Points)-1]
		line := fmt.Sprintf("%-20s %d: %12s  %d: %12s  (%d years)",
			t.Country, first.Year, utils.FormatThousands(first.Value, 0),
			last.Year, utils.FormatThousands(last.Value, 0), len(t.Points))
		if t.Highlight {
			_, _ = colorFocus.Fprintln(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
	return nil
}
