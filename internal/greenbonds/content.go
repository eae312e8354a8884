package greenbonds

import (
	"slices"
	"strings"

	"findings.ee105.org/internal/charts"
	"findings.ee105.org/internal/dataset"
)

// Regions offered for the interpretation captions.
var Regions = []string{"Global", "OECD", "Developing Economies", "World Bank IBRD/IDA"}

const (
	Title   = "World Bank Green Bonds — Main Findings Dashboard"
	Caption = "EE 105 Group Project | Interactive summary of Sections 8, 9, and 10"
	Intro   = "This dashboard distills the main findings from our case study on the World Bank's Green Bonds, " +
		"highlighting data trends (Section 8), case-study impacts (Section 9), and policy implications (Section 10). " +
		"Use the sidebar to tweak filters or upload your own CSVs to replicate figures."
	Footer = "Swap in your own figures by adding CSV files named after the figure (e.g. plot_section8_graph1.csv) " +
		"to the figures directory, or by uploading CSVs from the sidebar."
)

// Section describes one of the data sections of the dashboard.
type Section struct {
	Number        int
	Heading       string
	Summary       string
	UploadedTitle string
	DemoTitle     string
	// interpretation lines; {region} is replaced with the selected region.
	interpretation []string
	// Notes are shown when verbose notes are switched on.
	Notes []string
}

var sections = []Section{
	{
		Number:        8,
		Heading:       "Section 8 — Data Analysis & Key Trends",
		Summary:       "Trends in green bond issuance, capital mobilization, and climate outcome metrics.",
		UploadedTitle: "Section 8 — Uploaded Data Trend",
		DemoTitle:     "Section 8 — Demo Trend (Green Bond Issuance)",
		interpretation: []string{
			"Green bond issuance has shown sustained growth, signaling stronger investor appetite for climate finance.",
			"Real-economy indicators suggest incremental links between financing volumes and project outcomes (e.g., renewables capacity, energy efficiency).",
			"Regional view: {region} shows differing uptake based on policy frameworks and market depth.",
		},
		Notes: []string{
			"Uploaded CSVs are plotted as the first column (x) against the second column (y).",
			"The demo chart is a placeholder shown when no Section 8 figure is available.",
		},
	},
	{
		Number:        9,
		Heading:       "Section 9 — Case Studies & Impact Evaluation",
		Summary:       "Comparative evidence on emissions, resilience, and social spillovers across projects/countries.",
		UploadedTitle: "Section 9 — Uploaded Data Trend",
		DemoTitle:     "Section 9 — Demo Impact Comparison",
		interpretation: []string{
			"Projects financed by green bonds show measurable environmental benefits when coupled with robust monitoring and reporting.",
			"Co-benefits (jobs, public health, energy access) appear stronger in {region} when governance capacity is higher.",
			"Impact heterogeneity underscores the need for transparent use-of-proceeds and standardized metrics.",
		},
		Notes: []string{
			"Figures are matched by name: section9* or plot*section9*.",
			"The demo chart is a placeholder shown when no Section 9 figure is available.",
		},
	},
}

// Sections returns the data sections in page order.
func Sections() []Section {
	return append([]Section(nil), sections...)
}

// SectionByNumber returns the section numbered n.
func SectionByNumber(n int) (Section, bool) {
	for _, s := range sections {
		if s.Number == n {
			return s, true
		}
	}
	return Section{}, false
}

// Interpretation returns the section's interpretation lines for region.
func (s Section) Interpretation(region string) []string {
	lines := make([]string, len(s.interpretation))
	for i, line := range s.interpretation {
		lines[i] = strings.ReplaceAll(line, "{region}", region)
	}
	return lines
}

// Demo draws the placeholder trend: the years 2010 to 2024 against 0 to 14.
func (s Section) Demo() (charts.Figure, error) {
	xy := dataset.XY{XName: "Year", YName: "Value"}
	for i := range 15 {
		xy.X = append(xy.X, float64(2010+i))
		xy.Y = append(xy.Y, float64(i))
	}
	return charts.Trend(s.DemoTitle, xy)
}

// PolicyHeading introduces Section 10.
const PolicyHeading = "Section 10 — Policy Implications & Significance"

// Policy is one Section 10 recommendation.
type Policy struct {
	Lever  string
	Detail string
}

// Policies are the Section 10 recommendations.
var Policies = []Policy{
	{"Scale & Standardize", "Clear taxonomies and verification standards reduce greenwashing and lower issuance costs."},
	{"De-risking", "Blended finance (guarantees, first-loss tranches) can crowd in private capital in emerging markets."},
	{"Disclosure", "Comparable KPIs (emissions avoided, MW installed, households served) enable outcome-based evaluation."},
	{"Local Capacity", "Strengthen project pipeline (PPPs, technical assistance) to translate proceeds into real outcomes."},
	{"Just Transition", "Prioritize co-benefits (health, jobs) and community safeguards to ensure equitable distribution."},
}

// KeyTakeaways is the one-slide summary.
var KeyTakeaways = []string{
	"Green bonds mobilize climate capital at scale, with growth linked to policy clarity and investor confidence.",
	"Outcomes improve with accountability: strong MRV, standardized KPIs, and independent verification.",
	"Policy levers (taxonomies, de-risking, disclosure) are pivotal to expand adoption, especially in developing regions.",
	"Social co-benefits make green bonds a compelling public narrative beyond carbon metrics.",
}

// ValidRegion reports whether region is one of the offered regions.
func ValidRegion(regions []string, region string) bool {
	return slices.Contains(regions, region)
}
