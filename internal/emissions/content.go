package emissions

// Fixed text of the CO₂ findings dashboard.
const (
	Title   = "Main Findings Dashboard-China and the Global Rise of CO₂ Emissions"
	Caption = "A concise, presentation-ready dashboard showing only the key results from the case study."

	UploadHint = "Upload CSV with columns at least: country, year, co2, co2_per_capita, population (optional)"
)

// Tab is one findings tab of the CO₂ dashboard.
type Tab struct {
	ID        string
	Label     string
	Takeaways []string
}

var (
	TopEmittersTab = Tab{
		ID:    "top",
		Label: "Top Emitters",
		Takeaways: []string{
			"In early years (1800s–1900s), CO₂ emissions were dominated by Europe, North America, and other high-income regions, while China's contribution was very small.",
			"By the mid-20th century, the U.S. was still a leading emitter, but China began to rise gradually.",
			"After the late 20th century and especially post-2000, China's emissions accelerated sharply, overtaking the U.S. and becoming the largest absolute emitter in the world.",
			"This shift highlights China's rapid industrialization and reliance on coal, making it the central driver of recent global CO₂ growth.",
		},
	}
	TrendsTab = Tab{
		ID:    "trends",
		Label: "CO₂ Emissions — China Highlighted",
		Takeaways: []string{
			"Historical Leaders: From the 18th to mid-20th century, CO₂ emissions were dominated by Europe and North America, with China barely visible.",
			"Rapid Growth: Starting in the late 20th century, China's emissions rose sharply, a steep curve compared to other countries, reflecting fast industrialization and coal dependence.",
			"China Overtakes: By the 2000s, China surpassed the U.S. and became the largest global emitter, while U.S. and European emissions stabilized or declined.",
			"Global Impact: China's emissions trajectory is now the main driver of worldwide CO₂ growth, making it central to future climate outcomes.",
		},
	}
	PerCapitaTab = Tab{
		ID:    "per-capita",
		Label: "Per-capita Rankings",
		Takeaways: []string{
			"China ranks lower per-capita than its absolute total due to population size.",
			"Small, high-income or oil-exporting countries often top per-capita rankings.",
			"Highlights the equity angle: totals vs per-person emissions.",
		},
	}
)

// Tabs returns the dashboard tabs in display order.
func Tabs() []Tab {
	return []Tab{TopEmittersTab, TrendsTab, PerCapitaTab}
}
