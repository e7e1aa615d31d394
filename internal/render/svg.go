package render

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/aquilax/truncate"
	"github.com/dustin/go-humanize"

	"github.com/vukan322/folio/internal/core"
	"github.com/vukan322/folio/internal/i18n"
)

const (
	cardWidth  = 495
	cardHeight = 330

	sparklinePixelWidth  = 96
	sparklinePixelHeight = 32

	positiveStroke = "#4ade80"
	negativeStroke = "#ef4444"

	languageBarMax  = 140.0
	languageNameMax = 14
	weekdayBarMax   = 60.0
)

//go:embed templates/*.svg.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("svg").
		Funcs(template.FuncMap{
			"addf":    func(a, b float64) float64 { return a + b },
			"subf":    func(a, b float64) float64 { return a - b },
			"mulf":    func(a, b float64) float64 { return a * b },
			"float64": func(i int) float64 { return float64(i) },
		}).
		ParseFS(templateFS, "templates/*.svg.tmpl"),
)

type sparklineViewModel struct {
	Width       float64
	Height      float64
	PixelWidth  int
	PixelHeight int

	Symbol        string
	Price         string
	ChangePercent string
	Path          string
	Stroke        string
}

// SparklinePath renders points as an SVG path: "M x,y L x,y ...".
func SparklinePath(points []core.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatCoord(p.X) + "," + formatCoord(p.Y)
	}
	return "M " + strings.Join(parts, " L ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Sparkline draws the snapshot's price history. An empty history is drawn
// with the placeholder series.
func Sparkline(s core.StockSnapshot) ([]byte, error) {
	stroke := negativeStroke
	if s.IsPositive {
		stroke = positiveStroke
	}

	vm := sparklineViewModel{
		Width:         core.ChartWidth,
		Height:        core.ChartHeight,
		PixelWidth:    sparklinePixelWidth,
		PixelHeight:   sparklinePixelHeight,
		Symbol:        s.Symbol,
		Price:         s.Price,
		ChangePercent: s.ChangePercent,
		Path:          SparklinePath(core.NormalizeSeries(s.History)),
		Stroke:        stroke,
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "sparkline.svg.tmpl", vm); err != nil {
		return nil, fmt.Errorf("render sparkline: %w", err)
	}
	return buf.Bytes(), nil
}

type counterView struct {
	Label string
	Value string
}

type languageView struct {
	Name     string
	Color    string
	Percent  string
	BarWidth float64
}

type weekdayView struct {
	Label     string
	BarHeight float64
}

type cardViewModel struct {
	Width  int
	Height int
	Title  string

	Counters       []counterView
	LanguagesLabel string
	Languages      []languageView

	WeekdaysLabel string
	WeekdaysY     int
	WeekdayBase   float64
	Weekdays      []weekdayView
}

var weekdayKeys = [7]string{"day_mon", "day_tue", "day_wed", "day_thu", "day_fri", "day_sat", "day_sun"}

// StatsCard renders the GitHub statistics document as an SVG card with
// labels in lang.
func StatsCard(stats core.GitHubStats, lang i18n.Lang) ([]byte, error) {
	p := stats.Profile
	commitsLabel := fmt.Sprintf("%s (%d)", i18n.T(lang, "total_commits"), stats.LastUpdated.Year())

	vm := cardViewModel{
		Width:  cardWidth,
		Height: cardHeight,
		Title:  i18n.T(lang, "github_stats"),
		Counters: []counterView{
			{Label: i18n.T(lang, "followers"), Value: humanize.Comma(int64(p.Followers))},
			{Label: i18n.T(lang, "total_stars"), Value: humanize.Comma(int64(p.TotalStars))},
			{Label: commitsLabel, Value: humanize.Comma(int64(p.TotalCommits))},
			{Label: i18n.T(lang, "total_prs"), Value: humanize.Comma(int64(p.TotalPRs))},
			{Label: i18n.T(lang, "total_issues"), Value: humanize.Comma(int64(p.TotalIssues))},
		},
		LanguagesLabel: i18n.T(lang, "languages"),
		WeekdaysLabel:  i18n.T(lang, "weekdays"),
		WeekdaysY:      224,
		WeekdayBase:    300,
	}

	for _, l := range stats.Languages {
		vm.Languages = append(vm.Languages, languageView{
			Name:     truncate.Truncate(l.Name, languageNameMax, "…", truncate.PositionEnd),
			Color:    l.Color,
			Percent:  humanize.FormatFloat("#.#", l.Percentage),
			BarWidth: l.Percentage / 100 * languageBarMax,
		})
	}

	for i, d := range stats.Weekdays {
		label := d.Name
		if i < len(weekdayKeys) {
			label = i18n.T(lang, weekdayKeys[i])
		}
		vm.Weekdays = append(vm.Weekdays, weekdayView{
			Label:     label,
			BarHeight: d.Percentage / 100 * weekdayBarMax,
		})
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "card.svg.tmpl", vm); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}
