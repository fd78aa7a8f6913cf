package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/loan-atlas/pkg/models/api"
)

type TableConfig struct {
	LabelWidth int
	ValueWidth int
	// MaxPoints caps the rows printed per series; the most recent are kept.
	MaxPoints int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		LabelWidth: 32,
		ValueWidth: 18,
		MaxPoints:  24,
	}
}

// Reporter prints dashboard pages as plain text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const pageTemplate = `
{{.Title}}
As of: {{.AsOf.Format "2006-01-02 15:04 MST"}}
{{if .Notice}}
! {{.Notice}}
{{end}}{{if .KPIs}}
{{separator}}
{{range .KPIs}}{{formatRow .Label .Display}}{{if .Delta}} {{.Delta}}{{end}}
{{end}}{{separator}}
{{end}}{{range $chart := .Charts}}
=== {{$chart.Title}} ===
{{range $chart.Series}}{{if gt (len $chart.Series) 1}}-- {{.Name}}
{{end}}{{range tail .Points}}{{formatRow .Label (formatValue .Value)}}
{{end}}{{end}}{{end}}{{if .Details}}
=== Cohorts ===
{{range .Details}}{{formatRow .Cohort (formatValue .Latest)}} {{.TotalLoans}} loans
{{end}}{{end}}{{if .Cohorts}}
Available cohorts: {{join .Cohorts ", "}}
{{end}}`

func (c *Reporter) Handle(page api.Page) error {
	funcMap := template.FuncMap{
		"formatRow": func(label, value string) string {
			return fmt.Sprintf("| %-*s | %*s |", c.config.LabelWidth, label, c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.LabelWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
		"formatValue": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return fmt.Sprintf("%.2f", *v)
		},
		"tail": func(points []api.ChartPoint) []api.ChartPoint {
			if c.config.MaxPoints > 0 && len(points) > c.config.MaxPoints {
				return points[len(points)-c.config.MaxPoints:]
			}
			return points
		},
		"join": strings.Join,
	}

	t, err := template.New("page").Funcs(funcMap).Parse(pageTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, page)
}
