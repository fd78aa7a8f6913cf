package api

import "time"

type ChartKind string

const (
	ChartKindPie     ChartKind = "pie"
	ChartKindBar     ChartKind = "bar"
	ChartKindLine    ChartKind = "line"
	ChartKindArea    ChartKind = "area"
	ChartKindHeatmap ChartKind = "heatmap"
)

type Orientation string

const (
	OrientationVertical   Orientation = "v"
	OrientationHorizontal Orientation = "h"
)

// ChartPoint is a single label/value pair. Value is null for gaps.
type ChartPoint struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
}

type Chart struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Kind        ChartKind     `json:"kind"`
	Orientation Orientation   `json:"orientation,omitempty"`
	XAxis       string        `json:"x_axis,omitempty"`
	YAxis       string        `json:"y_axis,omitempty"`
	Series      []ChartSeries `json:"series"`
}

type KPI struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Delta   string  `json:"delta,omitempty"`
}

type CohortDetail struct {
	Cohort     string   `json:"cohort"`
	TotalLoans int      `json:"total_loans"`
	Latest     *float64 `json:"latest"`
}

type Page struct {
	Title   string         `json:"title"`
	AsOf    time.Time      `json:"as_of"`
	KPIs    []KPI          `json:"kpis"`
	Charts  []Chart        `json:"charts"`
	Cohorts []string       `json:"cohorts,omitempty"`
	Details []CohortDetail `json:"details,omitempty"`
	Notice  string         `json:"notice,omitempty"`
}
