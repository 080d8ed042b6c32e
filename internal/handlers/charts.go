package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"readle/internal/progress"
	"readle/internal/repository"
)

type ChartsHandler struct {
	log     *zap.Logger
	builder *progress.Builder
}

func NewChartsHandler(log *zap.Logger, builder *progress.Builder) *ChartsHandler {
	return &ChartsHandler{log: log, builder: builder}
}

// ClassroomCharts renders the classroom dashboard charts page: a bar chart
// of the comprehension score distribution and a line chart of weekly
// reading time.
func (h *ChartsHandler) ClassroomCharts(c *gin.Context) {
	classroomID, ok := uintParam(c, "id")
	if !ok {
		c.String(http.StatusBadRequest, "Invalid classroom id")
		return
	}

	user, _ := currentUser(c)
	classroom, err := repository.GetClassroomByID(c.Request.Context(), classroomID)
	if err != nil {
		c.String(http.StatusNotFound, "Classroom not found")
		return
	}
	if classroom.TeacherID != user.ID {
		c.String(http.StatusForbidden, "Not your classroom")
		return
	}

	roster, err := repository.ClassroomRoster(c.Request.Context(), classroomID)
	if err != nil {
		h.log.Error("Failed to load roster for charts", zap.Uint("classroomID", classroomID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load classroom")
		return
	}
	rollups := h.builder.ClassroomRollups(c.Request.Context(), roster, classroomID)

	timeline, err := repository.GetReadingTimeline(c.Request.Context(), classroomID)
	if err != nil {
		h.log.Error("Failed to load reading timeline", zap.Uint("classroomID", classroomID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load chart data")
		return
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		generateScoreDistributionChart(rollups, classroom.Name),
		generateReadingTimelineChart(timeline),
	)

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		h.log.Error("Failed to render charts page", zap.Error(err))
	}
}

// Score buckets for the distribution chart, aligned with the performance
// bands the dashboard filters on.
var scoreBuckets = []string{"0-59", "60-79", "80-100"}

func generateScoreDistributionChart(rollups []progress.StudentRollup, classroomName string) *charts.Bar {
	counts := make([]int, len(scoreBuckets))
	for _, r := range rollups {
		switch {
		case r.AvgComprehensionScore < 60:
			counts[0]++
		case r.AvgComprehensionScore < 80:
			counts[1]++
		default:
			counts[2]++
		}
	}

	values := make([]opts.BarData, len(counts))
	for i, n := range counts {
		values[i] = opts.BarData{Value: n}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Comprehension score distribution",
			Subtitle: classroomName,
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Students"}),
	)
	bar.SetXAxis(scoreBuckets).AddSeries("Students", values)
	return bar
}

func generateReadingTimelineChart(points []repository.ReadingTimelinePoint) *charts.Line {
	weeks := make([]string, len(points))
	values := make([]opts.LineData, len(points))
	for i, p := range points {
		weeks[i] = p.Week.Format("Jan 02")
		values[i] = opts.LineData{Value: p.Seconds / 60}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Reading time per week"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Minutes"}),
	)
	line.SetXAxis(weeks).AddSeries("Minutes read", values,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}
