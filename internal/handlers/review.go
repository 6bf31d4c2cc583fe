package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/analysis"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/models"
	"github.com/nicolippi7-boop/sensory-lab-sub000/internal/repository"
)

// ReviewHandler assembles the leader's results view: method-appropriate
// aggregates plus ECharts option payloads the client feeds straight into
// echarts.setOption.
type ReviewHandler struct {
	log *zap.Logger
}

func NewReviewHandler(log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{log: log}
}

// Review aggregates a test's submitted results by its methodology.
func (h *ReviewHandler) Review(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	test, err := repository.GetTest(c.Request.Context(), id)
	if err == repository.ErrTestNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "test not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load test for review", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load test"})
		return
	}

	results, err := repository.ListResults(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load results for review", zap.Error(err), zap.Uint("test_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}

	out := gin.H{
		"test":    test,
		"judges":  len(results),
		"summary": analysis.Summarize(*test, results),
	}

	switch test.Method {
	case models.MethodTriangle:
		out["triangle"] = analysis.Triangle(results, test.CorrectSample)
	case models.MethodPaired:
		out["preference"] = analysis.PairedPreference(results)
	case models.MethodCATA, models.MethodRATA:
		rates := analysis.CitationRates(results)
		out["citations"] = rates
		if test.Method == models.MethodRATA {
			out["means"] = analysis.RatingMeans(results)
		}
	case models.MethodNapping:
		centroids := analysis.NappingCentroids(results)
		out["centroids"] = centroids
		out["chart"] = generateCentroidChart(centroids).JSON()
	case models.MethodSorting:
		out["results"] = results
	case models.MethodTDS, models.MethodTimeIntensity:
		// Temporal curves are fetched per sample via the curve endpoints.
		out["results"] = results
	default:
		means := analysis.RatingMeans(results)
		out["means"] = means
		out["chart"] = generateMeansChart(*test, means).JSON()
	}

	c.JSON(http.StatusOK, out)
}

// DominanceCurve returns TDS click tallies for one sample of a test.
func (h *ReviewHandler) DominanceCurve(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	sample := c.Query("sample")
	if sample == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sample query parameter is required"})
		return
	}

	counts, err := repository.GetDominanceCounts(c.Request.Context(), id, sample)
	if err != nil {
		h.log.Error("Failed to load dominance counts", zap.Error(err),
			zap.Uint("test_id", id), zap.String("sample", sample))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dominance data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sample": sample, "counts": counts})
}

// IntensityCurve returns the averaged time-intensity curve for one sample
// and tracked attribute, with its line chart options.
func (h *ReviewHandler) IntensityCurve(c *gin.Context) {
	id, ok := testID(c)
	if !ok {
		return
	}
	sample := c.Query("sample")
	attribute := c.Query("attribute")
	if sample == "" || attribute == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sample and attribute query parameters are required"})
		return
	}

	points, err := repository.GetIntensityCurve(c.Request.Context(), id, sample, attribute)
	if err != nil {
		h.log.Error("Failed to load intensity curve", zap.Error(err),
			zap.Uint("test_id", id), zap.String("sample", sample))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load intensity data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sample": sample,
		"points": points,
		"chart":  generateIntensityChart(sample, points).JSON(),
	})
}

// attrKeyString matches how structured attribute ids appear inside stored
// composite response keys.
func attrKeyString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func generateMeansChart(test models.Test, means []analysis.AttributeMean) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Attribute Means",
			Subtitle: test.Name,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	attrNames := make(map[string]string, len(test.Attributes))
	for _, a := range test.Attributes {
		attrNames[attrKeyString(a.ID)] = a.Name
	}

	axis := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range means {
		if !seen[m.AttributeID] {
			seen[m.AttributeID] = true
			axis = append(axis, m.AttributeID)
		}
	}
	labels := make([]string, len(axis))
	for i, id := range axis {
		if name, ok := attrNames[id]; ok {
			labels[i] = name
		} else {
			labels[i] = id
		}
	}
	line.SetXAxis(labels)

	bySample := make(map[string]map[string]float64)
	order := make([]string, 0)
	for _, m := range means {
		if bySample[m.SampleCode] == nil {
			bySample[m.SampleCode] = make(map[string]float64)
			order = append(order, m.SampleCode)
		}
		bySample[m.SampleCode][m.AttributeID] = m.Mean
	}
	for _, code := range order {
		items := make([]opts.LineData, 0, len(axis))
		for _, id := range axis {
			items = append(items, opts.LineData{Value: bySample[code][id]})
		}
		line.AddSeries(code, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	}
	return line
}

func generateCentroidChart(centroids []analysis.Centroid) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Napping Centroids"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: 0, Max: 100}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	for _, c := range centroids {
		scatter.AddSeries(c.SampleCode, []opts.ScatterData{
			{Value: []interface{}{c.X, c.Y}},
		})
	}
	return scatter
}

func generateIntensityChart(sample string, points []repository.CurvePoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Mean Intensity Over Time",
			Subtitle: "Sample " + sample,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "seconds"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: []interface{}{p.AtSeconds, p.Value}})
	}
	line.AddSeries(sample, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
