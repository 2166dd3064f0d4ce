package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/export"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// Point estimates derivatives at one x. With a method it returns that single
// estimate, otherwise the full sample.
func (h *Handlers) Point(c *gin.Context) {
	var req types.PointRequest
	if !bind(c, &req) {
		return
	}

	params := map[string]interface{}{
		"expression": req.Expression,
		"x":          *req.X,
	}
	if req.H != nil {
		params["h"] = *req.H
	}
	if req.Method != "" {
		params["method"] = req.Method
		h.respond(c, "math.derivative.method", params)
		return
	}
	h.respond(c, "math.derivative.point", params)
}

// Range estimates derivatives over evenly spaced points
func (h *Handlers) Range(c *gin.Context) {
	var req types.RangeRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c, "math.derivative.range", rangeParams(req))
}

// Points estimates derivatives at an explicit list of points
func (h *Handlers) Points(c *gin.Context) {
	var req types.PointsRequest
	if !bind(c, &req) {
		return
	}

	params := map[string]interface{}{
		"expression": req.Expression,
		"points":     req.Points,
	}
	if req.H != nil {
		params["h"] = *req.H
	}
	h.respond(c, "math.derivative.points", params)
}

// Export evaluates a range and sends it as a file download
func (h *Handlers) Export(c *gin.Context) {
	opts, err := exportOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var req types.RangeRequest
	if !bind(c, &req) {
		return
	}

	fn, err := h.ops.CompileString(req.Expression)
	if err != nil {
		fail(c, err)
		return
	}
	points := req.Points
	if points == 0 {
		points = h.ops.Settings.DefaultPoints
	}
	step := h.ops.Settings.DefaultStep
	if req.H != nil {
		step = *req.H
	}

	r := derivative.Range{Min: *req.XMin, Max: *req.XMax, Points: points}
	series, err := h.ops.Engine.Range(c.Request.Context(), fn.Eval, r, step)
	if err != nil {
		fail(c, err)
		return
	}

	var buf bytes.Buffer
	doc := export.Document{Expression: fn.Source(), Step: step, Samples: series}
	if err := export.Write(&buf, doc, opts); err != nil {
		h.logger.Error("Export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename("derivatives", opts)))
	c.Header("X-Sample-Count", fmt.Sprint(len(series)))
	c.Data(http.StatusOK, export.ContentType(opts), buf.Bytes())
}

func rangeParams(req types.RangeRequest) map[string]interface{} {
	params := map[string]interface{}{
		"expression": req.Expression,
		"x_min":      *req.XMin,
		"x_max":      *req.XMax,
	}
	if req.Points != 0 {
		params["points"] = req.Points
	}
	if req.H != nil {
		params["h"] = *req.H
	}
	return params
}

func exportOptions(c *gin.Context) (export.Options, error) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return export.Options{}, err
	}
	compression, err := export.ParseCompression(c.Query("compression"))
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Format: format, Compression: compression}, nil
}

// fail writes err with the status and kind its classification maps to
func fail(c *gin.Context, err error) {
	result, _ := common.FailureFrom(err)
	c.JSON(statusFor(result.Kind), result)
}
