package operations

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/GriffinCanCode/numderiv/internal/providers/math/common"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/derivative"
	"github.com/GriffinCanCode/numderiv/internal/providers/math/export"
	"github.com/GriffinCanCode/numderiv/internal/shared/types"
)

// ExportOps renders derivative series as files
type ExportOps struct {
	*common.MathOps
}

// GetTools returns export tool definitions
func (e *ExportOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "math.derivative.export",
			Name:        "Export Derivatives",
			Description: "Evaluate a range and encode it as csv, json, yaml or toml, optionally gzip or zstd compressed (base64 in the result)",
			Parameters: []types.Parameter{
				paramExpression,
				{Name: "x_min", Type: "number", Description: "Lower bound", Required: true},
				{Name: "x_max", Type: "number", Description: "Upper bound", Required: true},
				{Name: "points", Type: "number", Description: "Number of points (at least 2)", Required: false},
				paramStep,
				{Name: "format", Type: "string", Description: "csv, json, yaml or toml", Required: false},
				{Name: "compression", Type: "string", Description: "none, gzip or zstd", Required: false},
			},
			Returns: "object",
		},
	}
}

// Export evaluates the range and returns the encoded document
func (e *ExportOps) Export(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	fn, err := e.Compile(params)
	if err != nil {
		return common.FailureFrom(err)
	}
	xMin, ok := common.GetNumber(params, "x_min")
	if !ok {
		return common.Failure("x_min parameter required")
	}
	xMax, ok := common.GetNumber(params, "x_max")
	if !ok {
		return common.Failure("x_max parameter required")
	}
	n, err := e.PointCount(params)
	if err != nil {
		return common.Failure(err.Error())
	}
	h, err := e.Step(params)
	if err != nil {
		return common.Failure(err.Error())
	}
	opts, err := exportOptions(params)
	if err != nil {
		return common.Failure(err.Error())
	}

	series, err := e.Engine.Range(ctx, fn.Eval, derivative.Range{Min: xMin, Max: xMax, Points: n}, h)
	if err != nil {
		return common.FailureFrom(err)
	}

	var buf bytes.Buffer
	doc := export.Document{Expression: fn.Source(), Step: h, Samples: series}
	if err := export.Write(&buf, doc, opts); err != nil {
		return common.Failure(err.Error())
	}

	data := map[string]interface{}{
		"filename":     export.Filename("derivatives", opts),
		"content_type": export.ContentType(opts),
		"count":        len(series),
	}
	if opts.Compression == export.CompressionNone {
		data["content"] = buf.String()
		data["encoding"] = "utf-8"
	} else {
		data["content"] = base64.StdEncoding.EncodeToString(buf.Bytes())
		data["encoding"] = "base64"
	}
	return common.Success(data)
}

func exportOptions(params map[string]interface{}) (export.Options, error) {
	name, _ := params["format"].(string)
	format, err := export.ParseFormat(name)
	if err != nil {
		return export.Options{}, err
	}
	name, _ = params["compression"].(string)
	compression, err := export.ParseCompression(name)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{Format: format, Compression: compression}, nil
}
