package main

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/thalesfsp/dspline"
)

var (
	measuredColor = color.RGBA{A: 255}
	fitColor      = color.RGBA{B: 255, A: 255}
	sampleColor   = color.RGBA{R: 255, B: 255, A: 255}
)

// renderPlot draws the measured table, the fitted d-spline including its
// auxiliary unknowns and the sampled points, and saves it as an image whose
// format follows the path extension.
func renderPlot(path string, values []float64, engine *dspline.Engine) error {
	solution, err := engine.Solution()
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "d-spline fit"
	p.X.Label.Text = "index"
	p.Y.Label.Text = "value"
	p.X.Min = -1
	p.X.Max = float64(len(values))

	measured := make(plotter.XYs, len(values))
	for i, v := range values {
		measured[i] = plotter.XY{X: float64(i), Y: v}
	}

	// Unknown j sits at (j-2)/3 on the sample axis.
	fitted := make(plotter.XYs, len(solution))
	for j, v := range solution {
		fitted[j] = plotter.XY{X: float64(j-2) / 3, Y: v}
	}

	indices, sampledValues := engine.AddedIndices(), engine.AddedValues()

	sampled := make(plotter.XYs, len(indices))
	for k, i := range indices {
		sampled[k] = plotter.XY{X: float64(i), Y: sampledValues[k]}
	}

	measuredLine, err := plotter.NewLine(measured)
	if err != nil {
		return err
	}

	measuredLine.Color = measuredColor

	fitLine, err := plotter.NewLine(fitted)
	if err != nil {
		return err
	}

	fitLine.Color = fitColor

	samplePoints, err := plotter.NewScatter(sampled)
	if err != nil {
		return err
	}

	samplePoints.GlyphStyle.Shape = draw.CrossGlyph{}
	samplePoints.GlyphStyle.Color = sampleColor
	samplePoints.GlyphStyle.Radius = vg.Points(4)

	p.Add(plotter.NewGrid(), measuredLine, fitLine, samplePoints)
	p.Legend.Add("measured", measuredLine)
	p.Legend.Add("d-spline", fitLine)
	p.Legend.Add("sample point", samplePoints)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
