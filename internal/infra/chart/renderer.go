package chart

import (
	"bytes"
	"context"
	"math"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bryanwahyu/climate-anomaly/internal/domain/anomaly"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 400

	title = "Climate Anomaly Probability"
)

// The parsed font is read-only, so one copy serves every render.
var loadFont = sync.OnceValues(gochart.GetDefaultFont)

var (
	curveColor  = drawing.ColorFromHex("1f77b4")
	tailColor   = gochart.ColorRed.WithAlpha(128)
	markerColor = gochart.ColorRed
)

// Options mengatur ukuran gambar dan resolusi sampling density.
type Options struct {
	Width   int
	Height  int
	Samples int
}

// Renderer menggambar distribusi normal ke PNG pakai go-chart.
// Setiap Render membangun chart baru, jadi aman dipakai concurrent.
type Renderer struct {
	opts Options
}

// New bikin Renderer; nilai nol diganti default.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Samples < anomaly.MinSamples {
		opts.Samples = anomaly.DefaultSamples
	}
	return &Renderer{opts: opts}
}

// Render implements anomaly.ChartRenderer. The caller validates in
// (Validate, CheckPlottable); anything that still can't be drawn comes back
// as ErrRender.
func (r *Renderer) Render(ctx context.Context, in anomaly.Input) (png []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// go-chart panics on some degenerate ranges; never let that escape.
	defer func() {
		if rec := recover(); rec != nil {
			png = nil
			err = errors.Wrapf(anomaly.ErrRender, "panic: %v", rec)
		}
	}()

	graph, err := r.build(in)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, errors.Wrap(anomaly.ErrRender, err.Error())
	}
	return buf.Bytes(), nil
}

// Check renders a reference input so health checks exercise the backend.
func (r *Renderer) Check(ctx context.Context) error {
	_, err := r.Render(ctx, anomaly.Input{Mu: 0, Sigma: 1, X: 1})
	return err
}

func (r *Renderer) build(in anomaly.Input) (*gochart.Chart, error) {
	font, err := loadFont()
	if err != nil {
		return nil, errors.Wrap(anomaly.ErrRender, err.Error())
	}

	curve := anomaly.SampleDensity(in, r.opts.Samples)
	peak := curve.Peak()
	if math.IsInf(peak, 0) || math.IsNaN(peak) || peak <= 0 {
		return nil, errors.Wrapf(anomaly.ErrRender, "density peak %v cannot be plotted", peak)
	}
	top := peak * 1.05

	series := []gochart.Series{
		gochart.ContinuousSeries{
			Name:    "Normal Distribution",
			XValues: curve.Xs,
			YValues: curve.Ys,
			Style: gochart.Style{
				StrokeColor: curveColor,
				StrokeWidth: 2,
			},
		},
	}

	// go-chart rejects empty series, so an X beyond the window draws no tail.
	if tail := curve.Tail(in.X); tail.Len() > 1 {
		series = append(series, gochart.ContinuousSeries{
			Name:    "P(X > x)",
			XValues: tail.Xs,
			YValues: tail.Ys,
			Style: gochart.Style{
				StrokeColor: tailColor,
				StrokeWidth: 1,
				FillColor:   tailColor,
			},
		})
	}

	series = append(series, gochart.ContinuousSeries{
		Name:    "X = " + strconv.FormatFloat(in.X, 'g', -1, 64),
		XValues: []float64{in.X, in.X},
		YValues: []float64{0, top},
		Style: gochart.Style{
			StrokeColor:     markerColor,
			StrokeWidth:     2,
			StrokeDashArray: []float64{6, 4},
		},
	})

	lo, hi := in.Window()
	graph := &gochart.Chart{
		Title:  title,
		Font:   font,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:  "X",
			Range: &gochart.ContinuousRange{Min: math.Min(lo, in.X), Max: math.Max(hi, in.X)},
		},
		YAxis: gochart.YAxis{
			Name:  "Density",
			Range: &gochart.ContinuousRange{Min: 0, Max: top},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(graph)}
	return graph, nil
}
