package digitizer

import (
	"image"

	"github.com/sirupsen/logrus"
)

// Engine runs the digitization pipeline. It holds only immutable
// configuration and a logger, so one Engine may serve many goroutines, each
// digitizing its own image.
type Engine struct {
	cfg Config
	log *logrus.Logger
}

// New returns an Engine with the given configuration. A nil logger falls
// back to the logrus standard logger.
func New(cfg Config, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{cfg: cfg, log: log}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Result is a successful extraction: the cleaned ordered series plus its
// derived features and the calibration actually used. Degraded is set when
// trailing samples had to be extrapolated; those samples carry the
// Extrapolated tag.
type Result struct {
	Series   []SeriesSample `json:"series"`
	Features FeatureSet     `json:"features"`
	Color    string         `json:"color"`
	ZeroRow  float64        `json:"zero_row"`
	Scale    float64        `json:"scale"`
	Degraded bool           `json:"degraded"`
}

// Digitize converts one chart image into a structured series and features.
// anchors may be nil, in which case the calibrated constant scale applies.
//
// Fatal conditions return a typed *ExtractionError and no partial data:
// undetectable series color, missing zero line, too few traced points, or
// values outside the declared domain (a calibration bug). Trailing-edge
// extrapolation is non-fatal and reported via Result.Degraded.
func (e *Engine) Digitize(img image.Image, bounds PlotBounds, anchors *AxisAnchors) (*Result, error) {
	if err := bounds.Validate(img); err != nil {
		return nil, err
	}

	profile, mask, err := ClassifySeriesColor(img, bounds, e.cfg)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"color":       profile.Name,
		"mask_pixels": mask.Count(),
	}).Debug("series color classified")

	zero, err := LocateZeroLine(img, bounds, e.cfg)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"row":   zero.Row,
		"score": zero.Score,
	}).Debug("zero line located")

	mapper := NewAxisMapper(zero.Row, e.cfg)
	if anchors != nil {
		mapper, err = NewAxisMapperFromAnchors(zero.Row, *anchors, e.cfg)
		if err != nil {
			return nil, err
		}
	}

	raw := TraceSeries(img, mask, bounds, profile, e.cfg)
	if len(raw) < e.cfg.MinValidPoints {
		return nil, failf(KindInsufficientTrace,
			"only %d columns traced, need at least %d", len(raw), e.cfg.MinValidPoints)
	}

	samples := make([]SeriesSample, len(raw))
	for i, p := range raw {
		v, err := mapper.Value(p.Y)
		if err != nil {
			return nil, err
		}
		samples[i] = SeriesSample{X: p.X, Value: v}
	}

	cleaned, degraded := CleanSeries(samples, bounds, e.cfg)
	if degraded {
		e.log.WithFields(logrus.Fields{
			"traced":       len(samples),
			"extrapolated": len(cleaned) - len(samples),
		}).Warn("trailing edge extrapolated; result degraded")
	}

	return &Result{
		Series:   cleaned,
		Features: ExtractFeatures(cleaned, e.cfg),
		Color:    profile.Name,
		ZeroRow:  zero.Row,
		Scale:    mapper.Scale,
		Degraded: degraded,
	}, nil
}
