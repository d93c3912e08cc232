package harness

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	E "itemfreq/estimator"
	"itemfreq/filestore"
	U "itemfreq/util"
)

// SweepPoint is one algorithm run at one epsilon.
type SweepPoint struct {
	Algorithm  string       `json:"algorithm"`
	Epsilon    float64      `json:"epsilon"`
	Samples    int          `json:"samples"`
	Precision  float64      `json:"precision"`
	ElapsedMs  float64      `json:"elapsed_ms"`
	Provenance E.Provenance `json:"provenance"`
	Reason     E.StopReason `json:"reason"`
}

// Sweep reruns every algorithm once per epsilon, holding the other
// parameters fixed, and reports the samples each run consumed.
func (h *Harness) Sweep(algorithms []string, epsilons []float64, seed int64,
	exact *E.Result) ([]SweepPoint, error) {

	points := make([]SweepPoint, 0, len(algorithms)*len(epsilons))
	for i, epsilon := range epsilons {
		params := h.Params
		params.Epsilon = epsilon
		if err := params.Validate(); err != nil {
			return nil, err
		}
		for _, o := range h.runAll(algorithms, params, i, U.DeriveSeed(seed, i), exact) {
			if o.Result == nil {
				log.WithFields(log.Fields{"algorithm": o.Algorithm, "epsilon": epsilon,
					"error": o.Err}).Warn("Skipping failed sweep point.")
				continue
			}
			points = append(points, SweepPoint{
				Algorithm:  o.Algorithm,
				Epsilon:    epsilon,
				Samples:    o.Result.Samples,
				Precision:  o.Precision,
				ElapsedMs:  o.ElapsedMs,
				Provenance: o.Result.Provenance,
				Reason:     o.Result.Reason,
			})
		}
	}
	return points, nil
}

// PlotSweep draws samples against epsilon with one line per algorithm.
func PlotSweep(dataset string, points []SweepPoint) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, ErrEmptyResult
	}
	byAlgorithm := make(map[string]plotter.XYs)
	order := make([]string, 0)
	for _, point := range points {
		if _, exists := byAlgorithm[point.Algorithm]; !exists {
			order = append(order, point.Algorithm)
		}
		byAlgorithm[point.Algorithm] = append(byAlgorithm[point.Algorithm],
			plotter.XY{X: point.Epsilon, Y: float64(point.Samples)})
	}

	p := plot.New()
	p.Title.Text = "Samples by epsilon: " + dataset
	p.X.Label.Text = "epsilon"
	p.Y.Label.Text = "samples"

	lines := make([]interface{}, 0, 2*len(order))
	for _, algorithm := range order {
		xys := byAlgorithm[algorithm]
		sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
		lines = append(lines, algorithm, xys)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return nil, errors.Wrap(err, "failed to add sweep lines")
	}
	return p, nil
}

// SaveSweepPlot renders the sweep as PNG and stores it next to the run report.
func SaveSweepPlot(fileManager filestore.FileManager, runID, dataset string, points []SweepPoint) error {
	p, err := PlotSweep(dataset, points)
	if err != nil {
		return err
	}
	writerTo, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return errors.Wrap(err, "failed to render sweep plot")
	}
	var buf bytes.Buffer
	if _, err := writerTo.WriteTo(&buf); err != nil {
		return errors.Wrap(err, "failed to render sweep plot")
	}
	path, name := fileManager.GetSweepPlotFilePathAndName(runID)
	if err := fileManager.Create(path, name, bytes.NewReader(buf.Bytes())); err != nil {
		return errors.Wrap(err, "failed to store sweep plot")
	}
	log.WithFields(log.Fields{"path": path, "file": name}).Info("Saved sweep plot.")
	return nil
}
