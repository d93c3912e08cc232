package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	E "itemfreq/estimator"
	"itemfreq/filestore"
	"itemfreq/runstore"
	U "itemfreq/util"
)

type Report struct {
	RunID          string            `json:"run_id"`
	Dataset        string            `json:"dataset"`
	Transactions   int               `json:"transactions"`
	ItemCount      int               `json:"item_count"`
	Params         E.Params          `json:"params"`
	Seed           int64             `json:"seed"`
	Trials         int               `json:"trials"`
	Algorithms     []string          `json:"algorithms"`
	Exact          *E.Result         `json:"exact"`
	ExactElapsedMs float64           `json:"exact_elapsed_ms"`
	CreatedAt      time.Time         `json:"created_at"`
	Outcomes       []*Outcome        `json:"outcomes"`
	Summaries      []Summary         `json:"summaries"`
	FixedSample    *FixedSamplePoint `json:"fixed_sample,omitempty"`
	Sweep          []SweepPoint      `json:"sweep,omitempty"`
}

func round(value float64) float64 {
	rounded, err := U.FloatRoundOffWithPrecision(value, U.DefaultPrecision)
	if err != nil {
		return value
	}
	return rounded
}

// WriteText prints a human readable report.
func (r *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Run %s on %s: %d transactions, %d items\n", r.RunID, r.Dataset,
		r.Transactions, r.ItemCount)
	fmt.Fprintf(w, "k=%d epsilon=%v delta=%v sample_inc=%d trials=%d seed=%d\n",
		r.Params.K, r.Params.Epsilon, r.Params.Delta, r.Params.SampleInc, r.Trials, r.Seed)
	if r.Exact != nil {
		tops := make([]string, len(r.Exact.Itemsets))
		for i, s := range r.Exact.Itemsets {
			tops[i] = fmt.Sprintf("%s=%v", s, round(r.Exact.Frequencies[i]))
		}
		fmt.Fprintf(w, "Exact top-%d (%.1fms): %s\n", r.Params.K, r.ExactElapsedMs, strings.Join(tops, " "))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "algorithm\tprecision\tstd\tperfect\tsamples\tmax samples\telapsed ms\tworst error\tfailures")
	for _, s := range r.Summaries {
		fmt.Fprintf(tw, "%s\t%v\t%v\t%v\t%v\t%d\t%v\t%v\t%d\n", s.Algorithm, round(s.MeanPrecision),
			round(s.StdPrecision), round(s.PerfectFraction), round(s.MeanSamples), s.MaxSamples,
			round(s.MeanElapsedMs), round(s.MeanWorstError), s.Failures)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if r.FixedSample != nil {
		fmt.Fprintf(w, "Fixed sample of %d: worst error %v\n", r.FixedSample.Samples,
			round(r.FixedSample.WorstError))
	}

	if len(r.Sweep) > 0 {
		fmt.Fprintln(w, "Epsilon sweep:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "algorithm\tepsilon\tsamples\tprecision\treason")
		for _, p := range r.Sweep {
			fmt.Fprintf(tw, "%s\t%v\t%d\t%v\t%s\n", p.Algorithm, p.Epsilon, p.Samples,
				round(p.Precision), p.Reason)
		}
		return tw.Flush()
	}
	return nil
}

// Save writes the JSON report through fileManager and records the run in
// runStore. Either may be nil.
func (r *Report) Save(fileManager filestore.FileManager, runStore *runstore.RunStore) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal report")
	}
	logCtx := log.WithFields(log.Fields{"run_id": r.RunID, "dataset": r.Dataset})

	if fileManager != nil {
		path, name := fileManager.GetReportFilePathAndName(r.RunID)
		if err := fileManager.Create(path, name, bytes.NewReader(raw)); err != nil {
			return errors.Wrap(err, "failed to store report")
		}
		logCtx.WithFields(log.Fields{"path": path, "file": name}).Info("Saved report.")
	}

	if runStore != nil {
		record := &runstore.Record{
			RunID:      r.RunID,
			Dataset:    r.Dataset,
			CreatedAt:  r.CreatedAt,
			Algorithms: r.Algorithms,
			Trials:     r.Trials,
			Report:     raw,
		}
		if err := runStore.Put(record); err != nil {
			return errors.Wrap(err, "failed to record run")
		}
	}
	return nil
}
