package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gonum.org/v1/plot/vg"

	C "itemfreq/config"
	D "itemfreq/datastore"
	"itemfreq/filestore"
	H "itemfreq/harness"
	M "itemfreq/metrics"
	"itemfreq/runstore"
	serviceDisk "itemfreq/services/disk"
	serviceGCS "itemfreq/services/gcstorage"
	serviceS3 "itemfreq/services/s3"
	U "itemfreq/util"
)

func main() {
	datasetFlag := flag.String("dataset", "", "Name of a dataset in the config registry.")
	algorithmsFlag := flag.String("algorithms", "",
		"Optional: Comma separated algorithms. ex: exact,new-bound,RU-bound,progressive,RU-progressive")
	trialsFlag := flag.Int("trials", 0, "Optional: Trials per algorithm. Defaults to the config value.")
	seedFlag := flag.Int64("seed", 0, "Optional: Base seed. Defaults to the config value.")
	sweepEpsilonsFlag := flag.String("sweep_epsilons", "", "Optional: Comma separated epsilons to sweep. ex: 0.1,0.05,0.01")
	plotFileFlag := flag.String("plot_file", "", "Optional: Local png path for the sweep chart.")

	if err := C.Init(); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}
	if C.IsDevelopment() {
		log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})
	}
	config := C.GetConfig()

	dataset, err := config.GetDataset(*datasetFlag)
	if err != nil {
		log.WithError(err).WithField("known", config.DatasetNames()).Fatal("Dataset not found.")
	}

	algorithms := config.Experiment.Algorithms
	if *algorithmsFlag != "" {
		algorithms = U.GetStringListFromString(*algorithmsFlag)
	}
	if err := H.ValidateAlgorithms(algorithms); err != nil {
		log.WithError(err).WithField("known", H.AlgorithmNames).Fatal("Invalid algorithms.")
	}
	trials := config.Experiment.Trials
	if *trialsFlag > 0 {
		trials = *trialsFlag
	}
	seed := config.Experiment.Seed
	if *seedFlag != 0 {
		seed = *seedFlag
	}
	epsilons, err := U.GetFloatListFromString(*sweepEpsilonsFlag)
	if err != nil {
		log.WithError(err).Fatal("Invalid sweep_epsilons.")
	}

	exporter := M.InitMetrics(config.Env, time.Minute)
	defer M.Flush(exporter)

	diskManager := serviceDisk.New(config.Storage.BaseDir, config.ReportDir)
	cloudManagers, err := initCloudManagers(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize cloud storage.")
	}
	var reportManager filestore.FileManager = diskManager
	if manager, exists := cloudManagers[config.Storage.Backend]; exists {
		reportManager = manager
	}

	datasetStore, err := D.New(config.DatasetCacheSize, diskManager, cloudManagers)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize dataset store.")
	}
	loadStart := time.Now()
	store, err := datasetStore.GetStore(dataset)
	if err != nil {
		log.WithError(err).WithField("dataset", dataset.Name).Fatal("Failed to load dataset.")
	}
	M.RecordLatency(M.LatencyDatasetLoading, "", float64(time.Since(loadStart).Milliseconds()))

	harness, err := H.New(dataset.Name, store, dataset.ItemCount, config.Experiment.Params)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize harness.")
	}
	if C.IsRedisEnabled() {
		harness.WithExactCache(&H.RedisExactCache{ExpirySecs: config.Redis.ExpirySecs})
	}

	runID := U.GetUUID()
	logCtx := log.WithFields(log.Fields{"run_id": runID, "dataset": dataset.Name,
		"algorithms": algorithms, "trials": trials})
	logCtx.Info("Starting top-k experiment.")

	report, err := harness.Run(runID, algorithms, trials, seed)
	if err != nil {
		logCtx.WithError(err).Fatal("Experiment failed.")
	}

	if len(epsilons) > 0 {
		report.Sweep, err = harness.Sweep(algorithms, epsilons, seed, report.Exact)
		if err != nil {
			logCtx.WithError(err).Fatal("Epsilon sweep failed.")
		}
		if err := H.SaveSweepPlot(reportManager, runID, dataset.Name, report.Sweep); err != nil {
			logCtx.WithError(err).Error("Failed to save sweep plot.")
		}
		if *plotFileFlag != "" {
			savePlotLocally(*plotFileFlag, dataset.Name, report.Sweep)
		}
	}

	runStore, err := runstore.Open(config.RunStorePath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to open run store. Run will not be recorded.")
	} else {
		defer runStore.Close()
	}
	if err := report.Save(reportManager, runStore); err != nil {
		logCtx.WithError(err).Error("Failed to save report.")
	}

	if err := report.WriteText(os.Stdout); err != nil {
		logCtx.WithError(err).Error("Failed to print report.")
	}
	logCtx.Info(fmt.Sprintf("Done in %s.", U.SecondsToHMSString(int64(time.Since(report.CreatedAt).Seconds()))))
}

// initCloudManagers builds a bucket driver for the configured backend and
// for every dataset that reads from another one.
func initCloudManagers(config *C.Configuration) (map[string]filestore.FileManager, error) {
	needed := map[string]bool{config.Storage.Backend: true}
	for _, name := range config.DatasetNames() {
		dataset, _ := config.GetDataset(name)
		needed[dataset.Source] = true
	}

	managers := make(map[string]filestore.FileManager)
	if needed[C.StorageGCS] {
		gcsManager, err := serviceGCS.New(config.Storage.Bucket, config.ReportDir)
		if err != nil {
			return nil, err
		}
		managers[C.StorageGCS] = gcsManager
	}
	if needed[C.StorageS3] {
		managers[C.StorageS3] = serviceS3.New(config.Storage.Bucket, config.Storage.Region, config.ReportDir)
	}
	return managers, nil
}

func savePlotLocally(path, dataset string, points []H.SweepPoint) {
	p, err := H.PlotSweep(dataset, points)
	if err != nil {
		log.WithError(err).Error("Failed to draw sweep plot.")
		return
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		log.WithError(err).WithField("file", path).Error("Failed to write sweep plot.")
		return
	}
	log.WithField("file", path).Info("Wrote sweep plot.")
}
