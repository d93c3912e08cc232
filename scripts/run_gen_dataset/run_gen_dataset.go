package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"itemfreq/datagen"
	serviceDisk "itemfreq/services/disk"
)

func main() {
	outputFileFlag := flag.String("output_file", "", "Path of the dataset file to write.")
	transactionsFlag := flag.Int("transactions", 100000, "Number of transactions.")
	itemsFlag := flag.Int("items", 1000, "Number of distinct item ids. Ids run from 1.")
	avgLengthFlag := flag.Int("avg_length", 10, "Average items per transaction.")
	zipfSFlag := flag.Float64("zipf_s", 1.2, "Zipf exponent of item popularity. Must be above 1.")
	seedFlag := flag.Int64("seed", 1, "Generator seed.")
	flag.Parse()

	log.SetFormatter(&prefixed.TextFormatter{FullTimestamp: true})

	if *outputFileFlag == "" {
		log.Fatal("output_file is required.")
	}
	opts := datagen.Options{
		Transactions: *transactionsFlag,
		Items:        *itemsFlag,
		AvgLength:    *avgLengthFlag,
		ZipfS:        *zipfSFlag,
		Seed:         *seedFlag,
	}
	logCtx := log.WithFields(log.Fields{"file": *outputFileFlag, "options": opts})

	if err := serviceDisk.MkdirAll(filepath.Dir(*outputFileFlag)); err != nil {
		logCtx.WithError(err).Fatal("Failed to create output dir.")
	}
	file, err := os.Create(*outputFileFlag)
	if err != nil {
		logCtx.WithError(err).Fatal("Failed to create output file.")
	}
	defer file.Close()

	start := time.Now()
	if err := datagen.Write(file, opts); err != nil {
		logCtx.WithError(err).Fatal("Failed to generate dataset.")
	}
	logCtx.WithField("elapsed", time.Since(start).String()).Info("Generated dataset.")
}
