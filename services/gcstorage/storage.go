package gcstorage

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"

	"itemfreq/filestore"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
	reportRoot string
}

func New(bucketName, reportRoot string) (*GCSDriver, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	d := &GCSDriver{
		BucketName: bucketName,
		client:     client,
		reportRoot: reportRoot,
	}
	return d, nil
}

func (gcsd *GCSDriver) Create(dir, fileName string, reader io.ReadSeeker) error {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, reader); err != nil {
		w.Close()
		return err
	}
	err := w.Close()
	return err
}

func (gcsd *GCSDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{"Bucket": gcsd.BucketName, "Dir": dir,
		"FileName": fileName}).Debug("GCSDriver Opening object")
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (gcsd *GCSDriver) GetBucketName() string {
	return gcsd.BucketName
}

func (gcsd *GCSDriver) GetDatasetFilePathAndName(datasetPath string) (string, string) {
	return filestore.SplitDatasetPath(datasetPath)
}

func (gcsd *GCSDriver) GetReportDir(runId string) string {
	return filestore.ReportDir(gcsd.reportRoot, runId)
}

func (gcsd *GCSDriver) GetReportFilePathAndName(runId string) (string, string) {
	return gcsd.GetReportDir(runId), filestore.ReportFileName
}

func (gcsd *GCSDriver) GetSweepPlotFilePathAndName(runId string) (string, string) {
	return gcsd.GetReportDir(runId), filestore.SweepPlotFileName
}
