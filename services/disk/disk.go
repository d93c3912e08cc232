package disk

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"itemfreq/filestore"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// Analogus to bucket name.
	baseDir    string
	reportRoot string
}

func New(baseDir, reportRoot string) *DiskDriver {
	return &DiskDriver{baseDir: baseDir, reportRoot: reportRoot}
}

func MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (dd *DiskDriver) Create(path, fileName string, reader io.ReadSeeker) error {
	err := MkdirAll(path)
	if err != nil {
		log.WithError(err).Errorln("Failed to create dir")
		return err
	}

	file, err := os.Create(filepath.Join(path, fileName))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(file, reader)
	return err
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(path, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     path,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	file, err := os.OpenFile(filepath.Join(path, fileName), os.O_RDONLY, 0444)
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (dd *DiskDriver) GetBucketName() string {
	return dd.baseDir
}

// GetDatasetFilePathAndName keeps absolute paths as they are and resolves
// relative ones against the base dir.
func (dd *DiskDriver) GetDatasetFilePathAndName(datasetPath string) (string, string) {
	if filepath.IsAbs(datasetPath) {
		return filepath.Dir(datasetPath) + "/", filepath.Base(datasetPath)
	}
	dir, name := filestore.SplitDatasetPath(datasetPath)
	return dd.withBase(dir), name
}

func (dd *DiskDriver) GetReportDir(runId string) string {
	return dd.withBase(filestore.ReportDir(dd.reportRoot, runId))
}

func (dd *DiskDriver) GetReportFilePathAndName(runId string) (string, string) {
	return dd.GetReportDir(runId), filestore.ReportFileName
}

func (dd *DiskDriver) GetSweepPlotFilePathAndName(runId string) (string, string) {
	return dd.GetReportDir(runId), filestore.SweepPlotFileName
}

func (dd *DiskDriver) withBase(dir string) string {
	joined := filepath.Join(dd.baseDir, dir)
	if !strings.HasSuffix(joined, "/") {
		joined = joined + "/"
	}
	return joined
}
