package filestore

import (
	"io"
	"path"
	"strings"
)

// FileManager hides where datasets and experiment reports live.
type FileManager interface {
	Create(dir, fileName string, reader io.ReadSeeker) error
	Get(path, fileName string) (io.ReadCloser, error)
	GetBucketName() string
	GetDatasetFilePathAndName(datasetPath string) (string, string)
	GetReportDir(runId string) string
	GetReportFilePathAndName(runId string) (string, string)
	GetSweepPlotFilePathAndName(runId string) (string, string)
}

const (
	ReportFileName    = "report.json"
	SweepPlotFileName = "epsilon_sweep.png"
)

// SplitDatasetPath splits a relative object path into its directory,
// with a trailing slash, and its file name.
func SplitDatasetPath(datasetPath string) (string, string) {
	dir, name := path.Split(strings.TrimPrefix(datasetPath, "/"))
	return dir, name
}

// ReportDir is the bucket relative directory of one run's outputs.
func ReportDir(reportRoot, runId string) string {
	return path.Join(reportRoot, runId) + "/"
}
