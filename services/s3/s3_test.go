package s3

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	U "itemfreq/util"
)

var s3Driver *S3Driver

func TestMain(m *testing.M) {
	s3Driver = New("itemfreq-dev-test", "us-east-1", "reports")
	os.Exit(m.Run())
}

func TestGetDatasetFilePathAndName(t *testing.T) {
	path, name := s3Driver.GetDatasetFilePathAndName("fimi/t10i4d100k.dat")
	assert.Equal(t, "fimi/", path)
	assert.Equal(t, "t10i4d100k.dat", name)
}

func TestGetReportFilePathAndName(t *testing.T) {
	runId := U.GetUUID()
	resultPath, resultName := s3Driver.GetReportFilePathAndName(runId)
	assert.Equal(t, "reports/"+runId+"/", resultPath)
	assert.Equal(t, "report.json", resultName)
	assert.Equal(t, "itemfreq-dev-test", s3Driver.GetBucketName())
	assert.Equal(t, "us-east-1", s3Driver.Region)
}
