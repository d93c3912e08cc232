package s3

import (
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"

	"itemfreq/filestore"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         *s3.S3
	BucketName string
	Region     string
	reportRoot string
}

func New(bucketName, region, reportRoot string) *S3Driver {
	session := session.New()
	s3 := s3.New(session, aws.NewConfig().WithRegion(region))
	return &S3Driver{s3: s3, BucketName: bucketName, Region: region, reportRoot: reportRoot}
}

func (sd *S3Driver) Create(dir, fileName string, reader io.ReadSeeker) error {
	log.WithFields(log.Fields{
		"Dir":        dir,
		"BucketName": sd.BucketName,
		"Region":     sd.Region,
	}).Debug("S3Driver Creating file")

	input := &s3.PutObjectInput{
		Bucket: aws.String(sd.BucketName),
		Body:   reader,
		Key:    aws.String(dir + fileName),
	}
	_, err := sd.s3.PutObject(input)
	return err
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(dir + fileName),
	}
	op, err := sd.s3.GetObject(&input)
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

func (sd *S3Driver) GetBucketName() string {
	return sd.BucketName
}

func (sd *S3Driver) GetDatasetFilePathAndName(datasetPath string) (string, string) {
	return filestore.SplitDatasetPath(datasetPath)
}

func (sd *S3Driver) GetReportDir(runId string) string {
	return filestore.ReportDir(sd.reportRoot, runId)
}

func (sd *S3Driver) GetReportFilePathAndName(runId string) (string, string) {
	return sd.GetReportDir(runId), filestore.ReportFileName
}

func (sd *S3Driver) GetSweepPlotFilePathAndName(runId string) (string, string) {
	return sd.GetReportDir(runId), filestore.SweepPlotFileName
}
