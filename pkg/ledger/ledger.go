package ledger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	appConfig "lolharvest/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Ledger is the append-only run history.
// One line per significant event, purely observational: resume logic
// relies on the artifacts already present on disk, never on this file.
type Ledger struct {
	mu       sync.Mutex
	logFile  *os.File
	filePath string
}

// Create the ledger, appending to the file if it already exists.
func CreateLedger(filePath string) (*Ledger, error) {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		logFile:  f,
		filePath: f.Name(),
	}, nil
}

// Path of the underlying file.
func (l *Ledger) Path() string {
	return l.filePath
}

// Record a simple info event.
func (l *Ledger) Infof(format string, args ...interface{}) {
	l.write("[INFO]", format, args...)
}

// Record a error event.
func (l *Ledger) Errorf(format string, args ...interface{}) {
	l.write("[ERROR]", format, args...)
}

// Write a empty line.
func (l *Ledger) EmptyLine() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logFile.WriteString("\n")
}

// Write something to the ledger.
func (l *Ledger) write(infoType string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("%-8s %s %s\n", infoType, timestamp, fmt.Sprintf(format, args...))

	l.logFile.WriteString(line)
}

// Close the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.logFile.Close()
}

// Upload the ledger to a s3 bucket.
// No-op friendly: callers should only invoke it when a bucket is configured.
func (l *Ledger) UploadToS3Bucket(bucket appConfig.BucketConfiguration, objectKey string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Reopen for reading, since the write handle is append-only.
	f, err := os.Open(l.filePath)
	if err != nil {
		return fmt.Errorf("failed to open the ledger file: %v", err)
	}
	defer f.Close()

	// Get the config.
	cfg := aws.Config{
		Region: bucket.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				bucket.AccessKey,
				bucket.AccessSecret,
				"",
			),
		),
	}

	// Create the client.
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(bucket.Endpoint)
	})

	// Run the put.
	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(bucket.LogBucket),
		Key:    aws.String(objectKey),
		Body:   f,
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3 bucket: %v", objectKey, err)
	}

	return nil
}
