package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"gopkg.in/yaml.v3"

	"bench-harness/types"
)

func NewBackend() *Backend {
	return &Backend{
		Name: "s3",
	}
}

type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Backend struct {
	Name       string
	Endpoint   string
	Region     string
	BucketName string
	AccessKey  string
	SecretKey  string
	Client     S3Client `json:"-"`
}

func (b *Backend) PreCmd(_ context.Context, _ string) error {
	b.BucketName = os.Getenv("AWS_BUCKET_NAME")
	if b.BucketName == "" {
		return errors.New("AWS_BUCKET_NAME environment variable not set")
	}
	b.AccessKey = os.Getenv("AWS_ACCESS_KEY")
	if b.AccessKey == "" {
		return errors.New("AWS_ACCESS_KEY environment variable not set")
	}
	b.SecretKey = os.Getenv("AWS_SECRET_KEY")
	if b.SecretKey == "" {
		return errors.New("AWS_SECRET_KEY environment variable not set")
	}

	b.Endpoint = os.Getenv("AWS_ENDPOINT")
	b.Region = os.Getenv("AWS_REGION")
	b.Client = s3.New(s3.Options{
		Region:       b.Region,
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider(b.AccessKey, b.SecretKey, ""),
	}, func(o *s3.Options) {
		if b.Endpoint != "" {
			o.BaseEndpoint = &b.Endpoint
		}
	})

	return nil
}

func (b *Backend) Read(ctx context.Context, run string) (*types.Results, error) {
	filePath := path.Join("runs", run, "results.yaml")
	remoteFile, err := b.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.BucketName,
		Key:    &filePath,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("couldn't find object: %s", filePath)
		}
		return nil, fmt.Errorf("couldn't download object: %v", err)
	}
	defer func(Body io.ReadCloser) {
		err = Body.Close()
		if err != nil {
			return
		}
	}(remoteFile.Body)
	raw, err := io.ReadAll(remoteFile.Body)
	if err != nil {
		return nil, err
	}

	var results types.Results
	if err = yaml.Unmarshal(raw, &results); err != nil {
		return nil, err
	}

	return &results, nil
}

func (b *Backend) Write(ctx context.Context, run string, results *types.Results) error {
	raw, err := yaml.Marshal(results)
	if err != nil {
		return err
	}
	filePath := path.Join("runs", run, "results.yaml")
	if err := b.uploadFile(ctx, string(raw), filePath); err != nil {
		return fmt.Errorf("couldn't upload object: %v", err)
	}
	return nil
}

func (b *Backend) uploadFile(ctx context.Context, fileContent string, filePath string) error {
	br := bytes.NewReader([]byte(fileContent))
	_, err := b.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &b.BucketName,
		Key:    &filePath,
		Body:   br,
	})
	return err
}

func (b *Backend) Delete(ctx context.Context, run string) error {
	runDir := path.Join("runs", run)
	objects, err := b.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &b.BucketName,
		Prefix: &runDir,
	})
	if err != nil {
		return fmt.Errorf("couldn't list objects: %v", err)
	}
	if objects.KeyCount == nil || *objects.KeyCount == 0 {
		return nil
	}
	objectsToDelete := make([]s3Types.ObjectIdentifier, *objects.KeyCount)
	for i, object := range objects.Contents {
		objectsToDelete[i] = s3Types.ObjectIdentifier{Key: object.Key}
	}
	_, err = b.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: &b.BucketName,
		Delete: &s3Types.Delete{
			Objects: objectsToDelete,
		},
	})
	if err != nil {
		return fmt.Errorf("couldn't delete objects: %v", err)
	}
	return nil
}
