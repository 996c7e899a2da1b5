// store/s3.go
// Copyright(c) 2025 skyroute contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package store

import (
	"bytes"
	"context"
	"io"
	"os"
	fpath "path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend stores objects in an S3 bucket. Credentials come from the
// usual AWS configuration chain, or from SKYROUTE_S3_KEY_ID /
// SKYROUTE_S3_KEY_SECRET if those are set.
type S3Backend struct {
	ctx    context.Context
	client *s3.Client
	bucket string
}

func MakeS3Backend(ctx context.Context, bucket string) (*S3Backend, error) {
	var opts []func(*config.LoadOptions) error
	if id, secret := os.Getenv("SKYROUTE_S3_KEY_ID"), os.Getenv("SKYROUTE_S3_KEY_SECRET"); id != "" && secret != "" {
		opts = append(opts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(id, secret, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &S3Backend{
		ctx:    ctx,
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

func (sb *S3Backend) List(path string) (map[string]int64, error) {
	path = fpath.Clean(path)

	m := make(map[string]int64)
	var token *string
	for {
		out, err := sb.client.ListObjectsV2(sb.ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(sb.bucket),
			Prefix:            aws.String(path),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}

		for _, obj := range out.Contents {
			if fpath.Clean(*obj.Key) != path {
				m[*obj.Key] = aws.ToInt64(obj.Size)
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	return m, nil
}

func (sb *S3Backend) OpenRead(path string) (io.ReadCloser, error) {
	out, err := sb.client.GetObject(sb.ctx, &s3.GetObjectInput{
		Bucket: aws.String(sb.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

func (sb *S3Backend) Store(path string, r io.Reader) (int64, error) {
	// PutObject wants a seekable body, so buffer the object first.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return n, err
	}

	_, err = sb.client.PutObject(sb.ctx, &s3.PutObjectInput{
		Bucket: aws.String(sb.bucket),
		Key:    aws.String(path),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	return n, err
}

func (sb *S3Backend) StoreObject(path string, object any) (int64, error) {
	var buf bytes.Buffer
	if _, err := encodeObject(&buf, object); err != nil {
		return 0, err
	}
	return sb.Store(path, &buf)
}

func (sb *S3Backend) LoadObject(path string, object any) error {
	r, err := sb.OpenRead(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return decodeObject(r, object)
}

func (sb *S3Backend) Delete(path string) error {
	_, err := sb.client.DeleteObject(sb.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(sb.bucket),
		Key:    aws.String(path),
	})
	return err
}

func (sb *S3Backend) Close() {}
