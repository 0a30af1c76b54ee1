// Package labels detects what a stored photo shows.
package labels

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// Detection thresholds.
const (
	DefaultMaxLabels     int32   = 100
	DefaultMinConfidence float32 = 70
)

// Detector returns lowercased label names for an object in a bucket.
type Detector interface {
	DetectLabels(ctx context.Context, bucket, key string) ([]string, error)
}

// RekognitionAPI is the subset of the Rekognition client the detector uses.
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector detects labels with Amazon Rekognition, reading the
// image straight from S3.
type RekognitionDetector struct {
	client        RekognitionAPI
	maxLabels     int32
	minConfidence float32
}

// NewRekognitionDetector creates a detector with the default thresholds.
func NewRekognitionDetector(client RekognitionAPI) *RekognitionDetector {
	return &RekognitionDetector{
		client:        client,
		maxLabels:     DefaultMaxLabels,
		minConfidence: DefaultMinConfidence,
	}
}

// DetectLabels implements Detector.
func (d *RekognitionDetector) DetectLabels(ctx context.Context, bucket, key string) ([]string, error) {
	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
		MaxLabels:     aws.Int32(d.maxLabels),
		MinConfidence: aws.Float32(d.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels s3://%s/%s: %w", bucket, key, err)
	}

	names := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil || *l.Name == "" {
			continue
		}
		names = append(names, strings.ToLower(*l.Name))
	}
	return names, nil
}

// NopDetector detects nothing. It stands in when detection is disabled.
type NopDetector struct{}

// DetectLabels implements Detector.
func (NopDetector) DetectLabels(context.Context, string, string) ([]string, error) {
	return nil, nil
}
