//go:build !onnx
// +build !onnx

package model

import (
	"context"
	"fmt"
)

// onnxBackend is a stub used when built without the "onnx" build tag.
type onnxBackend struct{ numClasses int }

// NewONNXBackend is a stub when the package is built without ONNX support.
func NewONNXBackend(modelPath string, numClasses int) (Backend, error) {
	return &onnxBackend{numClasses: numClasses}, nil
}

func (p *onnxBackend) NumClasses() int { return p.numClasses }

func (p *onnxBackend) Scores(ctx context.Context, ids []int64) ([]float64, error) {
	return nil, fmt.Errorf("onnx backend not available: build with -tags onnx and provide an exported model")
}
