//go:build onnx
// +build onnx

package model

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNX-backed scoring under the onnx build tag. The exported model is
// expected to take a single int64 id sequence and emit one float logit row
// per class; training always happens on the native classifier, this backend
// only serves inference on exported graphs.
type onnxBackend struct {
	modelPath  string
	numClasses int

	mu          sync.Mutex
	session     *ort.DynamicAdvancedSession
	inputNames  []string
	outputNames []string
}

// NewONNXBackend opens an exported classifier graph for scoring.
func NewONNXBackend(modelPath string, numClasses int) (Backend, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("onnx model path is required")
	}
	return &onnxBackend{modelPath: modelPath, numClasses: numClasses}, nil
}

func (p *onnxBackend) NumClasses() int { return p.numClasses }

func (p *onnxBackend) ensureSession() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session != nil {
		return nil
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnx runtime: %w", err)
		}
	}
	// Probe IO
	ins, outs, err := ort.GetInputOutputInfo(p.modelPath)
	if err != nil {
		return fmt.Errorf("get IO info: %w", err)
	}
	var inputNames []string
	for _, ii := range ins {
		if ii.DataType == ort.TensorElementDataTypeInt64 {
			inputNames = append(inputNames, ii.Name)
			break
		}
	}
	if len(inputNames) == 0 {
		return fmt.Errorf("could not determine ONNX input name")
	}
	var outputNames []string
	for _, oi := range outs {
		if oi.DataType == ort.TensorElementDataTypeFloat {
			outputNames = append(outputNames, oi.Name)
			break
		}
	}
	if len(outputNames) == 0 {
		return fmt.Errorf("could not determine ONNX output name")
	}

	s, err := ort.NewDynamicAdvancedSession(p.modelPath, inputNames, outputNames, nil)
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}
	p.session = s
	p.inputNames = inputNames
	p.outputNames = outputNames
	return nil
}

func (p *onnxBackend) Scores(ctx context.Context, ids []int64) ([]float64, error) {
	if err := p.ensureSession(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		ids = []int64{0}
	}

	in, err := ort.NewTensor(ort.NewShape(1, int64(len(ids))), ids)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer in.Destroy()

	outputs := []ort.Value{nil}
	if err := p.session.Run([]ort.Value{in}, outputs); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected ONNX output type")
	}
	defer out.Destroy()

	data := out.GetData()
	if len(data) < p.numClasses {
		return nil, fmt.Errorf("ONNX output has %d values, want %d", len(data), p.numClasses)
	}
	scores := make([]float64, p.numClasses)
	for c := 0; c < p.numClasses; c++ {
		scores[c] = float64(data[c])
	}
	softmaxInPlace(scores)
	return scores, nil
}
