package sentiment

import (
	"context"
	"errors"
	"sync"
)

var errHard = errors.New("bad request")

// fakeOracle answers from a text → polarity table and records every call
type fakeOracle struct {
	mu          sync.Mutex
	polarities  map[string]float64
	batchErr    error
	singleErr   map[string]error
	batchCalls  [][]string
	singleCalls []string
}

func newFakeOracle(p map[string]float64) *fakeOracle {
	return &fakeOracle{polarities: p, singleErr: make(map[string]error)}
}

func (f *fakeOracle) Score(_ context.Context, text string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.singleCalls = append(f.singleCalls, text)
	if err := f.singleErr[text]; err != nil {
		return 0, err
	}
	return f.polarities[text], nil
}

func (f *fakeOracle) ScoreBatch(_ context.Context, texts []string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchCalls = append(f.batchCalls, append([]string(nil), texts...))
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = f.polarities[t]
	}
	return out, nil
}

func (f *fakeOracle) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batchCalls) + len(f.singleCalls)
}
