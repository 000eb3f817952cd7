// Package tokens estimates token counts for memory content. Estimates
// are stored in category indexes so consumers can do budget math
// without re-reading files, so the estimator must be deterministic for
// a given input.
package tokens

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator turns text into a deterministic token count.
type Estimator interface {
	Estimate(text string) int
}

// EstimatorFunc adapts a plain function to the Estimator interface.
type EstimatorFunc func(text string) int

func (f EstimatorFunc) Estimate(text string) int {
	return f(text)
}

// Heuristic approximates tokens as len/4, roughly accurate for English
// text under typical LLM tokenization. Fast and dependency-free.
func Heuristic() Estimator {
	return EstimatorFunc(func(text string) int {
		if len(text) == 0 {
			return 0
		}
		n := len(text) / 4
		if n == 0 {
			n = 1
		}
		return n
	})
}

const defaultEncoding = "cl100k_base"

type tiktokenEstimator struct {
	once     sync.Once
	enc      *tiktoken.Tiktoken
	fallback Estimator
}

func (t *tiktokenEstimator) Estimate(text string) int {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(defaultEncoding)
		if err != nil {
			slog.Debug("tokens: tiktoken unavailable, using heuristic", "err", err)
			return
		}
		t.enc = enc
	})
	if t.enc == nil {
		return t.fallback.Estimate(text)
	}
	if len(text) == 0 {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Default returns the standard estimator: tiktoken's cl100k_base
// encoding, falling back to the heuristic if the encoding cannot be
// initialized. The encoding is loaded lazily on first use.
func Default() Estimator {
	return &tiktokenEstimator{fallback: Heuristic()}
}
