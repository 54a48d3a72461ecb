package validator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ampproject/amphtml-sub099/internal/documents"
	"github.com/ampproject/amphtml-sub099/internal/log"
)

// ErrUnsupportedInput is returned for inputs that are neither CSS nor HTML.
var ErrUnsupportedInput = errors.New("unsupported input")

// Input is one stylesheet or document to validate. A zero Kind is
// detected from Name.
type Input struct {
	Name    string
	Content string
	Kind    documents.Kind
}

// Result pairs an input with its report. Report is nil when Err is set.
type Result struct {
	Name   string
	Report *Report
	Err    error
}

// Validate validates a single input according to its kind.
func Validate(in Input, opts Options) (*Report, error) {
	kind := in.Kind
	if kind == documents.KindUnknown {
		kind = documents.DetectKind(in.Name, "")
	}

	var report *Report
	switch kind {
	case documents.KindCSS:
		report = NewReport(ValidateStylesheet(in.Content, opts))
	case documents.KindHTML:
		r, err := ValidateDocument(in.Content, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
		report = r
	default:
		return nil, fmt.Errorf("%s: %w", in.Name, ErrUnsupportedInput)
	}

	report.Source = in.Name
	log.Debug("Validated %s as %s: %d errors", in.Name, kind, len(report.Errors))
	return report, nil
}

// ValidateMany validates inputs on up to opts.Workers goroutines and
// returns results in input order. Once ctx is done, inputs not yet
// started get ctx.Err().
func ValidateMany(ctx context.Context, inputs []Input, opts Options) []Result {
	results := make([]Result, len(inputs))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(inputs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				in := inputs[i]
				if err := ctx.Err(); err != nil {
					results[i] = Result{Name: in.Name, Err: err}
					continue
				}
				report, err := Validate(in, opts)
				results[i] = Result{Name: in.Name, Report: report, Err: err}
			}
		}()
	}

feed:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(inputs); j++ {
				results[j] = Result{Name: inputs[j].Name, Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
