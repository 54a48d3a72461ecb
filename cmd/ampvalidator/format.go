package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ampproject/amphtml-sub099/internal/validator"
)

type formatter func(io.Writer, []validator.Result) error

func newFormatter(name string) (formatter, error) {
	switch name {
	case "text":
		return writeText, nil
	case "json":
		return writeJSON, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text or json)", name)
	}
}

// writeText prints one line per error followed by the file's status,
// in the layout compilers use so editors can jump to the location.
func writeText(w io.Writer, results []validator.Result) error {
	for _, r := range results {
		if r.Report == nil {
			continue
		}
		for _, e := range r.Report.Errors {
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n", r.Name, e.Line, e.Col, e.Code, e.Message); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", r.Name, r.Report.Status()); err != nil {
			return err
		}
	}
	return nil
}

type jsonResult struct {
	Source string            `json:"source"`
	Status string            `json:"status"`
	Errors []validator.Error `json:"errors"`
}

func writeJSON(w io.Writer, results []validator.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		if r.Report == nil {
			continue
		}
		out = append(out, jsonResult{
			Source: r.Name,
			Status: r.Report.Status(),
			Errors: r.Report.Errors,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
