// Package eval grades the labeler against a gold CSV of expected
// labels and severity levels.
package eval

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	labeler "github.com/skymod/labeler"
	"github.com/skymod/labeler/posts"
)

// GoldRow is one row of a gold dataset: a post URL with its expected
// labels and, optionally, an expected severity level.
type GoldRow struct {
	URL      string
	Labels   []string
	Severity int // 0 means not annotated
}

// ParseGold reads a gold CSV. The Labels column accepts either a JSON
// array or a comma/semicolon-delimited list; Severity_level is optional.
func ParseGold(r io.Reader) ([]GoldRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read gold header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	urlIdx, ok := col["URL"]
	if !ok {
		return nil, fmt.Errorf("gold csv missing URL column")
	}
	labelsIdx, hasLabels := col["Labels"]
	sevIdx, hasSev := col["Severity_level"]

	var rows []GoldRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read gold row: %w", err)
		}

		field := func(idx int) string {
			if idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		url := field(urlIdx)
		if url == "" {
			continue
		}

		row := GoldRow{URL: url}
		if hasLabels {
			row.Labels = parseLabels(field(labelsIdx))
		}
		if hasSev {
			if sev, err := strconv.Atoi(field(sevIdx)); err == nil {
				row.Severity = sev
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseGoldFile reads a gold CSV from disk.
func ParseGoldFile(path string) ([]GoldRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gold file: %w", err)
	}
	defer f.Close()
	return ParseGold(f)
}

// parseLabels accepts a JSON array or a comma/semicolon-delimited list.
func parseLabels(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var labels []string
		if err := json.Unmarshal([]byte(raw), &labels); err == nil {
			return labels
		}
	}

	var labels []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			labels = append(labels, p)
		}
	}
	return labels
}

// Report holds the grading counters for one gold dataset.
type Report struct {
	Total   int // rows in the dataset
	Tested  int // rows successfully classified
	Skipped int // rows that failed to fetch or classify

	ExactMatches int // rows with no missing labels and at most one extra

	TP int // labels predicted and expected
	FP int // labels predicted but not expected
	FN int // labels expected but not predicted

	SeverityCorrect int
	SeverityTotal   int // rows carrying an expected severity
}

// Precision is the label-level precision across all rows.
func (r Report) Precision() float64 {
	if r.TP+r.FP == 0 {
		return 0
	}
	return float64(r.TP) / float64(r.TP+r.FP)
}

// Recall is the label-level recall across all rows.
func (r Report) Recall() float64 {
	if r.TP+r.FN == 0 {
		return 0
	}
	return float64(r.TP) / float64(r.TP+r.FN)
}

// ExactMatchRatio is the share of tested rows graded as exact matches.
func (r Report) ExactMatchRatio() float64 {
	if r.Tested == 0 {
		return 0
	}
	return float64(r.ExactMatches) / float64(r.Tested)
}

// SeverityAccuracy is the share of severity-annotated rows predicted
// at the expected level.
func (r Report) SeverityAccuracy() float64 {
	if r.SeverityTotal == 0 {
		return 0
	}
	return float64(r.SeverityCorrect) / float64(r.SeverityTotal)
}

// Classifier grades one post reference. *client.Service.LabelPost fits.
type Classifier interface {
	LabelPost(ctx context.Context, ref string) (*labeler.Result, error)
}

// Runner grades a classifier against gold rows.
type Runner struct {
	Classifier Classifier
}

// Run classifies every gold row and accumulates a report. Rows that
// fail to classify are skipped with a warning. The review marker is
// ignored on both sides, and severity labels are compared separately
// from category labels.
func (r *Runner) Run(ctx context.Context, rows []GoldRow) (*Report, error) {
	report := &Report{Total: len(rows)}

	for _, row := range rows {
		result, err := r.Classifier.LabelPost(ctx, posts.URIToURL(row.URL))
		if err != nil {
			log.Printf("[eval] skipping %s: %v", row.URL, err)
			report.Skipped++
			continue
		}
		report.Tested++

		expected := coreLabels(row.Labels)
		predicted := coreLabels(result.Labels)

		missing, extra := 0, 0
		for label := range expected {
			if predicted[label] {
				report.TP++
			} else {
				report.FN++
				missing++
			}
		}
		for label := range predicted {
			if !expected[label] {
				report.FP++
				extra++
			}
		}

		// Exact match tolerates one extra predicted label.
		if missing == 0 && extra <= 1 {
			report.ExactMatches++
		}

		if row.Severity > 0 {
			report.SeverityTotal++
			if int(result.Severity) == row.Severity {
				report.SeverityCorrect++
			}
		}
	}

	return report, nil
}

// RunGoldFile grades a classifier against a gold CSV on disk.
func (r *Runner) RunGoldFile(ctx context.Context, path string) (*Report, error) {
	rows, err := ParseGoldFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, rows)
}

// coreLabels filters out severity and review-marker labels, leaving only
// category labels for comparison.
func coreLabels(labels []string) map[string]bool {
	core := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == labeler.ReviewMarkerLabel || strings.HasPrefix(l, "severity-level-") {
			continue
		}
		core[l] = true
	}
	return core
}
