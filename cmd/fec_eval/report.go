package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

func writeMarkdown(path string, s *sweep, results []*result) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return renderMarkdown(f, s, results)
}

func renderMarkdown(w io.Writer, s *sweep, results []*result) error {
	type code struct {
		Scheme scheme
		Factor int
	}
	probSet := map[float64]struct{}{}
	byCode := map[code]map[float64]*result{}
	var codes []code
	for _, r := range results {
		c := code{r.Scheme, r.Factor}
		if byCode[c] == nil {
			byCode[c] = map[float64]*result{}
			codes = append(codes, c)
		}
		byCode[c][r.P] = r
		probSet[r.P] = struct{}{}
	}
	probs := make([]float64, 0, len(probSet))
	for p := range probSet {
		probs = append(probs, p)
	}
	sort.Float64s(probs)

	fmt.Fprintf(w, "# BER Sweep over a Binary Symmetric Channel\n\n")
	fmt.Fprintf(w, "Run: %s  \nGenerated: %s  \n", s.RunID, time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Trials per point: %d, payload: %d bytes\n\n", s.Trials, s.PayloadBytes)

	headers := make([]string, len(probs))
	for i, p := range probs {
		headers[i] = fmt.Sprintf("p=%.4f", p)
	}
	div := strings.Repeat("---:|", len(probs))

	fmt.Fprintf(w, "## Residual BER\n\n")
	fmt.Fprintf(w, "| Code | Rate | %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(w, "|---|---:|%s\n", div)
	for _, c := range codes {
		row := byCode[c]
		rate := 0.0
		for _, r := range row {
			rate = r.Rate
			break
		}
		fmt.Fprintf(w, "| %s/%d | %.3f ", c.Scheme, c.Factor, rate)
		for _, p := range probs {
			if r := row[p]; r != nil {
				fmt.Fprintf(w, "| %.3g ", r.ber())
			} else {
				fmt.Fprintf(w, "|  ")
			}
		}
		fmt.Fprintf(w, "|\n")
	}

	fmt.Fprintf(w, "\n## Error-free Frames (%%)\n\n")
	fmt.Fprintf(w, "| Code | %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(w, "|---|%s\n", div)
	for _, c := range codes {
		fmt.Fprintf(w, "| %s/%d ", c.Scheme, c.Factor)
		for _, p := range probs {
			if r := byCode[c][p]; r != nil && r.Trials > 0 {
				fmt.Fprintf(w, "| %.2f ", 100*float64(r.CleanFrames)/float64(r.Trials))
			} else {
				fmt.Fprintf(w, "|  ")
			}
		}
		fmt.Fprintf(w, "|\n")
	}

	fmt.Fprintf(w, "\n---\n\nNotes:\n\n- Noise model: i.i.d. bit flips with probability p over the whole frame, header included.\n- RaptorQ rows use p as the symbol erasure probability and serve as a reference only.\n")
	return nil
}
