package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/observe-l/fecchan/fec"
	"github.com/observe-l/fecchan/fecframe"
	"github.com/observe-l/fecchan/internal/config"
	"github.com/observe-l/fecchan/internal/stats"
	"github.com/segmentio/ksuid"
)

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var v int
		if _, err := fmt.Sscanf(p, "%d", &v); err != nil {
			return nil, fmt.Errorf("bad factor %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseProbs(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var f float64
		if _, err := fmt.Sscanf(p, "%f", &f); err != nil {
			return nil, fmt.Errorf("bad probability %q: %w", p, err)
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("probability %v out of [0,1]", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// buildPoints crosses every valid factor of each method with every p.
// Factors that do not apply to a method are skipped.
func buildPoints(rep, lin []int, probs []float64, raptorRepair int) []point {
	var pts []point
	for _, p := range probs {
		for _, n := range rep {
			if fec.ValidRepetitionFactor(n) {
				pts = append(pts, point{schemeRepetition, n, p})
			}
		}
		for _, j := range lin {
			if _, err := fec.DefaultCatalog().Code(j); err == nil {
				pts = append(pts, point{schemeLinear, j, p})
			}
		}
		if raptorRepair > 0 {
			pts = append(pts, point{schemeRaptorQ, raptorRepair, p})
		}
	}
	return pts
}

// factorsFor hands the configured factor list to every configured method.
// buildPoints drops the combinations a method does not support.
func factorsFor(methods []string, factors []int) (rep, lin []int, err error) {
	for _, m := range methods {
		method, err := fecframe.ParseMethod(m)
		if err != nil {
			return nil, nil, err
		}
		switch method {
		case fecframe.MethodRepetition:
			rep = factors
		case fecframe.MethodLinearBlock:
			lin = factors
		}
	}
	return rep, lin, nil
}

func main() {
	def := config.DefaultConfig().Eval
	var (
		cfgPath    = flag.String("config", "", "YAML config; its eval section supplies the defaults")
		repStr     = flag.String("rep", "", "comma-separated repetition factors (default from config)")
		linStr     = flag.String("lin", "", "comma-separated Hamming parity lengths j (default from config)")
		probStr    = flag.String("p", "", "comma-separated bit flip probabilities")
		trials     = flag.Int("trials", 0, "frames per point")
		payload    = flag.Int("bytes", 0, "payload bytes per frame")
		workers    = flag.Int("workers", 0, "concurrent points")
		seed       = flag.Int64("seed", 0, "random seed")
		raptor     = flag.Int("raptorq-repair", 0, "add a RaptorQ erasure reference with this many repair symbols (0 disables)")
		symbolSize = flag.Int("raptorq-symbol", 64, "RaptorQ symbol size in bytes")
		jsonPath   = flag.String("json", "", "JSON lines output path (default stdout)")
		mdPath     = flag.String("md", "", "optional markdown report path")
	)
	flag.Parse()

	if *cfgPath != "" {
		cfg, err := config.LoadConfig(*cfgPath)
		if err != nil {
			fatalf("%v", err)
		}
		def = cfg.Eval
	}
	probs := def.Probabilities
	if *probStr != "" {
		var err error
		if probs, err = parseProbs(*probStr); err != nil {
			fatalf("%v", err)
		}
	}
	rep, lin, err := factorsFor(def.Methods, def.Factors)
	if err != nil {
		fatalf("%v", err)
	}
	if *repStr != "" {
		if rep, err = parseInts(*repStr); err != nil {
			fatalf("%v", err)
		}
	}
	if *linStr != "" {
		if lin, err = parseInts(*linStr); err != nil {
			fatalf("%v", err)
		}
	}
	s := &sweep{
		Points:       buildPoints(rep, lin, probs, *raptor),
		Trials:       pick(*trials, def.Trials),
		PayloadBytes: pick(*payload, def.PayloadBytes),
		Workers:      pick(*workers, def.Workers),
		Seed:         int64(pick(int(*seed), int(def.Seed))),
		RunID:        ksuid.New().String(),
		SymbolSize:   *symbolSize,
	}
	if len(s.Points) == 0 {
		fatalf("no valid (method, factor, p) points")
	}

	start := time.Now()
	results, err := s.run(context.Background())
	if err != nil {
		fatalf("%v", err)
	}

	var w io.Writer = os.Stdout
	if *jsonPath != "" {
		if err := ensureDir(*jsonPath); err != nil {
			fatalf("%v", err)
		}
		f, err := os.Create(*jsonPath)
		if err != nil {
			fatalf("%v", err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if err := stats.WriteJSONLine(bw, r); err != nil {
			fatalf("write json: %v", err)
		}
	}
	if err := bw.Flush(); err != nil {
		fatalf("write json: %v", err)
	}
	if *mdPath != "" {
		if err := writeMarkdown(*mdPath, s, results); err != nil {
			fatalf("write md: %v", err)
		}
	}
	fmt.Fprintf(os.Stderr, "run %s: %d points in %s\n", s.RunID, len(results), time.Since(start).Round(time.Millisecond))
}

func pick(flagV, cfgV int) int {
	if flagV != 0 {
		return flagV
	}
	return cfgV
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
