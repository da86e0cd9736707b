package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thalesfsp/dspline"
)

// readValues parses one float per line. Text after '#' and blank lines are
// skipped.
func readValues(r io.Reader) ([]float64, error) {
	var values []float64

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text, _, _ := strings.Cut(scanner.Text(), "#")

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		values = append(values, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

func readValuesFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values, err := readValues(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(values) < dspline.MinSamples {
		return nil, fmt.Errorf("read %s: need at least %d values, got %d", path, dspline.MinSamples, len(values))
	}

	return values, nil
}

// fileConfig is the YAML layout of --config.
//
//	alpha: 0.1
//	initial_indexes: [0, 10, 20, 30]
//	max_repeats: 3
//	max_evaluations: 0
type fileConfig struct {
	Alpha          *float64 `yaml:"alpha"`
	InitialIndexes []int    `yaml:"initial_indexes"`
	MaxRepeats     int      `yaml:"max_repeats"`
	MaxEvaluations int      `yaml:"max_evaluations"`
}

// loadSearchConfig starts from the library defaults and applies the YAML
// file at path, if any.
func loadSearchConfig(path string) (dspline.SearchConfig, error) {
	config := dspline.DefaultSearchConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Alpha != nil {
		config.Alpha = *fc.Alpha
	}

	if len(fc.InitialIndexes) > 0 {
		config.InitialIndexes = fc.InitialIndexes
	}

	if fc.MaxRepeats > 0 {
		config.MaxRepeats = fc.MaxRepeats
	}

	if fc.MaxEvaluations > 0 {
		config.MaxEvaluations = fc.MaxEvaluations
	}

	return config, nil
}
