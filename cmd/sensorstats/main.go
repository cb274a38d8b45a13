// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Command sensorstats prints the statistics report of a series of numbers
// without a broker or sensor attached.
//
// Usage:
//
//	sensorstats [flags] [value ...]
//
// Without values it reads whitespace separated numbers from stdin.
//
// Examples:
//
//	sensorstats 1 2.5
//	sensorstats -capacity 3 1 2.5
//	sensorstats -max 100 < samples.txt
//	sensorstats -convert 20 101325
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/relabs-tech/sensor_utils/internal/stats"
	"github.com/relabs-tech/sensor_utils/internal/units"
)

func main() {
	capacity := flag.Int("capacity", 0, "initial buffer capacity (reported as samples)")
	maxCap := flag.Int("max", 0, "buffer growth ceiling, 0 for none")
	convert := flag.Bool("convert", false, "print unit conversions of each value instead of statistics")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sensorstats [flags] [value ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints mean and sample standard deviation of the values.\n")
		fmt.Fprintf(os.Stderr, "Values are read from stdin when none are given.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	values, err := parseValues(flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sensorstats: %v\n", err)
		os.Exit(2)
	}

	if *convert {
		err = writeConversions(os.Stdout, values)
	} else {
		err = writeStats(os.Stdout, values, *capacity, *maxCap)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "sensorstats: %v\n", err)
		os.Exit(1)
	}
}

// parseValues takes numbers from args, or from r when args is empty.
func parseValues(args []string, r io.Reader) ([]float64, error) {
	if len(args) > 0 {
		values := make([]float64, 0, len(args))
		for _, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q", a)
			}
			values = append(values, v)
		}
		return values, nil
	}

	var values []float64
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", sc.Text())
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return values, nil
}

func writeStats(w io.Writer, values []float64, capacity, maxCap int) error {
	b, err := stats.NewBoundedBuffer(capacity, maxCap)
	if err != nil {
		return err
	}
	for i, v := range values {
		if err := b.Append(v); err != nil {
			return fmt.Errorf("value %d: %w", i+1, err)
		}
	}
	if err := stats.WriteReport(w, b, stats.Compute(b)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

func writeConversions(w io.Writer, values []float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tC→F\tF→C\tPa→inHg\tPa→mmHg\tPa→atm\tinHg→atm\tm→ft")
	for _, v := range values {
		fmt.Fprintf(tw, "%g\t%.4f\t%.4f\t%.4f\t%.4f\t%.6f\t%.6f\t%.4f\n",
			v,
			units.Fahrenheit(v),
			units.Celsius(v),
			units.InchesHg(v),
			units.MillimetersHg(v),
			units.AtmospheresFromPascals(v),
			units.AtmospheresFromInchesHg(v),
			units.Feet(v),
		)
	}
	return tw.Flush()
}
