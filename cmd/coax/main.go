// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	coax "github.com/sassoftware/coa-xtract"
	"github.com/sassoftware/coa-xtract/logger"
	"github.com/sassoftware/coa-xtract/tracer"
)

var (
	configPath string
	outputPath string
	visualize  bool
	batchMode  bool
	debugMode  bool

	zlog *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coax",
	Short: "Certificate of Analysis extraction and evaluation",
	Long: `coax reads Certificate of Analysis documents (plain text or PDF),
reconstructs the test table even when OCR has destroyed the original column
alignment, and judges every measured value against its specification.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if debugMode {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		zlog, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zlog != nil {
			_ = zlog.Sync()
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a COA document (txt or pdf)",
	Long: `Extracts the test table and document metadata from a COA, evaluates every
test against its specification and prints the verdicts. With no argument a
built-in sample certificate is analyzed. With --batch the argument is a
directory and every PDF in it is processed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output CSV file for results")
	analyzeCmd.Flags().BoolVarP(&visualize, "visualize", "v", false, "show ASCII visualization of results")
	analyzeCmd.Flags().BoolVarP(&batchMode, "batch", "b", false, "treat [file] as a directory and process every PDF in it")
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sampleText is a small OCR-style certificate used when no input file is
// given, so the tool can be tried without a document at hand.
const sampleText = `CERTIFICATE OF ANALYSIS
Material: D14924998 NEOPRENE GNA M2 CHP 100 ABAG25KG
Our/Customer Reference No: S030068A

Batch
241226D257
Qty / Uom
2,205.000 /LB

Test Name
s'TPOINT90
TIME SCORCH01
VOLATILE
TIME TPOINT90
ML120
Test Method
N200.7405
N200.7405
N200.9500
N200.7405
N200.7460
Unit
dNm
min.
%
min.
min.
Value
11.73
2.47
0.99
4.84
38.04
Specification
7.50 - 12.50
1.60 - 3.60
= < 1.30
2.10 - 7.60
= > 11.00
DATE OF PRODUCTION       20241229
COUNTRY OF ORIGIN        US`

func buildConfig() (*coax.Config, error) {
	cfg := coax.NewDefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = coax.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	cfg.DebugOn = debugMode
	cfg.Logger = zapLogFunc(zlog)
	return cfg, nil
}

// zapLogFunc adapts a zap logger to the library's pluggable LogFunc.
func zapLogFunc(l *zap.Logger) logger.LogFunc {
	s := l.Sugar()
	return func(level logger.LogLevel, msg string, keyvals ...interface{}) {
		switch level {
		case logger.ErrorLevel:
			s.Errorw(msg, keyvals...)
		case logger.WarnLevel:
			s.Warnw(msg, keyvals...)
		default:
			s.Debugw(msg, keyvals...)
		}
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if batchMode {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return runBatch(cmd.Context(), cfg, dir)
	}

	text := sampleText
	source := "sample"
	if len(args) == 0 {
		fmt.Println("Using sample COA data. Pass a file to analyze a document.")
	} else {
		source = args[0]
		text, err = readInput(cmd.Context(), cfg, source)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no COA data found in %s", source)
	}

	analyzer := coax.NewAnalyzer(cfg)
	records := analyzer.ExtractTestRecords(text)
	metadata := analyzer.ExtractMetadata(text)

	printResults(os.Stdout, records, metadata, visualize)

	if outputPath != "" {
		if err := writeReport(outputPath, records, metadata); err != nil {
			return err
		}
		fmt.Printf("\nResults saved to %s\n", outputPath)
	}

	printSummaryTable(os.Stdout, []fileResult{{name: source, records: records, metadata: metadata}})
	if cfg.DebugOn {
		tracer.Flush()
	}
	return nil
}

// readInput loads COA text from a plain-text file, or extracts it when the
// path points at a PDF.
func readInput(ctx context.Context, cfg *coax.Config, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		proc := coax.NewProcessor(cfg)
		text, truncated, err := proc.Extract(ctx, path)
		if err != nil {
			return "", err
		}
		if truncated {
			fmt.Fprintf(os.Stderr, "warning: %s was truncated at %d characters\n", path, cfg.MaxTotalChars)
		}
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

type fileResult struct {
	name     string
	records  []coax.TestRecord
	metadata map[string]string
}

// runBatch processes every PDF in dir and prints a cross-file summary table.
// With --output set, each document additionally gets a <name>_results.csv
// next to it.
func runBatch(ctx context.Context, cfg *coax.Config, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	proc := coax.NewProcessor(cfg)
	var results []fileResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		records, metadata, err := proc.Analyze(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		if outputPath != "" {
			out := strings.TrimSuffix(path, filepath.Ext(path)) + "_results.csv"
			if err := writeReport(out, records, metadata); err != nil {
				return err
			}
		}
		results = append(results, fileResult{name: path, records: records, metadata: metadata})
	}
	if len(results) == 0 {
		return fmt.Errorf("no PDF documents processed in %s", dir)
	}
	printSummaryTable(os.Stdout, results)
	return nil
}

func writeReport(path string, records []coax.TestRecord, metadata map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return coax.WriteCSV(f, records, metadata)
}
