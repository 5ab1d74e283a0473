// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Command viac-pdf-import reconstructs the text of VIAC account statements
// and writes CSV files Portfolio Performance can import.
package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	viacimport "github.com/mike-kfed/viac-pdf-import"
	"github.com/mike-kfed/viac-pdf-import/logger"
	"github.com/mike-kfed/viac-pdf-import/tracer"
)

var flags struct {
	directory    string
	outDir       string
	deduceAmount bool
	bestEffort   bool
	debug        bool
	forexZip     string
	isinCurrency []string
}

var rootCmd = &cobra.Command{
	Use:   "viac-pdf-import",
	Short: "Convert VIAC statement PDFs to Portfolio Performance CSV",
	Long: `viac-pdf-import recursively scans a directory for VIAC account
statements, reconstructs their text and writes one shares catalog plus
account and portfolio transaction CSV files per portfolio number.`,
	RunE: runImport,
}

func init() {
	rootCmd.Flags().StringVarP(&flags.directory, "directory", "d", "", "directory where VIAC pdfs will be recursively looked for")
	rootCmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", ".", "directory the CSV files are written to")
	rootCmd.Flags().BoolVar(&flags.deduceAmount, "deduce-amount", false, "try to deduce the correct amount of stocks bought/sold")
	rootCmd.Flags().BoolVar(&flags.bestEffort, "best-effort", false, "tolerate unreadable pages instead of failing the document")
	rootCmd.Flags().BoolVar(&flags.debug, "debug", false, "log page texts and extraction details")
	rootCmd.Flags().StringVar(&flags.forexZip, "forex-zip", "", "path to the ECB eurofxref-hist.zip archive")
	rootCmd.Flags().StringArrayVarP(&flags.isinCurrency, "isin-currency", "i", nil, "override the quote currency of a security, as ISIN=CUR")
	_ = rootCmd.MarkFlagRequired("directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	logger.SetLogger(stderrLogger)
	if flags.debug {
		defer tracer.FlushTo(os.Stderr)
	}

	isinCurrency := make([]viacimport.IsinCurrency, 0, len(flags.isinCurrency))
	for _, v := range flags.isinCurrency {
		ic, err := viacimport.ParseIsinCurrency(v)
		if err != nil {
			return err
		}
		isinCurrency = append(isinCurrency, ic)
	}

	var forex *viacimport.ForexTable
	if flags.forexZip != "" {
		logger.Info("loading forex data")
		var err error
		forex, err = viacimport.LoadForexZip(flags.forexZip)
		if err != nil {
			return err
		}
	}

	cfg := viacimport.NewDefaultConfig()
	cfg.DebugOn = flags.debug
	if flags.bestEffort {
		cfg.ParsingMode = viacimport.BestEffort
	}
	proc := viacimport.NewProcessor(cfg)

	logger.Info(fmt.Sprintf("read: %s", flags.directory))
	start := time.Now()

	paths, err := findPDFs(flags.directory)
	if err != nil {
		return err
	}

	byPortfolio := make(map[string][]*viacimport.Summary)
	for _, path := range paths {
		logger.Info(path)
		res, err := proc.Extract(cmd.Context(), path)
		if err != nil {
			logger.Error(fmt.Sprintf("pdf reading error: path=%s err=%v", path, err))
			continue
		}
		stmt := viacimport.ParseStatement(res)
		if flags.debug {
			stmt.PrintSummary()
		}
		summary, err := stmt.Summarize(flags.deduceAmount)
		if err != nil {
			logger.Error(fmt.Sprintf("pdf unreadable: path=%s err=%v", path, err))
			continue
		}
		switch summary.Kind {
		case viacimport.KindNotViac:
			logger.Warn(fmt.Sprintf("PDF author is not Viac: path=%s", path))
			continue
		case viacimport.KindUnknown:
			logger.Warn(fmt.Sprintf("UNKNOWN document_type: path=%s", path))
			continue
		}
		if forex != nil {
			logForexRate(forex, summary)
		}
		byPortfolio[summary.PortfolioNumber] = append(byPortfolio[summary.PortfolioNumber], summary)
	}

	if err := viacimport.WriteSummaries(flags.outDir, byPortfolio, isinCurrency); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Time: %.3fs", time.Since(start).Seconds()))
	return nil
}

func findPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return paths, nil
}

// logForexRate looks up the EUR reference rate of the booking currency on
// the booking date, a plausibility aid when overriding quote currencies.
func logForexRate(forex *viacimport.ForexTable, summary *viacimport.Summary) {
	_, currency := summary.ValutaPrice()
	if currency == "" {
		return
	}
	date := summary.ValutaDate().Format("2006-01-02")
	rate, err := forex.Fetch(date, currency)
	if err != nil {
		logger.Debug(fmt.Sprintf("no forex rate: date=%s currency=%s err=%v", date, currency, err), true)
		return
	}
	logger.Debug(fmt.Sprintf("forex rate: date=%s currency=%s eur_rate=%s", date, currency, rate), true)
}

func stderrLogger(level logger.LogLevel, msg string, keyvals ...interface{}) {
	if level == logger.DebugLevel && !flags.debug {
		return
	}
	if len(keyvals) > 0 {
		log.Printf("[%s] %s %v", level, msg, keyvals)
		return
	}
	log.Printf("[%s] %s", level, msg)
}
