// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package viacimport

import (
	"github.com/go-playground/validator/v10"

	"github.com/mike-kfed/viac-pdf-import/logger"
)

type ParsingMode string

const (
	// Strict fails a whole document when any of its pages fails.
	Strict ParsingMode = "strict"
	// BestEffort substitutes empty text for failed pages.
	BestEffort ParsingMode = "best-effort"
)

type Config struct {
	MaxConcurrentPDFs int         `validate:"min=1,max=10"`
	MaxWorkersPerPDF  int         `validate:"min=1,max=10"`
	ParsingMode       ParsingMode `validate:"oneof=strict best-effort"`
	Heuristics        Heuristics
	DebugOn           bool
	Logger            logger.LogFunc
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentPDFs: 5,
		MaxWorkersPerPDF:  1,
		ParsingMode:       Strict,
		Heuristics:        DefaultHeuristics(),
		DebugOn:           false,
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
