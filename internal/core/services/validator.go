package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roeum-labs/lawcrawl/internal/connectors/lawgokr"
	"github.com/roeum-labs/lawcrawl/internal/core/domain"
	"github.com/roeum-labs/lawcrawl/internal/core/ports/driven"
)

// Validator is the fail-fast gate in front of the crawl: one bounded
// probe fetch against the candidate listing URL, no side effects.
// A failure here aborts the whole invocation before any writes.
type Validator struct {
	fetcher driven.Fetcher
	log     *zap.Logger
}

// NewValidator creates the gate.
func NewValidator(fetcher driven.Fetcher, log *zap.Logger) *Validator {
	return &Validator{fetcher: fetcher, log: log}
}

// Validate confirms the URL resolves to a statute listing page.
// HTTP failure or missing listing markers yield
// domain.ErrInvalidListURL with the reason attached.
func (v *Validator) Validate(ctx context.Context, listURL string) error {
	v.log.Info("validating listing url", zap.String("url", listURL))

	page, err := v.fetcher.Get(ctx, listURL)
	if err != nil {
		return fmt.Errorf("%w: probe fetch: %v", domain.ErrInvalidListURL, err)
	}
	if !lawgokr.IsListingPage(page) {
		return fmt.Errorf("%w: page has no statute listing markers", domain.ErrInvalidListURL)
	}

	v.log.Info("listing url valid", zap.String("url", listURL))
	return nil
}
