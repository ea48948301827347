package estimate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"woodcost/internal/catalog"
)

// ErrNoComponents reports that no valid part remained after normalization.
var ErrNoComponents = errors.New("no part to price")

// NoPartError wraps ErrNoComponents with the row errors that emptied the
// batch, so callers can show the user what was rejected.
type NoPartError struct {
	Rows []RowError
}

func (e *NoPartError) Error() string { return ErrNoComponents.Error() }

func (e *NoPartError) Is(target error) bool { return target == ErrNoComponents }

// CatalogSource supplies the read-only catalog snapshot a calculation runs
// against. Snapshots are immutable; concurrent requests share one freely.
type CatalogSource interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
}

// Engine turns normalized components into a priced project estimate. One
// request is one linear pipeline pass; the engine keeps no per-request state.
type Engine struct {
	catalogs CatalogSource
	logger   *zap.Logger
}

func New(catalogs CatalogSource, logger *zap.Logger) *Engine {
	return &Engine{
		catalogs: catalogs,
		logger:   logger,
	}
}

// Estimate is the complete priced result for one calculation request.
type Estimate struct {
	ID        string                `json:"id"`
	Project   ProjectMetadata       `json:"project"`
	LineItems []CostLineItem        `json:"line_items"`
	Totals    CategoryTotals        `json:"category_totals"`
	Subtotal  float64               `json:"subtotal"`
	Pricing   catalog.PricingConfig `json:"pricing"`
	Waterfall Waterfall             `json:"waterfall"`
	// FinalPrice duplicates Waterfall.FinalPrice for callers that only want
	// the number.
	FinalPrice float64 `json:"final_price"`
	// Warnings is never nil: callers must be able to distinguish a fully
	// matched estimate from one with silently unpriced references.
	Warnings     []Warning  `json:"warnings"`
	RowErrors    []RowError `json:"row_errors,omitempty"`
	CalculatedAt time.Time  `json:"calculated_at"`
}

// CalculateComponents prices an already structured component list.
func (e *Engine) CalculateComponents(ctx context.Context, meta ProjectMetadata, comps []Component) (*Estimate, error) {
	normalized, rowErrs := NormalizeComponents(comps)
	return e.calculate(ctx, meta, normalized, rowErrs)
}

// CalculateDirect prices a CAD plugin payload.
func (e *Engine) CalculateDirect(ctx context.Context, meta ProjectMetadata, parts []DirectPart) (*Estimate, error) {
	normalized, rowErrs := NormalizeDirect(parts)
	return e.calculate(ctx, meta, normalized, rowErrs)
}

// CalculateTabular prices pre-parsed spreadsheet rows.
func (e *Engine) CalculateTabular(ctx context.Context, meta ProjectMetadata, rows []TabularRow) (*Estimate, error) {
	normalized, rowErrs := NormalizeTabular(rows)
	return e.calculate(ctx, meta, normalized, rowErrs)
}

func (e *Engine) calculate(ctx context.Context, meta ProjectMetadata, comps []Component, rowErrs []RowError) (*Estimate, error) {
	if len(comps) == 0 {
		return nil, &NoPartError{Rows: rowErrs}
	}
	if meta.WastePercentage < 0 {
		return nil, fmt.Errorf("waste percentage must not be negative: %v", meta.WastePercentage)
	}

	snap, err := e.catalogs.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog snapshot: %w", err)
	}

	items, totals, warnings := costComponents(snap.Index, comps, meta.WastePercentage)
	if warnings == nil {
		warnings = []Warning{}
	}

	waterfall := applyWaterfall(totals.Sum(), snap.Pricing)

	est := &Estimate{
		ID:           uuid.NewString(),
		Project:      meta,
		LineItems:    items,
		Totals:       totals,
		Subtotal:     waterfall.Subtotal,
		Pricing:      snap.Pricing,
		Waterfall:    waterfall,
		FinalPrice:   waterfall.FinalPrice,
		Warnings:     warnings,
		RowErrors:    rowErrs,
		CalculatedAt: time.Now().UTC(),
	}

	e.logger.Info("estimate calculated",
		zap.String("estimate_id", est.ID),
		zap.String("project", meta.ProjectName),
		zap.Int("components", len(comps)),
		zap.Int("line_items", len(items)),
		zap.Int("unmatched", len(warnings)),
		zap.Int("rejected_rows", len(rowErrs)),
		zap.Float64("final_price", est.FinalPrice))

	return est, nil
}
