// Package rpctest provides a configurable fixture implementation of
// rpc.Reader so component tests run without network access.
package rpctest

import (
	"context"
	"errors"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// ErrNotConfigured is returned by any operation a test left unset.
var ErrNotConfigured = errors.New("rpctest: operation not configured")

// Reader implements rpc.Reader with per-operation function fields.
type Reader struct {
	StatusFn        func(ctx context.Context) (types.ChainStatus, error)
	BlockFn         func(ctx context.Context, height int64) (types.BlockInfo, error)
	BlockResultsFn  func(ctx context.Context, height int64) (types.BlockResults, error)
	ValidatorsFn    func(ctx context.Context) ([]types.ValidatorRecord, error)
	ReportersFn     func(ctx context.Context) ([]types.ReporterRecord, error)
	MinGasPricesFn  func(ctx context.Context) ([]types.DecCoin, error)
	CurrentTipFn    func(ctx context.Context, queryData string) (int64, error)
	TotalTipsFn     func(ctx context.Context) (int64, error)
	AvailableTipsFn func(ctx context.Context, selectorAddress string) (int64, error)
}

func (r *Reader) Status(ctx context.Context) (types.ChainStatus, error) {
	if r.StatusFn == nil {
		return types.ChainStatus{}, ErrNotConfigured
	}
	return r.StatusFn(ctx)
}

func (r *Reader) Block(ctx context.Context, height int64) (types.BlockInfo, error) {
	if r.BlockFn == nil {
		return types.BlockInfo{}, ErrNotConfigured
	}
	return r.BlockFn(ctx, height)
}

func (r *Reader) BlockResults(ctx context.Context, height int64) (types.BlockResults, error) {
	if r.BlockResultsFn == nil {
		return types.BlockResults{}, ErrNotConfigured
	}
	return r.BlockResultsFn(ctx, height)
}

func (r *Reader) Validators(ctx context.Context) ([]types.ValidatorRecord, error) {
	if r.ValidatorsFn == nil {
		return nil, ErrNotConfigured
	}
	return r.ValidatorsFn(ctx)
}

func (r *Reader) Reporters(ctx context.Context) ([]types.ReporterRecord, error) {
	if r.ReportersFn == nil {
		return nil, ErrNotConfigured
	}
	return r.ReportersFn(ctx)
}

func (r *Reader) MinGasPrices(ctx context.Context) ([]types.DecCoin, error) {
	if r.MinGasPricesFn == nil {
		return nil, ErrNotConfigured
	}
	return r.MinGasPricesFn(ctx)
}

func (r *Reader) CurrentTip(ctx context.Context, queryData string) (int64, error) {
	if r.CurrentTipFn == nil {
		return 0, ErrNotConfigured
	}
	return r.CurrentTipFn(ctx, queryData)
}

func (r *Reader) TotalTips(ctx context.Context) (int64, error) {
	if r.TotalTipsFn == nil {
		return 0, ErrNotConfigured
	}
	return r.TotalTipsFn(ctx)
}

func (r *Reader) AvailableTips(ctx context.Context, selectorAddress string) (int64, error) {
	if r.AvailableTipsFn == nil {
		return 0, ErrNotConfigured
	}
	return r.AvailableTipsFn(ctx, selectorAddress)
}
