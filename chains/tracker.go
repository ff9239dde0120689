// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package chains

import (
	"context"
	"time"
)

// TransactionTracker follows a submitted transaction until it is finalized or lost.
type TransactionTracker interface {
	Wait(ctx context.Context) (TxStatus, error)
}

// PollingTracker asks statusFn for the transaction status every interval and reports the
// first final status. A transaction that is not finalized within the stall timeout is lost.
type PollingTracker struct {
	statusFn     func() (TxStatus, error)
	interval     time.Duration
	stallTimeout time.Duration
}

func NewPollingTracker(statusFn func() (TxStatus, error), interval time.Duration, stallTimeout time.Duration) *PollingTracker {
	return &PollingTracker{
		statusFn:     statusFn,
		interval:     interval,
		stallTimeout: stallTimeout,
	}
}

func (t *PollingTracker) Wait(ctx context.Context) (TxStatus, error) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	stall := time.NewTimer(t.stallTimeout)
	defer stall.Stop()

	for {
		status, err := t.statusFn()
		if err != nil {
			return TxLost, err
		}
		if status == TxFinalized || status == TxLost {
			return status, nil
		}

		select {
		case <-ticker.C:
			continue
		case <-stall.C:
			return TxLost, nil
		case <-ctx.Done():
			return TxLost, ctx.Err()
		}
	}
}

// ChannelTracker reports the status received from a watch subscription.
type ChannelTracker struct {
	statuses     <-chan TxStatus
	stallTimeout time.Duration
}

func NewChannelTracker(statuses <-chan TxStatus, stallTimeout time.Duration) *ChannelTracker {
	return &ChannelTracker{
		statuses:     statuses,
		stallTimeout: stallTimeout,
	}
}

func (t *ChannelTracker) Wait(ctx context.Context) (TxStatus, error) {
	stall := time.NewTimer(t.stallTimeout)
	defer stall.Stop()

	for {
		select {
		case status, ok := <-t.statuses:
			if !ok {
				return TxLost, nil
			}
			if status == TxFinalized || status == TxLost {
				return status, nil
			}
		case <-stall.C:
			return TxLost, nil
		case <-ctx.Done():
			return TxLost, ctx.Err()
		}
	}
}
