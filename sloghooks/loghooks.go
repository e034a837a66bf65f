// Package sloghooks reports verstore hook events through log/slog.
package sloghooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/verstore"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DecodeFailedEvery uint64
	SweepEvery        uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	decodeCtr atomic.Uint64
	sweepCtr  atomic.Uint64
}

var _ verstore.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DecodeFailed(kind verstore.Kind, storageKey, reason string) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Debug("verstore.decode_failed",
		"backend", string(kind),
		"key", h.redact(storageKey),
		"reason", reason)
}

// SweepCompleted logs at Info when the pass removed or skipped anything.
func (h *Hooks) SweepCompleted(kind verstore.Kind, op string, removed, skipped int) {
	if h.l == nil || !sample(h.opts.SweepEvery, &h.sweepCtr) {
		return
	}
	level := slog.LevelDebug
	if removed > 0 || skipped > 0 {
		level = slog.LevelInfo
	}
	h.l.Log(context.Background(), level, "verstore.sweep_completed",
		"backend", string(kind),
		"op", op,
		"removed", removed,
		"skipped", skipped)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("verstore.provider_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) BackendSelected(kind verstore.Kind) {
	if h.l == nil {
		return
	}
	h.l.Info("verstore.backend_selected",
		"backend", string(kind))
}
