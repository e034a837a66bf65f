package verstore

const (
	opFlush            = "flush"
	opFlushOldVersions = "flush_old_versions"
	opFlushOlderThan   = "flush_older_than"
)

type sweep struct {
	kind    Kind
	op      string
	removed int
	skipped int
	keys    []string
	errs    []error
}

func newSweep(kind Kind, op string) *sweep { return &sweep{kind: kind, op: op} }

func (s *sweep) fail(key string, err error) {
	s.keys = append(s.keys, key)
	s.errs = append(s.errs, err)
}

// finish reports the pass and returns a *SweepError when any removal failed.
func (c settings) finish(s *sweep) error {
	c.log.Debug("sweep completed", Fields{
		"backend": s.kind,
		"op":      s.op,
		"removed": s.removed,
		"skipped": s.skipped,
		"failed":  len(s.errs),
	})
	c.hooks.SweepCompleted(s.kind, s.op, s.removed, s.skipped)
	if len(s.errs) == 0 {
		return nil
	}
	c.log.Warn("sweep removals failed", Fields{"backend": s.kind, "op": s.op, "failed": len(s.errs), "err": s.errs[0]})
	return &SweepError{Kind: s.kind, Op: s.op, Keys: s.keys, Errs: s.errs}
}

func (c settings) decodeFailed(kind Kind, storageKey, reason string, err error) {
	c.log.Debug("entry decode failed; treated as absent", Fields{
		"backend": kind,
		"key":     storageKey,
		"reason":  reason,
		"err":     err,
	})
	c.hooks.DecodeFailed(kind, storageKey, reason)
}
