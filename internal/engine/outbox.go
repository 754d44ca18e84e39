package engine

import (
	"context"

	"questvault/internal/storage"
)

// ListOutbox returns queued effects and their delivery outcomes. An empty
// status lists everything.
func (s *Service) ListOutbox(ctx context.Context, status storage.OutboxStatus) ([]storage.OutboxEntry, error) {
	return s.Stores().Outbox.List(ctx, status)
}

// ReconcileEffect records the downstream outcome of a queued effect. A
// failed delivery stays in the outbox with its reason so the owner can act
// on it; the ledger is not rolled back.
func (s *Service) ReconcileEffect(ctx context.Context, call Call, id string, delivered bool, reason string) (*Response, error) {
	return s.exec(ctx, call, "reconcile_effect", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if err := requireOwner(cfg, call.Sender); err != nil {
			return err
		}
		entry, err := st.Outbox.Get(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return newError(KindNotFound, "effect %s not found", id)
		}
		if entry.Status != storage.OutboxQueued {
			return newError(KindInvalidState, "effect %s is already %s", id, entry.Status)
		}
		status := storage.OutboxFailed
		if delivered {
			status = storage.OutboxDelivered
			reason = ""
		}
		if err := st.Outbox.SetStatus(ctx, id, status, reason, call.unix()); err != nil {
			return err
		}
		res.attr("status", string(status))
		return nil
	})
}
