package storage

import (
	"context"
	"database/sql"
)

// Stores bundles every repo over one handle. Commands get a Stores bound to
// their transaction; queries get one bound to the database.
type Stores struct {
	Config      *ConfigRepo
	Quests      *QuestRepo
	Escrow      *EscrowRepo
	History     *HistoryRepo
	Credentials *CredentialRepo
	Revocations *RevocationRepo
	Outbox      *OutboxRepo
}

func NewStores(db DBTX) *Stores {
	return &Stores{
		Config:      NewConfigRepo(db),
		Quests:      NewQuestRepo(db),
		Escrow:      NewEscrowRepo(db),
		History:     NewHistoryRepo(db),
		Credentials: NewCredentialRepo(db),
		Revocations: NewRevocationRepo(db),
		Outbox:      NewOutboxRepo(db),
	}
}

// InTx runs fn with a Stores bound to a fresh transaction.
func InTx(ctx context.Context, db *sql.DB, fn func(st *Stores) error) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		return fn(NewStores(tx))
	})
}
