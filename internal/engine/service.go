package engine

import (
	"context"
	"database/sql"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"questvault/internal/storage"
)

// Call carries the identity of the invoker and the host-supplied block time
// for one invocation.
type Call struct {
	Sender string
	Now    time.Time
}

func (c Call) unix() int64 { return c.Now.Unix() }

type Attribute struct {
	Key   string
	Value string
}

// Response is what a committed command produced: queued outbound effects and
// observable result attributes.
type Response struct {
	Effects    []storage.Effect
	Attributes []Attribute
}

// Attr returns the value of the named result attribute.
func (r *Response) Attr(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

func (r *Response) attr(key, value string) {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
}

type Service struct {
	db     *sql.DB
	assets AssetReader
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used by queries to check permit validity.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(db *sql.DB, assets AssetReader, opts ...Option) *Service {
	s := &Service{
		db:     db,
		assets: assets,
		logger: log.New(io.Discard, "", 0),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stores returns repos bound to the database, for read paths outside the engine.
func (s *Service) Stores() *storage.Stores { return storage.NewStores(s.db) }

type commandFunc func(st *storage.Stores, cfg *storage.Config, res *Response) error

// exec runs one command as a single atomic transition. The command's effects
// are written to the outbox in the same transaction, so an error discards
// both the state change and every queued request.
func (s *Service) exec(ctx context.Context, call Call, name string, fn commandFunc) (*Response, error) {
	res := &Response{}
	err := storage.InTx(ctx, s.db, func(st *storage.Stores) error {
		cfg, err := st.Config.Get(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return newError(KindInvalidState, "engine is not configured")
		}
		if err := fn(st, cfg, res); err != nil {
			return err
		}
		return s.enqueue(ctx, st, call, res)
	})
	if err != nil {
		s.logger.Printf("%s by %s rejected: %v", name, call.Sender, err)
		return nil, err
	}
	s.logger.Printf("%s by %s committed (%d effects)", name, call.Sender, len(res.Effects))
	return res, nil
}

func (s *Service) enqueue(ctx context.Context, st *storage.Stores, call Call, res *Response) error {
	for _, e := range res.Effects {
		if err := st.Outbox.Enqueue(ctx, e, call.unix()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) effect(kind storage.EffectKind, target storage.Contract) storage.Effect {
	return storage.Effect{ID: s.newID(), Kind: kind, Contract: target}
}

// loadConfig is the query-side counterpart of exec's configuration check.
func (s *Service) loadConfig(ctx context.Context, st *storage.Stores) (*storage.Config, error) {
	cfg, err := st.Config.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, newError(KindInvalidState, "engine is not configured")
	}
	return cfg, nil
}

// IsOwner is the exact-identity admin check.
func IsOwner(cfg *storage.Config, sender string) bool {
	return cfg != nil && sender != "" && sender == cfg.Owner
}

func requireOwner(cfg *storage.Config, sender string) error {
	if !IsOwner(cfg, sender) {
		return ErrUnauthorized
	}
	return nil
}

func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

// ParseAmount reads a decimal reward amount. Amounts use the full uint64
// range, so they travel as strings outside the engine.
func ParseAmount(raw string) (uint64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, wrapError(KindInvalidState, err, "invalid amount %q", raw)
	}
	return v, nil
}
