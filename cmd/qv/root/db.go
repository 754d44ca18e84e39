package root

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"questvault/internal/collab"
	"questvault/internal/config"
	"questvault/internal/engine"
	"questvault/internal/storage"
)

func loadEnv() (config.Env, error) {
	return config.LoadEnv()
}

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(flagDB)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// newLogger writes to QV_LOG_FILE when set, to stderr when QV_VERBOSE is
// set, and nowhere otherwise.
func newLogger(env config.Env) (*log.Logger, func(), error) {
	if env.LogFile != "" {
		f, err := os.OpenFile(env.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return log.New(f, "qv ", log.LstdFlags), func() { _ = f.Close() }, nil
	}
	if env.Verbose {
		return log.New(os.Stderr, "qv ", log.LstdFlags), func() {}, nil
	}
	return log.New(io.Discard, "", 0), func() {}, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	env, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	db, closeDB, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := newLogger(env)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	svc := engine.NewService(db, collab.NewFileCustody(env.AssetsFile),
		engine.WithLogger(logger),
		engine.WithClock(blockTime),
	)
	return svc, func() { closeLog(); closeDB() }, nil
}

func blockTime() time.Time {
	if flagNow > 0 {
		return time.Unix(flagNow, 0).UTC()
	}
	return time.Now().UTC()
}

// currentCall builds the invocation context from --as/--now or the
// environment.
func currentCall() (engine.Call, error) {
	sender := strings.TrimSpace(flagAs)
	if sender == "" {
		env, err := loadEnv()
		if err != nil {
			return engine.Call{}, err
		}
		sender = strings.TrimSpace(env.Sender)
	}
	if sender == "" {
		return engine.Call{}, errors.New("caller identity required: pass --as or set QV_SENDER")
	}
	return engine.Call{Sender: sender, Now: blockTime()}, nil
}
