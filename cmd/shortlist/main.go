package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sahilchouksey/edu-directory/client"
	"github.com/sahilchouksey/edu-directory/config"
	"github.com/sahilchouksey/edu-directory/selection"
	"github.com/sahilchouksey/edu-directory/utils"
	"github.com/sahilchouksey/edu-directory/utils/cache"
)

type closableStore interface {
	selection.Store
	Close() error
}

func openStore(env *config.EnviornmentVariable) (closableStore, error) {
	switch env.SELECTION_STORE {
	case "badger":
		if err := os.MkdirAll(env.SELECTION_DIR, 0o755); err != nil {
			return nil, err
		}
		return cache.OpenBadgerStore(env.SELECTION_DIR)
	case "redis":
		if env.REDIS_URL == "" {
			return nil, errors.New("SELECTION_STORE=redis needs REDIS_URL")
		}
		return cache.NewRedisCache(env.REDIS_URL, "shortlist:")
	case "memory":
		return cache.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown SELECTION_STORE %q", env.SELECTION_STORE)
}

func main() {
	_ = config.LoadENV()
	env, err := config.Get()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := utils.NewLogger(env.GO_ENV, env.LOG_LEVEL)
	defer logger.Sync()

	store, err := openStore(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open selection store:", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager, err := selection.NewManager(ctx, store, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c := &cli{
		manager: manager,
		fetch:   client.New(env.DIRECTORY_API_URL, 10*time.Second),
		out:     os.Stdout,
	}
	if err := c.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
