package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
	"github.com/telnet2/go-practice/go-boatbus/internal/config"
	"github.com/telnet2/go-practice/go-boatbus/internal/logging"
	"github.com/telnet2/go-practice/go-boatbus/internal/storage"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// openStore opens the boat store configured in appConfig.
func openStore(appConfig *types.Config) (*boatdata.Store, error) {
	if err := config.GetPaths().EnsurePaths(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(appConfig.Storage, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return boatdata.NewStore(storage.New(nil, appConfig.Storage)), nil
}

// seedIfEmpty applies the configured seed file when the store holds no boats.
func seedIfEmpty(ctx context.Context, store *boatdata.Store, appConfig *types.Config) error {
	if appConfig.Seed == "" {
		return nil
	}
	boats, err := store.GetBoats(ctx, "")
	if err != nil {
		return err
	}
	if len(boats) > 0 {
		logging.Debug().Int("boats", len(boats)).Msg("store not empty, skipping seed")
		return nil
	}

	seed, err := boatdata.LoadSeed(store.Storage().Fs(), appConfig.Seed)
	if err != nil {
		return err
	}
	_, err = boatdata.ApplySeed(ctx, store, seed)
	return err
}
