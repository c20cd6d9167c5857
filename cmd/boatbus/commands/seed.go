package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telnet2/go-practice/go-boatbus/internal/boatdata"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Import a YAML seed file into storage",
	Long: `Import boat types, boats and reviews from a YAML seed file.

Records with the same IDs are replaced; other records are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	appConfig, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(appConfig)
	if err != nil {
		return err
	}

	seed, err := boatdata.LoadSeed(store.Storage().Fs(), args[0])
	if err != nil {
		return err
	}
	res, err := boatdata.ApplySeed(cmd.Context(), store, seed)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d boat types, %d boats, %d reviews into %s\n",
		res.BoatTypes, res.Boats, res.Reviews, appConfig.Storage)
	return nil
}
