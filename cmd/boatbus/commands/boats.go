package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

var (
	boatsType string
	boatsJQ   string
)

var boatsCmd = &cobra.Command{
	Use:   "boats",
	Short: "List boats in storage",
	Long: `List the boats in storage, optionally restricted to one boat type.

Examples:
  boatbus boats                         # Table of all boats
  boatbus boats --type sail             # Only sailboats
  boatbus boats --jq '.[] | .name'      # Filter the JSON list with jq`,
	RunE: runBoats,
}

func init() {
	boatsCmd.Flags().StringVarP(&boatsType, "type", "t", "", "Boat type ID")
	boatsCmd.Flags().StringVar(&boatsJQ, "jq", "", "jq filter applied to the JSON boat list")
}

func runBoats(cmd *cobra.Command, args []string) error {
	appConfig, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(appConfig)
	if err != nil {
		return err
	}

	boats, err := store.GetBoats(cmd.Context(), boatsType)
	if err != nil {
		return err
	}

	if boatsJQ != "" {
		return runJQ(cmd.OutOrStdout(), boatsJQ, boats)
	}
	return printBoats(cmd.OutOrStdout(), boats)
}

func printBoats(out io.Writer, boats []types.Boat) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tPRICE\tLENGTH\t")
	for _, b := range boats {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.1f\t\n", b.ID, b.Name, b.BoatTypeName, b.Price, b.Length)
	}
	return w.Flush()
}

// runJQ applies filter to v, printing one JSON value per line.
func runJQ(out io.Writer, filter string, v any) error {
	query, err := gojq.Parse(filter)
	if err != nil {
		return fmt.Errorf("jq: filter parse error: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("jq: compile error: %w", err)
	}

	// gojq works on plain JSON values, not Go structs.
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return err
	}

	iter := code.Run(input)
	for {
		result, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := result.(error); ok {
			return fmt.Errorf("jq: execution error: %w", err)
		}
		line, err := json.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(line))
	}
}
