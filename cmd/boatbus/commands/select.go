package commands

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telnet2/go-practice/go-boatbus/internal/event"
	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

var selectServer string

var selectCmd = &cobra.Command{
	Use:   "select <name-or-id>",
	Short: "Select a boat on a running server",
	Long: `Select a boat on a running server. Every widget following the
application-wide selection loads the boat.

The boat may be given by ID or by name. Unknown names print the closest
matching boat names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().StringVar(&selectServer, "server", DefaultServerURL, "Server URL")
}

func runSelect(cmd *cobra.Command, args []string) error {
	client := newAPIClient(selectServer)
	query := strings.Join(args, " ")

	var boat types.Boat
	err := client.do(http.MethodGet, "/boats/"+url.PathEscape(query), nil, &boat)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		if names := apiErr.suggestions(); len(names) > 0 {
			return fmt.Errorf("no boat %q, did you mean: %s?", query, strings.Join(names, ", "))
		}
		return fmt.Errorf("no boat %q", query)
	}
	if err != nil {
		return err
	}

	msg := event.BoatMessage{RecordID: boat.ID}
	if err := client.do(http.MethodPost, "/publish/"+string(msg.Channel()), msg, nil); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Selected %s (%s)\n", boat.Name, boat.ID)
	return nil
}
