package commands

import (
	"fmt"
	"io"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/telnet2/go-practice/go-boatbus/internal/server"
	"github.com/telnet2/go-practice/go-boatbus/internal/sseclient"
)

var (
	watchServer   string
	watchChannels []string
	watchNoColor  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the events of a running server",
	Long: `Print the bus events streamed by a running server until interrupted.

Examples:
  boatbus watch                              # Every mirrored channel
  boatbus watch --channels 'boat.search.*'   # Search traffic only`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchServer, "server", DefaultServerURL, "Server URL")
	watchCmd.Flags().StringSliceVarP(&watchChannels, "channels", "c", nil, "Channel globs to stream")
	watchCmd.Flags().BoolVar(&watchNoColor, "no-color", false, "Disable colored output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	color.NoColor = color.NoColor || watchNoColor

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := sseclient.New(watchServer)
	if err := client.Connect(ctx, watchPath(watchChannels)); err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	errs := client.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-client.Events():
			if !ok {
				return nil
			}
			printEvent(out, evt)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return err
		}
	}
}

// watchPath builds the stream path for the given channel globs.
func watchPath(channels []string) string {
	if len(channels) == 0 {
		return "/event"
	}
	return "/event?channels=" + url.QueryEscape(strings.Join(channels, ","))
}

var (
	connectedColor = color.New(color.FgHiBlack)
	channelColor   = color.New(color.FgCyan, color.Bold)
)

func printEvent(out io.Writer, evt sseclient.Event) {
	switch evt.Type {
	case sseclient.HeartbeatEvent:
		return
	case server.ConnectedEvent:
		fmt.Fprintln(out, connectedColor.Sprintf("connected %s", evt.Data))
	default:
		fmt.Fprintf(out, "%s %s\n", channelColor.Sprint(evt.Type), evt.Data)
	}
}
