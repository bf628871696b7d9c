package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dddelispt42/hwm/internal/control/client"
)

var socketPath string

var rootCmd = &cobra.Command{
	Use:           "hwmctl",
	Short:         "Control a running hwm daemon",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newClient() (*client.Client, error) {
	return client.New(socketPath)
}

var scratchpadCmd = &cobra.Command{
	Use:   "scratchpad",
	Short: "Manage scratchpads",
}

var scratchpadToggleCmd = &cobra.Command{
	Use:   "toggle <name>",
	Short: "Toggle the named scratchpad",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient()
		if err != nil {
			return err
		}
		return cli.ToggleScratchpad(cmd.Context(), args[0])
	},
}

var stickyCmd = &cobra.Command{
	Use:   "sticky",
	Short: "Manage sticky clients",
}

var stickyToggleCmd = &cobra.Command{
	Use:   "toggle [client-id]",
	Short: "Pin or unpin a client (focused client when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient()
		if err != nil {
			return err
		}
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		result, err := cli.ToggleSticky(cmd.Context(), id)
		if err != nil {
			return err
		}
		if result.Pinned {
			fmt.Printf("pinned %s\n", result.Client)
		} else {
			fmt.Printf("unpinned %s\n", result.Client)
		}
		return nil
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Manage the layout selection",
}

var layoutCycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Select the next layout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reverse, _ := cmd.Flags().GetBool("reverse")
		cli, err := newClient()
		if err != nil {
			return err
		}
		result, err := cli.CycleLayout(cmd.Context(), reverse)
		if err != nil {
			return err
		}
		fmt.Println(result.Active)
		return nil
	},
}

var layoutSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Select a layout by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient()
		if err != nil {
			return err
		}
		return cli.SetLayout(cmd.Context(), args[0])
	},
}

var layoutMsgCmd = &cobra.Command{
	Use:   "msg <message>",
	Short: "Send a message to the active layout (incmain|decmain|expandmain|shrinkmain)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient()
		if err != nil {
			return err
		}
		return cli.LayoutMessage(cmd.Context(), args[0])
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the daemon's runtime snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		cli, err := newClient()
		if err != nil {
			return err
		}
		snap, err := cli.Inspect(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		fmt.Printf("layout: %s (available: %s)\n", snap.ActiveLayout, strings.Join(snap.Layouts, ", "))
		for _, pad := range snap.Scratchpads {
			line := fmt.Sprintf("scratchpad %s: %s", pad.Name, pad.State)
			if pad.Client != "" {
				line += " client " + pad.Client
			}
			fmt.Println(line)
		}
		if len(snap.Sticky) > 0 {
			fmt.Printf("sticky: %s\n", strings.Join(snap.Sticky, ", "))
		}
		if snap.World != nil {
			fmt.Printf("active tag: %s, %d clients\n", snap.World.ActiveTag, len(snap.World.Clients))
		}
		return nil
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the daemon configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := newClient()
		if err != nil {
			return err
		}
		return cli.Reload(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "control socket path (default: runtime dir)")
	layoutCycleCmd.Flags().Bool("reverse", false, "select the previous layout instead")
	inspectCmd.Flags().Bool("json", false, "print the snapshot as JSON")

	scratchpadCmd.AddCommand(scratchpadToggleCmd)
	stickyCmd.AddCommand(stickyToggleCmd)
	layoutCmd.AddCommand(layoutCycleCmd, layoutSetCmd, layoutMsgCmd)
	rootCmd.AddCommand(scratchpadCmd, stickyCmd, layoutCmd, inspectCmd, reloadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hwmctl:", err)
		os.Exit(1)
	}
}
