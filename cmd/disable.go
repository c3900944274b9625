/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// disableCmd represents the disable command
var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn a port's transmitter and receiver off",
	Long: `Turn the transmitter and receiver of the selected port off and clear
its double-speed flag. On a tty device this stops reception (CREAD off).

The port comes back with its configured settings the next time uartctl
opens the board.

Examples:
  uartctl disable --port 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("port")

		b, _, err := openBoard(cmd, false)
		if err != nil {
			return err
		}
		defer b.Close()

		port, err := b.Port(index)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Disabling %s (%s)\n", port.Name(), lineSettings(port.Info()))
		port.Disable()
		if port.Configured() {
			return fmt.Errorf("port %d still configured", index)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Port disabled")
		return b.Close()
	},
}

func init() {
	rootCmd.AddCommand(disableCmd)
}
