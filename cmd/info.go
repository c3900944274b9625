/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"

	uart "github.com/allbin/go-uart"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display detailed information about a port",
	Long: `Display the configuration of the selected port and the register values
it programs: divisor, double-speed flag, control bits and frame byte.

Examples:
  uartctl info
  uartctl info --port 2`,
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
		printPortInfo(cmd.OutOrStdout(), port.Info(), b.Device(index))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printPortInfo(w io.Writer, info uart.PortInfo, device string) {
	fmt.Fprintf(w, "Port Information: %d\n\n", info.Index)
	fmt.Fprintf(w, "  Name:        %s\n", info.Name)
	fmt.Fprintf(w, "  Device:      %s\n", device)
	if !info.Configured {
		fmt.Fprintln(w, "  Line:        disabled")
		return
	}
	fmt.Fprintf(w, "  Line:        %s\n", info.Config)
	fmt.Fprintf(w, "  Speed mode:  %s\n", info.Config.SpeedMode)

	frame, ctrl := uart.EncodeFrame(info.Config)
	ctrl |= uart.ControlTxEnable | uart.ControlRxEnable

	fmt.Fprintln(w, "\nRegisters:")
	fmt.Fprintf(w, "  Divisor:     %d\n", info.Divisor.Value)
	fmt.Fprintf(w, "  Double:      %t\n", info.Divisor.DoubleSpeed)
	fmt.Fprintf(w, "  Control:     %#04x\n", uint8(ctrl))
	fmt.Fprintf(w, "  Frame:       %#04x\n", uint8(frame))
	fmt.Fprintf(w, "  Achieved:    %.1f baud (%+.2f%%)\n", info.Divisor.Achieved, info.Divisor.ErrorPercent)
}
