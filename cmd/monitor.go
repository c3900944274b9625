/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/components"
	"github.com/spf13/cobra"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print received data as it arrives",
	Long: `Print bytes received on the selected port in real-time, as hex and
printable ASCII with a timestamp per burst. Press Ctrl+C to stop.

Examples:
  uartctl monitor --port 1
  uartctl monitor --no-hex
  uartctl monitor --timeout 30s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("port")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		noHex, _ := cmd.Flags().GetBool("no-hex")
		noASCII, _ := cmd.Flags().GetBool("no-ascii")

		b, ctx, err := openBoard(cmd, true)
		if err != nil {
			return err
		}
		defer b.Close()

		port, err := b.Port(index)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.ErrOrStderr()
		formatter := components.NewDataFormatter(!noHex, !noASCII)
		fmt.Fprintf(out, "Monitoring %s (%s)\n", port.Name(), lineSettings(port.Info()))
		fmt.Fprintln(out, "Press Ctrl+C to stop")

		buffer := make([]byte, 256)
		for {
			readCtx, cancel := ctx, context.CancelFunc(func() {})
			if timeout > 0 {
				readCtx, cancel = context.WithTimeout(ctx, timeout)
			}
			n, err := readChunk(readCtx, port, buffer)
			cancel()

			if n > 0 {
				fmt.Fprintln(out, formatter.FormatMessage(components.TrafficMsg{
					Timestamp: time.Now(),
					Data:      append([]byte(nil), buffer[:n]...),
				}))
			}
			switch {
			case err == nil:
			case ctx.Err() != nil:
				return nil
			case errors.Is(err, uart.ErrTimeout):
				fmt.Fprintf(out, "[%s] Timeout - no data\n", time.Now().Format("15:04:05"))
			default:
				return err
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationP("timeout", "t", 0, "Report silence after this long (0 = never)")
	monitorCmd.Flags().Bool("no-hex", false, "Hide the hex column")
	monitorCmd.Flags().Bool("no-ascii", false, "Hide the ASCII column")
}

// readChunk blocks for one byte, then takes whatever else is already
// waiting, up to len(buf).
func readChunk(ctx context.Context, port *uart.Port, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	c, err := port.ReadByteContext(ctx)
	if err != nil {
		return 0, err
	}
	buf[0] = c

	n := 1
	for n < len(buf) {
		c, ok := port.TryReadByte()
		if !ok {
			break
		}
		buf[n] = c
		n++
	}
	return n, nil
}
