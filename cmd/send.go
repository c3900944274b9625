/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [data]",
	Short: "Send data to a port",
	Long: `Send data to the selected port.

Data can be provided as:
- Command line argument: uartctl send "Hello World"
- From stdin (pipe): echo "test data" | uartctl send

Text is sent with WriteString, so it stops at the first NUL byte. With
--hex the data is decoded and every byte is sent, NUL included.

Example usage:
  uartctl send "Hello World"
  uartctl send "AT+GMR" --newline --port 2
  uartctl send --hex "48 65 6C 6C 6F 00 0D 0A"
  echo "test" | uartctl send`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addNewline, _ := cmd.Flags().GetBool("newline")
		hexMode, _ := cmd.Flags().GetBool("hex")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		index, _ := cmd.Flags().GetInt("port")

		var data string
		if len(args) == 1 {
			data = args[0]
		} else {
			stdinData, err := readPiped(cmd.InOrStdin())
			if err != nil {
				return err
			}
			data = stdinData
		}

		b, _, err := openBoard(cmd, false)
		if err != nil {
			return err
		}
		defer b.Close()

		port, err := b.Port(index)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var n int
		if hexMode {
			raw, err := parseHexInput(data)
			if err != nil {
				return fmt.Errorf("invalid hex data: %w", err)
			}
			n, err = port.WriteContext(ctx, raw)
			if err != nil {
				return err
			}
		} else {
			if addNewline {
				data += "\r\n"
			}
			n, err = port.WriteStringContext(ctx, data)
			if err != nil {
				return err
			}
		}

		reportSent(cmd.ErrOrStderr(), port, n)
		return b.Close()
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("newline", "n", false, "Append CR LF to the data")
	sendCmd.Flags().BoolP("hex", "x", false, "Interpret data as hexadecimal (e.g., '48656c6c6f' for 'Hello')")
	sendCmd.Flags().DurationP("timeout", "t", 5*time.Second, "Timeout for sending data")
}

// readPiped reads all of r unless it is an interactive terminal
func readPiped(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no data given and stdin is not a pipe")
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// parseHexInput converts hex strings to bytes. Supports both:
// - Space-separated: "48 65 6C 6C 6F"
// - Continuous: "48656C6C6F"
// A 0x prefix on each byte is accepted.
func parseHexInput(hexStr string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", "0x", "", "0X", "").Replace(strings.TrimSpace(hexStr))
	if len(clean) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex string must have even number of digits (got %d)", len(clean))
	}

	out := make([]byte, 0, len(clean)/2)
	for i := 0; i < len(clean); i += 2 {
		b, err := strconv.ParseUint(clean[i:i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte '%s'", clean[i:i+2])
		}
		out = append(out, byte(b))
	}
	return out, nil
}

func reportSent(w io.Writer, port *uart.Port, n int) {
	fmt.Fprintf(w, "%s Sent %d bytes to %s\n", styles.SuccessStyle.Render("✓"), n, port.Name())
}
