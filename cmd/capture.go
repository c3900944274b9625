/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	uart "github.com/allbin/go-uart"
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture <output-file>",
	Short: "Capture received bytes to a file",
	Long: `Capture bytes received on the selected port to a file for later parsing.

Runs until interrupted (Ctrl+C) or until --duration has passed. The output file is opened in append mode, allowing you to
resume captures without overwriting existing data.

Example usage:
  uartctl capture data.log --port 1
  uartctl capture capture.log --duration 10s --console`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("port")
		duration, _ := cmd.Flags().GetDuration("duration")
		bufferSize, _ := cmd.Flags().GetInt("buffer")
		showConsole, _ := cmd.Flags().GetBool("console")

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
		if duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, duration)
			defer cancel()
		}

		var console io.Writer
		if showConsole {
			console = cmd.ErrOrStderr()
		}
		return runCapture(ctx, port, args[0], bufferSize, console, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().DurationP("duration", "d", 0, "Stop after this long (0 = until interrupted)")
	captureCmd.Flags().Int("buffer", 4096, "Read buffer size")
	captureCmd.Flags().BoolP("console", "c", false, "Display incoming data on stderr while capturing")
}

func runCapture(ctx context.Context, port *uart.Port, outputPath string, bufferSize int, console, status io.Writer) error {
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(status, "Capturing data from %s to %s\n", port.Name(), outputPath)
	fmt.Fprintf(status, "Press Ctrl+C to stop\n\n")

	buffer := make([]byte, bufferSize)
	bytesWritten := int64(0)
	startTime := time.Now()

	for {
		n, err := readChunk(ctx, port, buffer)
		if n > 0 {
			written, werr := file.Write(buffer[:n])
			bytesWritten += int64(written)
			if werr != nil {
				return fmt.Errorf("write error: %w", werr)
			}
			if console != nil {
				console.Write(buffer[:n])
			}
		}
		if err != nil {
			if errors.Is(err, uart.ErrTimeout) || errors.Is(err, context.Canceled) {
				duration := time.Since(startTime)
				fmt.Fprintf(status, "\nCapture complete: %d bytes written in %v\n", bytesWritten, duration.Round(time.Millisecond))
				return nil
			}
			return fmt.Errorf("read error: %w", err)
		}
	}
}
