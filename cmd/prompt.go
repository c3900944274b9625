/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	uart "github.com/allbin/go-uart"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt [message]",
	Short: "Read one edited line from a port",
	Long: `Send an optional prompt, then read one line from the selected port with
echo and backspace editing. The line is printed once complete.

The line holds at most --line-capacity minus one characters; anything
typed past that is dropped without echo.

Example usage:
  uartctl prompt "name? "
  uartctl prompt --timeout 30s --line-capacity 64`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("port")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		line, err := uart.NewLineBuffer(viper.GetInt("line_capacity"))
		if err != nil {
			return err
		}

		b, ctx, err := openBoard(cmd, true)
		if err != nil {
			return err
		}
		defer b.Close()

		port, err := b.Port(index)
		if err != nil {
			return err
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if len(args) == 1 {
			if _, err := port.WriteStringContext(ctx, args[0]); err != nil {
				return err
			}
		}

		readErr := port.ReadLineContext(ctx, line)
		if err := b.Close(); err != nil {
			return err
		}
		if errors.Is(readErr, context.Canceled) {
			return fmt.Errorf("interrupted")
		}
		if readErr != nil {
			return readErr
		}

		appLog.Debug("line read", "port", index, "length", line.Len())
		fmt.Fprintln(cmd.OutOrStdout(), line.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().DurationP("timeout", "t", 0, "Give up after this long (0 = wait forever)")
}
