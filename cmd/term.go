/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/colors"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var colorNames = map[string]uart.Color{
	"black":   uart.ColorBlack,
	"red":     uart.ColorRed,
	"green":   uart.ColorGreen,
	"yellow":  uart.ColorYellow,
	"blue":    uart.ColorBlue,
	"magenta": uart.ColorMagenta,
	"cyan":    uart.ColorCyan,
	"white":   uart.ColorWhite,
}

// termCmd represents the term command
var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Send terminal control sequences to a port",
	Long: `Control the ANSI terminal on the far end of the selected port.

Example usage:
  uartctl term clear
  uartctl term color red
  uartctl term goto 10 4
  uartctl term reset
  uartctl term colors`,
}

var termColorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Show the color names and their escape sequences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderColors(cmd.OutOrStdout())
		return nil
	},
}

var termClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the screen and home the cursor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPort(cmd, (*uart.Port).ClearScreen)
	},
}

var termColorCmd = &cobra.Command{
	Use:   "color <name|index>",
	Short: "Set the foreground color",
	Long: `Set the foreground color by name (black, red, green, yellow, blue,
magenta, cyan, white) or by index. Indices are sent unchecked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseColor(args[0])
		if err != nil {
			return err
		}
		return withPort(cmd, func(p *uart.Port) error {
			return p.SetColor(c)
		})
	},
}

var termResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset colors and attributes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPort(cmd, (*uart.Port).ResetAttributes)
	},
}

var termGotoCmd = &cobra.Command{
	Use:   "goto <x> <y>",
	Short: "Move the cursor to column x, row y",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid column %q: %w", args[0], err)
		}
		y, err := strconv.ParseUint(args[1], 10, 8)
		if err != nil {
			return fmt.Errorf("invalid row %q: %w", args[1], err)
		}
		return withPort(cmd, func(p *uart.Port) error {
			return p.GotoXY(uint8(x), uint8(y))
		})
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
	termCmd.AddCommand(termClearCmd, termColorCmd, termResetCmd, termGotoCmd, termColorsCmd)
}

// colorOrder lists the color names by index
var colorOrder = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// renderColors prints one line per base color with a preview swatch
func renderColors(out io.Writer) {
	fmt.Fprintln(out, styles.TitleStyle.Render("Foreground colors"))
	for _, name := range colorOrder {
		c := colorNames[name]
		swatch := lipgloss.NewStyle().Foreground(colors.ForANSI(c)).Render("■■")
		fmt.Fprintf(out, "%s %d %-8s %q\n", swatch, c, name, uart.ForegroundSequence(c))
	}
}

func parseColor(s string) (uart.Color, error) {
	if c, ok := colorNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown color %q", s)
	}
	return uart.Color(n), nil
}

// withPort opens the board, runs fn on the selected port and closes the
// board again.
func withPort(cmd *cobra.Command, fn func(*uart.Port) error) error {
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
	if err := fn(port); err != nil {
		return err
	}
	return b.Close()
}
