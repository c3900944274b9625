/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"strconv"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// standardRates are shown when baud is run without arguments
var standardRates = []uint32{2400, 4800, 9600, 14400, 19200, 38400, 57600, 76800, 115200, 230400, 250000, 500000, 1000000}

// baudCmd represents the baud command
var baudCmd = &cobra.Command{
	Use:   "baud [rate...]",
	Short: "Show baud divisors for a peripheral clock",
	Long: `Compute the baud divisor for each rate at the peripheral clock, the
way Configure does, and show the rate actually achieved.

Both oversampling modes are tried and the one with the smaller error wins,
unless --mode forces one.

Example usage:
  uartctl baud
  uartctl baud 9600 115200 --clock 8000000
  uartctl baud 115200 --mode normal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := parseSpeedMode(modeName)
		if err != nil {
			return err
		}

		rates := standardRates
		if len(args) > 0 {
			rates = make([]uint32, 0, len(args))
			for _, arg := range args {
				rate, err := strconv.ParseUint(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid baud rate %q: %w", arg, err)
				}
				rates = append(rates, uint32(rate))
			}
		}

		clock := viper.GetUint32("clock")
		fmt.Fprintf(cmd.OutOrStdout(), "Clock %d Hz, mode %s\n\n", clock, mode)
		fmt.Fprintln(cmd.OutOrStdout(), renderDivisorTable(clock, mode, rates).View())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(baudCmd)

	baudCmd.Flags().StringP("mode", "m", "auto", "Speed mode: auto, normal, double")
}

func renderDivisorTable(clock uint32, mode uart.SpeedMode, rates []uint32) table.Model {
	columns := []table.Column{
		table.NewColumn("rate", "Rate", 10),
		table.NewColumn("divisor", "Divisor", 9),
		table.NewColumn("mode", "Mode", 8),
		table.NewColumn("achieved", "Achieved", 12),
		table.NewColumn("error", "Error", 9),
	}

	rows := make([]table.Row, 0, len(rates))
	for _, rate := range rates {
		data := table.RowData{"rate": rate}
		div, err := uart.ComputeDivisor(clock, rate, mode)
		if err != nil {
			data["divisor"] = table.NewStyledCell("unreachable", styles.ErrorTextStyle)
		} else {
			data["divisor"] = div.Value
			data["mode"] = speedLabel(div.DoubleSpeed)
			data["achieved"] = fmt.Sprintf("%.1f", div.Achieved)
			data["error"] = errorCell(div.ErrorPercent)
		}
		rows = append(rows, table.NewRow(data))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle)
}
