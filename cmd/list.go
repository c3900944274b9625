/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/tui/colors"
	"github.com/allbin/go-uart/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the ports on the bus",
	Long: `List every port of the bus with its backing device and the line
settings it was configured with.

Ports are filtered by device kind with --filter:
- sim       in-memory register blocks (including loopback)
- stdio     the terminal console
- tty       tty devices
- all       everything (default)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := openBoard(cmd, false)
		if err != nil {
			return err
		}
		defer b.Close()

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		rows := filterPorts(b, b.bus.ListPorts(), filterType)
		out := cmd.OutOrStdout()
		if len(rows) == 0 {
			fmt.Fprintf(out, "No ports found matching filter: %s\n", filterType)
			return nil
		}

		if tableFormat {
			renderTable(out, rows)
		} else {
			renderSimple(out, rows)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by device kind: sim, stdio, tty, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// portRow is one listed port
type portRow struct {
	uart.PortInfo
	Device string
}

// filterPorts keeps the ports whose device kind matches filterType
func filterPorts(b *board, infos []uart.PortInfo, filterType string) []portRow {
	var rows []portRow
	for _, info := range infos {
		device := b.Device(info.Index)
		if filterType == "" || filterType == "all" || strings.EqualFold(deviceKind(device), filterType) {
			rows = append(rows, portRow{PortInfo: info, Device: device})
		}
	}
	return rows
}

// deviceKind classifies a device string
func deviceKind(device string) string {
	switch device {
	case deviceSim, deviceLoopback, "":
		return "sim"
	case deviceStdio:
		return "stdio"
	default:
		return "tty"
	}
}

// lineSettings formats the configured line, e.g. "9600 8N1"
func lineSettings(info uart.PortInfo) string {
	if !info.Configured {
		return "disabled"
	}
	return info.Config.String()
}

// renderTable renders the port list in a styled static table format
func renderTable(out io.Writer, rows []portRow) {
	fmt.Fprintf(out, "Bus has %d port(s):\n\n", len(rows))

	columns := []table.Column{
		table.NewColumn("index", "#", 3),
		table.NewColumn("name", "Name", 12),
		table.NewColumn("device", "Device", 16),
		table.NewColumn("line", "Line", 14),
		table.NewColumn("divisor", "Divisor", 9),
		table.NewColumn("mode", "Mode", 8),
		table.NewColumn("error", "Error", 8),
	}

	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		data := table.RowData{
			"index":  r.Index,
			"name":   r.Name,
			"device": r.Device,
			"line":   lineSettings(r.PortInfo),
		}
		if r.Configured {
			data["divisor"] = r.Divisor.Value
			data["mode"] = speedLabel(r.Divisor.DoubleSpeed)
			data["error"] = errorCell(r.Divisor.ErrorPercent)
		}
		tableRows = append(tableRows, table.NewRow(data))
	}

	t := table.New(columns).
		WithRows(tableRows).
		BorderRounded().
		HeaderStyle(styles.TableHeaderStyle).
		WithBaseStyle(lipgloss.NewStyle().Foreground(colors.Text).Align(lipgloss.Left))

	fmt.Fprintln(out, t.View())
}

// renderSimple renders the port list in simple text format
func renderSimple(out io.Writer, rows []portRow) {
	for _, r := range rows {
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", r.Index, r.Name, r.Device, lineSettings(r.PortInfo))
	}
}

func speedLabel(double bool) string {
	if double {
		return "double"
	}
	return "normal"
}

// errorCell styles a baud error by magnitude
func errorCell(percent float64) table.StyledCell {
	style := lipgloss.NewStyle().Foreground(colors.Green)
	switch {
	case percent > 2 || percent < -2:
		style = lipgloss.NewStyle().Foreground(colors.Red)
	case percent > 1 || percent < -1:
		style = lipgloss.NewStyle().Foreground(colors.Yellow)
	}
	return table.NewStyledCell(fmt.Sprintf("%+.2f%%", percent), style)
}
