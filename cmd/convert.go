/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/allbin/go-uart/numconv"
	"github.com/spf13/cobra"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert 16-bit numbers to and from text",
	Long: `Convert unsigned 16-bit numbers the way the firmware console does.

itoa formats a decimal value in any base from 2 to 16 with uppercase
digits. atoi reads the leading digits of a string and ignores the rest;
values past 65535 saturate.

Example usage:
  uartctl convert itoa 255 --base 16
  uartctl convert atoi 123abc
  uartctl convert atoi ff --base 16`,
}

var itoaCmd = &cobra.Command{
	Use:   "itoa <value>",
	Short: "Format a number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetInt("base")

		v, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("value must be 0..65535: %w", err)
		}
		s, err := numconv.FormatUint16(uint16(v), base)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

var atoiCmd = &cobra.Command{
	Use:   "atoi <text>",
	Short: "Parse the leading digits of a string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetInt("base")

		v, err := numconv.ParseUint16Base(args[0], base)
		if errors.Is(err, numconv.ErrOverflow) {
			appLog.Warn("value saturated", "input", args[0], "value", v)
		} else if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.AddCommand(itoaCmd, atoiCmd)

	convertCmd.PersistentFlags().IntP("base", "b", 10, "Number base (2-16)")
}
