/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	uart "github.com/allbin/go-uart"
	"github.com/allbin/go-uart/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appLog  = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uartctl",
	Short: "Drive polled UART peripherals from the command line",
	Long: `uartctl drives a bus of polled UART peripherals.

Ports are described in uartctl.yaml. Each port is backed by a device:
- sim:      an in-memory register block
- loopback: an in-memory register block wired TX to RX
- stdio:    this terminal is the far end of the line
- a path:   a tty device such as /dev/ttyUSB0

Without a config file, port 0 is stdio and ports 1-3 are sim.

Example usage:
  uartctl list --table
  uartctl baud 9600 115200 --clock 8000000
  uartctl send "Hello" --newline
  uartctl prompt "name? "
  uartctl connect --port 1`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(cmd.ErrOrStderr(), viper.GetString("log.level"), viper.GetString("log.format"))
		if err != nil {
			return err
		}
		appLog = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/uartctl.yaml or ./uartctl.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", logger.FormatAuto, "Log format: auto, console, json, text")
	rootCmd.PersistentFlags().Uint32("clock", uart.DefaultClock, "Peripheral clock in Hz")
	rootCmd.PersistentFlags().IntP("port", "p", 0, "Port index")
	rootCmd.PersistentFlags().Int("line-capacity", uart.DefaultLineCapacity, "Line buffer size including the terminator")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("clock", rootCmd.PersistentFlags().Lookup("clock"))
	viper.BindPFlag("line_capacity", rootCmd.PersistentFlags().Lookup("line-capacity"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("uartctl")
	}

	viper.SetEnvPrefix("UART")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}
}
