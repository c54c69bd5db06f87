package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harrisonrobin/reservas/pkg/config"
	"github.com/harrisonrobin/reservas/pkg/filter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// overrides are root flags that take priority over the config file.
type overrides struct {
	spreadsheet string
	readRange   string
	credentials string
	cacheTTL    time.Duration
}

func (o overrides) apply(cfg *config.Config) {
	if o.spreadsheet != "" {
		cfg.SpreadsheetID = o.spreadsheet
	}
	if o.readRange != "" {
		cfg.Range = o.readRange
	}
	if o.credentials != "" {
		cfg.CredentialsFile = o.credentials
	}
	if o.cacheTTL != 0 {
		cfg.CacheTTL = config.Duration{Duration: o.cacheTTL}
	}
}

func SetupCommands(a *App) *cobra.Command {
	var o overrides

	// root command
	rootCmd := &cobra.Command{
		Use:           "reservas",
		Short:         "Visor de reservas sobre Google Sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			o.apply(a.cfg)
		},
	}
	rootCmd.PersistentFlags().StringVar(&o.spreadsheet, "spreadsheet", "", "Spreadsheet ID (overrides config)")
	rootCmd.PersistentFlags().StringVar(&o.readRange, "range", "", "Range to read, e.g. 'Hoja 1!A1:J' (overrides config)")
	rootCmd.PersistentFlags().StringVar(&o.credentials, "credentials", "", "Service account key file (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&o.cacheTTL, "cache-ttl", 0, "How long fetched rows are reused (overrides config)")

	// command for running the web dashboard
	var listen string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the reservation dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen != "" {
				a.cfg.Listen = listen
			}
			return a.Serve()
		},
	}
	serveCmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (overrides config)")

	// command for printing the filtered reservations once
	var date, status, search, xlsxPath string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the filtered reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDateFlag(date, time.Now())
			if err != nil {
				return err
			}
			c := filter.Criteria{Date: d, Status: status, Search: search}
			return a.Show(cmd.Context(), c, xlsxPath)
		},
	}
	showCmd.Flags().StringVar(&date, "fecha", "", "Date as dd/mm/aaaa, or 'hoy'")
	showCmd.Flags().StringVar(&status, "estado", filter.StatusAll, "Status: "+strings.Join(filter.Statuses, ", "))
	showCmd.Flags().StringVar(&search, "buscar", "", "Text to find in name, RUN or email")
	showCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the result to this .xlsx file")

	// command for persisting the current settings
	var listenCfg, authFile string
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Save spreadsheet, range and credential settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listenCfg != "" {
				a.cfg.Listen = listenCfg
			}
			if authFile != "" {
				a.cfg.AuthFile = authFile
			}
			if err := config.Save(a.cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			path, _ := config.GetConfigPath()
			fmt.Fprintf(a.out, "Configuration saved to %s\n", path)
			return nil
		},
	}
	configCmd.Flags().StringVar(&listenCfg, "listen", "", "Default dashboard address")
	configCmd.Flags().StringVar(&authFile, "auth-file", "", "File holding the refresh user:hash line")

	// command for creating the refresh auth file
	var overwrite bool
	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Create the auth file protecting the refresh action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, password, err := promptCredentials()
			if err != nil {
				return err
			}
			return a.WriteAuthFile(user, password, overwrite)
		},
	}
	hashCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing auth file")

	// add commands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(hashCmd)

	return rootCmd
}

// promptCredentials asks for a username and a password typed twice.
func promptCredentials() (string, string, error) {
	fmt.Print("Enter username: ")
	reader := bufio.NewReader(os.Stdin)
	user, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("error reading username: %w", err)
	}
	user = strings.TrimSpace(user)
	if user == "" || strings.Contains(user, ":") {
		return "", "", errors.New("username cannot be empty or contain ':'")
	}

	password, err := readPassword("Enter password:   ")
	if err != nil {
		return "", "", err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", errors.New("password cannot be empty")
	}
	if password != confirm {
		return "", "", errors.New("passwords do not match")
	}
	return user, password, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}
	return string(b), nil
}
