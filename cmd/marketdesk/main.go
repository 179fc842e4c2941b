package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/cmd/commands"
	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/files"
	"github.com/marketdesk/marketdesk-terminal/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "marketdesk",
	Short: "Terminal admin console for the property and marketplace platform",
	Long: `Marketdesk is a terminal admin console for the property and marketplace
platform. Run it without arguments for the interactive TUI, or use the
subcommands to list, inspect, edit and delete records from scripts.

The backend and session are configured through the environment (or a
.env file):
  MARKETDESK_API_URL         Backend base URL (default http://localhost:5000/api)
  MARKETDESK_SESSION_TOKEN   Admin session token sent as the session cookie
  MARKETDESK_LOG_FILE        Append request diagnostics to this file`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		noColor, _ := cmd.Flags().GetBool("no-color")
		yes, _ := cmd.Flags().GetBool("yes")
		cli.SetGlobalFlags(quiet, noColor, yes)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to start the terminal user interface: %v\n", err)
			fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
			os.Exit(1)
		}
	},
}

func runTUI(cmd *cobra.Command) error {
	apiURL, _ := cmd.Flags().GetString("api-url")
	cc, err := cli.NewCommandContext(apiURL)
	if err != nil {
		return err
	}
	defer cc.Close()

	// Bubble Tea owns the terminal, so diagnostics go to the log file only
	if cc.Config.LogFile != "" {
		f, err := tea.LogToFile(cc.Config.LogFile, "marketdesk")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		cc.Logger = log.Default()
	}

	client, err := cc.Client()
	if err != nil {
		return err
	}
	uploads, err := cc.Uploads(context.Background())
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Client:   client,
		Uploads:  uploads,
		Settings: cc.Settings,
		Timing:   cc.Timing(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the settings folder",
	Long:  `Creates ~/.marketdesk with default settings and an exports folder`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Initializing Marketdesk settings in %s...\n", files.ConfigDir)

		created, err := files.InitConfigStructure()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to initialize settings: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure you have write permissions in your home directory.\n")
			os.Exit(1)
		}

		if created {
			fmt.Println("✓ Created default settings")
		} else {
			fmt.Println("✓ Existing settings kept")
		}
		fmt.Printf("✓ Settings file: %s\n", files.SettingsPath())
		fmt.Println("\nRun 'marketdesk' to start the interactive TUI.")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Marketdesk",
	Long:  `Display the current version of the Marketdesk console`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Marketdesk version %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("output", "o", "", "Output format: text, json or yaml (default from settings)")
	flags.BoolP("quiet", "q", false, "Suppress informational messages")
	flags.Bool("no-color", false, "Disable symbols and color in messages")
	flags.BoolP("yes", "y", false, "Answer yes to every confirmation")
	flags.String("api-url", "", "Backend base URL (overrides MARKETDESK_API_URL)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(
		commands.NewListCommand(),
		commands.NewSearchCommand(),
		commands.NewShowCommand(),
		commands.NewEditCommand(),
		commands.NewCreateCommand(),
		commands.NewDeleteCommand(),
		commands.NewPurgeCommand(),
		commands.NewStatsCommand(),
		commands.NewProfileCommand(),
		commands.NewClipboardCommand(),
		commands.NewExportCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
