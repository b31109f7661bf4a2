package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"studydash/internal/app"
	"studydash/internal/config"
	"studydash/internal/encryption"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readConfig() (*config.Config, string, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, "", fmt.Errorf("reading config (run `studydash config init` first): %w", err)
	}
	return cfg, paths.ConfigFile, nil
}

// runApp reads the config, builds a DashApp for command and runs fn with it.
// The outcome of fn is recorded in the session log before the app is closed.
func runApp(cmd *cobra.Command, command string, fn func(a *app.DashApp) error) error {
	cfg, _, err := readConfig()
	if err != nil {
		return err
	}

	a, err := app.NewDashApp(cfg, command, app.WithOutput(cmd.OutOrStdout()), app.WithConsole(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer a.Close()

	err = fn(a)
	a.Finish(err)
	return err
}

// readPassphrase prompts on the terminal without echo.
func readPassphrase(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var rootCmd = &cobra.Command{
	Use:          "studydash",
	Short:        "Academic planning dashboard",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return err
		}

		if err := config.Init(paths.ConfigFile, config.NewConfig(paths.BaseDir)); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", paths.ConfigFile)
		fmt.Fprintf(out, "Base Dir: %s\n", paths.BaseDir)
		fmt.Fprintln(out, "Run `studydash config keys init` before pushing snapshots.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "# Configuration from %s\n\n", path)
		return config.Encode(cmd.OutOrStdout(), cfg)
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage snapshot encryption keys",
}

var configKeysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the snapshot key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return fmt.Errorf("creating encryptor: %w", err)
		}

		var passphrase string
		if enc.NeedsPassphrase() {
			passphrase, err = readPassphrase(cmd, "New passphrase: ")
			if err != nil {
				return err
			}
			confirm, err := readPassphrase(cmd, "Repeat passphrase: ")
			if err != nil {
				return err
			}
			if passphrase != confirm {
				return fmt.Errorf("passphrases do not match")
			}
		}

		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("setting up keys: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Keys written to %s and %s\n", cfg.Encryption.PublicKeyPath, cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// view commands
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show upcoming work, overdue work and today's classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "overview", func(a *app.DashApp) error {
			fmt.Fprint(cmd.OutOrStdout(), a.Overview())
			return nil
		})
	},
}

var timetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Show the weekly timetable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "timetable", func(a *app.DashApp) error {
			fmt.Fprint(cmd.OutOrStdout(), a.Timetable())
			return nil
		})
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses and their weekly sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "courses", func(a *app.DashApp) error {
			fmt.Fprint(cmd.OutOrStdout(), a.Courses())
			return nil
		})
	},
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List assignments by due date",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		desc, _ := cmd.Flags().GetBool("desc")

		return runApp(cmd, "assignments", func(a *app.DashApp) error {
			out, err := a.Assignments(status, priority, desc)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar and the items on one date",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		date, _ := cmd.Flags().GetString("date")

		return runApp(cmd, "calendar", func(a *app.DashApp) error {
			out, err := a.Calendar(month, date)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		})
	},
}

// theme command
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage the color theme",
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "theme toggle", func(a *app.DashApp) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", a.ToggleTheme())
			return nil
		})
	},
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard data",
}

var exportTimetableCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Write the weekly timetable to an .xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")

		return runApp(cmd, "export timetable", func(a *app.DashApp) error {
			if err := a.ExportTimetable(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Timetable written to %s\n", path)
			return nil
		})
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive or restore the whole dashboard",
}

var snapshotPushCmd = &cobra.Command{
	Use:   "push [NAME]",
	Short: "Store an encrypted snapshot in the vault",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		return runApp(cmd, "snapshot push", func(a *app.DashApp) error {
			pushed, err := a.PushSnapshot(context.Background(), vaultName, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s stored\n", pushed)
			return nil
		})
	},
}

var snapshotPullCmd = &cobra.Command{
	Use:   "pull [NAME]",
	Short: "Replace the dashboard with a snapshot (latest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		return runApp(cmd, "snapshot pull", func(a *app.DashApp) error {
			var passphrase string
			if a.EncryptorNeedsPassphrase() {
				p, err := readPassphrase(cmd, "Passphrase: ")
				if err != nil {
					return err
				}
				passphrase = p
			}

			snap, restored, err := a.PullSnapshot(context.Background(), vaultName, name, passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (taken %s): %d courses, %d assignments, %d events\n",
				restored,
				snap.CreatedAt.Format("2006-01-02 15:04"),
				len(snap.State.Courses),
				len(snap.State.Assignments),
				len(snap.State.Events),
			)
			return nil
		})
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultName, _ := cmd.Flags().GetString("vault")

		return runApp(cmd, "snapshot list", func(a *app.DashApp) error {
			names, err := a.ListSnapshots(context.Background(), vaultName)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots.")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the storage backend, schema version and when each slice was saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "status", func(a *app.DashApp) error {
			rep, err := a.StorageStatus()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Storage: %s\n", rep.Type)
			if rep.Schema == nil {
				return nil
			}
			fmt.Fprintf(out, "Schema:  version %d of %d", rep.Schema.Version, rep.Schema.Latest)
			if err := rep.Schema.Err(); err != nil {
				fmt.Fprintf(out, " (%v)", err)
			}
			fmt.Fprintln(out)
			for _, key := range app.SliceKeys() {
				saved := "never"
				if ts, ok := rep.Updated[key]; ok {
					saved = ts.Format("2006-01-02 15:04:05 MST")
				}
				fmt.Fprintf(out, "  %-12s %s\n", key, saved)
			}
			return nil
		})
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeysCmd)
	configKeysCmd.AddCommand(configKeysInitCmd)

	// views
	assignmentsCmd.Flags().String("status", "", "Only show this status (todo, in-progress, completed)")
	assignmentsCmd.Flags().String("priority", "", "Only show this priority (low, medium, high)")
	assignmentsCmd.Flags().Bool("desc", false, "Latest due date first")
	calendarCmd.Flags().String("month", "", "Month to show (YYYY-MM)")
	calendarCmd.Flags().String("date", "", "Date whose items are listed (YYYY-MM-DD)")

	themeCmd.AddCommand(themeToggleCmd)

	exportCmd.AddCommand(exportTimetableCmd)
	exportTimetableCmd.Flags().StringP("output", "o", "timetable.xlsx", "Output file")

	snapshotCmd.AddCommand(snapshotPushCmd)
	snapshotCmd.AddCommand(snapshotPullCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.PersistentFlags().String("vault", "", "Vault name (default: first configured)")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(timetableCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(assignmentsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(statusCmd)
	addRecordCommands(rootCmd)
}
