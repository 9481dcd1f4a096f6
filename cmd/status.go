package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"rolldevmcp/internal/config"
	"rolldevmcp/internal/executor"
	"rolldevmcp/internal/rolldev"
	"rolldevmcp/internal/tui"
	"rolldevmcp/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var statusWatch bool

// statusCmd shows the running RollDev environments, either as a one-shot
// table or as a live-updating view with --watch.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running RollDev environments",
	Long: `Runs 'rolldev status' from the current directory and prints the
parsed environment records.

With --watch, opens a live view that refreshes every few seconds.
Inside the watch view, 'c' copies the selected environment's URL to the
clipboard and 'q' quits.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(logging.ParseLevel(cfg.Logging.Level), os.Stderr)

	if statusWatch {
		program := tea.NewProgram(tui.NewModel(cfg))
		_, err := program.Run()
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := executor.Run(ctx, executor.Spec{
		Program: cfg.RollDev.Binary,
		Args:    []string{"status"},
		Timeout: cfg.Timeouts.General,
	})
	if err != nil {
		return fmt.Errorf("rolldev status failed: %w", err)
	}

	envs := rolldev.ParseStatus(result.Stdout)
	printEnvironmentTable(cmd.OutOrStdout(), envs)
	if result.ExitCode != 0 {
		return fmt.Errorf("rolldev status exited with code %d: %s", result.ExitCode, result.Stderr)
	}
	return nil
}

// printEnvironmentTable writes a plain aligned table, wide-rune safe.
func printEnvironmentTable(w io.Writer, envs []rolldev.Environment) {
	if len(envs) == 0 {
		fmt.Fprintln(w, "No running environments found")
		return
	}

	widths := []int{20, 11, 32, 24}
	header := fmt.Sprintf("%s %s %s %s",
		runewidth.FillRight("NAME", widths[0]),
		runewidth.FillRight("CONTAINERS", widths[1]),
		runewidth.FillRight("URL", widths[2]),
		runewidth.FillRight("NETWORK", widths[3]),
	)
	fmt.Fprintln(w, header)
	for _, env := range envs {
		fmt.Fprintf(w, "%s %s %s %s\n",
			runewidth.FillRight(env.Name, widths[0]),
			runewidth.FillRight(fmt.Sprintf("%d", env.Containers), widths[1]),
			runewidth.FillRight(orDash(env.URL), widths[2]),
			runewidth.FillRight(orDash(env.Network), widths[3]),
		)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Refresh the view continuously")
}
