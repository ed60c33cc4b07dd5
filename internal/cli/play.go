package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geoquiz-service/internal/engine"
	"geoquiz-service/internal/infra/memory"
	"geoquiz-service/internal/infra/sqlite"
	"geoquiz-service/internal/tui"
)

// NewPlayCmd runs the quiz in the terminal against the seeded pools, with
// lifetime stats kept in a local SQLite file.
func NewPlayCmd() *cobra.Command {
	var statsPath string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(cmd.Context(), statsPath)
		},
	}
	cmd.Flags().StringVar(&statsPath, "stats-db", "", "path to local stats database (empty for default)")
	return cmd
}

func runPlayer(ctx context.Context, statsPath string) error {
	store, err := sqlite.Open(ctx, statsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	pools := memory.NewPoolRepository(memory.NewSeededPoolLoader(), 10*time.Minute)
	service := engine.NewService(pools, memory.NewSessionRegistry(), store)

	program := tea.NewProgram(tui.NewModel(service, "local"), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
