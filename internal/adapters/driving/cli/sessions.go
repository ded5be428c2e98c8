package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

var sessionsJSON bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions",
	Long: `Lists sessions reconstructed from the chat history, most recently
active first. Records written before sessions existed appear under the
"legacy" session.`,
	Args: cobra.NoArgs,
	RunE: runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print the turns of one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Mint a session ID for a named conversation",
	Long: `Mints a fresh session ID. Pass it to 'docchat ask --session' to group
exchanges into one conversation without the interactive REPL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSessionsNew,
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output sessions as JSON")
	sessionsListCmd.Flags().BoolVar(&sessionsJSON, "json", false, "output sessions as JSON")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsNewCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessions, err := sessionService.ListSessions(cmd.Context())
	if err != nil {
		return err
	}

	if sessionsJSON {
		return outputSessionsJSON(cmd, sessions)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions recorded.")
		return nil
	}

	for _, s := range sessions {
		name := s.Name
		if name == "" {
			name = "(unnamed)"
		}
		cmd.Printf("  %s  %s  %d turns  last %s\n",
			s.ID, name, s.TurnCount, s.LastTimestamp.Format("2006-01-02 15:04"))
	}
	return nil
}

// sessionInfo is the JSON shape of one session.
type sessionInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	TurnCount int       `json:"turn_count"`
	LastTS    time.Time `json:"last_ts"`
}

func outputSessionsJSON(cmd *cobra.Command, sessions []domain.Session) error {
	infos := make([]sessionInfo, len(sessions))
	for i, s := range sessions {
		infos[i] = sessionInfo{
			ID:        s.ID,
			Name:      s.Name,
			TurnCount: s.TurnCount,
			LastTS:    s.LastTimestamp,
		}
	}
	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	turns, err := sessionService.Turns(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if len(turns) == 0 {
		cmd.Println("No turns in this session.")
		return nil
	}

	for _, turn := range turns {
		cmd.Printf("[%s %s] %s\n",
			turn.Timestamp.Format("2006-01-02 15:04"), turn.Role, turn.Content)
	}
	return nil
}

func runSessionsNew(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	cmd.Println(sessionService.NewSession(name))
	return nil
}
