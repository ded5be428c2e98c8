package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	askSessionID   string
	askSessionName string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the corpus",
	Long: `Runs one agent exchange: the model may call the retrieve tool to
search the index, then answers with citations. Both turns are appended
to the session history.

Use --session to continue an existing session; without it the exchange
is logged without a session id.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSessionID, "session", "", "session id to continue")
	askCmd.Flags().StringVar(&askSessionName, "session-name", "", "session display name")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	result := chatService.Ask(cmd.Context(), askSessionID, askSessionName, args[0])
	cmd.Println(result.Answer)

	// The answer already carries an apologetic message; the error is
	// returned so the process exits non-zero.
	return result.Err
}
