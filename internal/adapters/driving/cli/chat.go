package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var (
	chatResumeID string
	chatName     string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a REPL over the indexed corpus. Each exchange is appended to
the session history, so a session can be resumed later with --resume.

Type 'exit' or 'quit' (or press Ctrl-D) to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatResumeID, "resume", "", "resume an existing session by id")
	chatCmd.Flags().StringVar(&chatName, "name", "", "name for a new session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := chatResumeID
	sessionName := chatName
	if sessionID == "" {
		if sessionName == "" {
			sessionName = "chat"
		}
		sessionID = sessionService.NewSession(sessionName)
		cmd.Printf("New session %s (%q)\n", sessionID, sessionName)
	} else {
		if err := printSessionHistory(cmd, sessionID); err != nil {
			return err
		}
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		result := chatService.Ask(cmd.Context(), sessionID, sessionName, question)
		cmd.Println(result.Answer)
		cmd.Println()
	}

	cmd.Printf("Session %s saved.\n", sessionID)
	return scanner.Err()
}

func printSessionHistory(cmd *cobra.Command, sessionID string) error {
	turns, err := sessionService.Turns(cmd.Context(), sessionID)
	if err != nil {
		return err
	}
	for _, turn := range turns {
		cmd.Printf("[%s] %s\n", turn.Role, turn.Content)
	}
	if len(turns) > 0 {
		cmd.Println()
	}
	return nil
}
