package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

var (
	historyGroupID  int64
	historyLimit    int
	historyUser     string
	historyQuestion string
	historyAnswer   string
	historyRef      string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage archived question/answer exchanges",
	Long:  `Administer the chat history archive. Listing is newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Archive an exchange",
	Args:  cobra.NoArgs,
	RunE:  runHistoryAdd,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one archived exchange",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an archived exchange",
	Long:  `Updates only the fields whose flags are given; others are untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryUpdate,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an archived exchange",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.Flags().Int64Var(&historyGroupID, "group", 0, "filter by chat group id (0 = all)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 200, "maximum records to list (0 = no limit)")

	for _, c := range []*cobra.Command{historyAddCmd, historyUpdateCmd} {
		c.Flags().StringVar(&historyUser, "user", "", "user id")
		c.Flags().StringVar(&historyQuestion, "question", "", "question text")
		c.Flags().StringVar(&historyAnswer, "answer", "", "answer text")
		c.Flags().StringVar(&historyRef, "reference", "", "request reference id")
		c.Flags().Int64Var(&historyGroupID, "group", 0, "chat group id")
	}

	historyCmd.AddCommand(historyAddCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyUpdateCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	records, err := adminService.ListExchanges(cmd.Context(), domain.ChatHistoryFilter{
		GroupID: historyGroupID,
		Limit:   historyLimit,
	})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No archived exchanges.")
		return nil
	}

	for _, rec := range records {
		printExchange(cmd, &rec)
	}
	return nil
}

func runHistoryAdd(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	rec, err := adminService.RecordExchange(cmd.Context(), domain.ChatHistoryRecord{
		UserID:            historyUser,
		UserInquiry:       historyQuestion,
		AssistantResponse: historyAnswer,
		ReferenceID:       historyRef,
		ChatGroupID:       historyGroupID,
	})
	if err != nil {
		return fmt.Errorf("archiving exchange: %w", err)
	}

	cmd.Printf("Archived exchange %d\n", rec.ID)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	rec, err := adminService.GetExchange(cmd.Context(), id)
	if err != nil {
		return err
	}

	printExchange(cmd, rec)
	return nil
}

func runHistoryUpdate(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var upd domain.ChatHistoryUpdate
	if cmd.Flags().Changed("user") {
		upd.UserID = &historyUser
	}
	if cmd.Flags().Changed("question") {
		upd.UserInquiry = &historyQuestion
	}
	if cmd.Flags().Changed("answer") {
		upd.AssistantResponse = &historyAnswer
	}
	if cmd.Flags().Changed("reference") {
		upd.ReferenceID = &historyRef
	}
	if cmd.Flags().Changed("group") {
		upd.ChatGroupID = &historyGroupID
	}

	rec, err := adminService.UpdateExchange(cmd.Context(), id, upd)
	if err != nil {
		return fmt.Errorf("updating exchange: %w", err)
	}

	printExchange(cmd, rec)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := adminService.DeleteExchange(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting exchange: %w", err)
	}

	cmd.Printf("Deleted exchange %d\n", id)
	return nil
}

func printExchange(cmd *cobra.Command, rec *domain.ChatHistoryRecord) {
	cmd.Printf("  [%d] %s (user %s", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.UserID)
	if rec.ChatGroupID != 0 {
		cmd.Printf(", group %d", rec.ChatGroupID)
	}
	if rec.ReferenceID != "" {
		cmd.Printf(", ref %s", rec.ReferenceID)
	}
	cmd.Println(")")
	cmd.Printf("      Q: %s\n", rec.UserInquiry)
	if rec.AssistantResponse != "" {
		cmd.Printf("      A: %s\n", rec.AssistantResponse)
	}
}
