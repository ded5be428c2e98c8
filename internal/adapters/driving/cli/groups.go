package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atlara-labs/docchat-cli/internal/core/domain"
)

var (
	groupUser        string
	groupName        string
	groupDescription string
	groupActive      bool
	groupsActiveOnly bool
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage chat groups",
	Long:  `Administer the chat group records used to organise archived exchanges.`,
	Args:  cobra.NoArgs,
	RunE:  runGroupsList,
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a chat group",
	Args:  cobra.NoArgs,
	RunE:  runGroupsCreate,
}

var groupsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one chat group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsShow,
}

var groupsUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a chat group",
	Long:  `Updates only the fields whose flags are given; others are untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsUpdate,
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a chat group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsDelete,
}

func init() {
	groupsCmd.Flags().BoolVar(&groupsActiveOnly, "active-only", false, "list only active groups")

	groupsCreateCmd.Flags().StringVar(&groupUser, "user", "", "owning user id")
	groupsCreateCmd.Flags().StringVar(&groupName, "name", "", "group name")
	groupsCreateCmd.Flags().StringVar(&groupDescription, "description", "", "group description")
	groupsCreateCmd.Flags().BoolVar(&groupActive, "active", true, "group is active")

	groupsUpdateCmd.Flags().StringVar(&groupUser, "user", "", "owning user id")
	groupsUpdateCmd.Flags().StringVar(&groupName, "name", "", "group name")
	groupsUpdateCmd.Flags().StringVar(&groupDescription, "description", "", "group description")
	groupsUpdateCmd.Flags().BoolVar(&groupActive, "active", true, "group is active")

	groupsCmd.AddCommand(groupsCreateCmd)
	groupsCmd.AddCommand(groupsShowCmd)
	groupsCmd.AddCommand(groupsUpdateCmd)
	groupsCmd.AddCommand(groupsDeleteCmd)
	rootCmd.AddCommand(groupsCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, arg)
	}
	return id, nil
}

func runGroupsList(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	groups, err := adminService.ListGroups(cmd.Context(), domain.ChatGroupFilter{ActiveOnly: groupsActiveOnly})
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		cmd.Println("No chat groups.")
		return nil
	}

	for _, g := range groups {
		printGroup(cmd, &g)
	}
	return nil
}

func runGroupsCreate(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	group, err := adminService.CreateGroup(cmd.Context(), domain.ChatGroup{
		UserID:      groupUser,
		Name:        groupName,
		Description: groupDescription,
		Active:      groupActive,
	})
	if err != nil {
		return fmt.Errorf("creating group: %w", err)
	}

	cmd.Printf("Created group %d\n", group.ID)
	return nil
}

func runGroupsShow(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	group, err := adminService.GetGroup(cmd.Context(), id)
	if err != nil {
		return err
	}

	printGroup(cmd, group)
	return nil
}

func runGroupsUpdate(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var upd domain.ChatGroupUpdate
	if cmd.Flags().Changed("user") {
		upd.UserID = &groupUser
	}
	if cmd.Flags().Changed("name") {
		upd.Name = &groupName
	}
	if cmd.Flags().Changed("description") {
		upd.Description = &groupDescription
	}
	if cmd.Flags().Changed("active") {
		upd.Active = &groupActive
	}

	group, err := adminService.UpdateGroup(cmd.Context(), id, upd)
	if err != nil {
		return fmt.Errorf("updating group: %w", err)
	}

	printGroup(cmd, group)
	return nil
}

func runGroupsDelete(cmd *cobra.Command, args []string) error {
	if adminService == nil {
		return errors.New("admin service not configured")
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := adminService.DeleteGroup(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	cmd.Printf("Deleted group %d\n", id)
	return nil
}

func printGroup(cmd *cobra.Command, g *domain.ChatGroup) {
	status := "active"
	if !g.Active {
		status = "inactive"
	}
	cmd.Printf("  [%d] %s (user %s, %s)\n", g.ID, g.Name, g.UserID, status)
	if g.Description != "" {
		cmd.Printf("      %s\n", g.Description)
	}
}
