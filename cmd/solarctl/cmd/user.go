package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solarops/solar-console/domain"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Manage users",
	Aliases: []string{"users"},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

var userGetCmd = &cobra.Command{
	Use:   "get [USER_ID]",
	Short: "Get user details by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		user, err := sdk.Users().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		return printYAML(user)
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		users, err := sdk.Users().List(cmd.Context(), page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return printYAML(users)
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update [USER_ID]",
	Short: "Update a user's profile fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var patch domain.UserPatch
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			patch.Email = &v
		}
		if cmd.Flags().Changed("first-name") {
			v, _ := cmd.Flags().GetString("first-name")
			patch.FirstName = &v
		}
		if cmd.Flags().Changed("last-name") {
			v, _ := cmd.Flags().GetString("last-name")
			patch.LastName = &v
		}
		if cmd.Flags().Changed("phone") {
			v, _ := cmd.Flags().GetString("phone")
			patch.Phone = &v
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetString("role")
			role := domain.Role(v)
			patch.Role = &role
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sess := newSession(sdk)
		if err := sess.Initialize(cmd.Context()); err != nil {
			return err
		}
		// Going through the session keeps the stored profile fresh when the
		// update targets the logged-in user.
		user, err := sess.UpdateUser(cmd.Context(), id, patch)
		if err != nil {
			return err
		}
		return printYAML(user)
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [USER_ID]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		if err := sdk.Users().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		fmt.Printf("User %d deleted.\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)

	userListCmd.Flags().Int("page", 1, "Page number")
	userListCmd.Flags().Int("page-size", 50, "Page size")

	userUpdateCmd.Flags().String("email", "", "New email")
	userUpdateCmd.Flags().String("first-name", "", "New first name")
	userUpdateCmd.Flags().String("last-name", "", "New last name")
	userUpdateCmd.Flags().String("phone", "", "New phone number")
	userUpdateCmd.Flags().String("role", "", "New role (admin, manager, operator)")
}
