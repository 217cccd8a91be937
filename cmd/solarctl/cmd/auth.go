package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/solarops/solar-console/client"
	"github.com/solarops/solar-console/cmd/solarctl/cmd/config"
	"github.com/solarops/solar-console/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication for solarctl",
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

func promptNewPassword() (string, error) {
	password, err := promptPassword("Enter new password: ")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassword("Confirm new password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the ERP backend and save the session to the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentCtx, err := config.GetCurrentContext()
		if err != nil {
			return err
		}
		if currentCtx.AccessToken != "" {
			confirm, err := promptLine(fmt.Sprintf("Already logged in to context %q. Re-login? (yes/no): ", currentCtx.Name))
			if err != nil {
				return err
			}
			if strings.ToLower(confirm) != "yes" {
				fmt.Println("Login cancelled.")
				return nil
			}
		}

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			if email, err = promptLine("Enter email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword("Enter password: ")
		if err != nil {
			return err
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sess := newSession(sdk)
		if err := sess.Login(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		user := sess.User()
		fmt.Printf("Logged in as %s (role %s), session saved to context %q.\n",
			user.Email, user.Role, config.GlobalConfig.CurrentContext)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the session from the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		currentCtx, err := config.GetCurrentContext()
		if err != nil {
			return err
		}
		if currentCtx.AccessToken == "" {
			fmt.Println("Not logged in (no session in current context).")
			return nil
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sess := newSession(sdk)
		if err := sess.Initialize(cmd.Context()); err != nil {
			return err
		}
		if err := sess.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Logged out from context %q.\n", config.GlobalConfig.CurrentContext)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account (activation link is sent by email)",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		if email == "" {
			return errors.New("email is required via --email flag")
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		user, err := newSession(sdk).Register(cmd.Context(), domain.Registration{
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		return printYAML(user)
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate [ACTIVATION_LINK]",
	Short: "Activate a registered account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sess := newSession(sdk)
		if err := sess.ActivateAccount(cmd.Context(), domain.Activation{
			ActivationLink:  args[0],
			Password:        password,
			ConfirmPassword: password,
		}); err != nil {
			return fmt.Errorf("activation failed: %w", err)
		}
		fmt.Printf("Account activated, logged in as %s.\n", sess.User().Email)
		return nil
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password [EMAIL]",
	Short: "Request a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		return newSession(sdk).ForgotPassword(cmd.Context(), args[0])
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password [RESET_TOKEN]",
	Short: "Complete a password reset with the emailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		return newSession(sdk).ResetPassword(cmd.Context(), domain.PasswordReset{
			Token:           args[0],
			Password:        password,
			ConfirmPassword: password,
		})
	},
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the current user's password",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sess := newSession(sdk)
		if err := sess.Initialize(cmd.Context()); err != nil {
			return err
		}

		current, err := promptPassword("Enter current password: ")
		if err != nil {
			return err
		}
		newPassword, err := promptNewPassword()
		if err != nil {
			return err
		}
		return sess.ChangePassword(cmd.Context(), domain.PasswordChange{
			CurrentPassword: current,
			NewPassword:     newPassword,
			ConfirmPassword: newPassword,
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token of the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sess := newSession(sdk)
		if err := sess.Initialize(cmd.Context()); err != nil {
			return err
		}
		if err := sess.RefreshToken(cmd.Context()); err != nil {
			return fmt.Errorf("token refresh failed, session cleared: %w", err)
		}
		fmt.Println("Access token refreshed.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the identity and token of the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.ContextStore{}.Load()
		if err != nil {
			return err
		}
		if creds.AccessToken == "" {
			fmt.Println("Not logged in.")
			return nil
		}

		fmt.Printf("User ID: %s\nRole:    %s\n", creds.UserID, creds.Role)

		info, err := client.InspectToken(creds.AccessToken)
		if err != nil {
			appLogger.Warn(cmd.Context(), "stored access token is not a parseable JWT")
			return nil
		}
		if info.Subject != "" {
			fmt.Printf("Subject: %s\n", info.Subject)
		}
		if !info.ExpiresAt.IsZero() {
			fmt.Printf("Expires: %s\n", info.ExpiresAt.Format(time.RFC3339))
		}
		if info.Expired(time.Now()) {
			fmt.Println("Token is expired; run 'solarctl auth refresh'.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(activateCmd)
	authCmd.AddCommand(forgotPasswordCmd)
	authCmd.AddCommand(resetPasswordCmd)
	authCmd.AddCommand(changePasswordCmd)
	authCmd.AddCommand(refreshCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().String("email", "", "Email to log in with (prompted when omitted)")
	registerCmd.Flags().String("email", "", "Email of the new account")
	registerCmd.Flags().String("first-name", "", "First name")
	registerCmd.Flags().String("last-name", "", "Last name")
}
