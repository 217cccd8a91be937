package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solarops/solar-console/domain"
)

var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Manage generated reports",
	Aliases: []string{"reports"},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports, optionally for one site",
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, _ := cmd.Flags().GetInt64("site")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		reports, err := sdk.Reports().List(cmd.Context(), siteID)
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}
		return printYAML(reports)
	},
}

var reportGetCmd = &cobra.Command{
	Use:   "get [REPORT_ID]",
	Short: "Get report details, including the download URL when ready",
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
		report, err := sdk.Reports().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get report: %w", err)
		}
		return printYAML(report)
	},
}

var reportRequestCmd = &cobra.Command{
	Use:   "request [TITLE]",
	Short: "Request generation of a new report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		siteID, _ := cmd.Flags().GetInt64("site")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		req := domain.ReportRequest{Title: args[0], Kind: kind, SiteID: siteID}
		if from != "" {
			start, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fmt.Errorf("invalid --from date: %w", err)
			}
			req.PeriodStart = &start
		}
		if to != "" {
			end, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fmt.Errorf("invalid --to date: %w", err)
			}
			req.PeriodEnd = &end
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		report, err := sdk.Reports().Request(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to request report: %w", err)
		}
		return printYAML(report)
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete [REPORT_ID]",
	Short: "Delete a report",
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
		if err := sdk.Reports().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		fmt.Printf("Report %d deleted.\n", id)
		return nil
	},
}

var notificationCmd = &cobra.Command{
	Use:     "notification",
	Short:   "Read backend notifications",
	Aliases: []string{"notifications", "notify"},
}

var notificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications for the current user",
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		notes, err := sdk.Notifications().List(cmd.Context(), unread)
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}
		return printYAML(notes)
	},
}

var notificationReadCmd = &cobra.Command{
	Use:   "mark-read [NOTIFICATION_ID]",
	Short: "Mark a notification as read",
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
		if err := sdk.Notifications().MarkRead(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportGetCmd)
	reportCmd.AddCommand(reportRequestCmd)
	reportCmd.AddCommand(reportDeleteCmd)

	rootCmd.AddCommand(notificationCmd)
	notificationCmd.AddCommand(notificationListCmd)
	notificationCmd.AddCommand(notificationReadCmd)

	reportListCmd.Flags().Int64("site", 0, "Filter by site ID")

	reportRequestCmd.Flags().String("kind", "production", "Report kind (production, billing, audit)")
	reportRequestCmd.Flags().Int64("site", 0, "Site the report covers")
	reportRequestCmd.Flags().String("from", "", "Period start (YYYY-MM-DD)")
	reportRequestCmd.Flags().String("to", "", "Period end (YYYY-MM-DD)")

	notificationListCmd.Flags().Bool("unread", false, "Only unread notifications")
}
