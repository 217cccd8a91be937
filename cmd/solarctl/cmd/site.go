package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solarops/solar-console/domain"
)

var siteCmd = &cobra.Command{
	Use:     "site",
	Short:   "Manage solar plants",
	Aliases: []string{"sites"},
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		sites, err := sdk.Sites().List(cmd.Context(), domain.SiteStatus(status))
		if err != nil {
			return fmt.Errorf("failed to list sites: %w", err)
		}
		return printYAML(sites)
	},
}

var siteGetCmd = &cobra.Command{
	Use:   "get [SITE_ID]",
	Short: "Get site details by ID",
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
		site, err := sdk.Sites().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get site: %w", err)
		}
		return printYAML(site)
	},
}

var siteCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Register a new site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, _ := cmd.Flags().GetString("address")
		capacity, _ := cmd.Flags().GetFloat64("capacity-kw")
		provider, _ := cmd.Flags().GetString("provider")
		externalID, _ := cmd.Flags().GetString("external-id")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		site, err := sdk.Sites().Create(cmd.Context(), domain.Site{
			Name:       args[0],
			Address:    address,
			CapacityKW: capacity,
			Provider:   provider,
			ExternalID: externalID,
		})
		if err != nil {
			return fmt.Errorf("failed to create site: %w", err)
		}
		return printYAML(site)
	},
}

var siteUpdateCmd = &cobra.Command{
	Use:   "update [SITE_ID]",
	Short: "Update site fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var patch domain.SitePatch
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("address") {
			v, _ := cmd.Flags().GetString("address")
			patch.Address = &v
		}
		if cmd.Flags().Changed("capacity-kw") {
			v, _ := cmd.Flags().GetFloat64("capacity-kw")
			patch.CapacityKW = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			status := domain.SiteStatus(v)
			patch.Status = &status
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		site, err := sdk.Sites().Update(cmd.Context(), id, patch)
		if err != nil {
			return fmt.Errorf("failed to update site: %w", err)
		}
		return printYAML(site)
	},
}

var siteDeleteCmd = &cobra.Command{
	Use:   "delete [SITE_ID]",
	Short: "Delete a site",
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
		if err := sdk.Sites().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete site: %w", err)
		}
		fmt.Printf("Site %d deleted.\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(siteCmd)
	siteCmd.AddCommand(siteListCmd)
	siteCmd.AddCommand(siteGetCmd)
	siteCmd.AddCommand(siteCreateCmd)
	siteCmd.AddCommand(siteUpdateCmd)
	siteCmd.AddCommand(siteDeleteCmd)

	siteListCmd.Flags().String("status", "", "Filter by status (ONLINE, OFFLINE, FAULTY, MAINTENANCE)")

	siteCreateCmd.Flags().String("address", "", "Site address")
	siteCreateCmd.Flags().Float64("capacity-kw", 0, "Installed capacity in kW")
	siteCreateCmd.Flags().String("provider", "", "Cloud provider (hopecloud, fusionsolar)")
	siteCreateCmd.Flags().String("external-id", "", "Provider-side station code")

	siteUpdateCmd.Flags().String("name", "", "New name")
	siteUpdateCmd.Flags().String("address", "", "New address")
	siteUpdateCmd.Flags().Float64("capacity-kw", 0, "New capacity in kW")
	siteUpdateCmd.Flags().String("status", "", "New status")
}
