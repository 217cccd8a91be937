package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solarops/solar-console/domain"
)

var deviceCmd = &cobra.Command{
	Use:     "device",
	Short:   "Manage site devices (inverters, loggers, meters)",
	Aliases: []string{"devices"},
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices, optionally for one site",
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, _ := cmd.Flags().GetInt64("site")

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		devices, err := sdk.Devices().List(cmd.Context(), siteID)
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}
		return printYAML(devices)
	},
}

var deviceGetCmd = &cobra.Command{
	Use:   "get [DEVICE_ID]",
	Short: "Get device details by ID",
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
		device, err := sdk.Devices().Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get device: %w", err)
		}
		return printYAML(device)
	},
}

var deviceCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Register a device on a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		siteID, _ := cmd.Flags().GetInt64("site")
		kind, _ := cmd.Flags().GetString("kind")
		serial, _ := cmd.Flags().GetString("serial")
		model, _ := cmd.Flags().GetString("model")
		vendor, _ := cmd.Flags().GetString("vendor")
		if siteID == 0 {
			return fmt.Errorf("--site is required")
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		device, err := sdk.Devices().Create(cmd.Context(), domain.Device{
			SiteID:       siteID,
			Name:         args[0],
			Kind:         kind,
			SerialNumber: serial,
			Model:        model,
			Vendor:       vendor,
		})
		if err != nil {
			return fmt.Errorf("failed to create device: %w", err)
		}
		return printYAML(device)
	},
}

var deviceUpdateCmd = &cobra.Command{
	Use:   "update [DEVICE_ID]",
	Short: "Update device fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var patch domain.DevicePatch
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("kind") {
			v, _ := cmd.Flags().GetString("kind")
			patch.Kind = &v
		}
		if cmd.Flags().Changed("model") {
			v, _ := cmd.Flags().GetString("model")
			patch.Model = &v
		}
		if cmd.Flags().Changed("site") {
			v, _ := cmd.Flags().GetInt64("site")
			patch.SiteID = &v
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		device, err := sdk.Devices().Update(cmd.Context(), id, patch)
		if err != nil {
			return fmt.Errorf("failed to update device: %w", err)
		}
		return printYAML(device)
	},
}

var deviceDeleteCmd = &cobra.Command{
	Use:   "delete [DEVICE_ID]",
	Short: "Delete a device",
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
		if err := sdk.Devices().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete device: %w", err)
		}
		fmt.Printf("Device %d deleted.\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deviceCmd)
	deviceCmd.AddCommand(deviceListCmd)
	deviceCmd.AddCommand(deviceGetCmd)
	deviceCmd.AddCommand(deviceCreateCmd)
	deviceCmd.AddCommand(deviceUpdateCmd)
	deviceCmd.AddCommand(deviceDeleteCmd)

	deviceListCmd.Flags().Int64("site", 0, "Filter by site ID")

	deviceCreateCmd.Flags().Int64("site", 0, "Site the device belongs to (required)")
	deviceCreateCmd.Flags().String("kind", "inverter", "Device kind (inverter, logger, meter)")
	deviceCreateCmd.Flags().String("serial", "", "Serial number")
	deviceCreateCmd.Flags().String("model", "", "Model")
	deviceCreateCmd.Flags().String("vendor", "", "Vendor")

	deviceUpdateCmd.Flags().String("name", "", "New name")
	deviceUpdateCmd.Flags().String("kind", "", "New kind")
	deviceUpdateCmd.Flags().String("model", "", "New model")
	deviceUpdateCmd.Flags().Int64("site", 0, "New site ID")
}
