package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fusionSolarCmd = &cobra.Command{
	Use:     "fusionsolar",
	Short:   "Query and synchronize the FusionSolar integration",
	Aliases: []string{"fs"},
}

var fsPlantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "List FusionSolar plants",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.FusionSolar().Close()

		plants, err := sdk.FusionSolar().Plants(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list plants: %w", err)
		}
		return printYAML(plants)
	},
}

var fsRealtimeCmd = &cobra.Command{
	Use:   "realtime [PLANT_CODE]",
	Short: "Show realtime readings of a plant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.FusionSolar().Close()

		realtime, err := sdk.FusionSolar().PlantRealtime(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get realtime data: %w", err)
		}
		return printYAML(realtime)
	},
}

var fsKPICmd = &cobra.Command{
	Use:   "kpi [PLANT_CODE]",
	Short: "Show a KPI series of a plant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		granularity, anchor, err := seriesFlags(cmd)
		if err != nil {
			return err
		}

		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.FusionSolar().Close()

		points, err := sdk.FusionSolar().PlantKPISeries(cmd.Context(), args[0], granularity, anchor)
		if err != nil {
			return fmt.Errorf("failed to get KPI series: %w", err)
		}
		return printYAML(points)
	},
}

var fsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Trigger a backend synchronization against FusionSolar",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.FusionSolar().Close()

		result, err := sdk.FusionSolar().SyncPlants(cmd.Context())
		if err != nil {
			return fmt.Errorf("plant sync failed: %w", err)
		}
		return printYAML(result)
	},
}

func init() {
	rootCmd.AddCommand(fusionSolarCmd)
	fusionSolarCmd.AddCommand(fsPlantsCmd)
	fusionSolarCmd.AddCommand(fsRealtimeCmd)
	fusionSolarCmd.AddCommand(fsKPICmd)
	fusionSolarCmd.AddCommand(fsSyncCmd)

	fsKPICmd.Flags().String("range", "day", "Series granularity (day, month, year)")
	fsKPICmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, default today)")
}
