package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solarops/solar-console/client"
)

var hopeCloudCmd = &cobra.Command{
	Use:     "hopecloud",
	Short:   "Query and synchronize the HopeCloud integration",
	Aliases: []string{"hc"},
}

// seriesFlags parses the shared --range/--date flags of the series commands.
func seriesFlags(cmd *cobra.Command) (client.Granularity, time.Time, error) {
	rangeName, _ := cmd.Flags().GetString("range")
	date, _ := cmd.Flags().GetString("date")

	granularity := client.Granularity(rangeName)
	switch granularity {
	case client.GranularityDay, client.GranularityMonth, client.GranularityYear:
	default:
		return "", time.Time{}, fmt.Errorf("invalid --range %q (day, month, year)", rangeName)
	}

	anchor := time.Now()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("invalid --date: %w", err)
		}
		anchor = parsed
	}
	return granularity, anchor, nil
}

var hcStationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List HopeCloud stations",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.HopeCloud().Close()

		stations, err := sdk.HopeCloud().Stations(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list stations: %w", err)
		}
		return printYAML(stations)
	},
}

var hcRealtimeCmd = &cobra.Command{
	Use:   "realtime [STATION_CODE]",
	Short: "Show realtime readings of a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.HopeCloud().Close()

		realtime, err := sdk.HopeCloud().StationRealtime(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get realtime data: %w", err)
		}
		return printYAML(realtime)
	},
}

var hcSeriesCmd = &cobra.Command{
	Use:   "series [STATION_CODE]",
	Short: "Show a production series of a station",
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
		defer sdk.HopeCloud().Close()

		points, err := sdk.HopeCloud().StationSeries(cmd.Context(), args[0], granularity, anchor)
		if err != nil {
			return fmt.Errorf("failed to get series: %w", err)
		}
		return printYAML(points)
	},
}

var hcDevicesCmd = &cobra.Command{
	Use:   "devices [STATION_CODE]",
	Short: "List provider-side devices of a station",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.HopeCloud().Close()

		devices, err := sdk.HopeCloud().StationDevices(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list station devices: %w", err)
		}
		return printYAML(devices)
	},
}

var hcAlarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "List active HopeCloud alarms",
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.HopeCloud().Close()

		alarms, err := sdk.HopeCloud().Alarms(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list alarms: %w", err)
		}
		return printYAML(alarms)
	},
}

var hcSyncCmd = &cobra.Command{
	Use:   "sync [stations|devices]",
	Short: "Trigger a backend synchronization against HopeCloud",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sdk, err := newSDK()
		if err != nil {
			return err
		}
		defer sdk.HopeCloud().Close()

		switch args[0] {
		case "stations":
			result, err := sdk.HopeCloud().SyncStations(cmd.Context())
			if err != nil {
				return fmt.Errorf("station sync failed: %w", err)
			}
			return printYAML(result)
		case "devices":
			result, err := sdk.HopeCloud().SyncDevices(cmd.Context())
			if err != nil {
				return fmt.Errorf("device sync failed: %w", err)
			}
			return printYAML(result)
		default:
			return fmt.Errorf("unknown sync target %q (stations, devices)", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(hopeCloudCmd)
	hopeCloudCmd.AddCommand(hcStationsCmd)
	hopeCloudCmd.AddCommand(hcRealtimeCmd)
	hopeCloudCmd.AddCommand(hcSeriesCmd)
	hopeCloudCmd.AddCommand(hcDevicesCmd)
	hopeCloudCmd.AddCommand(hcAlarmsCmd)
	hopeCloudCmd.AddCommand(hcSyncCmd)

	hcSeriesCmd.Flags().String("range", "day", "Series granularity (day, month, year)")
	hcSeriesCmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, default today)")
}
