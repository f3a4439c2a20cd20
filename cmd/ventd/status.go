package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/robertas-rtu/ventd/pkg/vent"
)

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of the ventilation unit",
		Long:    `Get the ventilation state, relay outputs, damper angle and calibration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := apiClient.Status()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			cmd.Println(bold("Ventilation:"))
			cmd.Println("  Active: " + bool2Text(st.Active))
			cmd.Printf("  Speed: %s\n", speedText(st.Speed))
			cmd.Printf("  Damper angle: %s\n", bold("%d°", st.CurrentAngle))

			cmd.Println()

			cmd.Println(bold("Relays (energized = fan on):"))
			cmd.Println("  Low-speed fan: " + bool2Text(st.RelayLow))
			cmd.Println("  Medium-speed fan: " + bool2Text(st.RelayMedium))

			cmd.Println()

			cmd.Println(bold("Calibration:"))
			cmd.Printf("  Open angle: %s\n", bold("%d°", st.Settings.Open))
			cmd.Printf("  Close angle: %s\n", bold("%d°", st.Settings.Close))
			cmd.Printf("  Park angle: %s\n", bold("%d°", st.Settings.Park))

			return nil
		},
	}
}

func speedText(s vent.Speed) string {
	switch s {
	case vent.SpeedOff:
		return bold("off")
	case vent.SpeedLow:
		return color.New(color.Bold, color.FgGreen).Sprint("low")
	case vent.SpeedMedium:
		return color.New(color.Bold, color.FgYellow).Sprint("medium")
	case vent.SpeedMax:
		return color.New(color.Bold, color.FgRed).Sprint("max")
	}
	return bold("%s", string(s))
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
