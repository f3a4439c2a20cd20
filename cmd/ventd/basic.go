package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robertas-rtu/ventd/pkg/calibration"
	"github.com/robertas-rtu/ventd/pkg/vent"
	"github.com/robertas-rtu/ventd/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewVentCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "vent <off|low|medium|max>",
		Short:     "Set the ventilation speed",
		GroupID:   gBasic,
		ValidArgs: []string{"off", "low", "medium", "max"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Set the ventilation speed.

Speeds low/medium/max open the damper and energize the matching fan relays.
"off" stops the fans, closes the damper, waits for it to settle and parks it;
the command returns only once the whole sequence has completed.`,
		RunE: func(_ *cobra.Command, args []string) error {
			speed := vent.Speed(args[0])
			if err := apiClient.SetSpeed(speed); err != nil {
				return fmt.Errorf("failed to set speed: %w", err)
			}

			logrus.Infof("ventilation speed set to %s", speed)
			return nil
		},
	}
}

func NewServoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "servo <angle>",
		Short:   "Position the damper servo directly",
		GroupID: gAdvanced,
		Long: `Position the damper servo directly.

This bypasses the speed and relay bookkeeping entirely: only the tracked
angle changes. Mainly useful when dialing in calibration angles.`,
		RunE: func(_ *cobra.Command, args []string) error {
			angle, err := parseIntArg(args, "angle")
			if err != nil {
				return err
			}

			if err := apiClient.SetServo(angle); err != nil {
				return fmt.Errorf("failed to set servo: %w", err)
			}

			logrus.Infof("servo commanded to %d degrees", angle)
			return nil
		},
	}
}

func NewToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle",
		Short:   "Toggle both fan relays together",
		GroupID: gAdvanced,
		Long: `Toggle both fan relays together (the legacy on/off switch).

Note that this path drives the relays directly and does not update the
reported ventilation speed.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			on, err := apiClient.ToggleRelays()
			if err != nil {
				return fmt.Errorf("failed to toggle relays: %w", err)
			}

			if on {
				logrus.Info("both relays energized")
			} else {
				logrus.Info("both relays de-energized")
			}
			return nil
		},
	}
}

func NewCalibrateCommand() *cobra.Command {
	var openAngle, closeAngle, parkAngle int

	cmd := &cobra.Command{
		Use:     "calibrate",
		Short:   "Replace the persisted actuator calibration",
		GroupID: gAdvanced,
		Long: `Replace the persisted actuator calibration.

All three angles must be given and must lie within 0-180; the update is
all-or-nothing and survives power cycles.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cal := calibration.Calibration{Open: openAngle, Close: closeAngle, Park: parkAngle}
			if !cal.Valid() {
				return fmt.Errorf("angles must be between %d and %d, got %+v",
					calibration.MinAngle, calibration.MaxAngle, cal)
			}

			if err := apiClient.SaveSettings(cal); err != nil {
				return fmt.Errorf("failed to save calibration: %w", err)
			}

			logrus.Infof("calibration saved: open=%d close=%d park=%d", openAngle, closeAngle, parkAngle)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&openAngle, "open", calibration.Default.Open, "Damper angle while ventilating")
	f.IntVar(&closeAngle, "close", calibration.Default.Close, "Fully closed damper angle")
	f.IntVar(&parkAngle, "park", calibration.Default.Park, "Resting angle between cycles")
	_ = cmd.MarkFlagRequired("open")
	_ = cmd.MarkFlagRequired("close")
	_ = cmd.MarkFlagRequired("park")

	return cmd
}
