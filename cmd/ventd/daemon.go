package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robertas-rtu/ventd/pkg/daemon"
	"github.com/robertas-rtu/ventd/pkg/version"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	opts, err := daemon.OptionsFromEnv()

	cmd := &cobra.Command{
		Use:     "daemon",
		Hidden:  true,
		Short:   "Run the ventd daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("ventd daemon starting")
			return daemon.Run(opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ListenAddr, "listen", opts.ListenAddr, "Address to serve the control API on")
	f.StringVar(&opts.GPIOChip, "gpio-chip", opts.GPIOChip, "GPIO character device for the relay lines")
	f.StringVar(&opts.ServoPin, "servo-pin", opts.ServoPin, "Servo PWM pin name (BCM, e.g. GPIO18)")
	f.IntVar(&opts.RelayLowPin, "relay-low-pin", opts.RelayLowPin, "BCM pin of the low-speed relay")
	f.IntVar(&opts.RelayMediumPin, "relay-medium-pin", opts.RelayMediumPin, "BCM pin of the medium-speed relay")
	f.StringVar(&opts.CalibrationPath, "calibration-file", opts.CalibrationPath, "Path of the persisted calibration record")
	f.StringVar(&opts.MQTTBroker, "mqtt-broker", opts.MQTTBroker, "MQTT broker for telemetry (empty to disable)")
	f.DurationVar(&opts.Settle, "settle", opts.Settle, "Damper settle interval during the off sequence")
	f.DurationVar(&opts.OpenHold, "open-hold", opts.OpenHold, "Damper hold time at the open position during startup")

	return cmd
}
