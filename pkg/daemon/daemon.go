// Package daemon wires the hardware, the state machine and the HTTP control
// surface into the long-running ventd process.
package daemon

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/robertas-rtu/ventd/pkg/calibration"
	"github.com/robertas-rtu/ventd/pkg/hal"
	"github.com/robertas-rtu/ventd/pkg/telemetry"
	"github.com/robertas-rtu/ventd/pkg/vent"
)

// Options configures the daemon. Defaults come from environment variables so
// a systemd unit can configure the daemon without flags; cobra flags override
// them.
type Options struct {
	ListenAddr      string        `env:"VENTD_LISTEN_ADDR" envDefault:":80"`
	GPIOChip        string        `env:"VENTD_GPIO_CHIP" envDefault:"gpiochip0"`
	ServoPin        string        `env:"VENTD_SERVO_PIN" envDefault:"GPIO18"`
	RelayLowPin     int           `env:"VENTD_RELAY_LOW_PIN" envDefault:"14"`
	RelayMediumPin  int           `env:"VENTD_RELAY_MEDIUM_PIN" envDefault:"15"`
	CalibrationPath string        `env:"VENTD_CALIBRATION_PATH" envDefault:"/var/lib/ventd/calibration.bin"`
	MQTTBroker      string        `env:"VENTD_MQTT_BROKER"`
	Settle          time.Duration `env:"VENTD_SETTLE" envDefault:"2s"`
	OpenHold        time.Duration `env:"VENTD_OPEN_HOLD" envDefault:"1s"`
}

// OptionsFromEnv returns Options populated from the environment.
func OptionsFromEnv() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return opts, pkgerrors.Wrap(err, "failed to parse environment")
	}
	return opts, nil
}

// Run brings up the hardware, executes the startup damper sequence, then
// serves the HTTP control surface until SIGINT/SIGTERM.
func Run(opts Options) error {
	servo, err := hal.NewPWMServo(opts.ServoPin)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open servo")
	}
	defer func() {
		if err := servo.Close(); err != nil {
			logrus.Errorf("failed to close servo: %v", err)
		}
	}()

	relays, err := hal.NewGPIORelays(opts.GPIOChip, opts.RelayLowPin, opts.RelayMediumPin)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open relays")
	}
	defer func() {
		if err := relays.Close(); err != nil {
			logrus.Errorf("failed to close relays: %v", err)
		}
	}()

	var pub telemetry.Publisher = telemetry.Nop{}
	if opts.MQTTBroker != "" {
		mq, err := telemetry.NewMQTT(opts.MQTTBroker)
		if err != nil {
			// Telemetry is best-effort; the controller must come up anyway.
			logrus.Errorf("mqtt telemetry unavailable, continuing without it: %v", err)
		} else {
			pub = mq
			logrus.Infof("publishing telemetry to %s", opts.MQTTBroker)
		}
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logrus.Errorf("failed to close telemetry publisher: %v", err)
		}
	}()

	store := calibration.NewStore(opts.CalibrationPath)
	ctrl := vent.New(servo, relays, store, vent.Options{
		Settle:    opts.Settle,
		OpenHold:  opts.OpenHold,
		Publisher: pub,
	})
	logrus.WithFields(logrus.Fields{
		"settings": ctrl.Status().Settings,
		"path":     opts.CalibrationPath,
	}).Info("calibration loaded")

	// The damper must reach a known position before any remote command is
	// accepted, so the sequence runs before the listener exists.
	ctrl.Startup()

	srv := &http.Server{
		Addr:    opts.ListenAddr,
		Handler: NewRouter(ctrl),
	}

	go func() {
		logrus.Infof("http server listening on %s", opts.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}
