package daemon

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/robertas-rtu/ventd/pkg/calibration"
	"github.com/robertas-rtu/ventd/pkg/hal"
	"github.com/robertas-rtu/ventd/pkg/vent"
)

func newTestRouter(t *testing.T) (*gin.Engine, *hal.FakeServo, *hal.FakeRelays) {
	t.Helper()

	servo := hal.NewFakeServo()
	relays := hal.NewFakeRelays()
	store := calibration.NewStore(filepath.Join(t.TempDir(), "calibration.bin"))
	ctrl := vent.New(servo, relays, store, vent.Options{
		Sleep: func(time.Duration) {},
	})
	ctrl.Startup()

	return NewRouter(ctrl), servo, relays
}

func do(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getStatus(t *testing.T, router *gin.Engine) vent.Status {
	t.Helper()

	w := do(t, router, http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /status = %d", w.Code)
	}
	var st vent.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("status unmarshal: %v", err)
	}
	return st
}

func TestBootState(t *testing.T) {
	router, _, _ := newTestRouter(t)

	st := getStatus(t, router)
	if st.Active || st.Speed != vent.SpeedOff {
		t.Fatalf("boot status = %+v", st)
	}
	if st.CurrentAngle != calibration.Default.Park {
		t.Fatalf("CurrentAngle = %d, want park %d", st.CurrentAngle, calibration.Default.Park)
	}
	if st.RelayLow || st.RelayMedium {
		t.Fatal("relays must be de-energized at boot")
	}
}

func TestVentSpeedEndpoints(t *testing.T) {
	tests := []struct {
		path       string
		speed      vent.Speed
		wantLow    bool
		wantMedium bool
	}{
		{"/vent/low", vent.SpeedLow, true, false},
		{"/vent/medium", vent.SpeedMedium, false, true},
		{"/vent/max", vent.SpeedMax, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			router, _, _ := newTestRouter(t)

			w := do(t, router, http.MethodGet, tt.path, "")
			if w.Code != http.StatusOK || w.Body.String() != "OK" {
				t.Fatalf("GET %s = %d %q", tt.path, w.Code, w.Body.String())
			}

			st := getStatus(t, router)
			if !st.Active || st.Speed != tt.speed {
				t.Fatalf("status = %+v", st)
			}
			if st.RelayLow != tt.wantLow || st.RelayMedium != tt.wantMedium {
				t.Fatalf("relays = (%t, %t)", st.RelayLow, st.RelayMedium)
			}
			if st.CurrentAngle != calibration.Default.Open {
				t.Fatalf("CurrentAngle = %d, want open angle", st.CurrentAngle)
			}
		})
	}
}

func TestVentOffEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	do(t, router, http.MethodGet, "/vent/max", "")
	w := do(t, router, http.MethodGet, "/vent/off", "")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("GET /vent/off = %d %q", w.Code, w.Body.String())
	}

	st := getStatus(t, router)
	if st.Active || st.Speed != vent.SpeedOff || st.RelayLow || st.RelayMedium {
		t.Fatalf("status after off = %+v", st)
	}
	if st.CurrentAngle != calibration.Default.Park {
		t.Fatalf("CurrentAngle = %d, want park", st.CurrentAngle)
	}
}

func TestVentSpeedIdempotent(t *testing.T) {
	router, _, _ := newTestRouter(t)

	do(t, router, http.MethodGet, "/vent/medium", "")
	first := getStatus(t, router)
	do(t, router, http.MethodGet, "/vent/medium", "")
	second := getStatus(t, router)

	if first != second {
		t.Fatalf("repeated command changed status: %+v vs %+v", first, second)
	}
}

func TestServoSet(t *testing.T) {
	router, servo, _ := newTestRouter(t)

	do(t, router, http.MethodGet, "/vent/low", "")
	before := getStatus(t, router)

	w := do(t, router, http.MethodGet, "/servo/set?angle=90", "")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("valid servo set = %d %q", w.Code, w.Body.String())
	}
	if servo.Last() != 90 {
		t.Fatalf("servo commanded to %d, want 90", servo.Last())
	}

	st := getStatus(t, router)
	if st.CurrentAngle != 90 {
		t.Fatalf("CurrentAngle = %d, want 90", st.CurrentAngle)
	}
	if st.Speed != before.Speed || st.RelayLow != before.RelayLow || st.RelayMedium != before.RelayMedium {
		t.Fatalf("raw positioning changed speed/relays: %+v", st)
	}
}

func TestServoSetRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantBody string
	}{
		{"missing parameter", "/servo/set", "Missing angle parameter"},
		{"out of range high", "/servo/set?angle=200", "Invalid angle"},
		{"out of range low", "/servo/set?angle=-1", "Invalid angle"},
		{"not a number", "/servo/set?angle=wide", "Invalid angle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, servo, _ := newTestRouter(t)
			before := getStatus(t, router)
			commands := len(servo.Commanded())

			w := do(t, router, http.MethodGet, tt.target, "")
			if w.Code != http.StatusBadRequest || w.Body.String() != tt.wantBody {
				t.Fatalf("got %d %q, want 400 %q", w.Code, w.Body.String(), tt.wantBody)
			}
			if len(servo.Commanded()) != commands {
				t.Fatal("rejected request must not command the servo")
			}
			if got := getStatus(t, router); got != before {
				t.Fatalf("rejected request changed status: %+v", got)
			}
		})
	}
}

func TestRelayToggle(t *testing.T) {
	router, _, relays := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/relay/toggle", "")
	if w.Code != http.StatusOK || w.Body.String() != "1" {
		t.Fatalf("first toggle = %d %q, want 200 \"1\"", w.Code, w.Body.String())
	}

	st := getStatus(t, router)
	if !st.RelayLow || !st.RelayMedium || !st.Active {
		t.Fatalf("after toggle: %+v", st)
	}
	// Legacy path: relays show the max pattern but ventSpeed still reads off.
	if st.Speed != vent.SpeedOff {
		t.Fatalf("ventSpeed = %s, want off", st.Speed)
	}

	low, medium := relays.States()
	if !low || !medium {
		t.Fatal("both fake relays should be energized")
	}

	w = do(t, router, http.MethodGet, "/relay/toggle", "")
	if w.Body.String() != "0" {
		t.Fatalf("second toggle body = %q, want \"0\"", w.Body.String())
	}
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/settings/save",
		`{"angleOpen":170,"angleClose":5,"anglePark":40}`)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("save = %d %q", w.Code, w.Body.String())
	}

	st := getStatus(t, router)
	want := calibration.Calibration{Open: 170, Close: 5, Park: 40}
	if st.Settings != want {
		t.Fatalf("settings = %+v, want %+v", st.Settings, want)
	}
}

func TestSettingsSaveRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{"empty body", "", "No data received"},
		{"whitespace body", "   ", "No data received"},
		{"not json", "angleOpen=170", "Invalid angle values"},
		{"missing field", `{"angleOpen":170,"angleClose":5}`, "Invalid angle values"},
		{"negative field", `{"angleOpen":170,"angleClose":-1,"anglePark":40}`, "Invalid angle values"},
		{"field above range", `{"angleOpen":181,"angleClose":5,"anglePark":40}`, "Invalid angle values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _, _ := newTestRouter(t)
			before := getStatus(t, router).Settings

			w := do(t, router, http.MethodPost, "/settings/save", tt.body)
			if w.Code != http.StatusBadRequest || w.Body.String() != tt.wantBody {
				t.Fatalf("got %d %q, want 400 %q", w.Code, w.Body.String(), tt.wantBody)
			}

			// All-or-nothing: nothing may have been applied.
			if got := getStatus(t, router).Settings; got != before {
				t.Fatalf("rejected save changed settings: %+v", got)
			}
		})
	}
}

func TestIndexPage(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Ventilation Control") {
		t.Fatal("index page missing expected markup")
	}
}
