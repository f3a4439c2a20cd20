package daemon

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/robertas-rtu/ventd/pkg/calibration"
	"github.com/robertas-rtu/ventd/pkg/vent"
)

//go:embed static/index.html
var indexHTML []byte

// server holds the handler dependencies. Handlers never construct or own
// state themselves; everything goes through the controller.
type server struct {
	ctrl *vent.Controller
}

// NewRouter builds the gin engine serving the control surface.
func NewRouter(ctrl *vent.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))

	s := &server{ctrl: ctrl}
	router.GET("/", s.getIndex)
	router.GET("/status", s.getStatus)
	router.GET("/relay/toggle", s.toggleRelays)
	router.GET("/servo/set", s.setServo)
	router.GET("/vent/low", s.setSpeed(vent.SpeedLow))
	router.GET("/vent/medium", s.setSpeed(vent.SpeedMedium))
	router.GET("/vent/max", s.setSpeed(vent.SpeedMax))
	router.GET("/vent/off", s.setSpeed(vent.SpeedOff))
	router.POST("/settings/save", s.saveSettings)

	return router
}

func (s *server) getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Status())
}

// setSpeed returns the handler for one of the four /vent/* routes. The off
// transition blocks through the damper settle interval, so that request is
// only acknowledged once the damper is parked.
func (s *server) setSpeed(speed vent.Speed) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.ctrl.SetSpeed(speed)
		c.String(http.StatusOK, "OK")
	}
}

func (s *server) toggleRelays(c *gin.Context) {
	if s.ctrl.ToggleRelays() {
		c.String(http.StatusOK, "1")
		return
	}
	c.String(http.StatusOK, "0")
}

func (s *server) setServo(c *gin.Context) {
	raw, ok := c.GetQuery("angle")
	if !ok {
		c.String(http.StatusBadRequest, "Missing angle parameter")
		return
	}

	angle, err := strconv.Atoi(raw)
	if err != nil || !calibration.InRange(angle) {
		c.String(http.StatusBadRequest, "Invalid angle")
		return
	}

	s.ctrl.SetRawAngle(angle)
	c.String(http.StatusOK, "OK")
}

// settingsRequest uses pointer fields so a missing field is distinguishable
// from a zero angle; the update is all-or-nothing.
type settingsRequest struct {
	AngleOpen  *int `json:"angleOpen"`
	AngleClose *int `json:"angleClose"`
	AnglePark  *int `json:"anglePark"`
}

func (s *server) saveSettings(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		c.String(http.StatusBadRequest, "No data received")
		return
	}

	var req settingsRequest
	if err := json.Unmarshal(body, &req); err != nil ||
		req.AngleOpen == nil || req.AngleClose == nil || req.AnglePark == nil {
		c.String(http.StatusBadRequest, "Invalid angle values")
		return
	}

	cal := calibration.Calibration{
		Open:  *req.AngleOpen,
		Close: *req.AngleClose,
		Park:  *req.AnglePark,
	}
	if !cal.Valid() {
		c.String(http.StatusBadRequest, "Invalid angle values")
		return
	}

	if err := s.ctrl.UpdateCalibration(cal); err != nil {
		logrus.Errorf("failed to persist calibration: %v", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.String(http.StatusOK, "OK")
}
