package climate

import "strings"

// Timestamps the backend uses in place of a reading.
const (
	IndoorDisabled = "Capteur désactivé"
	RemoteNoData   = "Aucune donnée"
)

// SensorState distinguishes a real reading from the backend's placeholders.
type SensorState int

const (
	// SensorWaiting means the payload carried no numeric reading.
	SensorWaiting SensorState = iota
	SensorReading
	// SensorDisabled is the indoor SenseHAT switched off.
	SensorDisabled
	// SensorNoData is the remote ESP32 never having reported.
	SensorNoData
)

// Sensor is an indoor (SenseHAT) or remote (ESP32) snapshot. Remote sensors
// have no pressure.
type Sensor struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Timestamp   string   `json:"timestamp"`
}

func (s Sensor) State() SensorState {
	switch s.Timestamp {
	case IndoorDisabled:
		return SensorDisabled
	case RemoteNoData:
		return SensorNoData
	}
	if s.Temperature == nil {
		return SensorWaiting
	}
	return SensorReading
}

// Clock returns the time-of-day part of a "date time" timestamp.
func (s Sensor) Clock() string {
	if i := strings.LastIndex(s.Timestamp, " "); i >= 0 {
		return s.Timestamp[i+1:]
	}
	return s.Timestamp
}
