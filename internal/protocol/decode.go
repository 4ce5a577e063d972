package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/stats"
)

var (
	// ErrMalformedFrame is returned for frames that are not a JSON object
	// with a string "type", or whose payload has the wrong shape.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnknownFrame is returned for well-formed frames with an
	// unrecognized discriminant. Callers are expected to ignore these.
	ErrUnknownFrame = errors.New("unknown frame type")
)

type object map[string]json.RawMessage

// Decode parses one inbound frame.
func Decode(data []byte) (Event, error) {
	var frame object
	if err := json.Unmarshal(data, &frame); err != nil || frame == nil {
		return nil, ErrMalformedFrame
	}

	var typ string
	if raw, ok := frame["type"]; !ok || json.Unmarshal(raw, &typ) != nil {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}

	switch typ {
	case TypeConsoleOutput:
		return decodeConsoleOutput(frame)
	case TypeConsoleHistory:
		return decodeConsoleHistory(frame)
	case TypeStatsUpdate:
		return decodeStatsUpdate(frame)
	case TypePowerState:
		return decodePowerState(frame)
	case TypeAuthSuccess:
		return AuthSuccess{}, nil
	case TypeError:
		var msg string
		for _, key := range []string{"message", "error", "data"} {
			if s, ok := stringField(frame, key); ok {
				msg = s
				break
			}
		}
		return ServerError{Message: msg}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, typ)
	}
}

func decodeConsoleOutput(frame object) (Event, error) {
	for _, key := range []string{"line", "data", "output"} {
		if s, ok := stringField(frame, key); ok {
			return ConsoleOutput{Line: trimEOL(s)}, nil
		}
	}
	return nil, fmt.Errorf("%w: console_output without line", ErrMalformedFrame)
}

func decodeConsoleHistory(frame object) (Event, error) {
	for _, key := range []string{"lines", "data", "history"} {
		raw, ok := frame[key]
		if !ok {
			continue
		}
		var lines []string
		if err := json.Unmarshal(raw, &lines); err != nil {
			return nil, fmt.Errorf("%w: console_history %s is not a string array", ErrMalformedFrame, key)
		}
		for i := range lines {
			lines[i] = trimEOL(lines[i])
		}
		return ConsoleHistory{Lines: lines}, nil
	}
	return nil, fmt.Errorf("%w: console_history without lines", ErrMalformedFrame)
}

func decodePowerState(frame object) (Event, error) {
	for _, key := range []string{"state", "data"} {
		if raw, ok := frame[key]; ok {
			return PowerStateChanged{State: parseState(raw)}, nil
		}
	}
	return PowerStateChanged{State: power.Offline}, nil
}

func decodeStatsUpdate(frame object) (Event, error) {
	payload := frame
	for _, key := range []string{"data", "stats"} {
		if inner, ok := objectField(frame, key); ok {
			payload = inner
			break
		}
	}

	resources := payload
	if inner, ok := objectField(payload, "resources"); ok {
		resources = inner
	}

	ev := StatsUpdate{Sample: normalizeSample(resources)}
	raw, ok := payload["state"]
	if !ok {
		raw, ok = frame["state"]
	}
	if ok {
		ev.State = parseState(raw)
		ev.HasState = true
	}
	return ev, nil
}

// Field aliases seen across panel versions, canonical name first.
var (
	cpuKeys         = []string{"cpuPercent", "cpu_absolute", "cpu"}
	memoryKeys      = []string{"memoryBytes", "memory_bytes", "memory"}
	memoryLimitKeys = []string{"memoryLimitBytes", "memoryLimit", "memory_limit_bytes", "memory_limit"}
	diskKeys        = []string{"diskBytes", "disk_bytes", "disk"}
	diskLimitKeys   = []string{"diskLimitBytes", "diskLimit", "disk_limit_bytes", "disk_limit"}
	rxKeys          = []string{"networkRxBytes", "network_rx_bytes", "rxBytes", "rx_bytes"}
	txKeys          = []string{"networkTxBytes", "network_tx_bytes", "txBytes", "tx_bytes"}
	uptimeKeys      = []string{"uptime", "uptimeMs"}
)

// normalizeSample maps every known alias onto the canonical sample.
// Unknown fields are dropped.
func normalizeSample(res object) stats.Sample {
	s := stats.Sample{
		CPUPercent:       math.Max(0, firstNumber(res, cpuKeys)),
		MemoryBytes:      toCount(firstNumber(res, memoryKeys)),
		MemoryLimitBytes: toCount(firstNumber(res, memoryLimitKeys)),
		DiskBytes:        toCount(firstNumber(res, diskKeys)),
		DiskLimitBytes:   toCount(firstNumber(res, diskLimitKeys)),
		NetworkRxBytes:   toCount(firstNumber(res, rxKeys)),
		NetworkTxBytes:   toCount(firstNumber(res, txKeys)),
		Uptime:           toCount(firstNumber(res, uptimeKeys)),
	}

	// Some panels nest network counters: {"network": {"rx_bytes": .., "tx_bytes": ..}}
	if network, ok := objectField(res, "network"); ok {
		if s.NetworkRxBytes == 0 {
			s.NetworkRxBytes = toCount(firstNumber(network, rxKeys))
		}
		if s.NetworkTxBytes == 0 {
			s.NetworkTxBytes = toCount(firstNumber(network, txKeys))
		}
	}
	return s
}

// parseState accepts the numeric enum or the string form.
func parseState(raw json.RawMessage) power.State {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n != math.Trunc(n) {
			return power.Offline
		}
		return power.FromNumber(int64(n))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return power.FromString(s)
	}
	return power.Offline
}

func firstNumber(obj object, keys []string) float64 {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
	}
	return 0
}

func toCount(f float64) uint64 {
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(f)
}

func stringField(obj object, key string) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func objectField(obj object, key string) (object, bool) {
	raw, ok := obj[key]
	if !ok {
		return nil, false
	}
	var inner object
	if err := json.Unmarshal(raw, &inner); err != nil || inner == nil {
		return nil, false
	}
	return inner, true
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
