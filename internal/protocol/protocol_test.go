package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/stats"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "console output",
			frame: `{"type":"console_output","line":"[INFO] Done (3.2s)!"}`,
			want:  ConsoleOutput{Line: "[INFO] Done (3.2s)!"},
		},
		{
			name:  "console output data alias strips line ending",
			frame: `{"type":"console_output","data":"hello\r\n"}`,
			want:  ConsoleOutput{Line: "hello"},
		},
		{
			name:  "console history",
			frame: `{"type":"console_history","lines":["a","b","a"]}`,
			want:  ConsoleHistory{Lines: []string{"a", "b", "a"}},
		},
		{
			name:  "power state numeric",
			frame: `{"type":"power_state","state":2}`,
			want:  PowerStateChanged{State: power.Running},
		},
		{
			name:  "power state unknown numeric",
			frame: `{"type":"power_state","state":5}`,
			want:  PowerStateChanged{State: power.Offline},
		},
		{
			name:  "power state documented 4",
			frame: `{"type":"power_state","state":4}`,
			want:  PowerStateChanged{State: power.Offline},
		},
		{
			name:  "power state string upper case",
			frame: `{"type":"power_state","state":"RUNNING"}`,
			want:  PowerStateChanged{State: power.Running},
		},
		{
			name:  "power state unknown string",
			frame: `{"type":"power_state","state":"paused"}`,
			want:  PowerStateChanged{State: power.Offline},
		},
		{
			name:  "power state fractional",
			frame: `{"type":"power_state","state":1.5}`,
			want:  PowerStateChanged{State: power.Offline},
		},
		{
			name:  "auth success",
			frame: `{"type":"auth_success"}`,
			want:  AuthSuccess{},
		},
		{
			name:  "server error",
			frame: `{"type":"error","message":"token expired"}`,
			want:  ServerError{Message: "token expired"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.frame))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_StatsAliases(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  StatsUpdate
	}{
		{
			name:  "wrapped resources with memoryLimit alias",
			frame: `{"type":"stats_update","resources":{"memoryBytes":512000000,"memoryLimit":1024000000}}`,
			want: StatsUpdate{Sample: stats.Sample{
				MemoryBytes:      512000000,
				MemoryLimitBytes: 1024000000,
			}},
		},
		{
			name: "data envelope with state and canonical names",
			frame: `{"type":"stats_update","data":{"state":"running","resources":{
				"cpuPercent":37.5,"memoryBytes":1,"memoryLimitBytes":2,"diskBytes":3,"diskLimitBytes":4,
				"networkRxBytes":5,"networkTxBytes":6,"uptime":7}}}`,
			want: StatsUpdate{
				Sample: stats.Sample{
					CPUPercent: 37.5, MemoryBytes: 1, MemoryLimitBytes: 2, DiskBytes: 3,
					DiskLimitBytes: 4, NetworkRxBytes: 5, NetworkTxBytes: 6, Uptime: 7,
				},
				State:    power.Running,
				HasState: true,
			},
		},
		{
			name:  "state beside the data envelope",
			frame: `{"type":"stats_update","state":"running","data":{"resources":{"cpuPercent":5}}}`,
			want: StatsUpdate{
				Sample:   stats.Sample{CPUPercent: 5},
				State:    power.Running,
				HasState: true,
			},
		},
		{
			name: "snake case with nested network",
			frame: `{"type":"stats_update","stats":{"state":3,"cpu_absolute":12,"memory_bytes":10,
				"memory_limit_bytes":20,"disk_bytes":30,"network":{"rx_bytes":40,"tx_bytes":50}}}`,
			want: StatsUpdate{
				Sample: stats.Sample{
					CPUPercent: 12, MemoryBytes: 10, MemoryLimitBytes: 20, DiskBytes: 30,
					NetworkRxBytes: 40, NetworkTxBytes: 50,
				},
				State:    power.Stopping,
				HasState: true,
			},
		},
		{
			name:  "negative values clamp to zero and unknown fields drop",
			frame: `{"type":"stats_update","resources":{"cpuPercent":-3,"memoryBytes":-100,"gpu":99}}`,
			want:  StatsUpdate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.frame))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_StatsScenarioMemoryPercent(t *testing.T) {
	ev, err := Decode([]byte(`{"type":"stats_update","resources":{"memoryBytes":512000000,"memoryLimit":1024000000}}`))
	require.NoError(t, err)

	update, ok := ev.(StatsUpdate)
	require.True(t, ok)
	assert.Equal(t, uint64(1024000000), update.Sample.MemoryLimitBytes)
	assert.InDelta(t, 50.0, update.Sample.MemoryPercent(), 0.0001)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"not json", `hello`, ErrMalformedFrame},
		{"json null", `null`, ErrMalformedFrame},
		{"array", `["console_output"]`, ErrMalformedFrame},
		{"missing type", `{"line":"x"}`, ErrMalformedFrame},
		{"non-string type", `{"type":7}`, ErrMalformedFrame},
		{"console output without line", `{"type":"console_output"}`, ErrMalformedFrame},
		{"history not array", `{"type":"console_history","lines":"abc"}`, ErrMalformedFrame},
		{"unknown type", `{"type":"daemon_message","line":"x"}`, ErrUnknownFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode([]byte(tt.frame))
			assert.Nil(t, ev)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFrameType(t *testing.T) {
	assert.Equal(t, TypeConsoleOutput, ConsoleOutput{}.frameType())
	assert.Equal(t, TypeStatsUpdate, StatsUpdate{}.frameType())
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  map[string]interface{}
	}{
		{"auth", Auth("tok-123", "7f3c2a"), map[string]interface{}{"type": "auth", "token": "tok-123", "targetId": "7f3c2a"}},
		{"subscribe console", SubscribeConsole(), map[string]interface{}{"type": "subscribe_console"}},
		{"subscribe stats", SubscribeStats(), map[string]interface{}{"type": "subscribe_stats"}},
		{"command", SendCommand("say hello"), map[string]interface{}{"type": "send_command", "command": "say hello"}},
		{"power", SendPowerAction(power.ActionRestart), map[string]interface{}{"type": "send_power_action", "action": "restart"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(tt.frame, &got))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encoded frame mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
