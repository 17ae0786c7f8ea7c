package control

import (
	"encoding/json"
	"sort"
	"strings"

	"brc-agent/internal/application/port/output"
)

// accessWriter receives one JSON event per Write from httplog and replays it
// on the agent logger at the event's level.
type accessWriter struct {
	logger output.LoggerPort
}

func (w accessWriter) Write(p []byte) (int, error) {
	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		w.logger.Info(strings.TrimSpace(string(p)))
		return len(p), nil
	}

	msg, _ := event["message"].(string)
	level, _ := event["level"].(string)
	for _, k := range []string{"message", "level", "time", "timestamp"} {
		delete(event, k)
	}

	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, event[k])
	}

	switch level {
	case "trace", "debug":
		w.logger.Debug(msg, args...)
	case "warn":
		w.logger.Warn(msg, args...)
	case "error", "fatal", "panic":
		w.logger.Error(msg, args...)
	default:
		w.logger.Info(msg, args...)
	}
	return len(p), nil
}
