package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestLog_JSONFieldNames(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	l := Logger()
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.WithComponent("lbank").WithFields(Fields{"path": "/v1/ticker.do"}).Info("request")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	for _, key := range []string{"timestamp", "level", "message", "component", "path"} {
		if _, ok := line[key]; !ok {
			t.Errorf("missing key %q in %s", key, buf.String())
		}
	}
	if line["component"] != "lbank" {
		t.Errorf("component=%v", line["component"])
	}
}

func TestLog_ConfigureRejectsBadInput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	l := Logger()
	if err := l.Configure("loud", "json", "stderr", 0); err == nil {
		t.Errorf("expected invalid level error")
	}
	if err := l.Configure("info", "xml", "stderr", 0); err == nil {
		t.Errorf("expected invalid format error")
	}
}

func TestLog_ConfigureRotatingFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "venuelink.log")

	l := Logger()
	if err := l.Configure("debug", "text", path, 7); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if !strings.EqualFold(l.GetLevel().String(), "debug") {
		t.Fatalf("level=%s", l.GetLevel())
	}
}
