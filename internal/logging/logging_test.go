package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Service: "shop", Env: "test", Level: "debug", Out: &buf})
	log.WithField("items", 2).Debug("cart sent")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %q", buf.String())
	}
	for k, want := range map[string]any{"service": "shop", "env": "test", "severity": "debug", "message": "cart sent", "items": float64(2)} {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	log := New(Options{Level: "chatty", Out: &bytes.Buffer{}})
	if log.Logger.Level != logrus.InfoLevel {
		t.Fatalf("Level = %v, want info", log.Logger.Level)
	}
}
