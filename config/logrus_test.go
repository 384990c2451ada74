package config

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/appctx"
)

func TestRequestLoggerCarriesCorrelationId(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(newLogFormatter("json"))

	ctx := appctx.Set(context.Background(), appctx.ContextKeyCorrelationId, "cid-42")
	RequestLogger(ctx, logger).Error("boom")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if line["correlation_id"] != "cid-42" || line["msg"] != "boom" {
		t.Fatalf("unexpected entry %v", line)
	}

	buf.Reset()
	RequestLogger(context.Background(), logger).Error("plain")
	if bytes.Contains(buf.Bytes(), []byte("correlation_id")) {
		t.Fatalf("no correlation id expected, got %q", buf.String())
	}
}

func TestNewLogFormatter(t *testing.T) {
	if _, ok := newLogFormatter(" TEXT ").(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter")
	}
	if _, ok := newLogFormatter("").(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter by default")
	}
}
