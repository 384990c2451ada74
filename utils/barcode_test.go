package utils

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerateUniqueCode(t *testing.T) {
	existing := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		code := GenerateUniqueCode(existing)
		if len(code) != BarcodeLength {
			t.Fatalf("expected %d chars, got %q", BarcodeLength, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
		if _, dup := existing[code]; dup {
			t.Fatalf("code %q returned twice", code)
		}
		existing[code] = struct{}{}
	}
}

func TestRenderBarcodeSVG(t *testing.T) {
	data, err := RenderBarcodeSVG("170000000012")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) || !bytes.Contains(data, []byte("<rect")) {
		t.Fatalf("expected svg with bars, got %s", data)
	}
	if !bytes.Contains(data, []byte("170000000012")) {
		t.Fatalf("expected human readable label")
	}
}

func TestBarcodeFallbacks(t *testing.T) {
	cases := []struct {
		name string
		code string
		ok   bool
	}{
		{"digits", "123456789012", true},
		{"ascii", "ABC-42", true},
		{"arabic", "منتج", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uri, err := BarcodeDataURI(tc.code)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.HasPrefix(uri, "data:image/svg+xml;base64,") {
					t.Fatalf("bad data uri prefix: %q", uri)
				}
				raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/svg+xml;base64,"))
				if err != nil || !bytes.Contains(raw, []byte("<svg")) {
					t.Fatalf("data uri does not decode to svg: %v", err)
				}
				return
			}
			if err == nil || uri != "" {
				t.Fatalf("expected failure with empty image, got %q, %v", uri, err)
			}
			placeholder := BarcodeSVGOrPlaceholder(tc.code)
			if !bytes.Contains(placeholder, []byte("<text")) {
				t.Fatalf("expected text placeholder, got %s", placeholder)
			}
		})
	}
}
