package utils

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestDecodeMediaPayload(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	tests := []struct {
		name        string
		payload     string
		expectError bool
		expectedExt string
	}{
		{
			name:        "data url with mime",
			payload:     "data:image/png;base64," + encoded,
			expectError: false,
			expectedExt: "png",
		},
		{
			name:        "bare base64 sniffs content",
			payload:     encoded,
			expectError: false,
			expectedExt: "png",
		},
		{
			name:        "empty payload",
			payload:     "   ",
			expectError: true,
		},
		{
			name:        "invalid base64",
			payload:     "data:image/png;base64,@@@not-base64@@@",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ext, err := DecodeMediaPayload(tt.payload)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data) == 0 {
				t.Fatal("expected decoded bytes")
			}
			if ext != tt.expectedExt {
				t.Fatalf("expected extension %q, got %q", tt.expectedExt, ext)
			}
		})
	}
}

func TestSplitDataURL(t *testing.T) {
	mime, payload := SplitDataURL("data:image/webp;base64,AAAA")
	if mime != "image/webp" || payload != "AAAA" {
		t.Fatalf("unexpected split: %q %q", mime, payload)
	}

	mime, payload = SplitDataURL("AAAA")
	if mime != "image/jpeg" || payload != "AAAA" {
		t.Fatalf("bare payloads default to jpeg, got %q %q", mime, payload)
	}
}

func TestEnsureDataURL(t *testing.T) {
	if got := EnsureDataURL("AAAA"); !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Fatalf("expected a data url, got %q", got)
	}
	original := "data:image/png;base64,AAAA"
	if got := EnsureDataURL(original); got != original {
		t.Fatalf("existing data urls must pass through, got %q", got)
	}
}
