package pdftext

import (
	"context"
	"testing"
)

func TestValidatePDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"valid header", []byte("%PDF-1.7\n..."), true},
		{"header only", []byte("%PDF-"), true},
		{"wrong magic", []byte("GIF89a"), false},
		{"truncated", []byte("%PD"), false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePDF(tt.data); got != tt.want {
				t.Errorf("ValidatePDF(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

func TestNewDefaultThreshold(t *testing.T) {
	e := New(nil, 0)
	if e.threshold != 200 {
		t.Errorf("threshold = %d, want 200", e.threshold)
	}

	e = New(nil, 50)
	if e.threshold != 50 {
		t.Errorf("threshold = %d, want 50", e.threshold)
	}
}

func TestExtractUnparseableDocument(t *testing.T) {
	// Garbage in, empty text out — never a panic or an error.
	e := New(nil, 200)
	result := e.Extract(context.Background(), []byte("not a pdf at all"))
	if result.Text != "" {
		t.Errorf("Text = %q, want empty for unparseable input", result.Text)
	}
	if result.Method != "text-layer" {
		t.Errorf("Method = %q, want text-layer", result.Method)
	}
}
