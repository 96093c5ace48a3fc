package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
)

// stubRunner fakes the external tools. The pdftoppm call writes empty page
// images at the requested prefix; the tesseract call returns canned text
// keyed by image path.
type stubRunner struct {
	pages       int
	pageText    map[int]string // 1-indexed page -> recognized text
	pdftoppmErr error
}

func (s stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	if strings.Contains(name, "pdftoppm") {
		if s.pdftoppmErr != nil {
			return nil, []byte("boom"), s.pdftoppmErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), nil, 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}

	// tesseract <img> stdout -l <lang>
	img := args[0]
	for i := 1; i <= s.pages; i++ {
		if strings.HasSuffix(img, fmt.Sprintf("-%d.png", i)) {
			return []byte(s.pageText[i]), nil, nil
		}
	}
	return nil, nil, fmt.Errorf("unexpected image %s", img)
}

func newStubExtractor(s stubRunner) *Extractor {
	e := NewExtractor(Config{Pdftoppm: "pdftoppm", Tesseract: "tesseract"})
	e.runner = s
	return e
}

func TestExtractPDFMultiPage(t *testing.T) {
	e := newStubExtractor(stubRunner{
		pages:    2,
		pageText: map[int]string{1: "première page", 2: "seconde page"},
	})

	text, err := e.ExtractPDF(context.Background(), "dummy.pdf")
	if err != nil {
		t.Fatalf("ExtractPDF failed: %v", err)
	}

	want := "--- Page 1 ---\npremière page\n--- Page 2 ---\nseconde page"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestExtractPDFTagsEveryPage(t *testing.T) {
	e := newStubExtractor(stubRunner{
		pages:    3,
		pageText: map[int]string{1: "une", 2: "   ", 3: "trois"},
	})

	text, err := e.ExtractPDF(context.Background(), "dummy.pdf")
	if err != nil {
		t.Fatalf("ExtractPDF failed: %v", err)
	}

	// Blank pages are skipped, but every page with text keeps its own tag.
	want := "--- Page 1 ---\nune\n--- Page 3 ---\ntrois"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestExtractPDFPdftoppmFailure(t *testing.T) {
	e := newStubExtractor(stubRunner{pdftoppmErr: fmt.Errorf("exit status 1")})

	if _, err := e.ExtractPDF(context.Background(), "dummy.pdf"); err == nil {
		t.Fatal("expected error when pdftoppm fails")
	}
}

func TestExtractPDFNoText(t *testing.T) {
	e := newStubExtractor(stubRunner{
		pages:    1,
		pageText: map[int]string{1: "   "},
	})

	if _, err := e.ExtractPDF(context.Background(), "dummy.pdf"); err == nil {
		t.Fatal("expected error when no page yields text")
	}
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name string
		e    *Extractor
		want bool
	}{
		{"both tools", NewExtractor(Config{Pdftoppm: "a", Tesseract: "b"}), true},
		{"missing tesseract", NewExtractor(Config{Pdftoppm: "a"}), false},
		{"nil extractor", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Available(); got != tt.want {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewExtractorDefaults(t *testing.T) {
	e := NewExtractor(Config{Pdftoppm: "a", Tesseract: "b"})
	if e.cfg.Language != "fra+eng" {
		t.Errorf("Language = %q, want fra+eng", e.cfg.Language)
	}
	if e.cfg.DPI != 300 {
		t.Errorf("DPI = %d, want 300", e.cfg.DPI)
	}
}
