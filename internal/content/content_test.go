package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantBody  string
		wantErr   bool
	}{
		{
			name:      "plain body",
			input:     "Hello\nworld\n",
			wantTitle: "Default",
			wantBody:  "Hello\nworld\n",
		},
		{
			name:      "front matter title",
			input:     "---\ntitle: Custom title\n---\nBody here\n",
			wantTitle: "Custom title",
			wantBody:  "Body here\n",
		},
		{
			name:      "front matter without title keeps default",
			input:     "---\nlabels: [x]\n---\nBody\n",
			wantTitle: "Default",
			wantBody:  "Body\n",
		},
		{
			name:      "crlf line endings",
			input:     "---\r\ntitle: T\r\n---\r\nB\r\n",
			wantTitle: "T",
			wantBody:  "B\n",
		},
		{
			name:    "unterminated front matter",
			input:   "---\ntitle: T\nBody\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			input:   "---\ntitle: [unclosed\n---\nBody\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue, err := Parse([]byte(tt.input), "Default")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if issue.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", issue.Title, tt.wantTitle)
			}
			if issue.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", issue.Body, tt.wantBody)
			}
		})
	}
}

func TestParse_EmptyTitle(t *testing.T) {
	if _, err := Parse([]byte("body"), ""); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue.md")
	if err := os.WriteFile(path, []byte("Rust is beautiful.\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	src := NewFileSource(path, "Rust is Beautiful")
	issue, err := src.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Title != "Rust is Beautiful" || issue.Body != "Rust is beautiful.\n" {
		t.Errorf("unexpected issue: %+v", issue)
	}

	// Edits are seen on the next load.
	if err := os.WriteFile(path, []byte("changed"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	issue, err = src.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Body != "changed" {
		t.Errorf("Body = %q, want %q", issue.Body, "changed")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "missing.md"), "T")
	_, err := src.Load()
	if !errors.Is(err, ErrRead) {
		t.Errorf("expected ErrRead, got %v", err)
	}
}

func TestFileSource_Variables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue.md")
	data := "---\ntitle: Issue {{threshold}}\n---\nClaimed in {{repository}} by {{ who }}. {{unknown}}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	src := NewFileSource(path, "unused")
	src.Variables = map[string]string{"threshold": "100000", "repository": "rust-lang/rust", "who": "ferris"}

	issue, err := src.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.Title != "Issue 100000" {
		t.Errorf("Title = %q", issue.Title)
	}
	if issue.Body != "Claimed in rust-lang/rust by ferris. {{unknown}}\n" {
		t.Errorf("Body = %q", issue.Body)
	}
}
