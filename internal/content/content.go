// Package content loads the static issue that gets posted when the race fires.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andywolf/issuerace/internal/template"
)

// ErrRead marks failures to load the issue content.
var ErrRead = errors.New("failed to read issue content")

const frontMatterDelim = "---"

// Issue is the title and body to submit.
type Issue struct {
	Title string
	Body  string
}

// frontMatter is the optional YAML header of an issue file.
type frontMatter struct {
	Title string `yaml:"title"`
}

// FileSource reads an issue from a markdown file. The file may start with a
// YAML front matter block whose title overrides DefaultTitle. {{name}}
// placeholders in the title and body are filled from Variables.
type FileSource struct {
	Path         string
	DefaultTitle string
	Variables    map[string]string

	readFile func(string) ([]byte, error)
}

// NewFileSource creates a FileSource reading from path.
func NewFileSource(path, defaultTitle string) *FileSource {
	return &FileSource{
		Path:         path,
		DefaultTitle: defaultTitle,
		readFile:     os.ReadFile,
	}
}

// Load reads the file from disk on every call so edits made while the race
// is waiting are picked up.
func (s *FileSource) Load() (Issue, error) {
	data, err := s.readFile(s.Path)
	if err != nil {
		return Issue{}, fmt.Errorf("%w: %s: %v", ErrRead, s.Path, err)
	}

	issue, err := Parse(data, s.DefaultTitle)
	if err != nil {
		return Issue{}, fmt.Errorf("%w: %s: %v", ErrRead, s.Path, err)
	}

	issue.Title = template.Render(issue.Title, s.Variables)
	issue.Body = template.Render(issue.Body, s.Variables)
	return issue, nil
}

// Parse splits optional front matter from the body.
func Parse(data []byte, defaultTitle string) (Issue, error) {
	issue := Issue{Title: defaultTitle}

	text := string(bytes.TrimPrefix(data, []byte("\ufeff")))
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if strings.HasPrefix(text, frontMatterDelim+"\n") {
		rest := text[len(frontMatterDelim)+1:]
		end := strings.Index(rest, "\n"+frontMatterDelim)
		if end < 0 {
			return Issue{}, fmt.Errorf("unterminated front matter")
		}

		var fm frontMatter
		if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
			return Issue{}, fmt.Errorf("invalid front matter: %w", err)
		}
		if fm.Title != "" {
			issue.Title = fm.Title
		}

		text = rest[end+len(frontMatterDelim)+1:]
		text = strings.TrimPrefix(text, "\n")
	}

	issue.Body = text
	if strings.TrimSpace(issue.Title) == "" {
		return Issue{}, fmt.Errorf("issue title is empty")
	}
	return issue, nil
}
