// Package notify prints the notices the race emits: progress, recoverable
// errors, and the final verdict.
package notify

import (
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/lipgloss"

	"github.com/andywolf/issuerace/internal/security"
)

// Logger receives notices at a given severity.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Successf(format string, args ...interface{})
}

// Console writes notices through a standard library logger, tagging each
// severity with a coloured label when the writer is a terminal.
type Console struct {
	logger  *log.Logger
	verbose bool

	debugTag   string
	warningTag string
	errorTag   string
	successTag string
}

// ConsoleOption configures a Console.
type ConsoleOption func(*consoleOptions)

type consoleOptions struct {
	verbose bool
	noColor bool
	prefix  string
	flags   int
}

// WithVerbose enables debug notices.
func WithVerbose(verbose bool) ConsoleOption {
	return func(o *consoleOptions) { o.verbose = verbose }
}

// WithNoColor disables styling even on a terminal.
func WithNoColor(noColor bool) ConsoleOption {
	return func(o *consoleOptions) { o.noColor = noColor }
}

// WithPrefix replaces the default "[issuerace] " prefix.
func WithPrefix(prefix string) ConsoleOption {
	return func(o *consoleOptions) { o.prefix = prefix }
}

// WithFlags sets the log.Logger flags (log.LstdFlags by default).
func WithFlags(flags int) ConsoleOption {
	return func(o *consoleOptions) { o.flags = flags }
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	o := consoleOptions{prefix: "[issuerace] ", flags: log.LstdFlags}
	for _, opt := range opts {
		opt(&o)
	}

	tag := func(label, color string) string {
		if o.noColor {
			return label
		}
		// The renderer downgrades to plain text when w is not a terminal.
		r := lipgloss.NewRenderer(w)
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(label)
	}

	return &Console{
		logger:     log.New(w, o.prefix, o.flags),
		verbose:    o.verbose,
		debugTag:   tag("Debug:", "8"),
		warningTag: tag("Warning:", "3"),
		errorTag:   tag("Error:", "1"),
		successTag: tag("Success:", "2"),
	}
}

// Debugf prints only in verbose mode.
func (c *Console) Debugf(format string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.logger.Printf("%s %s", c.debugTag, fmt.Sprintf(format, args...))
}

func (c *Console) Infof(format string, args ...interface{}) {
	c.logger.Printf(format, args...)
}

func (c *Console) Warningf(format string, args ...interface{}) {
	c.logger.Printf("%s %s", c.warningTag, fmt.Sprintf(format, args...))
}

func (c *Console) Errorf(format string, args ...interface{}) {
	c.logger.Printf("%s %s", c.errorTag, fmt.Sprintf(format, args...))
}

func (c *Console) Successf(format string, args ...interface{}) {
	c.logger.Printf("%s %s", c.successTag, fmt.Sprintf(format, args...))
}

// Multi sends every notice to each of its loggers in order.
type Multi []Logger

func (m Multi) Debugf(format string, args ...interface{}) {
	for _, l := range m {
		l.Debugf(format, args...)
	}
}

func (m Multi) Infof(format string, args ...interface{}) {
	for _, l := range m {
		l.Infof(format, args...)
	}
}

func (m Multi) Warningf(format string, args ...interface{}) {
	for _, l := range m {
		l.Warningf(format, args...)
	}
}

func (m Multi) Errorf(format string, args ...interface{}) {
	for _, l := range m {
		l.Errorf(format, args...)
	}
}

func (m Multi) Successf(format string, args ...interface{}) {
	for _, l := range m {
		l.Successf(format, args...)
	}
}

// Redacting formats each notice, scrubs credentials out of it, and forwards
// the result. Errors from the transport can echo request details, so every
// logger the CLI builds is wrapped in one of these.
type Redacting struct {
	next     Logger
	scrubber *security.Scrubber
}

// NewRedacting wraps next with scrubber.
func NewRedacting(next Logger, scrubber *security.Scrubber) *Redacting {
	return &Redacting{next: next, scrubber: scrubber}
}

func (r *Redacting) clean(format string, args []interface{}) string {
	return r.scrubber.Scrub(fmt.Sprintf(format, args...))
}

func (r *Redacting) Debugf(format string, args ...interface{}) {
	r.next.Debugf("%s", r.clean(format, args))
}

func (r *Redacting) Infof(format string, args ...interface{}) {
	r.next.Infof("%s", r.clean(format, args))
}

func (r *Redacting) Warningf(format string, args ...interface{}) {
	r.next.Warningf("%s", r.clean(format, args))
}

func (r *Redacting) Errorf(format string, args ...interface{}) {
	r.next.Errorf("%s", r.clean(format, args))
}

func (r *Redacting) Successf(format string, args ...interface{}) {
	r.next.Successf("%s", r.clean(format, args))
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Debugf(string, ...interface{})   {}
func (Discard) Infof(string, ...interface{})    {}
func (Discard) Warningf(string, ...interface{}) {}
func (Discard) Errorf(string, ...interface{})   {}
func (Discard) Successf(string, ...interface{}) {}

var (
	_ Logger = (*Console)(nil)
	_ Logger = Multi(nil)
	_ Logger = (*Redacting)(nil)
	_ Logger = Discard{}
)
