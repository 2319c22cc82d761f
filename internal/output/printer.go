// Package output renders groundlab's human-facing terminal output. Styling
// is lipgloss-based and can be disabled, so captured output in tests and
// piped shells stays plain text.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// RuleWidth is the width of banner rules in summaries.
const RuleWidth = 60

// Printer writes styled lines to a single destination.
type Printer struct {
	writer io.Writer
	plain  bool

	header   lipgloss.Style
	pass     lipgloss.Style
	fail     lipgloss.Style
	muted    lipgloss.Style
	emphasis lipgloss.Style

	mu sync.Mutex
}

// Option configures a Printer.
type Option func(*Printer)

// WithWriter redirects output, typically to a buffer in tests.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		p.writer = writer
	}
}

// WithPlain disables styling entirely.
func WithPlain() Option {
	return func(p *Printer) {
		p.plain = true
	}
}

// NewPrinter creates a Printer writing to os.Stdout unless redirected.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer:   os.Stdout,
		header:   lipgloss.NewStyle().Bold(true),
		pass:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		emphasis: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Println writes one plain line.
func (p *Printer) Println(text string) {
	p.write(text + "\n")
}

// Printf writes formatted text verbatim.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.write(fmt.Sprintf(format, args...))
}

// Header writes a bold banner line.
func (p *Printer) Header(text string) {
	p.write(p.render(p.header, text) + "\n")
}

// Rule writes a full-width separator line.
func (p *Printer) Rule() {
	p.write(strings.Repeat("=", RuleWidth) + "\n")
}

// Pass writes one passed-stage line: the name, a green PASS marker and the
// stage detail.
func (p *Printer) Pass(name, detail string) {
	p.write(fmt.Sprintf("%-24s %s  %s\n", name, p.render(p.pass, "✅ PASS"), p.render(p.muted, detail)))
}

// Fail writes one failed-stage line with a red FAIL marker.
func (p *Printer) Fail(name, detail string) {
	p.write(fmt.Sprintf("%-24s %s  %s\n", name, p.render(p.fail, "❌ FAIL"), detail))
}

// Success writes a green closing line.
func (p *Printer) Success(text string) {
	p.write(p.render(p.pass, text) + "\n")
}

// Failure writes a red closing line.
func (p *Printer) Failure(text string) {
	p.write(p.render(p.fail, text) + "\n")
}

// Emphasis writes a highlighted line, used for result file paths.
func (p *Printer) Emphasis(text string) {
	p.write(p.render(p.emphasis, text) + "\n")
}

// SetWriter changes the output destination.
func (p *Printer) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writer = writer
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return style.Render(text)
}

func (p *Printer) write(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprint(p.writer, text)
}
