package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewMarkdownRenderer returns a function that renders markdown using glamour.
func NewMarkdownRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return r.Render
}

// Renderer draws the active menu and engine events on a raw-mode terminal.
// Every line ends in \r\n because the terminal does not translate \n.
type Renderer struct {
	out      io.Writer
	profile  termenv.Profile
	markdown func(string) (string, error)
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithProfile forces a color profile (termenv.Ascii disables styling).
func WithProfile(p termenv.Profile) RendererOption {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithMarkdown replaces the markdown renderer used by Help.
func WithMarkdown(render func(string) (string, error)) RendererOption {
	return func(r *Renderer) {
		r.markdown = render
	}
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer, opts ...RendererOption) *Renderer {
	r := &Renderer{
		out:     out,
		profile: termenv.ColorProfile(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.markdown == nil {
		r.markdown = NewMarkdownRenderer()
	}
	return r
}

func (r *Renderer) line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\r\n", args...)
}

// Menu prints the sibling list with the highlighted item marked.
func (r *Renderer) Menu(parent *domain.Node, siblings []*domain.Node, current int) {
	title := "Menu"
	if parent != nil {
		title += " (" + parent.Label + ")"
	}
	r.line("")
	r.line("%s", r.profile.String("--- "+title+" ---").Foreground(r.profile.Color("#a78bfa")).Bold())
	for i, n := range siblings {
		text := n.Label + suffix(n)
		if i == current {
			r.line("%s", r.profile.String("> "+text).Foreground(r.profile.Color("#fbbf24")).Bold())
			continue
		}
		r.line("  %s", text)
	}
	r.line("------------")
}

func suffix(n *domain.Node) string {
	switch {
	case n.HasChildren():
		return " ›"
	case n.Kind == domain.KindOptions:
		return " …"
	}
	return ""
}

// Event prints a published event. Path changes are ignored: the caller
// redraws the menu instead.
func (r *Renderer) Event(ev domain.Event) {
	if ev.Name == domain.EventPathChanged {
		return
	}
	if res := ev.Result; res != nil {
		if ev.Name != domain.EventCommandCompleted {
			// The named NotifyOn event repeats the result already shown.
			r.line("%s", r.profile.String("EVENT "+ev.Name).Faint())
			return
		}
		r.line("%s", r.profile.String("$ "+res.Command).Faint())
		if res.Stdout != "" {
			r.block(res.Stdout)
		}
		if res.Stderr != "" {
			r.block(r.profile.String(res.Stderr).Foreground(r.profile.Color("#fb7185")).String())
		}
		if res.Err != nil {
			r.line("%s", r.profile.String(fmt.Sprintf("error: %v", res.Err)).Foreground(r.profile.Color("#f43f5e")))
		}
		return
	}

	if len(ev.Args) == 0 {
		r.line("%s", r.profile.String("EVENT "+ev.Name).Faint())
		return
	}
	args := make([]string, len(ev.Args))
	for i, a := range ev.Args {
		args[i] = fmt.Sprintf("%v", a)
	}
	r.line("%s %s", r.profile.String("EVENT "+ev.Name+":").Faint(), strings.Join(args, " "))
}

func (r *Renderer) block(s string) {
	for _, l := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		r.line("%s", l)
	}
}

// Error prints an error line.
func (r *Renderer) Error(err error) {
	r.line("%s", r.profile.String("error: "+err.Error()).Foreground(r.profile.Color("#f43f5e")).Bold())
}

// Help renders the key bindings as markdown.
func (r *Renderer) Help() {
	out, err := r.markdown(helpText)
	if err != nil {
		out = helpText
	}
	r.block(out)
}

const helpText = `# menube

| key | action |
|-----|--------|
| ↑ / k | previous item |
| ↓ / j | next item |
| → / l / enter | activate |
| ← / h / backspace | back |
| ? | this help |
| q / ctrl+c | quit |
`
