package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/menube/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func newTestRenderer() (*Renderer, *bytes.Buffer) {
	var buf bytes.Buffer
	plain := func(s string) (string, error) { return s, nil }
	return NewRenderer(&buf, WithProfile(termenv.Ascii), WithMarkdown(plain)), &buf
}

func TestRenderer_Menu(t *testing.T) {
	r, buf := newTestRenderer()
	parent := &domain.Node{Label: "Tools", Kind: domain.KindSubmenu}
	siblings := []*domain.Node{
		{Label: "Date", Kind: domain.KindCommand},
		{Label: "More", Kind: domain.KindSubmenu, Children: []*domain.Node{{Label: "x"}}},
		{Label: "Branches", Kind: domain.KindOptions},
	}

	r.Menu(parent, siblings, 1)

	assert.Equal(t, "\r\n"+
		"--- Menu (Tools) ---\r\n"+
		"  Date\r\n"+
		"> More ›\r\n"+
		"  Branches …\r\n"+
		"------------\r\n", buf.String())
}

func TestRenderer_Events(t *testing.T) {
	r, buf := newTestRenderer()

	r.Event(domain.Event{Name: domain.EventPathChanged})
	assert.Empty(t, buf.String())

	r.Event(domain.Event{Name: domain.EventCommandCompleted, Result: &domain.CommandResult{
		Command: "date",
		Stdout:  "Mon\n",
		Stderr:  "warn\n",
		Err:     errors.New("exit status 1"),
	}})
	out := buf.String()
	assert.Contains(t, out, "$ date\r\n")
	assert.Contains(t, out, "Mon\r\n")
	assert.Contains(t, out, "warn\r\n")
	assert.Contains(t, out, "error: exit status 1\r\n")

	buf.Reset()
	r.Event(domain.Event{Name: "text", Args: []any{"hello", 2}})
	assert.Equal(t, "EVENT text: hello 2\r\n", buf.String())
}

func TestRenderer_Help(t *testing.T) {
	r, buf := newTestRenderer()
	r.Help()
	assert.Contains(t, buf.String(), "| q / ctrl+c | quit |\r\n")
}
