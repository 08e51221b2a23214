package client

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/xhad/docmind/internal/models"
	"github.com/xhad/docmind/pkg/formatter"
)

// Palette is the set of colors for one theme.
type Palette struct {
	User      *color.Color
	Assistant *color.Color
	System    *color.Color
	Heading   *color.Color
	Label     *color.Color
	Strong    *color.Color
}

func PaletteFor(theme Theme) Palette {
	if theme == ThemeDark {
		return Palette{
			User:      color.New(color.FgHiGreen),
			Assistant: color.New(color.FgHiCyan),
			System:    color.New(color.FgHiYellow),
			Heading:   color.New(color.FgHiWhite, color.Bold, color.Underline),
			Label:     color.New(color.FgHiMagenta, color.Bold),
			Strong:    color.New(color.FgHiWhite, color.Bold),
		}
	}
	return Palette{
		User:      color.New(color.FgGreen),
		Assistant: color.New(color.FgCyan),
		System:    color.New(color.FgYellow),
		Heading:   color.New(color.FgBlue, color.Bold, color.Underline),
		Label:     color.New(color.FgMagenta, color.Bold),
		Strong:    color.New(color.FgBlack, color.Bold),
	}
}

// Renderer prints transcript messages it has not shown yet, so the newest
// message always ends up at the bottom of the terminal.
type Renderer struct {
	out   io.Writer
	theme func() Theme

	mu    sync.Mutex
	shown int
}

func NewRenderer(out io.Writer, theme func() Theme) *Renderer {
	return &Renderer{out: out, theme: theme}
}

// Update is meant to be passed to Session.Subscribe.
func (r *Renderer) Update(messages []models.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shown > len(messages) {
		r.shown = 0
	}
	palette := PaletteFor(r.theme())
	for _, m := range messages[r.shown:] {
		fmt.Fprint(r.out, RenderMessage(m, palette))
	}
	r.shown = len(messages)
}

// RenderMessage returns the terminal text for one message. Only assistant
// content goes through the formatter; everything else is printed as is.
func RenderMessage(m models.Message, p Palette) string {
	var sb strings.Builder
	switch m.Role {
	case models.RoleUser:
		sb.WriteString(p.User.Sprint("You: "))
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	case models.RoleAssistant:
		sb.WriteString(p.Assistant.Sprint("Assistant:"))
		sb.WriteString("\n")
		for _, b := range formatter.Format(m.Content) {
			sb.WriteString(renderBlock(b, p))
			sb.WriteString("\n")
		}
	default:
		sb.WriteString(p.System.Sprint("* " + m.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderBlock(b formatter.Block, p Palette) string {
	switch b.Kind {
	case formatter.Heading:
		return p.Heading.Sprint(b.Text())
	case formatter.ListItem:
		return "  • " + renderSpans(b.Spans, p)
	case formatter.Labeled:
		return p.Label.Sprint(b.Label+":") + renderSpans(b.Spans, p)
	case formatter.LineBreak:
		return ""
	default:
		return renderSpans(b.Spans, p)
	}
}

func renderSpans(spans []formatter.Span, p Palette) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Strong {
			sb.WriteString(p.Strong.Sprint(s.Text))
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
