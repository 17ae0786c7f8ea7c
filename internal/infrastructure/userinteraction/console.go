package userinteraction

import (
	"fmt"
	"io"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/domain/entity"

	"github.com/fatih/color"
)

// Console prints CLI results. Colors are dropped automatically when the
// output is not a terminal.
type Console struct {
	out   io.Writer
	key   *color.Color
	ok    *color.Color
	warn  *color.Color
	fail  *color.Color
	faint *color.Color
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:   out,
		key:   color.New(color.FgCyan),
		ok:    color.New(color.FgGreen, color.Bold),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed, color.Bold),
		faint: color.New(color.Faint),
	}
}

// Settings prints the snapshot with the API key masked.
func (c *Console) Settings(s entity.Settings) {
	m := s.Masked()
	c.field("browser_id", m.Identity.ID)
	c.field("label", m.Label())
	c.field("server_url", m.Binding.Endpoint)
	c.field("api_key", m.Binding.Credential)

	c.key.Fprint(c.out, "registered: ")
	if m.Binding.Registered {
		c.ok.Fprintln(c.out, "true")
	} else {
		c.warn.Fprintln(c.out, "false")
	}
}

func (c *Console) SettingsFile(path string) {
	c.faint.Fprintf(c.out, "settings saved to %s\n", path)
}

func (c *Console) Registered(s entity.Settings) {
	c.ok.Fprint(c.out, "✓ Registered ")
	fmt.Fprintf(c.out, "%s (%s) with %s\n", s.Identity.ID, s.Label(), s.Binding.Endpoint)
}

func (c *Console) Cycle(stats input.CycleStats) {
	fmt.Fprintf(c.out, "fetched=%d ", stats.Fetched)
	c.ok.Fprintf(c.out, "executed=%d ", stats.Executed)
	if stats.Failed > 0 {
		c.fail.Fprintf(c.out, "failed=%d\n", stats.Failed)
		return
	}
	c.faint.Fprintf(c.out, "failed=%d\n", stats.Failed)
}

func (c *Console) ID(id string) {
	fmt.Fprintln(c.out, id)
}

func (c *Console) field(name, value string) {
	c.key.Fprintf(c.out, "%s: ", name)
	if value == "" {
		c.faint.Fprintln(c.out, "(not set)")
		return
	}
	fmt.Fprintln(c.out, value)
}
