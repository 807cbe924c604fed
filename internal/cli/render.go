package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/drujensen/gaurika/internal/domain/entities"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Renderer writes everything the REPL shows. Writes are serialized because
// scheduled jobs report from their own goroutines.
type Renderer struct {
	out      io.Writer
	mu       sync.Mutex
	markdown *glamour.TermRenderer

	assistantStyle lipgloss.Style
	infoStyle      lipgloss.Style
	errorStyle     lipgloss.Style
	jobStyle       lipgloss.Style
	toolStyle      lipgloss.Style
}

// NewRenderer builds a renderer. With markdown set, assistant replies are
// rendered through glamour; otherwise they are printed as they are.
func NewRenderer(out io.Writer, markdown bool) *Renderer {
	r := &Renderer{
		out:            out,
		assistantStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		infoStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		errorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		jobStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		toolStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}

	if markdown {
		if tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			r.markdown = tr
		}
	}
	return r
}

// Write lets the renderer receive streamed model output.
func (r *Renderer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.Write(p)
}

func (r *Renderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, s)
}

func (r *Renderer) Assistant(content string) {
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(content); err == nil {
			r.println(r.assistantStyle.Render("Gaurika:") + "\n" + strings.TrimRight(rendered, "\n"))
			return
		}
	}
	r.println(r.assistantStyle.Render("Gaurika:") + "\n" + content)
}

func (r *Renderer) Info(format string, args ...any) {
	r.println(r.infoStyle.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Error(err error) {
	r.println(r.errorStyle.Render("Error: " + err.Error()))
}

func (r *Renderer) ToolCall(ev *entities.ToolCallEvent) {
	line := fmt.Sprintf("Tool called: %s", ev.ToolName)
	if ev.Error != "" {
		line += " (" + ev.Error + ")"
	}
	r.println(r.toolStyle.Render(line))
}

func (r *Renderer) Job(ev *entities.JobRunEvent) {
	status := "ran"
	if !ev.Success {
		status = "failed"
	}
	header := fmt.Sprintf("[scheduled] Task '%s' %s `%s` (%s of output)",
		ev.JobName, status, ev.Command, humanize.Bytes(uint64(len(ev.Output))))

	output := strings.TrimRight(ev.Output, "\n")
	if output == "" {
		r.println(r.jobStyle.Render(header))
		return
	}
	r.println(r.jobStyle.Render(header) + "\n" + output)
}

// Jobs prints the schedule in the order the scheduler lists it.
func (r *Renderer) Jobs(jobs []entities.ScheduledJob) {
	if len(jobs) == 0 {
		r.Info("No scheduled tasks.")
		return
	}

	var b strings.Builder
	b.WriteString("Scheduled tasks:")
	for _, job := range jobs {
		last := "never run"
		if job.LastRun != nil {
			last = "last run " + humanize.Time(*job.LastRun)
		}
		fmt.Fprintf(&b, "\n- %s: `%s` every %d seconds (%s run%s, %s, next %s)",
			job.Name, job.Command, job.Interval,
			humanize.Comma(int64(job.Runs)), plural(job.Runs), last, humanize.Time(job.NextRun))
	}
	r.println(b.String())
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
