package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/bhtree/internal/sweep"
)

type progressMsg struct {
	done, total int
	row         sweep.Row
}

type doneMsg struct {
	rows []sweep.Row
	err  error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitFor(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

type sweepModel struct {
	title  string
	total  int
	done   int
	rows   []sweep.Row
	logDev []float64
	err    error

	finished bool
	quitting bool
	frame    int
	start    time.Time

	events <-chan tea.Msg
	cancel context.CancelFunc
	width  int
}

func newSweepModel(title string, total int, events <-chan tea.Msg, cancel context.CancelFunc) sweepModel {
	return sweepModel{
		title:  title,
		total:  total,
		events: events,
		cancel: cancel,
		start:  time.Now(),
		width:  80,
	}
}

func (m sweepModel) Init() tea.Cmd {
	return tea.Batch(waitFor(m.events), tick())
}

func (m sweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if m.finished {
			return m, nil
		}
		m.frame++
		return m, tick()
	case progressMsg:
		m.done = msg.done
		m.total = msg.total
		m.rows = append(m.rows, msg.row)
		m.logDev = append(m.logDev, math.Log10(math.Max(msg.row.MeanDev, 1e-17)))
		return m, waitFor(m.events)
	case doneMsg:
		m.finished = true
		m.err = msg.err
		if msg.rows != nil {
			m.rows = msg.rows
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m sweepModel) View() string {
	var b strings.Builder

	b.WriteString(Header.Render(m.title))
	b.WriteString("\n\n")

	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.done) / float64(m.total)
	}
	status := cyan.Render(Spinner(m.frame))
	if m.finished {
		status = green.Render("✓")
		if m.err != nil {
			status = red.Render("✗")
		}
	}
	fmt.Fprintf(&b, " %s %s %s\n\n", status, ProgressBar(fraction, 40),
		Label.Render(fmt.Sprintf("%d/%d  %s", m.done, m.total, time.Since(m.start).Round(time.Millisecond))))

	if len(m.rows) > 0 {
		fmt.Fprintf(&b, " %s\n", dim.Render(fmt.Sprintf("%8s %6s %12s %12s %10s %8s", "theta", "limit", "mean dev", "max dev", "time", "speedup")))
		start := max(len(m.rows)-10, 0)
		for _, r := range m.rows[start:] {
			fmt.Fprintf(&b, " %8.3f %6d %s %s %10s %s\n",
				r.Theta, r.Limit,
				Value.Render(fmt.Sprintf("%12.3e", r.MeanDev)),
				white.Render(fmt.Sprintf("%12.3e", r.MaxDev)),
				(r.Build + r.Query).Round(time.Microsecond),
				magenta.Render(fmt.Sprintf("%7.1fx", r.Speedup)),
			)
		}
		b.WriteString("\n " + Label.Render("log10 mean dev ") + Sparkline(m.logDev, 40) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n " + Separator(min(m.width-2, 60)) + "\n")
	b.WriteString(" " + Hint.Render("q quit") + "\n")
	return b.String()
}

// RunSweep shows live progress while run executes in the background. Quitting
// the view cancels run's context; the returned error is then
// context.Canceled.
func RunSweep(ctx context.Context, title string, total int, run func(context.Context, sweep.Progress) ([]sweep.Row, error), opts ...tea.ProgramOption) ([]sweep.Row, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg, total+1)
	finished := make(chan doneMsg, 1)
	go func() {
		rows, err := run(ctx, func(done, total int, row sweep.Row) {
			select {
			case events <- progressMsg{done: done, total: total, row: row}:
			case <-ctx.Done():
			}
		})
		d := doneMsg{rows: rows, err: err}
		finished <- d
		select {
		case events <- d:
		case <-ctx.Done():
		}
	}()

	final, err := tea.NewProgram(newSweepModel(title, total, events, cancel), opts...).Run()
	if err != nil {
		cancel()
		<-finished
		return nil, err
	}

	if fm, ok := final.(sweepModel); ok && fm.quitting && !fm.finished {
		cancel()
		d := <-finished
		if d.err == nil {
			d.err = context.Canceled
		}
		return d.rows, d.err
	}

	d := <-finished
	return d.rows, d.err
}
