package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type reviewKeyMap struct {
	Answer   key.Binding
	Complete key.Binding
	Browse   key.Binding
	Prev     key.Binding
	Next     key.Binding
	Favorite key.Binding
	Mode     key.Binding
	Order    key.Binding
	Reset    key.Binding
	Guide    key.Binding
	Quit     key.Binding
}

func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Answer, k.Complete, k.Browse, k.Favorite, k.Mode, k.Reset, k.Quit}
}

func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Answer, k.Complete, k.Browse, k.Prev, k.Next},
		{k.Favorite, k.Mode, k.Order, k.Reset, k.Guide, k.Quit},
	}
}

type Root struct {
	theme Theme
	ascii bool
	ctrl  Controller

	mu      sync.Mutex
	program *tea.Program
	running bool

	layout LayoutMode
	cols   int
	rows   int

	state       ReviewState
	statusFlash string
	guideMD     string

	resetOpen  bool
	resetIndex int
	confirming bool
	turnOpen   bool
	guideOpen  bool

	help     help.Model
	keymap   reviewKeyMap
	goalBar  progress.Model
	markdown *glamour.TermRenderer
	logger   *clog.Logger
}

type Options struct {
	ASCIIOnly bool
	Debug     bool
	Variant   string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "versekeep-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "err", err)
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()

	goalBar := progress.New(
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6"), lipgloss.Color("#F2D16B")),
		progress.WithScaled(true),
	)

	keymap := reviewKeyMap{
		Answer:   key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "answer")),
		Complete: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Browse:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "browse")),
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		Favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),
		Order:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Guide:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "guide")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}

	return &Root{
		theme:    ThemeForVariant(opts.Variant),
		ascii:    opts.ASCIIOnly,
		layout:   LayoutWide,
		cols:     100,
		rows:     30,
		help:     h,
		keymap:   keymap,
		goalBar:  goalBar,
		markdown: renderer,
		logger:   logger,
	}
}

func (r *Root) Init() tea.Cmd { return nil }

func (r *Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.logger.Debug("resize", "cols", r.cols, "rows", r.rows, "layout", r.layout)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, nil
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() tea.View {
	if r.cols < 1 {
		r.cols = 100
	}
	if r.rows < 1 {
		r.rows = 30
	}
	if r.layout == LayoutTooSmall {
		v := tea.NewView(r.theme.Warn.Render("Terminal too small for versekeep."))
		v.AltScreen = true
		return v
	}

	base := r.renderReview()
	if overlay := r.renderOverlay(); overlay != "" {
		base = lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, overlay)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) { r.ctrl = c }

func (r *Root) SetReviewState(s ReviewState) {
	r.apply(func(r *Root) {
		r.state = s
		r.theme = ThemeForVariant(s.ThemeName)
	})
}

func (r *Root) SetResetOpen(open bool) {
	r.apply(func(r *Root) {
		r.resetOpen = open
		r.resetIndex = 0
		r.confirming = false
	})
}

func (r *Root) SetTurnPromptOpen(open bool) {
	r.apply(func(r *Root) { r.turnOpen = open })
}

func (r *Root) SetGuide(markdown string) {
	r.apply(func(r *Root) { r.guideMD = markdown })
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(r *Root) { r.statusFlash = msg })
}

func (r *Root) apply(fn func(*Root)) {
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, r.keymap.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, tea.Quit
	}

	if r.turnOpen {
		r.turnOpen = false
		r.dispatchController(func(c Controller) { c.OnTurnAcknowledged() })
		return r, nil
	}
	if r.guideOpen {
		r.guideOpen = false
		return r, nil
	}
	if r.resetOpen {
		return r.handleResetKey(msg)
	}

	r.statusFlash = ""
	switch {
	case key.Matches(msg, r.keymap.Answer):
		r.dispatchController(func(c Controller) { c.OnToggleAnswer() })
	case key.Matches(msg, r.keymap.Complete):
		r.dispatchController(func(c Controller) { c.OnAdvance() })
	case key.Matches(msg, r.keymap.Browse):
		r.dispatchController(func(c Controller) { c.OnToggleBrowse() })
	case key.Matches(msg, r.keymap.Prev):
		r.dispatchController(func(c Controller) { c.OnBrowsePrev() })
	case key.Matches(msg, r.keymap.Next):
		r.dispatchController(func(c Controller) { c.OnBrowseNext() })
	case key.Matches(msg, r.keymap.Favorite):
		r.dispatchController(func(c Controller) { c.OnToggleFavorite() })
	case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
		r.dispatchController(func(c Controller) { c.OnToggleNew() })
	case key.Matches(msg, key.NewBinding(key.WithKeys("w"))):
		r.dispatchController(func(c Controller) { c.OnToggleWrong() })
	case key.Matches(msg, key.NewBinding(key.WithKeys("u"))):
		r.dispatchController(func(c Controller) { c.OnToggleUnmemorized() })
	case key.Matches(msg, r.keymap.Mode):
		r.dispatchController(func(c Controller) { c.OnCycleMode() })
	case key.Matches(msg, r.keymap.Order):
		r.dispatchController(func(c Controller) { c.OnCycleOrder() })
	case key.Matches(msg, key.NewBinding(key.WithKeys("t"))):
		r.dispatchController(func(c Controller) { c.OnCycleTheme() })
	case key.Matches(msg, r.keymap.Reset):
		r.resetOpen = true
		r.resetIndex = 0
		r.confirming = false
	case key.Matches(msg, r.keymap.Guide):
		r.guideOpen = true
	}
	return r, nil
}

func (r *Root) handleResetKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	choices := ResetChoices()
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
		r.resetOpen = false
		r.confirming = false
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		r.resetIndex = (r.resetIndex - 1 + len(choices)) % len(choices)
		r.confirming = false
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		r.resetIndex = (r.resetIndex + 1) % len(choices)
		r.confirming = false
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		if !r.confirming {
			r.confirming = true
			break
		}
		scope := choices[r.resetIndex].Scope
		r.resetOpen = false
		r.confirming = false
		r.dispatchController(func(c Controller) { c.OnReset(scope, true) })
	case key.Matches(msg, key.NewBinding(key.WithKeys("n"))):
		r.confirming = false
	}
	return r, nil
}

func (r *Root) ellipsis() string {
	if r.ascii {
		return "..."
	}
	return "…"
}

func (r *Root) sep() string {
	if r.ascii {
		return " | "
	}
	return " · "
}

func (r *Root) renderReview() string {
	var b strings.Builder
	width := r.cols

	header := fmt.Sprintf(" versekeep -- %s%s%s ", r.state.ModeLabel, r.sep(), r.state.OrderLabel)
	if r.state.Browsing {
		header += "(browsing completed) "
	}
	b.WriteString(r.theme.Header.Width(width).Render(ansi.Truncate(header, width, r.ellipsis())) + "\n\n")

	counts := strings.Join([]string{
		fmt.Sprintf("remaining %d/%d", r.state.Remaining, r.state.Total),
		fmt.Sprintf("reviewed %d", r.state.Reviewed),
		fmt.Sprintf("today %d", r.state.TodayCount),
		fmt.Sprintf("this session %d", r.state.SessionCompleted),
	}, r.sep())
	b.WriteString("  " + r.theme.Muted.Render(counts) + "\n")

	if r.state.Goal > 0 {
		done := r.state.CompletedToday + r.state.SessionCompleted
		pct := float64(done) / float64(r.state.Goal)
		if pct > 1 {
			pct = 1
		}
		bar := r.goalBar.ViewAs(pct)
		b.WriteString("  " + r.theme.Accent.Render("daily goal ") + bar +
			r.theme.Muted.Render(fmt.Sprintf(" %d/%d", done, r.state.Goal)) + "\n")
	}
	b.WriteString("\n")

	if r.state.Empty {
		b.WriteString("  " + r.theme.Muted.Render("Nothing to review in this scope.") + "\n")
	} else {
		b.WriteString(r.renderCard(width))
	}

	b.WriteString("\n")
	if r.statusFlash != "" {
		b.WriteString("  " + r.theme.Good.Render(r.statusFlash) + "\n")
	}
	b.WriteString("  " + r.help.View(r.keymap))
	return b.String()
}

func (r *Root) renderCard(width int) string {
	var b strings.Builder
	inner := min(width-6, 76)

	title := fmt.Sprintf("#%d  %s", r.state.Seq, r.state.Title)
	b.WriteString("  " + r.theme.PanelTitle.Render(ansi.Truncate(title, inner, r.ellipsis())) + "\n")
	b.WriteString("  " + r.theme.Accent.Render(r.state.Reference) + "\n")

	meta := r.state.Category
	if r.state.DaysAgo != "" {
		meta += r.sep() + "last reviewed " + r.state.DaysAgo
	}
	b.WriteString("  " + r.theme.Muted.Render(meta) + "\n")

	var flags []string
	if r.state.IsFavorite {
		flags = append(flags, "favorite")
	}
	if r.state.IsNew {
		flags = append(flags, "new")
	}
	if r.state.IsWrong {
		flags = append(flags, "missed")
	}
	if r.state.IsUnmemorized {
		flags = append(flags, "not memorized")
	}
	if len(flags) > 0 {
		b.WriteString("  " + r.theme.Warn.Render(strings.Join(flags, r.sep())) + "\n")
	}
	b.WriteString("\n")

	if r.state.ShowAnswer {
		body := r.state.Body
		if r.markdown != nil {
			if out, err := r.markdown.Render(body); err == nil {
				body = strings.TrimRight(out, "\n")
			}
		}
		b.WriteString(r.theme.PanelBody.Render(body) + "\n")
	} else {
		b.WriteString("  " + r.theme.Muted.Render("(press space to reveal the passage)") + "\n")
	}
	return b.String()
}

func (r *Root) renderOverlay() string {
	switch {
	case r.turnOpen:
		return r.theme.Overlay.Render(
			r.theme.OverlayTitle.Render("Turn complete") + "\n\n" +
				"Every verse in this scope reached the target turn.\n" +
				"Raise the target turn or reset the counters to go again.\n\n" +
				r.theme.Muted.Render("press any key"))
	case r.guideOpen:
		guide := r.guideMD
		if r.markdown != nil {
			if out, err := r.markdown.Render(guide); err == nil {
				guide = strings.TrimRight(out, "\n")
			}
		}
		return r.theme.Overlay.Render(guide + "\n\n" + r.theme.Muted.Render("press any key"))
	case r.resetOpen:
		var b strings.Builder
		b.WriteString(r.theme.OverlayTitle.Render("Reset review progress") + "\n\n")
		for i, choice := range ResetChoices() {
			cursor := "  "
			line := choice.Label
			if i == r.resetIndex {
				cursor = r.theme.Accent.Render("> ")
				if r.confirming {
					line += r.theme.Warn.Render("  (enter again to confirm)")
				}
			}
			b.WriteString(cursor + line + "\n")
		}
		b.WriteString("\n" + r.theme.Muted.Render("↑/↓ select · enter twice to confirm · esc to cancel"))
		return r.theme.Overlay.Render(b.String())
	}
	return ""
}
