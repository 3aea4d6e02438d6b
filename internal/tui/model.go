package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lingochat/internal/app"
	"lingochat/internal/capability"
	"lingochat/internal/conversation"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
)

// resultMsg carries one capability completion into the update loop. gen guards
// against completions dispatched before a "new conversation" reset.
type resultMsg struct {
	gen int
	res capability.Result
}

type spinMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var kindLabels = map[capability.Kind]string{
	capability.KindDetect:    "detect",
	capability.KindTranslate: "translate",
	capability.KindSummarize: "summary",
}

type MainModel struct {
	app     *app.Application
	session *conversation.Session

	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	focus focusArea

	input  textarea.Model
	chatVP viewport.Model

	resultsCh chan resultMsg
	gen       int

	lastText   string
	spinnerPos int
	statusText string
}

func New(application *app.Application) *MainModel {
	ta := textarea.New()
	ta.Placeholder = "Type to translate. Enter sends, Ctrl+S summarizes."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false

	// Keep textarea styling minimal; we style the input container instead.
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()

	cfg := application.Config
	m := &MainModel{
		app:        application,
		session:    conversation.NewSession(cfg.SourceLanguage, cfg.TargetLanguage, application.Logger),
		theme:      NewTheme(),
		keys:       defaultKeyMap(),
		width:      100,
		height:     30,
		focus:      focusInput,
		input:      ta,
		resultsCh:  make(chan resultMsg, 64),
		statusText: "Ready",
	}
	return m
}

// Languages returns the pair selected when the program exited, so the caller
// can persist it.
func (m *MainModel) Languages() (string, string) {
	return m.session.Languages()
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitResult())
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		l := m.computeLayout()
		if !m.ready {
			m.chatVP = viewport.New(l.ChatW, l.ChatH)
			m.chatVP.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.chatVP.Width = l.ChatW
			m.chatVP.Height = l.ChatH
		}
		m.input.SetWidth(maxInt(10, l.InputW))
		m.updateChatViewport()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.FocusNext):
			m.cycleFocus()
			return m, nil

		case key.Matches(msg, m.keys.Send):
			return m, m.commit(m.session.SendTranslation)

		case key.Matches(msg, m.keys.Summarize):
			return m, m.commit(m.session.SendSummary)

		case key.Matches(msg, m.keys.CycleSource):
			return m, m.cycleLanguage(true)

		case key.Matches(msg, m.keys.CycleTarget):
			return m, m.cycleLanguage(false)

		case key.Matches(msg, m.keys.Clear):
			return m, m.reset()

		case msg.Type == tea.KeyUp && m.focus == focusChat:
			m.chatVP.LineUp(1)
			return m, nil
		case msg.Type == tea.KeyDown && m.focus == focusChat:
			m.chatVP.LineDown(1)
			return m, nil
		case msg.Type == tea.KeyPgUp:
			m.chatVP.ViewUp()
			return m, nil
		case msg.Type == tea.KeyPgDown:
			m.chatVP.ViewDown()
			return m, nil
		}

	case resultMsg:
		if msg.gen == m.gen {
			m.session.Apply(msg.res)
			m.updateChatViewport()
		}
		cmds := []tea.Cmd{m.waitResult()}
		if m.session.Pending() {
			cmds = append(cmds, m.spinTick())
		} else {
			m.statusText = "Ready"
		}
		return m, tea.Batch(cmds...)

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.session.Pending() {
			return m, m.spinTick()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Every input mutation feeds the trigger controller.
	if val := m.input.Value(); val != m.lastText {
		m.lastText = val
		reqs := m.session.Edit(val)
		m.updateChatViewport()
		if len(reqs) > 0 {
			m.statusText = "Working…"
			m.dispatch(reqs)
			return m, tea.Batch(cmd, m.spinTick())
		}
	}
	return m, cmd
}

// dispatch fans each request out to its own goroutine. Completions funnel
// through resultsCh back into the update loop, so draft state always has a
// single writer. Requests are never aborted; a superseded result is dropped
// by the reconciler's freshness check when it eventually lands.
func (m *MainModel) dispatch(reqs []capability.Request) {
	gen := m.gen
	for _, req := range reqs {
		go func(req capability.Request) {
			res, emitted := m.app.Adapter.Invoke(context.Background(), req)
			if emitted {
				m.resultsCh <- resultMsg{gen: gen, res: res}
			}
		}(req)
	}
}

func (m *MainModel) waitResult() tea.Cmd {
	ch := m.resultsCh
	return func() tea.Msg {
		return <-ch
	}
}

func (m *MainModel) spinTick() tea.Cmd {
	d := 90 * time.Millisecond
	if os.Getenv("LINGOCHAT_REDUCE_MOTION") == "1" {
		d = 250 * time.Millisecond
	}
	return tea.Tick(d, func(_ time.Time) tea.Msg { return spinMsg{} })
}

func (m *MainModel) commit(send func() bool) tea.Cmd {
	if !send() {
		return nil
	}
	m.input.Reset()
	m.lastText = ""
	m.updateChatViewport()
	m.chatVP.GotoBottom()
	if m.session.Pending() {
		return m.spinTick()
	}
	return nil
}

func (m *MainModel) cycleLanguage(source bool) tea.Cmd {
	src, tgt := m.session.Languages()
	if source {
		src = nextLanguage(src)
	} else {
		tgt = nextLanguage(tgt)
	}
	reqs := m.session.SetLanguages(src, tgt)
	m.updateChatViewport()
	if len(reqs) > 0 {
		m.statusText = "Working…"
		m.dispatch(reqs)
		return m.spinTick()
	}
	return nil
}

// reset starts a new conversation. The generation bump makes any still-running
// capability calls from the old conversation land dead on arrival.
func (m *MainModel) reset() tea.Cmd {
	src, tgt := m.session.Languages()
	m.gen++
	m.session = conversation.NewSession(src, tgt, m.app.Logger)
	m.input.Reset()
	m.lastText = ""
	m.statusText = "Ready"
	m.updateChatViewport()
	return nil
}

func nextLanguage(code string) string {
	langs := capability.SupportedLanguages
	for i, c := range langs {
		if c == code {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}

func (m *MainModel) cycleFocus() {
	if m.focus == focusInput {
		m.focus = focusChat
		m.input.Blur()
	} else {
		m.focus = focusInput
		m.input.Focus()
	}
}

type layoutInfo struct {
	ChatW  int
	ChatH  int
	DraftH int
	InputW int
}

func (m *MainModel) computeLayout() layoutInfo {
	top := 1
	foot := 1
	inputH := 3
	draftH := 5
	chatH := m.height - top - foot - inputH - draftH
	if chatH < 3 {
		chatH = 3
	}
	return layoutInfo{
		ChatW:  m.width,
		ChatH:  chatH,
		DraftH: draftH,
		InputW: m.width - 4,
	}
}

func (m *MainModel) View() string {
	if !m.ready {
		return "…"
	}
	l := m.computeLayout()
	top := m.renderTopBar()
	chat := m.renderChatPane(l)
	draft := m.renderDraftPane(l)
	input := m.renderInputArea(l)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, chat, draft, input, footer)
}

func (m *MainModel) renderTopBar() string {
	src, tgt := m.session.Languages()
	left := m.theme.TopBarTitle.Render("lingochat") + " " +
		m.theme.TopBarBadge.Render(strings.ToUpper(src)+"→"+strings.ToUpper(tgt))
	status := m.statusText
	if m.session.Pending() {
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " " + status)
	} else {
		status = m.theme.TopBarMeta.Render(status)
	}
	right := m.theme.TopBarMeta.Render(time.Now().Format("15:04"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	b := gap - a
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", b) + right)
}

func (m *MainModel) renderFooter() string {
	hints := "Enter send  Ctrl+S summary  Ctrl+O/Ctrl+T languages  Tab focus  Ctrl+L new  Ctrl+C quit"
	if m.width < 90 {
		hints = "Enter send  Ctrl+S summary  Ctrl+C quit"
	}
	return m.theme.Footer.Width(m.width).Render(hints)
}

func (m *MainModel) renderInputArea(l layoutInfo) string {
	box := m.theme.InputBox
	if m.focus == focusInput {
		box = m.theme.InputBoxF
	}
	return box.Width(maxInt(10, m.width-2)).Render(m.input.View())
}

func (m *MainModel) renderChatPane(l layoutInfo) string {
	title := "Conversation"
	if m.focus == focusChat {
		title = m.theme.PaneTitleF.Render(title)
	} else {
		title = m.theme.PaneTitle.Render(title)
	}
	box := m.theme.Pane
	if m.focus == focusChat {
		box = m.theme.PaneFocused
	}
	return box.Width(l.ChatW - 2).Height(l.ChatH).Render(title + "\n" + m.chatVP.View())
}

func (m *MainModel) renderDraftPane(l layoutInfo) string {
	t := m.session.Transcript()
	title := m.theme.PaneTitle.Render("Draft")
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	if t.Draft == nil {
		b.WriteString(m.theme.DraftLabel.Render("Nothing in progress."))
	} else {
		pending := make(map[capability.Kind]bool)
		for _, k := range t.Draft.Pending {
			pending[k] = true
		}
		b.WriteString(m.renderDraftRow("detected", t.Draft.DetectedLanguage, pending[capability.KindDetect]))
		b.WriteString("\n")
		b.WriteString(m.renderDraftRow("translation", t.Draft.Translation, pending[capability.KindTranslate]))
		b.WriteString("\n")
		b.WriteString(m.renderDraftRow("summary", t.Draft.Summary, pending[capability.KindSummarize]))
	}
	return m.theme.Pane.Width(m.width - 2).Height(l.DraftH).Render(b.String())
}

func (m *MainModel) renderDraftRow(label string, f conversation.Field, pending bool) string {
	head := m.theme.DraftLabel.Render(fmt.Sprintf("%-12s", label))
	switch {
	case pending:
		return head + m.theme.Spinner.Render(spinnerFrames[m.spinnerPos])
	case f.Set && f.Failed:
		return head + m.theme.DraftErr.Render(f.Value)
	case f.Set:
		return head + m.theme.DraftValue.Render(truncateRunes(oneLine(f.Value), maxInt(12, m.width-20)))
	default:
		return head + m.theme.DraftLabel.Render("—")
	}
}

func (m *MainModel) updateChatViewport() {
	if !m.ready {
		return
	}
	width := m.computeLayout().ChatW - 6
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for _, msg := range m.session.Messages() {
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n\n")
	}
	m.chatVP.SetContent(strings.TrimRight(b.String(), "\n"))
	m.chatVP.GotoBottom()
}

func (m *MainModel) renderMessage(msg conversation.Message, width int) string {
	var roleStyle lipgloss.Style
	label := "BOT"
	if msg.Sender == conversation.SenderUser {
		roleStyle = m.theme.RoleYou
		label = "YOU"
	} else {
		roleStyle = m.theme.RoleBot
	}

	header := roleStyle.Render(label) + " " + m.theme.TopBarMeta.Render(msg.Timestamp.Format("15:04"))
	if msg.DetectedLanguage != "" {
		header += " " + m.theme.LangTag.Render("["+msg.DetectedLanguage+"]")
	}

	body := lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(msg.Text)
	if msg.Summary != "" {
		body += "\n" + m.theme.DraftLabel.Render("tl;dr ") + m.theme.DraftValue.Render(msg.Summary)
	}
	return header + "\n" + body
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-1]) + "…"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
