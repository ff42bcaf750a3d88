package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/moneybox/internal/aggregate"
	"github.com/jask/moneybox/internal/config"
	"github.com/jask/moneybox/internal/domain"
	"github.com/jask/moneybox/internal/logger"
	"github.com/jask/moneybox/internal/persist"
	"github.com/jask/moneybox/internal/report"
	"github.com/jask/moneybox/internal/store"
)

// App ties together views.
type App struct {
	ctx       context.Context
	finance   *store.TransactionStore
	assistant *store.AssistantStore
	reports   *report.Service
	cfg       config.Config
	log       zerolog.Logger
	tz        *time.Location
	now       func() time.Time
	st        styles

	state          appState
	modal          modalState
	period         domain.Period
	ref            time.Time
	statsType      domain.TransactionType
	cursor         int
	settingsCursor int
	form           addForm
	bubble         string
	status         string
}

type Stores struct {
	Finance   *store.TransactionStore
	Assistant *store.AssistantStore
	Reports   *report.Service
}

type appState string

const (
	viewDashboard  appState = "dashboard"
	viewStatistics appState = "statistics"
	viewSettings   appState = "settings"
)

var tabs = []appState{viewDashboard, viewStatistics, viewSettings}

type modalState string

const (
	modalNone         modalState = ""
	modalAdd          modalState = "add"
	modalConfirmReset modalState = "confirmReset"
)

type settingsItem int

const (
	settingAssistant settingsItem = iota
	settingCurrency
	settingTheme
	settingReset
	settingCount
)

// New builds the UI. It logs through the logger carried by ctx and opens on
// ui.default_period, falling back to month.
func New(ctx context.Context, cfg config.Config, stores Stores, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	log := logger.FromContext(ctx)
	period, err := domain.ParsePeriod(cfg.UI.DefaultPeriod)
	if err != nil {
		period = domain.Month
	}
	return &App{
		ctx:       ctx,
		finance:   stores.Finance,
		assistant: stores.Assistant,
		reports:   stores.Reports,
		cfg:       cfg,
		log:       log.With().Str("component", "tui").Logger(),
		tz:        tz,
		now:       time.Now,
		st:        newStyles(cfg.UI.Theme),
		state:     viewDashboard,
		period:    period,
		statsType: domain.Expense,
	}
}

// persistedMsg reports the outcome of a background write.
type persistedMsg struct {
	action string
	err    error
}

// triggerDoneMsg fires once the assistant's trigger window has passed.
type triggerDoneMsg struct{}

func (a *App) Init() tea.Cmd {
	if a.finance.Settings().ShowAssistant {
		a.bubble = a.assistant.NextGreeting()
		return a.await("greeting", a.assistant.TouchInteraction())
	}
	return nil
}

func (a *App) await(action string, p *persist.Pending) tea.Cmd {
	return func() tea.Msg {
		return persistedMsg{action: action, err: p.Wait(a.ctx)}
	}
}

func (a *App) reference() time.Time {
	if a.ref.IsZero() {
		return a.now().In(a.tz)
	}
	return a.ref
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch a.modal {
		case modalAdd:
			return a.handleFormKey(m)
		case modalConfirmReset:
			return a.handleConfirmKey(m)
		}
		if a.state == viewSettings {
			return a.handleSettingsKey(m)
		}
		return a.handleMainKey(m)
	case persistedMsg:
		if m.err != nil {
			a.log.Warn().Err(m.err).Str("action", m.action).Msg("save failed")
			a.status = "not saved: " + m.err.Error()
		}
	case triggerDoneMsg:
	}
	return a, nil
}

func (a *App) switchTab(delta int) {
	idx := 0
	for i, t := range tabs {
		if t == a.state {
			idx = i
		}
	}
	a.state = tabs[(idx+delta+len(tabs))%len(tabs)]
	a.status = ""
}

func (a *App) handleGlobalKey(m tea.KeyMsg) (tea.Cmd, bool) {
	switch m.String() {
	case "q", "ctrl+c":
		return tea.Quit, true
	case "tab":
		a.switchTab(1)
	case "shift+tab":
		a.switchTab(-1)
	case "1":
		a.state = viewDashboard
	case "2":
		a.state = viewStatistics
	case "3":
		a.state = viewSettings
	default:
		return nil, false
	}
	return nil, true
}

func (a *App) handleMainKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.handleGlobalKey(m); ok {
		return a, cmd
	}
	switch m.String() {
	case "d":
		a.setPeriod(domain.Day)
	case "w":
		a.setPeriod(domain.Week)
	case "m":
		a.setPeriod(domain.Month)
	case "y":
		a.setPeriod(domain.Year)
	case "[":
		a.shift(-1)
	case "]":
		a.shift(1)
	case ".":
		a.ref = time.Time{}
		a.cursor = 0
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.dashboard().Rows)-1 {
			a.cursor++
		}
	case "a":
		a.form = newAddForm()
		a.modal = modalAdd
	case "x":
		return a, a.deleteSelected()
	case "t":
		if a.state == viewStatistics {
			a.statsType = a.statsType.Opposite()
		}
	case " ":
		if a.finance.Settings().ShowAssistant {
			a.bubble = a.assistant.NextTip()
		}
	}
	return a, nil
}

func (a *App) setPeriod(p domain.Period) {
	a.period = p
	a.cursor = 0
}

// shift moves the reference date by one period.
func (a *App) shift(n int) {
	ref := a.reference()
	switch a.period {
	case domain.Week:
		ref = ref.AddDate(0, 0, 7*n)
	case domain.Month:
		r := aggregate.PeriodDates(domain.Month, ref)
		ref = r.Start.AddDate(0, n, 0)
	case domain.Year:
		ref = ref.AddDate(n, 0, 0)
	default:
		ref = ref.AddDate(0, 0, n)
	}
	a.ref = ref
	a.cursor = 0
}

func (a *App) dashboard() report.Dashboard {
	return a.reports.Dashboard(a.period, a.reference())
}

func (a *App) deleteSelected() tea.Cmd {
	rows := a.dashboard().Rows
	if a.state != viewDashboard || len(rows) == 0 {
		return nil
	}
	if a.cursor >= len(rows) {
		a.cursor = len(rows) - 1
	}
	tx := rows[a.cursor].Transaction
	p := a.finance.DeleteTransaction(tx.ID)
	if a.cursor > 0 && a.cursor >= len(rows)-1 {
		a.cursor--
	}
	a.status = "deleted " + aggregate.FormatCurrency(tx.Amount, a.finance.Settings().Currency)
	return a.await("delete", p)
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyCtrlC:
		return a, tea.Quit
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyTab, tea.KeyDown:
		a.form.next()
	case tea.KeyShiftTab, tea.KeyUp:
		a.form.prev()
	case tea.KeyLeft, tea.KeyRight:
		if a.form.focus == fieldType {
			a.form.typ = a.form.typ.Opposite()
		}
	case tea.KeyBackspace:
		a.form.backspace()
	case tea.KeySpace:
		a.form.input(" ")
	case tea.KeyRunes:
		a.form.input(string(m.Runes))
	case tea.KeyEnter:
		return a, a.submitForm()
	}
	return a, nil
}

func (a *App) submitForm() tea.Cmd {
	n, cat, err := a.form.build(a.finance.Categories(), a.now().In(a.tz))
	if err != nil {
		a.form.err = err.Error()
		return nil
	}
	tx, saved := a.finance.AddTransaction(n)
	a.modal = modalNone
	a.ref = time.Time{}
	a.status = fmt.Sprintf("added %s %s", cat.Name, aggregate.FormatCurrency(tx.Amount, a.finance.Settings().Currency))
	a.log.Debug().Str("id", tx.ID).Str("category", cat.ID).Msg("transaction added")

	cmds := []tea.Cmd{a.await("add", saved)}
	if a.finance.Settings().ShowAssistant {
		cmds = append(cmds, a.await("trigger", a.assistant.TriggerForTransaction()))
		if msg, ok := a.assistant.ReactToLatest(a.finance.Transactions()); ok {
			a.bubble = msg
		}
		cmds = append(cmds, tea.Tick(a.cfg.Assistant.TriggerWindow, func(time.Time) tea.Msg { return triggerDoneMsg{} }))
	}
	return tea.Batch(cmds...)
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := a.handleGlobalKey(m); ok {
		return a, cmd
	}
	switch m.String() {
	case "up", "k":
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case "down", "j":
		if a.settingsCursor < int(settingCount)-1 {
			a.settingsCursor++
		}
	case "enter", " ":
		return a, a.activateSetting(settingsItem(a.settingsCursor))
	}
	return a, nil
}

func (a *App) activateSetting(item settingsItem) tea.Cmd {
	settings := a.finance.Settings()
	switch item {
	case settingAssistant:
		show := !settings.ShowAssistant
		if !show {
			a.bubble = ""
		}
		return a.await("settings", a.finance.UpdateSettings(domain.SettingsPatch{ShowAssistant: &show}))
	case settingCurrency:
		next := domain.NextCurrency(settings.Currency)
		return a.await("settings", a.finance.UpdateSettings(domain.SettingsPatch{Currency: &next}))
	case settingTheme:
		if a.cfg.UI.Theme == "light" {
			a.cfg.UI.Theme = "dark"
		} else {
			a.cfg.UI.Theme = "light"
		}
		a.st = newStyles(a.cfg.UI.Theme)
		if err := config.Save(a.cfg); err != nil {
			a.status = "theme not saved: " + err.Error()
		}
	case settingReset:
		a.modal = modalConfirmReset
	}
	return nil
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "Y":
		a.modal = modalNone
		a.cursor = 0
		a.ref = time.Time{}
		a.bubble = ""
		a.status = "all data reset"
		a.reports.Purge()
		return a, tea.Batch(a.await("reset", a.finance.Reset()), a.await("reset", a.assistant.Reset()))
	case "ctrl+c":
		return a, tea.Quit
	default:
		a.modal = modalNone
		a.status = "reset cancelled"
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewStatistics:
		body = a.renderStatistics()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	parts := []string{a.renderTabs(), body}
	if a.modal != modalNone {
		parts = append(parts, a.renderModal())
	}
	if a.bubble != "" && a.finance.Settings().ShowAssistant {
		parts = append(parts, a.renderBubble())
	}
	if a.status != "" {
		parts = append(parts, a.st.muted.Render(a.status))
	}
	return strings.Join(parts, "\n\n")
}

func (a *App) renderTabs() string {
	var out []string
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(string(t[:1]))+string(t[1:]))
		if t == a.state {
			out = append(out, a.st.tabOn.Render(label))
		} else {
			out = append(out, a.st.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (a *App) periodHeader() string {
	var opts []string
	for _, p := range domain.Periods {
		key := strings.ToLower(p.Label[:1])
		if p.Value == a.period {
			opts = append(opts, a.st.selected.Render("["+key+"] "+p.Label))
		} else {
			opts = append(opts, a.st.muted.Render("["+key+"] "+p.Label))
		}
	}
	label := aggregate.FormatPeriodLabel(a.period, a.reference(), a.cfg.UI.DateFormat)
	return a.st.title.Render(label) + "\n" + strings.Join(opts, "  ")
}

func (a *App) renderDashboard() string {
	currency := a.finance.Settings().Currency
	view := a.dashboard()
	var b strings.Builder
	b.WriteString(a.periodHeader())
	b.WriteString("\n\n")
	balance := aggregate.FormatCurrency(view.Balance, currency)
	if view.Balance.IsNegative() {
		balance = a.st.expense.Render("-" + balance)
	}
	fmt.Fprintf(&b, "Balance: %s\n", balance)
	fmt.Fprintf(&b, "Income:  %s   Expense: %s\n\n",
		a.st.income.Render(aggregate.FormatCurrency(view.Income, currency)),
		a.st.expense.Render(aggregate.FormatCurrency(view.Expense, currency)))

	if len(view.Rows) == 0 {
		b.WriteString(a.st.muted.Render("No transactions in this period. Press [a] to add one."))
	}
	for i, r := range view.Rows {
		marker := " "
		if i == a.cursor {
			marker = "▶"
		}
		amount := aggregate.FormatCurrency(r.Transaction.Amount, currency)
		if r.Transaction.Type == domain.Income {
			amount = a.st.income.Render("+" + amount)
		} else {
			amount = a.st.expense.Render("-" + amount)
		}
		line := fmt.Sprintf("%s %s %s %-14s %-12s %s", marker, swatch(r.Category.Color), r.Category.Emoji, r.Category.Name,
			r.Transaction.Date.In(a.tz).Format(a.cfg.UI.DateFormat), amount)
		if r.Transaction.Note != "" {
			line += "  " + a.st.muted.Render(r.Transaction.Note)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + a.st.muted.Render("[a] Add  [x] Delete  [ / ] Prev/next  [.] Today  [space] Tip  [q] Quit"))
	return b.String()
}

func (a *App) renderStatistics() string {
	currency := a.finance.Settings().Currency
	view := a.reports.Statistics(a.period, a.reference(), a.statsType)
	var b strings.Builder
	b.WriteString(a.periodHeader())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Income: %s   Expense: %s\n",
		a.st.income.Render(aggregate.FormatCurrency(view.Income, currency)),
		a.st.expense.Render(aggregate.FormatCurrency(view.Expense, currency)))
	fmt.Fprintf(&b, "By category (%s):\n", view.Type)
	if len(view.Summary) == 0 {
		b.WriteString(a.st.muted.Render("Nothing to show for this period.") + "\n")
	}
	for _, s := range view.Summary {
		bar := strings.Repeat("█", int(s.Percentage/5+0.5))
		fmt.Fprintf(&b, "%s %s %-14s %10s %5.1f%% %s\n", swatch(s.Category.Color), s.Category.Emoji, s.Category.Name,
			aggregate.FormatCurrency(s.Amount, currency), s.Percentage,
			lipgloss.NewStyle().Foreground(lipgloss.Color(s.Category.Color)).Render(bar))
	}
	b.WriteString("\n" + a.st.muted.Render("[t] Income/Expense  [d/w/m/y] Period  [ / ] Prev/next  [q] Quit"))
	return b.String()
}

func (a *App) renderSettings() string {
	settings := a.finance.Settings()
	onOff := map[bool]string{true: "on", false: "off"}
	items := []string{
		fmt.Sprintf("Assistant: %s", onOff[settings.ShowAssistant]),
		fmt.Sprintf("Currency:  %s", settings.Currency),
		fmt.Sprintf("Theme:     %s", a.cfg.UI.Theme),
		"Reset all data",
	}
	var b strings.Builder
	b.WriteString(a.st.title.Render("Settings") + "\n\n")
	for i, item := range items {
		if i == a.settingsCursor {
			b.WriteString(a.st.selected.Render("▶ "+item) + "\n")
		} else {
			b.WriteString("  " + item + "\n")
		}
	}
	b.WriteString("\n" + a.st.muted.Render("[enter] Change  [j/k] Move  [q] Quit"))
	return b.String()
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmReset:
		return a.st.errText.Render("Delete every transaction and restore default categories? [y/N]")
	case modalAdd:
		return a.renderForm()
	}
	return ""
}

func (a *App) renderForm() string {
	f := a.form
	fields := []struct {
		label string
		value string
	}{
		{"Amount", f.amount},
		{"Type", string(f.typ)},
		{"Category", f.category},
		{"Note", f.note},
	}
	var b strings.Builder
	b.WriteString(a.st.title.Render("New transaction") + "\n")
	for i, fl := range fields {
		line := fmt.Sprintf("%-9s %s", fl.label+":", fl.value)
		if formField(i) == f.focus {
			b.WriteString(a.st.selected.Render("▶ "+line+"_") + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if f.focus == fieldCategory {
		names := suggestions(f.category, categoriesOfType(a.finance.Categories(), f.typ))
		b.WriteString(a.st.muted.Render("  "+strings.Join(names, ", ")) + "\n")
	}
	if f.err != "" {
		b.WriteString(a.st.errText.Render(f.err) + "\n")
	}
	b.WriteString(a.st.muted.Render("[tab] Next field  [←/→] Type  [enter] Save  [esc] Cancel"))
	return b.String()
}

func (a *App) renderBubble() string {
	style := a.st.bubble
	if a.assistant.ShowForTransaction() {
		style = style.BorderStyle(lipgloss.DoubleBorder())
	}
	return style.Render("🐶 Baxik: " + a.bubble)
}
