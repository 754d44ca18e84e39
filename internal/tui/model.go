package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questvault/internal/engine"
	"questvault/internal/storage"
	"questvault/internal/ui"
)

const escrowPageSize = 10

// source is the slice of the engine the board reads from.
type source interface {
	ListQuests(ctx context.Context) ([]storage.Quest, error)
	ListOutbox(ctx context.Context, status storage.OutboxStatus) ([]storage.OutboxEntry, error)
	GetStakedAssetsCount(ctx context.Context, cred engine.ViewingCredential) (int, error)
	GetStakedAssetsPage(ctx context.Context, cred engine.ViewingCredential, page, size int) ([]storage.StakedAsset, error)
}

type boardModel struct {
	ctx  context.Context
	src  source
	cred engine.ViewingCredential
	now  func() time.Time

	width  int
	height int

	quests   []storage.Quest
	queued   int
	staked   int
	escrow   []storage.StakedAsset
	page     int
	escrowOK bool

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	quests   []storage.Quest
	queued   int
	staked   int
	escrow   []storage.StakedAsset
	escrowOK bool
	err      error
}

func newBoardModel(ctx context.Context, src source, cred engine.ViewingCredential, now func() time.Time) boardModel {
	if now == nil {
		now = time.Now
	}
	return boardModel{
		ctx:     ctx,
		src:     src,
		cred:    cred,
		now:     now,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	page := m.page
	return func() tea.Msg {
		quests, err := m.src.ListQuests(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		queued, err := m.src.ListOutbox(m.ctx, storage.OutboxQueued)
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{quests: quests, queued: len(queued)}
		if m.cred.Address == "" {
			return msg
		}
		// A rejected credential only locks the escrow panel.
		n, err := m.src.GetStakedAssetsCount(m.ctx, m.cred)
		if err != nil {
			return msg
		}
		assets, err := m.src.GetStakedAssetsPage(m.ctx, m.cred, page, escrowPageSize)
		if err != nil {
			return msg
		}
		msg.staked, msg.escrow, msg.escrowOK = n, assets, true
		return msg
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.quests = msg.quests
		m.queued = msg.queued
		m.staked = msg.staked
		m.escrow = msg.escrow
		m.escrowOK = msg.escrowOK
		if m.selected >= len(m.quests) {
			m.selected = max(len(m.quests)-1, 0)
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.quests)-1 {
				m.selected++
			}
			return m, nil
		case "n", "right":
			if !m.escrowOK || (m.page+1)*escrowPageSize >= m.staked {
				return m, nil
			}
			m.page++
			m.loading = true
			return m, m.loadCmd()
		case "p", "left":
			if m.page == 0 {
				return m, nil
			}
			m.page--
			m.loading = true
			return m, m.loadCmd()
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 40
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.loading && m.quests == nil {
		return "Questvault — loading…"
	}
	escrow := "locked"
	if m.escrowOK {
		escrow = fmt.Sprintf("%d staked", m.staked)
	}
	return fmt.Sprintf("Questvault | %d quests | escrow %s | %d effects queued", len(m.quests), escrow, m.queued)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Quests"}
	if len(m.quests) == 0 {
		lines = append(lines, "(none)")
	}
	now := m.now().Unix()
	for i, q := range m.quests {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		lines = append(lines, fmt.Sprintf("%s#%d %s %s", cursor, q.ID, q.Title, phase(q, now)))
	}
	lines = append(lines, "", "Keys",
		"- ↑/↓ or j/k: select quest",
		"- n/p: escrow page",
		"- r: refresh",
		"- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	if m.selected < len(m.quests) {
		q := m.quests[m.selected]
		now := m.now().Unix()
		out = append(out,
			fmt.Sprintf("Quest #%d: %s", q.ID, q.Title),
			fmt.Sprintf("Join window %s", progressBar(now-q.StartTime, q.JoinWindow, 20)),
			fmt.Sprintf("Assets %d | staking %ds | xp +%d", q.RequiredAssets, q.StakingDuration, q.XPReward),
			fmt.Sprintf("Reward %d (+%d bonus) | participants %d", q.BaseReward, q.BonusReward, q.Participants),
		)
		for _, t := range q.BonusTraits {
			out = append(out, fmt.Sprintf("  bonus: %s=%s", t.Category, t.Value))
		}
		out = append(out, "")
	}

	out = append(out, "Escrow")
	switch {
	case !m.escrowOK:
		out = append(out, "(admin viewing key required)")
	case len(m.escrow) == 0:
		out = append(out, "(empty)")
	default:
		for _, a := range m.escrow {
			out = append(out, fmt.Sprintf("- %s owner=%s quest=%d", a.AssetID, a.Owner, a.QuestID))
		}
		pages := (m.staked + escrowPageSize - 1) / escrowPageSize
		out = append(out, fmt.Sprintf("page %d/%d", m.page+1, pages))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func phase(q storage.Quest, now int64) string {
	return ui.QuestPhase(q.StartTime, q.JoinWindow, now)
}

func progressBar(value int64, total int64, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
