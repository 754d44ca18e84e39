package tui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questvault/internal/engine"
)

// RunBoard opens the dashboard. cred is optional; without an admin
// credential the escrow panel stays locked.
func RunBoard(ctx context.Context, svc *engine.Service, cred engine.ViewingCredential, now func() time.Time, out io.Writer) error {
	m := newBoardModel(ctx, svc, cred, now)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
