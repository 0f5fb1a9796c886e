package board

import (
	"errors"
	"io"

	"github.com/bnema/frontdesk/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	board  application.Board
	opts   RenderOptions
	styles styles
	output string
}

func newModel(board application.Board, opts RenderOptions) model {
	return model{
		board:  board,
		opts:   opts.withDefaults(),
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.board, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render lays out one snapshot of the desk. The bubbletea program runs
// headless and exits after the first frame.
func Render(board application.Board, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(board, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
