package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/tpb-search/internal/config"
	"github.com/litescript/tpb-search/internal/qbit"
	"github.com/litescript/tpb-search/internal/scraper"
	"github.com/litescript/tpb-search/internal/theme"
	"github.com/litescript/tpb-search/internal/tui"
)

func runTUI(cfg config.Config, plugin *scraper.TPB) error {
	theme.Refresh()

	client := qbit.NewClient(
		cfg.QBittorrent.Host,
		cfg.QBittorrent.Port,
		cfg.QBittorrent.Username,
		cfg.QBittorrent.Password,
	)

	p := tea.NewProgram(tui.NewModel(cfg, plugin, client), tea.WithAltScreen())

	// Theme watching is best effort
	if w, err := theme.NewWatcher(func() { p.Send(tui.ThemeChangedMsg{}) }); err == nil {
		defer w.Stop()
	}

	_, err := p.Run()
	return err
}
