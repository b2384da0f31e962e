// Command proconmonitor runs an emulated Pro Controller in-process and
// renders its live session state to a terminal dashboard, for developers
// debugging the subcommand protocol without a real console attached.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/dio-wtf/proconbridge/procon"
	"github.com/dio-wtf/proconbridge/transport/wireless"
)

func main() {
	mac := [6]byte{0x94, 0x58, 0xCB, 0x00, 0x00, 0x01}
	emulator := procon.NewEmulator(mac, procon.DefaultSource)

	server, err := wireless.NewServer(emulator)
	if err != nil {
		logging.Fatalf("proconmonitor: %v", err)
	}
	go func() {
		if err := server.Run(); err != nil {
			logging.Errorf("proconmonitor: transport stopped: %v", err)
		}
	}()

	p := tea.NewProgram(newModel(emulator))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "proconmonitor:", err)
		os.Exit(1)
	}
}

type tickMsg time.Time

type model struct {
	emulator *procon.Emulator
	status   procon.Status
}

func newModel(emulator *procon.Emulator) model {
	return model{emulator: emulator, status: emulator.Status()}
}

func (m model) Init() tea.Cmd {
	return pollStatus()
}

func pollStatus() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		m.status = m.emulator.Status()
		return m, pollStatus()
	}
	return m, nil
}

func (m model) View() string {
	s := m.status
	return fmt.Sprintf(
		"proconmonitor — %s\n\n"+
			"report mode:   0x%02X\n"+
			"counter:       %d\n"+
			"imu enabled:   %v\n"+
			"vibration:     %v\n"+
			"player number: %d\n"+
			"battery:       %d%% (charging=%v)\n\n"+
			"press q to quit\n",
		s.Identity.String(),
		uint8(s.ReportMode),
		s.Counter,
		s.ImuEnabled,
		s.VibrationEnabled,
		s.PlayerNumber,
		s.BatteryLevel,
		s.Charging,
	)
}
