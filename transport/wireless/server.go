package wireless

import (
	_ "embed"
	"time"

	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/dio-wtf/proconbridge/procon"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"golang.org/x/sys/unix"
)

//go:embed sdp/controller.xml
var sdpRecord string

const (
	hidProfilePath = "/proconbridge/controller"
	deviceAlias    = "Pro Controller"

	// disconnectStrikes is how many consecutive drop/reconnect cycles from
	// the same peer BlueZ tolerates before the server evicts the bonding,
	// grounded on joycontrol/server.go's watchConnReset threshold of 2.
	disconnectStrikes = 2
)

// Server bridges one attached emulator to a Bluetooth Classic HID
// connection. Grounded on joycontrol/server.go, generalized from a
// single-shot Setup/Connect pair into a reconnect-tolerant loop and wired
// to procon.Emulator instead of joycontrol's own Protocol type.
type Server struct {
	adapter  *Adapter
	emulator *procon.Emulator

	needWatch bool
}

// NewServer builds a wireless transport for emulator, backed by the first
// local Bluetooth adapter BlueZ reports.
func NewServer(emulator *procon.Emulator) (*Server, error) {
	a, err := NewAdapter()
	if err != nil {
		return nil, err
	}
	return &Server{adapter: a, emulator: emulator}, nil
}

// Run configures the adapter for discovery, accepts one host connection,
// and pumps reports until the connection drops, then loops to accept the
// next one. It blocks; callers run it in its own goroutine.
func (s *Server) Run() error {
	if err := EnsureCompatMode(true); err != nil {
		logging.Errorf("wireless: bluetoothd compat mode: %v", err)
	}
	if err := s.setup(); err != nil {
		return err
	}
	for {
		itr, ctrl, err := s.accept()
		if err != nil {
			logging.Errorf("wireless: accept failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		s.serveConnection(itr, ctrl)
	}
}

func (s *Server) setup() error {
	if err := s.adapter.SetPowered(true); err != nil {
		logging.Errorf("set powered: %v", err)
	}
	if err := s.adapter.SetPairable(true); err != nil {
		logging.Errorf("set pairable: %v", err)
	}
	if err := s.adapter.SetPairableTimeout(0); err != nil {
		logging.Errorf("set pairable timeout: %v", err)
	}
	if err := s.adapter.SetDiscoverableTimeout(180); err != nil {
		logging.Errorf("set discoverable timeout: %v", err)
	}
	if err := s.adapter.SetAlias(deviceAlias); err != nil {
		logging.Errorf("set alias: %v", err)
	}

	options := map[string]interface{}{
		"ServiceRecord":         sdpRecord,
		"Role":                  "server",
		"RequireAuthentication": false,
		"RequireAuthorization":  false,
		"AutoConnect":           true,
	}
	return s.adapter.RegisterProfile(hidProfilePath, uuid.NewString(), options)
}

// accept opens the control and interrupt L2CAP sockets, advertises
// discoverability, and blocks until a host connects to both.
func (s *Server) accept() (itr, ctrl int, err error) {
	addr, err := s.adapter.GetAddress()
	if err != nil {
		return 0, 0, err
	}

	ctrlSock, err := listenL2CAP(addr, psmControl)
	if err != nil {
		return 0, 0, err
	}
	itrSock, err := listenL2CAP(addr, psmInterrupt)
	if err != nil {
		return 0, 0, err
	}

	s.adapter.SetDiscoverable(true)
	s.adapter.SetClass(GamepadClass)

	s.needWatch = true
	go s.watchConnReset()

	itr, itrAddr, err := unix.Accept(itrSock)
	if err != nil {
		return 0, 0, err
	}
	logging.Debugf("accepted interrupt channel from %v", itrAddr)
	ctrl, ctrlAddr, err := unix.Accept(ctrlSock)
	if err != nil {
		return 0, 0, err
	}
	logging.Debugf("accepted control channel from %v", ctrlAddr)

	s.needWatch = false
	s.adapter.SetDiscoverable(false)
	s.adapter.SetPairable(false)

	return itr, ctrl, nil
}

// serveConnection pumps the emulator's attach report and periodic ticks
// out over the interrupt channel while draining host output reports on
// the same channel, closing both sockets on any I/O error.
func (s *Server) serveConnection(itr, ctrl int) {
	defer unix.Close(itr)
	defer unix.Close(ctrl)

	_, attachPayload := s.emulator.OnAttach()
	if _, err := unix.Write(itr, attachPayload); err != nil {
		logging.Errorf("wireless: attach write failed: %v", err)
		return
	}

	done := make(chan struct{})
	go s.readLoop(itr, done)

	ticker := time.NewTicker(s.emulator.GetCounterPeriod())
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			report := s.emulator.Tick()
			if _, err := unix.Write(itr, report); err != nil {
				logging.Errorf("wireless: tick write failed: %v", err)
				return
			}
		}
	}
}

func (s *Server) readLoop(itr int, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(itr, buf)
		if err != nil || n == 0 {
			return
		}
		if n < 1 {
			continue
		}
		_, reply := s.emulator.OnHostReport(buf[0], append([]byte(nil), buf[1:n]...))
		if reply == nil {
			continue
		}
		if _, err := unix.Write(itr, reply); err != nil {
			logging.Errorf("wireless: reply write failed: %v", err)
			return
		}
	}
}

// watchConnReset mirrors joycontrol/server.go's disconnect-flap detector:
// a host that connects and disconnects disconnectStrikes times in a row is
// treated as stuck and its bonding is removed so the next pairing attempt
// starts clean.
func (s *Server) watchConnReset() {
	connected := make(map[string]struct{})
	strikes := make(map[string]int)
	for s.needWatch {
		discoverable, _ := s.adapter.GetDiscoverable()
		if !discoverable {
			logging.Debug("wireless: adapter dropped discoverability, resetting")
			s.adapter.SetPowered(true)
			s.adapter.SetPairable(true)
			s.adapter.SetPairableTimeout(0)
			s.adapter.SetDiscoverable(true)
			s.adapter.SetClass(GamepadClass)
		}

		paths, _ := s.adapter.ConnectedHosts()
		for _, p := range paths {
			connected[p] = struct{}{}
		}

		var dropped []string
		for p := range connected {
			if !slices.Contains(paths, p) {
				dropped = append(dropped, p)
			}
		}
		for _, p := range dropped {
			strikes[p]++
			delete(connected, p)
		}

		for p, n := range strikes {
			if n >= disconnectStrikes {
				logging.Debugf("wireless: host %s flapped %d times, removing bond", p, n)
				if err := s.adapter.RemoveDevice(dbus.ObjectPath(p)); err != nil {
					logging.Debugf("wireless: remove device failed: %v", err)
				}
				strikes[p] = 0
			}
		}

		time.Sleep(500 * time.Millisecond)
	}
}
