// Package wired implements the USB HID gadget transport: it drives a
// Linux configfs HID gadget character device (/dev/hidgN) instead of a
// Bluetooth L2CAP socket, for hosts that only accept a wired Pro
// Controller.
//
// Grounded on other_examples/lmLumos-nscon__bluetooth_main.go's
// /dev/hidg0 write target and joysticker's accept/dispatch loop shape
// (joysticker/server.go), adapted from a socket accept loop to a
// character-device read/write loop since a gadget device has no notion of
// "accepting a connection" — the host attaches at the USB level instead.
package wired

import (
	"fmt"
	"os"
	"time"

	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/dio-wtf/proconbridge/procon"
)

// DefaultGadgetPath is the conventional path udev assigns the first
// configured HID gadget function.
const DefaultGadgetPath = "/dev/hidg0"

// Server bridges one attached emulator to a USB HID gadget device.
type Server struct {
	path     string
	emulator *procon.Emulator
}

// NewServer builds a wired transport that will open path (typically
// DefaultGadgetPath) once Run is called.
func NewServer(path string, emulator *procon.Emulator) *Server {
	if path == "" {
		path = DefaultGadgetPath
	}
	return &Server{path: path, emulator: emulator}
}

// Run opens the gadget device and pumps reports until the device is
// closed out from under it (the host detaches, or the gadget function is
// torn down), then returns an error. Callers that want reconnect-on-detach
// behavior should loop on Run themselves, mirroring how the wireless
// transport loops on accept().
func (s *Server) Run() error {
	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("wired: open %s: %w", s.path, err)
	}
	defer f.Close()

	_, attachPayload := s.emulator.OnAttach()
	if _, err := f.Write(attachPayload); err != nil {
		return fmt.Errorf("wired: attach write: %w", err)
	}

	done := make(chan error, 1)
	go s.readLoop(f, done)

	ticker := time.NewTicker(s.emulator.GetCounterPeriod())
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-ticker.C:
			report := s.emulator.Tick()
			if _, err := f.Write(report); err != nil {
				return fmt.Errorf("wired: tick write: %w", err)
			}
		}
	}
}

func (s *Server) readLoop(f *os.File, done chan<- error) {
	buf := make([]byte, 64)
	for {
		n, err := f.Read(buf)
		if err != nil {
			done <- err
			return
		}
		if n < 1 {
			continue
		}
		_, reply := s.emulator.OnHostReport(buf[0], append([]byte(nil), buf[1:n]...))
		if reply == nil {
			continue
		}
		if _, err := f.Write(reply); err != nil {
			logging.Errorf("wired: reply write failed: %v", err)
			done <- err
			return
		}
	}
}
