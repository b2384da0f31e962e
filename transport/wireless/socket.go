package wireless

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// L2CAP PSMs for the HID profile's two channels.
const (
	psmControl   = 17
	psmInterrupt = 19
)

var errInvalidMAC = errors.New("wireless: invalid bluetooth address")

// listenL2CAP opens a listening L2CAP socket bound to addr on the given
// PSM, grounded on joysticker/sock.go's SetupSocket.
func listenL2CAP(addr string, psm uint16) (fd int, err error) {
	fd, err = unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return 0, fmt.Errorf("wireless: socket: %w", err)
	}
	if err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return 0, fmt.Errorf("wireless: setsockopt: %w", err)
	}

	sa, err := l2capSockaddr(addr, psm)
	if err != nil {
		return 0, err
	}
	if err = unix.Bind(fd, sa); err != nil {
		return 0, fmt.Errorf("wireless: bind: %w", err)
	}
	if err = unix.Listen(fd, 1); err != nil {
		return 0, fmt.Errorf("wireless: listen: %w", err)
	}
	return fd, nil
}

func l2capSockaddr(addr string, psm uint16) (unix.Sockaddr, error) {
	hwAddr, err := net.ParseMAC(addr)
	if err != nil || len(hwAddr) != 6 {
		return nil, errInvalidMAC
	}
	var b [6]byte
	copy(b[:], hwAddr)
	return &unix.SockaddrL2{
		PSM:      psm,
		Addr:     b,
		AddrType: unix.BDADDR_BREDR,
	}, nil
}
