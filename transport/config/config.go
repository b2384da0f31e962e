// Package config defines the CLI structure and configuration for
// proconbridged, following the same alecthomas/kong-based layout as
// VIIPER's internal/config package: an embedded Log group plus one
// subcommand per transport.
package config

import (
	"crypto/rand"
	"fmt"

	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/dio-wtf/proconbridge/procon"
	"github.com/dio-wtf/proconbridge/transport/wired"
	"github.com/dio-wtf/proconbridge/transport/wireless"
)

// Log mirrors VIIPER's internal/config.Log group: one kong-tagged struct
// embedded into the root CLI so every subcommand shares the same
// --log.level flag.
type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PROCONBRIDGE_LOG_LEVEL"`
}

// CLI is the root command structure parsed by kong.Parse in
// cmd/proconbridged.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Wireless WirelessCmd `cmd:"" help:"Emulate a Pro Controller over Bluetooth Classic HID"`
	Wired    WiredCmd    `cmd:"" help:"Emulate a Pro Controller over a USB HID gadget device"`
}

// WirelessCmd starts the Bluetooth transport.
type WirelessCmd struct {
	MAC string `help:"MAC address to report to the host; a random one is generated if omitted"`
}

// Run builds an emulator and the wireless transport and blocks serving it.
func (c *WirelessCmd) Run(cli *CLI) error {
	if err := logging.SetLevel(cli.Log.Level); err != nil {
		return fmt.Errorf("config: invalid log level: %w", err)
	}

	mac, err := resolveMAC(c.MAC)
	if err != nil {
		return err
	}

	emulator := procon.NewEmulator(mac, procon.DefaultSource)
	server, err := wireless.NewServer(emulator)
	if err != nil {
		return fmt.Errorf("config: wireless setup: %w", err)
	}
	logging.Infof("starting wireless transport, mac=%x", mac)
	return server.Run()
}

// WiredCmd starts the USB HID gadget transport.
type WiredCmd struct {
	MAC        string `help:"MAC address to report in device info replies; a random one is generated if omitted"`
	GadgetPath string `help:"Path to the HID gadget character device" default:"/dev/hidg0"`
}

// Run builds an emulator and the wired transport and blocks serving it.
func (c *WiredCmd) Run(cli *CLI) error {
	if err := logging.SetLevel(cli.Log.Level); err != nil {
		return fmt.Errorf("config: invalid log level: %w", err)
	}

	mac, err := resolveMAC(c.MAC)
	if err != nil {
		return err
	}

	emulator := procon.NewEmulator(mac, procon.DefaultSource)
	server := wired.NewServer(c.GadgetPath, emulator)
	logging.Infof("starting wired transport on %s, mac=%x", c.GadgetPath, mac)
	return server.Run()
}

func resolveMAC(s string) ([6]byte, error) {
	var mac [6]byte
	if s == "" {
		if _, err := rand.Read(mac[:]); err != nil {
			return mac, fmt.Errorf("config: generating random mac: %w", err)
		}
		mac[0] &^= 0x01 // clear multicast bit so the address looks like a real adapter's
		return mac, nil
	}
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&mac[0], &mac[1], &mac[2], &mac[3], &mac[4], &mac[5])
	if err != nil || n != 6 {
		return mac, fmt.Errorf("config: invalid mac address %q", s)
	}
	return mac, nil
}
