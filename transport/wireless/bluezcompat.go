package wireless

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/muka/go-bluetooth/hw/linux/cmd"
)

// Modern BlueZ disables the legacy SDP/HID plugins by default; registering
// a classic HID profile needs bluetoothd started with --compat
// --noplugin=* instead. Grounded on joycontrol/setting.go's
// toggleCleanBluez, adapted to return an error instead of only logging one
// and to use the shared logging package.
const (
	bluetoothServicePath = "/lib/systemd/system/bluetooth.service"
	overrideDir          = "/run/systemd/system/bluetooth.service.d"
	overridePath         = overrideDir + "/proconbridge.conf"
)

// EnsureCompatMode installs (enable=true) or removes (enable=false) a
// systemd override that runs bluetoothd in compat mode, then reloads and
// restarts the service. It is a no-op outside a systemd-managed host.
func EnsureCompatMode(enable bool) error {
	out, err := cmd.Exec("ps", "--no-headers", "-o", "comm", "1")
	if err != nil || strings.TrimSpace(out) != "systemd" {
		return nil
	}

	if enable {
		if err := installOverride(); err != nil {
			return err
		}
	} else {
		os.Remove(overridePath)
		logging.Debug("wireless: removed bluetoothd compat override")
	}

	if _, err := cmd.Exec("systemctl", "daemon-reload"); err != nil {
		return err
	}
	if _, err := cmd.Exec("systemctl", "restart", "bluetooth"); err != nil {
		return err
	}
	logging.Debug("wireless: bluetoothd reloaded")
	return nil
}

func installOverride() error {
	if _, err := os.Stat(overridePath); err == nil {
		return nil // already installed
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	file, err := os.Open(bluetoothServicePath)
	if err != nil {
		return err
	}
	defer file.Close()

	execStart := ""
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "ExecStart=") {
			execStart = strings.TrimSpace(scanner.Text()) + " --compat --noplugin=*"
		}
	}
	if execStart == "" {
		return errors.New("wireless: no ExecStart line found in bluetooth.service")
	}

	override := "[Service]\nExecStart=\n" + execStart
	if err := os.MkdirAll(overrideDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(overridePath, []byte(override), 0o644); err != nil {
		return err
	}
	logging.Debug("wireless: installed bluetoothd compat override")
	return nil
}
