// Package wireless implements the Bluetooth Classic HID transport: it
// registers the emulated controller as a BlueZ HID peripheral and pumps
// bytes between the L2CAP interrupt channel and a procon.Emulator (the
// control channel is accepted but not read or written).
package wireless

import (
	"strings"

	"github.com/dio-wtf/proconbridge/internal/logging"
	"github.com/godbus/dbus/v5"
	"github.com/muka/go-bluetooth/bluez"
	"github.com/muka/go-bluetooth/bluez/profile/adapter"
	"github.com/muka/go-bluetooth/bluez/profile/device"
	"github.com/muka/go-bluetooth/bluez/profile/profile"
	"github.com/muka/go-bluetooth/hw/linux/cmd"
)

// GamepadClass is the CoD (Class of Device) value a peripheral gamepad
// advertises, grounded on joycontrol/server.go's GAMEPAD_CLASS constant.
const GamepadClass = "0x002508"

// Adapter wraps the local Bluetooth controller's D-Bus object, adding the
// device-management helpers the wireless server needs on top of
// muka/go-bluetooth's generated Adapter1 bindings.
//
// Grounded on joysticker/device.go's Device type, which is the only
// concrete implementation of the *Device joycontrol/server.go itself
// depends on but never defines in this codebase's own joycontrol package.
type Adapter struct {
	*adapter.Adapter1
	objectPath string
	adapterID  string
}

// NewAdapter finds the first local Bluetooth adapter known to BlueZ and
// wraps it.
func NewAdapter() (*Adapter, error) {
	objects, err := managedObjects()
	if err != nil {
		return nil, err
	}

	var a1 *adapter.Adapter1
	var objectPath string
	for path, ifaces := range objects {
		if _, ok := ifaces[adapter.Adapter1Interface]; ok {
			dev, err := adapter.NewAdapter1(path)
			if err != nil {
				return nil, err
			}
			a1 = dev
			objectPath = string(path)
			break
		}
	}

	parts := strings.Split(objectPath, "/")
	adapterID := parts[len(parts)-1]
	logging.Debugf("using bluetooth adapter at %s", objectPath)
	return &Adapter{Adapter1: a1, objectPath: objectPath, adapterID: adapterID}, nil
}

// SetClass sets the adapter's CoD via hciconfig, since BlueZ does not
// expose this over D-Bus for classic-profile advertisement.
func (a *Adapter) SetClass(class string) error {
	_, err := cmd.Exec("hciconfig", a.adapterID, "class", class)
	return err
}

// RegisterProfile registers a BlueZ HID profile at profilePath, backed by
// the SDP record embedded in this package.
func (a *Adapter) RegisterProfile(profilePath, uuid string, options map[string]interface{}) error {
	mgr, err := profile.NewProfileManager1()
	if err != nil {
		return err
	}
	return mgr.RegisterProfile(dbus.ObjectPath(profilePath), uuid, options)
}

// ConnectedHosts returns the D-Bus object paths of every currently
// connected remote device, regardless of name, so the wireless server can
// evict flapping connections.
func (a *Adapter) ConnectedHosts() ([]string, error) {
	objects, err := managedObjects()
	if err != nil {
		return nil, err
	}
	var paths []string
	for path, ifaces := range objects {
		iface, ok := ifaces[device.Device1Interface]
		if !ok {
			continue
		}
		props := new(device.Device1Properties)
		props, err = props.FromDBusMap(iface)
		if err != nil {
			return nil, err
		}
		if props.Connected {
			paths = append(paths, string(path))
		}
	}
	return paths, nil
}

func managedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, error) {
	om, err := bluez.GetObjectManager()
	if err != nil {
		return nil, err
	}
	return om.GetManagedObjects()
}
