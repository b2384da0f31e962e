package procon

import (
	"sync"
	"time"
)

// Init/handshake channel commands, sent on channel 0x80 before the host
// ever asks for a subcommand. Grounded on switch_pro.cpp's on_hid_report
// HOST_INIT_REPORT branch.
const (
	initCommandDeviceInfo  uint8 = 0x01
	initCommandHandshake   uint8 = 0x02
	initCommandSetBaudRate uint8 = 0x03
	initCommandEnableUsb   uint8 = 0x04
	initCommandEnableBt    uint8 = 0x05

	deviceInitReportID uint8 = 0x81

	// subcommandReplyReportID is the fixed report id every subcommand reply
	// carries, per protocol.cpp's set_subcommand_reply
	// (input_report_id_ = 0x21) — independent of the periodic ReportMode.
	subcommandReplyReportID uint8 = 0x21

	// deviceInitReportSize is the fixed length of every reply on the
	// init/handshake channel (0x80). switch_pro.cpp's device_init_report_data
	// has no literal bytes available in the retrieved source, so it is
	// reproduced here as a zeroed buffer of a plausible fixed size, the same
	// convention used for hidReportDescriptor below.
	deviceInitReportSize = 12
)

var deviceInitReportData = [deviceInitReportSize]byte{}

// hidReportDescriptor is the fixed USB HID report descriptor the emulator
// advertises. It has no runtime inputs — the original firmware treats it as
// a build-time constant produced by its HID descriptor compiler — so it is
// kept here as data rather than built programmatically. It is a compact
// stand-in, not a byte copy of a real controller's descriptor: it declares
// 48-byte vendor-defined input reports 0x21, 0x30 and 0x81 and output
// reports 0x01 and 0x10, and has no entries for report ids 0x3F or 0x80.
var hidReportDescriptor = []byte{
	0x05, 0x01, 0x09, 0x05, 0xA1, 0x01, 0x06, 0x01, 0xFF, 0x85, 0x21,
	0x09, 0x21, 0x75, 0x08, 0x95, 0x30, 0x81, 0x02, 0x85, 0x30,
	0x09, 0x30, 0x75, 0x08, 0x95, 0x30, 0x81, 0x02, 0x85, 0x81,
	0x09, 0x81, 0x75, 0x08, 0x95, 0x30, 0x81, 0x02, 0x85, 0x01,
	0x09, 0x01, 0x75, 0x08, 0x95, 0x30, 0x91, 0x02, 0x85, 0x10,
	0x09, 0x10, 0x75, 0x08, 0x95, 0x30, 0x91, 0x02, 0xC0,
}

// Emulator is the single top-level object wiring the SPI ROM, subcommand
// responder, input adapter, and report counter into the API a transport
// implementation drives, per spec.md section 6.
type Emulator struct {
	mu sync.Mutex

	identity DeviceIdentity
	spi      *SpiRom
	protocol *Protocol
	adapter  *Adapter
	counter  *Counter

	battery    uint8
	charging   bool
	usbPowered bool
	lastInputs InputSnapshot

	clock func() time.Time
}

// NewEmulator builds a ready-to-attach emulator. macAddr is the Bluetooth
// address reported to the host in the REQUEST_DEVICE_INFO reply; rng is
// nil-safe and defaults to DefaultSource.
func NewEmulator(macAddr [6]byte, rng Source) *Emulator {
	if rng == nil {
		rng = DefaultSource
	}
	identity := newDeviceIdentity(rng)
	spi := NewSpiRom(identity.SerialNumber)
	protocol := NewProtocol(identity, spi, rng, macAddr)

	e := &Emulator{
		identity: identity,
		spi:      spi,
		protocol: protocol,
		counter:  NewCounter(),
		battery:  100,
		usbPowered: true,
		clock:    time.Now,
	}
	e.adapter = NewAdapter(protocol.Session(), e.nowMs)
	return e
}

func (e *Emulator) nowMs() uint32 {
	return uint32(e.clock().UnixMilli())
}

// GetDeviceInfo returns the identity block the emulator was constructed
// with.
func (e *Emulator) GetDeviceInfo() DeviceIdentity {
	return e.identity
}

// GetReportDescriptor returns the fixed HID report descriptor bytes.
func (e *Emulator) GetReportDescriptor() []byte {
	out := make([]byte, len(hidReportDescriptor))
	copy(out, hidReportDescriptor)
	return out
}

// GetInputReportID returns the report ID the next periodic Tick() will use:
// 0x30 for standard/IMU mode, 0x3F for simple mode, matching whatever the
// host last selected via SET_MODE. Subcommand replies from OnHostReport
// always use 0x21 instead, independent of this value.
func (e *Emulator) GetInputReportID() uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reportIDLocked()
}

// GetCounterPeriod returns the interval a transport should wait between
// Tick() calls to match the real controller's report cadence.
func (e *Emulator) GetCounterPeriod() time.Duration {
	return e.counter.Period()
}

// reportIDLocked is GetInputReportID's body for callers that already hold
// e.mu; sync.Mutex is not reentrant, so exported lock-taking methods never
// call each other directly.
func (e *Emulator) reportIDLocked() uint8 {
	return uint8(e.protocol.Session().ReportMode)
}

// Status is a read-only snapshot of emulator state, meant for a monitoring
// UI rather than the protocol itself.
type Status struct {
	ReportMode       InputReportMode
	ImuEnabled       bool
	VibrationEnabled bool
	PlayerNumber     uint8
	BatteryLevel     uint8
	Charging         bool
	Counter          uint8
	Identity         DeviceIdentity
}

// Status returns a snapshot of the emulator's current session state.
func (e *Emulator) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	session := e.protocol.Session()
	return Status{
		ReportMode:       session.ReportMode,
		ImuEnabled:       session.ImuEnabled,
		VibrationEnabled: session.VibrationEnabled,
		PlayerNumber:     session.PlayerNumber,
		BatteryLevel:     e.battery,
		Charging:         e.charging,
		Counter:          e.counter.Value(),
		Identity:         e.identity,
	}
}

// OnAttach returns the very first report the controller sends once a
// transport connection is established: the fixed startup payload,
// mirroring switch_pro.cpp's on_attach returning device_init_report_data.
func (e *Emulator) OnAttach() (reportID uint8, payload []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counter.Start(e.clock())
	out := make([]byte, deviceInitReportSize)
	copy(out, deviceInitReportData[:])
	return deviceInitReportID, out
}

// OnHostReport processes one host-to-controller packet and returns the
// reply frame the transport should send back, if any. A nil reply means
// the packet gets no answer (rumble-only reports, and empty or unrecognized
// init commands) and the controller answers on its own periodic schedule
// instead.
func (e *Emulator) OnHostReport(reportID uint8, data []byte) (replyID uint8, reply []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if reportID == channelInitHandshake {
		return e.handleInit(data)
	}

	packet := append([]byte{reportID}, data...)
	decoded := DecodeOutputReport(packet)
	if decoded.Kind == KindOnlyControllerState {
		return 0, nil
	}

	report := AllocReport()
	defer FreeReport(report)
	e.fillHousekeepingFields(report, false)
	e.protocol.Process(packet, report)
	// Every subcommand reply goes out on report id 0x21, independent of
	// ReportMode: set_subcommand_reply pins input_report_id_ to 0x21 before
	// process_command returns, regardless of what SET_MODE last selected.
	// ReportMode only governs the periodic Tick() path.
	return subcommandReplyReportID, append([]byte(nil), report.Bytes()...)
}

// handleInit answers one channel-0x80 init/handshake command. Every reply
// goes out on DEVICE_INIT_REPORT (0x81) carrying a zeroed fixed-size body
// whose first byte echoes the command, per switch_pro.cpp:102-141.
// INIT_COMMAND_HANDSHAKE is the exception: it overwrites that body with the
// host's own payload (everything after the command byte) instead, per
// std::copy(data+1, data+len, resp.begin()).
func (e *Emulator) handleInit(data []byte) (uint8, []byte) {
	if len(data) == 0 {
		return 0, nil
	}

	resp := make([]byte, deviceInitReportSize)
	copy(resp, deviceInitReportData[:])
	resp[0] = data[0]

	switch data[0] {
	case initCommandDeviceInfo, initCommandSetBaudRate, initCommandEnableBt:
		// resp[0] already carries the command echo; body otherwise stays
		// the fixed zeroed payload.
	case initCommandHandshake:
		copy(resp, data[1:])
	case initCommandEnableUsb:
		e.protocol.Session().HidReady = true
	default:
		return 0, nil
	}

	return deviceInitReportID, resp
}

// SetInputs stores the latest generic gamepad snapshot; the next periodic
// tick (or subcommand reply) will reflect it.
func (e *Emulator) SetInputs(snap InputSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastInputs = snap
}

// SetBatteryLevel updates the reported battery level (0-100) and charging
// state used in every subsequent periodic report.
func (e *Emulator) SetBatteryLevel(level uint8, charging bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if level > 100 {
		level = 100
	}
	e.battery = level
	e.charging = charging
}

// Tick produces the next periodic input report using the counter's
// free-running cadence and the most recent input snapshot.
func (e *Emulator) Tick() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := AllocReport()
	defer FreeReport(report)
	e.fillHousekeepingFields(report, true)

	// set_full_input_report attaches IMU samples to the standard (0x30)
	// report, not the NFC/IR (0x31) one.
	if e.protocol.Session().ImuEnabled && e.protocol.Session().ReportMode == InputReportModeStandard {
		report.SetImuData([36]byte{})
	}

	return append([]byte(nil), report.Bytes()...)
}

// fillHousekeepingFields writes the counter/battery/buttons/sticks/vibrator
// prelude every report carries, mirroring protocol.cpp's
// set_standard_input_report. advanceCounter distinguishes the two callers:
// Tick() owns the free-running counter and must advance it once per period;
// OnHostReport only reads the counter's current value, since a subcommand
// exchange does not represent a tick of its own (protocol.cpp reads
// input_report_.get_counter() rather than advancing it before replying).
//
// set_standard_input_report also leaves bytes [1..11] at their startup-zero
// value while hid_ready is still false; this emulator always fills them
// instead, since gating on HidReady here would leave a freshly attached
// controller's very first Tick() reporting a dead battery/centered-only
// state with no subcommand exchange required to unstick it.
func (e *Emulator) fillHousekeepingFields(report *InputReport, advanceCounter bool) {
	if advanceCounter {
		report.SetCounter(e.counter.Tick())
	} else {
		report.SetCounter(e.counter.Value())
	}

	// battery nibble: 0/2/4/6/8 scaled from the 0-100 level.
	level4bit := (e.battery / 25) * 2
	report.SetBatteryLevel(level4bit, e.charging, e.usbPowered)
	report.SetConnectionInfo(0)
	e.adapter.Apply(e.lastInputs, report)

	session := e.protocol.Session()
	session.VibratorFiller = e.protocol.RandomVibratorFiller()
	report.SetVibrator(session.VibratorFiller)
}
