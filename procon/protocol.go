package procon


// Ack byte values, one per response family. Grounded on protocol.cpp's
// per-branch ACK constants (set_subcommand_reply/set_unknown_subcommand/
// set_device_info/set_shipment/spi_read_impl/...).
const (
	ackStandard        byte = 0x80
	ackBtManualPairing byte = 0x81
	ackDeviceInfo      byte = 0x82
	ackSpiReadOk       byte = 0x90
	ackSpiReadFail     byte = 0x83
	ackTriggerButtons  byte = 0x83
	ackEnableVibration byte = 0x82
	ackNfcIrConfig     byte = 0xA0
)

// firmwareMajor/firmwareMinor mirror the version a real Pro Controller
// reports in its REQUEST_DEVICE_INFO reply.
const (
	firmwareMajor byte = 0x03
	firmwareMinor byte = 0x48

	deviceTypeProController byte = 0x03
)

// Protocol is the per-connection subcommand responder: it holds no
// transport knowledge, only the mutable session state and SPI ROM a single
// emulated controller needs to answer host packets. Grounded on
// joycontrol/protocol.go's Protocol type, generalized from its
// single-device-info-request shape to the full dispatch table in
// protocol.cpp.
type Protocol struct {
	session *SessionState
	spi     *SpiRom
	rng     Source
	macAddr [6]byte
}

// NewProtocol builds a responder for one attached controller. identity is
// accepted for symmetry with the emulator's construction call but is not
// consulted here: the subcommand device-info reply reports firmware
// version and MAC only, not the USB VID/PID/string identity, which belongs
// to the transport layer's descriptor instead.
func NewProtocol(identity DeviceIdentity, spi *SpiRom, rng Source, macAddr [6]byte) *Protocol {
	return &Protocol{
		session: NewSessionState(),
		spi:     spi,
		rng:     rng,
		macAddr: macAddr,
	}
}

// Session exposes the mutable session state for the counter/adapter layers
// that need to read ReportMode, ImuEnabled, and so on outside of a
// subcommand exchange.
func (p *Protocol) Session() *SessionState { return p.session }

// Process classifies packet and mutates report in place to hold the reply,
// per spec.md section 4.4's dispatch table. report must already carry the
// current periodic input snapshot (counter, battery, buttons, sticks); this
// only overwrites the ACK/subcommand-echo/payload region and any session
// fields the subcommand affects.
func (p *Protocol) Process(packet []byte, report *InputReport) {
	decoded := DecodeOutputReport(packet)

	switch decoded.Kind {
	case KindOnlyControllerState:
		// Rumble-only channel frame; no subcommand reply, periodic report
		// stands as-is.
		return
	case KindControllerStateQuery:
		p.replyAck(report, ackStandard, decoded.Subcommand)
	case KindBtManualPairing:
		p.replyBtManualPairing(report, decoded.Subcommand)
	case KindTooShort, KindNoData, KindMalformed, KindUnknownSubcommand:
		p.replyUnknown(report, decoded.Subcommand)
	case KindRequestDeviceInfo:
		p.replyDeviceInfo(report)
	case KindSetMode:
		p.session.ReportMode = InputReportMode(decoded.Payload[0])
		p.replyAck(report, ackStandard, decoded.Subcommand)
	case KindSpiRead:
		p.replySpiRead(report, decoded.Subcommand, decoded.Payload)
	case KindTriggerButtonsElapsed:
		p.replyTriggerButtons(report, decoded.Subcommand)
	case KindSetShipment:
		p.replyAck(report, ackStandard, decoded.Subcommand)
	case KindToggleImu:
		p.session.ImuEnabled = decoded.Payload[1] == 0x01
		p.replyAck(report, ackStandard, decoded.Subcommand)
	case KindEnableVibration:
		p.session.VibrationEnabled = true
		p.replyAck(report, ackEnableVibration, decoded.Subcommand)
	case KindSetPlayer:
		p.session.PlayerNumber = playerNumberFromLights(decoded.Payload[0])
		p.replyAck(report, ackStandard, decoded.Subcommand)
	case KindSetNfcIrState:
		p.replyAck(report, ackStandard, decoded.Subcommand)
	case KindSetNfcIrConfig:
		p.replyNfcIrConfig(report, decoded.Subcommand)
	}

	if decoded.Kind != KindOnlyControllerState {
		p.session.HidReady = true
	}
}

// replyAck writes the common subcommand-reply prelude: ack byte,
// subcommand echo, and a zeroed payload lead byte, mirroring
// protocol.cpp's shared prelude (report[14]=0) before any branch-specific
// mutation.
func (p *Protocol) replyAck(report *InputReport, ack byte, subcommand uint8) {
	report.SetAck(ack)
	report.SetSubcommand(subcommand)
	report.PayloadAt(0)[0] = 0
}

// replyBtManualPairing answers BT_MANUAL_PAIRING (subcommand 0x01) with its
// own ack byte and no payload marker, grounded on protocol.cpp:51-56 —
// distinct from the generic unknown-subcommand path, which stamps a 0x03
// marker byte this subcommand never gets.
func (p *Protocol) replyBtManualPairing(report *InputReport, subcommand uint8) {
	report.SetAck(ackBtManualPairing)
	report.SetSubcommand(subcommand)
	report.PayloadAt(0)[0] = 0
}

func (p *Protocol) replyUnknown(report *InputReport, subcommand uint8) {
	report.SetAck(ackStandard)
	report.SetSubcommand(subcommand)
	report.PayloadAt(0)[0] = 0x03
}

func (p *Protocol) replyDeviceInfo(report *InputReport) {
	report.SetAck(ackDeviceInfo)
	report.SetSubcommand(subRequestDeviceInfo)
	payload := report.PayloadAt(0)
	payload[0] = firmwareMajor
	payload[1] = firmwareMinor
	payload[2] = deviceTypeProController
	payload[3] = 0x02
	copy(payload[4:10], p.macAddr[:])
	payload[10] = 0x01
	payload[11] = 0x02
}

func (p *Protocol) replySpiRead(report *InputReport, subcommand uint8, payload []byte) {
	reg := payload[0]
	bank := payload[1]
	length := payload[4]

	data, err := p.spi.Read(bank, reg, length)
	if err != nil {
		// NACK: unlike every other reply, the subcommand echo byte is left
		// at 0x00 rather than echoing subcommand, matching protocol.cpp's
		// spi_read_impl failure branch.
		report.SetAck(ackSpiReadFail)
		report.SetSubcommand(0x00)
		return
	}
	report.SetAck(ackSpiReadOk)
	report.SetSubcommand(subcommand)
	out := report.PayloadAt(0)
	out[0] = reg
	out[1] = bank
	out[2] = 0
	out[3] = 0
	out[4] = length
	copy(out[5:], data)
}

func (p *Protocol) replyTriggerButtons(report *InputReport, subcommand uint8) {
	report.SetAck(ackTriggerButtons)
	report.SetSubcommand(subcommand)
	times := p.session.TriggerTimesLE()
	copy(report.PayloadAt(0), times[:])
}

func (p *Protocol) replyNfcIrConfig(report *InputReport, subcommand uint8) {
	// Grounded on protocol.cpp's set_nfc_ir_config: it writes an 8-byte
	// param block starting at the payload offset and separately pokes a
	// trailing 0xC8 marker near the end of the report. The original's own
	// replace_subarray call site looks like an off-by-one against its
	// stated length, but this reproduces its observed on-wire behavior
	// rather than "fixing" it into something no real controller emits.
	report.SetAck(ackNfcIrConfig)
	report.SetSubcommand(subcommand)
	params := [8]byte{0x01, 0x00, 0xFF, 0x00, 0x08, 0x00, 0x1B, 0x01}
	copy(report.PayloadAt(0), params[:])
	report.Bytes()[len(report.Bytes())-2] = 0xC8
}

// playerNumberFromLights maps the SET_PLAYER_LIGHTS bitfield onto a player
// slot number, grounded on protocol.cpp's set_player_lights table.
func playerNumberFromLights(bits byte) uint8 {
	switch bits {
	case 0x01, 0x10:
		return 1
	case 0x03, 0x30:
		return 2
	case 0x07, 0x70:
		return 3
	case 0x0F, 0xF0:
		return 4
	default:
		return 0
	}
}

// vibratorFillerTable holds the small set of filler bytes
// set_standard_input_report draws from (protocol.cpp:122-129) rather than a
// full 0-255 range. The literal table isn't present in the retrieved source
// excerpt, so a plausible neutral-rumble byte set is reproduced here, the
// same convention used for hidReportDescriptor.
var vibratorFillerTable = [8]byte{0x00, 0x40, 0x80, 0xC0, 0x08, 0x48, 0x88, 0xC8}

// RandomVibratorFiller draws one entry from vibratorFillerTable for the
// vibrator field of every report (periodic or subcommand reply), sourced
// from p.rng so tests can pin it. Called from Emulator's housekeeping fill,
// which owns when a report's prelude is written.
func (p *Protocol) RandomVibratorFiller() byte {
	idx := int(p.rng.Uint32() % uint32(len(vibratorFillerTable)))
	return vibratorFillerTable[idx]
}
