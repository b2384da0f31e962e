package procon

// Output report channel bytes: the first byte of every packet the host
// sends down to the controller.
const (
	channelRumbleOnly    uint8 = 0x10
	channelSubcommand    uint8 = 0x01
	channelInitHandshake uint8 = 0x80
)

// Subcommand IDs, grounded on joycontrol/report/report.go's Subcommand
// constants and cross-checked against protocol.cpp's Response dispatch.
const (
	subControllerState      uint8 = 0x00
	subBtManualPairing      uint8 = 0x01
	subRequestDeviceInfo    uint8 = 0x02
	subSetShipment          uint8 = 0x08
	subSpiRead              uint8 = 0x10
	subSetMode              uint8 = 0x03
	subTriggerButtonsElapse uint8 = 0x04
	subSetPlayerLights      uint8 = 0x30
	subToggleImu            uint8 = 0x40
	subEnableVibration      uint8 = 0x48
	subSetNfcIrState        uint8 = 0x22
	subSetNfcIrConfig       uint8 = 0x21
)

// ResponseKind classifies a decoded host packet into the bucket that drives
// how Protocol.Process mutates its reply, per spec.md section 4.4's
// dispatch table.
type ResponseKind int

const (
	// KindOnlyControllerState is the rumble-only channel 0x10 frame: its
	// rumble bytes are not stored or acted on, and it gets no immediate
	// reply, unlike the subcommand of the same name.
	KindOnlyControllerState ResponseKind = iota
	// KindControllerStateQuery is subcommand 0x00 on channel 0x01: unlike
	// the rumble-only channel frame, it still gets a full 49-byte
	// ACK-0x80/echo-0x00 reply.
	KindControllerStateQuery
	KindBtManualPairing
	KindRequestDeviceInfo
	KindSetMode
	KindSpiRead
	KindTriggerButtonsElapsed
	KindSetShipment
	KindToggleImu
	KindEnableVibration
	KindSetPlayer
	KindSetNfcIrState
	KindSetNfcIrConfig
	KindUnknownSubcommand
	KindTooShort
	KindNoData
	KindMalformed
)

// DecodedReport is the result of classifying one host output report.
type DecodedReport struct {
	Kind       ResponseKind
	Subcommand uint8
	Payload    []byte
}

// DecodeOutputReport classifies a raw host packet (channel byte first, no
// transport framing) into a DecodedReport. Malformed and unrecognized
// packets are never surfaced as Go errors here: the real console always
// answers with some report, even if it is a NACK, so classification always
// succeeds and the caller decides how to reply.
func DecodeOutputReport(packet []byte) DecodedReport {
	if len(packet) == 0 {
		return DecodedReport{Kind: KindNoData}
	}
	switch packet[0] {
	case channelRumbleOnly:
		return DecodedReport{Kind: KindOnlyControllerState}
	case channelSubcommand:
		return decodeSubcommand(packet)
	case channelInitHandshake:
		// Handled by the attach/init sub-protocol, not this decoder.
		return DecodedReport{Kind: KindMalformed}
	default:
		return DecodedReport{Kind: KindMalformed}
	}
}

// Offsets within a channel-0x01 packet: [0]=channel [1]=counter
// [2,10)=rumble data (unused by the emulator) [10]=subcommand ID
// [11:]=subcommand payload.
const (
	outOffCounter    = 1
	outOffRumble     = 2
	outOffSubcommand = 10
	outOffPayload    = 11
)

func decodeSubcommand(packet []byte) DecodedReport {
	if len(packet) <= outOffSubcommand {
		return DecodedReport{Kind: KindTooShort}
	}
	sub := packet[outOffSubcommand]
	payload := packet[outOffPayload:]

	switch sub {
	case subRequestDeviceInfo:
		return DecodedReport{Kind: KindRequestDeviceInfo, Subcommand: sub, Payload: payload}
	case subSetShipment:
		return DecodedReport{Kind: KindSetShipment, Subcommand: sub, Payload: payload}
	case subSpiRead:
		if len(payload) < 5 {
			return DecodedReport{Kind: KindTooShort, Subcommand: sub, Payload: payload}
		}
		return DecodedReport{Kind: KindSpiRead, Subcommand: sub, Payload: payload}
	case subSetMode:
		if len(payload) < 1 {
			return DecodedReport{Kind: KindTooShort, Subcommand: sub, Payload: payload}
		}
		return DecodedReport{Kind: KindSetMode, Subcommand: sub, Payload: payload}
	case subTriggerButtonsElapse:
		return DecodedReport{Kind: KindTriggerButtonsElapsed, Subcommand: sub, Payload: payload}
	case subSetPlayerLights:
		if len(payload) < 1 {
			return DecodedReport{Kind: KindTooShort, Subcommand: sub, Payload: payload}
		}
		return DecodedReport{Kind: KindSetPlayer, Subcommand: sub, Payload: payload}
	case subToggleImu:
		if len(payload) < 2 {
			return DecodedReport{Kind: KindTooShort, Subcommand: sub, Payload: payload}
		}
		return DecodedReport{Kind: KindToggleImu, Subcommand: sub, Payload: payload}
	case subEnableVibration:
		return DecodedReport{Kind: KindEnableVibration, Subcommand: sub, Payload: payload}
	case subSetNfcIrState:
		return DecodedReport{Kind: KindSetNfcIrState, Subcommand: sub, Payload: payload}
	case subSetNfcIrConfig:
		return DecodedReport{Kind: KindSetNfcIrConfig, Subcommand: sub, Payload: payload}
	case subControllerState:
		return DecodedReport{Kind: KindControllerStateQuery, Subcommand: sub, Payload: payload}
	case subBtManualPairing:
		return DecodedReport{Kind: KindBtManualPairing, Subcommand: sub, Payload: payload}
	default:
		return DecodedReport{Kind: KindUnknownSubcommand, Subcommand: sub, Payload: payload}
	}
}
