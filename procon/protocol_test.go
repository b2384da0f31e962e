package procon_test

import (
	"testing"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProtocol(t *testing.T) (*procon.Protocol, procon.DeviceIdentity) {
	t.Helper()
	rng := procon.NewFixedSource(0x2A)
	spi := procon.NewSpiRom("123456789012")
	identity := procon.DeviceIdentity{SerialNumber: "123456789012"}
	mac := [6]byte{0x94, 0x58, 0xCB, 0x00, 0x11, 0x22}
	return procon.NewProtocol(identity, spi, rng, mac), identity
}

func subPacket(subcommand byte, payload []byte) []byte {
	packet := make([]byte, 11)
	packet[0] = 0x01
	packet[10] = subcommand
	return append(packet, payload...)
}

func TestProtocolRequestDeviceInfo(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x02, nil), report)

	body := report.Bytes()
	assert.Equal(t, byte(0x82), body[12], "device info ack byte")
	assert.Equal(t, byte(0x02), body[13], "echoed subcommand id")
	assert.Equal(t, byte(0x03), body[14+2], "reports Pro Controller device type")
}

func TestProtocolSpiReadFactorySerial(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x10, []byte{0x00, 0x60, 0x00, 0x00, 0x0C}), report)

	body := report.Bytes()
	require.Equal(t, byte(0x90), body[12], "successful spi read ack")
	assert.Equal(t, byte(0x10), body[13])
	assert.Equal(t, byte(0x00), body[14], "echoed reg")
	assert.Equal(t, byte(0x60), body[15], "echoed bank")
	assert.Equal(t, byte(0x0C), body[18], "echoed length")
	assert.Equal(t, []byte("123456789012"), body[19:19+12])
}

func TestProtocolSpiReadUnknownBankNacks(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x10, []byte{0x00, 0x99, 0x00, 0x00, 0x08}), report)

	assert.Equal(t, byte(0x83), report.Bytes()[12])
	assert.Equal(t, byte(0x00), report.Bytes()[13], "nack leaves the subcommand echo byte at zero")
}

func TestProtocolSetModeUpdatesSession(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x03, []byte{0x30}), report)

	assert.Equal(t, procon.InputReportModeStandard, p.Session().ReportMode)
	assert.Equal(t, byte(0x80), report.Bytes()[12])
	assert.Equal(t, byte(0x03), report.Bytes()[13])
}

func TestProtocolToggleImuOnAndOff(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x40, []byte{0x00, 0x01}), report)
	assert.True(t, p.Session().ImuEnabled)

	p.Process(subPacket(0x40, []byte{0x00, 0x00}), report)
	assert.False(t, p.Session().ImuEnabled)
}

func TestProtocolSetPlayerLightsMapsPlayerNumber(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x30, []byte{0x03}), report)

	assert.EqualValues(t, 2, p.Session().PlayerNumber)
}

func TestProtocolUnknownSubcommandStillAcks(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0xFE, nil), report)

	body := report.Bytes()
	assert.Equal(t, byte(0x80), body[12])
	assert.Equal(t, byte(0xFE), body[13])
	assert.Equal(t, byte(0x03), body[14])
}

func TestProtocolControllerStateQueryAcks(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x00, nil), report)

	body := report.Bytes()
	assert.Equal(t, byte(0x80), body[12], "controller state query still acks")
	assert.Equal(t, byte(0x00), body[13])
}

func TestProtocolBtManualPairingAcksDistinctly(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x01, nil), report)

	body := report.Bytes()
	assert.Equal(t, byte(0x81), body[12], "bt manual pairing has its own ack")
	assert.Equal(t, byte(0x01), body[13])
	assert.Equal(t, byte(0x00), body[14], "no 0x03 unknown-subcommand marker")
}

func TestProtocolRumbleOnlyLeavesReportUntouched(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()
	report.SetAck(0x11) // sentinel, should survive an ONLY_CONTROLLER_STATE packet

	p.Process([]byte{0x10, 0, 0, 0, 0, 0, 0, 0, 0}, report)

	assert.Equal(t, byte(0x11), report.Bytes()[12])
}

func TestProtocolTriggerButtonsElapsedEchoesSession(t *testing.T) {
	p, _ := newTestProtocol(t)
	report := procon.NewInputReport()

	p.Process(subPacket(0x04, nil), report)

	assert.Equal(t, byte(0x83), report.Bytes()[12])
	assert.Equal(t, byte(0x04), report.Bytes()[13])
}
