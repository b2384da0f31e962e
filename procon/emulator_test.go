package procon_test

import (
	"testing"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMac() [6]byte { return [6]byte{0x94, 0x58, 0xCB, 0x01, 0x02, 0x03} }

func TestEmulatorOnAttach(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))

	id, payload := e.OnAttach()

	assert.Equal(t, uint8(0x81), id)
	require.Len(t, payload, 12)
}

func TestEmulatorHandleInitHandshakeEchoesPayload(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.OnAttach()

	replyID, reply := e.OnHostReport(0x80, []byte{0x02, 0xAB, 0xCD})

	assert.Equal(t, uint8(0x81), replyID)
	require.Len(t, reply, 12)
	assert.Equal(t, byte(0xAB), reply[0])
	assert.Equal(t, byte(0xCD), reply[1])
}

func TestEmulatorHandleInitDeviceInfoEchoesCommandByte(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.OnAttach()

	replyID, reply := e.OnHostReport(0x80, []byte{0x01})

	assert.Equal(t, uint8(0x81), replyID)
	require.Len(t, reply, 12)
	assert.Equal(t, byte(0x01), reply[0])
}

func TestEmulatorTickProducesFixedSizeReport(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.OnAttach()

	report := e.Tick()

	require.Len(t, report, procon.InputReportSize)
}

func TestEmulatorOnHostReportDeviceInfo(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.OnAttach()

	packet := make([]byte, 10)
	packet[9] = 0x02 // subcommand id, counting from data[0] (channel byte prepended by OnHostReport)

	replyID, reply := e.OnHostReport(0x01, packet)

	require.NotNil(t, reply)
	assert.Equal(t, uint8(0x21), replyID, "subcommand replies always use report id 0x21")
	assert.Equal(t, byte(0x82), reply[12])
}

func TestEmulatorOnHostReportDoesNotAdvanceCounter(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.OnAttach()

	packet := make([]byte, 10)
	packet[9] = 0x02

	first := e.Tick()
	_, _ = e.OnHostReport(0x01, packet)
	_, _ = e.OnHostReport(0x01, packet)
	second := e.Tick()

	assert.Equal(t, first[0]+1, second[0], "only Tick() advances the counter byte")
}

func TestEmulatorOnHostReportRumbleOnlyHasNoImmediateReply(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.OnAttach()

	_, reply := e.OnHostReport(0x10, []byte{0, 0, 0, 0, 0, 0, 0, 0})

	assert.Nil(t, reply)
}

func TestEmulatorSetBatteryLevelClampsAt100(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))
	e.SetBatteryLevel(150, false)
	e.OnAttach()

	report := e.Tick()
	assert.Equal(t, byte(0x80), report[1]&0xF0, "battery nibble saturates at full (8)")
}

func TestEmulatorTickWritesVibratorFiller(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(5))
	e.OnAttach()

	report := e.Tick()

	assert.Equal(t, byte(0x48), report[11], "vibrator field carries a table-drawn filler byte")
}

func TestEmulatorReportDescriptorIsStable(t *testing.T) {
	e := procon.NewEmulator(testMac(), procon.NewFixedSource(7))

	a := e.GetReportDescriptor()
	b := e.GetReportDescriptor()

	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}
