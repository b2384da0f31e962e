package procon_test

import (
	"testing"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
)

func TestDecodeOutputReport(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
		want   procon.ResponseKind
	}{
		{"empty", nil, procon.KindNoData},
		{"rumble only", []byte{0x10, 0, 0, 0, 0, 0, 0, 0, 0}, procon.KindOnlyControllerState},
		{"too short subcommand", []byte{0x01, 0x00}, procon.KindTooShort},
		{
			"controller state query",
			subcommandPacket(0x00, nil),
			procon.KindControllerStateQuery,
		},
		{
			"bt manual pairing",
			subcommandPacket(0x01, nil),
			procon.KindBtManualPairing,
		},
		{
			"request device info",
			subcommandPacket(0x02, nil),
			procon.KindRequestDeviceInfo,
		},
		{
			"set mode",
			subcommandPacket(0x03, []byte{0x30}),
			procon.KindSetMode,
		},
		{
			"spi read factory serial",
			subcommandPacket(0x10, []byte{0x00, 0x60, 0x00, 0x00, 0x0C}),
			procon.KindSpiRead,
		},
		{
			"spi read too short",
			subcommandPacket(0x10, []byte{0x00, 0x60}),
			procon.KindTooShort,
		},
		{
			"trigger buttons elapsed",
			subcommandPacket(0x04, nil),
			procon.KindTriggerButtonsElapsed,
		},
		{
			"set shipment",
			subcommandPacket(0x08, nil),
			procon.KindSetShipment,
		},
		{
			"toggle imu on",
			subcommandPacket(0x40, []byte{0x00, 0x01}),
			procon.KindToggleImu,
		},
		{
			"enable vibration",
			subcommandPacket(0x48, []byte{0x01}),
			procon.KindEnableVibration,
		},
		{
			"set player lights",
			subcommandPacket(0x30, []byte{0x01}),
			procon.KindSetPlayer,
		},
		{
			"set nfc/ir state",
			subcommandPacket(0x22, []byte{0x00}),
			procon.KindSetNfcIrState,
		},
		{
			"set nfc/ir config",
			subcommandPacket(0x21, nil),
			procon.KindSetNfcIrConfig,
		},
		{
			"unknown subcommand",
			subcommandPacket(0xFE, nil),
			procon.KindUnknownSubcommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := procon.DecodeOutputReport(tt.packet)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

// subcommandPacket builds a channel-0x01 output report: channel, counter,
// 8 bytes rumble, subcommand id, payload.
func subcommandPacket(subcommand byte, payload []byte) []byte {
	packet := make([]byte, 11)
	packet[0] = 0x01
	packet[10] = subcommand
	return append(packet, payload...)
}
