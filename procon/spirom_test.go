package procon_test

import (
	"testing"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpiRomShipmentBankReturnsZeros(t *testing.T) {
	rom := procon.NewSpiRom("000000000000")
	data, err := rom.Read(procon.SpiBankShipment, 0x00, 8)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), data)
}

func TestSpiRomFactorySerial(t *testing.T) {
	rom := procon.NewSpiRom("123456789012")
	data, err := rom.Read(procon.SpiBankFactory, 0x00, 0x0C)
	require.NoError(t, err)
	assert.Equal(t, []byte("123456789012"), data)
}

func TestSpiRomFactoryStickCalibration(t *testing.T) {
	rom := procon.NewSpiRom("000000000000")
	data, err := rom.Read(procon.SpiBankFactory, 0x3D, 18)
	require.NoError(t, err)
	assert.Len(t, data, 18)
	assert.NotEqual(t, make([]byte, 18), data, "stick calibration bytes should not be all zero")
}

func TestSpiRomUserCalibrationDefaultsUnprogrammed(t *testing.T) {
	rom := procon.NewSpiRom("000000000000")
	data, err := rom.Read(procon.SpiBankUserCal, 0x10, 9)
	require.NoError(t, err)
	for _, b := range data {
		assert.Equal(t, byte(0xFF), b)
	}
}

func TestSpiRomUnknownBankErrors(t *testing.T) {
	rom := procon.NewSpiRom("000000000000")
	_, err := rom.Read(0x99, 0x00, 1)
	assert.ErrorIs(t, err, procon.ErrSpiOutOfRange)
}

func TestSpiRomReadPastBankBoundaryErrors(t *testing.T) {
	rom := procon.NewSpiRom("000000000000")
	_, err := rom.Read(procon.SpiBankFactory, 0x78, 0x10)
	assert.ErrorIs(t, err, procon.ErrSpiOutOfRange)
}
