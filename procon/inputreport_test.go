package procon_test

import (
	"testing"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
)

func TestInputReportStickPacking(t *testing.T) {
	report := procon.NewInputReport()

	// Center position on a real stick: 0x800 for both axes.
	report.SetLeftStick(0x800, 0x800)

	body := report.Bytes()
	assert.Equal(t, byte(0x00), body[5])
	assert.Equal(t, byte(0x08), body[6])
	assert.Equal(t, byte(0x80), body[7])
}

func TestInputReportStickPackingFullDeflection(t *testing.T) {
	report := procon.NewInputReport()

	report.SetRightStick(0xFFF, 0x000)

	body := report.Bytes()
	assert.Equal(t, byte(0xFF), body[8])
	assert.Equal(t, byte(0x0F), body[9])
	assert.Equal(t, byte(0x00), body[10])
}

func TestInputReportResetZeroesAllBytes(t *testing.T) {
	report := procon.NewInputReport()
	report.SetButtons(0xFF, 0xFF, 0xFF)
	report.SetAck(0x80)

	report.Reset()

	for _, b := range report.Bytes() {
		assert.Equal(t, byte(0), b)
	}
}

func TestInputReportCounterRoundTrip(t *testing.T) {
	report := procon.NewInputReport()
	report.SetCounter(0x42)
	assert.Equal(t, byte(0x42), report.Counter())
}
