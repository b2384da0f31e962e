package procon_test

import (
	"testing"

	"github.com/dio-wtf/proconbridge/procon"
	"github.com/stretchr/testify/assert"
)

func TestAdapterPacksButtons(t *testing.T) {
	session := procon.NewSessionState()
	adapter := procon.NewAdapter(session, func() uint32 { return 1000 })
	report := procon.NewInputReport()

	adapter.Apply(procon.InputSnapshot{Buttons: procon.ButtonA | procon.ButtonHome | procon.ButtonL}, report)

	body := report.Bytes()
	assert.Equal(t, byte(1<<3), body[2], "A button bit")
	assert.Equal(t, byte(1<<4), body[3], "home button bit")
	assert.Equal(t, byte(1<<6), body[4], "L button bit")
}

func TestAdapterCentersSticksAtRest(t *testing.T) {
	session := procon.NewSessionState()
	adapter := procon.NewAdapter(session, func() uint32 { return 0 })
	report := procon.NewInputReport()

	adapter.Apply(procon.InputSnapshot{}, report)

	body := report.Bytes()
	assert.Equal(t, byte(0x00), body[5])
	assert.Equal(t, byte(0x08), body[6])
	assert.Equal(t, byte(0x80), body[7])
}

func TestAdapterTracksTriggerElapsedTime(t *testing.T) {
	session := procon.NewSessionState()
	now := uint32(0)
	adapter := procon.NewAdapter(session, func() uint32 { return now })
	report := procon.NewInputReport()

	now = 100
	adapter.Apply(procon.InputSnapshot{Buttons: procon.ButtonL}, report)
	now = 350
	adapter.Apply(procon.InputSnapshot{Buttons: procon.ButtonL}, report)

	times := session.TriggerTimesLE()
	elapsed := uint16(times[0]) | uint16(times[1])<<8
	assert.Equal(t, uint16(25), elapsed, "250ms held should read back as 25 in 10ms units")

	now = 400
	adapter.Apply(procon.InputSnapshot{}, report)
	times = session.TriggerTimesLE()
	elapsed = uint16(times[0]) | uint16(times[1])<<8
	assert.Equal(t, uint16(25), elapsed, "elapsed time latches at release")
}

func TestTriggerTimesLEPlacesHomeAfterSlSr(t *testing.T) {
	session := procon.NewSessionState()
	now := uint32(0)
	adapter := procon.NewAdapter(session, func() uint32 { return now })
	report := procon.NewInputReport()

	now = 100
	adapter.Apply(procon.InputSnapshot{Buttons: procon.ButtonHome}, report)
	now = 350
	adapter.Apply(procon.InputSnapshot{Buttons: procon.ButtonHome}, report)

	times := session.TriggerTimesLE()
	assert.Equal(t, [4]byte{0, 0, 0, 0}, [4]byte{times[8], times[9], times[10], times[11]}, "SL/SR slots stay zero")
	home := uint16(times[12]) | uint16(times[13])<<8
	assert.Equal(t, uint16(25), home, "HOME occupies the 7th slot, not the SL slot")
}
