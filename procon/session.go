package procon

// InputReportMode mirrors the console's SET_MODE subcommand payload: which
// shape of periodic input report the controller should emit.
type InputReportMode uint8

const (
	InputReportModeStandard InputReportMode = 0x30
	InputReportModeNfcIr    InputReportMode = 0x31
	InputReportModeSimple   InputReportMode = 0x3F
)

// TriggerButton indexes the five buttons the console tracks elapsed-press
// time for. SL/SR exist on Joy-Cons only; the Pro Controller answers with
// zero for both, grounded on switch_pro.hpp's trigger_button_times_ array
// (which always has all seven slots; the Pro Controller drives L, R, ZL, ZR
// and HOME, and leaves the SL/SR slots between ZR and HOME at zero).
type TriggerButton int

const (
	TriggerL TriggerButton = iota
	TriggerR
	TriggerZL
	TriggerZR
	TriggerHome
	triggerButtonCount
)

// SessionState holds everything the protocol responder needs to remember
// between host packets: the bits a real Pro Controller keeps in RAM across
// its lifetime, grounded on switch_pro.hpp's private fields.
type SessionState struct {
	HidReady         bool
	ImuEnabled       bool
	VibrationEnabled bool
	ReportMode       InputReportMode
	PlayerNumber     uint8
	Counter          uint8
	VibratorFiller   byte

	triggerPressStart [triggerButtonCount]uint32 // ms timestamp, 0 = not pressed
	triggerElapsed    [triggerButtonCount]uint16 // 10ms units, latched on release
}

// NewSessionState returns the state a freshly attached controller starts in.
func NewSessionState() *SessionState {
	return &SessionState{
		ReportMode: InputReportModeStandard,
	}
}

// UpdateTrigger advances the press-start/elapsed bookkeeping for one
// trigger button given its current pressed state and the current time in
// milliseconds. Grounded on switch_pro.cpp's update_trigger_button_index:
// press_start is latched on the rising edge, elapsed is computed relative
// to press_start while held, and press_start resets to 0 on release.
func (s *SessionState) UpdateTrigger(b TriggerButton, pressed bool, nowMs uint32) {
	if !pressed {
		s.triggerPressStart[b] = 0
		return
	}
	if s.triggerPressStart[b] == 0 {
		s.triggerPressStart[b] = nowMs
		if s.triggerPressStart[b] == 0 {
			s.triggerPressStart[b] = 1 // avoid re-triggering the "unset" sentinel
		}
	}
	elapsedMs := nowMs - s.triggerPressStart[b]
	s.triggerElapsed[b] = uint16(elapsedMs / 10)
}

// TriggerTimesLE encodes the seven trigger-time slots the console expects
// in its SET_TRIGGER_BUTTONS reply, in wire order L, R, ZL, ZR, SL, SR, HOME
// (protocol.cpp:290's memcpy over trigger_times_), each little-endian
// uint16, 14 bytes total. SL/SR have no Pro Controller equivalent and are
// pinned to zero between ZR and HOME rather than trailing after it.
func (s *SessionState) TriggerTimesLE() [14]byte {
	var out [14]byte
	putUint16 := func(i int, v uint16) {
		out[i] = byte(v)
		out[i+1] = byte(v >> 8)
	}
	putUint16(0, s.triggerElapsed[TriggerL])
	putUint16(2, s.triggerElapsed[TriggerR])
	putUint16(4, s.triggerElapsed[TriggerZL])
	putUint16(6, s.triggerElapsed[TriggerZR])
	// bytes [8,12): SL, SR — always zero on a Pro Controller.
	putUint16(12, s.triggerElapsed[TriggerHome])
	return out
}
