package procon

// Button is a bit in the generic, vendor-neutral button mask InputSnapshot
// carries. A single raw uint32 is intentionally shared across every
// upstream input source (Xbox pad, generic HID gamepad, Switch host) so the
// adapter has one packing routine regardless of where the bits came from;
// see spec.md's "overlapping button names" design note, grounded on
// gamepad_inputs.hpp's union of three overlapping bitfield views over one
// raw uint32.
type Button uint32

const (
	ButtonY Button = 1 << iota
	ButtonX
	ButtonB
	ButtonA
	ButtonR
	ButtonZR
	ButtonMinus
	ButtonPlus
	ButtonRStick
	ButtonLStick
	ButtonHome
	ButtonCapture
	ButtonDown
	ButtonUp
	ButtonRight
	ButtonLeft
	ButtonL
	ButtonZL
)

const analogTriggerThreshold = 0.5

// InputSnapshot is one instant of gamepad state from any upstream source,
// already normalized to the ranges the emulator expects: stick axes in
// [-1,1], trigger pulls in [0,1].
type InputSnapshot struct {
	Buttons Button

	LeftStickX, LeftStickY   float32
	RightStickX, RightStickY float32

	LeftTrigger, RightTrigger float32
}

// Adapter translates InputSnapshot values into InputReport byte layouts and
// keeps the per-trigger elapsed-time bookkeeping session state needs, since
// that bookkeeping depends on consecutive snapshots rather than any single
// one.
type Adapter struct {
	session *SessionState
	nowMs   func() uint32
}

// NewAdapter returns an Adapter that drives session's trigger timers using
// nowMs as its clock source (injected so tests can control elapsed time).
func NewAdapter(session *SessionState, nowMs func() uint32) *Adapter {
	return &Adapter{session: session, nowMs: nowMs}
}

// Apply writes buttons and sticks from snap into report, and updates the
// L/R/ZL/ZR/HOME trigger-elapsed timers session tracks. Battery, vibrator,
// and ACK/subcommand fields are untouched; callers set those separately.
func (a *Adapter) Apply(snap InputSnapshot, report *InputReport) {
	b0, b1, b2 := packButtons(snap.Buttons)
	report.SetButtons(b0, b1, b2)

	report.SetLeftStick(axisToStick(snap.LeftStickX), axisToStick(invertY(snap.LeftStickY)))
	report.SetRightStick(axisToStick(snap.RightStickX), axisToStick(invertY(snap.RightStickY)))

	now := a.nowMs()
	a.session.UpdateTrigger(TriggerL, snap.Buttons&ButtonL != 0, now)
	a.session.UpdateTrigger(TriggerR, snap.Buttons&ButtonR != 0, now)
	a.session.UpdateTrigger(TriggerZL, snap.Buttons&ButtonZL != 0 || snap.LeftTrigger >= analogTriggerThreshold, now)
	a.session.UpdateTrigger(TriggerZR, snap.Buttons&ButtonZR != 0 || snap.RightTrigger >= analogTriggerThreshold, now)
	a.session.UpdateTrigger(TriggerHome, snap.Buttons&ButtonHome != 0, now)
}

// invertY flips the vertical stick axis: upstream sources and the Switch
// protocol disagree on which direction is "up".
func invertY(y float32) float32 { return -y }

// axisToStick maps a [-1,1] float axis onto the 12-bit range a real stick
// calibration centers around 0x800 (2048).
func axisToStick(v float32) uint16 {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	centered := 2048 + v*2047
	if centered < 0 {
		centered = 0
	}
	if centered > 4095 {
		centered = 4095
	}
	return uint16(centered)
}

// packButtons lays out the generic button mask into the three
// Switch-protocol button bytes, grounded on
// other_examples/bluebitgame-GamepadServer__switchpro.go's bit positions
// (which document the wire format from the host's decoding side, used here
// in reverse to encode it).
func packButtons(b Button) (byte, byte, byte) {
	var b0, b1, b2 byte
	if b&ButtonY != 0 {
		b0 |= 1 << 0
	}
	if b&ButtonX != 0 {
		b0 |= 1 << 1
	}
	if b&ButtonB != 0 {
		b0 |= 1 << 2
	}
	if b&ButtonA != 0 {
		b0 |= 1 << 3
	}
	if b&ButtonR != 0 {
		b0 |= 1 << 6
	}
	if b&ButtonZR != 0 {
		b0 |= 1 << 7
	}

	if b&ButtonMinus != 0 {
		b1 |= 1 << 0
	}
	if b&ButtonPlus != 0 {
		b1 |= 1 << 1
	}
	if b&ButtonRStick != 0 {
		b1 |= 1 << 2
	}
	if b&ButtonLStick != 0 {
		b1 |= 1 << 3
	}
	if b&ButtonHome != 0 {
		b1 |= 1 << 4
	}
	if b&ButtonCapture != 0 {
		b1 |= 1 << 5
	}

	if b&ButtonDown != 0 {
		b2 |= 1 << 0
	}
	if b&ButtonUp != 0 {
		b2 |= 1 << 1
	}
	if b&ButtonRight != 0 {
		b2 |= 1 << 2
	}
	if b&ButtonLeft != 0 {
		b2 |= 1 << 3
	}
	if b&ButtonL != 0 {
		b2 |= 1 << 6
	}
	if b&ButtonZL != 0 {
		b2 |= 1 << 7
	}

	return b0, b1, b2
}
