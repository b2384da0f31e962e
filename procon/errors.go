package procon

import "errors"

// Sentinel errors describing the failure taxonomy from the protocol design:
// unknown/truncated packets are always ACKed rather than surfaced as Go
// errors (see DecodeOutputReport), so these are reserved for callers that
// need to distinguish transport-level conditions from protocol replies.
// Only ErrSpiOutOfRange is returned by code in this module.
var (
	// ErrProtocolMalformed names a host packet whose leading channel byte
	// does not match any known output-report channel. DecodeOutputReport
	// classifies such packets as KindMalformed instead of returning it.
	ErrProtocolMalformed = errors.New("procon: malformed host packet")
	// ErrSpiOutOfRange is returned by SpiRom.Read for an unknown bank.
	ErrSpiOutOfRange = errors.New("procon: spi read outside known banks")
	// ErrBufferOverflow names a host packet longer than a single transport
	// frame can hold. The transports in this module do not check for it.
	ErrBufferOverflow = errors.New("procon: host packet exceeds frame size")
	// ErrTransportLost names a dropped in-flight exchange on the wired
	// transport; emulator state is left untouched. The transports in this
	// module return the underlying I/O error instead.
	ErrTransportLost = errors.New("procon: transport lost")
)
