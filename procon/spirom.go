package procon

// SPI ROM bank identifiers, addressed the same way the console addresses
// them in a SPI_READ subcommand: as a (bank, reg) pair rather than a single
// linear address.
const (
	SpiBankShipment uint8 = 0x00
	SpiBankFactory  uint8 = 0x60
	SpiBankUserCal  uint8 = 0x80
)

const spiBankSize = 0x80

// factoryStickCalibrationLeft and factoryStickCalibrationRight together form
// the 18-byte "Factory configuration & calibration 2" block (dekuNukem's SPI flash notes, address 0x603D):
// left-stick and right-stick calibration triplets, 9 bytes each.
//
// Grounded verbatim on joycontrol/input.go's ackSpiFlashRead
// leftCalibration/rightCalibration arrays (the teacher's own hard-coded
// stand-in for real factory calibration bytes).
var factoryStickCalibrationLeft = [9]byte{
	0xBA, 0xF5, 0x62,
	0x6F, 0xC8, 0x77,
	0xED, 0x95, 0x5B,
}

var factoryStickCalibrationRight = [9]byte{
	0x16, 0xD8, 0x7D,
	0xF2, 0xB5, 0x5F,
	0x86, 0x65, 0x5E,
}

const (
	spiRegSerial    = 0x00
	spiRegStickCal2 = 0x3D
)

// SpiRom is the emulated calibration memory: two contiguous 0x80-byte banks
// patched with a per-boot serial number, per spec.md section 4.1.
type SpiRom struct {
	factory [spiBankSize]byte
	user    [spiBankSize]byte
}

// NewSpiRom builds the ROM image from embedded constants and patches the
// factory block's serial slot with serial (12 ASCII digits; longer strings
// are truncated, shorter ones zero-padded to 16 bytes total).
func NewSpiRom(serial string) *SpiRom {
	rom := &SpiRom{}
	// Unprogrammed flash reads back as 0xFF; real controllers rely on this
	// to mean "no calibration written here, fall back to factory".
	for i := range rom.factory {
		rom.factory[i] = 0xFF
	}
	for i := range rom.user {
		rom.user[i] = 0xFF
	}
	copy(rom.factory[spiRegStickCal2:], factoryStickCalibrationLeft[:])
	copy(rom.factory[spiRegStickCal2+len(factoryStickCalibrationLeft):], factoryStickCalibrationRight[:])
	rom.setSerial(serial)
	return rom
}

func (r *SpiRom) setSerial(serial string) {
	var buf [16]byte
	n := copy(buf[:serialDigits], serial)
	for i := n; i < len(buf); i++ {
		buf[i] = 0x00
	}
	copy(r.factory[spiRegSerial:spiRegSerial+len(buf)], buf[:])
}

// Read returns exactly len bytes from (bank, reg), or an error if the read
// is outside a known bank or would straddle a bank boundary.
func (r *SpiRom) Read(bank uint8, reg uint8, length uint8) ([]byte, error) {
	switch bank {
	case SpiBankShipment:
		return make([]byte, length), nil
	case SpiBankFactory:
		return readBank(r.factory[:], reg, length)
	case SpiBankUserCal:
		return readBank(r.user[:], reg, length)
	default:
		return nil, ErrSpiOutOfRange
	}
}

func readBank(bank []byte, reg uint8, length uint8) ([]byte, error) {
	start := int(reg)
	end := start + int(length)
	if start > len(bank) || end > len(bank) {
		return nil, ErrSpiOutOfRange
	}
	out := make([]byte, length)
	copy(out, bank[start:end])
	return out, nil
}
