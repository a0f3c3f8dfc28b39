package device

const (
	VirtioMagicValue     = 0x74726976 // "virt"
	VirtioVersion        = 1
	VirtioVendorID       = 0x49464152 // "RAFI"
	virtioRegDeviceID    = 0x008
	virtioRegMagic       = 0x000
	virtioRegVersion     = 0x004
	virtioRegVendorID    = 0x00c
	virtioRegStatus      = 0x070
)

// VirtioStub is a minimal VirtIO MMIO transport that answers the
// identification registers correctly (magic/version/vendor) but reports
// DeviceID 0 ("no device"), so guest probing completes without a panic
// but no queue is ever actually negotiated. Eight are mapped by System at
// 0x10001000 in 0x1000-byte strides, per the platform's reserved slot
// range for future device wiring.
type VirtioStub struct {
	base   uint32
	status uint32
}

func NewVirtioStub(base uint32) *VirtioStub {
	return &VirtioStub{base: base}
}

func (v *VirtioStub) Base() uint32 { return v.base }
func (v *VirtioStub) Size() uint32 { return 0x1000 }

func (v *VirtioStub) Read8(addr uint32) uint8   { return uint8(v.Read32(addr &^ 0x3)) }
func (v *VirtioStub) Read16(addr uint32) uint16 { return uint16(v.Read32(addr &^ 0x3)) }

func (v *VirtioStub) Read32(addr uint32) uint32 {
	switch addr - v.base {
	case virtioRegMagic:
		return VirtioMagicValue
	case virtioRegVersion:
		return VirtioVersion
	case virtioRegDeviceID:
		return 0
	case virtioRegVendorID:
		return VirtioVendorID
	case virtioRegStatus:
		return v.status
	default:
		return 0
	}
}

func (v *VirtioStub) Write8(addr uint32, val uint8)   { v.Write32(addr&^0x3, uint32(val)) }
func (v *VirtioStub) Write16(addr uint32, val uint16) { v.Write32(addr&^0x3, uint32(val)) }

func (v *VirtioStub) Write32(addr uint32, val uint32) {
	if addr-v.base == virtioRegStatus {
		v.status = val
	}
}
