package csr

import "github.com/rv32sim/rv32sim/internal/bitfield"

// Bit layout of mstatus/sstatus/ustatus. The three are a single physical
// register viewed through progressively narrower masks.
var (
	statusSD   = bitfield.Member{Msb: 31, Lsb: 31}
	statusTSR  = bitfield.Member{Msb: 22, Lsb: 22}
	statusTW   = bitfield.Member{Msb: 21, Lsb: 21}
	statusTVM  = bitfield.Member{Msb: 20, Lsb: 20}
	statusMXR  = bitfield.Member{Msb: 19, Lsb: 19}
	statusSUM  = bitfield.Member{Msb: 18, Lsb: 18}
	statusMPRV = bitfield.Member{Msb: 17, Lsb: 17}
	statusXS   = bitfield.Member{Msb: 16, Lsb: 15}
	statusFS   = bitfield.Member{Msb: 14, Lsb: 13}
	statusMPP  = bitfield.Member{Msb: 12, Lsb: 11}
	statusSPP  = bitfield.Member{Msb: 8, Lsb: 8}
	statusMPIE = bitfield.Member{Msb: 7, Lsb: 7}
	statusSPIE = bitfield.Member{Msb: 5, Lsb: 5}
	statusUPIE = bitfield.Member{Msb: 4, Lsb: 4}
	statusMIE  = bitfield.Member{Msb: 3, Lsb: 3}
	statusSIE  = bitfield.Member{Msb: 1, Lsb: 1}
	statusUIE  = bitfield.Member{Msb: 0, Lsb: 0}
)

const (
	statusSupervisorMask uint32 = (1 << 31) | (1 << 19) | (1 << 18) | (0x3 << 15) | (0x3 << 13) | (1 << 8) | (1 << 5) | (1 << 4) | (1 << 1) | (1 << 0)
	statusUserMask       uint32 = (1 << 4) | (1 << 0)
)

// Bit layout of mip/sip/uip and mie/sie/uie — identical shape, the
// meaning of the bit differs only by which of the two registers it's in.
var (
	ipMEI = bitfield.Member{Msb: 11, Lsb: 11}
	ipSEI = bitfield.Member{Msb: 9, Lsb: 9}
	ipUEI = bitfield.Member{Msb: 8, Lsb: 8}
	ipMTI = bitfield.Member{Msb: 7, Lsb: 7}
	ipSTI = bitfield.Member{Msb: 5, Lsb: 5}
	ipUTI = bitfield.Member{Msb: 4, Lsb: 4}
	ipMSI = bitfield.Member{Msb: 3, Lsb: 3}
	ipSSI = bitfield.Member{Msb: 1, Lsb: 1}
	ipUSI = bitfield.Member{Msb: 0, Lsb: 0}
)

const (
	ipWriteMask       uint32 = (1 << 11) | (1 << 9) | (1 << 8) | (1 << 3) | (1 << 1) | (1 << 0)
	ipSupervisorMask  uint32 = (1 << 9) | (1 << 8) | (1 << 5) | (1 << 4) | (1 << 1) | (1 << 0)
	ipUserMask        uint32 = (1 << 8) | (1 << 4) | (1 << 0)
	ieWriteMask       uint32 = ipWriteMask | (1 << 7) | (1 << 5) | (1 << 4)
	ieSupervisorMask  uint32 = ipSupervisorMask
	ieUserMask        uint32 = ipUserMask
)

// Bit layout of mtvec/stvec/utvec.
var (
	tvecBase = bitfield.Member{Msb: 31, Lsb: 2}
	tvecMode = bitfield.Member{Msb: 1, Lsb: 0}
)

// TvecMode is the trap vector's dispatch mode.
type TvecMode uint32

const (
	TvecDirect   TvecMode = 0
	TvecVectored TvecMode = 1
)

// Bit layout of satp.
var (
	satpMode = bitfield.Member{Msb: 31, Lsb: 31}
	satpAsid = bitfield.Member{Msb: 30, Lsb: 22}
	satpPPN  = bitfield.Member{Msb: 21, Lsb: 0}
)

const (
	SatpModeBare uint32 = 0
	SatpModeSv32 uint32 = 1
)
