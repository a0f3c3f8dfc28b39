package device

import "io"

const (
	UartBase = 0x10000000
	UartSize = 0x100

	uartRBR = 0 // receiver buffer / transmitter holding, offset 0
	uartIER = 1
	uartIIR = 2 // also FCR on write
	uartLCR = 3
	uartMCR = 4
	uartLSR = 5
)

const (
	lsrDataReady       uint8 = 1 << 0
	lsrTxHoldingEmpty  uint8 = 1 << 5
	lsrTxEmpty         uint8 = 1 << 6
)

// Uart is a reduced 16550-shaped serial port: the transmitter writes
// straight through to an io.Writer (stdout by default), and the receiver
// holds a small input queue fed by Push, for console/GDB passthrough.
type Uart struct {
	out    io.Writer
	rxFifo []byte
	ier    uint8
	lcr    uint8
	mcr    uint8
}

func NewUart(out io.Writer) *Uart {
	return &Uart{out: out}
}

func (u *Uart) Base() uint32 { return UartBase }
func (u *Uart) Size() uint32 { return UartSize }

// Push enqueues a byte of host input to be read back via RBR, e.g. from a
// terminal passthrough or the GDB stub's console channel.
func (u *Uart) Push(b byte) { u.rxFifo = append(u.rxFifo, b) }

func (u *Uart) lineStatus() uint8 {
	s := lsrTxHoldingEmpty | lsrTxEmpty
	if len(u.rxFifo) > 0 {
		s |= lsrDataReady
	}
	return s
}

func (u *Uart) Read8(addr uint32) uint8 {
	switch addr - UartBase {
	case uartRBR:
		if len(u.rxFifo) == 0 {
			return 0
		}
		b := u.rxFifo[0]
		u.rxFifo = u.rxFifo[1:]
		return b
	case uartIER:
		return u.ier
	case uartIIR:
		return 0x01 // no interrupt pending
	case uartLCR:
		return u.lcr
	case uartMCR:
		return u.mcr
	case uartLSR:
		return u.lineStatus()
	default:
		return 0
	}
}

func (u *Uart) Read16(addr uint32) uint16 { return uint16(u.Read8(addr)) }
func (u *Uart) Read32(addr uint32) uint32 { return uint32(u.Read8(addr)) }

func (u *Uart) Write8(addr uint32, v uint8) {
	switch addr - UartBase {
	case uartRBR:
		if u.out != nil {
			_, _ = u.out.Write([]byte{v})
		}
	case uartIER:
		u.ier = v
	case uartIIR: // FCR on write; FIFO control isn't modeled, accepted and ignored
	case uartLCR:
		u.lcr = v
	case uartMCR:
		u.mcr = v
	}
}

func (u *Uart) Write16(addr uint32, v uint16) { u.Write8(addr, uint8(v)) }
func (u *Uart) Write32(addr uint32, v uint32) { u.Write8(addr, uint8(v)) }
