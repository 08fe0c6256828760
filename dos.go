package x86

// Emulated DOS and BIOS services. INT 21h, 10h and 16h are trapped
// before IVT vectoring; a handled subfunction commits its effect with
// IP already past the INT, any other subfunction of those vectors
// emits a not-implemented notice and continues. INT 20h is also trapped
// and terminates the program. All other vectors fall through to the IVT.

// serviceKey identifies one emulated subfunction.
type serviceKey struct {
	vector uint8
	ah     uint8
}

type serviceFunc func(*CPU)

var services map[serviceKey]serviceFunc

func init() {
	services = map[serviceKey]serviceFunc{
		{0x21, 0x00}: dosTerminate,
		{0x21, 0x01}: dosReadChar,
		{0x21, 0x02}: dosPrintChar,
		{0x21, 0x09}: dosPrintString,
		{0x21, 0x4C}: dosTerminate,
	}
}

// serviceInterrupt reports whether vector n was absorbed by the
// service layer.
func (c *CPU) serviceInterrupt(n uint8) bool {
	if h, ok := services[serviceKey{n, c.AH()}]; ok {
		h(c)
		return true
	}
	switch n {
	case 0x20: // terminate, regardless of AH
		c.halted = true
		return true
	case 0x21:
		c.out.Emitf("[DOS] INT 21h AH=%02Xh not implemented\n", c.AH())
		return true
	case 0x10, 0x16:
		c.out.Emitf("[BIOS] INT %02Xh AH=%02Xh not implemented\n", n, c.AH())
		return true
	}
	return false
}

// dosTerminate ends the program (AH=00h and AH=4Ch).
func dosTerminate(c *CPU) {
	c.halted = true
}

// dosReadChar is AH=01h, character input with echo. There is no
// interactive stdin in this emulator, so a fixed placeholder byte is
// returned for reproducibility.
func dosReadChar(c *CPU) {
	c.SetAL(0x41)
}

// dosPrintChar is AH=02h: emit DL.
func dosPrintChar(c *CPU) {
	c.out.EmitByte(c.DL())
}

// dosPrintString is AH=09h: emit bytes from DS:DX up to (and not
// including) a '$' terminator. An unterminated string stops after
// 65,536 bytes, one full pass over the segment with the offset wrapping
// from 0xFFFF to 0x0000, rather than scanning memory forever.
func dosPrintString(c *CPU) {
	off := c.reg.DX
	for n := 0; n < 0x10000; n++ {
		b := c.mem.ReadU8(physical(c.reg.DS, off))
		if b == '$' {
			return
		}
		c.out.EmitByte(b)
		off++
	}
}
