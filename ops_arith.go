package x86

func init() {
	registerALU()
	registerIncDec()
	registerGroup1()
	registerGroup3()
	registerGroup4()
	registerGroup5()
}

// ALU operation selectors. The encoding order is shared by the row
// opcodes (bits 5-3 of 0x00-0x3D) and the group 1 reg field.
const (
	aluADD = iota
	aluOR
	aluADC
	aluSBB
	aluAND
	aluSUB
	aluXOR
	aluCMP
)

// alu applies operation idx to dst and src, sets flags, and reports
// whether the result should be written back (CMP discards it).
// Operands arrive masked to the operand width; the result is returned
// unmasked so the flag writers can see the carry/borrow bit.
func (c *CPU) alu(idx uint8, dst, src uint32, sz Size) (uint32, bool) {
	switch idx {
	case aluADD:
		r := dst + src
		c.setFlagsAdd(src, dst, r, sz)
		return r, true
	case aluOR:
		r := dst | src
		c.setFlagsLogical(r, sz)
		return r, true
	case aluADC:
		r := dst + src + c.flagBit(FlagCF)
		c.setFlagsAdd(src, dst, r, sz)
		return r, true
	case aluSBB:
		r := dst - src - c.flagBit(FlagCF)
		c.setFlagsSub(src, dst, r, sz)
		return r, true
	case aluAND:
		r := dst & src
		c.setFlagsLogical(r, sz)
		return r, true
	case aluSUB:
		r := dst - src
		c.setFlagsSub(src, dst, r, sz)
		return r, true
	case aluXOR:
		r := dst ^ src
		c.setFlagsLogical(r, sz)
		return r, true
	default: // aluCMP
		r := dst - src
		c.setFlagsSub(src, dst, r, sz)
		return 0, false
	}
}

// registerALU registers the eight ALU rows 0x00-0x3D. Each row carries
// the same six forms: Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev / AL,Ib / AX,Iv.
// The +6/+7 columns belong to other families (segment PUSH/POP and the
// prefix bytes) and are not touched here.
func registerALU() {
	for row := byte(0); row < 8; row++ {
		base := row << 3
		opcodeTable[base+0] = opALUToRM
		opcodeTable[base+1] = opALUToRM
		opcodeTable[base+2] = opALUToReg
		opcodeTable[base+3] = opALUToReg
		opcodeTable[base+4] = opALUAccImm
		opcodeTable[base+5] = opALUAccImm
	}
}

// opALUToRM handles "op r/m, reg".
func opALUToRM(c *CPU) {
	idx := c.opcode >> 3
	sz := opSize(c.opcode)
	reg, rm := c.fetchModRM()
	r, store := c.alu(idx, rm.read(c, sz), c.getReg(reg, sz), sz)
	if store {
		rm.write(c, sz, r)
	}
}

// opALUToReg handles "op reg, r/m".
func opALUToReg(c *CPU) {
	idx := c.opcode >> 3
	sz := opSize(c.opcode)
	reg, rm := c.fetchModRM()
	r, store := c.alu(idx, c.getReg(reg, sz), rm.read(c, sz), sz)
	if store {
		c.setReg(reg, sz, r)
	}
}

// opALUAccImm handles "op AL/AX, imm".
func opALUAccImm(c *CPU) {
	idx := c.opcode >> 3
	sz := opSize(c.opcode)
	imm := c.fetchImm(sz)
	r, store := c.alu(idx, c.getReg(0, sz), imm, sz)
	if store {
		c.setReg(0, sz, r)
	}
}

// --- INC/DEC r16 ---

func registerIncDec() {
	for i := byte(0); i < 8; i++ {
		opcodeTable[0x40+i] = opINCReg16
		opcodeTable[0x48+i] = opDECReg16
	}
}

func opINCReg16(c *CPU) {
	idx := c.opcode & 7
	d := uint32(c.getReg16(idx))
	r := d + 1
	c.setFlagsIncDec(1, d, r, Word, false)
	c.setReg16(idx, uint16(r))
}

func opDECReg16(c *CPU) {
	idx := c.opcode & 7
	d := uint32(c.getReg16(idx))
	r := d - 1
	c.setFlagsIncDec(1, d, r, Word, true)
	c.setReg16(idx, uint16(r))
}

// --- Group 1: immediate ALU (0x80/0x81/0x82/0x83) ---

func registerGroup1() {
	opcodeTable[0x80] = opGroup1
	opcodeTable[0x81] = opGroup1
	opcodeTable[0x82] = opGroup1 // 8086 alias of 0x80
	opcodeTable[0x83] = opGroup1
}

func opGroup1(c *CPU) {
	sz := Byte
	if c.opcode == 0x81 || c.opcode == 0x83 {
		sz = Word
	}
	idx, rm := c.fetchModRM()

	var imm uint32
	if c.opcode == 0x83 {
		// Sign-extended 8-bit immediate against a word operand.
		imm = uint32(uint16(int16(int8(c.fetch8())))) & sz.Mask()
	} else {
		imm = c.fetchImm(sz)
	}

	r, store := c.alu(idx, rm.read(c, sz), imm, sz)
	if store {
		rm.write(c, sz, r)
	}
}

// --- Group 3: TEST/NOT/NEG/MUL/IMUL/DIV/IDIV (0xF6/0xF7) ---

func registerGroup3() {
	opcodeTable[0xF6] = opGroup3
	opcodeTable[0xF7] = opGroup3
}

func opGroup3(c *CPU) {
	sz := opSize(c.opcode)
	op, rm := c.fetchModRM()

	switch op {
	case 0, 1: // TEST r/m, imm
		imm := c.fetchImm(sz)
		c.setFlagsLogical(rm.read(c, sz)&imm, sz)
	case 2: // NOT — no flags
		rm.write(c, sz, ^rm.read(c, sz)&sz.Mask())
	case 3: // NEG
		v := rm.read(c, sz)
		r := 0 - v
		c.setFlagsSub(v, 0, r, sz)
		rm.write(c, sz, r)
	case 4:
		c.mul(rm.read(c, sz), sz)
	case 5:
		c.imul(rm.read(c, sz), sz)
	case 6:
		c.div(rm.read(c, sz), sz)
	case 7:
		c.idiv(rm.read(c, sz), sz)
	}
}

// mul performs unsigned widening multiply into AX or DX:AX.
// CF=OF=1 iff the upper half of the product is non-zero; the other
// arithmetic flags are architecturally undefined and left unchanged.
func (c *CPU) mul(src uint32, sz Size) {
	if sz == Byte {
		r := uint32(c.AL()) * src
		c.reg.AX = uint16(r)
		c.setFlag(FlagCF, r>>8 != 0)
		c.setFlag(FlagOF, r>>8 != 0)
		return
	}
	r := uint32(c.reg.AX) * src
	c.reg.AX = uint16(r)
	c.reg.DX = uint16(r >> 16)
	c.setFlag(FlagCF, r>>16 != 0)
	c.setFlag(FlagOF, r>>16 != 0)
}

// imul performs signed widening multiply into AX or DX:AX.
// CF=OF=1 iff the upper half is not the sign extension of the lower.
func (c *CPU) imul(src uint32, sz Size) {
	if sz == Byte {
		r := int32(int8(uint8(c.AL()))) * int32(int8(uint8(src)))
		c.reg.AX = uint16(int16(r))
		fits := r >= -128 && r <= 127
		c.setFlag(FlagCF, !fits)
		c.setFlag(FlagOF, !fits)
		return
	}
	r := int64(int16(c.reg.AX)) * int64(int16(uint16(src)))
	c.reg.AX = uint16(r)
	c.reg.DX = uint16(uint64(r) >> 16)
	fits := r >= -32768 && r <= 32767
	c.setFlag(FlagCF, !fits)
	c.setFlag(FlagOF, !fits)
}

// div performs unsigned division of AX (or DX:AX) by src. A zero
// divisor or an over-wide quotient takes the divide-fault path.
func (c *CPU) div(src uint32, sz Size) {
	if src == 0 {
		c.divideFault()
		return
	}
	if sz == Byte {
		n := uint32(c.reg.AX)
		q := n / src
		if q > 0xFF {
			c.divideFault()
			return
		}
		c.SetAL(uint8(q))
		c.SetAH(uint8(n % src))
		return
	}
	n := uint32(c.reg.DX)<<16 | uint32(c.reg.AX)
	q := n / src
	if q > 0xFFFF {
		c.divideFault()
		return
	}
	c.reg.AX = uint16(q)
	c.reg.DX = uint16(n % src)
}

// idiv performs signed division of AX (or DX:AX) by src with the
// 8086's truncation-toward-zero semantics.
func (c *CPU) idiv(src uint32, sz Size) {
	if sz == Byte {
		d := int32(int8(uint8(src)))
		if d == 0 {
			c.divideFault()
			return
		}
		n := int32(int16(c.reg.AX))
		q := n / d
		if q < -128 || q > 127 {
			c.divideFault()
			return
		}
		c.SetAL(uint8(int8(q)))
		c.SetAH(uint8(int8(n % d)))
		return
	}
	d := int64(int16(uint16(src)))
	if d == 0 {
		c.divideFault()
		return
	}
	n := int64(int32(uint32(c.reg.DX)<<16 | uint32(c.reg.AX)))
	q := n / d
	if q < -32768 || q > 32767 {
		c.divideFault()
		return
	}
	c.reg.AX = uint16(int16(q))
	c.reg.DX = uint16(int16(n % d))
}

// divideFault terminates the session. The 8086 would raise INT 0; this
// emulator reports and halts instead, for both zero divisors and
// over-wide quotients.
func (c *CPU) divideFault() {
	c.out.EmitString("Divide by zero!\n")
	c.halted = true
}

// --- Group 4: INC/DEC r/m8 (0xFE) ---

func registerGroup4() {
	opcodeTable[0xFE] = opGroup4
}

func opGroup4(c *CPU) {
	op, rm := c.fetchModRM()
	switch op {
	case 0:
		d := rm.read(c, Byte)
		r := d + 1
		c.setFlagsIncDec(1, d, r, Byte, false)
		rm.write(c, Byte, r)
	case 1:
		d := rm.read(c, Byte)
		r := d - 1
		c.setFlagsIncDec(1, d, r, Byte, true)
		rm.write(c, Byte, r)
	default:
		c.invalidEncoding(op)
	}
}

// --- Group 5: INC/DEC/CALL/JMP/PUSH r/m16 (0xFF) ---

func registerGroup5() {
	opcodeTable[0xFF] = opGroup5
}

func opGroup5(c *CPU) {
	op, rm := c.fetchModRM()
	switch op {
	case 0: // INC r/m16
		d := rm.read(c, Word)
		r := d + 1
		c.setFlagsIncDec(1, d, r, Word, false)
		rm.write(c, Word, r)
	case 1: // DEC r/m16
		d := rm.read(c, Word)
		r := d - 1
		c.setFlagsIncDec(1, d, r, Word, true)
		rm.write(c, Word, r)
	case 2: // CALL near indirect
		target := uint16(rm.read(c, Word))
		c.push16(c.reg.IP)
		c.reg.IP = target
	case 3: // CALL far indirect through m16:16
		if rm.isReg {
			c.invalidEncoding(op)
			return
		}
		off := c.mem.ReadU16(physical(rm.seg, rm.off))
		seg := c.mem.ReadU16(physical(rm.seg, rm.off+2))
		c.push16(c.reg.CS)
		c.push16(c.reg.IP)
		c.reg.CS = seg
		c.reg.IP = off
	case 4: // JMP near indirect
		c.reg.IP = uint16(rm.read(c, Word))
	case 5: // JMP far indirect through m16:16
		if rm.isReg {
			c.invalidEncoding(op)
			return
		}
		off := c.mem.ReadU16(physical(rm.seg, rm.off))
		seg := c.mem.ReadU16(physical(rm.seg, rm.off+2))
		c.reg.CS = seg
		c.reg.IP = off
	case 6: // PUSH r/m16
		c.push16(uint16(rm.read(c, Word)))
	default:
		c.invalidEncoding(op)
	}
}

// invalidEncoding reports an unencodable ModR/M group selector the way
// an unknown opcode is reported, and halts.
func (c *CPU) invalidEncoding(sel uint8) {
	c.out.Emitf("Unknown opcode 0x%02X /%d at %04X:%04X\n", c.opcode, sel, c.reg.CS, c.opcodeIP)
	c.halted = true
}
