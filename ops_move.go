package x86

func init() {
	registerMOV()
	registerMOVSeg()
	registerMOVImm()
	registerMOVOffs()
	registerLEA()
	registerLESLDS()
	registerXLAT()
	registerXCHG()
	registerPushPop()
	registerPushPopSeg()
	registerPUSHAPOPA()
	registerFlagTransfer()
	registerConvert()
}

// --- MOV r/m <-> reg (0x88-0x8B) ---

func registerMOV() {
	opcodeTable[0x88] = opMOVToRM
	opcodeTable[0x89] = opMOVToRM
	opcodeTable[0x8A] = opMOVToReg
	opcodeTable[0x8B] = opMOVToReg
}

func opMOVToRM(c *CPU) {
	sz := opSize(c.opcode)
	reg, rm := c.fetchModRM()
	rm.write(c, sz, c.getReg(reg, sz))
}

func opMOVToReg(c *CPU) {
	sz := opSize(c.opcode)
	reg, rm := c.fetchModRM()
	c.setReg(reg, sz, rm.read(c, sz))
}

// --- MOV r/m16 <-> Sreg (0x8C/0x8E) ---

func registerMOVSeg() {
	opcodeTable[0x8C] = opMOVFromSeg
	opcodeTable[0x8E] = opMOVToSeg
}

func opMOVFromSeg(c *CPU) {
	reg, rm := c.fetchModRM()
	rm.write(c, Word, uint32(c.getSeg(int(reg&3))))
}

func opMOVToSeg(c *CPU) {
	reg, rm := c.fetchModRM()
	c.setSeg(int(reg&3), uint16(rm.read(c, Word)))
}

// --- MOV reg, imm (0xB0-0xBF) and MOV r/m, imm (0xC6/0xC7) ---

func registerMOVImm() {
	for i := byte(0); i < 8; i++ {
		opcodeTable[0xB0+i] = opMOVReg8Imm
		opcodeTable[0xB8+i] = opMOVReg16Imm
	}
	opcodeTable[0xC6] = opMOVRMImm
	opcodeTable[0xC7] = opMOVRMImm
}

func opMOVReg8Imm(c *CPU) {
	c.setReg8(c.opcode&7, c.fetch8())
}

func opMOVReg16Imm(c *CPU) {
	c.setReg16(c.opcode&7, c.fetch16())
}

func opMOVRMImm(c *CPU) {
	sz := opSize(c.opcode)
	_, rm := c.fetchModRM()
	rm.write(c, sz, c.fetchImm(sz))
}

// --- MOV accumulator <-> direct offset (0xA0-0xA3) ---
//
// The offset comes from the instruction stream; the segment is DS
// unless overridden.

func registerMOVOffs() {
	opcodeTable[0xA0] = opMOVAccFromOffs
	opcodeTable[0xA1] = opMOVAccFromOffs
	opcodeTable[0xA2] = opMOVOffsFromAcc
	opcodeTable[0xA3] = opMOVOffsFromAcc
}

func opMOVAccFromOffs(c *CPU) {
	sz := opSize(c.opcode)
	addr := physical(c.dataSeg(), c.fetch16())
	c.setReg(0, sz, c.mem.read(sz, addr))
}

func opMOVOffsFromAcc(c *CPU) {
	sz := opSize(c.opcode)
	addr := physical(c.dataSeg(), c.fetch16())
	c.mem.write(sz, addr, c.getReg(0, sz))
}

// --- LEA (0x8D) ---

func registerLEA() {
	opcodeTable[0x8D] = opLEA
}

func opLEA(c *CPU) {
	reg, rm := c.fetchModRM()
	if rm.isReg {
		c.invalidEncoding(reg)
		return
	}
	c.setReg16(reg, rm.off)
}

// --- LES/LDS (0xC4/0xC5): load a far pointer from m16:16 ---

func registerLESLDS() {
	opcodeTable[0xC4] = opLESLDS
	opcodeTable[0xC5] = opLESLDS
}

func opLESLDS(c *CPU) {
	reg, rm := c.fetchModRM()
	if rm.isReg {
		c.invalidEncoding(reg)
		return
	}
	off := c.mem.ReadU16(physical(rm.seg, rm.off))
	seg := c.mem.ReadU16(physical(rm.seg, rm.off+2))
	c.setReg16(reg, off)
	if c.opcode == 0xC4 {
		c.reg.ES = seg
	} else {
		c.reg.DS = seg
	}
}

// --- XLAT (0xD7): AL = [DS:BX+AL], override honored ---

func registerXLAT() {
	opcodeTable[0xD7] = opXLAT
}

func opXLAT(c *CPU) {
	addr := physical(c.dataSeg(), c.reg.BX+uint16(c.AL()))
	c.SetAL(c.mem.ReadU8(addr))
}

// --- XCHG (0x86/0x87, 0x90-0x97) ---
//
// 0x90 is XCHG AX,AX, the canonical NOP.

func registerXCHG() {
	opcodeTable[0x86] = opXCHGRmReg
	opcodeTable[0x87] = opXCHGRmReg
	for i := byte(0); i < 8; i++ {
		opcodeTable[0x90+i] = opXCHGAccReg
	}
}

func opXCHGRmReg(c *CPU) {
	sz := opSize(c.opcode)
	reg, rm := c.fetchModRM()
	v := rm.read(c, sz)
	rm.write(c, sz, c.getReg(reg, sz))
	c.setReg(reg, sz, v)
}

func opXCHGAccReg(c *CPU) {
	idx := c.opcode & 7
	v := c.getReg16(idx)
	c.setReg16(idx, c.reg.AX)
	c.reg.AX = v
}

// --- PUSH/POP r16 (0x50-0x5F) and POP r/m16 (0x8F) ---

func registerPushPop() {
	for i := byte(0); i < 8; i++ {
		opcodeTable[0x50+i] = opPUSHReg
		opcodeTable[0x58+i] = opPOPReg
	}
	opcodeTable[0x8F] = opPOPRM
}

func opPUSHReg(c *CPU) {
	c.push16(c.getReg16(c.opcode & 7))
}

func opPOPReg(c *CPU) {
	c.setReg16(c.opcode&7, c.pop16())
}

func opPOPRM(c *CPU) {
	_, rm := c.fetchModRM()
	rm.write(c, Word, uint32(c.pop16()))
}

// --- PUSH/POP Sreg (0x06/0x0E/0x16/0x1E, 0x07/0x17/0x1F) ---
//
// POP CS (0x0F) does not exist; the slot is left unregistered and
// decodes as an unknown opcode.

func registerPushPopSeg() {
	opcodeTable[0x06] = opPUSHSeg
	opcodeTable[0x0E] = opPUSHSeg
	opcodeTable[0x16] = opPUSHSeg
	opcodeTable[0x1E] = opPUSHSeg
	opcodeTable[0x07] = opPOPSeg
	opcodeTable[0x17] = opPOPSeg
	opcodeTable[0x1F] = opPOPSeg
}

// segFromOpcode maps the 0x06/0x0E/0x16/0x1E column encoding
// (bits 4-3) to a segment index in ES, CS, SS, DS order.
func segFromOpcode(opcode byte) int {
	return int(opcode>>3) & 3
}

func opPUSHSeg(c *CPU) {
	c.push16(c.getSeg(segFromOpcode(c.opcode)))
}

func opPOPSeg(c *CPU) {
	c.setSeg(segFromOpcode(c.opcode), c.pop16())
}

// --- PUSHA/POPA (0x60/0x61) ---

func registerPUSHAPOPA() {
	opcodeTable[0x60] = opPUSHA
	opcodeTable[0x61] = opPOPA
}

// opPUSHA pushes AX, CX, DX, BX, the pre-push SP, BP, SI, DI.
func opPUSHA(c *CPU) {
	sp := c.reg.SP
	c.push16(c.reg.AX)
	c.push16(c.reg.CX)
	c.push16(c.reg.DX)
	c.push16(c.reg.BX)
	c.push16(sp)
	c.push16(c.reg.BP)
	c.push16(c.reg.SI)
	c.push16(c.reg.DI)
}

// opPOPA pops in reverse order, discarding the stored SP slot.
func opPOPA(c *CPU) {
	c.reg.DI = c.pop16()
	c.reg.SI = c.pop16()
	c.reg.BP = c.pop16()
	c.pop16() // SP slot
	c.reg.BX = c.pop16()
	c.reg.DX = c.pop16()
	c.reg.CX = c.pop16()
	c.reg.AX = c.pop16()
}

// --- PUSHF/POPF, SAHF/LAHF (0x9C-0x9F) ---

func registerFlagTransfer() {
	opcodeTable[0x9C] = opPUSHF
	opcodeTable[0x9D] = opPOPF
	opcodeTable[0x9E] = opSAHF
	opcodeTable[0x9F] = opLAHF
}

func opPUSHF(c *CPU) {
	c.push16(c.reg.Flags)
}

func opPOPF(c *CPU) {
	c.loadFlags(c.pop16())
}

// opSAHF loads SF/ZF/AF/PF/CF from AH.
func opSAHF(c *CPU) {
	low := FlagSF | FlagZF | FlagAF | FlagPF | FlagCF
	c.reg.Flags = (c.reg.Flags &^ low) | (uint16(c.AH()) & low)
}

// opLAHF stores the low flag byte into AH.
func opLAHF(c *CPU) {
	c.SetAH(uint8(c.reg.Flags))
}

// --- CBW/CWD (0x98/0x99) ---

func registerConvert() {
	opcodeTable[0x98] = opCBW
	opcodeTable[0x99] = opCWD
}

// opCBW sign-extends AL into AX.
func opCBW(c *CPU) {
	c.reg.AX = uint16(int16(int8(c.AL())))
}

// opCWD sign-extends AX into DX:AX.
func opCWD(c *CPU) {
	if c.reg.AX&0x8000 != 0 {
		c.reg.DX = 0xFFFF
	} else {
		c.reg.DX = 0
	}
}
