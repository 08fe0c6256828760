package x86

func init() {
	registerJcc()
	registerLoop()
	registerJMPCALL()
	registerRET()
}

// --- Jcc rel8 (0x70-0x7F) ---

func registerJcc() {
	for i := byte(0); i < 16; i++ {
		opcodeTable[0x70+i] = opJcc
	}
}

func opJcc(c *CPU) {
	disp := int8(c.fetch8())
	if c.testCondition(c.opcode & 0xF) {
		c.jumpRel(int16(disp))
	}
}

// jumpRel displaces IP from its post-instruction value. All relative
// transfers resolve against IP as advanced by the fetch helpers, never
// against a physical address.
func (c *CPU) jumpRel(disp int16) {
	c.reg.IP += uint16(disp)
}

// --- LOOP/LOOPE/LOOPNE/JCXZ (0xE0-0xE3) ---

func registerLoop() {
	opcodeTable[0xE0] = opLOOPNE
	opcodeTable[0xE1] = opLOOPE
	opcodeTable[0xE2] = opLOOP
	opcodeTable[0xE3] = opJCXZ
}

func opLOOPNE(c *CPU) {
	disp := int8(c.fetch8())
	c.reg.CX--
	if c.reg.CX != 0 && !c.getFlag(FlagZF) {
		c.jumpRel(int16(disp))
	}
}

func opLOOPE(c *CPU) {
	disp := int8(c.fetch8())
	c.reg.CX--
	if c.reg.CX != 0 && c.getFlag(FlagZF) {
		c.jumpRel(int16(disp))
	}
}

func opLOOP(c *CPU) {
	disp := int8(c.fetch8())
	c.reg.CX--
	if c.reg.CX != 0 {
		c.jumpRel(int16(disp))
	}
}

// opJCXZ branches when CX is zero without modifying it.
func opJCXZ(c *CPU) {
	disp := int8(c.fetch8())
	if c.reg.CX == 0 {
		c.jumpRel(int16(disp))
	}
}

// --- JMP and CALL (0x9A, 0xE8-0xEB) ---

func registerJMPCALL() {
	opcodeTable[0x9A] = opCALLFar
	opcodeTable[0xE8] = opCALLRel16
	opcodeTable[0xE9] = opJMPRel16
	opcodeTable[0xEA] = opJMPFar
	opcodeTable[0xEB] = opJMPRel8
}

// opCALLRel16 pushes the post-instruction IP, then displaces.
func opCALLRel16(c *CPU) {
	disp := int16(c.fetch16())
	c.push16(c.reg.IP)
	c.jumpRel(disp)
}

func opJMPRel16(c *CPU) {
	disp := int16(c.fetch16())
	c.jumpRel(disp)
}

func opJMPRel8(c *CPU) {
	disp := int8(c.fetch8())
	c.jumpRel(int16(disp))
}

// opCALLFar pushes CS then the return IP before loading the new CS:IP
// from the instruction stream.
func opCALLFar(c *CPU) {
	off := c.fetch16()
	seg := c.fetch16()
	c.push16(c.reg.CS)
	c.push16(c.reg.IP)
	c.reg.CS = seg
	c.reg.IP = off
}

func opJMPFar(c *CPU) {
	off := c.fetch16()
	seg := c.fetch16()
	c.reg.CS = seg
	c.reg.IP = off
}

// --- RET/RETF (0xC2/0xC3, 0xCA/0xCB) ---

func registerRET() {
	opcodeTable[0xC2] = opRETImm
	opcodeTable[0xC3] = opRET
	opcodeTable[0xCA] = opRETFImm
	opcodeTable[0xCB] = opRETF
}

func opRET(c *CPU) {
	c.reg.IP = c.pop16()
}

// opRETImm pops IP, then releases imm16 bytes of caller arguments.
func opRETImm(c *CPU) {
	n := c.fetch16()
	c.reg.IP = c.pop16()
	c.reg.SP += n
}

func opRETF(c *CPU) {
	c.reg.IP = c.pop16()
	c.reg.CS = c.pop16()
}

func opRETFImm(c *CPU) {
	n := c.fetch16()
	c.reg.IP = c.pop16()
	c.reg.CS = c.pop16()
	c.reg.SP += n
}
