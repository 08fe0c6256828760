package x86

func init() {
	opcodeTable[0xA4] = opMOVS
	opcodeTable[0xA5] = opMOVS
	opcodeTable[0xA6] = opCMPS
	opcodeTable[0xA7] = opCMPS
	opcodeTable[0xAA] = opSTOS
	opcodeTable[0xAB] = opSTOS
	opcodeTable[0xAC] = opLODS
	opcodeTable[0xAD] = opLODS
	opcodeTable[0xAE] = opSCAS
	opcodeTable[0xAF] = opSCAS
}

// The string primitives execute at most one element per Step. A REP
// prefix drives the loop by re-execution: after an element, if the
// repeat condition still holds, IP is rewound to the string opcode and
// the prefix state stays armed; otherwise IP stays past the opcode and
// Step releases the prefixes. The source segment is DS (overridable);
// the ES destination of MOVS/STOS/SCAS/CMPS is fixed.

// stringSkip reports whether an armed REP with CX=0 elides the element
// entirely. IP is already past the opcode, so simply returning
// finishes the instruction.
func (c *CPU) stringSkip() bool {
	return c.rep != repNone && c.reg.CX == 0
}

// stringStep advances an index register by the element size in the
// direction DF selects.
func (c *CPU) stringStep(idx *uint16, sz Size) {
	if c.getFlag(FlagDF) {
		*idx -= uint16(sz)
	} else {
		*idx += uint16(sz)
	}
}

// stringRepeat applies the REP protocol after one element. usesZF is
// true for CMPS/SCAS, whose REPZ/REPNZ forms also test ZF.
func (c *CPU) stringRepeat(usesZF bool) {
	if c.rep == repNone {
		return
	}
	c.reg.CX--
	again := c.reg.CX != 0
	if again && usesZF {
		if c.rep == repZ {
			again = c.getFlag(FlagZF)
		} else {
			again = !c.getFlag(FlagZF)
		}
	}
	if again {
		c.reg.IP = c.opcodeIP
		c.repContinue = true
	}
}

func opMOVS(c *CPU) {
	if c.stringSkip() {
		return
	}
	sz := opSize(c.opcode)
	v := c.mem.read(sz, physical(c.dataSeg(), c.reg.SI))
	c.mem.write(sz, physical(c.reg.ES, c.reg.DI), v)
	c.stringStep(&c.reg.SI, sz)
	c.stringStep(&c.reg.DI, sz)
	c.stringRepeat(false)
}

func opLODS(c *CPU) {
	if c.stringSkip() {
		return
	}
	sz := opSize(c.opcode)
	c.setReg(0, sz, c.mem.read(sz, physical(c.dataSeg(), c.reg.SI)))
	c.stringStep(&c.reg.SI, sz)
	c.stringRepeat(false)
}

func opSTOS(c *CPU) {
	if c.stringSkip() {
		return
	}
	sz := opSize(c.opcode)
	c.mem.write(sz, physical(c.reg.ES, c.reg.DI), c.getReg(0, sz))
	c.stringStep(&c.reg.DI, sz)
	c.stringRepeat(false)
}

// opCMPS compares [SI] against ES:[DI] like a SUB that discards its
// result.
func opCMPS(c *CPU) {
	if c.stringSkip() {
		return
	}
	sz := opSize(c.opcode)
	s := c.mem.read(sz, physical(c.dataSeg(), c.reg.SI))
	d := c.mem.read(sz, physical(c.reg.ES, c.reg.DI))
	c.setFlagsSub(d, s, s-d, sz)
	c.stringStep(&c.reg.SI, sz)
	c.stringStep(&c.reg.DI, sz)
	c.stringRepeat(true)
}

// opSCAS compares the accumulator against ES:[DI].
func opSCAS(c *CPU) {
	if c.stringSkip() {
		return
	}
	sz := opSize(c.opcode)
	a := c.getReg(0, sz)
	d := c.mem.read(sz, physical(c.reg.ES, c.reg.DI))
	c.setFlagsSub(d, a, a-d, sz)
	c.stringStep(&c.reg.DI, sz)
	c.stringRepeat(true)
}
