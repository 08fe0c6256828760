package x86

import "testing"

// TestJccConditions drives every conditional jump against flag
// patterns on both sides of its condition.
func TestJccConditions(t *testing.T) {
	cases := []struct {
		name   string
		opcode byte
		flags  uint16
		taken  bool
	}{
		{"JO taken", 0x70, FlagOF, true},
		{"JO not taken", 0x70, 0, false},
		{"JNO taken", 0x71, 0, true},
		{"JB taken", 0x72, FlagCF, true},
		{"JB not taken", 0x72, 0, false},
		{"JNB taken", 0x73, 0, true},
		{"JZ taken", 0x74, FlagZF, true},
		{"JZ not taken", 0x74, 0, false},
		{"JNZ taken", 0x75, 0, true},
		{"JBE taken on CF", 0x76, FlagCF, true},
		{"JBE taken on ZF", 0x76, FlagZF, true},
		{"JBE not taken", 0x76, 0, false},
		{"JA taken", 0x77, 0, true},
		{"JA not taken on ZF", 0x77, FlagZF, false},
		{"JS taken", 0x78, FlagSF, true},
		{"JNS taken", 0x79, 0, true},
		{"JP taken", 0x7A, FlagPF, true},
		{"JNP taken", 0x7B, 0, true},
		{"JL taken SF!=OF", 0x7C, FlagSF, true},
		{"JL not taken SF=OF", 0x7C, FlagSF | FlagOF, false},
		{"JGE taken SF=OF", 0x7D, FlagSF | FlagOF, true},
		{"JGE not taken", 0x7D, FlagOF, false},
		{"JLE taken on ZF", 0x7E, FlagZF, true},
		{"JLE taken on SF!=OF", 0x7E, FlagOF, true},
		{"JLE not taken", 0x7E, 0, false},
		{"JG taken", 0x7F, 0, true},
		{"JG not taken on ZF", 0x7F, FlagZF, false},
		{"JG not taken on SF!=OF", 0x7F, FlagSF, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestCPU(tc.opcode, 0x10, 0xF4)
			c.reg.Flags = tc.flags
			c.Step()
			wantIP := uint16(0x0102)
			if tc.taken {
				wantIP = 0x0112
			}
			if c.reg.IP != wantIP {
				t.Errorf("IP = %04X, want %04X", c.reg.IP, wantIP)
			}
		})
	}
}

func TestJccBackward(t *testing.T) {
	// JNZ -3 loops DEC BX until zero: DEC BX; JNZ -3; HLT.
	c, _, _ := newTestCPU(0x4B, 0x75, 0xFD, 0xF4)
	c.reg.BX = 5
	runUntilHalt(t, c)
	if c.reg.BX != 0 {
		t.Errorf("BX = %04X, want 0", c.reg.BX)
	}
}

func TestLoopFamily(t *testing.T) {
	t.Run("LOOP decrements and branches", func(t *testing.T) {
		// INC AX; LOOP -3; HLT
		c, _, _ := newTestCPU(0x40, 0xE2, 0xFD, 0xF4)
		c.reg.CX = 4
		runUntilHalt(t, c)
		if c.reg.AX != 4 || c.reg.CX != 0 {
			t.Errorf("AX/CX = %04X/%04X, want 0004/0000", c.reg.AX, c.reg.CX)
		}
	})
	t.Run("LOOPE needs ZF", func(t *testing.T) {
		// LOOPE +0 with ZF clear: falls through after one decrement.
		c, _, _ := newTestCPU(0xE1, 0x00, 0xF4)
		c.reg.CX = 5
		runUntilHalt(t, c)
		if c.reg.CX != 4 {
			t.Errorf("CX = %04X, want 0004", c.reg.CX)
		}
	})
	t.Run("LOOPNE stops when ZF set", func(t *testing.T) {
		c, _, _ := newTestCPU(0xE0, 0xFE, 0xF4) // LOOPNE -2 (self)
		c.reg.CX = 5
		c.reg.Flags = FlagZF
		runUntilHalt(t, c)
		if c.reg.CX != 4 {
			t.Errorf("CX = %04X, want 0004", c.reg.CX)
		}
	})
	t.Run("JCXZ does not modify CX", func(t *testing.T) {
		c, _, _ := newTestCPU(0xE3, 0x01, 0x90, 0xF4) // JCXZ +1 skips NOP
		c.reg.CX = 0
		c.Step()
		if c.reg.IP != 0x0103 || c.reg.CX != 0 {
			t.Errorf("IP/CX = %04X/%04X, want 0103/0000", c.reg.IP, c.reg.CX)
		}
	})
}

func TestNearJumps(t *testing.T) {
	t.Run("JMP rel8", func(t *testing.T) {
		c, _, _ := newTestCPU(0xEB, 0x02, 0x90, 0x90, 0xF4)
		c.Step()
		if c.reg.IP != 0x0104 {
			t.Errorf("IP = %04X, want 0104", c.reg.IP)
		}
	})
	t.Run("JMP rel16 backward", func(t *testing.T) {
		c, _, _ := newTestCPU(0x90, 0xE9, 0xFC, 0xFF, 0xF4) // JMP -4 -> 0x0100
		c.Step() // NOP
		c.Step() // JMP
		if c.reg.IP != 0x0100 {
			t.Errorf("IP = %04X, want 0100", c.reg.IP)
		}
	})
}

func TestFarTransfers(t *testing.T) {
	t.Run("far JMP loads CS:IP", func(t *testing.T) {
		c, mem, _ := newTestCPU(0xEA, 0x00, 0x02, 0x00, 0x10) // JMP 1000:0200
		mem.WriteU8(physical(0x1000, 0x0200), 0xF4)
		c.Step()
		if c.reg.CS != 0x1000 || c.reg.IP != 0x0200 {
			t.Errorf("CS:IP = %04X:%04X, want 1000:0200", c.reg.CS, c.reg.IP)
		}
		runUntilHalt(t, c)
	})
	t.Run("far CALL pushes CS then IP, RETF unwinds", func(t *testing.T) {
		c, mem, _ := newTestCPU(0x9A, 0x00, 0x02, 0x00, 0x10, 0xF4) // CALL 1000:0200
		sp := c.reg.SP
		mem.WriteU8(physical(0x1000, 0x0200), 0xCB) // RETF
		c.Step()
		if c.reg.CS != 0x1000 || c.reg.IP != 0x0200 {
			t.Fatalf("CS:IP = %04X:%04X, want 1000:0200", c.reg.CS, c.reg.IP)
		}
		// Stack: CS at sp-2, return IP at sp-4.
		if got := mem.ReadU16(physical(0, sp-2)); got != 0x0000 {
			t.Errorf("pushed CS = %04X, want 0000", got)
		}
		if got := mem.ReadU16(physical(0, sp-4)); got != 0x0105 {
			t.Errorf("pushed IP = %04X, want 0105", got)
		}
		c.Step() // RETF
		if c.reg.CS != 0x0000 || c.reg.IP != 0x0105 || c.reg.SP != sp {
			t.Errorf("after RETF: CS:IP = %04X:%04X SP = %04X", c.reg.CS, c.reg.IP, c.reg.SP)
		}
		runUntilHalt(t, c)
	})
}

func TestRETImmReleasesArguments(t *testing.T) {
	// PUSH AX; PUSH AX; CALL sub; HLT ... sub: RET 4
	c, _, _ := newTestCPU(
		0x50,             // PUSH AX
		0x50,             // PUSH AX
		0xE8, 0x01, 0x00, // CALL +1 -> 0x0106
		0xF4, // HLT
		0xC2, 0x04, 0x00, // RET 4
	)
	sp := c.reg.SP
	runUntilHalt(t, c)
	if c.reg.SP != sp {
		t.Errorf("SP = %04X, want %04X (args released)", c.reg.SP, sp)
	}
}

func TestIndirectTransfers(t *testing.T) {
	t.Run("CALL r16", func(t *testing.T) {
		c, mem, _ := newTestCPU(0xFF, 0xD3, 0xF4) // CALL BX
		c.reg.BX = 0x0200
		mem.WriteU8(0x0200, 0xC3) // RET
		c.Step()
		if c.reg.IP != 0x0200 {
			t.Fatalf("IP = %04X, want 0200", c.reg.IP)
		}
		c.Step()
		if c.reg.IP != 0x0102 {
			t.Errorf("IP after RET = %04X, want 0102", c.reg.IP)
		}
	})
	t.Run("JMP far through memory", func(t *testing.T) {
		c, mem, _ := newTestCPU(0xFF, 0x2E, 0x00, 0x04, 0x90) // JMP FAR [0x0400]
		mem.WriteU16(0x0400, 0x0300)
		mem.WriteU16(0x0402, 0x2000)
		mem.WriteU8(physical(0x2000, 0x0300), 0xF4)
		c.Step()
		if c.reg.CS != 0x2000 || c.reg.IP != 0x0300 {
			t.Errorf("CS:IP = %04X:%04X, want 2000:0300", c.reg.CS, c.reg.IP)
		}
	})
}

func TestINTThroughVectorTableAndIRET(t *testing.T) {
	// INT 0x80 vectors through the IVT; the handler IRETs back.
	c, mem, _ := newTestCPU(0xCD, 0x80, 0xF4)
	sp := c.reg.SP
	c.reg.Flags = FlagCF | FlagIF
	mem.WriteU16(0x80*4, 0x0500)   // handler IP
	mem.WriteU16(0x80*4+2, 0x0000) // handler CS
	mem.WriteU8(0x0500, 0xCF)      // IRET

	c.Step() // INT
	if c.reg.IP != 0x0500 || c.reg.CS != 0x0000 {
		t.Fatalf("CS:IP = %04X:%04X, want 0000:0500", c.reg.CS, c.reg.IP)
	}
	if c.getFlag(FlagIF) || c.getFlag(FlagTF) {
		t.Error("INT must clear IF and TF before entering the handler")
	}
	if got := mem.ReadU16(physical(0, sp-6)); got != 0x0102 {
		t.Errorf("pushed return IP = %04X, want 0102", got)
	}

	c.Step() // IRET
	if c.reg.IP != 0x0102 || c.reg.SP != sp {
		t.Errorf("after IRET: IP = %04X SP = %04X, want 0102/%04X", c.reg.IP, c.reg.SP, sp)
	}
	wantFlags(t, c, FlagCF|FlagIF, 0) // flags restored
	runUntilHalt(t, c)
}

func TestINTOOnlyWhenOverflow(t *testing.T) {
	c, mem, _ := newTestCPU(0xCE, 0xF4) // INTO
	mem.WriteU16(4*4, 0x0500)
	mem.WriteU8(0x0500, 0xF4)
	c.Step()
	if c.reg.IP != 0x0101 {
		t.Errorf("INTO without OF must fall through, IP = %04X", c.reg.IP)
	}

	c, mem, _ = newTestCPU(0xCE, 0xF4)
	c.reg.Flags = FlagOF
	mem.WriteU16(4*4, 0x0500)
	mem.WriteU8(0x0500, 0xF4)
	c.Step()
	if c.reg.IP != 0x0500 {
		t.Errorf("INTO with OF must vector, IP = %04X", c.reg.IP)
	}
}
