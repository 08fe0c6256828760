package x86

import "testing"

// newTestCPU builds a fresh session with the program loaded at
// 0000:0100 and a stack placed high in segment 0.
func newTestCPU(program ...byte) (*CPU, *Memory, *Output) {
	mem := NewMemory()
	out := NewOutput(DefaultOutputCap)
	cpu := New(mem, out)
	cpu.Load(program)
	cpu.reg.SP = 0xFFFE
	return cpu, mem, out
}

// runUntilHalt steps the CPU until it halts, failing the test if it
// does not within a generous budget.
func runUntilHalt(t *testing.T, c *CPU) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		if c.Step() == StatusHalted {
			return
		}
	}
	t.Fatal("program did not halt")
}

// step runs exactly n Step calls.
func step(c *CPU, n int) {
	for i := 0; i < n; i++ {
		c.Step()
	}
}

// wantFlags checks that every bit of set is 1 and every bit of clear
// is 0 in FLAGS.
func wantFlags(t *testing.T, c *CPU, set, clear uint16) {
	t.Helper()
	if got := c.reg.Flags & set; got != set {
		t.Errorf("FLAGS = %04X, want bits %04X set", c.reg.Flags, set)
	}
	if got := c.reg.Flags & clear; got != 0 {
		t.Errorf("FLAGS = %04X, want bits %04X clear", c.reg.Flags, clear)
	}
}
