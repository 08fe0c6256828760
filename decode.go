package x86

// opFunc is the handler signature for a single 8086 instruction.
// The opcode byte is already in c.opcode when called and IP points at
// the first operand byte.
type opFunc func(*CPU)

// opcodeTable is the flat 256-entry dispatch table indexed by the
// primary opcode byte. nil entries are unknown opcodes and halt the
// session with a diagnostic. Prefix bytes never reach this table; the
// Step loop consumes them first.
var opcodeTable [256]opFunc
