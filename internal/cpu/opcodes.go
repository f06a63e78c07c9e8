package cpu

// initInstructions builds the opcode table: mnemonic plus addressing mode
// for all 256 opcodes. The 65C816 has no illegal opcodes (WDM is a
// reserved two-byte NOP; COP is a real software interrupt), so every
// entry is populated.
func (c *CPU) initInstructions() {
	t := &c.instr
	set := func(op uint8, name string, mode AddressingMode) { t[op] = Instruction{name, mode} }

	set(0x00, "BRK", ModeImmediate8)
	set(0x01, "ORA", ModeDPIndirectX)
	set(0x02, "COP", ModeImmediate8)
	set(0x03, "ORA", ModeStackRel)
	set(0x04, "TSB", ModeDP)
	set(0x05, "ORA", ModeDP)
	set(0x06, "ASL", ModeDP)
	set(0x07, "ORA", ModeDPIndirectLong)
	set(0x08, "PHP", ModeImplied)
	set(0x09, "ORA", ModeImmediateM)
	set(0x0A, "ASL", ModeAccumulator)
	set(0x0B, "PHD", ModeImplied)
	set(0x0C, "TSB", ModeAbs)
	set(0x0D, "ORA", ModeAbs)
	set(0x0E, "ASL", ModeAbs)
	set(0x0F, "ORA", ModeAbsLong)
	set(0x10, "BPL", ModeRel8)
	set(0x11, "ORA", ModeDPIndirectY)
	set(0x12, "ORA", ModeDPIndirect)
	set(0x13, "ORA", ModeStackRelIndirectY)
	set(0x14, "TRB", ModeDP)
	set(0x15, "ORA", ModeDPX)
	set(0x16, "ASL", ModeDPX)
	set(0x17, "ORA", ModeDPIndirectLongY)
	set(0x18, "CLC", ModeImplied)
	set(0x19, "ORA", ModeAbsY)
	set(0x1A, "INC", ModeAccumulator)
	set(0x1B, "TCS", ModeImplied)
	set(0x1C, "TRB", ModeAbs)
	set(0x1D, "ORA", ModeAbsX)
	set(0x1E, "ASL", ModeAbsX)
	set(0x1F, "ORA", ModeAbsLongX)
	set(0x20, "JSR", ModeAbs)
	set(0x21, "AND", ModeDPIndirectX)
	set(0x22, "JSL", ModeAbsLong)
	set(0x23, "AND", ModeStackRel)
	set(0x24, "BIT", ModeDP)
	set(0x25, "AND", ModeDP)
	set(0x26, "ROL", ModeDP)
	set(0x27, "AND", ModeDPIndirectLong)
	set(0x28, "PLP", ModeImplied)
	set(0x29, "AND", ModeImmediateM)
	set(0x2A, "ROL", ModeAccumulator)
	set(0x2B, "PLD", ModeImplied)
	set(0x2C, "BIT", ModeAbs)
	set(0x2D, "AND", ModeAbs)
	set(0x2E, "ROL", ModeAbs)
	set(0x2F, "AND", ModeAbsLong)
	set(0x30, "BMI", ModeRel8)
	set(0x31, "AND", ModeDPIndirectY)
	set(0x32, "AND", ModeDPIndirect)
	set(0x33, "AND", ModeStackRelIndirectY)
	set(0x34, "BIT", ModeDPX)
	set(0x35, "AND", ModeDPX)
	set(0x36, "ROL", ModeDPX)
	set(0x37, "AND", ModeDPIndirectLongY)
	set(0x38, "SEC", ModeImplied)
	set(0x39, "AND", ModeAbsY)
	set(0x3A, "DEC", ModeAccumulator)
	set(0x3B, "TSC", ModeImplied)
	set(0x3C, "BIT", ModeAbsX)
	set(0x3D, "AND", ModeAbsX)
	set(0x3E, "ROL", ModeAbsX)
	set(0x3F, "AND", ModeAbsLongX)
	set(0x40, "RTI", ModeImplied)
	set(0x41, "EOR", ModeDPIndirectX)
	set(0x42, "WDM", ModeImmediate8)
	set(0x43, "EOR", ModeStackRel)
	set(0x44, "MVP", ModeBlockMove)
	set(0x45, "EOR", ModeDP)
	set(0x46, "LSR", ModeDP)
	set(0x47, "EOR", ModeDPIndirectLong)
	set(0x48, "PHA", ModeImplied)
	set(0x49, "EOR", ModeImmediateM)
	set(0x4A, "LSR", ModeAccumulator)
	set(0x4B, "PHK", ModeImplied)
	set(0x4C, "JMP", ModeAbs)
	set(0x4D, "EOR", ModeAbs)
	set(0x4E, "LSR", ModeAbs)
	set(0x4F, "EOR", ModeAbsLong)
	set(0x50, "BVC", ModeRel8)
	set(0x51, "EOR", ModeDPIndirectY)
	set(0x52, "EOR", ModeDPIndirect)
	set(0x53, "EOR", ModeStackRelIndirectY)
	set(0x54, "MVN", ModeBlockMove)
	set(0x55, "EOR", ModeDPX)
	set(0x56, "LSR", ModeDPX)
	set(0x57, "EOR", ModeDPIndirectLongY)
	set(0x58, "CLI", ModeImplied)
	set(0x59, "EOR", ModeAbsY)
	set(0x5A, "PHY", ModeImplied)
	set(0x5B, "TCD", ModeImplied)
	set(0x5C, "JML", ModeAbsLong)
	set(0x5D, "EOR", ModeAbsX)
	set(0x5E, "LSR", ModeAbsX)
	set(0x5F, "EOR", ModeAbsLongX)
	set(0x60, "RTS", ModeImplied)
	set(0x61, "ADC", ModeDPIndirectX)
	set(0x62, "PER", ModeRel16)
	set(0x63, "ADC", ModeStackRel)
	set(0x64, "STZ", ModeDP)
	set(0x65, "ADC", ModeDP)
	set(0x66, "ROR", ModeDP)
	set(0x67, "ADC", ModeDPIndirectLong)
	set(0x68, "PLA", ModeImplied)
	set(0x69, "ADC", ModeImmediateM)
	set(0x6A, "ROR", ModeAccumulator)
	set(0x6B, "RTL", ModeImplied)
	set(0x6C, "JMP", ModeAbsIndirect)
	set(0x6D, "ADC", ModeAbs)
	set(0x6E, "ROR", ModeAbs)
	set(0x6F, "ADC", ModeAbsLong)
	set(0x70, "BVS", ModeRel8)
	set(0x71, "ADC", ModeDPIndirectY)
	set(0x72, "ADC", ModeDPIndirect)
	set(0x73, "ADC", ModeStackRelIndirectY)
	set(0x74, "STZ", ModeDPX)
	set(0x75, "ADC", ModeDPX)
	set(0x76, "ROR", ModeDPX)
	set(0x77, "ADC", ModeDPIndirectLongY)
	set(0x78, "SEI", ModeImplied)
	set(0x79, "ADC", ModeAbsY)
	set(0x7A, "PLY", ModeImplied)
	set(0x7B, "TDC", ModeImplied)
	set(0x7C, "JMP", ModeAbsIndirectX)
	set(0x7D, "ADC", ModeAbsX)
	set(0x7E, "ROR", ModeAbsX)
	set(0x7F, "ADC", ModeAbsLongX)
	set(0x80, "BRA", ModeRel8)
	set(0x81, "STA", ModeDPIndirectX)
	set(0x82, "BRL", ModeRel16)
	set(0x83, "STA", ModeStackRel)
	set(0x84, "STY", ModeDP)
	set(0x85, "STA", ModeDP)
	set(0x86, "STX", ModeDP)
	set(0x87, "STA", ModeDPIndirectLong)
	set(0x88, "DEY", ModeImplied)
	set(0x89, "BIT", ModeImmediateM)
	set(0x8A, "TXA", ModeImplied)
	set(0x8B, "PHB", ModeImplied)
	set(0x8C, "STY", ModeAbs)
	set(0x8D, "STA", ModeAbs)
	set(0x8E, "STX", ModeAbs)
	set(0x8F, "STA", ModeAbsLong)
	set(0x90, "BCC", ModeRel8)
	set(0x91, "STA", ModeDPIndirectY)
	set(0x92, "STA", ModeDPIndirect)
	set(0x93, "STA", ModeStackRelIndirectY)
	set(0x94, "STY", ModeDPX)
	set(0x95, "STA", ModeDPX)
	set(0x96, "STX", ModeDPY)
	set(0x97, "STA", ModeDPIndirectLongY)
	set(0x98, "TYA", ModeImplied)
	set(0x99, "STA", ModeAbsY)
	set(0x9A, "TXS", ModeImplied)
	set(0x9B, "TXY", ModeImplied)
	set(0x9C, "STZ", ModeAbs)
	set(0x9D, "STA", ModeAbsX)
	set(0x9E, "STZ", ModeAbsX)
	set(0x9F, "STA", ModeAbsLongX)
	set(0xA0, "LDY", ModeImmediateX)
	set(0xA1, "LDA", ModeDPIndirectX)
	set(0xA2, "LDX", ModeImmediateX)
	set(0xA3, "LDA", ModeStackRel)
	set(0xA4, "LDY", ModeDP)
	set(0xA5, "LDA", ModeDP)
	set(0xA6, "LDX", ModeDP)
	set(0xA7, "LDA", ModeDPIndirectLong)
	set(0xA8, "TAY", ModeImplied)
	set(0xA9, "LDA", ModeImmediateM)
	set(0xAA, "TAX", ModeImplied)
	set(0xAB, "PLB", ModeImplied)
	set(0xAC, "LDY", ModeAbs)
	set(0xAD, "LDA", ModeAbs)
	set(0xAE, "LDX", ModeAbs)
	set(0xAF, "LDA", ModeAbsLong)
	set(0xB0, "BCS", ModeRel8)
	set(0xB1, "LDA", ModeDPIndirectY)
	set(0xB2, "LDA", ModeDPIndirect)
	set(0xB3, "LDA", ModeStackRelIndirectY)
	set(0xB4, "LDY", ModeDPX)
	set(0xB5, "LDA", ModeDPX)
	set(0xB6, "LDX", ModeDPY)
	set(0xB7, "LDA", ModeDPIndirectLongY)
	set(0xB8, "CLV", ModeImplied)
	set(0xB9, "LDA", ModeAbsY)
	set(0xBA, "TSX", ModeImplied)
	set(0xBB, "TYX", ModeImplied)
	set(0xBC, "LDY", ModeAbsX)
	set(0xBD, "LDA", ModeAbsX)
	set(0xBE, "LDX", ModeAbsY)
	set(0xBF, "LDA", ModeAbsLongX)
	set(0xC0, "CPY", ModeImmediateX)
	set(0xC1, "CMP", ModeDPIndirectX)
	set(0xC2, "REP", ModeImmediate8)
	set(0xC3, "CMP", ModeStackRel)
	set(0xC4, "CPY", ModeDP)
	set(0xC5, "CMP", ModeDP)
	set(0xC6, "DEC", ModeDP)
	set(0xC7, "CMP", ModeDPIndirectLong)
	set(0xC8, "INY", ModeImplied)
	set(0xC9, "CMP", ModeImmediateM)
	set(0xCA, "DEX", ModeImplied)
	set(0xCB, "WAI", ModeImplied)
	set(0xCC, "CPY", ModeAbs)
	set(0xCD, "CMP", ModeAbs)
	set(0xCE, "DEC", ModeAbs)
	set(0xCF, "CMP", ModeAbsLong)
	set(0xD0, "BNE", ModeRel8)
	set(0xD1, "CMP", ModeDPIndirectY)
	set(0xD2, "CMP", ModeDPIndirect)
	set(0xD3, "CMP", ModeStackRelIndirectY)
	set(0xD4, "PEI", ModePEI)
	set(0xD5, "CMP", ModeDPX)
	set(0xD6, "DEC", ModeDPX)
	set(0xD7, "CMP", ModeDPIndirectLongY)
	set(0xD8, "CLD", ModeImplied)
	set(0xD9, "CMP", ModeAbsY)
	set(0xDA, "PHX", ModeImplied)
	set(0xDB, "STP", ModeImplied)
	set(0xDC, "JML", ModeAbsIndirectLong)
	set(0xDD, "CMP", ModeAbsX)
	set(0xDE, "DEC", ModeAbsX)
	set(0xDF, "CMP", ModeAbsLongX)
	set(0xE0, "CPX", ModeImmediateX)
	set(0xE1, "SBC", ModeDPIndirectX)
	set(0xE2, "SEP", ModeImmediate8)
	set(0xE3, "SBC", ModeStackRel)
	set(0xE4, "CPX", ModeDP)
	set(0xE5, "SBC", ModeDP)
	set(0xE6, "INC", ModeDP)
	set(0xE7, "SBC", ModeDPIndirectLong)
	set(0xE8, "INX", ModeImplied)
	set(0xE9, "SBC", ModeImmediateM)
	set(0xEA, "NOP", ModeImplied)
	set(0xEB, "XBA", ModeImplied)
	set(0xEC, "CPX", ModeAbs)
	set(0xED, "SBC", ModeAbs)
	set(0xEE, "INC", ModeAbs)
	set(0xEF, "SBC", ModeAbsLong)
	set(0xF0, "BEQ", ModeRel8)
	set(0xF1, "SBC", ModeDPIndirectY)
	set(0xF2, "SBC", ModeDPIndirect)
	set(0xF3, "SBC", ModeStackRelIndirectY)
	set(0xF4, "PEA", ModeImmediate16)
	set(0xF5, "SBC", ModeDPX)
	set(0xF6, "INC", ModeDPX)
	set(0xF7, "SBC", ModeDPIndirectLongY)
	set(0xF8, "SED", ModeImplied)
	set(0xF9, "SBC", ModeAbsY)
	set(0xFA, "PLX", ModeImplied)
	set(0xFB, "XCE", ModeImplied)
	set(0xFC, "JSR", ModeAbsIndirectX)
	set(0xFD, "SBC", ModeAbsX)
	set(0xFE, "INC", ModeAbsX)
	set(0xFF, "SBC", ModeAbsLongX)
}

var oraOpcodes = map[uint8]bool{
	0x01: true, 0x03: true, 0x05: true, 0x07: true, 0x09: true, 0x0D: true,
	0x0F: true, 0x11: true, 0x12: true, 0x13: true, 0x15: true, 0x17: true,
	0x19: true, 0x1D: true, 0x1F: true,
}

var andOpcodes = map[uint8]bool{
	0x21: true, 0x23: true, 0x25: true, 0x27: true, 0x29: true, 0x2D: true,
	0x2F: true, 0x31: true, 0x32: true, 0x33: true, 0x35: true, 0x37: true,
	0x39: true, 0x3D: true, 0x3F: true,
}

var eorOpcodes = map[uint8]bool{
	0x41: true, 0x43: true, 0x45: true, 0x47: true, 0x49: true, 0x4D: true,
	0x4F: true, 0x51: true, 0x52: true, 0x53: true, 0x55: true, 0x57: true,
	0x59: true, 0x5D: true, 0x5F: true,
}

var ldaOpcodes = map[uint8]bool{
	0xA1: true, 0xA3: true, 0xA5: true, 0xA7: true, 0xA9: true, 0xAD: true,
	0xAF: true, 0xB1: true, 0xB2: true, 0xB3: true, 0xB5: true, 0xB7: true,
	0xB9: true, 0xBD: true, 0xBF: true,
}

var staOpcodes = map[uint8]bool{
	0x81: true, 0x83: true, 0x85: true, 0x87: true, 0x8D: true, 0x8F: true,
	0x91: true, 0x92: true, 0x93: true, 0x95: true, 0x97: true, 0x99: true,
	0x9D: true, 0x9F: true,
}

var adcOpcodes = map[uint8]bool{
	0x61: true, 0x63: true, 0x65: true, 0x67: true, 0x69: true, 0x6D: true,
	0x6F: true, 0x71: true, 0x72: true, 0x73: true, 0x75: true, 0x77: true,
	0x79: true, 0x7D: true, 0x7F: true,
}

var sbcOpcodes = map[uint8]bool{
	0xE1: true, 0xE3: true, 0xE5: true, 0xE7: true, 0xE9: true, 0xED: true,
	0xEF: true, 0xF1: true, 0xF2: true, 0xF3: true, 0xF5: true, 0xF7: true,
	0xF9: true, 0xFD: true, 0xFF: true,
}

var cmpOpcodes = map[uint8]bool{
	0xC1: true, 0xC3: true, 0xC5: true, 0xC7: true, 0xC9: true, 0xCD: true,
	0xCF: true, 0xD1: true, 0xD2: true, 0xD3: true, 0xD5: true, 0xD7: true,
	0xD9: true, 0xDD: true, 0xDF: true,
}

var ascShiftOpcodes = map[uint8]bool{0x06: true, 0x16: true, 0x0E: true, 0x1E: true}
var lsrMemOpcodes = map[uint8]bool{0x46: true, 0x56: true, 0x4E: true, 0x5E: true}
var rolMemOpcodes = map[uint8]bool{0x26: true, 0x36: true, 0x2E: true, 0x3E: true}
var rorMemOpcodes = map[uint8]bool{0x66: true, 0x76: true, 0x6E: true, 0x7E: true}
var incMemOpcodes = map[uint8]bool{0xE6: true, 0xF6: true, 0xEE: true, 0xFE: true}
var decMemOpcodes = map[uint8]bool{0xC6: true, 0xD6: true, 0xCE: true, 0xDE: true}
var bitTestOpcodes = map[uint8]bool{0x24: true, 0x2C: true, 0x34: true, 0x3C: true}

// executeInstruction performs the semantics of opcode, given the already
// resolved operand address (or isAccum for register-direct forms).
func (c *CPU) executeInstruction(opcode uint8, addr Addr24, isAccum bool) error {
	switch {
	case ldaOpcodes[opcode]:
		c.setA(c.readSized(addr, c.M))
		c.setZN(c.getA(), c.M)
		return nil
	case staOpcodes[opcode]:
		c.writeSized(addr, c.getA(), c.M)
		return nil
	case oraOpcodes[opcode]:
		c.setA(c.getA() | c.readSized(addr, c.M))
		c.setZN(c.getA(), c.M)
		return nil
	case andOpcodes[opcode]:
		c.setA(c.getA() & c.readSized(addr, c.M))
		c.setZN(c.getA(), c.M)
		return nil
	case eorOpcodes[opcode]:
		c.setA(c.getA() ^ c.readSized(addr, c.M))
		c.setZN(c.getA(), c.M)
		return nil
	case adcOpcodes[opcode]:
		c.adc(c.readSized(addr, c.M))
		return nil
	case sbcOpcodes[opcode]:
		c.sbc(c.readSized(addr, c.M))
		return nil
	case cmpOpcodes[opcode]:
		c.compare(c.getA(), c.readSized(addr, c.M), c.M)
		return nil
	case ascShiftOpcodes[opcode]:
		v := c.asl(c.readSized(addr, c.M), c.M)
		c.writeSized(addr, v, c.M)
		c.setZN(v, c.M)
		return nil
	case lsrMemOpcodes[opcode]:
		v := c.lsr(c.readSized(addr, c.M), c.M)
		c.writeSized(addr, v, c.M)
		c.setZN(v, c.M)
		return nil
	case rolMemOpcodes[opcode]:
		v := c.rol(c.readSized(addr, c.M), c.M)
		c.writeSized(addr, v, c.M)
		c.setZN(v, c.M)
		return nil
	case rorMemOpcodes[opcode]:
		v := c.ror(c.readSized(addr, c.M), c.M)
		c.writeSized(addr, v, c.M)
		c.setZN(v, c.M)
		return nil
	case incMemOpcodes[opcode]:
		v := c.withWidth(c.readSized(addr, c.M)+1, c.M)
		c.writeSized(addr, v, c.M)
		c.setZN(v, c.M)
		return nil
	case decMemOpcodes[opcode]:
		v := c.withWidth(c.readSized(addr, c.M)-1, c.M)
		c.writeSized(addr, v, c.M)
		c.setZN(v, c.M)
		return nil
	case bitTestOpcodes[opcode]:
		v := c.readSized(addr, c.M)
		c.Z = (c.getA() & v) == 0
		c.N = v&bitMask(c.M, 0x80, 0x8000) != 0
		c.V = v&bitMask(c.M, 0x40, 0x4000) != 0
		return nil
	}

	switch opcode {
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		c.setX(c.readSized(addr, c.Xf))
		c.setZN(c.getX(), c.Xf)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		c.setY(c.readSized(addr, c.Xf))
		c.setZN(c.getY(), c.Xf)
	case 0x86, 0x96, 0x8E:
		c.writeSized(addr, c.getX(), c.Xf)
	case 0x84, 0x94, 0x8C:
		c.writeSized(addr, c.getY(), c.Xf)
	case 0x64, 0x74, 0x9C, 0x9E:
		c.writeSized(addr, 0, c.M)

	case 0xE0, 0xE4, 0xEC:
		c.compare(c.getX(), c.readSized(addr, c.Xf), c.Xf)
	case 0xC0, 0xC4, 0xCC:
		c.compare(c.getY(), c.readSized(addr, c.Xf), c.Xf)
	case 0x89:
		v := c.readSized(addr, c.M)
		c.Z = (c.getA() & v) == 0

	// --- Transfers ---
	case 0xAA: // TAX
		c.setX(c.getA())
		c.setZN(c.getX(), c.Xf)
	case 0xA8: // TAY
		c.setY(c.getA())
		c.setZN(c.getY(), c.Xf)
	case 0x8A: // TXA
		c.setA(c.getX())
		c.setZN(c.getA(), c.M)
	case 0x98: // TYA
		c.setA(c.getY())
		c.setZN(c.getA(), c.M)
	case 0x9B: // TXY
		c.setY(c.getX())
		c.setZN(c.getY(), c.Xf)
	case 0xBB: // TYX
		c.setX(c.getY())
		c.setZN(c.getX(), c.Xf)
	case 0xBA: // TSX
		c.setX(uint32(c.S))
		c.setZN(c.getX(), c.Xf)
	case 0x9A: // TXS
		if c.E {
			c.S = 0x0100 | uint16(uint8(c.getX()))
		} else {
			c.S = uint16(c.getX())
		}
	case 0x5B: // TCD
		c.D = c.A
		c.setZN(uint32(c.D), false)
	case 0x7B: // TDC
		c.A = c.D
		c.setZN(uint32(c.A), false)
	case 0x1B: // TCS
		if c.E {
			c.S = 0x0100 | (c.A & 0xFF)
		} else {
			c.S = c.A
		}
	case 0x3B: // TSC
		c.A = c.S
		c.setZN(uint32(c.A), false)
	case 0xEB: // XBA
		lo := uint8(c.A)
		hi := uint8(c.A >> 8)
		c.A = uint16(lo)<<8 | uint16(hi)
		c.Z = hi == 0
		c.N = hi&0x80 != 0

	// --- Stack ---
	case 0x48: // PHA
		if c.M {
			c.push8(uint8(c.getA()))
		} else {
			c.push16(uint16(c.getA()))
		}
	case 0x68: // PLA
		if c.M {
			c.setA(uint32(c.pull8()))
		} else {
			c.setA(uint32(c.pull16()))
		}
		c.setZN(c.getA(), c.M)
	case 0xDA: // PHX
		if c.Xf {
			c.push8(uint8(c.getX()))
		} else {
			c.push16(uint16(c.getX()))
		}
	case 0xFA: // PLX
		if c.Xf {
			c.setX(uint32(c.pull8()))
		} else {
			c.setX(uint32(c.pull16()))
		}
		c.setZN(c.getX(), c.Xf)
	case 0x5A: // PHY
		if c.Xf {
			c.push8(uint8(c.getY()))
		} else {
			c.push16(uint16(c.getY()))
		}
	case 0x7A: // PLY
		if c.Xf {
			c.setY(uint32(c.pull8()))
		} else {
			c.setY(uint32(c.pull16()))
		}
		c.setZN(c.getY(), c.Xf)
	case 0x08: // PHP
		c.push8(c.GetP())
	case 0x28: // PLP
		c.SetP(c.pull8())
	case 0x0B: // PHD
		c.push16(c.D)
	case 0x2B: // PLD
		c.D = c.pull16()
		c.setZN(uint32(c.D), false)
	case 0x4B: // PHK
		c.push8(c.PBR)
	case 0x8B: // PHB
		c.push8(c.DBR)
	case 0xAB: // PLB
		c.DBR = c.pull8()
		c.setZN(uint32(c.DBR), true)
	case 0xF4: // PEA: push the 16-bit immediate operand verbatim
		c.push16(uint16(c.readSized(addr, false)))
	case 0xD4: // PEI: push the word at the resolved direct-page address
		c.push16(uint16(c.readSized(addr, false)))
	case 0x62: // PER: push PC-relative target address
		c.push16(addr.Off)

	// --- Flags ---
	case 0x18:
		c.C = false
	case 0x38:
		c.C = true
	case 0x58:
		c.I = false
	case 0x78:
		c.I = true
	case 0xB8:
		c.V = false
	case 0xD8:
		c.D_ = false
	case 0xF8:
		c.D_ = true
	case 0xC2: // REP
		c.rep(c.bus.Read8(addr))
	case 0xE2: // SEP
		c.sep(c.bus.Read8(addr))
	case 0xFB: // XCE
		c.xce()

	// --- Increment/decrement registers ---
	case 0x1A: // INC A
		c.setA(c.withWidth(c.getA()+1, c.M))
		c.setZN(c.getA(), c.M)
	case 0x3A: // DEC A
		c.setA(c.withWidth(c.getA()-1, c.M))
		c.setZN(c.getA(), c.M)
	case 0xE8:
		c.setX(c.withWidth(c.getX()+1, c.Xf))
		c.setZN(c.getX(), c.Xf)
	case 0xC8:
		c.setY(c.withWidth(c.getY()+1, c.Xf))
		c.setZN(c.getY(), c.Xf)
	case 0xCA:
		c.setX(c.withWidth(c.getX()-1, c.Xf))
		c.setZN(c.getX(), c.Xf)
	case 0x88:
		c.setY(c.withWidth(c.getY()-1, c.Xf))
		c.setZN(c.getY(), c.Xf)

	// --- Shifts on the accumulator ---
	case 0x0A:
		c.setA(c.asl(c.getA(), c.M))
		c.setZN(c.getA(), c.M)
	case 0x4A:
		c.setA(c.lsr(c.getA(), c.M))
		c.setZN(c.getA(), c.M)
	case 0x2A:
		c.setA(c.rol(c.getA(), c.M))
		c.setZN(c.getA(), c.M)
	case 0x6A:
		c.setA(c.ror(c.getA(), c.M))
		c.setZN(c.getA(), c.M)

	// --- TSB/TRB ---
	case 0x04, 0x0C:
		v := c.readSized(addr, c.M)
		c.Z = (c.getA() & v) == 0
		c.writeSized(addr, v|c.getA(), c.M)
	case 0x14, 0x1C:
		v := c.readSized(addr, c.M)
		c.Z = (c.getA() & v) == 0
		c.writeSized(addr, v&^c.getA(), c.M)

	// --- Branches ---
	case 0x10:
		c.branch(!c.N, addr)
	case 0x30:
		c.branch(c.N, addr)
	case 0x50:
		c.branch(!c.V, addr)
	case 0x70:
		c.branch(c.V, addr)
	case 0x90:
		c.branch(!c.C, addr)
	case 0xB0:
		c.branch(c.C, addr)
	case 0xD0:
		c.branch(!c.Z, addr)
	case 0xF0:
		c.branch(c.Z, addr)
	case 0x80, 0x82: // BRA, BRL
		c.PC = addr.Off

	// --- Jumps / calls / returns ---
	case 0x4C, 0x6C, 0x7C: // JMP
		c.PC = addr.Off
	case 0x5C, 0xDC: // JML
		c.PBR = addr.Bank
		c.PC = addr.Off
	case 0x20, 0xFC: // JSR abs, JSR (abs,X)
		c.push16(c.PC - 1)
		c.PC = addr.Off
	case 0x22: // JSL
		c.push8(c.PBR)
		c.push16(c.PC - 1)
		c.PBR = addr.Bank
		c.PC = addr.Off
	case 0x60: // RTS
		c.PC = c.pull16() + 1
	case 0x6B: // RTL
		c.PC = c.pull16() + 1
		c.PBR = c.pull8()
	case 0x40: // RTI
		c.SetP(c.pull8())
		c.PC = c.pull16()
		if !c.E {
			c.PBR = c.pull8()
		}

	// --- Interrupts / misc ---
	case 0x00: // BRK
		c.serviceInterrupt(interruptBRK)
	case 0x02: // COP
		c.serviceInterrupt(interruptCOP)
	case 0xCB: // WAI
		c.waiting = true
	case 0xDB: // STP
		c.stopped = true
	case 0xEA, 0x42: // NOP, WDM
		// no-op

	case 0x44: // MVP
		c.blockMove(-1)
	case 0x54: // MVN
		c.blockMove(1)

	default:
		return c.decodeError(opcode)
	}
	return nil
}

func (c *CPU) decodeError(opcode uint8) error {
	return &DecodeError{Opcode: opcode, PBR: c.PBR, PC: c.PC - 1}
}

func bitMask(eightBit bool, bit8, bit16 uint32) uint32 {
	if eightBit {
		return bit8
	}
	return bit16
}

func (c *CPU) withWidth(v uint32, eightBit bool) uint32 {
	if eightBit {
		return v & 0xFF
	}
	return v & 0xFFFF
}

func (c *CPU) branch(taken bool, target Addr24) {
	if taken {
		c.PC = target.Off
	}
}

func (c *CPU) compare(reg, mem uint32, eightBit bool) {
	result := reg - mem
	if eightBit {
		c.C = uint8(reg) >= uint8(mem)
		c.setZN(result&0xFF, true)
	} else {
		c.C = uint16(reg) >= uint16(mem)
		c.setZN(result&0xFFFF, false)
	}
}

func (c *CPU) asl(v uint32, eightBit bool) uint32 {
	if eightBit {
		c.C = v&0x80 != 0
		return (v << 1) & 0xFF
	}
	c.C = v&0x8000 != 0
	return (v << 1) & 0xFFFF
}

func (c *CPU) lsr(v uint32, eightBit bool) uint32 {
	c.C = v&1 != 0
	if eightBit {
		return (v & 0xFF) >> 1
	}
	return (v & 0xFFFF) >> 1
}

func (c *CPU) rol(v uint32, eightBit bool) uint32 {
	oldCarry := uint32(0)
	if c.C {
		oldCarry = 1
	}
	if eightBit {
		c.C = v&0x80 != 0
		return ((v << 1) | oldCarry) & 0xFF
	}
	c.C = v&0x8000 != 0
	return ((v << 1) | oldCarry) & 0xFFFF
}

func (c *CPU) ror(v uint32, eightBit bool) uint32 {
	oldCarry := uint32(0)
	if c.C {
		if eightBit {
			oldCarry = 0x80
		} else {
			oldCarry = 0x8000
		}
	}
	newCarry := v&1 != 0
	var result uint32
	if eightBit {
		result = ((v & 0xFF) >> 1) | oldCarry
	} else {
		result = ((v & 0xFFFF) >> 1) | oldCarry
	}
	c.C = newCarry
	return result
}

// adc/sbc implement binary and BCD (decimal-mode) addition/subtraction
// at the accumulator's current width, per spec.md §4.3's arithmetic
// invariants (decimal mode honored when D=1, width-correct flag set).
func (c *CPU) adc(operand uint32) {
	a := c.getA()
	carryIn := uint32(0)
	if c.C {
		carryIn = 1
	}
	if c.D_ {
		c.setA(c.bcdAdd(a, operand, carryIn))
	} else if c.M {
		sum := (a & 0xFF) + (operand & 0xFF) + carryIn
		c.C = sum > 0xFF
		c.V = (^(a^operand)&(a^sum))&0x80 != 0
		c.setA(sum & 0xFF)
	} else {
		sum := a + operand + carryIn
		c.C = sum > 0xFFFF
		c.V = (^(a^operand)&(a^sum))&0x8000 != 0
		c.setA(sum & 0xFFFF)
	}
	c.setZN(c.getA(), c.M)
}

func (c *CPU) sbc(operand uint32) {
	a := c.getA()
	borrowIn := uint32(0)
	if !c.C {
		borrowIn = 1
	}
	if c.D_ {
		c.setA(c.bcdSub(a, operand, borrowIn))
	} else if c.M {
		inv := (^operand) & 0xFF
		sum := (a & 0xFF) + inv + (1 - borrowIn)
		c.C = sum > 0xFF
		c.V = (^(a^inv)&(a^sum))&0x80 != 0
		c.setA(sum & 0xFF)
	} else {
		inv := (^operand) & 0xFFFF
		sum := a + inv + (1 - borrowIn)
		c.C = sum > 0xFFFF
		c.V = (^(a^inv)&(a^sum))&0x8000 != 0
		c.setA(sum & 0xFFFF)
	}
	c.setZN(c.getA(), c.M)
}

// bcdAdd/bcdSub implement nibble-wise BCD arithmetic for the 8-bit and
// 16-bit accumulator widths, matching the 65C816's decimal-mode ADC/SBC.
func (c *CPU) bcdAdd(a, b, carry uint32) uint32 {
	if c.M {
		return bcdAdd8(a, b, carry, &c.C)
	}
	lo := bcdAdd8(a&0xFF, b&0xFF, carry, &c.C)
	var midCarry uint32
	if c.C {
		midCarry = 1
	}
	hi := bcdAdd8((a>>8)&0xFF, (b>>8)&0xFF, midCarry, &c.C)
	return lo | hi<<8
}

func (c *CPU) bcdSub(a, b, borrow uint32) uint32 {
	if c.M {
		return bcdSub8(a, b, borrow, &c.C)
	}
	lo := bcdSub8(a&0xFF, b&0xFF, borrow, &c.C)
	var midBorrow uint32
	if !c.C {
		midBorrow = 1
	}
	hi := bcdSub8((a>>8)&0xFF, (b>>8)&0xFF, midBorrow, &c.C)
	return lo | hi<<8
}

func bcdAdd8(a, b, carry uint32, carryOut *bool) uint32 {
	lowNibble := (a & 0xF) + (b & 0xF) + carry
	highCarry := uint32(0)
	if lowNibble > 9 {
		lowNibble += 6
		highCarry = 1
	}
	highNibble := (a>>4)&0xF + (b>>4)&0xF + highCarry
	*carryOut = highNibble > 9
	if *carryOut {
		highNibble += 6
	}
	return ((highNibble & 0xF) << 4) | (lowNibble & 0xF)
}

func bcdSub8(a, b, borrow uint32, carryOut *bool) uint32 {
	lowNibble := int32(a&0xF) - int32(b&0xF) - int32(borrow)
	highBorrow := int32(0)
	if lowNibble < 0 {
		lowNibble += 10
		highBorrow = 1
	}
	highNibble := int32((a>>4)&0xF) - int32((b>>4)&0xF) - highBorrow
	*carryOut = highNibble >= 0
	if highNibble < 0 {
		highNibble += 10
	}
	return uint32((highNibble&0xF)<<4) | uint32(lowNibble&0xF)
}

// blockMove implements MVN (dir=+1) and MVP (dir=-1): copies one byte
// from src bank:X to dst bank:Y, decrements the 16-bit A counter, and
// repeats the opcode (by not advancing PC past it) until A underflows
// past zero, per standard 65C816 semantics.
func (c *CPU) blockMove(dir int32) {
	dstBank := c.fetch8()
	srcBank := c.fetch8()
	c.DBR = dstBank

	v := c.bus.Read8(Addr24{Bank: srcBank, Off: uint16(c.X)})
	c.bus.Write8(Addr24{Bank: dstBank, Off: uint16(c.Y)}, v)

	c.X = uint16(int32(c.X) + dir)
	c.Y = uint16(int32(c.Y) + dir)
	if c.Xf {
		c.X &= 0xFF
		c.Y &= 0xFF
	}
	c.A--
	if c.A != 0xFFFF {
		c.PC -= 3 // repeat this MVN/MVP until the counter underflows
	}
}
