package cpu

// getOperandAddress resolves the operand for mode, advancing PC past the
// operand bytes, and returns the effective address plus whether the
// operand is the accumulator itself (in which case addr is unused).
//
// Addressing modes are resolved here exactly once per instruction; the
// instruction body in opcodes.go then reads/writes through it at the
// width appropriate to that opcode. Immediate modes resolve to the
// address of the operand bytes in the instruction stream itself, which
// lets the same readSized/writeSized helpers serve immediate and memory
// operands alike.
func (c *CPU) getOperandAddress(mode AddressingMode) (Addr24, bool) {
	switch mode {
	case ModeImplied:
		return Addr24{}, false

	case ModeAccumulator:
		return Addr24{}, true

	case ModeImmediateM:
		addr := Addr24{Bank: c.PBR, Off: c.PC}
		if c.M {
			c.PC++
		} else {
			c.PC += 2
		}
		return addr, false

	case ModeImmediateX:
		addr := Addr24{Bank: c.PBR, Off: c.PC}
		if c.Xf {
			c.PC++
		} else {
			c.PC += 2
		}
		return addr, false

	case ModeImmediate8:
		addr := Addr24{Bank: c.PBR, Off: c.PC}
		c.PC++
		return addr, false

	case ModeImmediate16:
		addr := Addr24{Bank: c.PBR, Off: c.PC}
		c.PC += 2
		return addr, false

	case ModeDP:
		dp := c.fetch8()
		return Addr24{Bank: 0, Off: c.directPage(dp, 0)}, false

	case ModeDPX:
		dp := c.fetch8()
		return Addr24{Bank: 0, Off: c.directPage(dp, c.getX())}, false

	case ModeDPY:
		dp := c.fetch8()
		return Addr24{Bank: 0, Off: c.directPage(dp, c.getY())}, false

	case ModeDPIndirect:
		dp := c.fetch8()
		base := c.directPage(dp, 0)
		ptr := c.readDPPointer16(base)
		return Addr24{Bank: c.DBR, Off: ptr}, false

	case ModeDPIndirectX:
		dp := c.fetch8()
		base := c.directPage(dp, c.getX())
		ptr := c.readDPPointer16(base)
		return Addr24{Bank: c.DBR, Off: ptr}, false

	case ModeDPIndirectY:
		dp := c.fetch8()
		base := c.directPage(dp, 0)
		ptr := c.readDPPointer16(base)
		off := ptr + uint16(c.getY())
		return Addr24{Bank: c.DBR, Off: off}, false

	case ModeDPIndirectLong:
		dp := c.fetch8()
		base := c.directPage(dp, 0)
		return c.readDPPointer24(base), false

	case ModeDPIndirectLongY:
		dp := c.fetch8()
		base := c.directPage(dp, 0)
		ptr := c.readDPPointer24(base)
		return longAdd(ptr, int32(c.getY())), false

	case ModeAbs:
		off := c.fetch16()
		return Addr24{Bank: c.DBR, Off: off}, false

	case ModeAbsX:
		off := c.fetch16()
		return Addr24{Bank: c.DBR, Off: off + uint16(c.getX())}, false

	case ModeAbsY:
		off := c.fetch16()
		return Addr24{Bank: c.DBR, Off: off + uint16(c.getY())}, false

	case ModeAbsLong:
		return c.fetch24(), false

	case ModeAbsLongX:
		addr := c.fetch24()
		return longAdd(addr, int32(c.getX())), false

	case ModeAbsIndirect: // JMP (abs): pointer always fetched from bank 0
		ptrOff := c.fetch16()
		ptr := c.readSized(Addr24{Bank: 0, Off: ptrOff}, false)
		return Addr24{Bank: c.PBR, Off: uint16(ptr)}, false

	case ModeAbsIndirectX: // JMP/JSR (abs,X): pointer fetched from PBR
		ptrOff := c.fetch16()
		ptrAddr := Addr24{Bank: c.PBR, Off: ptrOff + uint16(c.getX())}
		ptr := c.readSized(ptrAddr, false)
		return Addr24{Bank: c.PBR, Off: uint16(ptr)}, false

	case ModeAbsIndirectLong: // JML [abs]: 24-bit pointer from bank 0
		ptrOff := c.fetch16()
		lo := c.bus.Read8(Addr24{Bank: 0, Off: ptrOff})
		mid := c.bus.Read8(Addr24{Bank: 0, Off: ptrOff + 1})
		bank := c.bus.Read8(Addr24{Bank: 0, Off: ptrOff + 2})
		return Addr24{Bank: bank, Off: uint16(mid)<<8 | uint16(lo)}, false

	case ModeStackRel:
		d := c.fetch8()
		return Addr24{Bank: 0, Off: c.S + uint16(d)}, false

	case ModeStackRelIndirectY:
		d := c.fetch8()
		base := c.S + uint16(d)
		ptr := c.readDPPointer16(base)
		return Addr24{Bank: c.DBR, Off: ptr + uint16(c.getY())}, false

	case ModeRel8:
		disp := int8(c.fetch8())
		return Addr24{Bank: c.PBR, Off: uint16(int32(c.PC) + int32(disp))}, false

	case ModeRel16:
		disp := int16(c.fetch16())
		return Addr24{Bank: c.PBR, Off: uint16(int32(c.PC) + int32(disp))}, false

	case ModePEI:
		dp := c.fetch8()
		return Addr24{Bank: 0, Off: c.directPage(dp, 0)}, false

	case ModeBlockMove:
		// MVN/MVP operands are the two bank bytes; the instruction body
		// fetches them directly since there is no single effective
		// address to resolve here.
		return Addr24{}, false
	}
	return Addr24{}, false
}
