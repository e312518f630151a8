package rip8

// instruction is a fetched opcode split into its fields
type instruction struct {
	opCode uint16
	// address the opcode was fetched from
	pc uint16

	op, x, y, n byte
	kk          byte
	nnn         uint16
}

func decode(opCode, pc uint16) instruction {
	return instruction{
		opCode: opCode,
		pc:     pc,
		op:     byte((opCode & 0xF000) >> 12),
		x:      byte((opCode & 0x0F00) >> 8),
		y:      byte((opCode & 0x00F0) >> 4),
		n:      byte(opCode & 0x000F),
		kk:     byte(opCode & 0x00FF),
		nnn:    opCode & 0x0FFF,
	}
}

func (in instruction) unknown() error {
	return ErrOpCodeUnknown{
		OpCode: in.opCode,
		Pc:     in.pc,
	}
}

func (in instruction) outOfBounds(address uint) error {
	return ErrAddressOutOfBounds{
		OpCode:  in.opCode,
		Pc:      in.pc,
		Address: address,
	}
}

// checkRange fails when [start, start+length) is not entirely in memory
func (in instruction) checkRange(start uint16, length uint) error {
	if length == 0 {
		return nil
	}
	if last := uint(start) + length - 1; last >= MEMORY_SIZE {
		return in.outOfBounds(last)
	}

	return nil
}

func (cpu *Cpu) executeInstruction(in instruction) error {
	s := cpu.State
	x, y := in.x, in.y

	switch in.op {
	case 0x0:
		switch in.opCode {
		case 0x00E0:
			// CLS :: Clear the display.
			s.Screen.Clear()

		case 0x00EE:
			// RET :: Return from a subroutine.
			if s.Sp == 0 {
				return ErrStackUnderflow
			}
			s.Sp--
			s.Pc = s.Stack[s.Sp]

		default:
			// SYS :: Jump to a machine code routine at nnn.
			// Only the COSMAC VIP could run these; without an interpreter they are unknown.
			if cpu.MachineRoutineInterpreter == nil {
				return in.unknown()
			}
			return cpu.MachineRoutineInterpreter(in.opCode, cpu)
		}

	case 0x1:
		// JP addr :: Jump to location nnn.
		s.Pc = in.nnn

	case 0x2:
		// CALL addr :: Call subroutine at nnn.
		if int(s.Sp) >= len(s.Stack) {
			return ErrStackOverflow
		}
		s.Stack[s.Sp] = s.Pc
		s.Sp++

		s.Pc = in.nnn

	case 0x3:
		// SE Vx, byte :: Skip next instruction if Vx = kk.
		if s.V[x] == in.kk {
			s.Pc += 2
		}

	case 0x4:
		// SNE Vx, byte :: Skip next instruction if Vx != kk.
		if s.V[x] != in.kk {
			s.Pc += 2
		}

	case 0x5:
		// SE Vx, Vy :: Skip next instruction if Vx = Vy.
		if in.n != 0 {
			return in.unknown()
		}
		if s.V[x] == s.V[y] {
			s.Pc += 2
		}

	case 0x6:
		// LD Vx, byte :: Set Vx = kk.
		s.V[x] = in.kk

	case 0x7:
		// ADD Vx, byte :: Set Vx = Vx + kk. VF is not affected.
		s.V[x] += in.kk

	case 0x8:
		return cpu.executeArithmetic(in)

	case 0x9:
		// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
		if in.n != 0 {
			return in.unknown()
		}
		if s.V[x] != s.V[y] {
			s.Pc += 2
		}

	case 0xA:
		// LD I, addr :: Set I = nnn.
		s.I = in.nnn

	case 0xB:
		// JP V0, addr :: Jump to location nnn + V0 or xnn + Vx.
		if cpu.hasQuirk(FlagQuirkJumpUsesVx) {
			s.Pc = uint16(s.V[x]) + in.nnn
		} else {
			s.Pc = uint16(s.V[0]) + in.nnn
		}

	case 0xC:
		// RND Vx, byte :: Set Vx = random byte AND kk.
		r, err := cpu.Random.RandomByte()
		if err != nil {
			return err
		}
		s.V[x] = r & in.kk

	case 0xD:
		// DRW Vx, Vy, nibble :: Display n-byte sprite starting at memory location I at (Vx, Vy), set VF = collision.
		// Sprites are XORed onto the existing screen and wrap around its edges.
		if err := in.checkRange(s.I, uint(in.n)); err != nil {
			return err
		}
		px, py := int(s.V[x]), int(s.V[y])
		collision := false
		for row := 0; row < int(in.n); row++ {
			if s.Screen.DrawSprite(px, py+row, s.Memory[s.I+uint16(row)]) {
				collision = true
			}
		}
		s.V[0xF] = bool2byte(collision)
		s.Screen.Dirty = true

	case 0xE:
		switch in.kk {
		case 0x9E:
			// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
			if s.Keys.IsPressed(s.V[x]) {
				s.Pc += 2
			}
		case 0xA1:
			// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
			if !s.Keys.IsPressed(s.V[x]) {
				s.Pc += 2
			}
		default:
			return in.unknown()
		}

	case 0xF:
		return cpu.executeMisc(in)

	default:
		return in.unknown()
	}

	return nil
}

// executeArithmetic runs the inter-register operations, 8xyN
func (cpu *Cpu) executeArithmetic(in instruction) error {
	s := cpu.State
	x, y := in.x, in.y

	switch in.n {
	case 0x0:
		// LD Vx, Vy :: Set Vx = Vy.
		s.V[x] = s.V[y]

	case 0x1:
		// OR Vx, Vy :: Set Vx = Vx OR Vy.
		s.V[x] |= s.V[y]
		if cpu.hasQuirk(FlagQuirkVfReset) {
			s.V[0xF] = 0
		}

	case 0x2:
		// AND Vx, Vy :: Set Vx = Vx AND Vy.
		s.V[x] &= s.V[y]
		if cpu.hasQuirk(FlagQuirkVfReset) {
			s.V[0xF] = 0
		}

	case 0x3:
		// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
		s.V[x] ^= s.V[y]
		if cpu.hasQuirk(FlagQuirkVfReset) {
			s.V[0xF] = 0
		}

	case 0x4:
		// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
		r := uint16(s.V[x]) + uint16(s.V[y])
		s.V[0xF] = bool2byte(r > 0xFF)
		s.V[x] = byte(r)

	case 0x5:
		// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = NOT borrow.
		r := s.V[x] - s.V[y]
		s.V[0xF] = bool2byte(s.V[x] > s.V[y])
		s.V[x] = r

	case 0x6:
		// SHR Vx {, Vy} :: Set Vx = Vy SHR 1, VF = the bit shifted out.
		if cpu.hasQuirk(FlagQuirkShiftWithVy) {
			s.V[x] = s.V[y]
		}
		carry := s.V[x] & 0b00000001
		s.V[x] >>= 1
		s.V[0xF] = carry

	case 0x7:
		// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = NOT borrow.
		r := s.V[y] - s.V[x]
		s.V[0xF] = bool2byte(s.V[y] > s.V[x])
		s.V[x] = r

	case 0xE:
		// SHL Vx {, Vy} :: Set Vx = Vy SHL 1, VF = the bit shifted out.
		if cpu.hasQuirk(FlagQuirkShiftWithVy) {
			s.V[x] = s.V[y]
		}
		carry := (s.V[x] & 0b10000000) >> 7
		s.V[x] <<= 1
		s.V[0xF] = carry

	default:
		return in.unknown()
	}

	return nil
}

// executeMisc runs the timer, keyboard and memory operations, FxNN
func (cpu *Cpu) executeMisc(in instruction) error {
	s := cpu.State
	x := in.x

	switch in.kk {
	case 0x07:
		// LD Vx, DT :: Set Vx = delay timer value.
		s.V[x] = s.Dt

	case 0x0A:
		// LD Vx, K :: Wait for a key press, store the value of the key in Vx.
		// The wait never blocks: PC is moved back so that the instruction runs
		// again on the next cycle until the key went down and up again.
		cpu.waitForKey(x)

	case 0x15:
		// LD DT, Vx :: Set delay timer = Vx.
		s.Dt = s.V[x]

	case 0x18:
		// LD ST, Vx :: Set sound timer = Vx.
		s.St = s.V[x]
		if s.St > 0 {
			cpu.Buzzer.Play()
		} else {
			cpu.Buzzer.Stop()
		}

	case 0x1E:
		// ADD I, Vx :: Set I = I + Vx.
		i := uint(s.I) + uint(s.V[x])
		if i >= MEMORY_SIZE {
			return in.outOfBounds(i)
		}
		s.I = uint16(i)

	case 0x29:
		// LD F, Vx :: Set I = location of sprite for digit Vx.
		s.I = FontAddress(s.V[x])

	case 0x33:
		// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
		if err := in.checkRange(s.I, 3); err != nil {
			return err
		}
		v := s.V[x]
		s.Memory[s.I+0] = v / 100
		s.Memory[s.I+1] = (v / 10) % 10
		s.Memory[s.I+2] = v % 10

	case 0x55:
		// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
		if err := in.checkRange(s.I, uint(x)+1); err != nil {
			return err
		}
		for i := uint16(0); i <= uint16(x); i++ {
			s.Memory[s.I+i] = s.V[i]
		}
		if cpu.hasQuirk(FlagQuirkMemoryMovesIndex) {
			s.I += uint16(x) + 1
		}

	case 0x65:
		// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
		if err := in.checkRange(s.I, uint(x)+1); err != nil {
			return err
		}
		for i := uint16(0); i <= uint16(x); i++ {
			s.V[i] = s.Memory[s.I+i]
		}
		if cpu.hasQuirk(FlagQuirkMemoryMovesIndex) {
			s.I += uint16(x) + 1
		}

	default:
		return in.unknown()
	}

	return nil
}

func (cpu *Cpu) waitForKey(x byte) {
	s := cpu.State

	switch s.Wait.Phase {
	case WaitNone, WaitPress:
		s.Wait.Phase = WaitPress
		for k, down := range s.Keys {
			if down {
				s.Wait.Key = byte(k)
				s.Wait.Phase = WaitRelease
			}
		}
		s.Pc -= 2

	case WaitRelease:
		if s.Keys[s.Wait.Key] {
			s.Pc -= 2
			return
		}
		s.V[x] = s.Wait.Key
		s.Wait = WaitState{}
	}
}
