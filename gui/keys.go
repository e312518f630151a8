package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ScanCode is a raylib key
type ScanCode = int32

// runeToKey holds the raylib key for every character a keyboard layout can use
var runeToKey = map[rune]ScanCode{
	'0': rl.KeyZero, '1': rl.KeyOne, '2': rl.KeyTwo, '3': rl.KeyThree, '4': rl.KeyFour,
	'5': rl.KeyFive, '6': rl.KeySix, '7': rl.KeySeven, '8': rl.KeyEight, '9': rl.KeyNine,

	'A': rl.KeyA, 'B': rl.KeyB, 'C': rl.KeyC, 'D': rl.KeyD, 'E': rl.KeyE, 'F': rl.KeyF,
	'G': rl.KeyG, 'H': rl.KeyH, 'I': rl.KeyI, 'J': rl.KeyJ, 'K': rl.KeyK, 'L': rl.KeyL,
	'M': rl.KeyM, 'N': rl.KeyN, 'O': rl.KeyO, 'P': rl.KeyP, 'Q': rl.KeyQ, 'R': rl.KeyR,
	'S': rl.KeyS, 'T': rl.KeyT, 'U': rl.KeyU, 'V': rl.KeyV, 'W': rl.KeyW, 'X': rl.KeyX,
	'Y': rl.KeyY, 'Z': rl.KeyZ,
}

const (
	pauseKey  ScanCode = rl.KeySpace
	rewindKey ScanCode = rl.KeyLeft
	fasterKey ScanCode = rl.KeyUp
	slowerKey ScanCode = rl.KeyDown
)
