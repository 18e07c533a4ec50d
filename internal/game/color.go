package game

// Color is a 16-bit RGB565 color as rasterized by the client. Colors are
// rendering annotations only; nothing in the physics reads them.
type Color uint16

// Color565 packs 8-bit red, green and blue into RGB565.
func Color565(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

var (
	ColorBlack  = Color565(0, 0, 0)
	ColorWhite  = Color565(255, 255, 255)
	ColorRed    = Color565(255, 0, 0)
	ColorGreen  = Color565(0, 255, 0)
	ColorBlue   = Color565(0, 0, 255)
	ColorYellow = Color565(255, 255, 0)
)

// Background is the table felt color everything is erased to.
var Background = ColorBlue

// ColorWheel returns an RGB565 color from a position on a 255-step
// red-blue-green wheel.
func ColorWheel(pos int) Color {
	pos = (255 - pos) % 255
	if pos < 0 {
		pos += 255
	}

	if pos < 85 {
		return Color565(uint8(255-pos*3), 0, uint8(pos*3))
	}

	if pos < 170 {
		pos -= 85
		return Color565(0, uint8(pos*3), uint8(255-pos*3))
	}

	pos -= 170
	return Color565(uint8(pos*3), uint8(255-pos*3), 0)
}

// ColorAtStep cycles the wheel with an explicit counter. The game-over
// banner uses it with the tick count, one wheel step per tick.
func ColorAtStep(step uint64) Color {
	return ColorWheel(int(step % 255))
}
