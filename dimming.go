package ledcontrol

// Brightness map for dimming LEDs to simulate breathing. The curve is a
// simple parabola (x^2 + 10 for x = 0..15) offset so the LEDs stay lit at
// the bottom instead of going dark. Values are channel fractions of 255,
// brightest first.
var dimming = [...]uint8{235, 206, 179, 154, 131, 110, 91, 74, 59, 46, 35, 26, 19, 14, 11, 10}

// NumDimLevels is the number of steps in the breathing brightness curve.
const NumDimLevels = len(dimming)
