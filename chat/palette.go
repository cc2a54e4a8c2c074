package chat

import "math/rand/v2"

// NumFallbackColors is the size of the fallback palette.
const NumFallbackColors = 15

// FallbackColor indexes the palette Twitch's web client assigns to users who
// never picked a color.
type FallbackColor uint8

var palette = [NumFallbackColors]Color{
	{255, 0, 0},     // Red
	{0, 0, 255},     // Blue
	{0, 128, 0},     // Green
	{178, 34, 34},   // FireBrick
	{255, 127, 80},  // Coral
	{154, 205, 50},  // YellowGreen
	{255, 69, 0},    // OrangeRed
	{46, 139, 87},   // SeaGreen
	{218, 165, 32},  // GoldenRod
	{210, 105, 30},  // Chocolate
	{95, 158, 160},  // CadetBlue
	{30, 144, 255},  // DodgerBlue
	{255, 105, 180}, // HotPink
	{138, 43, 226},  // BlueViolet
	{0, 255, 127},   // SpringGreen
}

// Color maps the index through the palette.
func (f FallbackColor) Color() Color {
	return palette[int(f)%NumFallbackColors]
}

// SampleFallbackColor draws an index uniformly from [0, NumFallbackColors).
func SampleFallbackColor() FallbackColor {
	return FallbackColor(rand.IntN(NumFallbackColors))
}
