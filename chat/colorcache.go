package chat

// ColorCache remembers the fallback color drawn for each user during one
// channel session. It is owned by a single Stream and is not safe for
// concurrent use.
type ColorCache struct {
	sample func() FallbackColor
	colors map[uint64]FallbackColor
}

// NewColorCache returns an empty cache drawing new colors with sample, or
// with SampleFallbackColor when sample is nil.
func NewColorCache(sample func() FallbackColor) *ColorCache {
	if sample == nil {
		sample = SampleFallbackColor
	}
	return &ColorCache{
		sample: sample,
		colors: make(map[uint64]FallbackColor),
	}
}

// ColorFor returns the color assigned to userID, drawing and storing one on
// first sight.
func (c *ColorCache) ColorFor(userID uint64) Color {
	fc, ok := c.colors[userID]
	if !ok {
		fc = c.sample()
		c.colors[userID] = fc
	}
	return fc.Color()
}
