package chat

import "testing"

func TestColorCacheIsStablePerUser(t *testing.T) {
	draws := 0
	seq := []FallbackColor{3, 7, 3}
	cache := NewColorCache(func() FallbackColor {
		fc := seq[draws%len(seq)]
		draws++
		return fc
	})

	first := cache.ColorFor(1)
	for i := 0; i < 5; i++ {
		if got := cache.ColorFor(1); got != first {
			t.Fatalf("call %d: ColorFor(1) = %v, want %v", i, got, first)
		}
	}
	if first != palette[3] {
		t.Errorf("ColorFor(1) = %v, want palette[3] %v", first, palette[3])
	}
	if got := cache.ColorFor(2); got != palette[7] {
		t.Errorf("ColorFor(2) = %v, want palette[7] %v", got, palette[7])
	}
	if draws != 2 {
		t.Errorf("sampler called %d times, want 2", draws)
	}
	if len(cache.colors) != 2 {
		t.Errorf("cached users = %d, want 2", len(cache.colors))
	}
}

func TestColorCacheDefaultSampler(t *testing.T) {
	cache := NewColorCache(nil)
	for id := uint64(0); id < 200; id++ {
		c := cache.ColorFor(id)
		if cache.ColorFor(id) != c {
			t.Fatalf("user %d changed color", id)
		}
	}
}

func TestSampleFallbackColorRange(t *testing.T) {
	seen := make(map[FallbackColor]bool)
	for i := 0; i < 5000; i++ {
		fc := SampleFallbackColor()
		if int(fc) >= NumFallbackColors {
			t.Fatalf("sample %d out of range", fc)
		}
		seen[fc] = true
	}
	if len(seen) != NumFallbackColors {
		t.Errorf("saw %d distinct colors in 5000 draws, want %d", len(seen), NumFallbackColors)
	}
}

func TestPalette(t *testing.T) {
	want := []Color{
		{255, 0, 0}, {0, 0, 255}, {0, 128, 0}, {178, 34, 34}, {255, 127, 80},
		{154, 205, 50}, {255, 69, 0}, {46, 139, 87}, {218, 165, 32}, {210, 105, 30},
		{95, 158, 160}, {30, 144, 255}, {255, 105, 180}, {138, 43, 226}, {0, 255, 127},
	}
	for i, c := range want {
		if got := FallbackColor(i).Color(); got != c {
			t.Errorf("FallbackColor(%d).Color() = %v, want %v", i, got, c)
		}
	}
}
