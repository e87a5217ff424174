package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"summon/internal/input"
)

const target = input.KeyCtrlLeft

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestDoublePressRequiresReleaseAndInterval(t *testing.T) {
	d := NewDetector(ms(250), target)
	t0 := time.Now()

	assert.False(t, d.OnPress(target, t0))
	// no release in between
	assert.False(t, d.OnPress(target, t0.Add(ms(100))))

	d.OnRelease(target, t0.Add(ms(110)))
	assert.True(t, d.OnPress(target, t0.Add(ms(200))))

	// after a trigger the next press starts over
	assert.False(t, d.OnPress(target, t0.Add(ms(300))))
	d.OnRelease(target, t0.Add(ms(310)))
	// too late
	assert.False(t, d.OnPress(target, t0.Add(ms(700))))
}

func TestTriggerBoundary(t *testing.T) {
	tests := []struct {
		name    string
		gap     time.Duration
		release bool
		want    bool
	}{
		{"within interval", ms(100), true, true},
		{"exactly interval", ms(300), true, true},
		{"just over interval", ms(301), true, false},
		{"no release within interval", ms(100), false, false},
		{"no release over interval", ms(1000), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(ms(300), target)
			t0 := time.Now()
			assert.False(t, d.OnPress(target, t0))
			if tt.release {
				d.OnRelease(target, t0.Add(tt.gap/2))
			}
			assert.Equal(t, tt.want, d.OnPress(target, t0.Add(tt.gap)))
		})
	}
}

func TestImmediatePressAfterTriggerDoesNotTrigger(t *testing.T) {
	d := NewDetector(ms(300), target)
	t0 := time.Now()
	d.OnPress(target, t0)
	d.OnRelease(target, t0.Add(ms(10)))
	assert.True(t, d.OnPress(target, t0.Add(ms(20))))
	assert.Equal(t, Idle, d.State())

	d.OnRelease(target, t0.Add(ms(30)))
	assert.False(t, d.OnPress(target, t0.Add(ms(31))))
	assert.Equal(t, Armed, d.State())
}

func TestOtherKeysIgnored(t *testing.T) {
	d := NewDetector(ms(300), target)
	t0 := time.Now()

	assert.False(t, d.OnPress(input.KeyShiftLeft, t0))
	assert.Equal(t, Idle, d.State())

	d.OnPress(target, t0)
	d.OnRelease(input.KeyShiftLeft, t0.Add(ms(5)))
	assert.Equal(t, Armed, d.State())
	assert.False(t, d.OnPress(input.KeyShiftLeft, t0.Add(ms(6))))
	assert.Equal(t, Armed, d.State())

	d.OnRelease(target, t0.Add(ms(10)))
	assert.Equal(t, ReleasedArmed, d.State())
	assert.True(t, d.OnPress(target, t0.Add(ms(20))))
}

func TestReleaseWithoutPressDoesNothing(t *testing.T) {
	d := NewDetector(ms(300), target)
	t0 := time.Now()
	d.OnRelease(target, t0)
	assert.Equal(t, Idle, d.State())
	assert.False(t, d.OnPress(target, t0.Add(ms(10))))
}

func TestKeyRepeatStreamNeverTriggers(t *testing.T) {
	d := NewDetector(ms(300), target)
	t0 := time.Now()
	for i := 0; i < 20; i++ {
		assert.False(t, d.OnPress(target, t0.Add(ms(30*i))))
	}
}

func TestLatePressBecomesBaseline(t *testing.T) {
	d := NewDetector(ms(300), target)
	t0 := time.Now()
	d.OnPress(target, t0)
	d.OnRelease(target, t0.Add(ms(50)))
	assert.False(t, d.OnPress(target, t0.Add(ms(500))))
	assert.Equal(t, Armed, d.State())

	d.OnRelease(target, t0.Add(ms(550)))
	assert.True(t, d.OnPress(target, t0.Add(ms(700))))
}
