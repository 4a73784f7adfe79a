package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

func TestNewCompositor_AllocatesBothTargets(t *testing.T) {
	c := NewCompositor(320, 240)

	w, h := c.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	for _, id := range []Target{TargetCurrent, TargetNext} {
		img := c.Target(id)
		require.NotNil(t, img, id.String())
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 240, img.Bounds().Dy())
	}
	assert.NotSame(t, c.Target(TargetCurrent), c.Target(TargetNext))
	assert.Nil(t, c.Target(Target(5)))
}

func TestCompositor_ClampsDegenerateSizes(t *testing.T) {
	c := NewCompositor(0, -3)
	w, h := c.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestCompositor_ResizeReallocates(t *testing.T) {
	c := NewCompositor(100, 100)
	oldCurrent := c.Target(TargetCurrent)

	c.Resize(200, 50)

	w, h := c.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 50, h)
	assert.NotSame(t, oldCurrent, c.Target(TargetCurrent))

	cur, next := c.Views()
	cw, ch := cur.Size()
	assert.Equal(t, 200, cw)
	assert.Equal(t, 50, ch)
	assert.Same(t, c.Target(TargetNext), next.Image, "views are re-derived on resize")
}

func TestCompositor_RenderInto(t *testing.T) {
	c := NewCompositor(64, 64)
	batch := graphics.NewBatch()

	called := 0
	c.RenderInto(TargetNext, batch, func(b *graphics.Batch) {
		called++
		assert.Same(t, batch, b)
		assert.True(t, b.Drawing())
		assert.Same(t, c.Target(TargetNext), b.Target())
	})

	assert.Equal(t, 1, called)
	assert.False(t, batch.Drawing(), "target is unbound afterwards")

	_, next := c.Views()
	assert.Same(t, c.Target(TargetNext), next.Image)
	assert.False(t, next.FlipX)
}

func TestCompositor_Dispose(t *testing.T) {
	c := NewCompositor(64, 64)
	c.Dispose()

	assert.True(t, c.Disposed())
	assert.Nil(t, c.Target(TargetCurrent))
	cur, next := c.Views()
	assert.False(t, cur.Valid())
	assert.False(t, next.Valid())

	called := false
	c.RenderInto(TargetCurrent, graphics.NewBatch(), func(*graphics.Batch) { called = true })
	assert.False(t, called)

	c.Resize(10, 10)
	assert.False(t, c.Disposed())
}
