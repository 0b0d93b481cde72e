package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectPlacement_NormalCaseUnchanged(t *testing.T) {
	p := CorrectPlacement(1.2, 0.9, 4.0, 1.0, 3.0, 4.0)
	assert.Equal(t, 1.2, p.X)
	assert.Equal(t, 0.9, p.Y)
	assert.Equal(t, FrameAsGiven, p.Frame)
	assert.True(t, p.WithinWall(4.0))
}

func TestCorrectPlacement_Idempotent(t *testing.T) {
	// 已在正常框架内的坐标再次修正不应变化
	p := CorrectPlacement(1.2, 0.9, 4.0, 1.0, 3.0, 4.0)
	again := CorrectPlacement(p.X, p.Y, 4.0, 1.0, 3.0, 4.0)
	assert.Equal(t, p, again)
}

func TestCorrectPlacement_MirroredFromFarEnd(t *testing.T) {
	// 墙长 6.0 超出房间尺寸 (3.0 x 4.0)，rawX=4.5 从远端起算
	p := CorrectPlacement(4.5, 1.2, 6.0, 1.0, 3.0, 4.0)
	assert.Equal(t, FrameMirrored, p.Frame)
	assert.InDelta(t, 0.5, p.X, 1e-9)
	// Y 是离地高度，镜像分支不修改
	assert.Equal(t, 1.2, p.Y)
	assert.True(t, p.WithinWall(6.0))
}

func TestCorrectPlacement_ExceedsOnlyOneDimension(t *testing.T) {
	// rawX 仅超过宽度、未超过深度：不触发镜像
	p := CorrectPlacement(3.5, 1.0, 6.0, 1.0, 3.0, 4.0)
	assert.Equal(t, FrameAsGiven, p.Frame)
	assert.Equal(t, 3.5, p.X)
}

func TestCorrectPlacement_HeuristicLimitFlagged(t *testing.T) {
	// 启发式失效边界：raw (5.0, 1.2)、墙长 4.0、窗宽 1.0、房间 3.0x4.0
	// 5.0 同时超过两个尺寸，修正为 4.0-5.0-1.0 = -2.0，落在墙外，须标记
	p := CorrectPlacement(5.0, 1.2, 4.0, 1.0, 3.0, 4.0)
	assert.Equal(t, FrameMirrored, p.Frame)
	assert.InDelta(t, -2.0, p.X, 1e-9)
	assert.False(t, p.WithinWall(4.0))
}
