package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/tilecraft/pkg/math"
)

// Camera is a perspective camera looking from Eye at Target.
type Camera struct {
	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3
	FovY   float32 // Vertical field of view, radians
	Near   float32
	Far    float32
}

// NewCamera returns a camera with a Y-up axis and a 50° field of view.
func NewCamera(eye, target math.Vec3) Camera {
	return Camera{
		Eye:    eye,
		Target: target,
		Up:     math.Vec3{Y: 1},
		FovY:   50 * math32.Pi / 180,
		Near:   0.1,
		Far:    100,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.Target, c.Up)
}

// ViewProjection returns projection * view for a viewport of the given aspect.
func (c Camera) ViewProjection(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Near, c.Far).Mul(c.ViewMatrix())
}

// Orbit returns the camera with its eye rotated by yaw radians around the
// vertical axis through Target.
func (c Camera) Orbit(yaw float32) Camera {
	rot := math.QuatFromAxisAngle(math.Vec3{Y: 1}, yaw).ToMat4()
	c.Eye = rot.TransformPoint(c.Eye.Sub(c.Target)).Add(c.Target)
	return c
}

// Ray returns the world-space ray through pixel (x, y) of a w×h viewport.
func (c Camera) Ray(x, y, w, h float32) Ray {
	return ScreenToRay(x, y, w, h, c.ViewProjection(w/h).Inverse())
}
