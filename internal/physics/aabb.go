package physics

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxAround returns the box centered on (cx, cy) with the given half extents.
func BoxAround(cx, cy, halfW, halfH float64) AABB {
	return AABB{
		MinX: cx - halfW,
		MinY: cy - halfH,
		MaxX: cx + halfW,
		MaxY: cy + halfH,
	}
}

// Intersects reports whether two boxes overlap. Touching edges do not count.
func (a AABB) Intersects(b AABB) bool {
	return a.MinX < b.MaxX && a.MaxX > b.MinX &&
		a.MinY < b.MaxY && a.MaxY > b.MinY
}
