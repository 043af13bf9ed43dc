package geom

// Vector2 is a texture coordinate.
type Vector2 struct {
	X Element
	Y Element
}
