package math

type Vec3 struct {
	X, Y, Z float32
}

// Vec4 doubles as an RGBA colour.
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief Unit quaternion (x, y, z, w) describing an orientation. */
type Quaternion Vec4

/**
 * @brief Row-major 4x4 matrix. Points are row vectors, so the translation
 * lives in Data[12..14] and transforms compose left to right.
 */
type Mat4 struct {
	Data [16]float32
}

// Extents3D is an axis aligned box.
type Extents3D struct {
	Min Vec3
	Max Vec3
}

// Vertex3D is what the mesh feed gives us per vertex plus a derived normal.
type Vertex3D struct {
	Position Vec3
	Normal   Vec3
}

/**
 * @brief Position, rotation and scale of a synced mesh. Use the setters in
 * transform.go so the cached local matrix is rebuilt.
 */
type Transform struct {
	Position Vec3
	Rotation Quaternion
	Scale    Vec3

	// Set by every setter; GetLocal clears it.
	IsDirty bool
	Local   Mat4

	// Optional. GetWorld multiplies the parent chain in.
	Parent *Transform
}
