package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

/** @brief A quaternion, used to represent rotational orientation. */
type Quaternion Vec4

/**
 * @brief a 4x4 matrix, typically used to represent object transformations.
 * Elements are laid out so that Data can be handed to the GPU as is: the
 * translation lives in Data[12], Data[13] and Data[14], and each group of four
 * floats is one column as seen by a GLSL mat4.
 */
type Mat4 struct {
	/** @brief The matrix elements */
	Data [16]float32
}

/**
 * @brief Represents the transform of an object in the world.
 * Transforms can have a parent whose own transform is then
 * taken into account. The properties should not be edited directly
 * but through the methods, so the local matrix is regenerated.
 */
type Transform struct {
	/** @brief The position in the world. */
	Position Vec3
	/** @brief The rotation in the world. */
	Rotation Quaternion
	/** @brief The scale in the world. */
	Scale Vec3
	/** @brief Indicates the local matrix needs to be recalculated. */
	IsDirty bool
	/** @brief The local transformation matrix. */
	Local Mat4
	/** @brief A parent transform if one is assigned. Can also be nil. */
	Parent *Transform
}
