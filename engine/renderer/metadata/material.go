package metadata

import "github.com/spaghettifunk/anima-xr/engine/math"

const (
	/** @brief The name of the fully invisible fallback material. */
	InvisibleMaterialName string = "invisible"
	/** @brief The name of the generic wireframe debug material. */
	WireframeMaterialName string = "wireframe"
	/** @brief Prefix of the per-label debug materials. */
	DebugMaterialPrefix string = "debug."
)

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
	/** @brief Draw edges only. */
	Wireframe bool
	/** @brief A material that is never drawn but still occludes and collides. */
	Invisible bool
}

/**
 * @brief A material, which describes how a synced surface should be drawn.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	Wireframe     bool
	Invisible     bool
}

type MaterialReference struct {
	ReferenceCount uint64
	Material       *Material
}
