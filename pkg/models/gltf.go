package models

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/pinhole/pkg/math3d"
	"github.com/taigrr/pinhole/pkg/render"
)

// GLTFLoader loads glTF/GLB geometry into Mesh form. Only the
// attributes the renderer interpolates are extracted: positions,
// texture coordinates and vertex colours, with the material's base
// colour factor as a fallback when a primitive carries no COLOR_0.
type GLTFLoader struct {
	// DefaultColour is assigned to vertices of primitives that have
	// neither vertex colours nor a material base colour.
	DefaultColour render.Colour
}

// NewGLTFLoader creates a loader with a white default colour.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{DefaultColour: render.White}
}

// LoadGLB loads a binary glTF (.glb) file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads a glTF or GLB file and returns a Mesh with computed
// bounds.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts the triangle primitives of one glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines, points and strips are not renderable here.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var colours []render.Colour
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colours, err = readColourAccessor(doc, colIdx)
			if err != nil {
				return fmt.Errorf("read colours: %w", err)
			}
		}

		fallback := l.DefaultColour
		if len(colours) == 0 && prim.Material != nil {
			fallback = materialColour(doc, *prim.Material)
		}

		baseVertex := len(mesh.Vertices)

		for i := range positions {
			v := MeshVertex{
				Position: positions[i],
				Colour:   fallback,
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top; flip for a bottom-left
				// origin.
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			if i < len(colours) {
				v.Colour = colours[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{
						baseVertex + indices[i],
						baseVertex + indices[i+1],
						baseVertex + indices[i+2],
					},
				})
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{baseVertex + i, baseVertex + i + 1, baseVertex + i + 2},
				})
			}
		}
	}

	return nil
}

// materialColour resolves a material's base colour factor.
func materialColour(doc *gltf.Document, idx int) render.Colour {
	if idx < 0 || idx >= len(doc.Materials) {
		return render.White
	}
	mat := doc.Materials[idx]
	if mat.PBRMetallicRoughness == nil {
		return render.White
	}
	f := mat.PBRMetallicRoughness.BaseColorFactorOrDefault()
	return render.Colour{R: f[0], G: f[1], B: f[2], A: f[3]}
}

// readVec3Accessor reads VEC3 float data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads VEC2 float data from an accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readColourAccessor reads a COLOR_0 accessor. glTF allows VEC3 or
// VEC4; a missing alpha defaults to opaque.
func readColourAccessor(doc *gltf.Document, accessorIdx int) ([]render.Colour, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case [][3]float32:
		result := make([]render.Colour, len(v))
		for i, f := range v {
			result[i] = render.Colour{R: float64(f[0]), G: float64(f[1]), B: float64(f[2]), A: 1}
		}
		return result, nil
	case [][4]float32:
		result := make([]render.Colour, len(v))
		for i, f := range v {
			result[i] = render.Colour{R: float64(f[0]), G: float64(f[1]), B: float64(f[2]), A: float64(f[3])}
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected data type for COLOR_0: %T", data)
	}
}

// readIndices reads scalar index data from an accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw data from an accessor's buffer view.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" {
		return nil, fmt.Errorf("external buffers not supported")
	}
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec4:
		if stride == 0 {
			stride = 16
		}
		result := make([][4]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 4 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
