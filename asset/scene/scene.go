package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/venomrt/venom/types"
)

// A mesh vertex. Vertices are immutable once loaded.
type Vertex struct {
	Position types.Vec3
	Normal   types.Vec3
	UV       types.Vec2
}

// A mesh is an ordered list of vertices where every consecutive vertex triple
// defines a triangle.
type Mesh struct {
	Name     string
	Vertices []Vertex
}

// Number of triangles defined by the mesh vertices.
func (m *Mesh) NumTriangles() int {
	return len(m.Vertices) / 3
}

// Get the vertices of the i-th triangle.
func (m *Mesh) Triangle(index int) [3]Vertex {
	base := index * 3
	return [3]Vertex{m.Vertices[base], m.Vertices[base+1], m.Vertices[base+2]}
}

// A named group of meshes.
type Model struct {
	Name   string
	Meshes []*Mesh
}

// The scene graph produced by the scene readers. The renderer and the spatial
// index only ever read it.
type Scene struct {
	Models []*Model
}

// Create a new empty scene.
func NewScene() *Scene {
	return &Scene{
		Models: make([]*Model, 0),
	}
}

// Append the models of other scenes, preserving their order.
func (sc *Scene) Merge(others ...*Scene) {
	for _, other := range others {
		sc.Models = append(sc.Models, other.Models...)
	}
}

// Invoke fn for every vertex in model, mesh, vertex order.
func (sc *Scene) ForEachVertex(fn func(v *Vertex)) {
	for _, model := range sc.Models {
		for _, mesh := range model.Meshes {
			for idx := range mesh.Vertices {
				fn(&mesh.Vertices[idx])
			}
		}
	}
}

// Total number of vertices.
func (sc *Scene) NumVertices() int {
	count := 0
	for _, model := range sc.Models {
		for _, mesh := range model.Meshes {
			count += len(mesh.Vertices)
		}
	}
	return count
}

// Total number of triangles.
func (sc *Scene) NumTriangles() int {
	count := 0
	for _, model := range sc.Models {
		for _, mesh := range model.Meshes {
			count += mesh.NumTriangles()
		}
	}
	return count
}

// Total number of meshes.
func (sc *Scene) NumMeshes() int {
	count := 0
	for _, model := range sc.Models {
		count += len(model.Meshes)
	}
	return count
}

// Bounding box over every vertex position. Returns an invalid box (see
// types.BBox.IsValid) for a scene without vertices.
func (sc *Scene) BBox() types.BBox {
	bbox := types.EmptyBBox()
	sc.ForEachVertex(func(v *Vertex) {
		bbox = bbox.Extend(v.Position)
	})
	return bbox
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Model", "Meshes", "Triangles", "Size"})

	var vertexLists []interface{}
	for _, model := range sc.Models {
		modelLists := make([]interface{}, 0, len(model.Meshes))
		triangles := 0
		for _, mesh := range model.Meshes {
			modelLists = append(modelLists, mesh.Vertices)
			triangles += mesh.NumTriangles()
		}
		vertexLists = append(vertexLists, modelLists...)

		table.Append([]string{
			model.Name,
			fmt.Sprintf("%d", len(model.Meshes)),
			fmt.Sprintf("%d", triangles),
			fmtSize(modelLists...),
		})
	}
	table.SetFooter([]string{
		"Total",
		fmt.Sprintf("%d", sc.NumMeshes()),
		fmt.Sprintf("%d", sc.NumTriangles()),
		strings.TrimLeft(fmtSize(vertexLists...), " "),
	})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
