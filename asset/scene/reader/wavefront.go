package reader

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/venomrt/venom/asset"
	"github.com/venomrt/venom/asset/scene"
	"github.com/venomrt/venom/log"
	"github.com/venomrt/venom/types"
)

const (
	// Max nesting level for "call" statements.
	maxIncludeDepth = 16

	defaultModelName = "default"
)

type wavefrontSceneReader struct {
	logger log.Logger
	ctx    context.Context

	// The scene being assembled.
	sceneGraph *scene.Scene

	// Currently selected model and mesh; faces are appended to curMesh.
	curModel *scene.Model
	curMesh  *scene.Mesh

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string

	// Statements we don't handle; reported once per keyword.
	ignored map[string]bool
}

// Create a new wavefront scene reader.
func newWavefrontReader(ctx context.Context) *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:     log.New("wavefront reader"),
		ctx:        ctx,
		sceneGraph: scene.NewScene(),
		vertexList: make([]types.Vec3, 0),
		normalList: make([]types.Vec3, 0),
		uvList:     make([]types.Vec2, 0),
		errStack:   make([]string, 0),
		ignored:    make(map[string]bool),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes, 0)
	if err != nil {
		return nil, err
	}
	r.pruneEmpty()

	r.logger.Noticef(
		"parsed scene in %d ms (%d models, %d meshes, %d triangles)",
		time.Since(start).Nanoseconds()/1e6,
		len(r.sceneGraph.Models), r.sceneGraph.NumMeshes(), r.sceneGraph.NumTriangles(),
	)
	return r.sceneGraph, nil
}

// Generate an error that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, cause error, msgFormat string, args ...interface{}) error {
	return &ParseError{
		Path:  file,
		Line:  line,
		Msg:   fmt.Sprintf(msgFormat, args...),
		Stack: append([]string(nil), r.errStack...),
		Err:   cause,
	}
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource, depth int) error {
	var lineNum int = 0

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, nil, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			if depth+1 > maxIncludeDepth {
				return r.emitError(res.Path(), lineNum, nil, "include depth exceeds %d levels", maxIncludeDepth)
			}

			incRes, err := asset.NewResourceContext(r.ctx, lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err, "%s", err.Error())
			}
			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			err = r.parse(incRes, depth+1)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, nil, `unsupported syntax for "o"; expected 1 argument for object name; got 0`)
			}
			r.startModel(strings.Join(lineTokens[1:], " "))
		case "g":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, nil, `unsupported syntax for "g"; expected 1 argument for group name; got 0`)
			}
			if r.curModel == nil {
				r.startModel(defaultModelName)
			}
			r.startMesh(strings.Join(lineTokens[1:], " "))
		case "f":
			vertices, err := r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, err, "%s", err.Error())
			}

			// If no object/group has been defined create a default one
			if r.curModel == nil {
				r.startModel(defaultModelName)
			}
			if r.curMesh == nil {
				r.startMesh(r.curModel.Name)
			}
			r.curMesh.Vertices = append(r.curMesh.Vertices, vertices...)
		default:
			if !r.ignored[lineTokens[0]] {
				r.ignored[lineTokens[0]] = true
				r.logger.Debugf(`ignoring unsupported statement "%s" in %s:%d`, lineTokens[0], res.Path(), lineNum)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, err, "read failed: %s", err.Error())
	}

	return nil
}

func (r *wavefrontSceneReader) startModel(name string) {
	r.curModel = &scene.Model{Name: name, Meshes: make([]*scene.Mesh, 0)}
	r.curMesh = nil
	r.sceneGraph.Models = append(r.sceneGraph.Models, r.curModel)
}

func (r *wavefrontSceneReader) startMesh(name string) {
	r.curMesh = &scene.Mesh{Name: name, Vertices: make([]scene.Vertex, 0)}
	r.curModel.Meshes = append(r.curModel.Meshes, r.curMesh)
}

// Drop meshes without faces and models without meshes.
func (r *wavefrontSceneReader) pruneEmpty() {
	models := r.sceneGraph.Models[:0]
	for _, model := range r.sceneGraph.Models {
		meshes := model.Meshes[:0]
		for _, mesh := range model.Meshes {
			if len(mesh.Vertices) == 0 {
				r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, mesh.Name)
				continue
			}
			meshes = append(meshes, mesh)
		}
		model.Meshes = meshes

		if len(model.Meshes) == 0 {
			r.logger.Warningf(`dropping model "%s" as it contains no meshes`, model.Name)
			continue
		}
		models = append(models, model)
	}
	r.sceneGraph.Models = models
}

// Parse face definition. Each face argument is comprised of 1, 2 or 3 indices
// separated by a slash character:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate an offset off the end of
// the coord list. Faces with more than 3 vertices are triangulated as a fan
// around the first vertex. Faces without normals get the geometric face normal.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) ([]scene.Vertex, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	numArgs := len(lineTokens) - 1
	corners := make([]scene.Vertex, numArgs)
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < numArgs; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if len(vTokens) > 3 {
			return nil, fmt.Errorf("face argument %d contains %d indices; expected at most 3", arg, len(vTokens))
		}

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
			hasNormals = expIndices > 2 && vTokens[2] != ""
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		offset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		corners[arg].Position = r.vertexList[offset]

		if expIndices > 1 && vTokens[1] != "" {
			offset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			corners[arg].UV = r.uvList[offset]
		}

		if hasNormals {
			if vTokens[2] == "" {
				return nil, fmt.Errorf("face argument %d does not include a normal index", arg)
			}
			offset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return nil, fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			corners[arg].Normal = r.normalList[offset]
		}
	}

	if !hasNormals {
		e01 := corners[1].Position.Sub(corners[0].Position)
		e02 := corners[2].Position.Sub(corners[0].Position)
		faceNormal := e01.Cross(e02).Normalize()
		for idx := range corners {
			corners[idx].Normal = faceNormal
		}
	}

	vertices := make([]scene.Vertex, 0, 3*(numArgs-2))
	for idx := 1; idx < numArgs-1; idx++ {
		vertices = append(vertices, corners[0], corners[idx], corners[idx+1])
	}
	return vertices, nil
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else if index == 0 {
		return -1, fmt.Errorf("index out of bounds")
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a finite float32 token.
func parseFiniteFloat32(token string) (float32, error) {
	val, err := strconv.ParseFloat(token, 32)
	if err != nil {
		return 0, err
	}
	out := float32(val)
	if !types.XYZ(out, 0, 0).IsFinite() {
		return 0, fmt.Errorf("non-finite value %q", token)
	}
	return out, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	var out types.Vec2
	if len(lineTokens) < 3 {
		return out, fmt.Errorf(`unsupported syntax for '%s'; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	for index := 0; index < 2; index++ {
		v, err := parseFiniteFloat32(lineTokens[index+1])
		if err != nil {
			return out, err
		}
		out[index] = v
	}
	return out, nil
}

// Parse a Vec3 row. Extra components (e.g. the optional w of a vertex) are ignored.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	var out types.Vec3
	if len(lineTokens) < 4 {
		return out, fmt.Errorf(`unsupported syntax for '%s'; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	for index := 0; index < 3; index++ {
		v, err := parseFiniteFloat32(lineTokens[index+1])
		if err != nil {
			return out, err
		}
		out[index] = v
	}
	return out, nil
}
