package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/venomrt/venom/asset"
	"github.com/venomrt/venom/asset/scene"
	"golang.org/x/sync/errgroup"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from file or http(s) url.
func ReadScene(filename string) (*scene.Scene, error) {
	return ReadSceneContext(context.Background(), filename)
}

// Read scene from file or http(s) url. The context bounds remote fetches,
// including those triggered by "call" statements.
func ReadSceneContext(ctx context.Context, filename string) (*scene.Scene, error) {
	res, err := asset.NewResourceContext(ctx, filename, nil)
	if err != nil {
		return nil, &ParseError{Path: filename, Msg: err.Error(), Err: err}
	}
	defer res.Close()

	reader, err := readerFor(ctx, filename)
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

// Read a scene from an already opened resource. The resource name selects the
// reader implementation.
func Read(res *asset.Resource) (*scene.Scene, error) {
	reader, err := readerFor(context.Background(), res.Path())
	if err != nil {
		return nil, err
	}
	return reader.Read(res)
}

// Load several scene files in parallel and merge them into a single scene.
// Models are appended in argument order. If any file fails to load, the first
// error is returned and no scene is produced.
func ReadScenes(ctx context.Context, filenames ...string) (*scene.Scene, error) {
	partial := make([]*scene.Scene, len(filenames))

	group, groupCtx := errgroup.WithContext(ctx)
	for index, filename := range filenames {
		index, filename := index, filename
		group.Go(func() error {
			sc, err := ReadSceneContext(groupCtx, filename)
			if err != nil {
				return err
			}
			partial[index] = sc
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := scene.NewScene()
	merged.Merge(partial...)
	return merged, nil
}

// Select reader based on file extension.
func readerFor(ctx context.Context, filename string) (Reader, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".obj") {
		return newWavefrontReader(ctx), nil
	}
	return nil, &ParseError{Path: filename, Msg: fmt.Sprintf("unsupported file format %q", filename)}
}
