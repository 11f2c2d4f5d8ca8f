package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cube = `solid cube
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 2000 0 0
      vertex 2000 1000 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 500
      vertex 2000 1000 500
      vertex 0 1000 500
    endloop
  endfacet
endsolid cube
`

func TestReadASCII(t *testing.T) {
	model, err := Read(strings.NewReader(cube))
	require.NoError(t, err)

	assert.Equal(t, "cube", model.Name)
	assert.Equal(t, 2, model.FacetCount())
	assert.Equal(t, 0.0, model.Facets[0].Normal.X)
	assert.Equal(t, -1.0, model.Facets[0].Normal.Z)
	assert.Equal(t, 2000.0, model.Extent())
	assert.InDelta(t, 2000000, model.SurfaceArea(), 1e-6)
}

func TestReadASCIIRejectsBadNumbers(t *testing.T) {
	_, err := Read(strings.NewReader("solid x\nfacet normal 0 0 1\nvertex a b c\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func binaryModel(t *testing.T, facets ...binaryFacet) []byte {
	t.Helper()
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "binary part")
	buf.Write(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(facets))))
	for _, f := range facets {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, f))
	}
	return buf.Bytes()
}

func TestReadBinary(t *testing.T) {
	data := binaryModel(t, binaryFacet{
		Normal:   [3]float32{0, 0, 1},
		Vertices: [3][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 30, 0}},
	})

	model, err := Read(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "binary part", model.Name)
	require.Equal(t, 1, model.FacetCount())
	assert.Equal(t, 30.0, model.Extent())
	assert.InDelta(t, 150, model.SurfaceArea(), 1e-6)
}

func TestReadBinaryTruncated(t *testing.T) {
	data := binaryModel(t, binaryFacet{})
	_, err := Read(bytes.NewReader(data[:len(data)-10]))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEmptyModelHasNoExtent(t *testing.T) {
	assert.Zero(t, (&Model{}).Extent())
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"/models/house.stl", "/models/house.stl", true},
		{"file:///models/house.STL", "/models/house.STL", true},
		{"https://example.com/house.stl", "", false},
		{"/models/house.glb", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := LocalPath(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizerCachesSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	require.NoError(t, os.WriteFile(path, []byte(cube), 0o644))

	sizer := NewSizer(nil)
	assert.InDelta(t, 2.0, sizer.Size(path), 1e-9)

	require.NoError(t, os.Remove(path))
	assert.InDelta(t, 2.0, sizer.Size(path), 1e-9)

	sizer.Forget(path)
	assert.Zero(t, sizer.Size(path))
	assert.Zero(t, sizer.Size("model.glb"))
}
