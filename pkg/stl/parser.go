package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/geodraw/pkg/geometry"
)

// ErrMalformed is returned for STL data that cannot be parsed
var ErrMalformed = errors.New("malformed stl")

// Parse reads an STL file. It detects whether the file is ASCII or binary.
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses STL data from r
func Read(r io.Reader) (*Model, error) {
	reader := bufio.NewReader(r)
	header, err := reader.Peek(5)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header) == "solid" {
		return parseASCII(reader)
	}
	return parseBinary(reader)
}

func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	model := &Model{}

	var normal geometry.Vector3
	var vertices []geometry.Vector3
	line := 0

	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				normal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %w: vertex needs three coordinates", line, ErrMalformed)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				model.Facets = append(model.Facets, Facet{
					Normal:   normal,
					Vertices: [3]geometry.Vector3{vertices[0], vertices[1], vertices[2]},
				})
			}
			vertices = vertices[:0]
			normal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		xyz[i] = v
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// binaryFacet is the on-disk layout of one binary facet
type binaryFacet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

func parseBinary(reader io.Reader) (*Model, error) {
	model := &Model{}

	header := make([]byte, 80)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrMalformed, err)
	}
	model.Name = strings.TrimSpace(string(bytes.TrimRight(header, "\x00")))

	var count uint32
	if err := binary.Read(reader, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: failed to read facet count: %v", ErrMalformed, err)
	}

	for i := uint32(0); i < count; i++ {
		var raw binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to read facet %d: %v", ErrMalformed, i, err)
		}
		facet := Facet{Normal: vector32(raw.Normal)}
		for j, v := range raw.Vertices {
			facet.Vertices[j] = vector32(v)
		}
		model.Facets = append(model.Facets, facet)
	}
	return model, nil
}

func vector32(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}
