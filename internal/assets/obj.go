package assets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// LoadOBJ reads a Wavefront OBJ file. See ParseOBJ.
func (m *Manager) LoadOBJ(path string, color math.Vec3) (*model.Model, error) {
	full := m.Resolve(path)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("opening mesh: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(full), filepath.Ext(full))
	mdl, err := ParseOBJ(f, name, color)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mdl, nil
}

// objParser accumulates OBJ attribute pools and the current group.
type objParser struct {
	color math.Vec3

	positions []math.Vec3
	colors    []math.Vec3
	normals   []math.Vec3
	uvs       []math.Vec2

	root  *model.Model
	group *model.Model
}

// ParseOBJ reads OBJ geometry: v (with optional r g b), vt, vn and f
// records. Polygons are fan-triangulated, negative indices count from the
// end, and faces without normals get their flat face normal. Each o or g
// record starts a child model. Vertices without a color use color.
func ParseOBJ(r io.Reader, name string, color math.Vec3) (*model.Model, error) {
	p := &objParser{color: color, root: model.New(name)}
	p.group = p.root

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		if err := p.record(strings.Fields(text)); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}
	return p.root, nil
}

func (p *objParser) record(fields []string) error {
	switch fields[0] {
	case "v":
		xs, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math.Vec3{xs[0], xs[1], xs[2]})
		c := p.color
		if len(fields) >= 7 {
			rgb, err := parseFloats(fields[4:7], 3)
			if err != nil {
				return err
			}
			c = math.Vec3{rgb[0], rgb[1], rgb[2]}
		}
		p.colors = append(p.colors, c)

	case "vn":
		xs, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, math.Normalize(math.Vec3{xs[0], xs[1], xs[2]}))

	case "vt":
		xs, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		p.uvs = append(p.uvs, math.Vec2{xs[0], xs[1]})

	case "f":
		return p.face(fields[1:])

	case "o", "g":
		name := p.root.Name
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		p.group = model.New(name)
		p.root.Add(p.group)

	default:
		// mtllib, usemtl, s and friends carry nothing we render
	}
	return nil
}

type objCorner struct {
	v       model.Vertex
	hasNorm bool
}

func (p *objParser) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("%w: face with %d vertices", ErrMalformed, len(refs))
	}
	corners := make([]objCorner, len(refs))
	for i, ref := range refs {
		c, err := p.corner(ref)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		tri := model.Triangle{V: [3]model.Vertex{corners[0].v, corners[i].v, corners[i+1].v}}
		flat := tri.FaceNormal()
		for k, c := range []objCorner{corners[0], corners[i], corners[i+1]} {
			if !c.hasNorm {
				tri.V[k].Normal = flat
			}
		}
		p.group.AddTriangles(tri)
	}
	return nil
}

// corner resolves a v, v/vt, v//vn or v/vt/vn reference.
func (p *objParser) corner(ref string) (objCorner, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("%w: vertex reference %q", ErrMalformed, ref)
	}

	vi, err := objIndex(parts[0], len(p.positions))
	if err != nil {
		return objCorner{}, err
	}
	c := objCorner{v: model.Vertex{Position: p.positions[vi], Color: p.colors[vi]}}

	if len(parts) > 1 && parts[1] != "" {
		ti, err := objIndex(parts[1], len(p.uvs))
		if err != nil {
			return objCorner{}, err
		}
		c.v.UV = p.uvs[ti]
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := objIndex(parts[2], len(p.normals))
		if err != nil {
			return objCorner{}, err
		}
		c.v.Normal = p.normals[ni]
		c.hasNorm = true
	}
	return c, nil
}

// objIndex converts a 1-based (or negative, relative) index to 0-based.
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformed, s)
	}
	if i < 0 {
		i += n
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: index %s out of range (%d defined)", ErrMalformed, s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMalformed, n, len(fields))
	}
	out := make([]float64, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrMalformed, fields[i])
		}
		out[i] = f
	}
	return out, nil
}
