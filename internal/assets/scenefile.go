package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-raster/internal/engine/lighting"
	"github.com/Faultbox/midgard-raster/internal/engine/model"
	"github.com/Faultbox/midgard-raster/internal/engine/scene"
	"github.com/Faultbox/midgard-raster/pkg/math"
)

// Vec3 is a YAML vector: a three element sequence, or a scalar that fills
// every component.
type Vec3 struct {
	V   math.Vec3
	Set bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Vec3) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var s float64
		if err := n.Decode(&s); err != nil {
			return err
		}
		v.V, v.Set = math.Vec3{s, s, s}, true
		return nil
	}
	var xs []float64
	if err := n.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 3 {
		return fmt.Errorf("line %d: %w: want 3 components, got %d", n.Line, ErrMalformed, len(xs))
	}
	v.V, v.Set = math.Vec3{xs[0], xs[1], xs[2]}, true
	return nil
}

// Or returns the vector, or def when it was not given.
func (v Vec3) Or(def math.Vec3) math.Vec3 {
	if v.Set {
		return v.V
	}
	return def
}

// SceneFile is a scene description.
type SceneFile struct {
	Camera CameraDesc  `yaml:"camera"`
	Models []ModelDesc `yaml:"models"`
	Lights []LightDesc `yaml:"lights"`

	// Dir is the directory of the file, used to resolve relative paths.
	Dir string `yaml:"-"`
}

// CameraDesc places the viewer. Target wins over Direction when both are
// given.
type CameraDesc struct {
	Eye       Vec3    `yaml:"eye"`
	Target    Vec3    `yaml:"target"`
	Direction Vec3    `yaml:"direction"`
	FovY      float64 `yaml:"fov_y"`
	Near      float64 `yaml:"near"`
	Far       float64 `yaml:"far"`
}

// Rotation is a rotation about an axis through the model position.
type Rotation struct {
	Axis  Vec3    `yaml:"axis"`
	Angle float64 `yaml:"angle"` // degrees
}

// ModelDesc describes one model and its subtree.
type ModelDesc struct {
	Name     string            `yaml:"name"`
	Mesh     string            `yaml:"mesh"` // quad, box or obj
	Path     string            `yaml:"path"` // obj file
	Size     []float64         `yaml:"size"` // quad: w h; box: x y z
	Color    Vec3              `yaml:"color"`
	Position Vec3              `yaml:"position"`
	Scale    float64           `yaml:"scale"`
	Rotate   []Rotation        `yaml:"rotate"`
	Textures map[string]string `yaml:"textures"` // slot name -> image path
	Children []ModelDesc       `yaml:"children"`
}

// ShadowDesc overrides shadow settings for one light.
type ShadowDesc struct {
	Enabled      *bool    `yaml:"enabled"`
	Resolution   *int     `yaml:"resolution"`
	Filter       *string  `yaml:"filter"`
	PCFRadius    *int     `yaml:"pcf_radius"`
	LightSize    *float64 `yaml:"light_size"`
	BiasScale    *float64 `yaml:"bias_scale"`
	PCFAccel     *bool    `yaml:"pcf_accel"`
	PCSSAccel    *bool    `yaml:"pcss_accel"`
	PenumbraMask *bool    `yaml:"penumbra_mask"`
}

// LightDesc describes a spot or directional light. A directional light
// may give its direction as sun azimuth and elevation instead.
type LightDesc struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Position  Vec3   `yaml:"position"`
	Direction Vec3   `yaml:"direction"`
	Target    Vec3   `yaml:"target"`
	Intensity Vec3   `yaml:"intensity"`

	Azimuth   *float64 `yaml:"azimuth"`
	Elevation *float64 `yaml:"elevation"`

	FovY            float64 `yaml:"fov_y"`
	Aspect          float64 `yaml:"aspect"`
	ViewWidth       float64 `yaml:"view_width"`
	ViewHeight      float64 `yaml:"view_height"`
	AngularDiameter float64 `yaml:"angular_diameter"`
	Near            float64 `yaml:"near"`
	Far             float64 `yaml:"far"`

	Shadow ShadowDesc `yaml:"shadow"`
}

// ReadSceneFile parses a scene description file.
func ReadSceneFile(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	f, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// ParseSceneFile parses a scene description.
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var f SceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// BuildModel creates the model tree described by d.
func (m *Manager) BuildModel(d ModelDesc) (*model.Model, error) {
	color := d.Color.Or(math.Vec3{1, 1, 1})

	var mdl *model.Model
	switch d.Mesh {
	case "quad":
		size, err := sizeOf(d, 2, 1)
		if err != nil {
			return nil, err
		}
		mdl = model.NewQuad(d.Name, size[0], size[1], color)
	case "box":
		size, err := sizeOf(d, 3, 1)
		if err != nil {
			return nil, err
		}
		mdl = model.NewBox(d.Name, math.Vec3{size[0], size[1], size[2]}, color)
	case "obj":
		var err error
		if mdl, err = m.LoadOBJ(d.Path, color); err != nil {
			return nil, err
		}
		if d.Name != "" {
			mdl.Name = d.Name
		}
	case "", "group":
		mdl = model.New(d.Name)
	default:
		return nil, fmt.Errorf("model %q: %w %q", d.Name, ErrUnknownMesh, d.Mesh)
	}

	for slot, path := range d.Textures {
		s, ok := model.ParseSlot(slot)
		if !ok {
			return nil, fmt.Errorf("model %q: %w: texture slot %q", d.Name, ErrMalformed, slot)
		}
		tex, err := m.Texture(path)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", d.Name, err)
		}
		mdl.SetTexture(s, tex)
	}

	for _, cd := range d.Children {
		child, err := m.BuildModel(cd)
		if err != nil {
			return nil, err
		}
		mdl.Add(child)
	}

	// Scale and rotate about the origin, then move into place
	if d.Scale > 0 {
		mdl.SetScale(d.Scale)
	}
	for _, r := range d.Rotate {
		mdl.Rotate(r.Axis.Or(math.Vec3{0, 1, 0}), r.Angle)
	}
	if d.Position.Set {
		mdl.SetPosition(d.Position.V)
	}
	return mdl, nil
}

func sizeOf(d ModelDesc, n int, def float64) ([]float64, error) {
	if len(d.Size) == 0 {
		out := make([]float64, n)
		for i := range out {
			out[i] = def
		}
		return out, nil
	}
	if len(d.Size) != n {
		return nil, fmt.Errorf("model %q: %w: %s size wants %d values, got %d", d.Name, ErrMalformed, d.Mesh, n, len(d.Size))
	}
	return d.Size, nil
}

// BuildLight creates the light described by d. Shadow fields not set in d
// come from defaults.
func BuildLight(d LightDesc, defaults lighting.ShadowSettings) (*lighting.Light, error) {
	kind, err := lighting.ParseKind(d.Kind)
	if err != nil {
		return nil, fmt.Errorf("light %q: %w", d.Name, err)
	}

	pos := d.Position.Or(math.Vec3{})
	dir := d.Direction.Or(math.Vec3{0, -1, 0})
	if d.Target.Set {
		dir = d.Target.V.Sub(pos)
	}
	if d.Azimuth != nil || d.Elevation != nil {
		var az, el float64
		if d.Azimuth != nil {
			az = *d.Azimuth
		}
		if d.Elevation != nil {
			el = *d.Elevation
		}
		dir = lighting.SunDirection(az, el)
	}
	intensity := d.Intensity.Or(math.Vec3{1, 1, 1})

	var l *lighting.Light
	if kind == lighting.Directional {
		l = lighting.NewDirectional(pos, dir, intensity)
	} else {
		l = lighting.NewSpot(pos, dir, intensity)
	}
	l.Name = d.Name
	l.Shadow = defaults

	setPositive(&l.FovY, d.FovY)
	setPositive(&l.Aspect, d.Aspect)
	setPositive(&l.ViewWidth, d.ViewWidth)
	setPositive(&l.ViewHeight, d.ViewHeight)
	setPositive(&l.AngularDiameter, d.AngularDiameter)
	setPositive(&l.Near, d.Near)
	setPositive(&l.Far, d.Far)

	if err := applyShadow(&l.Shadow, d.Shadow); err != nil {
		return nil, fmt.Errorf("light %q: %w", d.Name, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func applyShadow(s *lighting.ShadowSettings, d ShadowDesc) error {
	if d.Enabled != nil {
		s.Enabled = *d.Enabled
	}
	if d.Resolution != nil && *d.Resolution > 0 {
		s.Width, s.Height = *d.Resolution, *d.Resolution
	}
	if d.Filter != nil {
		m, err := lighting.ParseMethod(*d.Filter)
		if err != nil {
			return err
		}
		s.Filter = m
	}
	if d.PCFRadius != nil {
		s.PCFRadius = max(0, *d.PCFRadius)
	}
	if d.LightSize != nil {
		s.LightSize = *d.LightSize
	}
	if d.BiasScale != nil {
		s.BiasScale = *d.BiasScale
	}
	if d.PCFAccel != nil {
		s.PCFAccel = *d.PCFAccel
	}
	if d.PCSSAccel != nil {
		s.PCSSAccel = *d.PCSSAccel
	}
	if d.PenumbraMask != nil {
		s.PenumbraMask = *d.PenumbraMask
	}
	return nil
}

// Populate adds the models and lights of f to s and applies its camera.
// Nothing is added unless every model and light builds.
func (m *Manager) Populate(s *scene.Scene, f *SceneFile, shadows lighting.ShadowSettings) error {
	models := make([]*model.Model, 0, len(f.Models))
	for _, d := range f.Models {
		mdl, err := m.BuildModel(d)
		if err != nil {
			return err
		}
		models = append(models, mdl)
	}
	lights := make([]*lighting.Light, 0, len(f.Lights))
	for _, d := range f.Lights {
		l, err := BuildLight(d, shadows)
		if err != nil {
			return err
		}
		lights = append(lights, l)
	}

	triangles := 0
	for _, mdl := range models {
		s.AddModel(mdl)
		triangles += mdl.TriangleCount()
	}
	for _, l := range lights {
		s.AddLight(l)
	}

	c := f.Camera
	if c.Eye.Set {
		s.SetEye(c.Eye.V)
	}
	switch {
	case c.Target.Set:
		s.LookAt(c.Target.V)
	case c.Direction.Set:
		s.SetViewDir(c.Direction.V)
	}
	if c.FovY > 0 {
		s.SetFovY(c.FovY)
	}
	if c.Near > 0 || c.Far > 0 {
		cam := s.Camera()
		near, far := cam.Near, cam.Far
		setPositive(&near, c.Near)
		setPositive(&far, c.Far)
		s.SetNearFar(near, far)
	}

	m.log.Info("scene populated",
		zap.Int("models", len(models)),
		zap.Int("triangles", triangles),
		zap.Int("lights", len(lights)))
	return nil
}

// LoadScene reads the scene file at path and populates s with it.
// Relative asset paths resolve against the file's directory.
func LoadScene(path string, s *scene.Scene, shadows lighting.ShadowSettings, maxTexture int, log *zap.Logger) (*Manager, error) {
	f, err := ReadSceneFile(path)
	if err != nil {
		return nil, err
	}
	m := NewManager(f.Dir, maxTexture, log)
	if err := m.Populate(s, f, shadows); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
