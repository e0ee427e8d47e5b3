package io

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/hpmc/geom"
	"github.com/phil-mansfield/hpmc/shape"
	"github.com/phil-mansfield/hpmc/system"
	"github.com/phil-mansfield/hpmc/wall"
)

// ErrInvalidConfig is wrapped by every validation error in this package.
var ErrInvalidConfig = errors.New("io: invalid config")

const ExampleConfigFile = `[Box]
# Edge lengths of the periodic simulation box.
Lx = 20
Ly = 20
Lz = 20

# Tilt factors of a triclinic box. All default to zero.
# XY = 0
# XZ = 0
# YZ = 0

# Every [Shape] section is one particle type. Types are numbered in
# alphabetical order of their names, starting at 0, and this number is the
# first column of the particle file.
[Shape "a_sphere"]
# Kind must be one of [ Sphere | ConvexPolyhedron | Spheropolyhedron ].
Kind = Sphere
Radius = 0.5

[Shape "b_cube"]
Kind = ConvexPolyhedron
# Vertices are given in the particle's body frame, one per line. They can
# also be read from the first three columns of a table with VertexFile.
Vertex = -0.5, -0.5, -0.5
Vertex = -0.5, -0.5,  0.5
Vertex = -0.5,  0.5, -0.5
Vertex = -0.5,  0.5,  0.5
Vertex =  0.5, -0.5, -0.5
Vertex =  0.5, -0.5,  0.5
Vertex =  0.5,  0.5, -0.5
Vertex =  0.5,  0.5,  0.5
# VertexFile = path/to/verts.txt
# SweepRadius = 0.1

# Walls of each kind are added in alphabetical order of their names, which
# sets their index in the log quantities.
[SphereWall "container"]
Radius = 8
Origin = 0, 0, 0
# Inside = true keeps particles inside the sphere. Otherwise they are kept
# outside of it.
Inside = true

[CylinderWall "rod"]
Radius = 1
Origin = 0, 0, 0
Orientation = 0, 0, 1
Inside = false

[PlaneWall "floor"]
# Particles are kept on the side of the plane the normal points to.
Normal = 0, 0, 1
Origin = 0, 0, -6

[Run]

#######################
# Required Parameters #
#######################

# Table of particles with the columns: type x y z qw qx qy qz.
Particles = path/to/particles.txt

#######################
# Optional Parameters #
#######################

# Counting stops at the first wall violation when EarlyExit is set.
# EarlyExit = false

# Must be CPU. Walls are not supported on GPUs.
# Device = CPU

# Number of goroutines used to count overlaps. Zero uses every CPU.
# Workers = 1

# Splits the box into this many slabs along x, each counted as a separate
# domain whose overlap counts are summed.
# Partitions = 1

# Volume enclosed by the walls. It is rescaled along with the box.
# Volume = 2144.66

# Timestep written to the log.
# Timestep = 0

# Comma separated log quantities to write to LogOutput (or stdout).
# LogQuantities = hpmc_wall_sph_rsq-0, hpmc_wall_volume
# LogOutput = walls.log
# Delimiter = ","

# Writes a cross section of the walls and particles through the origin,
# perpendicular to PlotAxis, to a png file.
# Plot = walls.png
# PlotAxis = Z

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out`

type BoxConfig struct {
	// Required
	Lx, Ly, Lz float64

	// Optional
	XY, XZ, YZ float64
}

func (con *BoxConfig) CheckInit() error {
	if !(con.Lx > 0 && con.Ly > 0 && con.Lz > 0) {
		return errors.Wrapf(
			ErrInvalidConfig, "Box must have positive Lx, Ly and Lz, "+
				"but they are %g, %g and %g", con.Lx, con.Ly, con.Lz,
		)
	}
	return nil
}

func (con *BoxConfig) Box() (*geom.Box, error) {
	return geom.NewBox(con.Lx, con.Ly, con.Lz, con.XY, con.XZ, con.YZ)
}

type ShapeConfig struct {
	// Required
	Kind string

	// Optional
	Radius, SweepRadius float64
	Vertex              []string
	VertexFile          string
	Ignore              bool

	// Optional, "undocumented"
	Name string
}

func (con *ShapeConfig) CheckInit(name string) error {
	con.Name = name
	switch con.Kind {
	case "Sphere":
		if con.Radius <= 0 {
			return errors.Wrapf(
				ErrInvalidConfig,
				"Need to specify a positive Radius for Shape '%s'", name,
			)
		}
	case "ConvexPolyhedron", "Spheropolyhedron":
		if con.SweepRadius < 0 {
			return errors.Wrapf(
				ErrInvalidConfig, "Shape '%s' given a negative SweepRadius, %g",
				name, con.SweepRadius,
			)
		} else if len(con.Vertex) > 0 && con.VertexFile != "" {
			return errors.Wrapf(
				ErrInvalidConfig,
				"Shape '%s' sets both Vertex and VertexFile", name,
			)
		} else if con.Kind == "ConvexPolyhedron" && con.SweepRadius != 0 {
			return errors.Wrapf(
				ErrInvalidConfig, "ConvexPolyhedron '%s' cannot have a "+
					"SweepRadius. Use Spheropolyhedron instead", name,
			)
		}
	default:
		return errors.Wrapf(
			ErrInvalidConfig, "Kind of Shape '%s' must be one of [Sphere | "+
				"ConvexPolyhedron | Spheropolyhedron]. '%s' is not recognized",
			name, con.Kind,
		)
	}
	return nil
}

// Params builds the shape parameters, reading VertexFile if it is set.
func (con *ShapeConfig) Params() (shape.Params, error) {
	if con.Kind == "Sphere" {
		return shape.SphereParams{Radius: con.Radius, Ignore: con.Ignore}, nil
	}

	var verts []mgl64.Vec3
	var err error
	if con.VertexFile != "" {
		verts, err = ReadVertices(con.VertexFile)
	} else {
		verts, err = parseVecs(con.Vertex)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Shape '%s'", con.Name)
	}

	switch con.Kind {
	case "ConvexPolyhedron":
		p, err := shape.NewConvexParams(verts)
		if err != nil {
			return nil, errors.Wrapf(err, "Shape '%s'", con.Name)
		}
		p.Ignore = con.Ignore
		return p, nil
	default:
		p, err := shape.NewSpheroParams(verts, con.SweepRadius)
		if err != nil {
			return nil, errors.Wrapf(err, "Shape '%s'", con.Name)
		}
		p.Ignore = con.Ignore
		return p, nil
	}
}

type SphereWallConfig struct {
	// Required
	Radius float64
	Origin string

	// Optional
	Inside bool
	Name   string
}

func (con *SphereWallConfig) CheckInit(name string) error {
	con.Name = name
	if con.Radius <= 0 {
		return errors.Wrapf(
			ErrInvalidConfig,
			"Need to specify a positive Radius for SphereWall '%s'", name,
		)
	}
	_, err := parseVec(con.Origin)
	return errors.Wrapf(err, "Origin of SphereWall '%s'", name)
}

func (con *SphereWallConfig) Wall() (wall.SphereWall, error) {
	origin, err := parseVec(con.Origin)
	if err != nil {
		return wall.SphereWall{}, err
	}
	return wall.NewSphereWall(con.Radius, origin, con.Inside)
}

type CylinderWallConfig struct {
	// Required
	Radius      float64
	Origin      string
	Orientation string

	// Optional
	Inside bool
	Name   string
}

func (con *CylinderWallConfig) CheckInit(name string) error {
	con.Name = name
	if con.Radius <= 0 {
		return errors.Wrapf(
			ErrInvalidConfig,
			"Need to specify a positive Radius for CylinderWall '%s'", name,
		)
	}
	if _, err := parseVec(con.Origin); err != nil {
		return errors.Wrapf(err, "Origin of CylinderWall '%s'", name)
	}
	axis, err := parseVec(con.Orientation)
	if err != nil {
		return errors.Wrapf(err, "Orientation of CylinderWall '%s'", name)
	} else if axis.Len() == 0 {
		return errors.Wrapf(
			ErrInvalidConfig,
			"Orientation of CylinderWall '%s' has zero length", name,
		)
	}
	return nil
}

func (con *CylinderWallConfig) Wall() (wall.CylinderWall, error) {
	origin, err := parseVec(con.Origin)
	if err != nil {
		return wall.CylinderWall{}, err
	}
	axis, err := parseVec(con.Orientation)
	if err != nil {
		return wall.CylinderWall{}, err
	}
	return wall.NewCylinderWall(con.Radius, origin, axis, con.Inside)
}

type PlaneWallConfig struct {
	// Required
	Normal string
	Origin string

	// Optional
	Inside bool
	Name   string
}

func (con *PlaneWallConfig) CheckInit(name string) error {
	con.Name = name
	if _, err := parseVec(con.Origin); err != nil {
		return errors.Wrapf(err, "Origin of PlaneWall '%s'", name)
	}
	n, err := parseVec(con.Normal)
	if err != nil {
		return errors.Wrapf(err, "Normal of PlaneWall '%s'", name)
	} else if n.Len() == 0 {
		return errors.Wrapf(
			ErrInvalidConfig, "Normal of PlaneWall '%s' has zero length", name,
		)
	}
	return nil
}

func (con *PlaneWallConfig) Wall() (wall.PlaneWall, error) {
	origin, err := parseVec(con.Origin)
	if err != nil {
		return wall.PlaneWall{}, err
	}
	n, err := parseVec(con.Normal)
	if err != nil {
		return wall.PlaneWall{}, err
	}
	return wall.NewPlaneWall(n, origin, con.Inside)
}

type RunConfig struct {
	// Required
	Particles string

	// Optional
	EarlyExit     bool
	Device        string
	Workers       int
	Partitions    int
	Volume        float64
	Timestep      int
	LogQuantities string
	LogOutput     string
	Delimiter     string
	Plot          string
	PlotAxis      string
	LogFile       string
	ProfileFile   string
}

func (con *RunConfig) ValidParticles() bool   { return con.Particles != "" }
func (con *RunConfig) ValidLogFile() bool     { return con.LogFile != "" }
func (con *RunConfig) ValidProfileFile() bool { return con.ProfileFile != "" }
func (con *RunConfig) ValidPlot() bool        { return con.Plot != "" }

func (con *RunConfig) ValidDevice() bool {
	_, err := system.ParseDevice(con.Device)
	return err == nil
}

func (con *RunConfig) ValidWorkers() bool { return con.Workers >= 0 }

func (con *RunConfig) ValidPartitions() bool { return con.Partitions >= 1 }

func (con *RunConfig) ValidTimestep() bool { return con.Timestep >= 0 }

func (con *RunConfig) ValidPlotAxis() bool {
	_, ok := con.PlotDim()
	return ok
}

// PlotDim returns the index of the axis perpendicular to the plotted plane.
func (con *RunConfig) PlotDim() (int, bool) {
	switch strings.ToUpper(strings.TrimSpace(con.PlotAxis)) {
	case "X":
		return 0, true
	case "Y":
		return 1, true
	case "", "Z":
		return 2, true
	}
	return 0, false
}

// Quantities returns the names listed in LogQuantities.
func (con *RunConfig) Quantities() []string {
	names := lo.Map(strings.Split(con.LogQuantities, ","),
		func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(names)
}

func (con *RunConfig) CheckInit() error {
	if !con.ValidParticles() {
		return errors.Wrap(ErrInvalidConfig, "Invalid/non-existent 'Particles' value")
	} else if !con.ValidDevice() {
		return errors.Wrapf(
			ErrInvalidConfig, "Device must be one of [CPU | GPU]. '%s' is "+
				"not recognized", con.Device,
		)
	} else if !con.ValidWorkers() {
		return errors.Wrapf(
			ErrInvalidConfig, "Workers must be non-negative, but is %d",
			con.Workers,
		)
	} else if !con.ValidPartitions() {
		return errors.Wrapf(
			ErrInvalidConfig, "Partitions must be positive, but is %d",
			con.Partitions,
		)
	} else if !con.ValidTimestep() {
		return errors.Wrapf(
			ErrInvalidConfig, "Timestep must be non-negative, but is %d",
			con.Timestep,
		)
	} else if !con.ValidPlotAxis() {
		return errors.Wrapf(
			ErrInvalidConfig, "PlotAxis must be one of [X | Y | Z]. '%s' is "+
				"not recognized", con.PlotAxis,
		)
	}
	return nil
}

type Config struct {
	Box          BoxConfig
	Shape        map[string]*ShapeConfig
	SphereWall   map[string]*SphereWallConfig
	CylinderWall map[string]*CylinderWallConfig
	PlaneWall    map[string]*PlaneWallConfig
	Run          RunConfig
}

func DefaultConfig() *Config {
	return &Config{Run: RunConfig{Delimiter: "\t", Workers: 1, Partitions: 1}}
}

// ReadConfig reads and validates the configuration file fname.
func ReadConfig(fname string) (*Config, error) {
	con := DefaultConfig()
	if err := gcfg.ReadFileInto(con, fname); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

// ParseConfig reads and validates a configuration from a string.
func ParseConfig(str string) (*Config, error) {
	con := DefaultConfig()
	if err := gcfg.ReadStringInto(con, str); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

func (con *Config) CheckInit() error {
	if err := con.Box.CheckInit(); err != nil {
		return err
	}
	if len(con.Shape) == 0 {
		return errors.Wrap(ErrInvalidConfig, "Need at least one [Shape] section")
	}
	for _, name := range sortedKeys(con.Shape) {
		if err := con.Shape[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(con.SphereWall) {
		if err := con.SphereWall[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(con.CylinderWall) {
		if err := con.CylinderWall[name].CheckInit(name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(con.PlaneWall) {
		if err := con.PlaneWall[name].CheckInit(name); err != nil {
			return err
		}
	}
	return con.Run.CheckInit()
}

// ShapeNames returns the names of the particle types in type order.
func (con *Config) ShapeNames() []string { return sortedKeys(con.Shape) }

// Integrator builds the per-type shape parameters.
func (con *Config) Integrator() (*system.Integrator, error) {
	mc := system.NewIntegrator()
	for typ, name := range con.ShapeNames() {
		p, err := con.Shape[name].Params()
		if err != nil {
			return nil, err
		}
		mc.SetParams(typ, p)
	}
	return mc, nil
}

func (con *Config) SphereWalls() ([]wall.SphereWall, error) {
	ws := []wall.SphereWall{}
	for _, name := range sortedKeys(con.SphereWall) {
		w, err := con.SphereWall[name].Wall()
		if err != nil {
			return nil, errors.Wrapf(err, "SphereWall '%s'", name)
		}
		ws = append(ws, w)
	}
	return ws, nil
}

func (con *Config) CylinderWalls() ([]wall.CylinderWall, error) {
	ws := []wall.CylinderWall{}
	for _, name := range sortedKeys(con.CylinderWall) {
		w, err := con.CylinderWall[name].Wall()
		if err != nil {
			return nil, errors.Wrapf(err, "CylinderWall '%s'", name)
		}
		ws = append(ws, w)
	}
	return ws, nil
}

func (con *Config) PlaneWalls() ([]wall.PlaneWall, error) {
	ws := []wall.PlaneWall{}
	for _, name := range sortedKeys(con.PlaneWall) {
		w, err := con.PlaneWall[name].Wall()
		if err != nil {
			return nil, errors.Wrapf(err, "PlaneWall '%s'", name)
		}
		ws = append(ws, w)
	}
	return ws, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// parseVec parses three comma or space separated numbers.
func parseVec(s string) (mgl64.Vec3, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 3 {
		return mgl64.Vec3{}, errors.Wrapf(
			ErrInvalidConfig, "'%s' is not a 3-vector", s,
		)
	}

	v := mgl64.Vec3{}
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return mgl64.Vec3{}, errors.Wrapf(
				ErrInvalidConfig, "'%s' is not a 3-vector: %s", s, err.Error(),
			)
		}
		v[i] = x
	}
	return v, nil
}

func parseVecs(ss []string) ([]mgl64.Vec3, error) {
	vs := make([]mgl64.Vec3, len(ss))
	for i, s := range ss {
		v, err := parseVec(s)
		if err != nil {
			return nil, errors.Wrapf(err, "Vertex %d", i)
		}
		vs[i] = v
	}
	return vs, nil
}
