package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/hapt"
)

// Config holds the haptorder settings. It is read from a TOML file and
// individual fields are overridden by command line flags.
type Config struct {
	// Mesh is an OFF tetrahedral mesh file. A regular grid is generated when empty.
	Mesh string `toml:"mesh"`
	// Cells is the minimum cell count of the generated grid.
	Cells int `toml:"cells"`
	// Normalize fits the mesh into [-1,1] before ordering.
	Normalize bool `toml:"normalize"`
	// Con is a .con connectivity file to use instead of building connectivity.
	Con string `toml:"con"`
	// Cache is a binary connectivity cache, read when valid and written otherwise.
	Cache string `toml:"cache"`
	// Methods are the ordering methods to run.
	Methods []hapt.Method `toml:"methods"`
	// Views is the number of random views ordered per method.
	Views int `toml:"views"`
	// Seed seeds the random views.
	Seed int64 `toml:"seed"`
	// GPU sorts bitonic keys with an OpenGL compute shader.
	GPU bool `toml:"gpu"`
	// Scaling lists grid sizes for the scaling report. Empty disables it.
	Scaling []int `toml:"scaling"`

	Output Output `toml:"output"`
}

// Output lists optional files written after ordering.
type Output struct {
	STL     string `toml:"stl"`
	GLB     string `toml:"glb"`
	Con     string `toml:"con"`
	Plot    string `toml:"plot"`
	Preview string `toml:"preview"`
}

func defaultConfig() Config {
	return Config{
		Cells:   10000,
		Methods: hapt.Methods(),
		Views:   16,
		Seed:    1,
	}
}

func loadConfig(path string, cfg *Config) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = toml.NewDecoder(fp).DisallowUnknownFields().Decode(cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Mesh == "" && c.Cells < 1 {
		return fmt.Errorf("cells must be positive, got %d", c.Cells)
	}
	if c.Views < 1 {
		return fmt.Errorf("views must be positive, got %d", c.Views)
	}
	if len(c.Methods) == 0 {
		return fmt.Errorf("no ordering methods selected")
	}
	return nil
}

// methodList is a flag.Value parsing comma separated method names.
type methodList []hapt.Method

func (l *methodList) String() string {
	var names []string
	for _, m := range *l {
		names = append(names, m.String())
	}
	return strings.Join(names, ",")
}

func (l *methodList) Set(s string) error {
	*l = (*l)[:0]
	for _, name := range strings.Split(s, ",") {
		m, err := hapt.ParseMethod(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		*l = append(*l, m)
	}
	return nil
}

// intList is a flag.Value parsing comma separated integers.
type intList []int

func (l *intList) String() string {
	var s []string
	for _, v := range *l {
		s = append(s, strconv.Itoa(v))
	}
	return strings.Join(s, ",")
}

func (l *intList) Set(s string) error {
	*l = (*l)[:0]
	for _, field := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return err
		}
		*l = append(*l, v)
	}
	return nil
}

// flags holds flag values separately from the config so that only flags
// set on the command line override the config file.
type flags struct {
	set     *flag.FlagSet
	config  string
	vv, v   bool
	q       bool
	cfg     Config
	methods methodList
	scaling intList
}

func newFlags(args []string) (*flags, error) {
	f := &flags{set: flag.NewFlagSet("haptorder", flag.ContinueOnError)}
	fs := f.set
	fs.StringVar(&f.config, "config", "", "TOML configuration file")
	fs.BoolVar(&f.vv, "vv", false, "debug logging")
	fs.BoolVar(&f.v, "v", false, "info logging")
	fs.BoolVar(&f.q, "q", false, "only log errors")
	fs.StringVar(&f.cfg.Mesh, "mesh", "", "OFF tetrahedral mesh file")
	fs.IntVar(&f.cfg.Cells, "cells", 0, "minimum cell count of the generated grid")
	fs.BoolVar(&f.cfg.Normalize, "normalize", false, "fit mesh into [-1,1]")
	fs.StringVar(&f.cfg.Con, "con", "", ".con connectivity file")
	fs.StringVar(&f.cfg.Cache, "cache", "", "binary connectivity cache file")
	fs.Var(&f.methods, "methods", "comma separated ordering methods (none,centroid,bitonic,quick,mpvo)")
	fs.IntVar(&f.cfg.Views, "views", 0, "random views per method")
	fs.Int64Var(&f.cfg.Seed, "seed", 0, "random view seed")
	fs.BoolVar(&f.cfg.GPU, "gpu", false, "run bitonic sort on the GPU")
	fs.Var(&f.scaling, "scaling", "comma separated grid sizes for the scaling report")
	fs.StringVar(&f.cfg.Output.STL, "stl", "", "write boundary surface STL")
	fs.StringVar(&f.cfg.Output.GLB, "glb", "", "write cells in MPVO order as GLB")
	fs.StringVar(&f.cfg.Output.Con, "writecon", "", "write .con connectivity file")
	fs.StringVar(&f.cfg.Output.Plot, "plot", "", "write scaling plot PNG")
	fs.StringVar(&f.cfg.Output.Preview, "preview", "", "write boundary surface preview PNG")
	return f, fs.Parse(args)
}

// apply overrides cfg with the flags given on the command line.
func (f *flags) apply(cfg *Config) {
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mesh":
			cfg.Mesh = f.cfg.Mesh
		case "cells":
			cfg.Cells = f.cfg.Cells
		case "normalize":
			cfg.Normalize = f.cfg.Normalize
		case "con":
			cfg.Con = f.cfg.Con
		case "cache":
			cfg.Cache = f.cfg.Cache
		case "methods":
			cfg.Methods = f.methods
		case "views":
			cfg.Views = f.cfg.Views
		case "seed":
			cfg.Seed = f.cfg.Seed
		case "gpu":
			cfg.GPU = f.cfg.GPU
		case "scaling":
			cfg.Scaling = f.scaling
		case "stl":
			cfg.Output.STL = f.cfg.Output.STL
		case "glb":
			cfg.Output.GLB = f.cfg.Output.GLB
		case "writecon":
			cfg.Output.Con = f.cfg.Output.Con
		case "plot":
			cfg.Output.Plot = f.cfg.Output.Plot
		case "preview":
			cfg.Output.Preview = f.cfg.Output.Preview
		}
	})
}
