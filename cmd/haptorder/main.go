// Command haptorder computes visibility orderings of a tetrahedral mesh for
// a set of random views and reports timing and ordering quality per method.
//
// Usage:
//
//	haptorder [-config file.toml] [-mesh mesh.off] [-methods mpvo,centroid] [-views 16] [-v|-vv|-q]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/hapt"
	"github.com/soypat/hapt/helpers/tetmesh"
	"github.com/soypat/hapt/meshio"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("haptorder failed", "err", err)
		os.Exit(1)
	}
}

// levelFromFlags maps the verbosity flags to a log level, the most verbose
// flag taking precedence. The default level is warn.
func levelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func run(args []string, stdout io.Writer) error {
	f, err := newFlags(args)
	if err != nil {
		return err
	}
	cfg := defaultConfig()
	if f.config != "" {
		if err := loadConfig(f.config, &cfg); err != nil {
			return err
		}
	}
	f.apply(&cfg)
	if err := cfg.validate(); err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelFromFlags(f.vv, f.v, f.q)}))
	slog.SetDefault(logger)
	hapt.SetLogger(logger)

	m, err := loadMesh(cfg)
	if err != nil {
		return err
	}
	conn, err := loadConnectivity(cfg, m)
	if err != nil {
		return err
	}
	var opts []hapt.Option
	if conn != nil {
		opts = append(opts, hapt.WithConnectivity(conn))
	}
	if cfg.GPU {
		sorter, release, err := newGPUSorter()
		if err != nil {
			return err
		}
		defer release()
		opts = append(opts, hapt.WithKeySorter(hapt.MethodBitonic, sorter))
	}
	start := time.Now()
	o, err := hapt.NewOrderer(m, opts...)
	if err != nil {
		return err
	}
	slog.Info("ordering context built", "cells", len(m.Tetras), "took", time.Since(start), "bytes", o.MemSize())
	if cfg.Cache != "" && conn == nil {
		if err := writeFile(cfg.Cache, func(w io.Writer) error {
			return meshio.WriteConCache(w, m, o.Connectivity())
		}); err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	views := randomViews(rng, cfg.Views)
	results, err := orderViews(o, cfg.Methods, views)
	if err != nil {
		return err
	}
	printSummary(stdout, o, results)

	if err := writeOutputs(cfg.Output, o, views[0]); err != nil {
		return err
	}
	if len(cfg.Scaling) > 0 {
		points, err := measureScaling(cfg.Scaling, cfg.Methods, views)
		if err != nil {
			return err
		}
		printScaling(stdout, points)
		if cfg.Output.Plot != "" {
			if err := plotScaling(cfg.Output.Plot, points); err != nil {
				return err
			}
		}
	}
	return nil
}

func loadMesh(cfg Config) (*hapt.Mesh, error) {
	var (
		m   *hapt.Mesh
		err error
	)
	if cfg.Mesh != "" {
		fp, err := os.Open(cfg.Mesh)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		m, _, err = meshio.ReadOFF(fp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Mesh, err)
		}
	} else {
		nx, ny, nz := tetmesh.GridCells(cfg.Cells)
		m, err = tetmesh.Grid(nx, ny, nz, 1)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Normalize {
		m.Normalize()
	}
	return m, nil
}

// loadConnectivity returns connectivity from a .con file or a valid cache,
// or nil when it must be built.
func loadConnectivity(cfg Config, m *hapt.Mesh) (*hapt.Connectivity, error) {
	if cfg.Con != "" {
		fp, err := os.Open(cfg.Con)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		return meshio.ReadCon(fp, len(m.Tetras))
	}
	if cfg.Cache == "" {
		return nil, nil
	}
	fp, err := os.Open(cfg.Cache)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer fp.Close()
	conn, err := meshio.ReadConCache(fp, m)
	if errors.Is(err, meshio.ErrStaleCache) {
		slog.Info("connectivity cache is stale, rebuilding", "path", cfg.Cache)
		return nil, nil
	}
	return conn, err
}

// randomViews returns model-view matrices looking at the origin from random
// directions at distance 4.
func randomViews(rng *rand.Rand, n int) []mgl32.Mat4 {
	views := make([]mgl32.Mat4, n)
	for i := range views {
		axis := mgl32.Vec3{rng.Float32() - 0.5, rng.Float32() - 0.5, rng.Float32() - 0.5}
		if axis.Len() == 0 {
			axis = mgl32.Vec3{0, 1, 0}
		}
		rot := mgl32.HomogRotate3D(rng.Float32()*2*mgl32.DegToRad(180), axis.Normalize())
		views[i] = mgl32.Translate3D(0, 0, -4).Mul4(rot)
	}
	return views
}

func writeFile(path string, write func(io.Writer) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fp); err != nil {
		fp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fp.Close()
}

func writeOutputs(out Output, o *hapt.Orderer, mv mgl32.Mat4) error {
	m := o.Mesh()
	if out.Con != "" {
		if err := writeFile(out.Con, func(w io.Writer) error {
			return meshio.WriteCon(w, o.Connectivity())
		}); err != nil {
			return err
		}
	}
	if out.STL != "" || out.Preview != "" {
		stl := out.STL
		if stl == "" {
			tmp, err := os.CreateTemp("", "haptorder-*.stl")
			if err != nil {
				return err
			}
			tmp.Close()
			stl = tmp.Name()
			defer os.Remove(stl)
		}
		if err := writeFile(stl, func(w io.Writer) error {
			_, err := meshio.WriteBoundarySTL(w, m, o.Connectivity())
			return err
		}); err != nil {
			return err
		}
		if out.Preview != "" {
			if err := renderPreview(stl, out.Preview, mv); err != nil {
				return err
			}
		}
	}
	if out.GLB != "" {
		ids, err := o.OrderWith(hapt.MethodMPVO, mv)
		if err != nil {
			return err
		}
		if err := writeFile(out.GLB, func(w io.Writer) error {
			return meshio.WriteGLB(w, m, ids)
		}); err != nil {
			return err
		}
	}
	return nil
}
