package main

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/muesli/termenv"
	"github.com/soypat/hapt"
	"github.com/soypat/hapt/helpers/tetmesh"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type methodResult struct {
	Method     hapt.Method
	Mean       time.Duration
	Boundary   int
	Cycles     int
	Unreached  int
	Violations int
}

// orderViews orders the mesh for every view with each method and
// accumulates timing and the number of violated DAG edges.
func orderViews(o *hapt.Orderer, methods []hapt.Method, views []mgl32.Mat4) ([]methodResult, error) {
	results := make([]methodResult, len(methods))
	for i, method := range methods {
		res := &results[i]
		res.Method = method
		var total time.Duration
		for _, mv := range views {
			if err := o.SetMethod(method); err != nil {
				return nil, err
			}
			ids, stats, err := o.OrderTimed(mv)
			if err != nil {
				return nil, err
			}
			total += stats.Duration
			res.Boundary += stats.BoundaryCells
			res.Cycles += stats.Cycles
			res.Unreached += stats.Unreached
			violated, err := o.SortError(mv, ids)
			if err != nil {
				return nil, err
			}
			res.Violations += violated
		}
		res.Mean = total / time.Duration(len(views))
	}
	return results, nil
}

func printSummary(w io.Writer, o *hapt.Orderer, results []methodResult) {
	out := termenv.NewOutput(w)
	title := out.String("hapt visibility ordering").Bold()
	conn := o.Connectivity()
	fmt.Fprintf(w, "%s: %d cells, %d boundary faces, %d bytes\n", title, conn.NumCells(), conn.ExtFaces, o.MemSize())
	for _, r := range results {
		name := out.String(fmt.Sprintf("%-9s", r.Method)).Foreground(out.Color("6"))
		violations := out.String(fmt.Sprint(r.Violations))
		if r.Violations > 0 {
			violations = violations.Foreground(out.Color("1"))
		} else {
			violations = violations.Foreground(out.Color("2"))
		}
		fmt.Fprintf(w, "  %s mean %-12s violated faces %s", name, r.Mean, violations)
		if r.Method == hapt.MethodMPVO {
			fmt.Fprintf(w, " boundary starts %d cycles %d unreached %d", r.Boundary, r.Cycles, r.Unreached)
		}
		fmt.Fprintln(w)
	}
}

type scalingPoint struct {
	Method hapt.Method
	Cells  int
	Mean   time.Duration
}

func measureScaling(sizes []int, methods []hapt.Method, views []mgl32.Mat4) ([]scalingPoint, error) {
	var points []scalingPoint
	for _, n := range sizes {
		nx, ny, nz := tetmesh.GridCells(n)
		m, err := tetmesh.Grid(nx, ny, nz, 1)
		if err != nil {
			return nil, err
		}
		m.Normalize()
		o, err := hapt.NewOrderer(m)
		if err != nil {
			return nil, err
		}
		for _, method := range methods {
			if method == hapt.MethodNone {
				continue
			}
			var total time.Duration
			for _, mv := range views {
				_, err := o.OrderWith(method, mv)
				if err != nil {
					return nil, err
				}
				total += o.LastStats().Duration
			}
			points = append(points, scalingPoint{Method: method, Cells: len(m.Tetras), Mean: total / time.Duration(len(views))})
		}
	}
	return points, nil
}

// scalingExponent fits time = a*cells^k by least squares in log-log space
// and returns k. Linear methods give k near 1.
func scalingExponent(points []scalingPoint) float64 {
	var xs, ys []float64
	for _, p := range points {
		if p.Mean <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(p.Cells)))
		ys = append(ys, math.Log(p.Mean.Seconds()))
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	_, k := stat.LinearRegression(xs, ys, nil, false)
	return k
}

func byMethod(points []scalingPoint) map[hapt.Method][]scalingPoint {
	grouped := make(map[hapt.Method][]scalingPoint)
	for _, p := range points {
		grouped[p.Method] = append(grouped[p.Method], p)
	}
	return grouped
}

func printScaling(w io.Writer, points []scalingPoint) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String("scaling").Bold())
	grouped := byMethod(points)
	for _, method := range hapt.Methods() {
		pts := grouped[method]
		if len(pts) == 0 {
			continue
		}
		for _, p := range pts {
			fmt.Fprintf(w, "  %-9s %8d cells %s\n", method, p.Cells, p.Mean)
		}
		fmt.Fprintf(w, "  %-9s exponent %.2f\n", method, scalingExponent(pts))
	}
}

func plotScaling(path string, points []scalingPoint) error {
	p := plot.New()
	p.Title.Text = "Ordering time"
	p.X.Label.Text = "cells"
	p.Y.Label.Text = "seconds"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	grouped := byMethod(points)
	var lines []interface{}
	for _, method := range hapt.Methods() {
		pts := grouped[method]
		if len(pts) == 0 {
			continue
		}
		var xys plotter.XYs
		for _, pt := range pts {
			if pt.Mean <= 0 {
				continue // Not representable on a log scale.
			}
			xys = append(xys, plotter.XY{X: float64(pt.Cells), Y: pt.Mean.Seconds()})
		}
		if len(xys) == 0 {
			continue
		}
		lines = append(lines, method.String(), xys)
	}
	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
