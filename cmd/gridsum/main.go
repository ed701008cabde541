// Command gridsum demonstrates device-dispatched reductions and prefix
// sums over structured-grid data.
//
// It builds a 2D grid, fills a vector with one entry per cell, and sums
// it with the Plus functional on the host and, with -gpu, on the
// registered accelerator.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/grinisrit/kotik"
	"github.com/grinisrit/kotik/algorithms"
	"github.com/grinisrit/kotik/containers"
	"github.com/grinisrit/kotik/devices"
	"github.com/grinisrit/kotik/grid"
	_ "github.com/grinisrit/kotik/gpu"
)

func main() {
	var (
		width   = flag.Int("width", 1000, "grid cells along x")
		height  = flag.Int("height", 1000, "grid cells along y")
		useGPU  = flag.Bool("gpu", false, "also run on the accelerator")
		verbose = flag.Bool("v", false, "log accelerator activity")
	)
	flag.Parse()

	if *verbose {
		kotik.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	g, err := grid.NewGrid(*width, *height)
	if err != nil {
		log.Fatalf("create grid: %v", err)
	}
	cells := countEntities(g, g.Dimension())
	fmt.Printf("grid %dx%d: %d vertices, %d edges, %d cells\n",
		*width, *height, countEntities(g, 0), countEntities(g, 1), cells)

	hostSum(cells)
	hostScan()
	if *useGPU {
		gpuSum(cells)
	}
}

func countEntities(g *grid.Grid, dim int) int {
	n, err := g.EntitiesCount(dim)
	if err != nil {
		log.Fatalf("count %d-entities: %v", dim, err)
	}
	return n
}

// hostSum fills a host vector with ones, one per grid cell, and reduces it.
func hostSum(cells int) {
	v := containers.MustNewVector[float64, devices.Host](cells)
	if err := v.Fill(1); err != nil {
		log.Fatalf("fill: %v", err)
	}
	sum, err := algorithms.ReduceVector(v, algorithms.Plus[float64]())
	if err != nil {
		log.Fatalf("reduce: %v", err)
	}
	fmt.Printf("host sum of %d ones: %g\n", cells, sum)
}

// hostScan shows an inclusive and an exclusive prefix sum side by side.
func hostScan() {
	v := containers.MustNewVector[float64, devices.Host](8)
	if err := v.Fill(1); err != nil {
		log.Fatalf("fill: %v", err)
	}
	inc, err := algorithms.ScanVector(v, algorithms.Plus[float64](), true)
	if err != nil {
		log.Fatalf("inclusive scan: %v", err)
	}
	exc, err := algorithms.ScanVector(v, algorithms.Plus[float64](), false)
	if err != nil {
		log.Fatalf("exclusive scan: %v", err)
	}
	fmt.Printf("inclusive scan of ones: %s\n", inc)
	fmt.Printf("exclusive scan of ones: %s\n", exc)
}

// gpuSum repeats the reduction on the accelerator, failing fast when no
// backend registered at startup.
func gpuSum(cells int) {
	v, err := containers.NewVector[float32, devices.Accel](cells)
	if err != nil {
		log.Fatalf("accelerator vector: %v", err)
	}
	defer v.Close()

	if err := v.Fill(1); err != nil {
		log.Fatalf("accelerator fill: %v", err)
	}
	sum, err := algorithms.ReduceVector(v, algorithms.Plus[float32]())
	if err != nil {
		log.Fatalf("accelerator reduce: %v", err)
	}
	fmt.Printf("accelerator sum of %d ones: %g\n", cells, sum)
}
