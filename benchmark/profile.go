package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/fogfactory/conduit"
	"github.com/samber/lo"
)

// Profile generates a CPU profile of a parallel block in dir. It will be outputted as conduit_{date}_n{items}_k{chunkSize}_p{poolSize}.prof.
//
// - items Number of items fed to the pipeline. Each item sleeps one millisecond.
// - chunkSize Chunk size of the parallel block.
// - poolSize Goroutines mapping each chunk.
//
// use pprof to read the file (go install github.com/google/pprof@latest).
func Profile(dir string, items, chunkSize, poolSize int) (string, error) {
	// Profile file
	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("conduit_%s_n%d_k%d_p%d.prof",
		strings.ReplaceAll(time.Now().Truncate(time.Second).Format(time.DateTime), " ", "-"),
		items, chunkSize, poolSize)))
	if err != nil {
		return "", err
	}
	defer f.Close()

	dumbProc := func(i int) int { time.Sleep(time.Millisecond); return i }
	chain := conduit.ParBlock(conduit.New[int](), chunkSize, conduit.Step(conduit.New[int](), dumbProc))
	fmt.Println("totalCalls: ", items, ", minimal seq duration:", time.Duration(items)*time.Millisecond)

	// Start profiling
	err = func() error {
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()

		// Run pipeline
		start := time.Now()
		count := 0
		err := chain.Run(conduit.SliceSource(lo.Range(items)), func(int) { count++ }, conduit.WithPoolSize(poolSize))
		fmt.Printf("(par: %s, %d items)\n", time.Since(start), count)
		return err
	}()
	if err != nil {
		return "", err
	}

	start := time.Now()
	lo.ForEach(lo.Range(items), func(i, _ int) { dumbProc(i) })
	fmt.Printf("(seq: %s)\n", time.Since(start))
	fmt.Printf("profile:%s\n", f.Name())

	// Call pprof on a file
	// pprof -http=:8080 $file
	return f.Name(), nil
}
