// memview exercises the malloc heap on an in-memory region and prints
// the block list after each step.
//
// Usage:
//
//	memview [-cap bytes]
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/brkd/malloc"
	"github.com/brkd/malloc/mem"
)

func main() {
	capFlag := flag.Int("cap", 1<<20, "region capacity in bytes")
	flag.Parse()

	heap := malloc.New(mem.NewRegion(*capFlag))

	a := heap.Alloc(20)
	b := heap.Calloc(3, 4)
	dump(heap, "after alloc(20) and calloc(3, 4)")

	heap.Free(a)
	dump(heap, "after free of the first block")

	b = heap.Realloc(b, 20)
	dump(heap, "after realloc of the second block to 20 bytes")

	heap.Free(b)
	dump(heap, "after free of the remaining block")
}

func dump(heap *malloc.Heap, title string) {
	stats := heap.Stats()
	fmt.Printf("%s: %d block(s), %d bytes in use, %d free, %d total\n",
		title, stats.Blocks, stats.AllocatedSize, stats.FreeSize, stats.TotalSize)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  addr\tsize\tfree\tnext")
	for _, block := range heap.Blocks() {
		fmt.Fprintf(w, "  %#x\t%d\t%v\t%#x\n", block.Addr, block.Size, block.Free, block.Next)
	}
	w.Flush()
	fmt.Println()
}
