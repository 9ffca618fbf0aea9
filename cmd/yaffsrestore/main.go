// Command yaffsrestore reconstructs a YAFFS-family filesystem image from a
// raw NAND data dump and its parallel out-of-band dump.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
