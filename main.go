package main

import (
	"fmt"
	"os"

	"github.com/KurtChenkoyu/LexiCraft.XYZ-sub003/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
