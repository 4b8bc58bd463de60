package main

import (
	"os"

	"github.com/JasMoH/mdbook-wavedrom/internal/cmd"
)

func main() {
	cmd.Execute(os.Args[1:], os.Stdout, os.Stderr)
}
