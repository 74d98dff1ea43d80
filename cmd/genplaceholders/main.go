package main

import (
	"flag"
	"fmt"
	"os"

	"chosenoffset.com/softshadow/internal/placeholders"
)

func main() {
	dir := flag.String("out", "assets", "Output directory")
	flag.Parse()

	fmt.Println("Soft Shadows Lighting Asset Generator")
	fmt.Println("=====================================")
	fmt.Println()

	written, err := placeholders.GenerateAndSave(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Printf("  wrote %s\n", path)
	}

	fmt.Println()
	fmt.Println("Done! Point assets.penumbraTexture in softshadow.yaml at penumbra.png")
	fmt.Println("or reference falloff.png from a scene light's texture.")
}
