package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animation"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <demo|model.gltf|model.glb>",
		Short: "Display model information",
		Long:  "Display the node hierarchy, bounds and animation clips of a model without opening a window.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(name string) error {
	var (
		m   model.Model
		err error
	)
	if name == scene.DemoName {
		m, err = scene.NewDemoModel()
	} else {
		if _, statErr := os.Stat(name); statErr != nil {
			return fmt.Errorf("cannot access file: %w", statErr)
		}
		m, err = loader.NewLoader(loader.WithCache(false)).Load(name)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Model:      %s\n", m.Name())
	if name != scene.DemoName {
		fmt.Printf("Format:     %s\n", strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), ".")))
	}
	fmt.Printf("Nodes:      %d\n", len(m.Nodes()))
	if b, ok := m.Bounds(); ok {
		fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", b.Min[0], b.Min[1], b.Min[2])
		fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", b.Max[0], b.Max[1], b.Max[2])
	}
	fmt.Println()
	printHierarchy(m.Nodes())
	fmt.Println()
	fmt.Println("Animations:")
	for _, label := range animation.Labels(m.Animations(), animation.DefaultTicksPerSecond) {
		fmt.Printf("  %s\n", label)
	}
	return nil
}

func printHierarchy(nodes []model.Node) {
	children := make(map[int][]int, len(nodes))
	for i, n := range nodes {
		children[n.Parent] = append(children[n.Parent], i)
	}
	var walk func(i, depth int)
	walk = func(i, depth int) {
		name := nodes[i].Name
		if name == "" {
			name = fmt.Sprintf("node %d", i)
		}
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth+1), name)
		for _, c := range children[i] {
			walk(c, depth+1)
		}
	}
	for _, root := range children[-1] {
		walk(root, 0)
	}
}
