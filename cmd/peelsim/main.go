package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"peelsim/internal/config"
	"peelsim/internal/crack"
	"peelsim/internal/geom"
	"peelsim/internal/gesture"
	"peelsim/internal/storage"
	"peelsim/internal/surface"
	"peelsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	// Peel tunables
	springK       float64
	damping       float64
	snapThreshold float64
	dragGain      float64
	// Crack tunables
	jaggedness float64
	// Mask tunables
	resolution int
	exactArea  bool
	// path command
	originX float64
	originY float64
	asJSON  bool
	// run command
	viewportW float64
	viewportH float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "peelsim",
		Short: "interactive peelable surface simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view when no command given
			return runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".peelsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive view driven by the mouse",
		RunE:  runLive,
	}
	addTuningFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run [script]",
		Short: "play a scripted gesture headless and record the session",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addTuningFlags(runCmd)
	runCmd.Flags().Float64Var(&viewportW, "width", 1000, "viewport width in pixels")
	runCmd.Flags().Float64Var(&viewportH, "height", 800, "viewport height in pixels")

	scriptsCmd := &cobra.Command{
		Use:   "scripts",
		Short: "list available gesture scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range gesture.List() {
				sc, _ := gesture.Get(name)
				fmt.Printf("  %-14s %.1fs, %d events\n", name, sc.Duration, len(sc.Events))
			}
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "generate a crack path from an origin point",
		RunE:  buildPath,
	}
	pathCmd.Flags().Float64Var(&originX, "ox", 0.5, "origin x in uv space")
	pathCmd.Flags().Float64Var(&originY, "oy", 0.3, "origin y in uv space")
	pathCmd.Flags().BoolVar(&asJSON, "json", false, "emit waypoints as json")
	pathCmd.Flags().Float64Var(&jaggedness, "jaggedness", config.DefaultJaggedness, "perpendicular jitter amplitude")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded sessions",
		RunE:  listSessions,
	}

	exportCmd := &cobra.Command{
		Use:   "export [session_id]",
		Short: "export session metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [session_id]",
		Short: "export session timeline to csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, scriptsCmd, pathCmd, presetsCmd, listCmd, exportCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addTuningFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&springK, "spring-k", config.DefaultSpringK, "spring stiffness")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "velocity damping per step")
	cmd.Flags().Float64Var(&snapThreshold, "snap-threshold", config.DefaultSnapThreshold, "progress at which release tears")
	cmd.Flags().Float64Var(&dragGain, "drag-gain", config.DefaultDragGain, "drag distance to progress gain")
	cmd.Flags().Float64Var(&jaggedness, "jaggedness", config.DefaultJaggedness, "crack jitter amplitude")
	cmd.Flags().IntVar(&resolution, "resolution", config.DefaultMaskResolution, "tear mask grid resolution")
	cmd.Flags().BoolVar(&exactArea, "exact-area", true, "use exact polygon area for the torn fraction")
}

// loadConfig resolves the effective configuration: preset, then config
// file, then explicit flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return cfg, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("spring-k") {
		cfg.Peel.SpringK = springK
	}
	if cmd.Flags().Changed("damping") {
		cfg.Peel.Damping = damping
	}
	if cmd.Flags().Changed("snap-threshold") {
		cfg.Peel.SnapThreshold = snapThreshold
	}
	if cmd.Flags().Changed("drag-gain") {
		cfg.Peel.DragGain = dragGain
	}
	if cmd.Flags().Changed("jaggedness") {
		cfg.Crack.Jaggedness = jaggedness
	}
	if cmd.Flags().Changed("resolution") {
		cfg.Mask.Resolution = resolution
	}
	if cmd.Flags().Changed("exact-area") {
		cfg.Mask.ExactArea = exactArea
	}

	return cfg, cfg.Validate()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	name := args[0]

	sc, ok := gesture.Get(name)
	if !ok {
		return fmt.Errorf("unknown script: %s (available: %v)", name, gesture.List())
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	surf := surface.New(cfg, geom.Viewport{W: viewportW, H: viewportH})

	fmt.Printf("playing %s...\n", name)
	start := time.Now()
	res := gesture.Play(surf, sc)
	elapsed := time.Since(start)

	presetName := preset
	if presetName == "" {
		presetName = "default"
	}
	id, err := st.Save(presetName, res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("session id: %s\n", id)
	fmt.Printf("frames: %d\n", len(res.Samples))
	fmt.Printf("tears: %d\n", res.Tears)
	fmt.Printf("torn fraction: %.4f\n", res.FinalFraction)
	fmt.Printf("grab zones: %d\n", res.ZoneCount)
	if res.Cleared {
		fmt.Println("surface cleared")
	}

	progress := make([]float64, len(res.Samples))
	fraction := make([]float64, len(res.Samples))
	for i, smp := range res.Samples {
		progress[i] = smp.Progress
		fraction[i] = smp.Fraction
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(progress,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("peel progress"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(fraction,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("torn fraction"),
	))

	return nil
}

func buildPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gen := crack.NewGenerator(cfg.Crack)
	origin := geom.Vec{X: originX, Y: originY}
	primary := gen.BuildPath(origin)
	branches := gen.BuildBranches(primary)

	if asJSON {
		out := struct {
			Origin   geom.Vec       `json:"origin"`
			Primary  []geom.Vec     `json:"primary"`
			Branches []crack.Branch `json:"branches"`
		}{origin, primary, branches}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("crack from (%.3f, %.3f): %d waypoints, %d branches\n\n",
		origin.X, origin.Y, len(primary), len(branches))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tX\tY")
	for i, p := range primary {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\n", i, p.X, p.Y)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for i, br := range branches {
		fmt.Printf("\nbranch %d (from waypoint %d): %d points\n", i, br.Start, len(br.Points))
	}
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sessions, err := st.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCRIPT\tPRESET\tTIME\tTEARS\tFRACTION\tZONES")

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\t%d\n",
			s.ID,
			s.Script,
			s.Preset,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Tears,
			s.FinalFraction,
			s.ZoneCount,
		)
	}

	return w.Flush()
}
