package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults tuned for the stock peel feel: underdamped spring with
// visible overshoot on snap-back, grab zones discoverable from the
// viewport edges.
const (
	DefaultSpringK        = 18.0
	DefaultDamping        = 0.72
	DefaultDt             = 1.0 / 60.0
	DefaultSnapThreshold  = 0.35
	DefaultDragGain       = 2.2
	DefaultDeadZone       = 0.03
	DefaultSettleProgress = 0.005
	DefaultSettleVelocity = 0.002
	DefaultSnapOffDelay   = 0.350
	DefaultMaxFrameDelta  = 0.050
	DefaultCurlRadius     = 0.1

	DefaultSnapRadiusPx = 12.0
	DefaultEdgeSamples  = 9

	DefaultCrackStep      = 0.015
	DefaultJaggedness     = 0.04
	DefaultEdgeTaper      = 0.2
	DefaultBranchAngleMin = 30.0
	DefaultBranchAngleMax = 60.0
	DefaultBranchLenMin   = 0.10
	DefaultBranchLenMax   = 0.22

	DefaultMaskResolution   = 256
	DefaultAreaFactor       = 0.5
	DefaultClearedThreshold = 0.98
)

// Config collects every tunable of the simulation. Components receive
// it by value at construction; there is no package-level state, so
// independent surfaces can run side by side with different tunings.
type Config struct {
	Peel  PeelConfig  `yaml:"peel"`
	Zones ZonesConfig `yaml:"zones"`
	Crack CrackConfig `yaml:"crack"`
	Mask  MaskConfig  `yaml:"mask"`
	Frame FrameConfig `yaml:"frame"`
}

// PeelConfig drives the spring-damper integrator and the peel state
// machine thresholds.
type PeelConfig struct {
	SpringK        float64 `yaml:"spring_k"`
	Damping        float64 `yaml:"damping"`
	Dt             float64 `yaml:"dt"`
	SnapThreshold  float64 `yaml:"snap_threshold"`
	DragGain       float64 `yaml:"drag_gain"`
	DeadZone       float64 `yaml:"dead_zone"`
	SettleProgress float64 `yaml:"settle_progress"`
	SettleVelocity float64 `yaml:"settle_velocity"`
	SnapOffDelay   float64 `yaml:"snap_off_delay"`
}

type ZonesConfig struct {
	SnapRadiusPx float64 `yaml:"snap_radius_px"`
	EdgeSamples  int     `yaml:"edge_samples"`
}

type CrackConfig struct {
	Step           float64 `yaml:"step"`
	Jaggedness     float64 `yaml:"jaggedness"`
	EdgeTaper      float64 `yaml:"edge_taper"`
	BranchAngleMin float64 `yaml:"branch_angle_min"` // degrees
	BranchAngleMax float64 `yaml:"branch_angle_max"` // degrees
	BranchLenMin   float64 `yaml:"branch_len_min"`
	BranchLenMax   float64 `yaml:"branch_len_max"`
}

type MaskConfig struct {
	Resolution       int     `yaml:"resolution"`
	AreaFactor       float64 `yaml:"area_factor"`
	ExactArea        bool    `yaml:"exact_area"`
	ClearedThreshold float64 `yaml:"cleared_threshold"`
}

type FrameConfig struct {
	MaxFrameDelta float64 `yaml:"max_frame_delta"`
	CurlRadius    float64 `yaml:"curl_radius"`
}

func Default() Config {
	return Config{
		Peel: PeelConfig{
			SpringK:        DefaultSpringK,
			Damping:        DefaultDamping,
			Dt:             DefaultDt,
			SnapThreshold:  DefaultSnapThreshold,
			DragGain:       DefaultDragGain,
			DeadZone:       DefaultDeadZone,
			SettleProgress: DefaultSettleProgress,
			SettleVelocity: DefaultSettleVelocity,
			SnapOffDelay:   DefaultSnapOffDelay,
		},
		Zones: ZonesConfig{
			SnapRadiusPx: DefaultSnapRadiusPx,
			EdgeSamples:  DefaultEdgeSamples,
		},
		Crack: CrackConfig{
			Step:           DefaultCrackStep,
			Jaggedness:     DefaultJaggedness,
			EdgeTaper:      DefaultEdgeTaper,
			BranchAngleMin: DefaultBranchAngleMin,
			BranchAngleMax: DefaultBranchAngleMax,
			BranchLenMin:   DefaultBranchLenMin,
			BranchLenMax:   DefaultBranchLenMax,
		},
		Mask: MaskConfig{
			Resolution:       DefaultMaskResolution,
			AreaFactor:       DefaultAreaFactor,
			ExactArea:        true,
			ClearedThreshold: DefaultClearedThreshold,
		},
		Frame: FrameConfig{
			MaxFrameDelta: DefaultMaxFrameDelta,
			CurlRadius:    DefaultCurlRadius,
		},
	}
}

// Load reads a yaml file over the defaults, so partial files only
// override the keys they name.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c Config) Validate() error {
	if c.Peel.Dt <= 0 {
		return fmt.Errorf("peel.dt must be positive, got %f", c.Peel.Dt)
	}
	if c.Peel.SpringK <= 0 {
		return fmt.Errorf("peel.spring_k must be positive, got %f", c.Peel.SpringK)
	}
	if c.Peel.Damping <= 0 || c.Peel.Damping >= 1 {
		return fmt.Errorf("peel.damping must be in (0,1), got %f", c.Peel.Damping)
	}
	if c.Peel.SnapThreshold <= 0 || c.Peel.SnapThreshold > 1 {
		return fmt.Errorf("peel.snap_threshold must be in (0,1], got %f", c.Peel.SnapThreshold)
	}
	if c.Zones.SnapRadiusPx <= 0 {
		return fmt.Errorf("zones.snap_radius_px must be positive, got %f", c.Zones.SnapRadiusPx)
	}
	if c.Zones.EdgeSamples < 2 {
		return fmt.Errorf("zones.edge_samples must be at least 2, got %d", c.Zones.EdgeSamples)
	}
	if c.Crack.Step <= 0 {
		return fmt.Errorf("crack.step must be positive, got %f", c.Crack.Step)
	}
	if c.Mask.Resolution < 8 {
		return fmt.Errorf("mask.resolution must be at least 8, got %d", c.Mask.Resolution)
	}
	if c.Mask.ClearedThreshold <= 0 || c.Mask.ClearedThreshold > 1 {
		return fmt.Errorf("mask.cleared_threshold must be in (0,1], got %f", c.Mask.ClearedThreshold)
	}
	if c.Frame.MaxFrameDelta < c.Peel.Dt {
		return fmt.Errorf("frame.max_frame_delta must be at least peel.dt")
	}
	return nil
}
