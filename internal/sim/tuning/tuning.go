package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the empirical balance constants for the decision core. The
// arithmetic these feed is tuned gameplay; ports must not "improve" it.
type Tuning struct {
	TickRateHz  int     `yaml:"tick_rate_hz"`
	ReferenceHz float64 `yaml:"reference_hz"`

	Detection Detection `yaml:"detection"`
	Combat    Combat    `yaml:"combat"`
	Collision Collision `yaml:"collision"`
	Endurance Endurance `yaml:"endurance"`
}

// Detection drives the visible-enemy score of the threat assessor.
type Detection struct {
	Threshold            float64 `yaml:"threshold"`              // score needed to notice a human
	RunBonus             float64 `yaml:"run_bonus"`              // target is running
	SprintBonus          float64 `yaml:"sprint_bonus"`           // target is sprinting
	SneakPenalty         float64 `yaml:"sneak_penalty"`          // target is sneaking
	SneakVegetationBonus float64 `yaml:"sneak_vegetation_bonus"` // extra penalty near cuttable vegetation
	CloseBase            float64 `yaml:"close_base"`             // distance bonus = close_base - close_slope*dist
	CloseSlope           float64 `yaml:"close_slope"`
	CloseMaxDist         float64 `yaml:"close_max_dist"` // bonus applies only below this distance
	RivalLightMin        float64 `yaml:"rival_light_min"`
	ScanRadius           float64 `yaml:"scan_radius"`
}

type Combat struct {
	EscapeRadius    float64 `yaml:"escape_radius"`
	BackwardRadius  float64 `yaml:"backward_radius"`
	EscapeMargin    int     `yaml:"escape_margin"` // escape when enemies >= friendlies + margin
	ShoveRange      float64 `yaml:"shove_range"`
	MeleeIndoor     float64 `yaml:"melee_indoor"`
	MeleeOutdoor    float64 `yaml:"melee_outdoor"`
	FireRangeBuffer float64 `yaml:"fire_range_buffer"`
	HealThreshold   float64 `yaml:"heal_threshold"`
	RetreatCrowd    int     `yaml:"retreat_crowd"` // very-close enemies needed for suppressive retreat
}

type Collision struct {
	FaceDotMin          float64 `yaml:"face_dot_min"` // cos of max misalignment before a FACE task is needed
	UnbarricadePerPlank float64 `yaml:"unbarricade_per_plank"`
	SmashDuration       float64 `yaml:"smash_duration"`
	ClimbDuration       float64 `yaml:"climb_duration"`
	DestroyDuration     float64 `yaml:"destroy_duration"`
}

type Endurance struct {
	RegenPerTick float64 `yaml:"regen_per_tick"`
	SpeechDecay  float64 `yaml:"speech_decay"`
	SoundDecay   float64 `yaml:"sound_decay"`
}

// Default returns the shipped constants. Tests rely on these values; they
// mirror configs/tuning.yaml.
func Default() Tuning {
	return Tuning{
		TickRateHz:  60,
		ReferenceHz: 60,
		Detection: Detection{
			Threshold:            0.32,
			RunBonus:             0.1,
			SprintBonus:          0.12,
			SneakPenalty:         0.1,
			SneakVegetationBonus: 0.15,
			CloseBase:            0.65,
			CloseSlope:           0.075,
			CloseMaxDist:         8,
			RivalLightMin:        0.3,
			ScanRadius:           30,
		},
		Combat: Combat{
			EscapeRadius:    10,
			BackwardRadius:  5,
			EscapeMargin:    3,
			ShoveRange:      0.9,
			MeleeIndoor:     1.2,
			MeleeOutdoor:    1.5,
			FireRangeBuffer: 2,
			HealThreshold:   0.4,
			RetreatCrowd:    4,
		},
		Collision: Collision{
			FaceDotMin:          0.7,
			UnbarricadePerPlank: 80,
			SmashDuration:       90,
			ClimbDuration:       60,
			DestroyDuration:     120,
		},
		Endurance: Endurance{
			RegenPerTick: 0.002,
			SpeechDecay:  1,
			SoundDecay:   1,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Check(); err != nil {
		return t, err
	}
	return t, nil
}

// Check rejects configurations the decision core cannot run with.
func (t Tuning) Check() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tuning: tick_rate_hz must be > 0")
	}
	if t.ReferenceHz <= 0 {
		return fmt.Errorf("tuning: reference_hz must be > 0")
	}
	if t.Detection.Threshold <= 0 {
		return fmt.Errorf("tuning: detection.threshold must be > 0")
	}
	if t.Combat.MeleeIndoor <= 0 || t.Combat.MeleeOutdoor <= 0 {
		return fmt.Errorf("tuning: melee ranges must be > 0")
	}
	return nil
}
