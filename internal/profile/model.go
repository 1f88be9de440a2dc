// Package profile persists the touchscreen profile between runs.
package profile

// MaxPlayers is the number of controller ports a profile can target.
const MaxPlayers = 4

// Profile stores the user-facing touchscreen settings.
type Profile struct {
	Skin    string `yaml:"skin" json:"skin"`
	Octagon bool   `yaml:"octagon" json:"octagon"`
	Player  int    `yaml:"player" json:"player"`
	ShowFPS bool   `yaml:"show_fps" json:"showFps"`
	AuxKeys bool   `yaml:"aux_keys" json:"auxKeys"`
}

// Default returns the profile used when none is stored.
func Default() Profile {
	return Profile{AuxKeys: true}
}

// Normalize clamps the player port into range.
func Normalize(p Profile) Profile {
	if p.Player < 0 {
		p.Player = 0
	}
	if p.Player >= MaxPlayers {
		p.Player = MaxPlayers - 1
	}
	return p
}
