// Package config binds the config.* section of the control namespace: the
// native component's compile-time configuration. These knobs never change
// while the process runs.
package config

import "github.com/jemkit/jemkit/ctl"

// MallocConf binds the configure-time-embedded options string. Empty unless
// a default configuration was compiled in.
func MallocConf(ch *ctl.Channel) (*ctl.StringKnob, error) {
	return ctl.NewString(ch, ctl.Def{Key: "config.malloc_conf", Access: ctl.ReadOnly})
}

// Stats binds whether statistics tracking was compiled in.
func Stats(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "config.stats", Access: ctl.ReadOnly})
}

// Prof binds whether heap profiling was compiled in.
func Prof(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "config.prof", Access: ctl.ReadOnly})
}

// Debug binds whether debug assertions were compiled in.
func Debug(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "config.debug", Access: ctl.ReadOnly})
}

// Fill binds whether junk/zero fill support was compiled in.
func Fill(ch *ctl.Channel) (*ctl.BoolKnob, error) {
	return ctl.NewBool(ch, ctl.Def{Key: "config.fill", Access: ctl.ReadOnly})
}
