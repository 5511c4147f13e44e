package service

import "context"

type DemoToggle interface {
	SetDemo(enabled bool)
	DemoEnabled() bool
}

// DebugService backs the inspection screen.
type DebugService struct {
	env      *Env
	toggle   DemoToggle
	profiles *ProfileService
}

func NewDebugService(env *Env, toggle DemoToggle, profiles *ProfileService) *DebugService {
	return &DebugService{env: env, toggle: toggle, profiles: profiles}
}

// SetDemoMode swaps the active data source; readers see the switch on their
// next call.
func (d *DebugService) SetDemoMode(enabled bool) {
	d.toggle.SetDemo(enabled)
	d.env.Logger.Infof("debug: demo mode set to %t", enabled)
	d.env.Hub.Publish(Change{Kind: ChangeSource})
}

func (d *DebugService) DemoMode() bool { return d.toggle.DemoEnabled() }

func (d *DebugService) LastError() *ReportedError { return d.env.Reporter.Last() }

func (d *DebugService) ClearAll(ctx context.Context) error { return d.profiles.ClearAll(ctx) }
