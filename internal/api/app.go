package api

import (
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/service"
)

type App interface {
	Logger() internal.Logger
	Location() *time.Location
	Now() time.Time
	Profiles() *service.ProfileService
	Ledger() *service.Ledger
	Summaries() *service.SummaryService
	Debug() *service.DebugService
}

// Services wires every service over one shared Env.
type Services struct {
	env       *service.Env
	profiles  *service.ProfileService
	ledger    *service.Ledger
	summaries *service.SummaryService
	debug     *service.DebugService
}

func NewServices(env *service.Env, toggle service.DemoToggle) *Services {
	profiles := service.NewProfileService(env)
	return &Services{
		env:       env,
		profiles:  profiles,
		ledger:    service.NewLedger(env),
		summaries: service.NewSummaryService(env),
		debug:     service.NewDebugService(env, toggle, profiles),
	}
}

func (s *Services) Logger() internal.Logger            { return s.env.Logger }
func (s *Services) Location() *time.Location           { return s.env.Location }
func (s *Services) Now() time.Time                     { return s.env.Clock.Now() }
func (s *Services) Profiles() *service.ProfileService  { return s.profiles }
func (s *Services) Ledger() *service.Ledger            { return s.ledger }
func (s *Services) Summaries() *service.SummaryService { return s.summaries }
func (s *Services) Debug() *service.DebugService       { return s.debug }

var _ App = (*Services)(nil)
