package gosim

import (
	"fmt"
	"reflect"
	"slices"
)

// System is a unit of per-tick work scheduled into a Stage. Unlike the
// reflection-based dependency injection this engine originally tried to do
// for system arguments, a System takes the App directly and pulls whatever
// resources it needs through Resource/MustResource.
type System func(app *App)

type UpdateType int

const (
	FixedUpdate UpdateType = iota
	DynamicUpdate
)

type Stage struct {
	Name       string
	UpdateType UpdateType
}

// The tick is split into five stages. There is no PreRender/Render/PostRender
// here: this module has no renderer, only the flow-net step driver.
var (
	Prelude    = Stage{Name: "Prelude", UpdateType: DynamicUpdate}
	PreUpdate  = Stage{Name: "PreUpdate", UpdateType: DynamicUpdate}
	Update     = Stage{Name: "Update", UpdateType: DynamicUpdate}
	PostUpdate = Stage{Name: "PostUpdate", UpdateType: DynamicUpdate}
	Finale     = Stage{Name: "Finale", UpdateType: DynamicUpdate}
)

type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages  []Stage
	systems map[string][]System
	modules []Module

	resources map[reflect.Type]any
}

func NewApp() *App {
	app := &App{
		systems:   make(map[string][]System),
		resources: make(map[reflect.Type]any),
	}
	app.stages = []Stage{Prelude, PreUpdate, Update, PostUpdate, Finale}
	for _, s := range app.stages {
		app.systems[s.Name] = nil
	}
	return app
}

func (app *App) UseModules(modules ...Module) *App {
	app.modules = append(app.modules, modules...)
	return app
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageBefore, target: s}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{position: stageAfter, target: s}
}

// UseStage inserts a new stage relative to an existing one. Needed by
// callers that want a step driver phase between two of the built-ins.
func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	idx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if idx == -1 {
		panic(fmt.Sprintf("stage %v not found", where.target.Name))
	}
	insertAt := idx
	if where.position == stageAfter {
		insertAt = idx + 1
	}
	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.systems[stage.Name] = nil
	return app
}

type systemScheduleBuilder struct {
	system  System
	inStage Stage
}

// Sys starts a fluent declaration of where to schedule a system. Defaults
// to the Update stage.
func Sys(system System) systemScheduleBuilder {
	return systemScheduleBuilder{system: system, inStage: Update}
}

func (b systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	b.inStage = s
	return b
}

func (app *App) UseSystem(b systemScheduleBuilder) *App {
	if _, ok := app.systems[b.inStage.Name]; !ok {
		panic(fmt.Sprintf("stage %v does not exist", b.inStage.Name))
	}
	app.systems[b.inStage.Name] = append(app.systems[b.inStage.Name], b.system)
	return app
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		t := reflect.TypeOf(resource)
		if t.Kind() != reflect.Ptr {
			panic(fmt.Sprintf("resource %v must be registered as a pointer", t))
		}
		elem := t.Elem()
		if _, ok := app.resources[elem]; ok {
			panic(fmt.Sprintf("%s is already in resources", elem))
		}
		app.resources[elem] = resource
	}
	return app
}

// Resource looks up a resource of type T, installed earlier via
// Commands.AddResources. Returns false if none is installed.
func Resource[T any](app *App) (*T, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	r, ok := app.resources[t]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// MustResource is Resource but panics when the resource is missing; used by
// systems for resources a Module is known to always install (Time, Logger).
func MustResource[T any](app *App) *T {
	r, ok := Resource[T](app)
	if !ok {
		var zero T
		panic(fmt.Sprintf("missing resource %T", zero))
	}
	return r
}

func (app *App) Commands() *Commands {
	return &Commands{app: app}
}

// Build installs every registered module, in registration order.
func (app *App) Build() *App {
	commands := app.Commands()
	for _, module := range app.modules {
		module.Install(app, commands)
	}
	return app
}

// Run executes the configured stages, in order, once per tick, for the given
// number of ticks.
func (app *App) Run(ticks int) {
	for i := 0; i < ticks; i++ {
		for _, stage := range app.stages {
			for _, system := range app.systems[stage.Name] {
				system(app)
			}
		}
	}
}
