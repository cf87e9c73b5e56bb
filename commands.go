package gosim

// Commands is the handle Modules use to register resources during the
// install/build phase. Install also receives the *App itself, which modules
// use directly to schedule systems; systems are handed the *App on each
// call rather than keeping one from install time.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}
