package app

// Plugin adds components, singletons and systems to an App.
type Plugin interface {
	Build(a *App)
}

// PluginFunc adapts a function to Plugin. Every PluginFunc shares one
// concrete type, so function plugins are never deduplicated.
type PluginFunc func(a *App)

func (f PluginFunc) Build(a *App) {
	f(a)
}
