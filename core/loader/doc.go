// Package loader provides the feature loading system.
//
// Each feature implements Feature and registers its own routes. The Manager
// loads public features first, installs the auth guard, then loads the
// protected features, so the order of app.Use calls decides what needs a token.
//
//	mgr := loader.NewManager(logg)
//	_ = mgr.Register(pages.NewFeature(...))
//	_ = mgr.Register(browser.NewFeature(...))
//	err := mgr.LoadAll(app, auth.New(authCfg))
package loader
