// Package bootstrap runs a speakmate binary through its lifecycle: config
// defaults and validation, logger setup, component start, configure
// callbacks, readiness, then either blocking until a shutdown signal (Run)
// or executing a finite task (RunTask) before a graceful stop.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return wireRoutes(a.Cfg, server)
//	})
//	err = app.Run(ctx)
package bootstrap
