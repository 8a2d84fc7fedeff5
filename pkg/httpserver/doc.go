// Package httpserver runs the API's http.Server with graceful shutdown and
// exposes liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run blocks until ctx is cancelled, SIGINT/SIGTERM arrives or the listener
// fails. In-flight requests get Config.ShutdownTimeout to finish.
//
// Readiness runs named dependency checks (Postgres, Redis) and reports each
// one in a JSON body; Liveness always answers 200.
package httpserver
