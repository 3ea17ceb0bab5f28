// Package app provides process initialization and lifecycle management for
// the delivery commands.
//
// # Runtime
//
// Every command starts from a Runtime: the loaded configuration, the
// resolved data directories, the global JSON logger and the OpenTelemetry
// providers. Runtime also wires the delivery and ranking services so the
// command entry points stay flag parsing only.
//
//	rt, err := app.NewRuntime(cfg, "delivery-fetcher")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close(ctx)
//	paths, err := rt.DeliveryService().Run(ctx, date, opts)
//
// Close writes the Prometheus textfile when telemetry.metrics_textfile is
// set, so batch runs leave their counters behind for node_exporter.
//
// # Web service
//
// Application serves the artifacts read-only over HTTP. Run blocks until
// the context is cancelled and then drains in-flight requests for at most
// server.shutdown_timeout.
//
//	a, err := app.NewApplication(rt)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return a.Run(ctx)
package app
