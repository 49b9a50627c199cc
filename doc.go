// Package parseable ships Temporal workflow telemetry to Parseable.
//
// A Plugin bootstraps one OpenTelemetry provider per enabled signal, each
// exporting to its own Parseable stream through the OTLP/HTTP JSON ingestion
// endpoint, and hands out Temporal client and worker options that produce
// that telemetry: a tracing interceptor, an SDK metrics handler, activity
// metrics, and a zap-backed logger bridged into the logs stream.
//
//	cfg, err := parseable.Load("parseable.yaml")
//	if err != nil {
//	    return err
//	}
//	plugin, warnings, err := parseable.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer plugin.Shutdown(context.Background())
//
//	c, err := client.Dial(plugin.ClientOptions(client.Options{}))
//	...
//	w := worker.New(c, "orders", plugin.WorkerOptions(worker.Options{}))
//
// # Guarantees
//
//   - Process Safety: the plugin never terminates the process.
//   - Failure Isolation: a signal whose exporter cannot be built is disabled
//     and reported as a Warning; the other signals keep working.
//   - Lifecycle: Shutdown(ctx) flushes every provider on a best-effort basis.
package parseable
