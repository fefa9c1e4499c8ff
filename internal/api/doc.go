// Package api hosts the long-running HTTP server variant. Notable routes:
//   - GET / describes the service and lists the supported operations.
//   - POST /scraper/{method} dispatches any operation by name.
//   - POST /{operation} is a fixed route per operation.
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping (when enabled).
package api
