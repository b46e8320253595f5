// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api hosts the HTTP server for research-finder. Routes:
//   - GET /search?q= runs one aggregated search and returns
//     {"results": [...], "sources": [...]}.
//   - GET /healthz for liveness probes.
//   - GET /metrics for Prometheus scraping.
//   - GET /* serves the browser UI when a static directory is configured.
package api
