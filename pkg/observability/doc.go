/*
Package observability turns orchestrator lifecycle events into Prometheus metrics.

Metrics are kept in a private registry and exported as a node_exporter textfile after each
run, since a batch pipeline has no long-lived scrape endpoint.
*/
package observability
