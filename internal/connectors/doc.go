// Package connectors groups the packages that bring content into the
// vault or observe it: the web connector fetches remote articles, the
// filesystem package watches the vault for changes.
package connectors
