// Package web fetches remote articles over HTTP and converts them to
// markdown. Requests are rate limited and retried; page metadata is read
// from meta tags and the HTML body is sanitized before conversion.
package web
