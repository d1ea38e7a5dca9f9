// Package ui bundles the HTML templates and static assets served by the UI
// server so the binary runs without a checkout of this directory.
package ui

import "embed"

// Templates holds templates/*.tmpl.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// Static holds the stylesheet and client script under static/.
//
//go:embed static/*
var Static embed.FS
