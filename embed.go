package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the binary: admin.js.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
