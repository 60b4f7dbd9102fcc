package platform

// Package platform contains OS integration and external tooling glue:
// filesystem scanning helpers and the process runner used to drive the
// image conversion CLI.
