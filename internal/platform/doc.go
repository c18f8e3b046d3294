package platform

// Package platform contains OS integration helpers: external process execution,
// dependency checks, filename sanitization and revealing folders in the native
// file manager.
