// Package main hosts the pdfc CLI entrypoint and command graph.
//
// The Cobra-based command tree compresses PDFs from the terminal with the
// same Ghostscript runner the desktop app uses, checks environment health,
// and reviews recorded compression history.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
