// Package auto resolves textual delta type identifiers into concrete config
// and model implementations. It is the entry point of the library: build a
// config from a raw mapping or a saved artifact, then attach a fresh delta
// to a backbone or restore a finetuned one.
package auto
