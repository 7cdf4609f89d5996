// Package infra contains technical adapters such as artifact loaders,
// metrics exporters and journal stores. These packages should depend only
// on the interfaces defined in the core packages.
package infra
