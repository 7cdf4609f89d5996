// Package registry implements the lazy lookup tables behind the auto
// factories. A ConfigRegistry maps delta type keys to config descriptors and
// a ModelRegistry dispatches config values to model descriptors through a
// reverse index on config type names. Built-in entries resolve their backing
// module only when first looked up; dynamic registrations extend either
// table at runtime but can never shadow a built-in.
package registry
