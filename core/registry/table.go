package registry

// TableEntry binds a delta type key to the attribute names that hold its
// config and model descriptors inside a module. Table order is load-bearing:
// enumeration follows it, and so does substring dispatch in the auto layer.
type TableEntry struct {
	Key    string
	Module string
	Config string
	Model  string
}
