package abiutils

// DynamicSpecs resolves named specification values or expressions over them.
type DynamicSpecs interface {
	ResolveSpecValue(name string) (bool, uint64, error)
}
