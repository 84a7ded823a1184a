//go:build wasm

package internal

// wasm runs a single thread and dispatch never yields,
// so every dispatch can be attributed to the same owner.
func GoroutineID() int64 {
	return 1
}
