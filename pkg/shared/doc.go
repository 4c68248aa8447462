// Package shared provides primitives used across the token, directory, and
// registry packages: the 20-byte Identity type with its canonical hex form,
// and the zero-identity sentinel used as the mint source.
package shared
