package gametest

import (
	"slices"
	"testing"
)

// AssertSlice fails the test when two slices differ.
func AssertSlice[T comparable](t testing.TB, name string, got, want []T) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("%s: got %v, expected %v", name, got, want)
	}
}
