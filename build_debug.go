//go:build debug

package reporter

const debugBuild = true
