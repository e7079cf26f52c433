//go:build !debug

package reporter

const debugBuild = false
