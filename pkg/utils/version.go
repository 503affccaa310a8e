// Package utils holds build metadata stamped in with -ldflags, e.g.
//
//	-X github.com/papercomputeco/switchboard/pkg/utils.Version=v0.3.0
package utils

var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
