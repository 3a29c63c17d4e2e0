package columnio

import (
	"runtime/debug"
)

const parquetModulePath = "github.com/parquet-go/parquet-go"

// LibraryVersion reports the version of the linked parquet library, as
// recorded in the build info of the running binary.
func LibraryVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == parquetModulePath {
			return dep.Version
		}
	}
	return "unknown"
}
