package cmdutils

import (
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/profile"
)

// ProfileKinds are accepted by EnableProfiling.
var ProfileKinds = []string{"cpu", "mem", "trace", "block", "mutex"}

// EnableProfiling starts profiling of the given kind. Call onEnd before exiting to write the profile.
func EnableProfiling(kind string, wr io.Writer) (onEnd func(), _ error) {
	var mode func(*profile.Profile)
	switch kind {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "trace":
		mode = profile.TraceProfile
	case "block":
		mode = profile.BlockProfile
	case "mutex":
		mode = profile.MutexProfile
	default:
		return nil, fmt.Errorf("unexpected profile: %v, expecting one of %v", kind, ProfileKinds)
	}

	dir, err := ioutil.TempDir("", "ripblame-profile")
	if err != nil {
		return nil, err
	}
	stop := profile.Start(mode, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook).Stop

	return func() {
		stop()
		fn := filepath.Join(dir, kind+".pprof")
		fmt.Fprintf(wr, "to view profile, run `go tool pprof --pdf %s`\n", fn)
	}, nil
}
