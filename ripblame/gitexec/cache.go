package gitexec

import (
	"compress/gzip"
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/pinpt/ripblame/ripblame/pkg/logger"
	"github.com/tinylib/msgp/msgp"
)

// CacheDirName is created in the git directory of the repository when caching is enabled.
const CacheDirName = "ripblame-cache"

// CachedRunner stores successful command output on disk and reuses it for the same
// arguments and salt. Salt must change whenever the output could change, for example
// the head commit and the content of the blamed file.
type CachedRunner struct {
	Runner Runner
	Dir    string
	Salt   []byte
	Logger logger.Logger
}

func (s *CachedRunner) Run(ctx context.Context, command string, args []string, dir string) (Output, error) {
	key := cacheKey(args, s.Salt)
	loc := filepath.Join(s.Dir, key+".msgp.gz")

	stdout, ok, err := readEntry(loc, key)
	if err != nil {
		s.Logger.Debug("ignoring unreadable cache entry", "loc", loc, "err", err)
	}
	if ok {
		s.Logger.Debug("using cache", "args", strings.Join(args, " "))
		return Output{Stdout: stdout}, nil
	}

	res, err := s.Runner.Run(ctx, command, args, dir)
	if err != nil || res.ExitCode != 0 {
		return res, err
	}
	if err := writeEntry(s.Dir, loc, key, args, res.Stdout); err != nil {
		s.Logger.Error("could not write cache entry", "loc", loc, "err", err)
	}
	return res, nil
}

func cacheKey(args []string, salt []byte) string {
	h := xxhash.New()
	for _, a := range args {
		h.Write([]byte(a))
		h.Write([]byte{0})
	}
	h.Write(salt)
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h.Sum64())
	return hex.EncodeToString(b)
}

// entries are gzipped msgp maps {key, args, stdout}
func writeEntry(dir string, loc string, key string, args []string, stdout []byte) error {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return err
	}
	tmp := loc + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = writeEntryTo(f, key, args, stdout)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, loc)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func writeEntryTo(w io.Writer, key string, args []string, stdout []byte) error {
	gw := gzip.NewWriter(w)
	wr := msgp.NewWriter(gw)

	write := func() error {
		if err := wr.WriteMapHeader(3); err != nil {
			return err
		}
		if err := wr.WriteString("key"); err != nil {
			return err
		}
		if err := wr.WriteString(key); err != nil {
			return err
		}
		if err := wr.WriteString("args"); err != nil {
			return err
		}
		if err := wr.WriteArrayHeader(uint32(len(args))); err != nil {
			return err
		}
		for _, a := range args {
			if err := wr.WriteString(a); err != nil {
				return err
			}
		}
		if err := wr.WriteString("stdout"); err != nil {
			return err
		}
		if err := wr.WriteBytes(stdout); err != nil {
			return err
		}
		if err := wr.Flush(); err != nil {
			return err
		}
		return gw.Close()
	}
	return write()
}

func readEntry(loc string, key string) (stdout []byte, ok bool, _ error) {
	f, err := os.Open(loc)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false, err
	}
	defer gr.Close()
	r := msgp.NewReader(gr)

	sz, err := r.ReadMapHeader()
	if err != nil {
		return nil, false, err
	}
	var gotKey string
	for i := uint32(0); i < sz; i++ {
		field, err := r.ReadString()
		if err != nil {
			return nil, false, err
		}
		switch field {
		case "key":
			gotKey, err = r.ReadString()
		case "stdout":
			stdout, err = r.ReadBytes(nil)
		default:
			err = r.Skip()
		}
		if err != nil {
			return nil, false, fmt.Errorf("field %v: %v", field, err)
		}
	}
	if gotKey != key {
		return nil, false, fmt.Errorf("key mismatch, wanted %v got %v", key, gotKey)
	}
	return stdout, true, nil
}
