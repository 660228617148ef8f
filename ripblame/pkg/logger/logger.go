package logger

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// DefaultLogger writes one "LEVEL msg [{k v}...]" line per call.
type DefaultLogger struct {
	wr    io.Writer
	mu    sync.Mutex
	debug bool
}

// NewDefaultLogger logs all levels to wr.
func NewDefaultLogger(wr io.Writer) Logger {
	return NewLevelLogger(wr, true)
}

// NewLevelLogger drops Debug messages unless debug is set.
func NewLevelLogger(wr io.Writer, debug bool) Logger {
	s := &DefaultLogger{}
	s.wr = wr
	s.debug = debug
	return s
}

func (s *DefaultLogger) Info(msg string, args ...interface{}) {
	s.log("INFO", msg, args...)
}

func (s *DefaultLogger) Debug(msg string, args ...interface{}) {
	if !s.debug {
		return
	}
	s.log("DEBUG", msg, args...)
}

func (s *DefaultLogger) Error(msg string, args ...interface{}) {
	s.log("ERROR", msg, args...)
}

func (s *DefaultLogger) log(kind string, msg string, args ...interface{}) {
	write := func(format string, args ...interface{}) {
		s.mu.Lock()
		defer s.mu.Unlock()
		// logging must never fail the caller
		_, _ = fmt.Fprintf(s.wr, format+"\n", args...)
	}
	kvs, err := formatArgs(args)
	if err != nil {
		write("ERROR Logger invalid args passed. Msg: %v Args: %v Err: %v", msg, args, err)
		return
	}
	if len(kvs) == 0 {
		write("%v %v", kind, msg)
		return
	}
	write("%v %v %v", kind, msg, kvs)
}

type kv struct {
	K string
	V string
}

func formatArgs(args []interface{}) (res []kv, _ error) {
	if len(args)%2 != 0 {
		return nil, errors.New("len of args not even")
	}
	for i := 0; i < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			return nil, errors.New("key arg passes in not a string")
		}
		v := fmt.Sprintf("%v", args[i+1])
		res = append(res, kv{k, v})
	}
	return
}
