package flushio

import "io"

// WriteFlushers combines any number of WriteFlushers into one that writes
// into and flushes all of them in order, letting WithTee mirror engine
// output to a second sink (e.g. a trace file) alongside the primary one.
func WriteFlushers(wfs ...WriteFlusher) WriteFlusher {
	flat := flatten(nil, wfs...)
	switch len(flat) {
	case 0:
		return nopFlusher{io.Discard}
	case 1:
		return flat[0]
	default:
		return multiFlusher(flat)
	}
}

type multiFlusher []WriteFlusher

func (m multiFlusher) Write(p []byte) (int, error) {
	for _, wf := range m {
		n, err := wf.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (m multiFlusher) Flush() error {
	var first error
	for _, wf := range m {
		if err := wf.Flush(); first == nil {
			first = err
		}
	}
	return first
}

func flatten(into multiFlusher, wfs ...WriteFlusher) multiFlusher {
	for _, wf := range wfs {
		if nested, ok := wf.(multiFlusher); ok {
			into = append(into, nested...)
		} else if wf != nil {
			into = append(into, wf)
		}
	}
	return into
}
