package jcat

import (
	"bytes"
	"sync"
)

const (
	maxScratchCap  = 64 * 1024
	maxPooledReprs = 4096
)

var layoutPool = sync.Pool{
	New: func() any {
		return &layout{reprs: make(map[*Value]string)}
	},
}

var bufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

func acquireLayout(opts *Options) *layout {
	l := layoutPool.Get().(*layout)
	l.reset(opts)
	return l
}

func releaseLayout(l *layout) {
	if l == nil {
		return
	}
	l.sb.Reset()
	if len(l.reprs) > maxPooledReprs {
		l.reprs = make(map[*Value]string)
	} else {
		clear(l.reprs)
	}
	layoutPool.Put(l)
}

func acquireBuffer() *bytes.Buffer {
	b := bufferPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

func releaseBuffer(b *bytes.Buffer) {
	if b == nil || b.Cap() > maxScratchCap {
		return
	}
	bufferPool.Put(b)
}
