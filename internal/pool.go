package internal

import (
	"bytes"
	"sync"
)

// BufferPool recycles the scratch buffers used when hashing rail content for
// the arc-length cache.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer([]byte{})
	},
}
